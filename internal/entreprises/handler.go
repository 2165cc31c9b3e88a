package entreprises

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/platform/httpx"
	"github.com/maturis/maturis/internal/shared"
)

// Handler manages tenant endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw, validator: validator.New()}
}

// MountRoutes registers tenant routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Protect(authz.RouteSpec{Module: shared.ModuleEntreprises, Resource: authz.ResourceEntreprise}))
		r.Get("/", h.listEntreprises)
		r.Get("/{id}", h.getEntreprise)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Protect(authz.RouteSpec{AdminOnly: true, Module: shared.ModuleEntreprises, Action: authz.ActionEdit}))
		r.Post("/", h.createEntreprise)
	})
}

type entreprisePayload struct {
	Nom     string `json:"nom" validate:"required,min=2,max=128"`
	Siret   string `json:"siret" validate:"omitempty,len=14,numeric"`
	Secteur string `json:"secteur" validate:"max=128"`
}

func (h *Handler) listEntreprises(w http.ResponseWriter, r *http.Request) {
	decision := authz.DecisionFromContext(r.Context())
	list, err := h.service.ListEntreprises(r.Context(), decision.Constraint)
	if err != nil {
		h.logger.Error("list entreprises", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entreprises": list})
}

func (h *Handler) getEntreprise(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	e, err := h.service.GetEntreprise(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) createEntreprise(w http.ResponseWriter, r *http.Request) {
	var payload entreprisePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	e, err := h.service.CreateEntreprise(r.Context(), payload.Nom, payload.Siret, payload.Secteur)
	if err != nil {
		h.logger.Error("create entreprise", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}
