package formulaires

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/platform/httpx"
	"github.com/maturis/maturis/internal/shared"
)

// Handler manages form instance endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers form routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Protect(authz.RouteSpec{Module: shared.ModuleFormulaires, Resource: authz.ResourceFormulaire}))
		r.Get("/", h.listFormulaires)
		r.Get("/{id}", h.getFormulaire)
	})
}

func (h *Handler) listFormulaires(w http.ResponseWriter, r *http.Request) {
	decision := authz.DecisionFromContext(r.Context())
	list, err := h.service.ListFormulaires(r.Context(), decision.Constraint, r.URL.Query().Get("statut"))
	if err != nil {
		h.logger.Error("list formulaires", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"formulaires": list})
}

func (h *Handler) getFormulaire(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	f, err := h.service.GetFormulaire(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}
