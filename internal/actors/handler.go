package actors

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/platform/httpx"
	"github.com/maturis/maturis/internal/shared"
)

// Handler manages the account directory endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers actor routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Protect(authz.RouteSpec{Module: shared.ModuleUtilisateurs}))
		r.Get("/", h.listActors)
		r.Get("/{id}", h.getActor)
	})
}

func (h *Handler) listActors(w http.ResponseWriter, r *http.Request) {
	decision := authz.DecisionFromContext(r.Context())
	list, err := h.service.ListActors(r.Context(), decision.Access)
	if err != nil {
		h.logger.Error("list actors", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"utilisateurs": list})
}

func (h *Handler) getActor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	decision := authz.DecisionFromContext(r.Context())
	actor, err := h.service.GetActor(r.Context(), decision.Access, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, actor)
}
