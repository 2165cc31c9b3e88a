package evaluations

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/platform/httpx"
	"github.com/maturis/maturis/internal/shared"
)

// Handler manages evaluation endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers evaluation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Protect(authz.RouteSpec{Module: shared.ModuleEvaluations, Resource: authz.ResourceEvaluation}))
		r.Get("/", h.listEvaluations)
		r.Get("/{id}", h.getEvaluation)
	})
}

func (h *Handler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	decision := authz.DecisionFromContext(r.Context())
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, 0)

	list, err := h.service.ListEvaluations(r.Context(), decision.Constraint, pagination)
	if err != nil {
		h.logger.Error("list evaluations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"evaluations": list, "pagination": pagination})
}

func (h *Handler) getEvaluation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	ev, err := h.service.GetEvaluation(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ev)
}
