package analyses

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/platform/httpx"
	"github.com/maturis/maturis/internal/shared"
)

// Handler manages scored-analysis endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers analysis routes. The analyse resource type makes the
// scope stage deny PERSONNEL callers before any handler runs.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Protect(authz.RouteSpec{Module: shared.ModuleAnalyses, Resource: authz.ResourceAnalyse}))
		r.Get("/", h.listAnalyses)
		r.Get("/{id}", h.getAnalyse)
	})
}

func (h *Handler) listAnalyses(w http.ResponseWriter, r *http.Request) {
	decision := authz.DecisionFromContext(r.Context())
	list, err := h.service.ListAnalyses(r.Context(), decision.Constraint)
	if err != nil {
		h.logger.Error("list analyses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"analyses": list})
}

func (h *Handler) getAnalyse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	a, err := h.service.GetAnalyse(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}
