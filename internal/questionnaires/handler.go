package questionnaires

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/platform/httpx"
	"github.com/maturis/maturis/internal/shared"
)

// Handler manages questionnaire template endpoints. Templates carry no row
// scoping so the handler talks to the repository directly.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	authz  authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, authz: mw}
}

// MountRoutes registers questionnaire routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Protect(authz.RouteSpec{Module: shared.ModuleQuestionnaires}))
		r.Get("/", h.listQuestionnaires)
		r.Get("/{id}", h.getQuestionnaire)
	})
}

func (h *Handler) listQuestionnaires(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListQuestionnaires(r.Context())
	if err != nil {
		h.logger.Error("list questionnaires", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"questionnaires": list})
}

func (h *Handler) getQuestionnaire(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	q, err := h.repo.GetQuestionnaire(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}
