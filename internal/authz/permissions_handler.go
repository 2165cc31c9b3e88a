package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maturis/maturis/internal/platform/httpx"
)

// PermissionsHandler exposes the grant matrix to the frontend so it can hide
// screens the actor may not open. The backend re-checks every request
// regardless.
type PermissionsHandler struct {
	logger      *slog.Logger
	permissions *Permissions
	authz       Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, permissions *Permissions, mw Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, permissions: permissions, authz: mw}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Authenticate)
		r.Get("/me", h.myPermissions)
	})
}

func (h *PermissionsHandler) myPermissions(w http.ResponseWriter, r *http.Request) {
	decision := DecisionFromContext(r.Context())
	access := decision.Access

	response := map[string]any{
		"scope":                    access.Level.String(),
		"global":                   access.Global,
		"landing_route":            access.LandingRoute,
		"can_view_all_entreprises": access.CanViewAllEntreprises,
		"can_view_all_evaluations": access.CanViewAllEvaluations,
		"can_view_all_formulaires": access.CanViewAllFormulaires,
	}

	if !access.Global {
		matrix, err := h.permissions.ForActor(r.Context(), access.ActorID)
		if err != nil {
			h.logger.Error("permission matrix", slog.Any("error", err))
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "permission matrix unavailable")
			return
		}
		response["permissions"] = matrix
	}

	httpx.JSON(w, http.StatusOK, response)
}
