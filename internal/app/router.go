package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/maturis/maturis/internal/actors"
	"github.com/maturis/maturis/internal/analyses"
	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/entreprises"
	"github.com/maturis/maturis/internal/evaluations"
	"github.com/maturis/maturis/internal/formulaires"
	"github.com/maturis/maturis/internal/observability"
	"github.com/maturis/maturis/internal/questionnaires"
	"github.com/maturis/maturis/internal/roles"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger                *slog.Logger
	Config                *Config
	ActorsHandler         *actors.Handler
	RolesHandler          *roles.Handler
	EntreprisesHandler    *entreprises.Handler
	QuestionnairesHandler *questionnaires.Handler
	EvaluationsHandler    *evaluations.Handler
	FormulairesHandler    *formulaires.Handler
	AnalysesHandler       *analyses.Handler
	PermissionsHandler    *authz.PermissionsHandler
	Metrics               *observability.Metrics
}

// NewRouter constructs the chi.Router with platform defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/utilisateurs", params.ActorsHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/entreprises", params.EntreprisesHandler.MountRoutes)
		r.Route("/questionnaires", params.QuestionnairesHandler.MountRoutes)
		r.Route("/evaluations", params.EvaluationsHandler.MountRoutes)
		r.Route("/formulaires", params.FormulairesHandler.MountRoutes)
		r.Route("/analyses", params.AnalysesHandler.MountRoutes)
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	})

	return r
}

// RouteTable is the static route->permission map consumed by the secondary
// route gate. Keys are chi route patterns.
func RouteTable() map[string]string {
	return map[string]string{
		"/api/v1/roles/":                 "roles.view",
		"/api/v1/roles/{id}":             "roles.edit",
		"/api/v1/roles/{id}/permissions": "administration.admin",
	}
}
