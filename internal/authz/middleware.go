package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maturis/maturis/internal/platform/httpx"
)

type decisionContextKey struct{}

// ContextWithDecision stores the decision in the request context.
func ContextWithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, decisionContextKey{}, d)
}

// DecisionFromContext extracts the decision attached by the middleware.
// The zero Decision (not allowed, kind none) is returned when absent.
func DecisionFromContext(ctx context.Context) Decision {
	d, _ := ctx.Value(decisionContextKey{}).(Decision)
	return d
}

// Observer receives every terminal decision, e.g. for metrics or the audit
// trail. Observers must not block.
type Observer interface {
	ObserveDecision(ctx context.Context, req *Request, d Decision)
}

// RouteSpec declares what a route demands. The zero value means
// authentication plus scope attachment only.
type RouteSpec struct {
	AdminOnly bool
	// Module/Action gate against the permission matrix. Empty Module skips
	// the gate; empty Action defaults to view.
	Module string
	Action string
	// Resource attaches a visibility constraint and, when the route carries
	// an {id} parameter, triggers the point-ownership check.
	Resource Resource
}

// Middleware wires the authorization chain into chi handlers. Each protected
// route runs the chain exactly once per request.
type Middleware struct {
	Verifier    IdentityVerifier
	Actors      ActorStore
	Permissions *Permissions
	Owners      OwnerStore
	// Routes is the static route->permission table for the secondary gate.
	Routes map[string]string
	Logger *slog.Logger
	// Production suppresses diagnostic detail in denial responses.
	Production bool
	Observers  []Observer
}

// Protect builds the full ordered chain for the route spec: authenticate,
// optional admin gate, optional module/action gate, route table, scope.
func (m Middleware) Protect(spec RouteSpec) func(http.Handler) http.Handler {
	stages := make([]Stage, 0, 5)
	stages = append(stages, AuthenticateStage{Verifier: m.Verifier, Actors: m.Actors})
	if spec.AdminOnly {
		stages = append(stages, AdminOnlyStage{})
	}
	if spec.Module != "" {
		action := spec.Action
		if action == "" {
			action = ActionView
		}
		stages = append(stages, PermissionStage{Permissions: m.Permissions, Module: spec.Module, Action: action})
	}
	stages = append(stages, RouteStage{Permissions: m.Permissions, Table: m.Routes})
	stages = append(stages, ScopeStage{Owners: m.Owners})

	chain := NewChain(m.Logger, stages...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := m.buildRequest(r, spec.Resource)
			decision := chain.Evaluate(r.Context(), req)
			for _, obs := range m.Observers {
				obs.ObserveDecision(r.Context(), req, decision)
			}
			if !decision.Allowed {
				m.respond(w, decision)
				return
			}
			ctx := ContextWithDecision(r.Context(), decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticate verifies the credential and attaches the resolved scope,
// without any module gate. Sugar over Protect.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return m.Protect(RouteSpec{})(next)
}

// RequireAdmin restricts the subtree to administrator role tiers.
func (m Middleware) RequireAdmin() func(http.Handler) http.Handler {
	return m.Protect(RouteSpec{AdminOnly: true})
}

// RequirePermission gates on a module/action grant. Action defaults to view.
func (m Middleware) RequirePermission(module string, actions ...string) func(http.Handler) http.Handler {
	spec := RouteSpec{Module: module}
	if len(actions) > 0 {
		spec.Action = actions[0]
	}
	return m.Protect(spec)
}

func (m Middleware) buildRequest(r *http.Request, resource Resource) *Request {
	req := &Request{
		Credential: bearerCredential(r),
		RoutePath:  routePath(r),
		Resource:   resource,
	}
	if resource != "" {
		if raw := chi.URLParam(r, "id"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				req.ResourceID = id
			}
		}
	}
	return req
}

func (m Middleware) respond(w http.ResponseWriter, decision Decision) {
	if m.Production {
		decision = decision.Redacted()
	}
	title := http.StatusText(decision.HTTPStatus)
	httpx.Problem(w, decision.HTTPStatus, title, decision.Reason)
}

func bearerCredential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func routePath(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
