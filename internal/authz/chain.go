package authz

import (
	"context"
	"fmt"
	"log/slog"
)

// IdentityVerifier validates a bearer credential and yields the actor id it
// names. Token issuance and format are the collaborator's concern.
type IdentityVerifier interface {
	VerifyCredential(ctx context.Context, credential string) (int64, error)
}

// Request carries the per-request inputs of one authorization evaluation.
// The Actor field is populated by the authenticate stage and consumed by the
// stages after it.
type Request struct {
	Credential string
	RoutePath  string
	Module     string
	Action     string
	Resource   Resource
	ResourceID int64

	Actor         Actor
	authenticated bool
}

// Stage is one ordered step of the middleware chain. A stage either allows
// (possibly enriching the request) or denies with a reason; it never writes.
type Stage interface {
	Name() string
	Evaluate(ctx context.Context, req *Request) Decision
}

// Chain runs stages strictly in order and stops at the first denial. Running
// it twice over an equivalent request yields the same decision.
type Chain struct {
	stages []Stage
	logger *slog.Logger
}

// NewChain builds a chain over the given stages.
func NewChain(logger *slog.Logger, stages ...Stage) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{stages: stages, logger: logger}
}

// Evaluate reduces the stages sequentially. The decision of the last stage
// wins when all allow; the first denial short-circuits the rest.
func (c *Chain) Evaluate(ctx context.Context, req *Request) Decision {
	decision := Allow(Access{}, NoConstraint)
	for _, stage := range c.stages {
		decision = stage.Evaluate(ctx, req)
		if !decision.Allowed {
			c.logger.Log(ctx, decision.Kind.LogLevel(), "authorization denied",
				slog.String("stage", stage.Name()),
				slog.String("kind", decision.Kind.String()),
				slog.String("reason", decision.Reason),
				slog.Int64("actor_id", req.Actor.ID),
				slog.String("route", req.RoutePath),
			)
			return decision
		}
	}
	return decision
}

// AuthenticateStage verifies the bearer credential and loads the actor.
type AuthenticateStage struct {
	Verifier IdentityVerifier
	Actors   ActorStore
}

// Name implements Stage.
func (s AuthenticateStage) Name() string { return "authenticate" }

// Evaluate implements Stage. Missing or invalid credentials deny with 401;
// an actor store fault denies fail-closed.
func (s AuthenticateStage) Evaluate(ctx context.Context, req *Request) Decision {
	if req.Credential == "" {
		return Deny(KindUnauthenticated, "missing credential")
	}
	actorID, err := s.Verifier.VerifyCredential(ctx, req.Credential)
	if err != nil {
		return Deny(KindUnauthenticated, "invalid credential")
	}
	actor, err := s.Actors.FetchActorWithRole(ctx, actorID)
	if err != nil {
		return Deny(KindStoreUnavailable, "actor lookup failed")
	}
	if !actor.Active {
		return Deny(KindUnauthenticated, "account disabled")
	}
	req.Actor = actor
	req.authenticated = true
	return Allow(Resolve(actor.RoleName, actor), NoConstraint)
}

// AdminOnlyStage gates routes reserved for administrator role tiers.
type AdminOnlyStage struct{}

// Name implements Stage.
func (AdminOnlyStage) Name() string { return "admin_only" }

// Evaluate implements Stage.
func (AdminOnlyStage) Evaluate(_ context.Context, req *Request) Decision {
	if !req.authenticated {
		return Deny(KindUnauthenticated, "admin gate reached without authentication")
	}
	switch upperFR.String(req.Actor.RoleName) {
	case RoleAdministrateur, RoleSuperAdministrateur:
		return Allow(Resolve(req.Actor.RoleName, req.Actor), NoConstraint)
	default:
		return Deny(KindInsufficientRole, "administrator role required")
	}
}

// PermissionStage consults the persisted role-permission matrix.
type PermissionStage struct {
	Permissions *Permissions
	Module      string
	Action      string
}

// Name implements Stage.
func (s PermissionStage) Name() string { return "permission" }

// Evaluate implements Stage. The action defaults to view.
func (s PermissionStage) Evaluate(ctx context.Context, req *Request) Decision {
	if !req.authenticated {
		return Deny(KindUnauthenticated, "permission gate reached without authentication")
	}
	module, action := s.Module, s.Action
	if module == "" {
		module = req.Module
	}
	if action == "" {
		action = req.Action
	}
	if action == "" {
		action = ActionView
	}
	if module == "" {
		return Deny(KindConfigurationFault, "permission gate configured without a module")
	}
	if !s.Permissions.Has(ctx, req.Actor.ID, module, action) {
		return Deny(KindInsufficientPermission, fmt.Sprintf("missing permission %s.%s", normalize(module), normalize(action)))
	}
	return Allow(Resolve(req.Actor.RoleName, req.Actor), NoConstraint)
}

// RouteStage is a secondary coarse gate over a static route->permission
// table. Routes absent from the table pass; the primary gate is
// PermissionStage.
type RouteStage struct {
	Permissions *Permissions
	// Table maps a route path to a "module.action" permission string.
	Table map[string]string
}

// Name implements Stage.
func (s RouteStage) Name() string { return "route_table" }

// Evaluate implements Stage.
func (s RouteStage) Evaluate(ctx context.Context, req *Request) Decision {
	if !req.authenticated {
		return Deny(KindUnauthenticated, "route gate reached without authentication")
	}
	perm, ok := s.Table[req.RoutePath]
	if !ok {
		return Allow(Resolve(req.Actor.RoleName, req.Actor), NoConstraint)
	}
	module, action, ok := splitPermission(perm)
	if !ok {
		return Deny(KindConfigurationFault, fmt.Sprintf("malformed route permission %q", perm))
	}
	if !s.Permissions.Has(ctx, req.Actor.ID, module, action) {
		return Deny(KindInsufficientPermission, fmt.Sprintf("route %s requires %s", req.RoutePath, perm))
	}
	return Allow(Resolve(req.Actor.RoleName, req.Actor), NoConstraint)
}

// ScopeStage resolves the access level and attaches the filter directive.
// When the request names a specific resource instance it also performs the
// point-ownership check.
type ScopeStage struct {
	Owners OwnerStore
}

// Name implements Stage.
func (s ScopeStage) Name() string { return "scope" }

// Evaluate implements Stage.
func (s ScopeStage) Evaluate(ctx context.Context, req *Request) Decision {
	if !req.authenticated {
		return Deny(KindUnauthenticated, "scope stage reached without authentication")
	}
	access := Resolve(req.Actor.RoleName, req.Actor)
	if req.Resource == "" {
		return Allow(access, NoConstraint)
	}
	if req.ResourceID != 0 && s.Owners != nil {
		return CheckOwner(ctx, s.Owners, access, req.Resource, req.ResourceID)
	}
	return FilterFor(access, req.Resource)
}

func splitPermission(perm string) (module, action string, ok bool) {
	for i := len(perm) - 1; i >= 0; i-- {
		if perm[i] == '.' {
			module, action = perm[:i], perm[i+1:]
			return module, action, module != "" && action != ""
		}
	}
	return "", "", false
}
