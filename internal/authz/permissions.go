package authz

import (
	"context"
	"log/slog"
	"strings"
)

// Actions understood by the permission matrix. ActionAdmin subsumes the rest
// for its module.
const (
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionAdmin  = "admin"
)

// Grant is one row of the persisted role-permission matrix.
type Grant struct {
	Module  string
	Action  string
	Granted bool
}

// PermissionStore reads the role-permission matrix. Read-only at
// authorization time; grants are mutated only through administration CRUD.
type PermissionStore interface {
	// ActorGrants joins actor -> role -> role_permissions -> modules,
	// restricted to active modules.
	ActorGrants(ctx context.Context, actorID int64) ([]Grant, error)
}

// ActorStore loads actor records with their role resolved.
type ActorStore interface {
	FetchActorWithRole(ctx context.Context, actorID int64) (Actor, error)
}

// Permissions answers module/action questions for one actor. Every answer is
// derived fresh from the store; nothing is cached across requests, so grant
// changes are observed immediately.
type Permissions struct {
	store  PermissionStore
	actors ActorStore
	logger *slog.Logger
}

// NewPermissions constructs the lookup service.
func NewPermissions(store PermissionStore, actors ActorStore, logger *slog.Logger) *Permissions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Permissions{store: store, actors: actors, logger: logger}
}

// Has reports whether the actor may perform action on module. Fail-closed:
// any store fault logs and answers false, never true and never a panic.
func (p *Permissions) Has(ctx context.Context, actorID int64, module, action string) bool {
	actor, err := p.actors.FetchActorWithRole(ctx, actorID)
	if err != nil {
		p.logger.Error("permission check: fetch actor", slog.Int64("actor_id", actorID), slog.Any("error", err))
		return false
	}

	// Global-access roles bypass the matrix entirely.
	if Resolve(actor.RoleName, actor).Global {
		return true
	}

	grants, err := p.store.ActorGrants(ctx, actorID)
	if err != nil {
		p.logger.Error("permission check: load grants", slog.Int64("actor_id", actorID), slog.Any("error", err))
		return false
	}

	module = normalize(module)
	action = normalize(action)
	for _, g := range grants {
		if !g.Granted || normalize(g.Module) != module {
			continue
		}
		granted := normalize(g.Action)
		if granted == action || granted == ActionAdmin {
			return true
		}
	}
	return false
}

// ForActor returns the actor's grant matrix keyed by module. Global-access
// actors get an empty map plus ok via Has; callers surface the global flag
// from the access descriptor instead.
func (p *Permissions) ForActor(ctx context.Context, actorID int64) (map[string][]Grant, error) {
	grants, err := p.store.ActorGrants(ctx, actorID)
	if err != nil {
		p.logger.Error("permission matrix: load grants", slog.Int64("actor_id", actorID), slog.Any("error", err))
		return nil, err
	}
	matrix := make(map[string][]Grant)
	for _, g := range grants {
		key := normalize(g.Module)
		matrix[key] = append(matrix[key], Grant{Module: key, Action: normalize(g.Action), Granted: g.Granted})
	}
	return matrix, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
