package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maturis/maturis/internal/shared"
)

// PGStore is the PostgreSQL-backed implementation of the authorization
// collaborators: actor lookup, permission matrix and ownership point lookup.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a store over the shared pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// FetchActorWithRole joins utilisateurs x roles x entreprises.
func (s *PGStore) FetchActorWithRole(ctx context.Context, actorID int64) (Actor, error) {
	var actor Actor
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, r.nom, COALESCE(u.entreprise_id, 0), u.actif
		FROM utilisateurs u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`, actorID).
		Scan(&actor.ID, &actor.RoleName, &actor.EntrepriseID, &actor.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Actor{}, shared.ErrNotFound
		}
		return Actor{}, fmt.Errorf("authz: fetch actor %d: %w", actorID, err)
	}
	return actor, nil
}

// ActorGrants joins actor -> role -> role_permissions -> modules, restricted
// to active modules.
func (s *PGStore) ActorGrants(ctx context.Context, actorID int64) ([]Grant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.code, rp.action, rp.accorde
		FROM utilisateurs u
		JOIN role_permissions rp ON rp.role_id = u.role_id
		JOIN modules m ON m.id = rp.module_id
		WHERE u.id = $1 AND m.actif
		ORDER BY m.code, rp.action`, actorID)
	if err != nil {
		return nil, fmt.Errorf("authz: load grants for actor %d: %w", actorID, err)
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.Module, &g.Action, &g.Granted); err != nil {
			return nil, fmt.Errorf("authz: scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("authz: iterate grants: %w", err)
	}
	return grants, nil
}

// FetchOwner performs the point lookup behind ownership checks.
func (s *PGStore) FetchOwner(ctx context.Context, resource Resource, id int64) (Owner, error) {
	var query string
	switch resource {
	case ResourceEvaluation:
		query = `SELECT COALESCE(entreprise_id, 0), COALESCE(intervenant_id, 0) FROM evaluations WHERE id = $1`
	case ResourceFormulaire:
		query = `SELECT COALESCE(entreprise_id, 0), COALESCE(intervenant_id, 0) FROM formulaires WHERE id = $1`
	case ResourceAnalyse:
		query = `SELECT COALESCE(entreprise_id, 0), 0 FROM analyses WHERE id = $1`
	case ResourceEntreprise:
		// An enterprise owns itself.
		query = `SELECT id, 0 FROM entreprises WHERE id = $1`
	default:
		return Owner{}, fmt.Errorf("authz: unrecognized resource type %q", resource)
	}

	var owner Owner
	if err := s.pool.QueryRow(ctx, query, id).Scan(&owner.EntrepriseID, &owner.ActorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Owner{}, shared.ErrNotFound
		}
		return Owner{}, fmt.Errorf("authz: fetch owner of %s %d: %w", resource, id, err)
	}
	return owner, nil
}

var (
	_ ActorStore      = (*PGStore)(nil)
	_ PermissionStore = (*PGStore)(nil)
	_ OwnerStore      = (*PGStore)(nil)
)
