package actors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const actorColumns = `u.id, u.email, u.nom, r.nom, COALESCE(u.entreprise_id, 0), u.actif, u.created_at, u.updated_at`

// ListActors returns accounts visible under the given constraint.
func (r *Repository) ListActors(ctx context.Context, c authz.Constraint) ([]Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM utilisateurs u JOIN roles r ON r.id = u.role_id`
	var args []any
	switch c.Kind {
	case authz.ConstraintEntreprise:
		query += ` WHERE u.entreprise_id = $1`
		args = append(args, c.EntrepriseID)
	case authz.ConstraintActor:
		query += ` WHERE u.id = $1`
		args = append(args, c.ActorID)
	}
	query += ` ORDER BY u.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("actors: list: %w", err)
	}
	defer rows.Close()

	var out []Actor
	for rows.Next() {
		var a Actor
		if err := rows.Scan(&a.ID, &a.Email, &a.Nom, &a.RoleName, &a.EntrepriseID, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("actors: scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetActor fetches one account.
func (r *Repository) GetActor(ctx context.Context, id int64) (Actor, error) {
	var a Actor
	err := r.pool.QueryRow(ctx,
		`SELECT `+actorColumns+` FROM utilisateurs u JOIN roles r ON r.id = u.role_id WHERE u.id = $1`, id).
		Scan(&a.ID, &a.Email, &a.Nom, &a.RoleName, &a.EntrepriseID, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Actor{}, shared.ErrNotFound
		}
		return Actor{}, fmt.Errorf("actors: get %d: %w", id, err)
	}
	return a, nil
}

// FetchAPIKeyHash returns the stored bcrypt hash of the actor's API key, or
// empty when none was provisioned. Satisfies the auth key store.
func (r *Repository) FetchAPIKeyHash(ctx context.Context, actorID int64) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(api_key_hash, '') FROM utilisateurs WHERE id = $1 AND actif`, actorID).
		Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", fmt.Errorf("actors: api key hash %d: %w", actorID, err)
	}
	return hash, nil
}
