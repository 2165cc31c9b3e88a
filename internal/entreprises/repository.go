package entreprises

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/platform/httpx"
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

const columns = `id, nom, COALESCE(siret, ''), COALESCE(secteur, ''), created_at, updated_at`

// ListEntreprises returns tenants visible under the constraint. Enterprise
// and personal scopes both collapse to the actor's own tenant.
func (r *Repository) ListEntreprises(ctx context.Context, c authz.Constraint) ([]Entreprise, error) {
	query := `SELECT ` + columns + ` FROM entreprises`
	var args []any
	switch c.Kind {
	case authz.ConstraintEntreprise:
		query += ` WHERE id = $1`
		args = append(args, c.EntrepriseID)
	case authz.ConstraintActor:
		query += ` WHERE id IN (SELECT entreprise_id FROM utilisateurs WHERE id = $1)`
		args = append(args, c.ActorID)
	}
	query += ` ORDER BY nom`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("entreprises: list: %w", err)
	}
	defer rows.Close()

	var out []Entreprise
	for rows.Next() {
		var e Entreprise
		if err := rows.Scan(&e.ID, &e.Nom, &e.Siret, &e.Secteur, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("entreprises: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEntreprise fetches one tenant.
func (r *Repository) GetEntreprise(ctx context.Context, id int64) (Entreprise, error) {
	var e Entreprise
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM entreprises WHERE id = $1`, id).
		Scan(&e.ID, &e.Nom, &e.Siret, &e.Secteur, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entreprise{}, shared.ErrNotFound
		}
		return Entreprise{}, fmt.Errorf("entreprises: get %d: %w", id, err)
	}
	return e, nil
}

// CreateEntreprise inserts a tenant. Duplicate SIRET maps to ErrDuplicate.
func (r *Repository) CreateEntreprise(ctx context.Context, nom, siret, secteur string) (Entreprise, error) {
	var e Entreprise
	err := r.pool.QueryRow(ctx,
		`INSERT INTO entreprises (nom, siret, secteur) VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		 RETURNING `+columns, nom, siret, secteur).
		Scan(&e.ID, &e.Nom, &e.Siret, &e.Secteur, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Entreprise{}, httpx.ErrDuplicate
		}
		return Entreprise{}, fmt.Errorf("entreprises: create: %w", err)
	}
	return e, nil
}
