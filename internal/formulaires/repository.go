package formulaires

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

const columns = `id, COALESCE(entreprise_id, 0), COALESCE(intervenant_id, 0), evaluation_id, titre, statut, submitted_at, created_at, updated_at`

// ListFormulaires returns form instances visible under the constraint,
// optionally narrowed to one statut.
func (r *Repository) ListFormulaires(ctx context.Context, c authz.Constraint, statut string) ([]Formulaire, error) {
	query := `SELECT ` + columns + ` FROM formulaires WHERE 1=1`
	var args []any
	switch c.Kind {
	case authz.ConstraintEntreprise:
		args = append(args, c.EntrepriseID)
		query += fmt.Sprintf(` AND entreprise_id = $%d`, len(args))
	case authz.ConstraintActor:
		args = append(args, c.ActorID)
		query += fmt.Sprintf(` AND intervenant_id = $%d`, len(args))
	}
	if statut != "" {
		args = append(args, statut)
		query += fmt.Sprintf(` AND statut = $%d`, len(args))
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("formulaires: list: %w", err)
	}
	defer rows.Close()

	var out []Formulaire
	for rows.Next() {
		var f Formulaire
		if err := rows.Scan(&f.ID, &f.EntrepriseID, &f.IntervenantID, &f.EvaluationID, &f.Titre, &f.Statut, &f.SubmittedAt, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("formulaires: scan: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetFormulaire fetches one form instance.
func (r *Repository) GetFormulaire(ctx context.Context, id int64) (Formulaire, error) {
	var f Formulaire
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM formulaires WHERE id = $1`, id).
		Scan(&f.ID, &f.EntrepriseID, &f.IntervenantID, &f.EvaluationID, &f.Titre, &f.Statut, &f.SubmittedAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Formulaire{}, shared.ErrNotFound
		}
		return Formulaire{}, fmt.Errorf("formulaires: get %d: %w", id, err)
	}
	return f, nil
}
