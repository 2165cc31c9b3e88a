package evaluations

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

const columns = `id, COALESCE(entreprise_id, 0), COALESCE(intervenant_id, 0), questionnaire_id, statut, COALESCE(score, 0), created_at, updated_at`

// ListEvaluations returns evaluations visible under the constraint, newest
// first.
func (r *Repository) ListEvaluations(ctx context.Context, c authz.Constraint, p shared.Pagination) ([]Evaluation, error) {
	query := `SELECT ` + columns + ` FROM evaluations`
	args := []any{}
	switch c.Kind {
	case authz.ConstraintEntreprise:
		query += ` WHERE entreprise_id = $1`
		args = append(args, c.EntrepriseID)
	case authz.ConstraintActor:
		query += ` WHERE intervenant_id = $1`
		args = append(args, c.ActorID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, p.PerPage, p.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("evaluations: list: %w", err)
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		var ev Evaluation
		if err := rows.Scan(&ev.ID, &ev.EntrepriseID, &ev.IntervenantID, &ev.QuestionnaireID, &ev.Statut, &ev.Score, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, fmt.Errorf("evaluations: scan: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// GetEvaluation fetches one evaluation.
func (r *Repository) GetEvaluation(ctx context.Context, id int64) (Evaluation, error) {
	var ev Evaluation
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM evaluations WHERE id = $1`, id).
		Scan(&ev.ID, &ev.EntrepriseID, &ev.IntervenantID, &ev.QuestionnaireID, &ev.Statut, &ev.Score, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Evaluation{}, shared.ErrNotFound
		}
		return Evaluation{}, fmt.Errorf("evaluations: get %d: %w", id, err)
	}
	return ev, nil
}
