package questionnaires

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

// ListQuestionnaires returns active templates.
func (r *Repository) ListQuestionnaires(ctx context.Context) ([]Questionnaire, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, titre, version, actif, created_at, updated_at FROM questionnaires WHERE actif ORDER BY titre`)
	if err != nil {
		return nil, fmt.Errorf("questionnaires: list: %w", err)
	}
	defer rows.Close()

	var out []Questionnaire
	for rows.Next() {
		var q Questionnaire
		if err := rows.Scan(&q.ID, &q.Titre, &q.Version, &q.Actif, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("questionnaires: scan: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// GetQuestionnaire fetches one template.
func (r *Repository) GetQuestionnaire(ctx context.Context, id int64) (Questionnaire, error) {
	var q Questionnaire
	err := r.pool.QueryRow(ctx,
		`SELECT id, titre, version, actif, created_at, updated_at FROM questionnaires WHERE id = $1`, id).
		Scan(&q.ID, &q.Titre, &q.Version, &q.Actif, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Questionnaire{}, shared.ErrNotFound
		}
		return Questionnaire{}, fmt.Errorf("questionnaires: get %d: %w", id, err)
	}
	return q, nil
}
