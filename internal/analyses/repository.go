package analyses

import (
	"context"
	"encoding/json"
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

// ListAnalyses returns analyses visible under the constraint. The personal
// constraint never reaches this layer: the filter denies it upstream.
func (r *Repository) ListAnalyses(ctx context.Context, c authz.Constraint) ([]Analyse, error) {
	query := `SELECT id, COALESCE(entreprise_id, 0), evaluation_id, score_global, axes, created_at FROM analyses`
	var args []any
	switch c.Kind {
	case authz.ConstraintNone:
	case authz.ConstraintEntreprise:
		query += ` WHERE entreprise_id = $1`
		args = append(args, c.EntrepriseID)
	default:
		return nil, fmt.Errorf("analyses: list: unsupported constraint kind %d", c.Kind)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analyses: list: %w", err)
	}
	defer rows.Close()

	var out []Analyse
	for rows.Next() {
		a, err := scanAnalyse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAnalyse fetches one analysis.
func (r *Repository) GetAnalyse(ctx context.Context, id int64) (Analyse, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, COALESCE(entreprise_id, 0), evaluation_id, score_global, axes, created_at FROM analyses WHERE id = $1`, id)
	a, err := scanAnalyse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Analyse{}, shared.ErrNotFound
		}
		return Analyse{}, fmt.Errorf("analyses: get %d: %w", id, err)
	}
	return a, nil
}

func scanAnalyse(row pgx.Row) (Analyse, error) {
	var a Analyse
	var axesJSON []byte
	if err := row.Scan(&a.ID, &a.EntrepriseID, &a.EvaluationID, &a.ScoreGlobal, &axesJSON, &a.CreatedAt); err != nil {
		return Analyse{}, err
	}
	if len(axesJSON) > 0 {
		if err := json.Unmarshal(axesJSON, &a.Axes); err != nil {
			return Analyse{}, fmt.Errorf("analyses: decode axes: %w", err)
		}
	}
	return a, nil
}
