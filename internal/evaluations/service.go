package evaluations

import (
	"context"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/shared"
)

// RepositoryPort defines data access methods for evaluations.
type RepositoryPort interface {
	ListEvaluations(ctx context.Context, c authz.Constraint, p shared.Pagination) ([]Evaluation, error)
	GetEvaluation(ctx context.Context, id int64) (Evaluation, error)
}

// Service handles evaluation listing logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListEvaluations returns evaluations inside the caller's scope.
func (s *Service) ListEvaluations(ctx context.Context, c authz.Constraint, p shared.Pagination) ([]Evaluation, error) {
	return s.repo.ListEvaluations(ctx, c, p)
}

// GetEvaluation fetches one evaluation. The middleware already verified the
// instance sits inside the caller's scope.
func (s *Service) GetEvaluation(ctx context.Context, id int64) (Evaluation, error) {
	return s.repo.GetEvaluation(ctx, id)
}
