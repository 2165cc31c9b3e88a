package analyses

import (
	"context"

	"github.com/maturis/maturis/internal/authz"
)

// RepositoryPort defines data access methods for analyses.
type RepositoryPort interface {
	ListAnalyses(ctx context.Context, c authz.Constraint) ([]Analyse, error)
	GetAnalyse(ctx context.Context, id int64) (Analyse, error)
}

// Service handles scored-analysis logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListAnalyses returns analyses inside the caller's scope. Personal-scope
// requests were denied outright by the ownership filter before this runs.
func (s *Service) ListAnalyses(ctx context.Context, c authz.Constraint) ([]Analyse, error) {
	return s.repo.ListAnalyses(ctx, c)
}

// GetAnalyse fetches one analysis; ownership was verified upstream.
func (s *Service) GetAnalyse(ctx context.Context, id int64) (Analyse, error) {
	return s.repo.GetAnalyse(ctx, id)
}
