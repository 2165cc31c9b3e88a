package formulaires

import (
	"context"

	"github.com/maturis/maturis/internal/authz"
)

// RepositoryPort defines data access methods for form instances.
type RepositoryPort interface {
	ListFormulaires(ctx context.Context, c authz.Constraint, statut string) ([]Formulaire, error)
	GetFormulaire(ctx context.Context, id int64) (Formulaire, error)
}

// Service handles form instance logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListFormulaires returns form instances inside the caller's scope.
func (s *Service) ListFormulaires(ctx context.Context, c authz.Constraint, statut string) ([]Formulaire, error) {
	return s.repo.ListFormulaires(ctx, c, statut)
}

// GetFormulaire fetches one form instance; ownership was verified upstream.
func (s *Service) GetFormulaire(ctx context.Context, id int64) (Formulaire, error) {
	return s.repo.GetFormulaire(ctx, id)
}
