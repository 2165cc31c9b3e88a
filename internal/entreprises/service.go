package entreprises

import (
	"context"

	"github.com/maturis/maturis/internal/authz"
)

// RepositoryPort defines data access methods for tenants.
type RepositoryPort interface {
	ListEntreprises(ctx context.Context, c authz.Constraint) ([]Entreprise, error)
	GetEntreprise(ctx context.Context, id int64) (Entreprise, error)
	CreateEntreprise(ctx context.Context, nom, siret, secteur string) (Entreprise, error)
}

// Service handles tenant business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListEntreprises returns tenants visible under the caller's constraint.
func (s *Service) ListEntreprises(ctx context.Context, c authz.Constraint) ([]Entreprise, error) {
	return s.repo.ListEntreprises(ctx, c)
}

// GetEntreprise fetches one tenant. Scope was verified by the middleware's
// point-ownership check before the handler runs.
func (s *Service) GetEntreprise(ctx context.Context, id int64) (Entreprise, error) {
	return s.repo.GetEntreprise(ctx, id)
}

// CreateEntreprise inserts a tenant.
func (s *Service) CreateEntreprise(ctx context.Context, nom, siret, secteur string) (Entreprise, error) {
	return s.repo.CreateEntreprise(ctx, nom, siret, secteur)
}
