package actors

import (
	"context"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/platform/httpx"
)

// RepositoryPort defines data access methods for actors.
type RepositoryPort interface {
	ListActors(ctx context.Context, c authz.Constraint) ([]Actor, error)
	GetActor(ctx context.Context, id int64) (Actor, error)
}

// Service handles account directory logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListActors returns accounts visible under the caller's access.
func (s *Service) ListActors(ctx context.Context, access authz.Access) ([]Actor, error) {
	c, ok := directoryConstraint(access)
	if !ok {
		return nil, httpx.ErrForbidden
	}
	return s.repo.ListActors(ctx, c)
}

// GetActor returns one account if it sits inside the caller's access.
func (s *Service) GetActor(ctx context.Context, access authz.Access, id int64) (Actor, error) {
	actor, err := s.repo.GetActor(ctx, id)
	if err != nil {
		return Actor{}, err
	}
	switch access.Level {
	case authz.LevelGlobal:
	case authz.LevelEntreprise:
		if actor.EntrepriseID != access.EntrepriseID {
			return Actor{}, httpx.ErrForbidden
		}
	case authz.LevelPersonnel:
		if actor.ID != access.ActorID {
			return Actor{}, httpx.ErrForbidden
		}
	default:
		return Actor{}, httpx.ErrForbidden
	}
	return actor, nil
}

// directoryConstraint narrows the account directory to the caller's scope.
func directoryConstraint(access authz.Access) (authz.Constraint, bool) {
	switch access.Level {
	case authz.LevelGlobal:
		return authz.NoConstraint, true
	case authz.LevelEntreprise:
		return authz.ByEntreprise(access.EntrepriseID), true
	case authz.LevelPersonnel:
		return authz.ByActor(access.ActorID), true
	default:
		return authz.Constraint{}, false
	}
}
