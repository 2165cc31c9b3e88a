package roles

import (
	"context"
	"strings"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/platform/httpx"
	"github.com/maturis/maturis/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	CreateRole(ctx context.Context, nom, description string) (Role, error)
	UpdateRole(ctx context.Context, id int64, nom, description string) (Role, error)
	ListRolePermissions(ctx context.Context, roleID int64) ([]RolePermission, error)
	ReplaceRolePermissions(ctx context.Context, roleID int64, grants []RolePermission) error
}

// Service handles role reference-data logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// CreateRole inserts a role after trimming inputs.
func (s *Service) CreateRole(ctx context.Context, nom, description string) (Role, error) {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		return Role{}, httpx.ErrValidation
	}
	return s.repo.CreateRole(ctx, nom, strings.TrimSpace(description))
}

// UpdateRole updates an existing role.
func (s *Service) UpdateRole(ctx context.Context, id int64, nom, description string) (Role, error) {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		return Role{}, httpx.ErrValidation
	}
	return s.repo.UpdateRole(ctx, id, nom, strings.TrimSpace(description))
}

// ListRolePermissions returns the grant rows of one role.
func (s *Service) ListRolePermissions(ctx context.Context, roleID int64) ([]RolePermission, error) {
	return s.repo.ListRolePermissions(ctx, roleID)
}

// ReplaceRolePermissions validates and swaps the role's grant set. Module
// codes and actions must come from the known vocabulary.
func (s *Service) ReplaceRolePermissions(ctx context.Context, roleID int64, grants []RolePermission) error {
	known := make(map[string]bool, len(shared.PlatformModules()))
	for _, code := range shared.PlatformModules() {
		known[code] = true
	}
	for i, g := range grants {
		g.Module = strings.ToLower(strings.TrimSpace(g.Module))
		g.Action = strings.ToLower(strings.TrimSpace(g.Action))
		if !known[g.Module] {
			return httpx.ErrValidation
		}
		switch g.Action {
		case authz.ActionView, authz.ActionEdit, authz.ActionDelete, authz.ActionAdmin:
		default:
			return httpx.ErrValidation
		}
		grants[i] = g
	}
	return s.repo.ReplaceRolePermissions(ctx, roleID, grants)
}
