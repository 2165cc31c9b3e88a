package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maturis/maturis/internal/platform/httpx"
	"github.com/maturis/maturis/internal/shared"
	_ "github.com/maturis/maturis/testing"
)

type mockRepository struct {
	roles       map[int64]Role
	permissions map[int64][]RolePermission
	nextID      int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		roles:       make(map[int64]Role),
		permissions: make(map[int64][]RolePermission),
		nextID:      1,
	}
}

func (m *mockRepository) ListRoles(_ context.Context) ([]Role, error) {
	out := make([]Role, 0, len(m.roles))
	for _, role := range m.roles {
		out = append(out, role)
	}
	return out, nil
}

func (m *mockRepository) CreateRole(_ context.Context, nom, description string) (Role, error) {
	role := Role{ID: m.nextID, Nom: nom, Description: description}
	m.roles[role.ID] = role
	m.nextID++
	return role, nil
}

func (m *mockRepository) UpdateRole(_ context.Context, id int64, nom, description string) (Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	role.Nom = nom
	role.Description = description
	m.roles[id] = role
	return role, nil
}

func (m *mockRepository) ListRolePermissions(_ context.Context, roleID int64) ([]RolePermission, error) {
	if _, ok := m.roles[roleID]; !ok {
		return nil, shared.ErrNotFound
	}
	return m.permissions[roleID], nil
}

func (m *mockRepository) ReplaceRolePermissions(_ context.Context, roleID int64, grants []RolePermission) error {
	if _, ok := m.roles[roleID]; !ok {
		return shared.ErrNotFound
	}
	m.permissions[roleID] = grants
	return nil
}

func TestCreateRoleTrimsInput(t *testing.T) {
	service := NewService(newMockRepository())

	role, err := service.CreateRole(context.Background(), "  MANAGER  ", " Responsable entreprise ")
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", role.Nom)
	assert.Equal(t, "Responsable entreprise", role.Description)
}

func TestCreateRoleEmptyNameRejected(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.CreateRole(context.Background(), "   ", "desc")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateRole(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	created, err := service.CreateRole(context.Background(), "MANAGER", "")
	require.NoError(t, err)

	updated, err := service.UpdateRole(context.Background(), created.ID, "MANAGER", "Pilotage entreprise")
	require.NoError(t, err)
	assert.Equal(t, "Pilotage entreprise", updated.Description)

	_, err = service.UpdateRole(context.Background(), 999, "X", "")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = service.UpdateRole(context.Background(), created.ID, " ", "")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReplaceRolePermissions(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	role, err := service.CreateRole(context.Background(), "MANAGER", "")
	require.NoError(t, err)

	err = service.ReplaceRolePermissions(context.Background(), role.ID, []RolePermission{
		{Module: " Evaluations ", Action: "VIEW", Accorde: true},
		{Module: "roles", Action: "admin", Accorde: false},
	})
	require.NoError(t, err)

	stored, err := service.ListRolePermissions(context.Background(), role.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, RolePermission{Module: "evaluations", Action: "view", Accorde: true}, stored[0])
}

func TestReplaceRolePermissionsRejectsUnknownVocabulary(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	role, err := service.CreateRole(context.Background(), "MANAGER", "")
	require.NoError(t, err)

	err = service.ReplaceRolePermissions(context.Background(), role.ID, []RolePermission{
		{Module: "facturation", Action: "view", Accorde: true},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	err = service.ReplaceRolePermissions(context.Background(), role.ID, []RolePermission{
		{Module: "roles", Action: "execute", Accorde: true},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
