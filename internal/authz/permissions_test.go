package authz

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/maturis/maturis/testing"
)

type stubActorStore struct {
	actors map[int64]Actor
	err    error
}

func (s *stubActorStore) FetchActorWithRole(_ context.Context, id int64) (Actor, error) {
	if s.err != nil {
		return Actor{}, s.err
	}
	actor, ok := s.actors[id]
	if !ok {
		return Actor{}, errors.New("actor not found")
	}
	return actor, nil
}

type stubPermissionStore struct {
	grants map[int64][]Grant
	err    error
	calls  int
}

func (s *stubPermissionStore) ActorGrants(_ context.Context, actorID int64) ([]Grant, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.grants[actorID], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestHasGrantedAction(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	store := &stubPermissionStore{grants: map[int64][]Grant{
		1: {{Module: "evaluations", Action: ActionView, Granted: true}},
	}}
	perms := NewPermissions(store, actors, testLogger())

	assert.True(t, perms.Has(context.Background(), 1, "evaluations", ActionView))
	assert.False(t, perms.Has(context.Background(), 1, "evaluations", ActionEdit))
	assert.False(t, perms.Has(context.Background(), 1, "analyses", ActionView))
}

func TestHasAdminSubsumesAllActions(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	store := &stubPermissionStore{grants: map[int64][]Grant{
		1: {{Module: "roles", Action: ActionAdmin, Granted: true}},
	}}
	perms := NewPermissions(store, actors, testLogger())

	for _, action := range []string{ActionView, ActionEdit, ActionDelete, ActionAdmin} {
		assert.True(t, perms.Has(context.Background(), 1, "roles", action), "action %s", action)
	}
	assert.False(t, perms.Has(context.Background(), 1, "evaluations", ActionView),
		"admin on one module must not leak into another")
}

func TestHasRevokedGrantIgnored(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	store := &stubPermissionStore{grants: map[int64][]Grant{
		1: {{Module: "evaluations", Action: ActionView, Granted: false}},
	}}
	perms := NewPermissions(store, actors, testLogger())

	assert.False(t, perms.Has(context.Background(), 1, "evaluations", ActionView))
}

func TestHasNormalizesModuleAndAction(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	store := &stubPermissionStore{grants: map[int64][]Grant{
		1: {{Module: "Evaluations", Action: "View", Granted: true}},
	}}
	perms := NewPermissions(store, actors, testLogger())

	assert.True(t, perms.Has(context.Background(), 1, " evaluations ", "VIEW"))
}

func TestHasGlobalRoleBypassesMatrix(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleAdministrateur, Active: true}}}
	store := &stubPermissionStore{err: errors.New("must not be consulted")}
	perms := NewPermissions(store, actors, testLogger())

	assert.True(t, perms.Has(context.Background(), 1, "evaluations", ActionDelete))
	assert.Zero(t, store.calls)
}

func TestHasStoreFaultFailsClosed(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	store := &stubPermissionStore{err: errors.New("connection reset")}
	perms := NewPermissions(store, actors, testLogger())

	assert.False(t, perms.Has(context.Background(), 1, "evaluations", ActionView))
}

func TestHasActorFaultFailsClosed(t *testing.T) {
	actors := &stubActorStore{err: errors.New("connection reset")}
	store := &stubPermissionStore{}
	perms := NewPermissions(store, actors, testLogger())

	assert.False(t, perms.Has(context.Background(), 1, "evaluations", ActionView))
}

func TestForActorGroupsByModule(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	store := &stubPermissionStore{grants: map[int64][]Grant{
		1: {
			{Module: "Evaluations", Action: ActionView, Granted: true},
			{Module: "evaluations", Action: ActionEdit, Granted: true},
			{Module: "roles", Action: ActionView, Granted: false},
		},
	}}
	perms := NewPermissions(store, actors, testLogger())

	matrix, err := perms.ForActor(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, matrix, 2)
	assert.Len(t, matrix["evaluations"], 2)
	assert.Len(t, matrix["roles"], 1)
	assert.False(t, matrix["roles"][0].Granted)
}
