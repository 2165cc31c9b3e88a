package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/maturis/maturis/testing"
)

type spyStage struct {
	name     string
	decision Decision
	calls    int
}

func (s *spyStage) Name() string { return s.name }

func (s *spyStage) Evaluate(_ context.Context, _ *Request) Decision {
	s.calls++
	return s.decision
}

type stubVerifier struct {
	actorID int64
	err     error
}

func (s *stubVerifier) VerifyCredential(_ context.Context, credential string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.actorID, nil
}

func TestChainFirstDenialShortCircuits(t *testing.T) {
	first := &spyStage{name: "first", decision: Allow(Access{}, NoConstraint)}
	second := &spyStage{name: "second", decision: Deny(KindInsufficientRole, "nope")}
	third := &spyStage{name: "third", decision: Allow(Access{}, NoConstraint)}

	decision := NewChain(testLogger(), first, second, third).Evaluate(context.Background(), &Request{})

	require.False(t, decision.Allowed)
	assert.Equal(t, KindInsufficientRole, decision.Kind)
	assert.Equal(t, "nope", decision.Reason)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Zero(t, third.calls, "stages after the first denial must not run")
}

func TestChainLastAllowWins(t *testing.T) {
	access := Resolve(RoleManager, Actor{ID: 3, EntrepriseID: 7})
	first := &spyStage{name: "first", decision: Allow(Access{}, NoConstraint)}
	last := &spyStage{name: "last", decision: Allow(access, ByEntreprise(7))}

	decision := NewChain(testLogger(), first, last).Evaluate(context.Background(), &Request{})

	require.True(t, decision.Allowed)
	assert.Equal(t, access, decision.Access)
	assert.Equal(t, ByEntreprise(7), decision.Constraint)
}

func TestChainIsRepeatable(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, EntrepriseID: 2, Active: true}}}
	chain := NewChain(testLogger(),
		AuthenticateStage{Verifier: &stubVerifier{actorID: 1}, Actors: actors},
		ScopeStage{},
	)

	first := chain.Evaluate(context.Background(), &Request{Credential: "tok", Resource: ResourceEvaluation})
	second := chain.Evaluate(context.Background(), &Request{Credential: "tok", Resource: ResourceEvaluation})
	assert.Equal(t, first, second)
}

func TestAuthenticateStageMissingCredential(t *testing.T) {
	stage := AuthenticateStage{Verifier: &stubVerifier{actorID: 1}, Actors: &stubActorStore{}}

	decision := stage.Evaluate(context.Background(), &Request{})
	require.False(t, decision.Allowed)
	assert.Equal(t, KindUnauthenticated, decision.Kind)
	assert.Equal(t, 401, decision.HTTPStatus)
}

func TestAuthenticateStageInvalidCredential(t *testing.T) {
	stage := AuthenticateStage{Verifier: &stubVerifier{err: errors.New("bad signature")}, Actors: &stubActorStore{}}

	decision := stage.Evaluate(context.Background(), &Request{Credential: "tok"})
	require.False(t, decision.Allowed)
	assert.Equal(t, KindUnauthenticated, decision.Kind)
}

func TestAuthenticateStageActorStoreFault(t *testing.T) {
	stage := AuthenticateStage{
		Verifier: &stubVerifier{actorID: 1},
		Actors:   &stubActorStore{err: errors.New("connection refused")},
	}

	decision := stage.Evaluate(context.Background(), &Request{Credential: "tok"})
	require.False(t, decision.Allowed)
	assert.Equal(t, KindStoreUnavailable, decision.Kind)
}

func TestAuthenticateStageInactiveActor(t *testing.T) {
	stage := AuthenticateStage{
		Verifier: &stubVerifier{actorID: 1},
		Actors:   &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: false}}},
	}

	decision := stage.Evaluate(context.Background(), &Request{Credential: "tok"})
	require.False(t, decision.Allowed)
	assert.Equal(t, KindUnauthenticated, decision.Kind)
}

func TestAuthenticateStagePopulatesActor(t *testing.T) {
	stage := AuthenticateStage{
		Verifier: &stubVerifier{actorID: 1},
		Actors:   &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleIntervenant, EntrepriseID: 4, Active: true}}},
	}

	req := &Request{Credential: "tok"}
	decision := stage.Evaluate(context.Background(), req)
	require.True(t, decision.Allowed)
	assert.Equal(t, int64(1), req.Actor.ID)
	assert.Equal(t, LevelPersonnel, decision.Access.Level)
}

func TestAdminOnlyStage(t *testing.T) {
	cases := []struct {
		role    string
		allowed bool
	}{
		{RoleAdministrateur, true},
		{RoleSuperAdministrateur, true},
		{RoleConsultant, false},
		{RoleManager, false},
		{RoleIntervenant, false},
		{"", false},
	}
	for _, tc := range cases {
		req := &Request{Actor: Actor{ID: 1, RoleName: tc.role, Active: true}, authenticated: true}
		decision := AdminOnlyStage{}.Evaluate(context.Background(), req)
		assert.Equal(t, tc.allowed, decision.Allowed, "role %q", tc.role)
		if !tc.allowed {
			assert.Equal(t, KindInsufficientRole, decision.Kind, "role %q", tc.role)
		}
	}
}

func TestAdminOnlyStageWithoutAuthentication(t *testing.T) {
	decision := AdminOnlyStage{}.Evaluate(context.Background(), &Request{Actor: Actor{RoleName: RoleAdministrateur}})
	require.False(t, decision.Allowed)
	assert.Equal(t, KindUnauthenticated, decision.Kind)
}

func TestPermissionStageDefaultsToView(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	store := &stubPermissionStore{grants: map[int64][]Grant{
		1: {{Module: "evaluations", Action: ActionView, Granted: true}},
	}}
	stage := PermissionStage{Permissions: NewPermissions(store, actors, testLogger()), Module: "evaluations"}

	req := &Request{Actor: Actor{ID: 1, RoleName: RoleManager, Active: true}, authenticated: true}
	decision := stage.Evaluate(context.Background(), req)
	require.True(t, decision.Allowed)
}

func TestPermissionStageDenies(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	stage := PermissionStage{
		Permissions: NewPermissions(&stubPermissionStore{}, actors, testLogger()),
		Module:      "evaluations",
		Action:      ActionEdit,
	}

	req := &Request{Actor: Actor{ID: 1, RoleName: RoleManager, Active: true}, authenticated: true}
	decision := stage.Evaluate(context.Background(), req)
	require.False(t, decision.Allowed)
	assert.Equal(t, KindInsufficientPermission, decision.Kind)
	assert.Contains(t, decision.Reason, "evaluations.edit")
}

func TestPermissionStageWithoutModuleIsConfigurationFault(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	stage := PermissionStage{Permissions: NewPermissions(&stubPermissionStore{}, actors, testLogger())}

	req := &Request{Actor: Actor{ID: 1, RoleName: RoleManager, Active: true}, authenticated: true}
	decision := stage.Evaluate(context.Background(), req)
	require.False(t, decision.Allowed)
	assert.Equal(t, KindConfigurationFault, decision.Kind)
}

func TestRouteStageUnknownRoutePasses(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	stage := RouteStage{
		Permissions: NewPermissions(&stubPermissionStore{}, actors, testLogger()),
		Table:       map[string]string{"/api/v1/roles/": "roles.view"},
	}

	req := &Request{RoutePath: "/api/v1/evaluations/", Actor: Actor{ID: 1, RoleName: RoleManager, Active: true}, authenticated: true}
	decision := stage.Evaluate(context.Background(), req)
	require.True(t, decision.Allowed)
}

func TestRouteStageEnforcesTableEntry(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	store := &stubPermissionStore{grants: map[int64][]Grant{
		1: {{Module: "roles", Action: ActionView, Granted: true}},
	}}
	stage := RouteStage{
		Permissions: NewPermissions(store, actors, testLogger()),
		Table: map[string]string{
			"/api/v1/roles/":     "roles.view",
			"/api/v1/roles/{id}": "roles.edit",
		},
	}

	granted := stage.Evaluate(context.Background(), &Request{
		RoutePath: "/api/v1/roles/", Actor: Actor{ID: 1, RoleName: RoleManager, Active: true}, authenticated: true,
	})
	require.True(t, granted.Allowed)

	denied := stage.Evaluate(context.Background(), &Request{
		RoutePath: "/api/v1/roles/{id}", Actor: Actor{ID: 1, RoleName: RoleManager, Active: true}, authenticated: true,
	})
	require.False(t, denied.Allowed)
	assert.Equal(t, KindInsufficientPermission, denied.Kind)
}

func TestRouteStageMalformedEntryIsConfigurationFault(t *testing.T) {
	actors := &stubActorStore{actors: map[int64]Actor{1: {ID: 1, RoleName: RoleManager, Active: true}}}
	stage := RouteStage{
		Permissions: NewPermissions(&stubPermissionStore{}, actors, testLogger()),
		Table:       map[string]string{"/broken": "rolesview"},
	}

	decision := stage.Evaluate(context.Background(), &Request{
		RoutePath: "/broken", Actor: Actor{ID: 1, RoleName: RoleManager, Active: true}, authenticated: true,
	})
	require.False(t, decision.Allowed)
	assert.Equal(t, KindConfigurationFault, decision.Kind)
}

func TestScopeStageAttachesConstraint(t *testing.T) {
	req := &Request{
		Resource:      ResourceEvaluation,
		Actor:         Actor{ID: 5, RoleName: RoleIntervenant, EntrepriseID: 2, Active: true},
		authenticated: true,
	}
	decision := ScopeStage{}.Evaluate(context.Background(), req)
	require.True(t, decision.Allowed)
	assert.Equal(t, ByActor(5), decision.Constraint)
}

func TestScopeStagePointLookup(t *testing.T) {
	owners := &stubOwnerStore{owners: map[int64]Owner{42: {EntrepriseID: 9, ActorID: 5}}}
	req := &Request{
		Resource:      ResourceEvaluation,
		ResourceID:    42,
		Actor:         Actor{ID: 6, RoleName: RoleIntervenant, EntrepriseID: 9, Active: true},
		authenticated: true,
	}
	decision := ScopeStage{Owners: owners}.Evaluate(context.Background(), req)
	require.False(t, decision.Allowed)
	assert.Equal(t, KindScopeViolation, decision.Kind)
}

func TestSplitPermission(t *testing.T) {
	module, action, ok := splitPermission("roles.edit")
	require.True(t, ok)
	assert.Equal(t, "roles", module)
	assert.Equal(t, "edit", action)

	module, action, ok = splitPermission("audit.logs.view")
	require.True(t, ok)
	assert.Equal(t, "audit.logs", module)
	assert.Equal(t, "view", action)

	for _, bad := range []string{"", "roles", ".edit", "roles."} {
		_, _, ok := splitPermission(bad)
		assert.False(t, ok, "input %q", bad)
	}
}
