package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terojleinonen/cms-admin/internal/authz"
)

func TestRenderLoadingSuppressesEvaluation(t *testing.T) {
	resolver := authz.NewResolver()
	calls := 0

	decision := resolver.Render(authz.RenderInput{
		Identity:   authz.IdentityPending,
		Policy:     authz.Policy{Validator: func() bool { calls++; return true }},
		Conditions: []authz.Condition{countingCondition{calls: &calls, result: true}},
	})

	require.Equal(t, authz.RenderLoading, decision.State)
	require.Zero(t, calls, "no condition may run while identity is pending")
}

func TestRenderAbsentIdentityFallsBack(t *testing.T) {
	resolver := authz.NewResolver()

	decision := resolver.Render(authz.RenderInput{Identity: authz.IdentityAbsent, ShowError: true})
	require.Equal(t, authz.RenderFallback, decision.State)
	require.Equal(t, "authentication required", decision.Reason)
	require.True(t, decision.ShowError)
}

func TestRenderAllowed(t *testing.T) {
	resolver := authz.NewResolver()
	editor := activeUser(authz.RoleEditor)

	decision := resolver.Render(authz.RenderInput{
		Identity: authz.IdentityResolved,
		User:     editor,
		Policy: authz.Policy{
			Permissions: []authz.Permission{{Resource: "pages", Action: authz.ActionUpdate}},
		},
	})
	require.Equal(t, authz.RenderContent, decision.State)
	require.Empty(t, decision.Reason)
}

func TestRenderDeniedCarriesReason(t *testing.T) {
	resolver := authz.NewResolver()
	viewer := activeUser(authz.RoleViewer)

	decision := resolver.Render(authz.RenderInput{
		Identity:  authz.IdentityResolved,
		User:      viewer,
		Policy:    authz.Policy{Permissions: []authz.Permission{{Resource: "users", Action: authz.ActionRead}}},
		ShowError: true,
	})
	require.Equal(t, authz.RenderFallback, decision.State)
	require.Contains(t, decision.Reason, "users:read")
	require.True(t, decision.ShowError)
}

func TestRenderExtraConditions(t *testing.T) {
	resolver := authz.NewResolver()
	admin := activeUser(authz.RoleAdmin)

	allowed := resolver.Render(authz.RenderInput{
		Identity:   authz.IdentityResolved,
		User:       admin,
		Conditions: []authz.Condition{boolCondition(true)},
	})
	require.Equal(t, authz.RenderContent, allowed.State)

	denied := resolver.Render(authz.RenderInput{
		Identity:   authz.IdentityResolved,
		User:       admin,
		Conditions: []authz.Condition{boolCondition(true), boolCondition(false)},
	})
	require.Equal(t, authz.RenderFallback, denied.State)
	require.Equal(t, "display condition not met", denied.Reason)

	// Panicking display conditions deny without crashing.
	require.NotPanics(t, func() {
		blown := resolver.Render(authz.RenderInput{
			Identity:   authz.IdentityResolved,
			User:       admin,
			Conditions: []authz.Condition{panicCondition{}},
		})
		require.Equal(t, authz.RenderFallback, blown.State)
	})
}
