package authz_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terojleinonen/cms-admin/internal/authz"
)

func TestEvaluateEmptyPolicyRequiresAuthentication(t *testing.T) {
	resolver := authz.NewResolver()

	require.True(t, resolver.Evaluate(activeUser(authz.RoleViewer), authz.Policy{}).Allowed)

	denied := resolver.Evaluate(nil, authz.Policy{})
	require.False(t, denied.Allowed)
	require.Equal(t, "authentication required", denied.Reason)

	inactive := &authz.User{ID: "u1", Role: authz.RoleAdmin, IsActive: false}
	require.False(t, resolver.Evaluate(inactive, authz.Policy{}).Allowed)
}

func TestEvaluatePermissionDenialReason(t *testing.T) {
	resolver := authz.NewResolver()
	editor := activeUser(authz.RoleEditor)

	decision := resolver.Evaluate(editor, authz.Policy{
		Permissions: []authz.Permission{{Resource: "users", Action: authz.ActionDelete}},
	})
	require.False(t, decision.Allowed)
	require.Equal(t, "missing required permission: users:delete", decision.Reason)

	allowed := resolver.Evaluate(editor, authz.Policy{
		Permissions: []authz.Permission{{Resource: "products", Action: authz.ActionCreate}},
	})
	require.True(t, allowed.Allowed)
	require.Empty(t, allowed.Reason)
}

func TestEvaluateRoleConstraints(t *testing.T) {
	resolver := authz.NewResolver()
	viewer := activeUser(authz.RoleViewer)

	denied := resolver.Evaluate(viewer, authz.Policy{MinimumRole: authz.RoleEditor})
	require.False(t, denied.Allowed)
	require.Contains(t, denied.Reason, "requires role EDITOR")

	require.True(t, resolver.Evaluate(viewer, authz.Policy{MinimumRole: authz.RoleViewer}).Allowed)

	roleList := resolver.Evaluate(viewer, authz.Policy{AllowedRoles: []authz.Role{authz.RoleAdmin}})
	require.False(t, roleList.Allowed)
	require.Contains(t, roleList.Reason, "VIEWER")
}

func TestEvaluateRoleConstraintNotBypassedByOwnership(t *testing.T) {
	resolver := authz.NewResolver()
	viewer := &authz.User{ID: "u1", Role: authz.RoleViewer, IsActive: true}

	// Ownership widens permission grants but never role requirements.
	decision := resolver.Evaluate(viewer, authz.Policy{
		MinimumRole:      authz.RoleEditor,
		AllowOwnerAccess: true,
		ResourceOwnerID:  "u1",
	})
	require.False(t, decision.Allowed)
}

func TestEvaluateValidator(t *testing.T) {
	resolver := authz.NewResolver()
	admin := activeUser(authz.RoleAdmin)

	require.True(t, resolver.Evaluate(admin, authz.Policy{Validator: func() bool { return true }}).Allowed)

	denied := resolver.Evaluate(admin, authz.Policy{Validator: func() bool { return false }})
	require.False(t, denied.Allowed)
	require.Equal(t, "custom validation failed", denied.Reason)

	// A panicking validator denies, it never escapes.
	require.NotPanics(t, func() {
		decision := resolver.Evaluate(admin, authz.Policy{Validator: func() bool { panic("bad validator") }})
		require.False(t, decision.Allowed)
	})
}

func TestEvaluateValidatorPanicLoggedWithDebugComposer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	resolver := authz.NewResolver().
		WithComposer(authz.NewComposer(logger, true))
	admin := activeUser(authz.RoleAdmin)

	decision := resolver.Evaluate(admin, authz.Policy{Validator: func() bool { panic("bad validator") }})
	require.False(t, decision.Allowed)
	require.Equal(t, "custom validation failed", decision.Reason)
	require.Contains(t, buf.String(), "treating as false")

	// Without the debug flag the denial is identical but silent.
	buf.Reset()
	quiet := authz.NewResolver().
		WithComposer(authz.NewComposer(logger, false))
	require.False(t, quiet.Evaluate(admin, authz.Policy{Validator: func() bool { panic("bad validator") }}).Allowed)
	require.Empty(t, buf.String())
}

func TestEvaluateMultiplePermissionsRequireAll(t *testing.T) {
	resolver := authz.NewResolver()
	editor := activeUser(authz.RoleEditor)

	decision := resolver.Evaluate(editor, authz.Policy{
		Permissions: []authz.Permission{
			{Resource: "products", Action: authz.ActionUpdate},
			{Resource: "settings", Action: authz.ActionRead},
		},
	})
	require.False(t, decision.Allowed)
	require.Contains(t, decision.Reason, "settings:read")
}
