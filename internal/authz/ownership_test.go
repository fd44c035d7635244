package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terojleinonen/cms-admin/internal/authz"
)

func TestIsOwner(t *testing.T) {
	owner := &authz.User{ID: "u1", Role: authz.RoleViewer, IsActive: true}

	require.True(t, authz.IsOwner(owner, "u1"))
	require.False(t, authz.IsOwner(owner, "u2"))
	require.False(t, authz.IsOwner(nil, "u1"))
	require.False(t, authz.IsOwner(owner, ""))

	inactive := &authz.User{ID: "u1", Role: authz.RoleViewer, IsActive: false}
	require.False(t, authz.IsOwner(inactive, "u1"))
}

func TestIsOwnerOrAdmin(t *testing.T) {
	admin := activeUser(authz.RoleAdmin)
	viewer := &authz.User{ID: "u1", Role: authz.RoleViewer, IsActive: true}

	require.True(t, authz.IsOwnerOrAdmin(admin, "someone-else"))
	require.True(t, authz.IsOwnerOrAdmin(viewer, "u1"))
	require.False(t, authz.IsOwnerOrAdmin(viewer, "u2"))
	require.False(t, authz.IsOwnerOrAdmin(nil, "u1"))
}

func TestOwnershipWidensPermissionGrants(t *testing.T) {
	resolver := authz.NewResolver()
	viewer := &authz.User{ID: "u1", Role: authz.RoleViewer, IsActive: true}
	update := authz.Permission{Resource: "products", Action: authz.ActionUpdate}

	// Without owner access the viewer lacks the permission.
	denied := resolver.Evaluate(viewer, authz.Policy{Permissions: []authz.Permission{update}})
	require.False(t, denied.Allowed)

	// As the recorded owner, access is granted.
	allowed := resolver.Evaluate(viewer, authz.Policy{
		Permissions:      []authz.Permission{update},
		AllowOwnerAccess: true,
		ResourceOwnerID:  "u1",
	})
	require.True(t, allowed.Allowed)

	// Ownership of someone else's resource grants nothing.
	other := resolver.Evaluate(viewer, authz.Policy{
		Permissions:      []authz.Permission{update},
		AllowOwnerAccess: true,
		ResourceOwnerID:  "u2",
	})
	require.False(t, other.Allowed)

	// An editor keeps the role-granted permission even when not owner:
	// ownership never narrows access.
	editor := activeUser(authz.RoleEditor)
	still := resolver.Evaluate(editor, authz.Policy{
		Permissions:      []authz.Permission{update},
		AllowOwnerAccess: true,
		ResourceOwnerID:  "someone-else",
	})
	require.True(t, still.Allowed)
}
