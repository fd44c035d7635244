package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terojleinonen/cms-admin/internal/authz"
)

var contentResources = []string{"products", "categories", "pages", "media", "orders"}
var adminResources = []string{"users", "analytics", "security", "settings"}
var allActions = []authz.Action{
	authz.ActionCreate, authz.ActionRead, authz.ActionUpdate,
	authz.ActionDelete, authz.ActionManage,
}

func TestAdminGrantedEverything(t *testing.T) {
	resolver := authz.NewResolver()
	admin := activeUser(authz.RoleAdmin)

	for _, res := range append(append([]string{}, contentResources...), adminResources...) {
		for _, action := range allActions {
			require.True(t, resolver.CanAccess(admin, authz.Permission{Resource: res, Action: action}),
				"admin should access %s:%s", res, action)
		}
	}

	// Novel resource strings the resolver has never seen.
	require.True(t, resolver.CanAccess(admin, authz.Permission{Resource: "webhooks", Action: authz.ActionManage}))
	require.True(t, resolver.CanAccess(admin, authz.Permission{Resource: "experimental-flags", Action: authz.ActionDelete}))
}

func TestEditorGrantMatrix(t *testing.T) {
	resolver := authz.NewResolver()
	editor := activeUser(authz.RoleEditor)

	for _, res := range contentResources {
		for _, action := range allActions {
			require.True(t, resolver.CanAccess(editor, authz.Permission{Resource: res, Action: action}),
				"editor should access %s:%s", res, action)
		}
	}
	for _, res := range adminResources {
		for _, action := range allActions {
			require.False(t, resolver.CanAccess(editor, authz.Permission{Resource: res, Action: action}),
				"editor should not access %s:%s", res, action)
		}
	}
}

func TestViewerReadOnly(t *testing.T) {
	resolver := authz.NewResolver()
	viewer := activeUser(authz.RoleViewer)

	for _, res := range contentResources {
		require.True(t, resolver.CanAccess(viewer, authz.Permission{Resource: res, Action: authz.ActionRead}))
		for _, action := range []authz.Action{authz.ActionCreate, authz.ActionUpdate, authz.ActionDelete, authz.ActionManage} {
			require.False(t, resolver.CanAccess(viewer, authz.Permission{Resource: res, Action: action}),
				"viewer should not %s %s", action, res)
		}
	}
	for _, res := range adminResources {
		require.False(t, resolver.CanAccess(viewer, authz.Permission{Resource: res, Action: authz.ActionRead}))
	}
}

func TestNilAndInactiveDeniedEverything(t *testing.T) {
	resolver := authz.NewResolver()
	inactive := &authz.User{ID: "u1", Role: authz.RoleAdmin, IsActive: false}

	for _, res := range append(append([]string{}, contentResources...), adminResources...) {
		for _, action := range allActions {
			perm := authz.Permission{Resource: res, Action: action}
			require.False(t, resolver.CanAccess(nil, perm))
			require.False(t, resolver.CanAccess(inactive, perm))
		}
	}
}

func TestResourceComparisonIsLiteral(t *testing.T) {
	resolver := authz.NewResolver()
	editor := activeUser(authz.RoleEditor)

	require.False(t, resolver.CanAccess(editor, authz.Permission{Resource: "Products", Action: authz.ActionRead}))
	require.False(t, resolver.CanAccess(editor, authz.Permission{Resource: "products ", Action: authz.ActionRead}))
}

func TestConvenienceWrappers(t *testing.T) {
	resolver := authz.NewResolver()
	editor := activeUser(authz.RoleEditor)
	viewer := activeUser(authz.RoleViewer)
	admin := activeUser(authz.RoleAdmin)

	require.True(t, resolver.CanCreateProduct(editor))
	require.False(t, resolver.CanCreateProduct(viewer))
	require.True(t, resolver.CanUploadMedia(editor))
	require.True(t, resolver.CanReadOrders(viewer))
	require.False(t, resolver.CanManageUsers(editor))
	require.True(t, resolver.CanManageUsers(admin))
	require.False(t, resolver.CanDeleteUser(editor))
	require.False(t, resolver.CanViewAnalytics(viewer))
	require.True(t, resolver.CanManageSettings(admin))
}

func TestPermissionString(t *testing.T) {
	require.Equal(t, "products:create", authz.Permission{Resource: "products", Action: authz.ActionCreate}.String())
	require.Equal(t, "pages:update:own", authz.Permission{Resource: "pages", Action: authz.ActionUpdate, Scope: "own"}.String())
}
