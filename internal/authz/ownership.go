package authz

// IsOwner reports whether the user is authenticated and recorded as the
// owner of the resource.
func IsOwner(u *User, resourceOwnerID string) bool {
	return u.authenticated() && resourceOwnerID != "" && u.ID == resourceOwnerID
}

// IsOwnerOrAdmin reports whether the user owns the resource or holds the
// admin role. Ownership only ever widens access granted elsewhere; it is
// OR-combined with resolver grants in Policy evaluation, never used to
// narrow them.
func IsOwnerOrAdmin(u *User, resourceOwnerID string) bool {
	return IsOwner(u, resourceOwnerID) || HasRole(u, RoleAdmin)
}
