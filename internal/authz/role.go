package authz

import (
	"fmt"
	"strings"
)

// Role is the coarse-grained authorization tier assigned to a user.
// Every account carries exactly one role.
type Role string

const (
	RoleViewer Role = "VIEWER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

// roleRank orders roles for minimum-role checks only. Default permission
// grants are enumerated per role in permission.go, never derived from
// this ordering.
var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// ParseRole converts a raw string into a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("authz: unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// User is the subject of an authorization decision. Callers construct it
// per request from session data; the core never loads or stores it.
type User struct {
	ID       string
	Role     Role
	IsActive bool
}

// authenticated reports whether the user counts as a resolved identity.
// A nil or deactivated user fails every check.
func (u *User) authenticated() bool {
	return u != nil && u.IsActive && u.ID != ""
}

// HasRole reports whether the user holds exactly the given role.
func HasRole(u *User, role Role) bool {
	return u.authenticated() && u.Role == role
}

// HasMinimumRole reports whether the user's role ranks at or above min.
func HasMinimumRole(u *User, min Role) bool {
	if !u.authenticated() {
		return false
	}
	have, ok := roleRank[u.Role]
	if !ok {
		return false
	}
	want, ok := roleRank[min]
	if !ok {
		return false
	}
	return have >= want
}

// HasAnyRole reports whether the user holds one of the given roles.
func HasAnyRole(u *User, roles ...Role) bool {
	for _, role := range roles {
		if HasRole(u, role) {
			return true
		}
	}
	return false
}
