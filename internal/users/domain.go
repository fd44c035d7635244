package users

import (
	"errors"
	"time"

	"github.com/terojleinonen/cms-admin/internal/authz"
)

// User is a managed account.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      authz.Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Business-rule errors enforced by the service, deliberately separate
// from the generic permission grants: holding users:delete or
// users:update never implies these operations.
var (
	// ErrSelfDelete rejects deletion of the caller's own account.
	ErrSelfDelete = errors.New("users: cannot delete own account")
	// ErrSelfRoleChange rejects changing the caller's own role.
	ErrSelfRoleChange = errors.New("users: cannot change own role")
	// ErrRoleChangeForbidden rejects role assignment by non-admins.
	ErrRoleChangeForbidden = errors.New("users: only admins may assign roles")
)
