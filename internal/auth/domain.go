package auth

import (
	"time"

	"github.com/terojleinonen/cms-admin/internal/authz"
)

// Account is the credential-bearing view of a user, loaded for login and
// identity resolution.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         authz.Role
	IsActive     bool
	CreatedAt    time.Time
}

// Subject converts the account into the authorization subject consumed
// by the permission core.
func (a *Account) Subject() *authz.User {
	if a == nil {
		return nil
	}
	return &authz.User{ID: a.ID, Role: a.Role, IsActive: a.IsActive}
}
