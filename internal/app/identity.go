package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/terojleinonen/cms-admin/internal/auth"
	"github.com/terojleinonen/cms-admin/internal/authz"
	"github.com/terojleinonen/cms-admin/internal/shared"
)

// SessionIdentity resolves the acting user from the request's session.
// It implements authz.Identity for the authorization gate.
type SessionIdentity struct {
	Accounts *auth.Service
}

// CurrentUser loads the account tied to the session. A session without a
// user, or one pointing at a deleted account, resolves to nil: the
// request proceeds as unauthenticated rather than erroring.
func (i SessionIdentity) CurrentUser(ctx context.Context, r *http.Request) (*authz.User, error) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil || sess.UserID() == "" {
		return nil, nil
	}
	account, err := i.Accounts.Load(ctx, sess.UserID())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account.Subject(), nil
}
