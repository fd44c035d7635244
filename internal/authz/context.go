package authz

import "context"

type userContextKey struct{}

// ContextWithUser stores the resolved user in context. The gate calls
// this before invoking a protected handler.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext extracts the resolved user, nil when the request never
// passed the gate.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userContextKey{}).(*User)
	return u
}
