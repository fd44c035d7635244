package authz

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/terojleinonen/cms-admin/internal/platform/httpx"
)

// Identity resolves the acting user for a request. Implementations look
// the user up from session state; resolution settles exactly once per
// request before any condition is evaluated. Returning a nil user with a
// nil error means "definitively unauthenticated".
type Identity interface {
	CurrentUser(ctx context.Context, r *http.Request) (*User, error)
}

// DecisionRecorder receives the outcome of every gate evaluation.
// Outcomes are "allowed", "denied" and "unauthenticated".
type DecisionRecorder interface {
	RecordDecision(outcome string)
}

// Gate enforces policies in front of HTTP handlers. All fields except
// Resolver and Identity are optional.
type Gate struct {
	Resolver *Resolver
	Identity Identity
	Logger   *slog.Logger
	Metrics  DecisionRecorder

	// Observer hooks. Notification only: they run after the decision is
	// final, panics are swallowed, and nothing they do changes the
	// outcome.
	OnAuthorized   func(u *User, pol Policy)
	OnUnauthorized func(u *User, pol Policy, reason string)
}

// Require wraps a handler with a policy check. Unresolved identity or a
// deactivated account yields 401 before any policy evaluation; a resolved
// user failing the policy yields 403 with the decision reason. On
// success the user is attached to the request context.
func (g Gate) Require(pol Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := g.Identity.CurrentUser(r.Context(), r)
			if err != nil {
				if g.Logger != nil {
					g.Logger.Error("authz: resolve identity", slog.Any("error", err))
				}
				g.reject(w, user, pol, "identity resolution failed", true)
				return
			}
			if !user.authenticated() {
				g.reject(w, user, pol, "authentication required", true)
				return
			}

			decision := g.Resolver.Evaluate(user, pol)
			if !decision.Allowed {
				g.reject(w, user, pol, decision.Reason, false)
				return
			}

			g.record("allowed")
			g.notifyAuthorized(user, pol)
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// RequireAuthenticated only demands a resolved, active identity.
func (g Gate) RequireAuthenticated() func(http.Handler) http.Handler {
	return g.Require(Policy{})
}

func (g Gate) reject(w http.ResponseWriter, u *User, pol Policy, reason string, unauthenticated bool) {
	if unauthenticated {
		g.record("unauthenticated")
		g.notifyUnauthorized(u, pol, reason)
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, reason)
		return
	}
	g.record("denied")
	g.notifyUnauthorized(u, pol, reason)
	if g.Logger != nil {
		g.Logger.Warn("authz: request denied", slog.String("reason", reason))
	}
	httpx.WriteError(w, http.StatusForbidden, httpx.CodeForbidden, reason)
}

func (g Gate) record(outcome string) {
	if g.Metrics != nil {
		g.Metrics.RecordDecision(outcome)
	}
}

func (g Gate) notifyAuthorized(u *User, pol Policy) {
	if g.OnAuthorized == nil {
		return
	}
	defer func() { _ = recover() }()
	g.OnAuthorized(u, pol)
}

func (g Gate) notifyUnauthorized(u *User, pol Policy, reason string) {
	if g.OnUnauthorized == nil {
		return
	}
	defer func() { _ = recover() }()
	g.OnUnauthorized(u, pol, reason)
}
