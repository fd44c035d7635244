package authz

import "fmt"

// Policy is the requirement set a route (or UI region) attaches to a
// request. Zero-value fields impose nothing: an empty Policy only
// requires an authenticated, active user.
type Policy struct {
	// Permissions must all be granted by the resolver, unless owner
	// access applies (see AllowOwnerAccess).
	Permissions []Permission

	// MinimumRole, when set, requires the user's role to rank at or
	// above it.
	MinimumRole Role

	// AllowedRoles, when non-empty, requires the user to hold one of the
	// listed roles.
	AllowedRoles []Role

	// AllowOwnerAccess grants the permission requirement when the user
	// owns the resource identified by ResourceOwnerID (or is an admin).
	// Ownership is OR-combined with resolver grants: it widens access
	// for the owner and never revokes a role-granted permission.
	AllowOwnerAccess bool
	ResourceOwnerID  string

	// Validator is an optional custom predicate, AND-ed with everything
	// above. A panic inside it is caught and treated as a denial.
	Validator func() bool
}

// Evaluate checks the policy against the user and returns a structured
// decision. It never panics; the reason on denial is machine-readable
// and stable enough to log.
func (r *Resolver) Evaluate(u *User, pol Policy) Decision {
	if !u.authenticated() {
		return Deny("authentication required")
	}

	if pol.MinimumRole != "" && !HasMinimumRole(u, pol.MinimumRole) {
		return Deny(fmt.Sprintf("requires role %s or above", pol.MinimumRole))
	}

	if len(pol.AllowedRoles) > 0 && !HasAnyRole(u, pol.AllowedRoles...) {
		return Deny(fmt.Sprintf("role %s is not permitted", u.Role))
	}

	ownerAccess := pol.AllowOwnerAccess && IsOwnerOrAdmin(u, pol.ResourceOwnerID)
	if !ownerAccess {
		for _, perm := range pol.Permissions {
			if !r.CanAccess(u, perm) {
				return Deny("missing required permission: " + perm.String())
			}
		}
	}

	if pol.Validator != nil && !r.composerOrDefault().eval(validatorCondition{fn: pol.Validator}) {
		return Deny("custom validation failed")
	}

	return Allow()
}

// validatorCondition lets a policy validator panic through to the
// composer, where the recovery happens and the debug log can see it.
type validatorCondition struct {
	fn func() bool
}

func (c validatorCondition) Evaluate() bool { return c.fn() }
