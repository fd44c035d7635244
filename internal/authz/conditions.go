package authz

import "time"

// Concrete Condition variants. Factories close over the user and, where
// needed, a Resolver; the Composer only ever sees the Condition interface.

type roleCondition struct {
	user *User
	role Role
}

func (c roleCondition) Evaluate() bool { return HasRole(c.user, c.role) }

// RoleIs requires the user to hold exactly the given role.
func RoleIs(u *User, role Role) Condition {
	return roleCondition{user: u, role: role}
}

// IsAdmin requires the admin role.
func IsAdmin(u *User) Condition {
	return roleCondition{user: u, role: RoleAdmin}
}

type minimumRoleCondition struct {
	user *User
	min  Role
}

func (c minimumRoleCondition) Evaluate() bool { return HasMinimumRole(c.user, c.min) }

// RoleAtLeast requires the user's role to rank at or above min.
func RoleAtLeast(u *User, min Role) Condition {
	return minimumRoleCondition{user: u, min: min}
}

type anyRoleCondition struct {
	user  *User
	roles []Role
}

func (c anyRoleCondition) Evaluate() bool { return HasAnyRole(c.user, c.roles...) }

// RoleIn requires the user to hold one of the given roles.
func RoleIn(u *User, roles ...Role) Condition {
	return anyRoleCondition{user: u, roles: roles}
}

type permissionCondition struct {
	resolver *Resolver
	user     *User
	perm     Permission
}

func (c permissionCondition) Evaluate() bool {
	return c.resolver != nil && c.resolver.CanAccess(c.user, c.perm)
}

// Can requires the resolver to grant the permission.
func Can(resolver *Resolver, u *User, perm Permission) Condition {
	return permissionCondition{resolver: resolver, user: u, perm: perm}
}

type allPermissionsCondition struct {
	resolver *Resolver
	user     *User
	perms    []Permission
}

func (c allPermissionsCondition) Evaluate() bool {
	if c.resolver == nil {
		return false
	}
	for _, perm := range c.perms {
		if !c.resolver.CanAccess(c.user, perm) {
			return false
		}
	}
	return true
}

// CanAll requires every listed permission to be granted.
func CanAll(resolver *Resolver, u *User, perms ...Permission) Condition {
	return allPermissionsCondition{resolver: resolver, user: u, perms: perms}
}

type anyPermissionCondition struct {
	resolver *Resolver
	user     *User
	perms    []Permission
}

func (c anyPermissionCondition) Evaluate() bool {
	if c.resolver == nil {
		return false
	}
	for _, perm := range c.perms {
		if c.resolver.CanAccess(c.user, perm) {
			return true
		}
	}
	return false
}

// CanAny requires at least one listed permission to be granted.
func CanAny(resolver *Resolver, u *User, perms ...Permission) Condition {
	return anyPermissionCondition{resolver: resolver, user: u, perms: perms}
}

type ownershipCondition struct {
	user       *User
	ownerID    string
	allowAdmin bool
}

func (c ownershipCondition) Evaluate() bool {
	if c.allowAdmin {
		return IsOwnerOrAdmin(c.user, c.ownerID)
	}
	return IsOwner(c.user, c.ownerID)
}

// Owns requires the user to own the resource.
func Owns(u *User, resourceOwnerID string) Condition {
	return ownershipCondition{user: u, ownerID: resourceOwnerID}
}

// OwnsOrAdmin requires ownership or the admin role.
func OwnsOrAdmin(u *User, resourceOwnerID string) Condition {
	return ownershipCondition{user: u, ownerID: resourceOwnerID, allowAdmin: true}
}

type authenticatedCondition struct {
	user   *User
	negate bool
}

func (c authenticatedCondition) Evaluate() bool {
	return c.user.authenticated() != c.negate
}

// IsAuthenticated requires a resolved, active identity.
func IsAuthenticated(u *User) Condition {
	return authenticatedCondition{user: u}
}

// IsNotAuthenticated requires the absence of a resolved identity.
func IsNotAuthenticated(u *User) Condition {
	return authenticatedCondition{user: u, negate: true}
}

type customCondition struct {
	fn func() bool
}

func (c customCondition) Evaluate() bool { return safeEval(c.fn) }

// Custom wraps an arbitrary predicate. Panics inside fn are downgraded to
// false, matching the composer's error semantics.
func Custom(fn func() bool) Condition {
	return customCondition{fn: fn}
}

// Clock supplies the current time to time-window conditions so tests can
// pin it. A nil clock falls back to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

type businessHoursCondition struct {
	clock Clock
}

func (c businessHoursCondition) Evaluate() bool {
	now := c.clock.now()
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return now.Hour() >= 9 && now.Hour() < 17
}

// IsBusinessHours holds Monday through Friday, 09:00-17:00 local time.
// It depends only on the clock, never on the user.
func IsBusinessHours(clock Clock) Condition {
	return businessHoursCondition{clock: clock}
}

type afterDateCondition struct {
	clock Clock
	date  time.Time
}

func (c afterDateCondition) Evaluate() bool { return c.clock.now().After(c.date) }

// IsAfterDate holds once the clock passes the given instant.
func IsAfterDate(clock Clock, date time.Time) Condition {
	return afterDateCondition{clock: clock, date: date}
}

type beforeDateCondition struct {
	clock Clock
	date  time.Time
}

func (c beforeDateCondition) Evaluate() bool { return c.clock.now().Before(c.date) }

// IsBeforeDate holds until the clock reaches the given instant.
func IsBeforeDate(clock Clock, date time.Time) Condition {
	return beforeDateCondition{clock: clock, date: date}
}
