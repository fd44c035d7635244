package authz

// Action is the operation verb applied to a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionManage implies every other action on the same resource.
	ActionManage Action = "manage"
)

// Permission is a single authorization request: may <action> be performed
// on <resource>? Scope optionally narrows the request (e.g. "own" vs
// "all"); an empty scope means the default, unscoped check. Permissions
// are immutable values and carry no subject.
type Permission struct {
	Resource string
	Action   Action
	Scope    string
}

// String renders the permission in resource:action[:scope] form, used in
// denial reasons and audit records.
func (p Permission) String() string {
	s := p.Resource + ":" + string(p.Action)
	if p.Scope != "" {
		s += ":" + p.Scope
	}
	return s
}

// contentResources are the nouns editors work on day to day. Viewer and
// editor default grants are limited to this set; administrative resources
// (users, analytics, security, settings) are admin-only.
var contentResources = map[string]struct{}{
	"products":   {},
	"categories": {},
	"pages":      {},
	"media":      {},
	"orders":     {},
}

// Resolver evaluates permission requests against per-role default grants.
// It carries no mutable state and is safe for concurrent use; construct
// one and inject it wherever decisions are made.
type Resolver struct {
	composer *Composer
}

// NewResolver constructs a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// WithComposer returns a copy of the resolver that routes validator and
// display-condition evaluation through the given composer, so recovered
// panics surface in its debug log.
func (r *Resolver) WithComposer(c *Composer) *Resolver {
	return &Resolver{composer: c}
}

func (r *Resolver) composerOrDefault() *Composer {
	if r != nil && r.composer != nil {
		return r.composer
	}
	return &Composer{}
}

// CanAccess is the resolver's single entry point. Resource names are
// compared literally and case-sensitively. Admins are granted every
// resource/action pair, including resources the resolver has never seen;
// an unauthenticated or deactivated user is denied everything.
func (r *Resolver) CanAccess(u *User, perm Permission) bool {
	if !u.authenticated() {
		return false
	}
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleEditor:
		_, ok := contentResources[perm.Resource]
		return ok
	case RoleViewer:
		if _, ok := contentResources[perm.Resource]; !ok {
			return false
		}
		return perm.Action == ActionRead
	default:
		return false
	}
}

// Convenience wrappers with resource and action fixed. They exist so call
// sites read as intent rather than string pairs; all of them delegate to
// CanAccess.

func (r *Resolver) CanCreateProduct(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "products", Action: ActionCreate})
}

func (r *Resolver) CanUpdateProduct(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "products", Action: ActionUpdate})
}

func (r *Resolver) CanDeleteProduct(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "products", Action: ActionDelete})
}

func (r *Resolver) CanManageCategories(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "categories", Action: ActionManage})
}

func (r *Resolver) CanUploadMedia(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "media", Action: ActionCreate})
}

func (r *Resolver) CanReadOrders(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "orders", Action: ActionRead})
}

func (r *Resolver) CanManageUsers(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "users", Action: ActionManage})
}

// CanDeleteUser reports whether the user's role permits deleting accounts.
// It does not compare identities: deleting one's own account is rejected
// separately by the users service, never by the resolver.
func (r *Resolver) CanDeleteUser(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "users", Action: ActionDelete})
}

func (r *Resolver) CanViewAnalytics(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "analytics", Action: ActionRead})
}

func (r *Resolver) CanManageSettings(u *User) bool {
	return r.CanAccess(u, Permission{Resource: "settings", Action: ActionManage})
}
