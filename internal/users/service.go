package users

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/terojleinonen/cms-admin/internal/authz"
)

// Service wraps user management business rules. The coarse permission
// check (users:create and friends) happens at the gate; the service
// enforces the identity-sensitive invariants that a resource/action
// grant can never express.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// GetUser fetches one account.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.repo.Get(ctx, id)
}

// CreateParams collects new-account input.
type CreateParams struct {
	Email    string
	Name     string
	Password string
	Role     authz.Role
}

// CreateUser creates an account. Only admins may hand out roles above
// viewer.
func (s *Service) CreateUser(ctx context.Context, actor *authz.User, params CreateParams) (User, error) {
	if params.Role == "" {
		params.Role = authz.RoleViewer
	}
	if params.Role != authz.RoleViewer && !authz.HasRole(actor, authz.RoleAdmin) {
		return User{}, ErrRoleChangeForbidden
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:       uuid.NewString(),
		Email:    params.Email,
		Name:     params.Name,
		Role:     params.Role,
		IsActive: true,
	}
	return s.repo.Create(ctx, u, string(hash))
}

// UpdateParams collects account mutation input. Nil fields are left
// unchanged.
type UpdateParams struct {
	Name     *string
	Role     *authz.Role
	IsActive *bool
}

// UpdateUser applies the update. Role changes are admin-only, and never
// applicable to the actor's own account: a grant of users:update does
// not imply permission to touch the role field, and self-elevation is
// rejected outright rather than silently ignored.
func (s *Service) UpdateUser(ctx context.Context, actor *authz.User, id string, params UpdateParams) (User, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	if params.Role != nil && *params.Role != current.Role {
		if !authz.HasRole(actor, authz.RoleAdmin) {
			return User{}, ErrRoleChangeForbidden
		}
		if actor != nil && actor.ID == id {
			return User{}, ErrSelfRoleChange
		}
		current.Role = *params.Role
	}
	if params.Name != nil {
		current.Name = *params.Name
	}
	if params.IsActive != nil {
		current.IsActive = *params.IsActive
	}

	return s.repo.Update(ctx, current)
}

// DeleteUser removes an account. Deleting one's own account is rejected
// regardless of role; the resolver never encodes identity equality, so
// the guard lives here with the mutation.
func (s *Service) DeleteUser(ctx context.Context, actor *authz.User, id string) error {
	if actor != nil && actor.ID == id {
		return ErrSelfDelete
	}
	return s.repo.Delete(ctx, id)
}
