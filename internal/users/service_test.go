package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terojleinonen/cms-admin/internal/authz"
	"github.com/terojleinonen/cms-admin/internal/shared"
)

type memoryRepo struct {
	users  map[string]User
	hashes map[string]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]User), hashes: make(map[string]string)}
}

func (r *memoryRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (r *memoryRepo) Create(ctx context.Context, u User, passwordHash string) (User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return User{}, shared.ErrEmailTaken
		}
	}
	r.users[u.ID] = u
	r.hashes[u.ID] = passwordHash
	return u, nil
}

func (r *memoryRepo) Update(ctx context.Context, u User) (User, error) {
	if _, ok := r.users[u.ID]; !ok {
		return User{}, shared.ErrNotFound
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func seedUser(t *testing.T, repo *memoryRepo, id string, role authz.Role) User {
	t.Helper()
	u := User{ID: id, Email: id + "@cms.local", Name: "User " + id, Role: role, IsActive: true}
	created, err := repo.Create(context.Background(), u, "hash")
	require.NoError(t, err)
	return created
}

func adminActor(id string) *authz.User {
	return &authz.User{ID: id, Role: authz.RoleAdmin, IsActive: true}
}

func TestCreateUserDefaultsToViewer(t *testing.T) {
	svc := NewService(newMemoryRepo())

	u, err := svc.CreateUser(context.Background(), adminActor("admin-1"), CreateParams{
		Email:    "new@cms.local",
		Name:     "New User",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.Equal(t, authz.RoleViewer, u.Role)
	require.True(t, u.IsActive)
	require.NotEmpty(t, u.ID)
}

func TestCreateUserRoleRequiresAdmin(t *testing.T) {
	svc := NewService(newMemoryRepo())
	editor := &authz.User{ID: "editor-1", Role: authz.RoleEditor, IsActive: true}

	_, err := svc.CreateUser(context.Background(), editor, CreateParams{
		Email:    "new@cms.local",
		Name:     "New User",
		Password: "correct horse",
		Role:     authz.RoleEditor,
	})
	require.ErrorIs(t, err, ErrRoleChangeForbidden)

	// A viewer-level account is fine regardless of actor role.
	_, err = svc.CreateUser(context.Background(), editor, CreateParams{
		Email:    "viewer@cms.local",
		Name:     "Viewer",
		Password: "correct horse",
		Role:     authz.RoleViewer,
	})
	require.NoError(t, err)
}

func TestUpdateUserSelfRoleChangeRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedUser(t, repo, "admin-1", authz.RoleAdmin)

	elevated := authz.RoleAdmin
	_, err := svc.UpdateUser(context.Background(), adminActor("admin-1"), "admin-1", UpdateParams{Role: &elevated})
	// Same role is a no-op, not a violation.
	require.NoError(t, err)

	demoted := authz.RoleEditor
	_, err = svc.UpdateUser(context.Background(), adminActor("admin-1"), "admin-1", UpdateParams{Role: &demoted})
	require.ErrorIs(t, err, ErrSelfRoleChange)
}

func TestUpdateUserRoleChangeByNonAdminRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedUser(t, repo, "editor-1", authz.RoleEditor)

	// An editor attempting to set role ADMIN on their own record: even
	// if route config allowed the update, the role mutation is refused.
	actor := &authz.User{ID: "editor-1", Role: authz.RoleEditor, IsActive: true}
	elevated := authz.RoleAdmin
	_, err := svc.UpdateUser(context.Background(), actor, "editor-1", UpdateParams{Role: &elevated})
	require.ErrorIs(t, err, ErrRoleChangeForbidden)

	// Non-role fields still go through.
	name := "Renamed"
	updated, err := svc.UpdateUser(context.Background(), actor, "editor-1", UpdateParams{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, authz.RoleEditor, updated.Role)
}

func TestUpdateUserRoleChangeByAdmin(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedUser(t, repo, "viewer-1", authz.RoleViewer)

	promoted := authz.RoleEditor
	updated, err := svc.UpdateUser(context.Background(), adminActor("admin-1"), "viewer-1", UpdateParams{Role: &promoted})
	require.NoError(t, err)
	require.Equal(t, authz.RoleEditor, updated.Role)
}

func TestDeleteUserSelfRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	seedUser(t, repo, "admin-1", authz.RoleAdmin)
	seedUser(t, repo, "viewer-1", authz.RoleViewer)

	err := svc.DeleteUser(context.Background(), adminActor("admin-1"), "admin-1")
	require.ErrorIs(t, err, ErrSelfDelete)

	require.NoError(t, svc.DeleteUser(context.Background(), adminActor("admin-1"), "viewer-1"))
	_, err = svc.GetUser(context.Background(), "viewer-1")
	require.ErrorIs(t, err, shared.ErrNotFound)
}
