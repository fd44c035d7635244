package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/terojleinonen/cms-admin/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. Unknown accounts,
// wrong passwords and deactivated accounts all surface as
// shared.ErrInvalidCredentials so callers leak nothing about which case
// occurred.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return account, nil
}

// Load fetches the account for a resolved session user ID.
func (s *Service) Load(ctx context.Context, id string) (*Account, error) {
	if id == "" {
		return nil, shared.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// RegisterSession persists session metadata in postgres. The live
// session lives in Redis; this row exists for the admin session list and
// the background sweep.
func (s *Service) RegisterSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, userAgent string) error {
	if id == "" || userID == "" {
		return errors.New("auth: session registration requires id and user id")
	}
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, userAgent)
}

// RemoveSession deletes a session metadata row.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
