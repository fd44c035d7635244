package shared

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. Deliberately covers
	// unknown accounts, wrong passwords and deactivated accounts alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates an account already uses the email address.
	ErrEmailTaken = errors.New("email already in use")
)
