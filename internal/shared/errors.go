package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates a failed credential verification.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCredentialRevoked indicates a revoked token was presented.
	ErrCredentialRevoked = errors.New("credential revoked")
)
