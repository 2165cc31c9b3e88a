// Package auth verifies bearer credentials. It never issues them: tokens
// come from the identity provider, API keys from the administration CRUD.
package auth

import (
	"context"
	"strings"

	"github.com/maturis/maturis/internal/shared"
)

// Claims is the decoded result of a successful verification.
type Claims struct {
	ActorID int64
	TokenID string
}

// Verifier validates one credential format.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Claims, error)
}

// MultiVerifier routes a credential to the verifier matching its shape:
// API keys carry the maturis key prefix, everything else is tried as a JWT.
type MultiVerifier struct {
	JWT    Verifier
	APIKey Verifier
}

// Verify implements Verifier.
func (m *MultiVerifier) Verify(ctx context.Context, credential string) (Claims, error) {
	if strings.HasPrefix(credential, APIKeyPrefix) {
		if m.APIKey == nil {
			return Claims{}, shared.ErrInvalidCredentials
		}
		return m.APIKey.Verify(ctx, credential)
	}
	if m.JWT == nil {
		return Claims{}, shared.ErrInvalidCredentials
	}
	return m.JWT.Verify(ctx, credential)
}

// VerifyCredential adapts the verifier to the authorization middleware,
// which only needs the actor id.
func (m *MultiVerifier) VerifyCredential(ctx context.Context, credential string) (int64, error) {
	claims, err := m.Verify(ctx, credential)
	if err != nil {
		return 0, err
	}
	return claims.ActorID, nil
}
