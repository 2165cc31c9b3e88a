package auth

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/maturis/maturis/internal/shared"
)

// APIKeyPrefix identifies maturis API keys. Format: mk_<actor id>_<secret>.
const APIKeyPrefix = "mk_"

// KeyStore fetches the stored bcrypt hash of an actor's API key.
type KeyStore interface {
	FetchAPIKeyHash(ctx context.Context, actorID int64) (string, error)
}

// APIKeyVerifier validates static API keys used by service integrations.
// Only the bcrypt hash is stored; the clear key exists client-side only.
type APIKeyVerifier struct {
	keys KeyStore
}

// NewAPIKeyVerifier constructs a verifier over the key store.
func NewAPIKeyVerifier(keys KeyStore) *APIKeyVerifier {
	return &APIKeyVerifier{keys: keys}
}

// Verify implements Verifier.
func (v *APIKeyVerifier) Verify(ctx context.Context, credential string) (Claims, error) {
	rest, ok := strings.CutPrefix(credential, APIKeyPrefix)
	if !ok {
		return Claims{}, shared.ErrInvalidCredentials
	}
	idPart, secret, ok := strings.Cut(rest, "_")
	if !ok || secret == "" {
		return Claims{}, shared.ErrInvalidCredentials
	}
	actorID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return Claims{}, shared.ErrInvalidCredentials
	}

	hash, err := v.keys.FetchAPIKeyHash(ctx, actorID)
	if err != nil || hash == "" {
		return Claims{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)); err != nil {
		return Claims{}, shared.ErrInvalidCredentials
	}
	return Claims{ActorID: actorID}, nil
}
