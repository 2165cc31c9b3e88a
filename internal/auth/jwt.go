package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maturis/maturis/internal/shared"
)

// JWTVerifier validates HMAC-signed bearer tokens from the identity
// provider. Revoked token ids are rejected through the denylist.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	denylist *Denylist
}

// NewJWTVerifier constructs a verifier. The denylist is optional.
func NewJWTVerifier(secret []byte, issuer string, denylist *Denylist) *JWTVerifier {
	return &JWTVerifier{secret: secret, issuer: issuer, denylist: denylist}
}

// Verify implements Verifier.
func (v *JWTVerifier) Verify(ctx context.Context, credential string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(credential, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Claims{}, shared.ErrInvalidCredentials
	}

	registered, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || registered.Subject == "" {
		return Claims{}, shared.ErrInvalidCredentials
	}
	actorID, err := strconv.ParseInt(registered.Subject, 10, 64)
	if err != nil {
		return Claims{}, shared.ErrInvalidCredentials
	}

	if v.denylist != nil && registered.ID != "" {
		revoked, err := v.denylist.IsRevoked(ctx, registered.ID)
		if err != nil {
			// Fail closed: unable to check revocation means no access.
			return Claims{}, shared.ErrCredentialRevoked
		}
		if revoked {
			return Claims{}, shared.ErrCredentialRevoked
		}
	}

	return Claims{ActorID: actorID, TokenID: registered.ID}, nil
}

// TTLUntil returns how long a denylist entry must outlive the token.
func TTLUntil(expiry time.Time, now time.Time) time.Duration {
	ttl := expiry.Sub(now)
	if ttl < time.Minute {
		return time.Minute
	}
	return ttl
}
