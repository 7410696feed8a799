// Package tokenx implements the signed identity token used for API
// authentication. Tokens are HS256 JWTs bound to a single process-wide
// secret; encoding and decoding are pure functions of that secret.
package tokenx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the default identity token lifetime. Marketplace sessions
// are long-lived compared to typical OAuth2 access tokens.
const DefaultTTL = 72 * time.Hour

// Decode failure kinds. Callers must treat all three as the same
// "unauthenticated" outcome; the distinction exists for logging and tests.
var (
	ErrMalformed        = errors.New("tokenx: malformed token")
	ErrInvalidSignature = errors.New("tokenx: invalid signature")
	ErrExpired          = errors.New("tokenx: token expired")
)

// Claims is the decoded token payload: an opaque subject identifier plus
// issued-at and expiry timestamps.
type Claims struct {
	jwt.RegisteredClaims
}

// Codec encodes and decodes identity tokens. The secret must be identical
// across all instances that share tokens and is read-only after startup.
type Codec struct {
	Secret []byte
	Issuer string
}

// Encode mints a signed token binding subject to an expiry of now+ttl.
func (c *Codec) Encode(subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.Secret)
}

// Decode verifies the signature and expiry of a token and returns its
// claims. Any bit flip in the token fails with ErrInvalidSignature or
// ErrMalformed; a token at or past its expiry fails with ErrExpired.
func (c *Codec) Decode(token string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.Secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSignature
		default:
			return Claims{}, ErrMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrMalformed
	}

	if c.Issuer != "" && claims.Issuer != c.Issuer {
		return Claims{}, ErrMalformed
	}

	return *claims, nil
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
