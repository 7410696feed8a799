// Package auth resolves bearer tokens to authenticated users and enforces
// the required-vs-optional authentication policy used across all routes.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/pkg/slogx"
	"github.com/northmarket/bazaar/pkg/tokenx"
)

// Scheme is the Authorization header prefix. Matched case-insensitively;
// any other scheme is treated as an absent credential.
const Scheme = "Token"

// ErrUnauthorized is the single failure outcome of required mode. Missing
// header, bad scheme, any decode failure and an unresolvable subject all
// collapse into it; the boundary layer maps it to 401.
var ErrUnauthorized = errors.New("auth: unauthorized")

// Mode selects the authentication policy for a route.
type Mode int

const (
	// ModeOptional lets the request proceed unauthenticated; credential
	// failures yield no principal rather than an error.
	ModeOptional Mode = iota

	// ModeRequired rejects the request unless a valid, resolvable
	// credential is presented.
	ModeRequired
)

// Gate decodes bearer tokens and resolves their subject to a user record.
// It holds no per-request state; the principal is borrowed for one request
// and never cached.
type Gate struct {
	Codec *tokenx.Codec
	Store store.Store
}

// Resolve inspects an Authorization header value under the given mode.
//
// Outcomes:
//
//	cause              required             optional
//	-----              --------             --------
//	no/invalid header  ErrUnauthorized      nil, nil
//	decode failure     ErrUnauthorized      nil, nil
//	unknown subject    ErrUnauthorized      nil, nil
//	store I/O failure  error as-is          error as-is
//	valid credential   principal            principal
//
// Only the three credential causes collapse; a genuine storage failure is
// not an authentication outcome and propagates in both modes.
func (g *Gate) Resolve(ctx context.Context, header string, mode Mode) (*domain.User, error) {
	log := slogx.FromContext(ctx)

	raw, ok := extractToken(header)
	if !ok {
		return deny(mode)
	}

	claims, err := g.Codec.Decode(raw)
	if err != nil {
		// The codec distinguishes malformed/signature/expiry; callers
		// must not. Log the kind and move on.
		log.Debug("token rejected", "err", err)
		return deny(mode)
	}

	user, err := g.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("token subject no longer exists", "subject", claims.Subject)
			return deny(mode)
		}
		return nil, err
	}

	return &user, nil
}

func deny(mode Mode) (*domain.User, error) {
	if mode == ModeRequired {
		return nil, ErrUnauthorized
	}
	return nil, nil
}

// extractToken pulls the raw token out of an Authorization header value.
// The scheme must match exactly one word, case-insensitively.
func extractToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], Scheme) {
		return "", false
	}
	return parts[1], true
}
