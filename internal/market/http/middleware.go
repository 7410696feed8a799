// Package http exposes the marketplace JSON API. Handlers are plain
// structs holding their service dependencies; the Router wires them to a
// ServeMux with per-route middleware chains.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/northmarket/bazaar/internal/market/auth"
	"github.com/northmarket/bazaar/internal/market/domain"
	"github.com/northmarket/bazaar/pkg/httpx"
	"github.com/northmarket/bazaar/pkg/marketapi"
	"github.com/northmarket/bazaar/pkg/slogx"
)

type principalKey struct{}

// principalFrom returns the authenticated user for this request, or nil on
// routes behind optionalAuth when no credential was presented.
func principalFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(principalKey{}).(*domain.User)
	return u
}

func withPrincipal(ctx context.Context, u *domain.User) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, u)
	// Per-user rate limiting keys off this.
	return context.WithValue(ctx, httpx.CtxKeyUserID, u.ID)
}

// requireAuth rejects unauthenticated requests with 401 before the handler
// runs.
func requireAuth(gate *auth.Gate) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			u, err := gate.Resolve(ctx, r.Header.Get("Authorization"), auth.ModeRequired)
			if err != nil {
				if errors.Is(err, auth.ErrUnauthorized) {
					marketapi.ErrUnauthorized.WriteError(w)
					return
				}
				slogx.FromContext(ctx).Error("auth resolution failed", "err", err)
				marketapi.ErrServerError.WriteError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, u)))
		})
	}
}

// optionalAuth resolves a credential when present but never rejects; the
// handler sees a nil principal for anonymous requests.
func optionalAuth(gate *auth.Gate) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			u, err := gate.Resolve(ctx, r.Header.Get("Authorization"), auth.ModeOptional)
			if err != nil {
				slogx.FromContext(ctx).Error("auth resolution failed", "err", err)
				marketapi.ErrServerError.WriteError(w)
				return
			}
			if u != nil {
				ctx = withPrincipal(ctx, u)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
