package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/pkg/httpx"
	"github.com/aussiebroadwan/idgate/pkg/slogx"
)

// requireRole runs the authorization gate. With no roles any live account
// passes. The caller's identity is attached to the request context for the
// handler and for per-account rate limiting.
func (r *Router) requireRole(roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			actor, err := r.Gate.Authorize(req.Context(), req.Header.Get("Authorization"), roles...)
			if err != nil {
				writeError(w, req, err)
				return
			}

			ctx := httpx.WithIdentity(req.Context(), httpx.Identity{
				AccountID: actor.AccountID,
				Email:     actor.Email,
				Role:      actor.Role.String(),
			})
			ctx = slogx.With(ctx, "account_id", actor.AccountID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// actorFrom returns the identity requireRole attached to ctx.
func actorFrom(ctx context.Context) domain.AuthContext {
	id, _ := httpx.IdentityFrom(ctx)
	return domain.AuthContext{
		AccountID: id.AccountID,
		Email:     id.Email,
		Role:      domain.Role(id.Role),
	}
}
