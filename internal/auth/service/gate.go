package service

import (
	"context"
	"slices"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
)

// Gate authorizes requests that carry an access token. Tokens are not revoked
// when an account is banned or deleted, so every call re-reads the account.
type Gate struct {
	Store  store.Store
	Tokens *TokenService
}

// Authorize checks authHeader and returns the caller's identity. The token's
// role must still be the account's stored role, and when roles is non-empty
// it must be one of them.
func (g *Gate) Authorize(ctx context.Context, authHeader string, roles ...domain.Role) (domain.AuthContext, error) {
	token, err := bearerToken(authHeader)
	if err != nil {
		return domain.AuthContext{}, err
	}

	claims, err := g.Tokens.VerifyAccess(token)
	if err != nil {
		return domain.AuthContext{}, err
	}

	a, err := guarded(g.Store.Accounts().GetByEmail(ctx, claims.Email))
	if err != nil {
		return domain.AuthContext{}, err
	}
	if a.ID != claims.Subject {
		return domain.AuthContext{}, ErrTokenIdentityMismatch
	}

	role := domain.Role(claims.Role)
	if a.Role != role {
		return domain.AuthContext{}, ErrRoleChanged
	}
	if len(roles) > 0 && !slices.Contains(roles, role) {
		return domain.AuthContext{}, ErrInsufficientRole
	}

	return domain.AuthContext{
		AccountID: claims.Subject,
		Email:     claims.Email,
		Role:      role,
	}, nil
}
