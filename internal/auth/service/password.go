package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
	"github.com/aussiebroadwan/idgate/pkg/httpx"
)

// ChangePasswordInput is the body of an authenticated password change.
type ChangePasswordInput struct {
	Email       string
	NewPassword string
}

// ChangePassword sets a new password for the holder of a live access token.
// authHeader is the raw Authorization header value; it is checked before the
// account is looked up.
func (s *AuthService) ChangePassword(ctx context.Context, authHeader string, in ChangePasswordInput) (domain.Account, error) {
	token, err := bearerToken(authHeader)
	if err != nil {
		return domain.Account{}, err
	}

	if _, err := guarded(s.Store.Accounts().GetByEmail(ctx, in.Email)); err != nil {
		return domain.Account{}, err
	}

	claims, err := s.Tokens.VerifyAccess(token)
	if err != nil {
		return domain.Account{}, err
	}
	if claims.Email != in.Email {
		return domain.Account{}, ErrTokenIdentityMismatch
	}

	match := store.PasswordMatch{Role: domain.Role(claims.Role)}
	return s.setPassword(ctx, claims, in.NewPassword, match, ErrRoleChanged)
}

func bearerToken(header string) (string, error) {
	token, err := httpx.ParseBearer(header)
	switch {
	case errors.Is(err, httpx.ErrMissingBearer):
		return "", ErrMissingToken
	case err != nil:
		return "", ErrMalformedAuthHeader
	}
	return token, nil
}
