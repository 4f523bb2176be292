package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/pkg/cryptox"
	"github.com/aussiebroadwan/idgate/pkg/jwtx"
)

// TokenService mints and checks the three token purposes. Access and reset
// tokens share the access codec; refresh tokens have their own secret.
type TokenService struct {
	Access     *jwtx.Codec
	Refresh    *jwtx.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewTokenService validates the lifetimes and returns a TokenService. The
// refresh window must outlive the access window.
func NewTokenService(access, refresh *jwtx.Codec, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if access == nil || refresh == nil {
		return nil, errors.New("service: access and refresh codecs are required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("service: token lifetimes must be positive (access=%s refresh=%s)", accessTTL, refreshTTL)
	}
	if refreshTTL <= accessTTL {
		return nil, fmt.Errorf("service: refresh lifetime %s must exceed access lifetime %s", refreshTTL, accessTTL)
	}
	return &TokenService{
		Access:     access,
		Refresh:    refresh,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}, nil
}

// IssuePair signs an access and a refresh token for a.
func (s *TokenService) IssuePair(a domain.Account) (domain.TokenPair, error) {
	access, accessClaims, err := s.Access.Issue(claimsFor(a, jwtx.PurposeAccess), s.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, refreshClaims, err := s.Refresh.Issue(claimsFor(a, jwtx.PurposeRefresh), s.RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessClaims.ExpiresAt.Time,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
	}, nil
}

// IssueReset signs a reset token for a. Its lifetime is always
// jwtx.ResetTokenTTL. a must carry its password hash: the token is bound to
// it, so the first password change spends every outstanding reset token.
func (s *TokenService) IssueReset(a domain.Account) (string, jwtx.Claims, error) {
	if a.PasswordHash == "" {
		return "", jwtx.Claims{}, errors.New("service: reset token needs the account's password hash")
	}
	c := claimsFor(a, jwtx.PurposeReset)
	c.Binding = ResetBinding(a.PasswordHash)
	return s.Access.Issue(c, jwtx.ResetTokenTTL)
}

// ResetBinding is the value a reset token carries for an account whose
// current password hash is hash.
func ResetBinding(hash string) string {
	return cryptox.Fingerprint(hash)
}

// VerifyAccess accepts only access tokens.
func (s *TokenService) VerifyAccess(token string) (jwtx.Claims, error) {
	return verify(s.Access, token, jwtx.PurposeAccess)
}

// VerifyReset accepts only reset tokens.
func (s *TokenService) VerifyReset(token string) (jwtx.Claims, error) {
	return verify(s.Access, token, jwtx.PurposeReset)
}

// VerifyRefresh accepts only refresh tokens.
func (s *TokenService) VerifyRefresh(token string) (jwtx.Claims, error) {
	return verify(s.Refresh, token, jwtx.PurposeRefresh)
}

func verify(c *jwtx.Codec, token string, want jwtx.Purpose) (jwtx.Claims, error) {
	claims, err := c.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return jwtx.Claims{}, ErrTokenExpired.wrap(err)
		}
		return jwtx.Claims{}, ErrTokenInvalid.wrap(err)
	}
	if claims.Purpose != want {
		return jwtx.Claims{}, ErrTokenPurpose
	}
	return claims, nil
}

func claimsFor(a domain.Account, p jwtx.Purpose) jwtx.Claims {
	return jwtx.NewClaims(a.ID, a.Email, a.Role.String(), p)
}
