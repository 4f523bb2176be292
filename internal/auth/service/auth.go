package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/notify"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
	"github.com/aussiebroadwan/idgate/pkg/cryptox"
	"github.com/aussiebroadwan/idgate/pkg/idx"
	"github.com/aussiebroadwan/idgate/pkg/slogx"
)

// AuthService runs the credential flows: registration, login, refresh,
// password reset and password change. The flows share the store, hasher and
// token service but never call one another.
type AuthService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
	Tokens *TokenService
	Sender notify.Sender

	// ResetLinkURL is the page the reset email points at. The email and
	// token are appended as query parameters.
	ResetLinkURL string
}

// RegisterInput is a new account's details. Role is optional and only the
// privileged path may set it to anything other than user.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	Contact         string
	Role            domain.Role
	ProfileImageURL string
	Address         string
}

// AuthResult is an account (without its hash) and a fresh token pair.
type AuthResult struct {
	Account domain.Account
	Tokens  domain.TokenPair
}

// Register creates a user account. Requests for any other role are refused;
// elevated accounts come from RegisterPrivileged.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if in.Role != "" && in.Role != domain.RoleUser {
		return AuthResult{}, NewValidationError(map[string]string{
			"role": "only the user role can be self-registered",
		})
	}
	return s.register(ctx, in, domain.RoleUser)
}

// RegisterPrivileged creates an account with any valid role. It is reachable
// only from trusted callers such as startup seeding.
func (s *AuthService) RegisterPrivileged(ctx context.Context, in RegisterInput) (AuthResult, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return AuthResult{}, NewValidationError(map[string]string{"role": "unknown role"})
	}
	return s.register(ctx, in, role)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, role domain.Role) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	_, err := s.Store.Accounts().GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return AuthResult{}, ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return AuthResult{}, err
	}

	hash, err := s.Hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return AuthResult{}, NewValidationError(map[string]string{"password": "must be at most 72 bytes"})
		}
		return AuthResult{}, err
	}

	created, err := s.Store.Accounts().Create(ctx, domain.Account{
		ID:              idx.New().String(),
		Name:            in.Name,
		Email:           in.Email,
		PasswordHash:    hash,
		Contact:         in.Contact,
		Role:            role,
		ProfileImageURL: in.ProfileImageURL,
		Address:         in.Address,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, store.ErrAlreadyExists) {
			return AuthResult{}, ErrEmailTaken.wrap(err)
		}
		return AuthResult{}, err
	}

	l.Info("account registered",
		slog.String("account_id", created.ID),
		slog.String("role", created.Role.String()),
	)

	// The account exists from here on; a token failure leaves it loginable.
	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}
	pair, err := s.Tokens.IssuePair(created)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Account: created, Tokens: pair}, nil
}

// Login checks email and password. A missing account and a wrong password
// are reported as distinct errors.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	l := slogx.FromContext(ctx)

	a, err := guarded(s.Store.Accounts().GetByEmail(ctx, email, store.WithSecret()))
	if err != nil {
		return AuthResult{}, err
	}

	ok, err := s.Hasher.Verify(ctx, password, a.PasswordHash)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		l.Info("login rejected", slog.String("account_id", a.ID))
		return AuthResult{}, ErrInvalidCredentials
	}

	a = a.WithoutSecret()
	pair, err := s.Tokens.IssuePair(a)
	if err != nil {
		return AuthResult{}, err
	}

	l.Info("login succeeded", slog.String("account_id", a.ID))
	return AuthResult{Account: a, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new pair. The account is looked up
// again so a ban or deletion since issuance takes effect, and the new tokens
// carry the account's current role.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return AuthResult{}, err
	}

	a, err := guarded(s.Store.Accounts().GetByID(ctx, claims.Subject))
	if err != nil {
		return AuthResult{}, err
	}
	if a.Email != claims.Email {
		return AuthResult{}, ErrTokenIdentityMismatch
	}

	pair, err := s.Tokens.IssuePair(a)
	if err != nil {
		return AuthResult{}, err
	}

	slogx.FromContext(ctx).Info("tokens refreshed", slog.String("account_id", a.ID))
	return AuthResult{Account: a, Tokens: pair}, nil
}
