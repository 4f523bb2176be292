package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/notify"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
	"github.com/aussiebroadwan/idgate/pkg/cryptox"
	"github.com/aussiebroadwan/idgate/pkg/jwtx"
	"github.com/aussiebroadwan/idgate/pkg/slogx"
)

// SendResetLink emails a short-lived reset link to the account with email.
// Delivery errors are returned as ErrDeliveryFailed.
func (s *AuthService) SendResetLink(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	a, err := guarded(s.Store.Accounts().GetByEmail(ctx, email, store.WithSecret()))
	if err != nil {
		return err
	}

	token, claims, err := s.Tokens.IssueReset(a)
	if err != nil {
		return err
	}

	link, err := resetLink(s.ResetLinkURL, a.Email, token)
	if err != nil {
		return err
	}

	body, err := notify.ResetEmail(link, jwtx.ResetTokenTTL)
	if err != nil {
		return err
	}

	if err := s.Sender.Send(ctx, a.Email, notify.ResetSubject, body); err != nil {
		l.Error("reset email failed", slog.String("account_id", a.ID), slog.Any("err", err))
		return ErrDeliveryFailed.wrap(err)
	}

	l.Info("reset link sent",
		slog.String("account_id", a.ID),
		slog.String("token_fp", cryptox.Fingerprint(token)),
		slog.Time("expires_at", claims.ExpiresAt.Time),
	)
	return nil
}

// ResetInput is the payload of a reset link being consumed.
type ResetInput struct {
	Email       string
	NewPassword string
	Token       string
}

// ResetPassword sets a new password using a token from a reset link. The
// token must be a reset token issued for exactly in.Email, and it is spent
// by the first password change after it was issued.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetInput) (domain.Account, error) {
	a, err := guarded(s.Store.Accounts().GetByEmail(ctx, in.Email, store.WithSecret()))
	if err != nil {
		return domain.Account{}, err
	}

	claims, err := s.Tokens.VerifyReset(in.Token)
	if err != nil {
		return domain.Account{}, err
	}
	if claims.Email != in.Email || claims.Subject != a.ID {
		return domain.Account{}, ErrResetTokenMismatch
	}
	if a.Role != domain.Role(claims.Role) {
		return domain.Account{}, ErrRoleChanged
	}
	if claims.Binding == "" || claims.Binding != ResetBinding(a.PasswordHash) {
		return domain.Account{}, ErrResetTokenUsed
	}

	match := store.PasswordMatch{Role: a.Role, Hash: a.PasswordHash}
	return s.setPassword(ctx, claims, in.NewPassword, match, ErrResetTokenUsed)
}

// setPassword hashes and stores a new password for the token's subject. The
// write only lands if the row still satisfies match; otherwise stale is
// returned.
func (s *AuthService) setPassword(
	ctx context.Context,
	claims jwtx.Claims,
	newPassword string,
	match store.PasswordMatch,
	stale *Error,
) (domain.Account, error) {
	hash, err := s.Hasher.Hash(ctx, newPassword)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return domain.Account{}, NewValidationError(map[string]string{"newPassword": "must be at most 72 bytes"})
		}
		return domain.Account{}, err
	}

	a, err := s.Store.Accounts().UpdatePasswordHash(ctx, claims.Subject, match, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, stale
		}
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("password updated",
		slog.String("account_id", a.ID),
		slog.String("via", string(claims.Purpose)),
	)
	return a, nil
}

func resetLink(base, email, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("service: reset link url: %w", err)
	}
	q := u.Query()
	q.Set("email", email)
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
