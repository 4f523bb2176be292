package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg := env.register(t, "A", "alice@example.com", "secret1")
	env.register(t, "B", "bob@example.com", "secret1")

	t.Run("missing header is reported before lookup", func(t *testing.T) {
		_, err := env.auth.ChangePassword(ctx, "", ChangePasswordInput{Email: "alice@example.com", NewPassword: "secret2"})
		require.ErrorIs(t, err, ErrMissingToken)
		require.Equal(t, KindUnauthorized, KindOf(err))
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := env.auth.ChangePassword(ctx, reg.Tokens.AccessToken, ChangePasswordInput{Email: "alice@example.com", NewPassword: "secret2"})
		require.ErrorIs(t, err, ErrMalformedAuthHeader)
	})

	t.Run("token for another account", func(t *testing.T) {
		_, err := env.auth.ChangePassword(ctx, bearer(reg.Tokens.AccessToken), ChangePasswordInput{Email: "bob@example.com", NewPassword: "secret2"})
		require.ErrorIs(t, err, ErrTokenIdentityMismatch)
	})

	t.Run("refresh token refused", func(t *testing.T) {
		_, err := env.auth.ChangePassword(ctx, bearer(reg.Tokens.RefreshToken), ChangePasswordInput{Email: "alice@example.com", NewPassword: "secret2"})
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("success", func(t *testing.T) {
		a, err := env.auth.ChangePassword(ctx, bearer(reg.Tokens.AccessToken), ChangePasswordInput{Email: "alice@example.com", NewPassword: "secret2"})
		require.NoError(t, err)
		require.Equal(t, reg.Account.ID, a.ID)

		_, err = env.auth.Login(ctx, "alice@example.com", "secret1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = env.auth.Login(ctx, "alice@example.com", "secret2")
		require.NoError(t, err)
	})
}

func TestChangePassword_DeletedAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg := env.register(t, "A", "alice@example.com", "secret1")

	_, err := env.store.Accounts().SoftDelete(ctx, reg.Account.ID)
	require.NoError(t, err)

	_, err = env.auth.ChangePassword(ctx, bearer(reg.Tokens.AccessToken), ChangePasswordInput{Email: "alice@example.com", NewPassword: "secret2"})
	require.ErrorIs(t, err, ErrAccountDeleted)
}
