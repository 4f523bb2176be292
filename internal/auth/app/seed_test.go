package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/notify"
	"github.com/aussiebroadwan/idgate/internal/auth/service"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
	"github.com/aussiebroadwan/idgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/idgate/pkg/cryptox"
	"github.com/aussiebroadwan/idgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newSeedEnv(t *testing.T) (*service.AuthService, *slog.Logger) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	hasher, err := cryptox.NewHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := InitTokens(Config{
		Issuer:        "idgate-test",
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     jwtx.DefaultAccessTokenTTL,
		RefreshTTL:    jwtx.DefaultRefreshTokenTTL,
	}, logger)
	require.NoError(t, err)

	return &service.AuthService{
		Store:  st,
		Hasher: hasher,
		Tokens: tokens,
		Sender: notify.LogSender{},
	}, logger
}

func TestSeedAdmin(t *testing.T) {
	auth, logger := newSeedEnv(t)
	ctx := context.Background()
	cfg := AdminConfig{Name: "Root", Email: "admin@example.com", Password: "secret1", Contact: "0400 000 000"}

	require.NoError(t, SeedAdmin(ctx, cfg, auth, logger))

	a, err := auth.Store.Accounts().GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, a.Role)
	require.Equal(t, "Root", a.Name)
	require.Equal(t, "0400 000 000", a.Contact)

	res, err := auth.Login(ctx, "admin@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, a.ID, res.Account.ID)

	// A second run leaves the existing account alone, even with a new password.
	cfg.Password = "changed1"
	require.NoError(t, SeedAdmin(ctx, cfg, auth, logger))
	n, err := auth.Store.Accounts().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	_, err = auth.Login(ctx, "admin@example.com", "secret1")
	require.NoError(t, err)
}

func TestSeedAdminDisabled(t *testing.T) {
	auth, logger := newSeedEnv(t)
	ctx := context.Background()

	require.NoError(t, SeedAdmin(ctx, AdminConfig{Email: "admin@example.com"}, auth, logger))

	_, err := auth.Store.Accounts().GetByEmail(ctx, "admin@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestInitTokensGeneratesMissingSecrets(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := InitTokens(Config{Issuer: "idgate-test", AccessTTL: jwtx.DefaultAccessTokenTTL, RefreshTTL: jwtx.DefaultRefreshTokenTTL}, logger)
	require.NoError(t, err)

	a := domain.Account{ID: "01HACCOUNT", Email: "alice@example.com", Role: domain.RoleUser}
	pair, err := tokens.IssuePair(a)
	require.NoError(t, err)

	_, err = tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	_, err = tokens.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)

	// Generated access and refresh secrets are independent.
	_, err = tokens.VerifyAccess(pair.RefreshToken)
	require.Error(t, err)
}
