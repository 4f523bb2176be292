package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/idgate/internal/auth/domain"
	"github.com/aussiebroadwan/idgate/internal/auth/service"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
)

// SeedAdmin creates the configured admin account unless an account with
// that email already exists. It never touches an existing account.
func SeedAdmin(ctx context.Context, cfg AdminConfig, auth *service.AuthService, logger *slog.Logger) error {
	if !cfg.Enabled() {
		return nil
	}

	_, err := auth.Store.Accounts().GetByEmail(ctx, cfg.Email)
	switch {
	case err == nil:
		logger.Debug("admin account already present", "email", cfg.Email)
		return nil
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	res, err := auth.RegisterPrivileged(ctx, service.RegisterInput{
		Name:            cfg.Name,
		Email:           cfg.Email,
		Password:        cfg.Password,
		Contact:         cfg.Contact,
		Role:            domain.RoleAdmin,
		ProfileImageURL: cfg.ProfileImage,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("admin account seeded", "account_id", res.Account.ID, "email", cfg.Email)
	return nil
}
