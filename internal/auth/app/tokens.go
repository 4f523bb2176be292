package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/idgate/internal/auth/service"
	"github.com/aussiebroadwan/idgate/pkg/cryptox"
	"github.com/aussiebroadwan/idgate/pkg/jwtx"
)

// InitTokens builds the token service from the configured signing secrets.
//
// A secret left unset is generated at random. Such a secret lives only in
// memory, so every token signed with it becomes invalid when the process
// restarts.
func InitTokens(cfg Config, logger *slog.Logger) (*service.TokenService, error) {
	access, err := signingSecret("JWT_ACCESS_SECRET", cfg.AccessSecret, logger)
	if err != nil {
		return nil, err
	}
	refresh, err := signingSecret("JWT_REFRESH_SECRET", cfg.RefreshSecret, logger)
	if err != nil {
		return nil, err
	}

	accessCodec, err := jwtx.NewCodec(access, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("access codec: %w", err)
	}
	refreshCodec, err := jwtx.NewCodec(refresh, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("refresh codec: %w", err)
	}

	tokens, err := service.NewTokenService(accessCodec, refreshCodec, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	logger.Info("token signing configured",
		"issuer", cfg.Issuer,
		"access_ttl", cfg.AccessTTL,
		"refresh_ttl", cfg.RefreshTTL,
		"reset_ttl", jwtx.ResetTokenTTL,
	)
	return tokens, nil
}

func signingSecret(name, configured string, logger *slog.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	secret, err := cryptox.GenerateSecret(cryptox.SecretSize)
	if err != nil {
		return nil, err
	}
	logger.Warn("signing secret not configured, generated an ephemeral one; tokens will not survive a restart",
		"env", name,
	)
	return secret, nil
}
