package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Env                 string        `env:"ENV"                   envDefault:"dev"`  // Environment (dev, staging, prod)
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"` // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT"            envDefault:"json"` // json, text
	Port                int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	DatabaseDriver string `env:"AUTH_DATABASE_DRIVER" envDefault:"sqlite"`  // sqlite, postgres
	DatabaseFile   string `env:"AUTH_DATABASE_FILE"   envDefault:"auth.db"` // sqlite only
	DatabaseURL    string `env:"AUTH_DATABASE_URL"`                         // postgres only

	BcryptCost      int   `env:"AUTH_BCRYPT_COST"       envDefault:"10"`
	HashConcurrency int64 `env:"AUTH_HASH_CONCURRENCY"` // 0 means GOMAXPROCS

	Issuer        string        `env:"AUTH_ISSUER"        envDefault:"idgate"`
	AccessSecret  string        `env:"JWT_ACCESS_SECRET"`  // generated when empty
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL"     envDefault:"24h"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET"` // generated when empty
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL"    envDefault:"720h"`

	ResetLinkURL string `env:"RESET_LINK_URL" envDefault:"http://localhost:3000/reset-password"`

	SMTP  SMTPConfig
	Admin AdminConfig
}

// DefaultSMTPHost is the relay used when EMAIL_USER is set without SMTP_HOST.
const DefaultSMTPHost = "smtp.gmail.com"

// SMTPConfig selects outbound mail delivery. Setting EMAIL_USER or SMTP_HOST
// enables SMTP; with neither, emails are logged instead of sent.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"      envDefault:"587"`
	Username string `env:"EMAIL_USER"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM"`
}

// Enabled reports whether mail goes through an SMTP relay.
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// AdminConfig describes the account seeded on startup. Seeding is skipped
// unless both Email and Password are set.
type AdminConfig struct {
	Name         string `env:"ADMIN_NAME"               envDefault:"Administrator"`
	Email        string `env:"ADMIN_EMAIL"`
	Password     string `env:"ADMIN_PASSWORD"`
	Contact      string `env:"ADMIN_CONTACT"`
	ProfileImage string `env:"ADMIN_PROFILE_IMAGE_LINK"`
}

// Enabled reports whether an admin account should be seeded.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// LoadConfig reads the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SMTP.Host == "" && cfg.SMTP.Username != "" {
		cfg.SMTP.Host = DefaultSMTPHost
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}

	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_FILE is required for the sqlite driver"))
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_DATABASE_DRIVER must be sqlite or postgres, got %q", c.DatabaseDriver))
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive"))
	} else if c.RefreshTTL <= c.AccessTTL {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_TTL (%s) must exceed JWT_ACCESS_TTL (%s)", c.RefreshTTL, c.AccessTTL))
	}

	if c.AccessSecret != "" && c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ"))
	}

	if c.ResetLinkURL == "" {
		errs = append(errs, errors.New("RESET_LINK_URL is required"))
	}

	if c.SMTP.Username != "" && c.SMTP.Host == "" {
		errs = append(errs, errors.New("SMTP_HOST is required when EMAIL_USER is set"))
	}
	if c.SMTP.Enabled() && c.SMTP.From == "" {
		errs = append(errs, errors.New("EMAIL_FROM or EMAIL_USER is required when SMTP is enabled"))
	}

	return errors.Join(errs...)
}
