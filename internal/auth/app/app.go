package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/idgate/internal/auth/http"
	"github.com/aussiebroadwan/idgate/internal/auth/notify"
	"github.com/aussiebroadwan/idgate/internal/auth/service"
	"github.com/aussiebroadwan/idgate/internal/auth/store"
	"github.com/aussiebroadwan/idgate/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/idgate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/idgate/pkg/cryptox"
	"github.com/aussiebroadwan/idgate/pkg/slogx"
)

// BuildVersion is reported by the probes and in every log line. Release
// builds set it with
//
//	-ldflags "-X github.com/aussiebroadwan/idgate/internal/auth/app.BuildVersion=v1.2.3"
var BuildVersion = "dev"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	tokens *service.TokenService
	sender notify.Sender

	// Services
	authService    *service.AuthService
	accountService *service.AccountService
	gate           *service.Gate

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	tokens, err := InitTokens(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token signing: %w", err)
	}
	app.tokens = tokens

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Seeding failures are not fatal; the API is still useful without an admin.
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := SeedAdmin(seedCtx, app.cfg.Admin, app.authService, app.logger); err != nil {
		app.logger.Error("admin seeding failed", "error", err)
	}
	cancel()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	default:
		host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(host)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := db.ApplyMigrations(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	hasher, err := cryptox.NewHasher(app.cfg.BcryptCost, app.cfg.HashConcurrency)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	app.sender = newSender(app.cfg.SMTP, app.logger)

	app.authService = &service.AuthService{
		Store:        app.db,
		Hasher:       hasher,
		Tokens:       app.tokens,
		Sender:       app.sender,
		ResetLinkURL: app.cfg.ResetLinkURL,
	}
	app.accountService = &service.AccountService{Store: app.db}
	app.gate = &service.Gate{Store: app.db, Tokens: app.tokens}

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.AuthService = app.authService
	router.AccountService = app.accountService
	router.Gate = app.gate
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// newSender picks SMTP delivery when it is configured and falls back to
// logging otherwise.
func newSender(cfg SMTPConfig, logger *slog.Logger) notify.Sender {
	if !cfg.Enabled() {
		logger.Warn("SMTP not configured, reset emails will be logged instead of sent")
		return notify.LogSender{}
	}

	logger.Info("smtp delivery enabled", "host", cfg.Host, "port", cfg.Port, "from", cfg.From)
	return &notify.SMTPSender{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	}
}
