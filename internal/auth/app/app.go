package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terracehq/terrace-auth/internal/auth/domain"
	httpapi "github.com/terracehq/terrace-auth/internal/auth/http"
	"github.com/terracehq/terrace-auth/internal/auth/service"
	"github.com/terracehq/terrace-auth/internal/auth/store"
	"github.com/terracehq/terrace-auth/internal/auth/store/drivers/sqlite"
	"github.com/terracehq/terrace-auth/pkg/cryptox"
	"github.com/terracehq/terrace-auth/pkg/idx"
	"github.com/terracehq/terrace-auth/pkg/jwtx"
	"github.com/terracehq/terrace-auth/pkg/mailx"
	"github.com/terracehq/terrace-auth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	mailer mailx.Sender

	sessionService      *service.SessionService
	loginService        *service.LoginService
	resetService        *service.ResetService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "terrace-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.seedInitialUser(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// seedInitialUser creates the configured seed account on an empty database.
// A fresh deployment has no registration surface, so without a seed there is
// no account to log in with.
func (app *Application) seedInitialUser(ctx context.Context) error {
	if app.cfg.SeedEmail == "" || app.cfg.SeedPassword == "" {
		return nil
	}

	empty, err := app.db.Users().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if !empty {
		return nil
	}

	user := domain.User{
		ID:             idx.New().String(),
		Email:          app.cfg.SeedEmail,
		FirstName:      app.cfg.SeedFirstName,
		LastName:       app.cfg.SeedLastName,
		Color:          "#2563eb",
		Admin:          true,
		PasswordDigest: cryptox.HashPassword(app.cfg.SeedPassword),
	}
	if err := app.db.Users().CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create seed user: %w", err)
	}

	app.logger.Info("seed user created", "user_id", user.ID)
	return nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

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

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initMailer picks the outbound mail transport. Without SMTP settings the
// service still works; reset mail is logged instead of delivered.
func (app *Application) initMailer() error {
	if !app.cfg.SMTP.Configured() {
		app.logger.Warn("SMTP not configured, reset mail will be logged only")
		app.mailer = &mailx.LogSender{Logger: app.logger}
		return nil
	}

	sender, err := mailx.NewSMTPSender(app.cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize SMTP sender: %w", err)
	}
	app.mailer = sender
	app.logger.Info("SMTP sender initialized", "host", app.cfg.SMTP.Host)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	key, err := jwtx.DeriveSigningKey(app.cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("failed to derive session signing key: %w", err)
	}
	codec, err := jwtx.NewHS256(key, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize session codec: %w", err)
	}

	app.sessionService = &service.SessionService{
		Codec:      codec,
		CookieName: app.cfg.CookieName,
		TTL:        app.cfg.SessionTTL,
	}
	app.loginService = &service.LoginService{Store: app.db}
	app.resetService = &service.ResetService{
		Store:   app.db,
		Mailer:  app.mailer,
		BaseURL: app.cfg.ResetBaseURL,
		TTL:     app.cfg.ResetTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.SessionService = app.sessionService
	router.LoginService = app.loginService
	router.ResetService = app.resetService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
