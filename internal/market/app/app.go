// Package app wires configuration, storage, services and the HTTP server
// into a runnable marketplace application.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/northmarket/bazaar/internal/market/http"
	"github.com/northmarket/bazaar/internal/market/service"
	"github.com/northmarket/bazaar/internal/market/store"
	"github.com/northmarket/bazaar/internal/market/store/drivers/sqlite"
	"github.com/northmarket/bazaar/pkg/slogx"
	"github.com/northmarket/bazaar/pkg/tokenx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the marketplace service with all its
// dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *tokenx.Codec

	userService    *service.UserService
	profileService *service.ProfileService
	itemService    *service.ItemService
	commentService *service.CommentService
	tagService     *service.TagService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "bazaar",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initSecret(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("bazaar starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down bazaar...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("bazaar stopped")
	return nil
}

// initSecret resolves the token signing secret. Production requires an
// explicit secret; dev falls back to an ephemeral one, which invalidates
// all tokens on restart.
func (app *Application) initSecret() error {
	secret := app.cfg.SecretKey
	if secret == "" {
		if app.cfg.Env == "prod" {
			return errors.New("BAZAAR_SECRET_KEY is required in prod")
		}

		var b [32]byte
		if _, err := rand.Read(b[:]); err != nil {
			return fmt.Errorf("failed to generate ephemeral secret: %w", err)
		}
		secret = base64.RawURLEncoding.EncodeToString(b[:])
		app.logger.Warn("no BAZAAR_SECRET_KEY set, using an ephemeral secret; tokens will not survive a restart")
	}

	app.codec = &tokenx.Codec{
		Secret: []byte(secret),
		Issuer: app.cfg.Issuer,
	}
	return nil
}

// initDatabase initializes the database and applies migrations.
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db}
	app.profileService = &service.ProfileService{Store: app.db}
	app.itemService = &service.ItemService{Store: app.db}
	app.commentService = &service.CommentService{Store: app.db}
	app.tagService = &service.TagService{Store: app.db}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		app.cfg.TokenTTL,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.UserService = app.userService
	router.ProfileService = app.profileService
	router.ItemService = app.itemService
	router.CommentService = app.commentService
	router.TagService = app.tagService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
