package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"devevent/config"
	_ "devevent/docs"
	"devevent/internal/adapters/auth"
	"devevent/internal/adapters/cache"
	"devevent/internal/adapters/dbconn"
	"devevent/internal/adapters/email"
	delivery "devevent/internal/delivery/http"
	"devevent/internal/delivery/http/controllers"
	"devevent/internal/repository/postgres"
	"devevent/internal/services"
)

const shutdownTimeout = 15 * time.Second

// @title DevEvent API
// @version 1.0
// @description Developer event listings and bookings.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conns := dbconn.NewCache(newDialer(cfg.DB, logger), cfg.DB.ConnectTimeout, logger)
	defer func() {
		if err := conns.Release(); err != nil {
			logger.Error("release database connection", "err", err)
		}
	}()

	eventCache, closeCache := cache.NewEventCache(cfg.RedisAddr, cfg.EventCacheTTL, logger)
	defer func() { _ = closeCache() }()

	// Repositories
	eventRepo := postgres.NewEventRepository(conns)
	bookingRepo := postgres.NewBookingRepository(conns)

	// Adapters
	mailer := email.NewMailer(cfg.Email, logger)
	signer := auth.NewJWTSigner(cfg.Admin.JWTSecret)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	eventService := services.NewEventService(eventRepo, eventCache, logger, cfg.RequestTimeout)
	bookingService := services.NewBookingService(bookingRepo, eventRepo, emailService, cfg.SiteURL, logger, cfg.RequestTimeout)
	authService := services.NewAuthService(services.AdminAccount{
		Email:        cfg.Admin.Email,
		PasswordSalt: cfg.Admin.PasswordSalt,
		PasswordHash: cfg.Admin.PasswordHash,
	}, hasher, signer, cfg.Admin.TokenTTL, logger)

	router := delivery.NewRouter(delivery.Controllers{
		Events:   controllers.NewEventController(logger, eventService),
		Bookings: controllers.NewBookingController(logger, bookingService),
		Auth:     controllers.NewAuthController(logger, authService),
		Health:   controllers.NewHealthController(logger, conns),
	}, signer, cfg.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Connect eagerly so the first request does not pay for it; failure is not fatal.
	go func() {
		if err := conns.Warm(ctx); err != nil {
			logger.Warn("database not reachable at startup", "err", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newDialer opens the Postgres pool and applies migrations until they succeed once.
func newDialer(cfg config.DatabaseConfig, logger *slog.Logger) dbconn.Dialer[*postgres.DB] {
	var migrated atomic.Bool
	return func(ctx context.Context) (*postgres.DB, error) {
		db, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if !migrated.Load() {
			if err := postgres.RunMigrations(db.DB, logger); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			migrated.Store(true)
		}
		return db, nil
	}
}
