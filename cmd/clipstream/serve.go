// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taibuivan/clipstream/internal/api"
	"github.com/taibuivan/clipstream/internal/platform/config"
	"github.com/taibuivan/clipstream/internal/platform/constants"
	"github.com/taibuivan/clipstream/internal/platform/metrics"
	"github.com/taibuivan/clipstream/internal/platform/migration"
	pgstore "github.com/taibuivan/clipstream/internal/platform/postgres"
	redisstore "github.com/taibuivan/clipstream/internal/platform/redis"
	"github.com/taibuivan/clipstream/internal/platform/sec"
	"github.com/taibuivan/clipstream/internal/platform/telemetry"
	"github.com/taibuivan/clipstream/internal/users/auth"
)

func newServeCommand() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(skipMigrations)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply pending migrations on startup")
	return cmd
}

// runServe starts the API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Install tracing (optional).
//  4. Connect to PostgreSQL (pgxpool).
//  5. Connect to Redis.
//  6. Run database migrations (idempotent).
//  7. Wire the credential store, token codec and auth service.
//  8. Start HTTP server with graceful shutdown.
func runServe(skipMigrations bool) error {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(false)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(true)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("refresh_token_store", cfg.RefreshTokenStore),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Tracing ────────────────────────────────────────────────────────
	shutdownTracing, err := telemetry.Init(startupCtx, constants.AppName, cfg.OTLPEndpoint, log)
	must(log, err, "initialize tracing")
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("tracing_shutdown_error", slog.Any("error", err))
		}
	}()

	// ── 4. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 6. Migrations ─────────────────────────────────────────────────────
	if !skipMigrations {
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
	}

	// ── 7. Auth Wiring ────────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		Issuer:        constants.AuthIssuer,
	})
	must(log, err, "initialize token service")

	registry := metrics.New()

	userRepository := auth.NewUserRepository(pool)
	var refreshTokens auth.RefreshTokenRepository = userRepository
	if cfg.RefreshTokenStore == config.RefreshStoreRedis {
		refreshTokens = auth.NewRefreshTokenRepository(rdb, cfg.RefreshTokenTTL)
	}

	authService := auth.NewService(
		auth.NewCredentialStore(userRepository, refreshTokens),
		tokenService,
		auth.WithObserver(registry),
	)
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure: cfg.CookieSecure,
		Domain: cfg.CookieDomain,
	})

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	server := api.NewServer(cfg, log, registry, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   registry.Handler(),
		Users:     authHandler,
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	var runErr error
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case runErr = <-serverErr:
		log.Error("server_startup_error", slog.Any("error", runErr))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return err
	}

	log.Info("server_stopped_cleanly")
	return runErr
}
