package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productapi/internal/config"
	"productapi/internal/logging"
	"productapi/internal/metrics"
	"productapi/internal/repositories"
	"productapi/internal/server"
	"productapi/internal/services"
	"productapi/pkg/rabbitmq"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	bootLogger := logging.New(os.Stderr, "info", true)

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	repo, closeRepo, err := openRepository(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up product storage")
	}
	defer closeRepo()

	// --- Optional lifecycle events ---
	events, closeEvents := connectEvents(cfg.RabbitMQURL, logger)
	defer closeEvents()

	var appMetrics *metrics.Metrics
	if cfg.MetricsEnabled {
		appMetrics = metrics.New()
	}

	app := server.NewApp(server.Options{
		Logger:       logger,
		Repository:   repo,
		Events:       events,
		Metrics:      appMetrics,
		APIPrefix:    cfg.APIPrefix,
		AllowOrigins: cfg.FrontendURL,
	})

	// --- HTTP server with graceful shutdown ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Port).Msg("starting server")
		return app.Listen(cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		return
	}
	logger.Info().Msg("server gracefully stopped")
}

// openRepository builds the configured product store. An unreachable
// database is logged and tolerated: requests then fail one by one with 500
// until it comes back.
func openRepository(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (repositories.ProductRepository, func(), error) {
	if cfg.Driver == repositories.DriverMemory {
		logger.Warn().Msg("using in-memory product storage; data is lost on exit")
		return repositories.NewMemoryProductRepository(), func() {}, nil
	}

	db, err := repositories.OpenDatabase(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	repo := repositories.NewGORMProductRepository(db)
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close database")
			}
		}
	}

	retry := retrier.New(retrier.ConstantBackoff(cfg.ConnectAttempts-1, cfg.ConnectBackoff), nil)
	err = retry.RunCtx(ctx, func(ctx context.Context) error {
		return repo.Ping(ctx)
	})
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Driver).Msg("database unavailable at startup, continuing in degraded mode")
		return repo, closeDB, nil
	}

	if err := repositories.Migrate(db); err != nil {
		logger.Error().Err(err).Msg("failed to prepare products table")
		return repo, closeDB, nil
	}
	logger.Info().Str("driver", cfg.Driver).Msg("database connected")
	return repo, closeDB, nil
}

// connectEvents returns a publisher when url is set and the broker answers.
// Events are optional, so a broker failure only disables them.
func connectEvents(url string, logger zerolog.Logger) (services.EventPublisher, func()) {
	if url == "" {
		return nil, func() {}
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: url})
	if err != nil {
		logger.Error().Err(err).Msg("RabbitMQ unavailable, product events disabled")
		return nil, func() {}
	}
	logger.Info().Str("exchange", rabbitmq.DefaultExchange).Msg("publishing product events")

	return client, func() {
		if err := client.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close RabbitMQ client")
		}
	}
}
