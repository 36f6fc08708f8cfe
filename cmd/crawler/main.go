package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	pgRepo "fastinfo/internal/infra/adapter/persistence/postgres"
	"fastinfo/internal/infra/db"
	"fastinfo/internal/infra/fetcher"
	"fastinfo/internal/infra/source"
	workerPkg "fastinfo/internal/infra/worker"
	"fastinfo/internal/observability/logging"
	"fastinfo/internal/observability/tracing"
	"fastinfo/internal/repository"
	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/scheduler"
	"fastinfo/internal/usecase/crawl"
)

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.RecordStart()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("fallback_schedule", workerConfig.Schedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("crawl_timeout", workerConfig.CrawlTimeout),
		slog.Duration("retention_window", workerConfig.RetentionWindow),
		slog.Bool("run_immediately", workerConfig.RunImmediately))

	tracingShutdown := initTracing(ctx, logger)
	defer tracingShutdown()

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	go db.ReportPoolMetrics(ctx, database, 15*time.Second)

	svc, settingsRepo, err := setupCrawlService(logger, database)
	if err != nil {
		logger.Error("failed to set up crawl service", slog.Any("error", err))
		os.Exit(1)
	}

	sched := scheduler.New(svc, settingsRepo, scheduler.Config{
		PollInterval:     workerConfig.SettingsPollInterval,
		Retention:        workerConfig.RetentionWindow,
		CrawlTimeout:     workerConfig.CrawlTimeout,
		Location:         workerConfig.Location(),
		FallbackSchedule: workerConfig.Schedule,
	})
	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	healthServer.SetReady(true)
	workerMetrics.SetReady(true)
	logger.Info("crawler worker ready")

	if workerConfig.RunImmediately {
		go runOnce(ctx, logger, svc, workerConfig.CrawlTimeout)
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")
	healthServer.SetReady(false)
	workerMetrics.SetReady(false)
	sched.Stop()
	logger.Info("crawler worker stopped")
}

// initLogger installs the JSON logger as the process default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the connection pool and bootstraps the schema.
// The crawler owns its schema, so unlike a service waiting on an
// external migration job this applies migrations itself.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("schema migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func initTracing(ctx context.Context, logger *slog.Logger) func() {
	shutdown, err := tracing.InitProvider(ctx, tracing.ConfigFromEnv())
	if err != nil {
		logger.Warn("tracing disabled, provider init failed", slog.Any("error", err))
		return func() {}
	}
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("tracing shutdown failed", slog.Any("error", err))
		}
	}
}

// setupCrawlService wires the adapter registry, repositories and
// optional summary enrichment into the crawl service.
func setupCrawlService(logger *slog.Logger, database *sql.DB) (*crawl.Service, repository.SettingsRepository, error) {
	adapters, err := source.BuildAdapters(source.NewHTTPClient(), source.Config{
		ProductHuntClientID:     os.Getenv("PRODUCTHUNT_CLIENT_ID"),
		ProductHuntClientSecret: os.Getenv("PRODUCTHUNT_CLIENT_SECRET"),
		FeedsPath:               os.Getenv("CRAWLER_FEEDS_PATH"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build adapters: %w", err)
	}
	logger.Info("source adapters registered", slog.Int("count", len(adapters)))

	// All repository queries go through the shared database breaker.
	guarded := circuitbreaker.NewDBCircuitBreaker(database)
	articleRepo := pgRepo.NewArticleRepo(guarded)
	runLogRepo := pgRepo.NewRunLogRepo(guarded)
	settingsRepo := pgRepo.NewSettingsRepo(guarded)

	svc := crawl.NewService(adapters, source.DefaultLimits(), articleRepo, runLogRepo, settingsRepo)

	enrichConfig := fetcher.LoadConfigFromEnv()
	if enrichConfig.Enabled {
		svc.SetEnricher(fetcher.NewSummaryEnricher(enrichConfig))
		logger.Info("summary enrichment enabled",
			slog.Int("min_summary", enrichConfig.MinSummaryLength),
			slog.Duration("timeout", enrichConfig.Timeout))
	}

	return svc, settingsRepo, nil
}

// runOnce performs the boot-time crawl requested by
// CRAWLER_RUN_IMMEDIATELY.
func runOnce(ctx context.Context, logger *slog.Logger, svc *crawl.Service, timeout time.Duration) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Info("running boot-time crawl")
	stats, err := svc.Run(runCtx)
	if err != nil {
		logger.Error("boot-time crawl failed", slog.Any("error", err))
		return
	}
	logger.Info("boot-time crawl finished",
		slog.Int("total", stats.Total()),
		slog.Int("new", stats.NewCount()))
}
