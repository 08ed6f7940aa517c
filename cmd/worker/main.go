package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Cristian668/VentaX/internal/app"
	"github.com/Cristian668/VentaX/internal/catalog"
	"github.com/Cristian668/VentaX/internal/orders"
	"github.com/Cristian668/VentaX/internal/platform/cache"
	"github.com/Cristian668/VentaX/internal/platform/db"
	"github.com/Cristian668/VentaX/internal/shared"
	"github.com/Cristian668/VentaX/internal/upstream"
	"github.com/Cristian668/VentaX/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	upstreamClient := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, upstream.RetryPolicy{
		MaxAttempts: 2,
		Backoff:     cfg.UpstreamRetryBackoff,
		Retryable:   upstream.IsTransient,
	}, logger)
	catalogService := catalog.NewService(
		upstreamClient,
		catalog.NewStore(cfg.CatalogPageSize),
		catalog.NewSnapshot(redisClient, cfg.CatalogTTL),
		logger,
	)
	warmer := jobs.NewCatalogWarmer(catalogService, logger)

	ordersRepo := orders.NewRepository(pool)
	syncer := jobs.NewOrderSyncer(ordersRepo, logger).
		WithStatusSource(upstreamClient).
		WithIdempotencyStore(shared.NewIdempotencyStore(pool))

	warmupTask, err := jobs.NewCatalogWarmupTask(time.Now().UTC())
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	sweepTask, err := jobs.NewOrderSyncTask(jobs.OrderSyncPayload{})
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCatalogWarmup, Handler: warmer.Handle},
			{Type: jobs.TaskOrderSync, Handler: syncer.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/15 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 * * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
