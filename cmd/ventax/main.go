package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Cristian668/VentaX/internal/app"
	"github.com/Cristian668/VentaX/internal/cart"
	"github.com/Cristian668/VentaX/internal/catalog"
	"github.com/Cristian668/VentaX/internal/orders"
	"github.com/Cristian668/VentaX/internal/payment"
	"github.com/Cristian668/VentaX/internal/platform/cache"
	"github.com/Cristian668/VentaX/internal/platform/db"
	"github.com/Cristian668/VentaX/internal/shared"
	"github.com/Cristian668/VentaX/internal/upstream"
	"github.com/Cristian668/VentaX/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
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

	catalogStore := catalog.NewStore(cfg.CatalogPageSize)
	catalogSnapshot := catalog.NewSnapshot(redisClient, cfg.CatalogTTL)
	catalogService := catalog.NewService(upstreamClient, catalogStore, catalogSnapshot, logger)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	cartRepo := cart.NewRepository(redisClient, cfg.CartTTL)
	cartService := cart.NewService(cartRepo, catalogService, cfg.ShippingCost, logger)
	cartHandler := cart.NewHandler(logger, cartService)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	ordersRepo := orders.NewRepository(pool)
	idemStore := shared.NewIdempotencyStore(pool)
	ordersService := orders.NewService(ordersRepo, cartService, jobClient, idemStore, logger)
	ordersHandler := orders.NewHandler(logger, ordersService)

	paymentService := payment.NewService(paymentInfo(cfg, logger))
	paymentHandler := payment.NewHandler(paymentService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		CatalogHandler: catalogHandler,
		CartHandler:    cartHandler,
		OrdersHandler:  ordersHandler,
		PaymentHandler: paymentHandler,
		JobHandler:     jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// paymentInfo builds the bank-transfer block from configuration. A malformed
// accounts JSON keeps the endpoint up with an empty account list.
func paymentInfo(cfg *app.Config, logger *slog.Logger) payment.Info {
	info := payment.Info{ContactChannel: cfg.ContactChannel}
	if cfg.BankAccountsJSON != "" {
		if err := json.Unmarshal([]byte(cfg.BankAccountsJSON), &info.Accounts); err != nil {
			logger.Warn("parse bank accounts", slog.Any("error", err))
		}
	}
	return info
}
