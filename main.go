package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/nikolayk812/marketplace/internal/auth"
	"github.com/nikolayk812/marketplace/internal/cache"
	"github.com/nikolayk812/marketplace/internal/config"
	"github.com/nikolayk812/marketplace/internal/logging"
	"github.com/nikolayk812/marketplace/internal/metrics"
	"github.com/nikolayk812/marketplace/internal/migration"
	"github.com/nikolayk812/marketplace/internal/port"
	"github.com/nikolayk812/marketplace/internal/repository"
	"github.com/nikolayk812/marketplace/internal/service"
	"github.com/nikolayk812/marketplace/internal/telemetry"
	transport "github.com/nikolayk812/marketplace/internal/transport/http"
	"github.com/nikolayk812/marketplace/internal/transport/http/handler"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	storeCurrency, err := cfg.Currency()
	if err != nil {
		return fmt.Errorf("cfg.Currency: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return fmt.Errorf("logging.NewLogger: %w", err)
	}
	defer func() {
		// stderr sync fails on some platforms, nothing to do about it
		_ = logger.Sync()
	}()

	shutdownTracer, err := telemetry.InitTracer(ctx, "marketplace", cfg.Env, cfg.Tracing.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry.InitTracer: %w", err)
	}

	if err := migration.Up(cfg.Postgres.URL); err != nil {
		return fmt.Errorf("migration.Up: %w", err)
	}

	pool, err := repository.NewPool(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns)
	if err != nil {
		return fmt.Errorf("repository.NewPool: %w", err)
	}
	defer pool.Close()

	m := metrics.New()

	var productCache port.ProductCache = cache.Nop{}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis client close", zap.Error(err))
			}
		}()

		productCache = cache.NewProductCache(client, cfg.Redis.TTL, logger, m)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("auth.NewTokenIssuer: %w", err)
	}

	products := repository.NewProduct(pool)
	orders := repository.NewOrder(pool)
	transactor := repository.NewTransactor(pool)

	identity := service.NewIdentityService(repository.NewUser(pool), tokens, logger)
	catalog := service.NewCatalogService(products, transactor, productCache, storeCurrency, logger)
	orderService := service.NewOrderService(transactor, orders, productCache, logger, m, cfg.Orders.StrictTransitions)
	saleService := service.NewSaleService(orders, products, storeCurrency)

	app := transport.NewApp(logger, m)
	transport.RegisterRoutes(app, &transport.Handlers{
		Auth:    handler.NewAuthHandler(identity, logger),
		Product: handler.NewProductHandler(catalog, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
		Sale:    handler.NewSaleHandler(saleService),
	}, identity, pool, m)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		listenErr <- app.Listen(cfg.HTTP.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		return fmt.Errorf("app.Listen: %w", err)
	}

	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, fmt.Errorf("app.ShutdownWithContext: %w", err))
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, fmt.Errorf("shutdownTracer: %w", err))
	}

	return shutdownErr
}
