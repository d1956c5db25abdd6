package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/parcel-service/internal/api/http"
	"github.com/spec-kit/parcel-service/internal/api/http/handlers"
	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/config"
	"github.com/spec-kit/parcel-service/internal/events"
	"github.com/spec-kit/parcel-service/internal/observability"
	"github.com/spec-kit/parcel-service/internal/payment"
	"github.com/spec-kit/parcel-service/internal/persistence"
	"github.com/spec-kit/parcel-service/internal/repository"
	"github.com/spec-kit/parcel-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.JWTSecret == config.DevJWTSecret {
		logger.Warn("using development token secret")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	parcelRepo := repository.NewParcelRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	var statsCache repository.StatsCache
	dependencies := map[string]handlers.Pinger{"postgres": pg}
	if redis.Enabled() {
		statsCache = repository.NewRedisStatsCache(redis.Client)
		dependencies["redis"] = redis
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	service.NewNotificationService(dispatcher, logger).RegisterHandlers()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, auth.DefaultTokenTTL)
	gates := auth.NewGates(userRepo, metrics, logger)
	verifier := auth.NewVerifier(tokens, metrics, logger)

	userService := service.NewUserService(userRepo, dispatcher)
	parcelService := service.NewParcelService(parcelRepo, userRepo, dispatcher)
	paymentService := service.NewPaymentService(paymentRepo, payment.NewStripeGateway(cfg.Payment), dispatcher)
	statsService := service.NewStatsService(statsRepo, statsCache, cfg.Stats.CacheTTL(), logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		UnescapePath: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Users:    handlers.NewUsersHandler(tokens, userService),
		Parcels:  handlers.NewParcelsHandler(parcelService),
		Payments: handlers.NewPaymentsHandler(paymentService),
		Stats:    handlers.NewStatsHandler(statsService),
		Verifier: verifier,
		Gates:    gates,
		Metrics:  metrics,
		Logger:   logger,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
