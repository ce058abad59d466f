package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/moneta-app/moneta/internal/adapter/http"
	"github.com/moneta-app/moneta/internal/adapter/http/handler"
	"github.com/moneta-app/moneta/internal/adapter/http/middleware"
	"github.com/moneta-app/moneta/internal/adapter/oracle"
	postgresRepo "github.com/moneta-app/moneta/internal/adapter/repository/postgres"
	redisRepo "github.com/moneta-app/moneta/internal/adapter/repository/redis"
	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/infrastructure/config"
	"github.com/moneta-app/moneta/internal/infrastructure/eventpublisher"
	"github.com/moneta-app/moneta/internal/infrastructure/logger"
	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
	"github.com/moneta-app/moneta/internal/infrastructure/postgres"
	"github.com/moneta-app/moneta/internal/infrastructure/redis"
	"github.com/moneta-app/moneta/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	holdingRepo := postgresRepo.NewHoldingRepository(pool)
	budgetRepo := postgresRepo.NewBudgetRepository(pool)
	liabilityRepo := postgresRepo.NewLiabilityRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	tradeRepo := postgresRepo.NewTradeRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	syncLogRepo := postgresRepo.NewSyncLogRepository(pool)

	// With the outbox disabled, domain events are dropped instead of queued.
	var outboxRepo usecase.OutboxRepository = postgresRepo.NewOutboxRepository(pool)
	if !cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewNullOutboxRepository()
	}
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()

	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)

	// Price oracle with a Redis quote cache in front
	quoteClient := oracle.NewClient(cfg.QuoteServiceURL, cfg.PriceLookupTimeout)
	priceOracle := oracle.NewCachedOracle(quoteClient, cache, cfg.PriceCacheTTL)

	policies := policiesFromConfig(cfg)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, holdingRepo, liabilityRepo, journalRepo, outboxRepo, idGen).
		WithMetrics(appMetrics)
	expenseUC := usecase.NewExpenseUseCase(txManager, accountRepo, budgetRepo, expenseRepo, journalRepo, outboxRepo, idGen, policies).
		WithRetrier(retrier).WithMetrics(appMetrics)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, transferRepo, journalRepo, outboxRepo, idGen).
		WithRetrier(retrier).WithMetrics(appMetrics)
	tradeUC := usecase.NewTradeUseCase(txManager, accountRepo, holdingRepo, tradeRepo, journalRepo, outboxRepo, idGen).
		WithRetrier(retrier).WithMetrics(appMetrics)
	budgetUC := usecase.NewBudgetUseCase(txManager, budgetRepo, outboxRepo, idGen).
		WithMetrics(appMetrics)
	liabilityUC := usecase.NewLiabilityUseCase(txManager, accountRepo, liabilityRepo, paymentRepo, journalRepo, outboxRepo, idGen, policies).
		WithRetrier(retrier).WithMetrics(appMetrics)
	syncUC := usecase.NewSyncUseCase(txManager, accountRepo, holdingRepo, syncLogRepo, priceOracle, idGen, policies, appLogger).
		WithMetrics(appMetrics)
	journalUC := usecase.NewJournalUseCase(accountRepo, journalRepo, appLogger)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	expenseHandler := handler.NewExpenseHandler(expenseUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	tradeHandler := handler.NewTradeHandler(tradeUC)
	budgetHandler := handler.NewBudgetHandler(budgetUC)
	liabilityHandler := handler.NewLiabilityHandler(liabilityUC)
	journalHandler := handler.NewJournalHandler(journalUC)
	syncHandler := handler.NewSyncHandler(syncUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		ExpenseHandler:   expenseHandler,
		TransferHandler:  transferHandler,
		TradeHandler:     tradeHandler,
		BudgetHandler:    budgetHandler,
		LiabilityHandler: liabilityHandler,
		JournalHandler:   journalHandler,
		SyncHandler:      syncHandler,
		HealthHandler:    healthHandler,
		Logger:           appLogger,
		Metrics:          appMetrics,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	})

	// Outbox drain worker
	publisherCtx, cancelPublisher := context.WithCancel(ctx)
	defer cancelPublisher()

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(nil),
		})
		go publisher.Start(publisherCtx)
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	cancelPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func policiesFromConfig(cfg *config.Config) usecase.Policies {
	policies := usecase.DefaultPolicies()

	if cfg.OverspendPolicy == string(domain.OverspendAllow) {
		policies.Overspend = domain.OverspendAllow
	}
	if cfg.OverpaymentPolicy == string(domain.OverpaymentReject) {
		policies.Overpayment = domain.OverpaymentReject
	}
	policies.UnlinkTerminal = cfg.BudgetUnlinkTerminal
	policies.PriceLookupTimeout = cfg.PriceLookupTimeout

	if len(cfg.SyncExcludedKinds) > 0 {
		excluded := make(map[domain.AssetKind]bool, len(cfg.SyncExcludedKinds))
		for _, kind := range cfg.SyncExcludedKinds {
			excluded[domain.AssetKind(kind)] = true
		}
		policies.SyncExcludedAssetKinds = excluded
	}

	return policies
}
