package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/moneta-app/moneta/internal/adapter/http/handler"
	"github.com/moneta-app/moneta/internal/adapter/http/middleware"
	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
	"github.com/moneta-app/moneta/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	ExpenseHandler   *handler.ExpenseHandler
	TransferHandler  *handler.TransferHandler
	TradeHandler     *handler.TradeHandler
	BudgetHandler    *handler.BudgetHandler
	LiabilityHandler *handler.LiabilityHandler
	JournalHandler   *handler.JournalHandler
	SyncHandler      *handler.SyncHandler
	HealthHandler    *handler.HealthHandler

	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		metricsMiddleware := middleware.NewMetricsMiddleware(cfg.Metrics)
		r.Use(metricsMiddleware.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/summary", cfg.AccountHandler.Summary)
			r.Get("/reconcile", cfg.JournalHandler.ReconcileAll)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Delete("/{id}", cfg.AccountHandler.Deactivate)
			r.Get("/{id}/entries", cfg.JournalHandler.ListByAccount)
			r.Get("/{id}/reconcile", cfg.JournalHandler.ReconcileAccount)
			r.Get("/{id}/transfers", cfg.TransferHandler.ListByAccount)
		})

		// Expenses
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", cfg.ExpenseHandler.Create)
			r.Get("/", cfg.ExpenseHandler.List)
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.Delete("/{id}", cfg.ExpenseHandler.Delete)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
		})

		// Trades
		r.Route("/trades", func(r chi.Router) {
			r.Post("/", cfg.TradeHandler.Create)
			r.Get("/", cfg.TradeHandler.List)
			r.Get("/{id}", cfg.TradeHandler.Get)
			r.Delete("/{id}", cfg.TradeHandler.Delete)
		})

		// Budgets
		r.Route("/budgets", func(r chi.Router) {
			r.Post("/", cfg.BudgetHandler.Create)
			r.Get("/", cfg.BudgetHandler.List)
			r.Get("/{id}", cfg.BudgetHandler.Get)
			r.Post("/{id}/complete", cfg.BudgetHandler.Complete)
			r.Post("/{id}/cancel", cfg.BudgetHandler.Cancel)
		})

		// Liabilities
		r.Route("/liabilities", func(r chi.Router) {
			r.Post("/", cfg.LiabilityHandler.Create)
			r.Get("/", cfg.LiabilityHandler.List)
			r.Get("/{id}", cfg.LiabilityHandler.Get)
			r.Post("/{id}/payments", cfg.LiabilityHandler.RecordPayment)
			r.Get("/{id}/payments", cfg.LiabilityHandler.ListPayments)
		})
		r.Delete("/payments/{paymentID}", cfg.LiabilityHandler.DeletePayment)

		// Market sync
		r.Route("/sync", func(r chi.Router) {
			r.Post("/", cfg.SyncHandler.Sync)
			r.Get("/logs", cfg.SyncHandler.ListLogs)
		})
	})

	return r
}
