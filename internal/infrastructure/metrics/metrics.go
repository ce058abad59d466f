package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsCreated prometheus.Counter

	// Expense metrics
	ExpensesRecorded prometheus.Counter
	ExpensesReversed prometheus.Counter
	ExpenseAmount    prometheus.Histogram

	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransferAmount   prometheus.Histogram

	// Trade metrics
	TradesRecorded *prometheus.CounterVec
	TradesReversed prometheus.Counter

	// Budget metrics
	BudgetsCreated  prometheus.Counter
	BudgetRejected  prometheus.Counter
	BudgetRemaining *prometheus.GaugeVec

	// Liability metrics
	PaymentsRecorded prometheus.Counter

	// Market sync metrics
	SyncRuns     *prometheus.CounterVec
	SyncDuration prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneta_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		ExpensesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneta_expenses_recorded_total",
			Help: "Total number of expenses recorded",
		}),
		ExpensesReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneta_expenses_reversed_total",
			Help: "Total number of expenses reversed by deletion",
		}),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneta_expense_amount",
			Help:    "Expense amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),

		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneta_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneta_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		TradesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_trades_recorded_total",
				Help: "Total number of trades recorded by kind",
			},
			[]string{"kind"},
		),
		TradesReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneta_trades_reversed_total",
			Help: "Total number of trades reversed by deletion",
		}),

		BudgetsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneta_budgets_created_total",
			Help: "Total number of budgets created",
		}),
		BudgetRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneta_budget_rejections_total",
			Help: "Total number of expenses rejected by overspend policy",
		}),
		BudgetRemaining: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moneta_budget_remaining",
				Help: "Remaining allocation per budget",
			},
			[]string{"budget_id"},
		),

		PaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneta_liability_payments_recorded_total",
			Help: "Total number of liability payments recorded",
		}),

		SyncRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_market_sync_runs_total",
				Help: "Total market sync runs by status",
			},
			[]string{"status"},
		),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneta_market_sync_duration_seconds",
			Help:    "Duration of market sync runs",
			Buckets: prometheus.DefBuckets,
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moneta_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_db_queries_total",
				Help: "Total database queries by operation",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moneta_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "moneta_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_db_errors_total",
				Help: "Total database errors by type",
			},
			[]string{"error_type"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_redis_operations_total",
				Help: "Total Redis operations by type",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_redis_errors_total",
				Help: "Total Redis errors by operation",
			},
			[]string{"operation"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_rate_limit_hits_total",
				Help: "Total rate limit hits by endpoint",
			},
			[]string{"endpoint"},
		),
	}
}

// NewWithRegistry creates metrics registered against a private registry,
// for tests that need isolation from the default registerer.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneta_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		ExpensesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneta_expenses_recorded_total",
			Help: "Total number of expenses recorded",
		}),
		ExpensesReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneta_expenses_reversed_total",
			Help: "Total number of expenses reversed by deletion",
		}),
		ExpenseAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneta_expense_amount",
			Help:    "Expense amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),
		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneta_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneta_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TradesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_trades_recorded_total",
				Help: "Total number of trades recorded by kind",
			},
			[]string{"kind"},
		),
		TradesReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneta_trades_reversed_total",
			Help: "Total number of trades reversed by deletion",
		}),
		BudgetsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneta_budgets_created_total",
			Help: "Total number of budgets created",
		}),
		BudgetRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneta_budget_rejections_total",
			Help: "Total number of expenses rejected by overspend policy",
		}),
		BudgetRemaining: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moneta_budget_remaining",
				Help: "Remaining allocation per budget",
			},
			[]string{"budget_id"},
		),
		PaymentsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "moneta_liability_payments_recorded_total",
			Help: "Total number of liability payments recorded",
		}),
		SyncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_market_sync_runs_total",
				Help: "Total market sync runs by status",
			},
			[]string{"status"},
		),
		SyncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneta_market_sync_duration_seconds",
			Help:    "Duration of market sync runs",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moneta_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		DBQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_db_queries_total",
				Help: "Total database queries by operation",
			},
			[]string{"operation"},
		),
		DBDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moneta_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moneta_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_db_errors_total",
				Help: "Total database errors by type",
			},
			[]string{"error_type"},
		),
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_redis_operations_total",
				Help: "Total Redis operations by type",
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_redis_errors_total",
				Help: "Total Redis errors by operation",
			},
			[]string{"operation"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneta_rate_limit_hits_total",
				Help: "Total rate limit hits by endpoint",
			},
			[]string{"endpoint"},
		),
	}
}
