package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateHoldingsValue(ctx context.Context, tx Transaction, id string, value decimal.Decimal, updatedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// HoldingRepository defines data access for holdings.
type HoldingRepository interface {
	Create(ctx context.Context, tx Transaction, holding *domain.Holding) error
	GetByID(ctx context.Context, id string) (*domain.Holding, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Holding, error)
	// GetByKeyForUpdate locks the active holding identified by
	// (account, symbol, asset kind, market); domain.ErrHoldingNotFound
	// when absent.
	GetByKeyForUpdate(ctx context.Context, tx Transaction, accountID, symbol string, kind domain.AssetKind, market string) (*domain.Holding, error)
	UpdatePosition(ctx context.Context, tx Transaction, id string, quantity, avgCost, totalCost decimal.Decimal, updatedAt time.Time) error
	// UpdatePrice writes a fresh quote; current_value is derived from the
	// row's own quantity so a trade committed since the holding was read
	// cannot leave a stale product.
	UpdatePrice(ctx context.Context, tx Transaction, id string, price decimal.Decimal, syncedAt time.Time) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error)
	ListActive(ctx context.Context) ([]*domain.Holding, error)
	// SumActiveValueByAccount sums current_value over an account's active
	// holdings inside the given transaction, so it observes writes made
	// earlier in the same transaction.
	SumActiveValueByAccount(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error)
}

// BudgetRepository defines data access for budgets.
type BudgetRepository interface {
	Create(ctx context.Context, budget *domain.Budget) error
	GetByID(ctx context.Context, id string) (*domain.Budget, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Budget, error)
	UpdateSpent(ctx context.Context, tx Transaction, id string, spent decimal.Decimal, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.BudgetStatus, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Budget, error)
}

// LiabilityRepository defines data access for liabilities.
type LiabilityRepository interface {
	Create(ctx context.Context, liability *domain.Liability) error
	GetByID(ctx context.Context, id string) (*domain.Liability, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Liability, error)
	UpdatePrincipal(ctx context.Context, tx Transaction, id string, principal decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Liability, error)
}

// PaymentRepository defines data access for liability payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.LiabilityPayment) error
	GetByID(ctx context.Context, id string) (*domain.LiabilityPayment, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByLiability(ctx context.Context, liabilityID string, limit, offset int) ([]*domain.LiabilityPayment, error)
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Expense, error)
	ListByBudget(ctx context.Context, budgetID string, limit, offset int) ([]*domain.Expense, error)
}

// TradeRepository defines data access for investment transactions.
type TradeRepository interface {
	Create(ctx context.Context, tx Transaction, trade *domain.InvestmentTransaction) error
	GetByID(ctx context.Context, id string) (*domain.InvestmentTransaction, error)
	// GetLatestForHolding returns the most recently created trade for a
	// holding; domain.ErrTradeNotFound when the holding has none.
	GetLatestForHolding(ctx context.Context, tx Transaction, holdingID string) (*domain.InvestmentTransaction, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.InvestmentTransaction, error)
	ListByHolding(ctx context.Context, holdingID string, limit, offset int) ([]*domain.InvestmentTransaction, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
}

// JournalRepository defines data access for cash-flow entries. The journal
// is append-only: there is no update or delete.
type JournalRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.CashFlowEntry) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlowEntry, error)
	// SumByAccount returns the sum of all signed entry amounts for an
	// account, for replay reconciliation.
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// SyncLogRepository defines data access for market sync logs.
type SyncLogRepository interface {
	Create(ctx context.Context, log *domain.MarketSyncLog) error
	List(ctx context.Context, limit, offset int) ([]*domain.MarketSyncLog, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// PriceOracle looks up the current price for a symbol. Implementations
// must respect context deadlines; a timed-out lookup is a per-symbol
// failure, never fatal for a sync batch.
type PriceOracle interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Retrier retries an operation on transient conflicts (deadlock,
// serialization failure).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
