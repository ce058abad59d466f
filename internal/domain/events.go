package domain

import "time"

// Event types
const (
	EventTypeAccountCreated  = "account.created"
	EventTypeExpenseRecorded = "expense.recorded"
	EventTypeExpenseReversed = "expense.reversed"
	EventTypeTransferCreated = "transfer.created"
	EventTypeTradeRecorded   = "trade.recorded"
	EventTypeTradeReversed   = "trade.reversed"
	EventTypePaymentRecorded = "payment.recorded"
	EventTypeBudgetCompleted = "budget.completed"
	EventTypeBudgetCancelled = "budget.cancelled"
	EventTypeMarketSynced    = "market.synced"
)

// Aggregate types
const (
	AggregateTypeAccount   = "account"
	AggregateTypeExpense   = "expense"
	AggregateTypeTransfer  = "transfer"
	AggregateTypeTrade     = "trade"
	AggregateTypeBudget    = "budget"
	AggregateTypeLiability = "liability"
)

// OutboxEvent represents an event to be published after the owning
// transaction commits.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
