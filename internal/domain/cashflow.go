package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlowKind classifies a journal entry.
type FlowKind string

const (
	FlowKindInitial    FlowKind = "initial"
	FlowKindIncome     FlowKind = "income"
	FlowKindExpense    FlowKind = "expense"
	FlowKindTransfer   FlowKind = "transfer"
	FlowKindInvestment FlowKind = "investment"
	FlowKindLiability  FlowKind = "liability"
	// FlowKindReversal marks the compensating entry written when an
	// expense, trade or payment is deleted.
	FlowKindReversal FlowKind = "reversal"
)

// CashFlowEntry is one append-only journal record of a balance-affecting
// event. Entries are never updated or deleted independently; replaying all
// of an account's entries from zero must reproduce its balance.
type CashFlowEntry struct {
	ID        string
	AccountID string
	Kind      FlowKind
	// Amount is signed: negative for outflows, positive for inflows.
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	// At most one of the following links the entry to its origin.
	ExpenseID   *string
	TransferID  *string
	TradeID     *string
	PaymentID   *string
	Description string
	CreatedAt   time.Time
}

// ReplayBalance folds entry deltas over a starting balance. Used by
// reconciliation to verify the journal against the stored balance.
func ReplayBalance(start decimal.Decimal, entries []*CashFlowEntry) decimal.Decimal {
	balance := start
	for _, e := range entries {
		balance = balance.Add(e.Amount)
	}

	return balance
}
