package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetKind distinguishes recurring envelopes from one-off projects.
type BudgetKind string

const (
	BudgetKindPeriodic BudgetKind = "periodic"
	BudgetKindProject  BudgetKind = "project"
)

// BudgetStatus is the budget lifecycle state. Completed and cancelled are
// terminal.
type BudgetStatus string

const (
	BudgetStatusActive    BudgetStatus = "active"
	BudgetStatusCompleted BudgetStatus = "completed"
	BudgetStatusCancelled BudgetStatus = "cancelled"
)

// OverspendPolicy governs whether an expense may push a budget past its
// allocation.
type OverspendPolicy string

const (
	OverspendAllow  OverspendPolicy = "allow"
	OverspendReject OverspendPolicy = "reject"
)

// Budget tracks allocated/spent/remaining for a spending envelope.
// Remaining is always recomputed as allocated - spent, never mutated
// independently.
type Budget struct {
	ID          string
	Name        string
	Kind        BudgetKind
	Allocated   decimal.Decimal
	Spent       decimal.Decimal
	Currency    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      BudgetStatus
	// EligibleAccountIDs restricts which accounts may spend against this
	// budget. Empty means any account.
	EligibleAccountIDs []string
	Notes              string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Remaining is allocated minus spent.
func (b *Budget) Remaining() decimal.Decimal {
	return b.Allocated.Sub(b.Spent)
}

// EligibleFor reports whether the account may spend against this budget.
func (b *Budget) EligibleFor(accountID string) bool {
	if len(b.EligibleAccountIDs) == 0 {
		return true
	}

	return slices.Contains(b.EligibleAccountIDs, accountID)
}

// LinkExpense adds amount to spent. Only active budgets accept new links.
// Under OverspendReject the link fails when it would push remaining
// negative; under OverspendAllow the overspend is recorded.
func (b *Budget) LinkExpense(amount decimal.Decimal, policy OverspendPolicy) error {
	if b.Status != BudgetStatusActive {
		return ErrBudgetNotActive
	}

	if policy == OverspendReject && amount.GreaterThan(b.Remaining()) {
		return ErrBudgetExceeded
	}

	b.Spent = b.Spent.Add(amount)

	return nil
}

// UnlinkExpense removes amount from spent, used when a linked expense is
// deleted. allowTerminal permits unlinking from completed/cancelled budgets
// to keep spent faithful to the surviving expense set.
func (b *Budget) UnlinkExpense(amount decimal.Decimal, allowTerminal bool) error {
	if b.Status != BudgetStatusActive && !allowTerminal {
		return ErrBudgetNotActive
	}

	b.Spent = b.Spent.Sub(amount)
	if b.Spent.IsNegative() {
		// spent >= 0 is an invariant; going below zero means the journal
		// and the budget disagree.
		return ErrJournalMismatch
	}

	return nil
}

// Complete transitions active -> completed, freezing spent as a final
// snapshot.
func (b *Budget) Complete() error {
	if b.Status != BudgetStatusActive {
		return ErrInvalidTransition
	}

	b.Status = BudgetStatusCompleted

	return nil
}

// Cancel transitions active -> cancelled.
func (b *Budget) Cancel() error {
	if b.Status != BudgetStatusActive {
		return ErrInvalidTransition
	}

	b.Status = BudgetStatusCancelled

	return nil
}
