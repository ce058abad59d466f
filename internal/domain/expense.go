package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single cash outflow, optionally linked to a budget.
// Creating it debits the account; deleting it reverses both effects
// exactly. Amounts are never edited in place.
type Expense struct {
	ID            string
	AccountID     string
	BudgetID      *string
	Amount        decimal.Decimal
	Date          time.Time
	Category      string
	Subcategory   string
	Merchant      string
	PaymentMethod string
	Shared        bool
	Participants  []string
	Tags          []string
	Notes         string
	CreatedAt     time.Time
}

// Validate checks the expense's shape.
func (e *Expense) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if e.Category == "" {
		return ErrInvalidCategory
	}

	return nil
}
