package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer moves cash between two accounts' balances as one unit. It is
// never observably partially applied.
type Transfer struct {
	ID            string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	EventAt       time.Time
}

// Validate validates the transfer request.
func (t *Transfer) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}
