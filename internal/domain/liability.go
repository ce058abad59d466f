package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OverpaymentPolicy governs payments larger than the outstanding principal.
type OverpaymentPolicy string

const (
	// OverpaymentClamp accepts the payment and clamps principal at zero;
	// the cash debit is still the full payment amount.
	OverpaymentClamp OverpaymentPolicy = "clamp"
	// OverpaymentReject fails the payment outright.
	OverpaymentReject OverpaymentPolicy = "reject"
)

// Liability is an outstanding debt (loan, mortgage, credit line).
type Liability struct {
	ID                   string
	Name                 string
	Kind                 string
	OriginalPrincipal    decimal.Decimal
	OutstandingPrincipal decimal.Decimal
	Currency             string
	Active               bool
	Notes                string
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ApplyPayment reduces outstanding principal by amount and returns the new
// principal. Under OverpaymentClamp the principal floors at zero.
func (l *Liability) ApplyPayment(amount decimal.Decimal, policy OverpaymentPolicy) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}

	remaining := l.OutstandingPrincipal.Sub(amount)
	if remaining.IsNegative() {
		if policy == OverpaymentReject {
			return decimal.Zero, ErrOverpayment
		}

		remaining = decimal.Zero
	}

	return remaining, nil
}

// LiabilityPayment records one principal payment funded from a cash
// account. Created once, reversed only by deletion.
type LiabilityPayment struct {
	ID              string
	LiabilityID     string
	AccountID       string
	Amount          decimal.Decimal
	PrincipalAfter  decimal.Decimal
	PrincipalBefore decimal.Decimal
	PaidAt          time.Time
	Notes           string
	CreatedAt       time.Time
}
