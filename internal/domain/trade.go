package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeKind is the type of an investment transaction.
type TradeKind string

const (
	TradeKindBuy      TradeKind = "buy"
	TradeKindSell     TradeKind = "sell"
	TradeKindDividend TradeKind = "dividend"
	TradeKindInterest TradeKind = "interest"
)

// InvestmentTransaction records one trade against a holding. It is
// immutable once created; amount changes are modeled as delete+recreate.
// The Prev* fields snapshot the holding's cost-basis state before the
// trade was applied, so deleting the trade restores it exactly.
type InvestmentTransaction struct {
	ID        string
	AccountID string
	HoldingID string
	Kind      TradeKind
	Symbol    string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Fees      decimal.Decimal
	// CashAmount is the signed effect on account cash: negative for buys,
	// positive for sells, dividends and interest.
	CashAmount decimal.Decimal

	PrevQuantity  decimal.Decimal
	PrevAvgCost   decimal.Decimal
	PrevTotalCost decimal.Decimal

	TradeDate time.Time
	Currency  string
	Notes     string
	CreatedAt time.Time
}

// Validate checks the trade's shape before it enters the ledger.
func (t *InvestmentTransaction) Validate() error {
	switch t.Kind {
	case TradeKindBuy, TradeKindSell:
		if t.Quantity.LessThanOrEqual(decimal.Zero) || t.Price.LessThan(decimal.Zero) {
			return ErrInvalidAmount
		}
	case TradeKindDividend, TradeKindInterest:
		if t.CashAmount.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidAmount
		}
	default:
		return ErrInvalidAmount
	}

	if t.Fees.IsNegative() {
		return ErrInvalidAmount
	}

	return nil
}

// PrevSnapshot returns the stored pre-trade holding state.
func (t *InvestmentTransaction) PrevSnapshot() Snapshot {
	return Snapshot{
		Quantity:  t.PrevQuantity,
		AvgCost:   t.PrevAvgCost,
		TotalCost: t.PrevTotalCost,
	}
}

// TradeCashDelta computes the signed cash effect of a trade.
func TradeCashDelta(kind TradeKind, quantity, price, fees, amount decimal.Decimal) decimal.Decimal {
	switch kind {
	case TradeKindBuy:
		return quantity.Mul(price).Add(fees).Neg()
	case TradeKindSell:
		return quantity.Mul(price).Sub(fees)
	case TradeKindDividend, TradeKindInterest:
		return amount.Sub(fees)
	default:
		return decimal.Zero
	}
}
