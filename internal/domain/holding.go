package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind classifies a holding. Bond, money-market and crypto positions
// are excluded from market-price sync by default.
type AssetKind string

const (
	AssetKindStock       AssetKind = "stock"
	AssetKindFund        AssetKind = "fund"
	AssetKindBond        AssetKind = "bond"
	AssetKindMoneyMarket AssetKind = "money_market"
	AssetKindCrypto      AssetKind = "crypto"
)

// costScale is the number of fractional digits kept for prices, quantities
// and average cost. Division rounds half-up at this scale.
const costScale = 8

// Holding is one position inside an investment account.
// (AccountID, Symbol, AssetKind, Market) is unique while active.
type Holding struct {
	ID           string
	AccountID    string
	Symbol       string
	Name         string
	AssetKind    AssetKind
	Market       string
	Quantity     decimal.Decimal
	AvgCost      decimal.Decimal
	TotalCost    decimal.Decimal
	CurrentPrice decimal.Decimal
	CurrentValue decimal.Decimal
	LastSyncAt   *time.Time
	Currency     string
	// Liquid marks T+0 cash-equivalents that count toward available cash.
	// It only affects which aggregate the holding contributes to.
	Liquid    bool
	Active    bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot captures the cost-basis state of a holding before a trade, so
// the trade can be reversed exactly.
type Snapshot struct {
	Quantity  decimal.Decimal
	AvgCost   decimal.Decimal
	TotalCost decimal.Decimal
}

// Snapshot returns the current cost-basis state.
func (h *Holding) Snapshot() Snapshot {
	return Snapshot{
		Quantity:  h.Quantity,
		AvgCost:   h.AvgCost,
		TotalCost: h.TotalCost,
	}
}

// Restore puts the holding back to a previously captured state.
func (h *Holding) Restore(s Snapshot) {
	h.Quantity = s.Quantity
	h.AvgCost = s.AvgCost
	h.TotalCost = s.TotalCost
}

// ApplyBuy adds quantity at price with fees and recomputes the moving
// weighted average cost: (old_cost + qty*price + fees) / new_quantity.
func (h *Holding) ApplyBuy(quantity, price, fees decimal.Decimal) {
	newQuantity := h.Quantity.Add(quantity)
	newCost := h.TotalCost.Add(quantity.Mul(price)).Add(fees)

	h.Quantity = newQuantity
	h.TotalCost = newCost

	if newQuantity.IsPositive() {
		h.AvgCost = newCost.DivRound(newQuantity, costScale)
	} else {
		h.AvgCost = decimal.Zero
	}
}

// ApplySell removes quantity. Average cost is not recomputed on disposal;
// total cost shrinks pro-rata and clamps at zero when the position closes.
func (h *Holding) ApplySell(quantity decimal.Decimal) error {
	if quantity.GreaterThan(h.Quantity) {
		return ErrInsufficientHoldingQuantity
	}

	if h.Quantity.IsPositive() {
		ratio := quantity.Div(h.Quantity)
		h.TotalCost = h.TotalCost.Sub(h.TotalCost.Mul(ratio))
	}

	h.Quantity = h.Quantity.Sub(quantity)

	if h.Quantity.IsZero() {
		h.TotalCost = decimal.Zero
	}

	return nil
}

// MarkPrice records a fresh quote and the derived market value.
func (h *Holding) MarkPrice(price decimal.Decimal, at time.Time) {
	h.CurrentPrice = price
	h.CurrentValue = h.Quantity.Mul(price)
	h.LastSyncAt = &at
}

// UnrealizedPL is current market value minus cost of the open position.
func (h *Holding) UnrealizedPL() decimal.Decimal {
	return h.CurrentValue.Sub(h.Quantity.Mul(h.AvgCost))
}
