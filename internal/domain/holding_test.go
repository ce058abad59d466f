package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestHolding_ApplyBuyAverageCost(t *testing.T) {
	h := &Holding{
		Quantity:  decimal.Zero,
		AvgCost:   decimal.Zero,
		TotalCost: decimal.Zero,
	}

	h.ApplyBuy(dec("10"), dec("100"), decimal.Zero)

	if !h.Quantity.Equal(dec("10")) {
		t.Errorf("expected quantity 10, got %s", h.Quantity)
	}
	if !h.AvgCost.Equal(dec("100")) {
		t.Errorf("expected avg cost 100, got %s", h.AvgCost)
	}

	// Second buy at a higher price moves the average:
	// (10*100 + 10*200) / 20 = 150
	h.ApplyBuy(dec("10"), dec("200"), decimal.Zero)

	if !h.Quantity.Equal(dec("20")) {
		t.Errorf("expected quantity 20, got %s", h.Quantity)
	}
	if !h.AvgCost.Equal(dec("150")) {
		t.Errorf("expected avg cost 150, got %s", h.AvgCost)
	}
	if !h.TotalCost.Equal(dec("3000")) {
		t.Errorf("expected total cost 3000, got %s", h.TotalCost)
	}
}

func TestHolding_ApplyBuyFeesInCostBasis(t *testing.T) {
	h := &Holding{}

	h.ApplyBuy(dec("100"), dec("10"), dec("5"))

	if !h.TotalCost.Equal(dec("1005")) {
		t.Errorf("expected total cost 1005, got %s", h.TotalCost)
	}
	if !h.AvgCost.Equal(dec("10.05")) {
		t.Errorf("expected avg cost 10.05, got %s", h.AvgCost)
	}
}

func TestHolding_ApplySell(t *testing.T) {
	h := &Holding{
		Quantity:  dec("20"),
		AvgCost:   dec("150"),
		TotalCost: dec("3000"),
	}

	if err := h.ApplySell(dec("5")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cost shrinks pro-rata; average is untouched by disposals.
	if !h.Quantity.Equal(dec("15")) {
		t.Errorf("expected quantity 15, got %s", h.Quantity)
	}
	if !h.TotalCost.Equal(dec("2250")) {
		t.Errorf("expected total cost 2250, got %s", h.TotalCost)
	}
	if !h.AvgCost.Equal(dec("150")) {
		t.Errorf("expected avg cost 150, got %s", h.AvgCost)
	}
}

func TestHolding_ApplySellFullPosition(t *testing.T) {
	h := &Holding{
		Quantity:  dec("10"),
		AvgCost:   dec("99.99999999"),
		TotalCost: dec("999.9999999"),
	}

	if err := h.ApplySell(dec("10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !h.Quantity.IsZero() {
		t.Errorf("expected zero quantity, got %s", h.Quantity)
	}
	if !h.TotalCost.IsZero() {
		t.Errorf("expected total cost clamped to zero, got %s", h.TotalCost)
	}
}

func TestHolding_ApplySellInsufficientQuantity(t *testing.T) {
	h := &Holding{Quantity: dec("5")}

	err := h.ApplySell(dec("10"))
	if !errors.Is(err, ErrInsufficientHoldingQuantity) {
		t.Fatalf("expected ErrInsufficientHoldingQuantity, got %v", err)
	}

	if !h.Quantity.Equal(dec("5")) {
		t.Errorf("failed sell must not mutate quantity, got %s", h.Quantity)
	}
}

func TestHolding_SnapshotRestore(t *testing.T) {
	h := &Holding{
		Quantity:  dec("10"),
		AvgCost:   dec("100"),
		TotalCost: dec("1000"),
	}

	snap := h.Snapshot()
	h.ApplyBuy(dec("10"), dec("300"), dec("2"))

	h.Restore(snap)

	if !h.Quantity.Equal(dec("10")) || !h.AvgCost.Equal(dec("100")) || !h.TotalCost.Equal(dec("1000")) {
		t.Errorf("restore did not reproduce snapshot: qty=%s avg=%s cost=%s",
			h.Quantity, h.AvgCost, h.TotalCost)
	}
}

func TestHolding_MarkPrice(t *testing.T) {
	h := &Holding{Quantity: dec("10")}
	at := time.Now().UTC()

	h.MarkPrice(dec("12.5"), at)

	if !h.CurrentPrice.Equal(dec("12.5")) {
		t.Errorf("expected price 12.5, got %s", h.CurrentPrice)
	}
	if !h.CurrentValue.Equal(dec("125")) {
		t.Errorf("expected value 125, got %s", h.CurrentValue)
	}
	if h.LastSyncAt == nil || !h.LastSyncAt.Equal(at) {
		t.Errorf("expected last sync at %v, got %v", at, h.LastSyncAt)
	}
}

func TestHolding_UnrealizedPL(t *testing.T) {
	h := &Holding{
		Quantity:     dec("10"),
		AvgCost:      dec("100"),
		CurrentValue: dec("1200"),
	}

	if got := h.UnrealizedPL(); !got.Equal(dec("200")) {
		t.Errorf("expected unrealized P/L 200, got %s", got)
	}
}
