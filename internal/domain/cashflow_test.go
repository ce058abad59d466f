package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestReplayBalance(t *testing.T) {
	entries := []*CashFlowEntry{
		{Kind: FlowKindInitial, Amount: dec("1000")},
		{Kind: FlowKindExpense, Amount: dec("-200")},
		{Kind: FlowKindTransfer, Amount: dec("300")},
		{Kind: FlowKindInvestment, Amount: dec("-1005")},
		{Kind: FlowKindReversal, Amount: dec("1005")},
	}

	got := ReplayBalance(decimal.Zero, entries)

	if !got.Equal(dec("1100")) {
		t.Errorf("expected replayed balance 1100, got %s", got)
	}
}

func TestReplayBalanceEmpty(t *testing.T) {
	if got := ReplayBalance(dec("42"), nil); !got.Equal(dec("42")) {
		t.Errorf("expected 42, got %s", got)
	}
}
