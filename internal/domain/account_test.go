package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		debitAmount decimal.Decimal
		expectError bool
	}{
		{
			name:        "debit more than balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(150),
			expectError: true,
		},
		{
			name:        "debit exact balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(100),
			expectError: false,
		},
		{
			name:        "debit less than balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(50),
			expectError: false,
		},
		{
			name:        "debit from zero balance",
			balance:     decimal.Zero,
			debitAmount: decimal.NewFromInt(1),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance}

			err := acc.ValidateDebit(tt.debitAmount)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_ApplyDebitCredit(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(100)}

	if got := acc.ApplyDebit(decimal.NewFromInt(30)); !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected 70, got %s", got)
	}

	if got := acc.ApplyCredit(decimal.NewFromInt(30)); !got.Equal(decimal.NewFromInt(130)) {
		t.Errorf("expected 130, got %s", got)
	}
}

func TestAccount_Project(t *testing.T) {
	acc := &Account{ID: "acc-1", Balance: decimal.NewFromInt(1000)}

	holdings := []*Holding{
		{AccountID: "acc-1", Active: true, Liquid: false, CurrentValue: decimal.NewFromInt(500)},
		{AccountID: "acc-1", Active: true, Liquid: true, CurrentValue: decimal.NewFromInt(200)},
		{AccountID: "acc-1", Active: false, CurrentValue: decimal.NewFromInt(999)},
		{AccountID: "acc-2", Active: true, CurrentValue: decimal.NewFromInt(999)},
	}

	p := acc.Project(holdings)

	if !p.TotalValue.Equal(decimal.NewFromInt(1700)) {
		t.Errorf("expected total 1700, got %s", p.TotalValue)
	}
	if !p.AvailableCash.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected available cash 1200, got %s", p.AvailableCash)
	}
	if !p.InvestmentValue.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected investment value 500, got %s", p.InvestmentValue)
	}
}

func TestAccount_ProjectNoHoldings(t *testing.T) {
	acc := &Account{ID: "acc-1", Balance: decimal.NewFromInt(250)}

	p := acc.Project(nil)

	if !p.TotalValue.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected total 250, got %s", p.TotalValue)
	}
	if !p.InvestmentValue.IsZero() {
		t.Errorf("expected zero investment value, got %s", p.InvestmentValue)
	}
}
