package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransfer_Validate(t *testing.T) {
	valid := &Transfer{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        dec("100"),
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	same := &Transfer{FromAccountID: "acc-1", ToAccountID: "acc-1", Amount: dec("100")}
	if err := same.Validate(); !errors.Is(err, ErrSameAccount) {
		t.Errorf("expected ErrSameAccount, got %v", err)
	}

	zero := &Transfer{FromAccountID: "acc-1", ToAccountID: "acc-2", Amount: decimal.Zero}
	if err := zero.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestExpense_Validate(t *testing.T) {
	valid := &Expense{Amount: dec("50"), Category: "dining"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	noCategory := &Expense{Amount: dec("50")}
	if err := noCategory.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}

	zeroAmount := &Expense{Amount: decimal.Zero, Category: "dining"}
	if err := zeroAmount.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}
