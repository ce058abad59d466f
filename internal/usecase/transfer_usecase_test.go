package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
	"github.com/moneta-app/moneta/internal/usecase/mocks"
)

type transferFixture struct {
	accountRepo  *mocks.MockAccountRepository
	transferRepo *mocks.MockTransferRepository
	journalRepo  *mocks.MockJournalRepository
	uc           *usecase.TransferUseCase
}

func newTransferFixture() *transferFixture {
	f := &transferFixture{
		accountRepo:  mocks.NewMockAccountRepository(),
		transferRepo: mocks.NewMockTransferRepository(),
		journalRepo:  mocks.NewMockJournalRepository(),
	}
	f.uc = usecase.NewTransferUseCase(
		mocks.NewMockTransactionManager(),
		f.accountRepo,
		f.transferRepo,
		f.journalRepo,
		nil,
		mocks.NewMockIDGenerator(),
	)
	return f
}

func (f *transferFixture) seedAccount(id, currency string, balance decimal.Decimal) *domain.Account {
	account := &domain.Account{
		ID:       id,
		Name:     id,
		Kind:     domain.AccountKindCash,
		Currency: currency,
		Balance:  balance,
		Active:   true,
	}
	_ = f.accountRepo.Create(context.Background(), account)
	return account
}

func TestTransferUseCase_CreateTransfer(t *testing.T) {
	f := newTransferFixture()
	from := f.seedAccount("acc-a", "USD", dec("1000.00"))
	to := f.seedAccount("acc-b", "USD", dec("500.00"))

	transfer, err := f.uc.CreateTransfer(context.Background(), usecase.CreateTransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        dec("300.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !from.Balance.Equal(dec("700.00")) {
		t.Errorf("expected source balance 700.00, got %s", from.Balance)
	}
	if !to.Balance.Equal(dec("800.00")) {
		t.Errorf("expected destination balance 800.00, got %s", to.Balance)
	}

	entries := f.journalRepo.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(entries))
	}

	debit, credit := entries[0], entries[1]
	if debit.AccountID != from.ID || !debit.Amount.Equal(dec("-300.00")) {
		t.Errorf("unexpected debit entry: account=%s amount=%s", debit.AccountID, debit.Amount)
	}
	if credit.AccountID != to.ID || !credit.Amount.Equal(dec("300.00")) {
		t.Errorf("unexpected credit entry: account=%s amount=%s", credit.AccountID, credit.Amount)
	}
	for _, entry := range entries {
		if entry.Kind != domain.FlowKindTransfer {
			t.Errorf("expected kind %s, got %s", domain.FlowKindTransfer, entry.Kind)
		}
		if entry.TransferID == nil || *entry.TransferID != transfer.ID {
			t.Error("expected entry to reference the transfer")
		}
	}
}

func TestTransferUseCase_CreateTransfer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*transferFixture)
		input   usecase.CreateTransferInput
		wantErr error
	}{
		{
			name: "insufficient funds leaves both balances untouched",
			setup: func(f *transferFixture) {
				f.seedAccount("acc-a", "USD", dec("1000.00"))
				f.seedAccount("acc-b", "USD", dec("500.00"))
			},
			input: usecase.CreateTransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        dec("1200.00"),
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:  "same account",
			setup: func(f *transferFixture) { f.seedAccount("acc-a", "USD", dec("1000.00")) },
			input: usecase.CreateTransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-a",
				Amount:        dec("100.00"),
			},
			wantErr: domain.ErrSameAccount,
		},
		{
			name: "currency mismatch",
			setup: func(f *transferFixture) {
				f.seedAccount("acc-a", "USD", dec("1000.00"))
				f.seedAccount("acc-b", "EUR", dec("500.00"))
			},
			input: usecase.CreateTransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        dec("100.00"),
			},
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name: "inactive destination",
			setup: func(f *transferFixture) {
				f.seedAccount("acc-a", "USD", dec("1000.00"))
				to := f.seedAccount("acc-b", "USD", dec("500.00"))
				to.Active = false
			},
			input: usecase.CreateTransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        dec("100.00"),
			},
			wantErr: domain.ErrAccountInactive,
		},
		{
			name:  "destination not found",
			setup: func(f *transferFixture) { f.seedAccount("acc-a", "USD", dec("1000.00")) },
			input: usecase.CreateTransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "missing",
				Amount:        dec("100.00"),
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "zero amount",
			setup: func(f *transferFixture) {
				f.seedAccount("acc-a", "USD", dec("1000.00"))
				f.seedAccount("acc-b", "USD", dec("500.00"))
			},
			input: usecase.CreateTransferInput{
				FromAccountID: "acc-a",
				ToAccountID:   "acc-b",
				Amount:        decimal.Zero,
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransferFixture()
			tt.setup(f)

			_, err := f.uc.CreateTransfer(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}

			if len(f.journalRepo.Entries()) != 0 {
				t.Error("failed transfer must not journal anything")
			}

			for _, id := range []string{tt.input.FromAccountID, tt.input.ToAccountID} {
				account, err := f.accountRepo.GetByID(context.Background(), id)
				if err != nil {
					continue
				}
				if account.ID == "acc-a" && !account.Balance.Equal(dec("1000.00")) {
					t.Errorf("source balance moved on a failed transfer: %s", account.Balance)
				}
				if account.ID == "acc-b" && !account.Balance.Equal(dec("500.00")) {
					t.Errorf("destination balance moved on a failed transfer: %s", account.Balance)
				}
			}
		})
	}
}

func TestTransferUseCase_GetTransfer(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "USD", dec("1000.00"))
	f.seedAccount("acc-b", "USD", dec("500.00"))

	created, err := f.uc.CreateTransfer(context.Background(), usecase.CreateTransferInput{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        dec("50.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := f.uc.GetTransfer(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != created.ID || !got.Amount.Equal(dec("50.00")) {
		t.Errorf("unexpected transfer: %+v", got)
	}
}
