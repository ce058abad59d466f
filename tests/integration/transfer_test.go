package integration

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/adapter/http/dto"
)

func TestTransferMovesCashBetweenAccounts(t *testing.T) {
	env := newTestEnv(t, nil)

	createAccount := func(name, balance string) dto.AccountResponse {
		t.Helper()
		var account dto.AccountResponse
		rec := env.doJSON(t, http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
			Name:           name,
			Kind:           "cash",
			Currency:       "USD",
			OpeningBalance: decimal.RequireFromString(balance),
		}, &account)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		return account
	}

	source := createAccount("Checking", "1000.00")
	destination := createAccount("Savings", "500.00")

	var transfer dto.TransferResponse
	rec := env.doJSON(t, http.MethodPost, "/api/v1/transfers", dto.CreateTransferRequest{
		FromAccountID: source.ID,
		ToAccountID:   destination.ID,
		Amount:        decimal.RequireFromString("300.00"),
	}, &transfer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	t.Run("both balances move", func(t *testing.T) {
		var from, to dto.AccountViewResponse
		env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+source.ID, nil, &from)
		env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+destination.ID, nil, &to)

		if !from.Account.Balance.Equal(decimal.RequireFromString("700.00")) {
			t.Fatalf("expected source balance 700, got %s", from.Account.Balance)
		}
		if !to.Account.Balance.Equal(decimal.RequireFromString("800.00")) {
			t.Fatalf("expected destination balance 800, got %s", to.Account.Balance)
		}
	})

	t.Run("both journals carry the transfer", func(t *testing.T) {
		var transfers dto.ListTransfersResponse
		env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+source.ID+"/transfers", nil, &transfers)
		if len(transfers.Transfers) != 1 || transfers.Transfers[0].ID != transfer.ID {
			t.Fatalf("expected the transfer in source history, got %+v", transfers)
		}

		for _, accountID := range []string{source.ID, destination.ID} {
			var rc dto.ReconciliationResponse
			env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+accountID+"/reconcile", nil, &rc)
			if !rc.Consistent {
				t.Fatalf("expected account %s to reconcile, got %+v", accountID, rc)
			}
		}
	})

	t.Run("insufficient funds rolls back atomically", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodPost, "/api/v1/transfers", dto.CreateTransferRequest{
			FromAccountID: source.ID,
			ToAccountID:   destination.ID,
			Amount:        decimal.RequireFromString("5000.00"),
		}, nil)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}

		var to dto.AccountViewResponse
		env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+destination.ID, nil, &to)
		if !to.Account.Balance.Equal(decimal.RequireFromString("800.00")) {
			t.Fatalf("expected destination untouched at 800, got %s", to.Account.Balance)
		}
	})
}

func TestLiabilityPaymentFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	var account dto.AccountResponse
	env.doJSON(t, http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		Name:           "Checking",
		Kind:           "cash",
		Currency:       "USD",
		OpeningBalance: decimal.RequireFromString("2000.00"),
	}, &account)

	var liability dto.LiabilityResponse
	rec := env.doJSON(t, http.MethodPost, "/api/v1/liabilities", dto.CreateLiabilityRequest{
		Name:      "Car Loan",
		Principal: decimal.RequireFromString("1000.00"),
		Currency:  "USD",
	}, &liability)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var payment dto.PaymentResponse
	rec = env.doJSON(t, http.MethodPost, "/api/v1/liabilities/"+liability.ID+"/payments", dto.RecordPaymentRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("1500.00"),
	}, &payment)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Overpayment clamps at the outstanding principal but still debits cash.
	var got dto.LiabilityResponse
	env.doJSON(t, http.MethodGet, "/api/v1/liabilities/"+liability.ID, nil, &got)
	if !got.OutstandingPrincipal.IsZero() {
		t.Fatalf("expected outstanding 0 after clamp, got %s", got.OutstandingPrincipal)
	}

	var view dto.AccountViewResponse
	env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+account.ID, nil, &view)
	if !view.Account.Balance.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("expected balance 500 after full debit, got %s", view.Account.Balance)
	}

	rec = env.doJSON(t, http.MethodDelete, "/api/v1/payments/"+payment.ID, nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	env.doJSON(t, http.MethodGet, "/api/v1/liabilities/"+liability.ID, nil, &got)
	if !got.OutstandingPrincipal.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected outstanding restored to 1000, got %s", got.OutstandingPrincipal)
	}

	env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+account.ID, nil, &view)
	if !view.Account.Balance.Equal(decimal.RequireFromString("2000.00")) {
		t.Fatalf("expected balance restored to 2000, got %s", view.Account.Balance)
	}
}
