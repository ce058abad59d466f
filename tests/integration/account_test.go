package integration

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/adapter/http/dto"
)

func TestAccountLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	var created dto.AccountResponse
	rec := env.doJSON(t, http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		Name:           "Main Checking",
		Kind:           "cash",
		Currency:       "USD",
		OpeningBalance: decimal.RequireFromString("1000.00"),
	}, &created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if created.ID == "" || !created.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("unexpected created account: %+v", created)
	}

	t.Run("opening balance seeds the journal", func(t *testing.T) {
		var entries dto.ListEntriesResponse
		rec := env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+created.ID+"/entries", nil, &entries)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(entries.Entries) != 1 {
			t.Fatalf("expected 1 journal entry, got %d", len(entries.Entries))
		}
		entry := entries.Entries[0]
		if entry.Kind != "initial" || !entry.Amount.Equal(decimal.RequireFromString("1000.00")) {
			t.Fatalf("unexpected opening entry: %+v", entry)
		}
	})

	t.Run("projection matches the cash balance", func(t *testing.T) {
		var view dto.AccountViewResponse
		rec := env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+created.ID, nil, &view)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !view.TotalValue.Equal(decimal.RequireFromString("1000.00")) {
			t.Fatalf("expected total value 1000, got %s", view.TotalValue)
		}
		if !view.AvailableCash.Equal(view.TotalValue) {
			t.Fatalf("expected all value to be cash, got %+v", view)
		}
	})

	t.Run("replayed journal reconciles", func(t *testing.T) {
		var rc dto.ReconciliationResponse
		rec := env.doJSON(t, http.MethodGet, "/api/v1/accounts/"+created.ID+"/reconcile", nil, &rc)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !rc.Consistent || !rc.Drift.IsZero() {
			t.Fatalf("expected consistent account, got %+v", rc)
		}
	})

	t.Run("deactivate is terminal", func(t *testing.T) {
		rec := env.doJSON(t, http.MethodDelete, "/api/v1/accounts/"+created.ID, nil, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = env.doJSON(t, http.MethodDelete, "/api/v1/accounts/"+created.ID, nil, nil)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 on double deactivation, got %d", rec.Code)
		}
	})
}

func TestSummaryAggregatesAccounts(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, balance := range []string{"1000.00", "500.00"} {
		rec := env.doJSON(t, http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
			Name:           "acct-" + balance,
			Kind:           "cash",
			Currency:       "USD",
			OpeningBalance: decimal.RequireFromString(balance),
		}, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	var summary dto.SummaryResponse
	rec := env.doJSON(t, http.MethodGet, "/api/v1/accounts/summary", nil, &summary)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if summary.AccountCount != 2 {
		t.Fatalf("expected 2 accounts, got %d", summary.AccountCount)
	}
	if !summary.AvailableCash.Equal(decimal.RequireFromString("1500.00")) {
		t.Fatalf("expected cash 1500, got %s", summary.AvailableCash)
	}
	if !summary.NetWorth.Equal(summary.TotalAssets) {
		t.Fatalf("expected net worth to equal assets without liabilities, got %+v", summary)
	}
}
