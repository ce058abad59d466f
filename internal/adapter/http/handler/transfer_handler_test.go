package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/adapter/http/dto"
	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
)

type transferServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error)
	getFn    func(ctx context.Context, id string) (*domain.Transfer, error)
	listFn   func(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error)
}

func (s *transferServiceStub) CreateTransfer(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
	return s.createFn(ctx, input)
}

func (s *transferServiceStub) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return s.getFn(ctx, id)
}

func (s *transferServiceStub) ListTransfersByAccount(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	return s.listFn(ctx, input)
}

func TestTransferHandler_Create_Success(t *testing.T) {
	transfer := &domain.Transfer{
		ID:            "tr-1",
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        decimal.RequireFromString("300"),
	}

	var captured usecase.CreateTransferInput
	handler := NewTransferHandler(&transferServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
			captured = input
			return transfer, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        decimal.RequireFromString("300"),
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.FromAccountID != "acc-1" || captured.ToAccountID != "acc-2" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "tr-1" {
		t.Fatalf("expected transfer ID tr-1, got %s", resp.ID)
	}
}

func TestTransferHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
			t.Fatal("CreateTransfer should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransferHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusConflict},
		{"same account", domain.ErrSameAccount, http.StatusBadRequest},
		{"currency mismatch", domain.ErrCurrencyMismatch, http.StatusBadRequest},
		{"destination missing", domain.ErrAccountNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTransferHandler(&transferServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
					return nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.CreateTransferRequest{
				FromAccountID: "acc-1",
				ToAccountID:   "acc-2",
				Amount:        decimal.RequireFromString("300"),
			})

			req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestTransferHandler_Get(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transfer, error) {
			if id != "tr-1" {
				t.Fatalf("expected id tr-1, got %s", id)
			}
			return &domain.Transfer{ID: "tr-1", Amount: decimal.RequireFromString("300")}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transfers/tr-1", nil)
	req = setChiURLParam(req, "id", "tr-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTransferHandler_Get_NotFound(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transfer, error) {
			return nil, domain.ErrTransferNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transfers/tr-1", nil)
	req = setChiURLParam(req, "id", "tr-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransferHandler_ListByAccount(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error) {
			if input.AccountID != "acc-1" || input.Limit != 5 || input.Offset != 2 {
				t.Fatalf("expected acc-1 limit=5 offset=2, got %+v", input)
			}
			return []*domain.Transfer{{ID: "tr-1"}, {ID: "tr-2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/transfers?limit=5&offset=2", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.ListByAccount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListTransfersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(resp.Transfers))
	}
}
