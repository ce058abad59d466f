package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moneta-app/moneta/internal/adapter/http/dto"
	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
)

// TradeService defines the behavior needed by TradeHandler.
type TradeService interface {
	RecordTrade(ctx context.Context, input usecase.RecordTradeInput) (*domain.InvestmentTransaction, error)
	DeleteTrade(ctx context.Context, tradeID string) error
	GetTrade(ctx context.Context, id string) (*domain.InvestmentTransaction, error)
	ListTrades(ctx context.Context, input usecase.ListTradesInput) ([]*domain.InvestmentTransaction, error)
}

// TradeHandler handles investment transaction HTTP requests.
type TradeHandler struct {
	tradeUC TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeUC TradeService) *TradeHandler {
	return &TradeHandler{tradeUC: tradeUC}
}

// Create records a new trade.
func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	trade, err := h.tradeUC.RecordTrade(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record trade", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TradeFromDomain(trade))
}

// Get retrieves a trade by ID.
func (h *TradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trade ID", "")
		return
	}

	trade, err := h.tradeUC.GetTrade(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get trade", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TradeFromDomain(trade))
}

// Delete reverses a trade. Only the most recent trade for a holding can
// be reversed.
func (h *TradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trade ID", "")
		return
	}

	if err := h.tradeUC.DeleteTrade(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete trade", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists trades filtered by account or holding.
func (h *TradeHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListTradesInput{
		AccountID: r.URL.Query().Get("account_id"),
		HoldingID: r.URL.Query().Get("holding_id"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	trades, err := h.tradeUC.ListTrades(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list trades", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTradesResponse{
		Trades: dto.TradesFromDomain(trades),
		Total:  int64(len(trades)),
	})
}
