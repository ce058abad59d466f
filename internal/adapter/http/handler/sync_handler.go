package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/moneta-app/moneta/internal/adapter/http/dto"
	"github.com/moneta-app/moneta/internal/domain"
)

// SyncService defines the behavior needed by SyncHandler.
type SyncService interface {
	SyncPrices(ctx context.Context, accountID string) (*domain.MarketSyncLog, error)
	ListSyncLogs(ctx context.Context, limit, offset int) ([]*domain.MarketSyncLog, error)
}

// SyncHandler handles market price refresh HTTP requests.
type SyncHandler struct {
	syncUC SyncService
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncUC SyncService) *SyncHandler {
	return &SyncHandler{syncUC: syncUC}
}

// Sync refreshes market prices for all active holdings, or for one
// account when the body names it. The body is optional.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req dto.SyncPricesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	logEntry, err := h.syncUC.SyncPrices(r.Context(), req.AccountID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to sync prices", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SyncLogFromDomain(logEntry))
}

// ListLogs lists past sync runs, most recent first.
func (h *SyncHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	logs, err := h.syncUC.ListSyncLogs(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sync logs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListSyncLogsResponse{
		Logs:  dto.SyncLogsFromDomain(logs),
		Total: int64(len(logs)),
	})
}
