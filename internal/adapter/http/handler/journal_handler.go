package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moneta-app/moneta/internal/adapter/http/dto"
	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
)

// JournalService defines the behavior needed by JournalHandler.
type JournalService interface {
	ListEntries(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlowEntry, error)
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.Reconciliation, error)
	ReconcileAll(ctx context.Context) ([]*usecase.Reconciliation, error)
}

// JournalHandler handles cash-flow journal HTTP requests.
type JournalHandler struct {
	journalUC JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC JournalService) *JournalHandler {
	return &JournalHandler{journalUC: journalUC}
}

// ListByAccount lists journal entries for an account.
func (h *JournalHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	entries, err := h.journalUC.ListEntries(r.Context(), accountID,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list journal entries", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// ReconcileAccount replays one account's journal against its stored
// balance.
func (h *JournalHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	rec, err := h.journalUC.ReconcileAccount(r.Context(), accountID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reconcile account", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(rec))
}

// ReconcileAll replays every account's journal. Inconsistent accounts
// come first in the response.
func (h *JournalHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	recs, err := h.journalUC.ReconcileAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reconcile accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationsFromUseCase(recs))
}
