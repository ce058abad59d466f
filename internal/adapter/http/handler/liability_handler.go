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

// LiabilityService defines the behavior needed by LiabilityHandler.
type LiabilityService interface {
	CreateLiability(ctx context.Context, input usecase.CreateLiabilityInput) (*domain.Liability, error)
	GetLiability(ctx context.Context, id string) (*domain.Liability, error)
	ListLiabilities(ctx context.Context, limit, offset int) ([]*domain.Liability, error)
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.LiabilityPayment, error)
	DeletePayment(ctx context.Context, paymentID string) error
	ListPayments(ctx context.Context, liabilityID string, limit, offset int) ([]*domain.LiabilityPayment, error)
}

// LiabilityHandler handles liability and payment HTTP requests.
type LiabilityHandler struct {
	liabilityUC LiabilityService
}

// NewLiabilityHandler creates a new LiabilityHandler.
func NewLiabilityHandler(liabilityUC LiabilityService) *LiabilityHandler {
	return &LiabilityHandler{liabilityUC: liabilityUC}
}

// Create registers a new liability.
func (h *LiabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLiabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	liability, err := h.liabilityUC.CreateLiability(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create liability", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.LiabilityFromDomain(liability))
}

// Get retrieves a liability by ID.
func (h *LiabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing liability ID", "")
		return
	}

	liability, err := h.liabilityUC.GetLiability(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get liability", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.LiabilityFromDomain(liability))
}

// List lists liabilities.
func (h *LiabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	liabilities, err := h.liabilityUC.ListLiabilities(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list liabilities", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLiabilitiesResponse{
		Liabilities: dto.LiabilitiesFromDomain(liabilities),
		Total:       int64(len(liabilities)),
	})
}

// RecordPayment records a payment against a liability.
func (h *LiabilityHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	liabilityID := chi.URLParam(r, "id")
	if liabilityID == "" {
		writeError(w, http.StatusBadRequest, "missing liability ID", "")
		return
	}

	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment, err := h.liabilityUC.RecordPayment(r.Context(), req.ToUseCaseInput(liabilityID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record payment", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}

// DeletePayment reverses a payment: the account is refunded and the
// liability principal is restored to its pre-payment value.
func (h *LiabilityHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	if err := h.liabilityUC.DeletePayment(r.Context(), paymentID); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete payment", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPayments lists payments for a liability.
func (h *LiabilityHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	liabilityID := chi.URLParam(r, "id")
	if liabilityID == "" {
		writeError(w, http.StatusBadRequest, "missing liability ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	payments, err := h.liabilityUC.ListPayments(r.Context(), liabilityID, limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list payments", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ListPaymentsResponse{
		Payments: dto.PaymentsFromDomain(payments),
		Total:    int64(len(payments)),
	})
}
