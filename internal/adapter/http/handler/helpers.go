package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/moneta-app/moneta/internal/adapter/http/dto"
	"github.com/moneta-app/moneta/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrBudgetNotFound),
		errors.Is(err, domain.ErrHoldingNotFound),
		errors.Is(err, domain.ErrTradeNotFound),
		errors.Is(err, domain.ErrLiabilityNotFound),
		errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrTransferNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientHoldingQuantity),
		errors.Is(err, domain.ErrBudgetExceeded),
		errors.Is(err, domain.ErrOverpayment),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrTradeNotLatest),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrBudgetNotActive),
		errors.Is(err, domain.ErrBudgetNotEligible):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrAmountTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
