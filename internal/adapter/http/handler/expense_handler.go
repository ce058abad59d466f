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

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	RecordExpense(ctx context.Context, input usecase.RecordExpenseInput) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.Expense, error)
}

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

// Create records a new expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.RecordExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record expense", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// Get retrieves an expense by ID.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	expense, err := h.expenseUC.GetExpense(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get expense", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// Delete reverses an expense: the account is refunded and any linked
// budget is credited back.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	if err := h.expenseUC.DeleteExpense(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete expense", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists expenses filtered by account or budget.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListExpensesInput{
		AccountID: r.URL.Query().Get("account_id"),
		BudgetID:  r.URL.Query().Get("budget_id"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	expenses, err := h.expenseUC.ListExpenses(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListExpensesResponse{
		Expenses: dto.ExpensesFromDomain(expenses),
		Total:    int64(len(expenses)),
	})
}
