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

// BudgetService defines the behavior needed by BudgetHandler.
type BudgetService interface {
	CreateBudget(ctx context.Context, input usecase.CreateBudgetInput) (*domain.Budget, error)
	GetBudget(ctx context.Context, id string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, limit, offset int) ([]*domain.Budget, error)
	CompleteBudget(ctx context.Context, id string) (*domain.Budget, error)
	CancelBudget(ctx context.Context, id string) (*domain.Budget, error)
}

// BudgetHandler handles budget-related HTTP requests.
type BudgetHandler struct {
	budgetUC BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUC BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetUC: budgetUC}
}

// Create creates a new budget.
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	budget, err := h.budgetUC.CreateBudget(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create budget", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.BudgetFromDomain(budget))
}

// Get retrieves a budget by ID.
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	budget, err := h.budgetUC.GetBudget(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get budget", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromDomain(budget))
}

// List lists budgets.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	budgets, err := h.budgetUC.ListBudgets(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list budgets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBudgetsResponse{
		Budgets: dto.BudgetsFromDomain(budgets),
		Total:   int64(len(budgets)),
	})
}

// Complete marks a budget completed.
func (h *BudgetHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.budgetUC.CompleteBudget)
}

// Cancel marks a budget cancelled.
func (h *BudgetHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.budgetUC.CancelBudget)
}

func (h *BudgetHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*domain.Budget, error)) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing budget ID", "")
		return
	}

	budget, err := fn(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update budget status", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromDomain(budget))
}
