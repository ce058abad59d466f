package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
)

// BudgetUseCase implements budget lifecycle. Spending against a budget goes
// through ExpenseUseCase; this type only creates budgets and moves them
// between statuses.
type BudgetUseCase struct {
	txManager  TransactionManager
	budgetRepo BudgetRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(
	txManager TransactionManager,
	budgetRepo BudgetRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *BudgetUseCase {
	return &BudgetUseCase{
		txManager:  txManager,
		budgetRepo: budgetRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// WithMetrics enables operation metrics.
func (uc *BudgetUseCase) WithMetrics(m *metrics.Metrics) *BudgetUseCase {
	uc.metrics = m
	return uc
}

// CreateBudgetInput represents input for creating a budget.
type CreateBudgetInput struct {
	Name               string
	Kind               domain.BudgetKind
	Allocated          decimal.Decimal
	Currency           string
	PeriodStart        time.Time
	PeriodEnd          time.Time
	EligibleAccountIDs []string
	Notes              string
}

// CreateBudget creates an active budget with zero spent.
func (uc *BudgetUseCase) CreateBudget(ctx context.Context, input CreateBudgetInput) (*domain.Budget, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Allocated); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	budget := &domain.Budget{
		ID:                 uc.idGen.Generate(),
		Name:               input.Name,
		Kind:               input.Kind,
		Status:             domain.BudgetStatusActive,
		Allocated:          input.Allocated,
		Spent:              decimal.Zero,
		Currency:           input.Currency,
		PeriodStart:        input.PeriodStart,
		PeriodEnd:          input.PeriodEnd,
		EligibleAccountIDs: input.EligibleAccountIDs,
		Notes:              input.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.budgetRepo.Create(ctx, budget); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BudgetsCreated.Inc()
	}

	return budget, nil
}

// GetBudget retrieves a budget by ID.
func (uc *BudgetUseCase) GetBudget(ctx context.Context, id string) (*domain.Budget, error) {
	return uc.budgetRepo.GetByID(ctx, id)
}

// ListBudgets lists budgets with pagination.
func (uc *BudgetUseCase) ListBudgets(ctx context.Context, limit, offset int) ([]*domain.Budget, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.budgetRepo.List(ctx, limit, offset)
}

// CompleteBudget transitions an active budget to completed. Completion is
// terminal for new spending; whether reversals may still touch the budget
// is a policy decision owned by ExpenseUseCase.
func (uc *BudgetUseCase) CompleteBudget(ctx context.Context, id string) (*domain.Budget, error) {
	return uc.transition(ctx, id, domain.EventTypeBudgetCompleted, func(b *domain.Budget) error {
		return b.Complete()
	})
}

// CancelBudget transitions an active budget to cancelled.
func (uc *BudgetUseCase) CancelBudget(ctx context.Context, id string) (*domain.Budget, error) {
	return uc.transition(ctx, id, domain.EventTypeBudgetCancelled, func(b *domain.Budget) error {
		return b.Cancel()
	})
}

func (uc *BudgetUseCase) transition(ctx context.Context, id, eventType string, apply func(*domain.Budget) error) (*domain.Budget, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	budget, err := uc.budgetRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(budget); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	budget.UpdatedAt = now

	if err := uc.budgetRepo.UpdateStatus(txCtx, tx, budget.ID, budget.Status, now); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   budget.ID,
			AggregateType: domain.AggregateTypeBudget,
			EventType:     eventType,
			Payload: map[string]any{
				"budget_id": budget.ID,
				"status":    string(budget.Status),
				"spent":     budget.Spent.String(),
				"remaining": budget.Remaining().String(),
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return budget, nil
}
