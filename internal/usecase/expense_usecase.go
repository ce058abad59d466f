package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
)

// ExpenseUseCase coordinates expense recording and reversal across the
// account ledger, the budget tracker and the journal.
type ExpenseUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	budgetRepo  BudgetRepository
	expenseRepo ExpenseRepository
	journalRepo JournalRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	policies    Policies
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	budgetRepo BudgetRepository,
	expenseRepo ExpenseRepository,
	journalRepo JournalRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	policies Policies,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
		journalRepo: journalRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		policies:    policies,
	}
}

// WithRetrier enables retry on transient database conflicts.
func (uc *ExpenseUseCase) WithRetrier(r Retrier) *ExpenseUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables operation metrics.
func (uc *ExpenseUseCase) WithMetrics(m *metrics.Metrics) *ExpenseUseCase {
	uc.metrics = m
	return uc
}

// RecordExpenseInput represents input for recording an expense.
type RecordExpenseInput struct {
	AccountID     string
	BudgetID      *string
	Amount        decimal.Decimal
	Date          time.Time
	Category      string
	Subcategory   string
	Merchant      string
	PaymentMethod string
	Shared        bool
	Participants  []string
	Tags          []string
	Notes         string
}

// RecordExpense debits the account, charges the linked budget if any,
// creates the expense row and appends the journal entry, all in one
// transaction.
func (uc *ExpenseUseCase) RecordExpense(ctx context.Context, input RecordExpenseInput) (*domain.Expense, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.Category == "" {
		return nil, domain.ErrInvalidCategory
	}

	var expense *domain.Expense

	err := uc.retry(ctx, func() error {
		var err error
		expense, err = uc.recordExpense(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesRecorded.Inc()
	}

	return expense, nil
}

func (uc *ExpenseUseCase) recordExpense(ctx context.Context, input RecordExpenseInput) (*domain.Expense, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if !account.Active {
		return nil, domain.ErrAccountInactive
	}

	var budget *domain.Budget
	if input.BudgetID != nil {
		budget, err = uc.budgetRepo.GetByIDForUpdate(txCtx, tx, *input.BudgetID)
		if err != nil {
			return nil, err
		}

		if !budget.EligibleFor(account.ID) {
			return nil, domain.ErrBudgetNotEligible
		}

		if err := budget.LinkExpense(input.Amount, uc.policies.Overspend); err != nil {
			return nil, err
		}
	}

	if err := account.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	expenseDate := input.Date
	if expenseDate.IsZero() {
		expenseDate = now
	}

	expense := &domain.Expense{
		ID:            uc.idGen.Generate(),
		AccountID:     input.AccountID,
		BudgetID:      input.BudgetID,
		Amount:        input.Amount,
		Date:          expenseDate,
		Category:      input.Category,
		Subcategory:   input.Subcategory,
		Merchant:      input.Merchant,
		PaymentMethod: input.PaymentMethod,
		Shared:        input.Shared,
		Participants:  input.Participants,
		Tags:          input.Tags,
		Notes:         input.Notes,
		CreatedAt:     now,
	}

	if err := uc.expenseRepo.Create(txCtx, tx, expense); err != nil {
		return nil, err
	}

	newBalance := account.ApplyDebit(input.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	if budget != nil {
		if err := uc.budgetRepo.UpdateSpent(txCtx, tx, budget.ID, budget.Spent, now); err != nil {
			return nil, err
		}
	}

	entry := &domain.CashFlowEntry{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Kind:         domain.FlowKindExpense,
		Amount:       input.Amount.Neg(),
		BalanceAfter: newBalance,
		ExpenseID:    &expense.ID,
		Description:  "expense: " + input.Category,
		CreatedAt:    now,
	}

	if err := uc.journalRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   expense.ID,
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseRecorded,
			Payload: map[string]any{
				"expense_id": expense.ID,
				"account_id": account.ID,
				"amount":     input.Amount.String(),
				"category":   input.Category,
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

	return expense, nil
}

// DeleteExpense reverses a recorded expense: the account is credited back,
// the linked budget's spent is decremented, the expense row is removed and
// a compensating journal entry is appended. Create-then-delete is a no-op
// on every derived value.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, expenseID string) error {
	err := uc.retry(ctx, func() error {
		return uc.deleteExpense(ctx, expenseID)
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesReversed.Inc()
	}

	return nil
}

func (uc *ExpenseUseCase) deleteExpense(ctx context.Context, expenseID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	expense, err := uc.expenseRepo.GetByID(txCtx, expenseID)
	if err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, expense.AccountID)
	if err != nil {
		return err
	}

	var budget *domain.Budget
	if expense.BudgetID != nil {
		budget, err = uc.budgetRepo.GetByIDForUpdate(txCtx, tx, *expense.BudgetID)
		if err != nil {
			return err
		}

		if err := budget.UnlinkExpense(expense.Amount, uc.policies.UnlinkTerminal); err != nil {
			return err
		}
	}

	now := time.Now().UTC()

	if err := uc.expenseRepo.Delete(txCtx, tx, expense.ID); err != nil {
		return err
	}

	newBalance := account.ApplyCredit(expense.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, now); err != nil {
		return err
	}

	if budget != nil {
		if err := uc.budgetRepo.UpdateSpent(txCtx, tx, budget.ID, budget.Spent, now); err != nil {
			return err
		}
	}

	entry := &domain.CashFlowEntry{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Kind:         domain.FlowKindReversal,
		Amount:       expense.Amount,
		BalanceAfter: newBalance,
		ExpenseID:    &expense.ID,
		Description:  "reversal of expense: " + expense.Category,
		CreatedAt:    now,
	}

	if err := uc.journalRepo.Create(txCtx, tx, entry); err != nil {
		return err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   expense.ID,
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseReversed,
			Payload: map[string]any{
				"expense_id": expense.ID,
				"account_id": account.ID,
				"amount":     expense.Amount.String(),
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}
	}

	return tx.Commit(txCtx)
}

// GetExpense retrieves an expense by ID.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return uc.expenseRepo.GetByID(ctx, id)
}

// ListExpensesInput represents input for listing expenses.
type ListExpensesInput struct {
	AccountID string
	BudgetID  string
	Limit     int
	Offset    int
}

// ListExpenses lists expenses for an account or a budget.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, input ListExpensesInput) ([]*domain.Expense, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if input.BudgetID != "" {
		return uc.expenseRepo.ListByBudget(ctx, input.BudgetID, limit, offset)
	}

	return uc.expenseRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

func (uc *ExpenseUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}
