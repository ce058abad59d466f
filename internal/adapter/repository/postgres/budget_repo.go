package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
)

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, name, kind, allocated, spent, currency, period_start, period_end, status, eligible_account_ids, notes, version, created_at, updated_at`

// Create creates a new budget.
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO budgets (id, name, kind, allocated, spent, currency, period_start, period_end, status, eligible_account_ids, notes, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		budget.ID,
		budget.Name,
		string(budget.Kind),
		decimalToNumeric(budget.Allocated),
		decimalToNumeric(budget.Spent),
		budget.Currency,
		timeToPgTimestamptz(budget.PeriodStart),
		timeToPgTimestamptz(budget.PeriodEnd),
		string(budget.Status),
		budget.EligibleAccountIDs,
		budget.Notes,
		budget.Version,
		timeToPgTimestamptz(budget.CreatedAt),
		timeToPgTimestamptz(budget.UpdatedAt),
	)

	return err
}

// GetByID retrieves a budget by ID.
func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)

	return scanBudget(row)
}

// GetByIDForUpdate retrieves a budget by ID with a FOR UPDATE lock.
func (r *BudgetRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Budget, error) {
	row := txQuerier(tx).QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1 FOR UPDATE`, id)

	return scanBudget(row)
}

// UpdateSpent writes the running spent total.
func (r *BudgetRepository) UpdateSpent(ctx context.Context, tx usecase.Transaction, id string, spent decimal.Decimal, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE budgets
		SET spent = $2, version = version + 1, updated_at = $3
		WHERE id = $1`,
		id, decimalToNumeric(spent), timeToPgTimestamptz(updatedAt))

	return err
}

// UpdateStatus moves the budget between lifecycle states.
func (r *BudgetRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.BudgetStatus, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE budgets
		SET status = $2, version = version + 1, updated_at = $3
		WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt))

	return err
}

// List lists budgets with pagination.
func (r *BudgetRepository) List(ctx context.Context, limit, offset int) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}

	return budgets, rows.Err()
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b           domain.Budget
		kind        string
		status      string
		allocated   pgtype.Numeric
		spent       pgtype.Numeric
		periodStart pgtype.Timestamptz
		periodEnd   pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(&b.ID, &b.Name, &kind, &allocated, &spent, &b.Currency, &periodStart, &periodEnd, &status, &b.EligibleAccountIDs, &b.Notes, &b.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}

		return nil, err
	}

	b.Kind = domain.BudgetKind(kind)
	b.Status = domain.BudgetStatus(status)
	b.Allocated = numericToDecimal(allocated)
	b.Spent = numericToDecimal(spent)
	b.PeriodStart = periodStart.Time
	b.PeriodEnd = periodEnd.Time
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
