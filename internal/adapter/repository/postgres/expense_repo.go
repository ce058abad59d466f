package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, account_id, budget_id, amount, date, category, subcategory, merchant, payment_method, shared, participants, tags, notes, created_at`

// Create creates a new expense within a transaction.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO expenses (id, account_id, budget_id, amount, date, category, subcategory, merchant, payment_method, shared, participants, tags, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		expense.ID,
		expense.AccountID,
		expense.BudgetID,
		decimalToNumeric(expense.Amount),
		timeToPgTimestamptz(expense.Date),
		expense.Category,
		expense.Subcategory,
		expense.Merchant,
		expense.PaymentMethod,
		expense.Shared,
		expense.Participants,
		expense.Tags,
		expense.Notes,
		timeToPgTimestamptz(expense.CreatedAt),
	)

	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)

	return scanExpense(row)
}

// Delete removes an expense within a transaction.
func (r *ExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx).Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

// ListByAccount lists an account's expenses, newest first.
func (r *ExpenseRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE account_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListByBudget lists the expenses linked to a budget, newest first.
func (r *ExpenseRepository) ListByBudget(ctx context.Context, budgetID string, limit, offset int) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE budget_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`, budgetID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func scanExpenses(rows pgx.Rows) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e         domain.Expense
		budgetID  pgtype.Text
		amount    pgtype.Numeric
		date      pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &e.AccountID, &budgetID, &amount, &date, &e.Category, &e.Subcategory, &e.Merchant, &e.PaymentMethod, &e.Shared, &e.Participants, &e.Tags, &e.Notes, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	e.BudgetID = pgTextToStringPtr(budgetID)
	e.Amount = numericToDecimal(amount)
	e.Date = date.Time
	e.CreatedAt = createdAt.Time

	return &e, nil
}
