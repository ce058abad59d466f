package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository. The table is
// append-only: no update or delete statement exists here.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

const journalColumns = `id, account_id, kind, amount, balance_after, expense_id, transfer_id, trade_id, payment_id, description, created_at`

// Create appends a journal entry within a transaction.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.CashFlowEntry) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO cash_flow_entries (id, account_id, kind, amount, balance_after, expense_id, transfer_id, trade_id, payment_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID,
		entry.AccountID,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.BalanceAfter),
		stringPtrToPgText(entry.ExpenseID),
		stringPtrToPgText(entry.TransferID),
		stringPtrToPgText(entry.TradeID),
		stringPtrToPgText(entry.PaymentID),
		entry.Description,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// ListByAccount lists an account's entries, newest first.
func (r *JournalRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlowEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+journalColumns+`
		FROM cash_flow_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CashFlowEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// SumByAccount folds all signed entry amounts for an account. With no
// entries the sum is zero.
func (r *JournalRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM cash_flow_entries
		WHERE account_id = $1`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanEntry(row pgx.Row) (*domain.CashFlowEntry, error) {
	var (
		e            domain.CashFlowEntry
		kind         string
		amount       pgtype.Numeric
		balanceAfter pgtype.Numeric
		expenseID    pgtype.Text
		transferID   pgtype.Text
		tradeID      pgtype.Text
		paymentID    pgtype.Text
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &e.AccountID, &kind, &amount, &balanceAfter, &expenseID, &transferID, &tradeID, &paymentID, &e.Description, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	e.Kind = domain.FlowKind(kind)
	e.Amount = numericToDecimal(amount)
	e.BalanceAfter = numericToDecimal(balanceAfter)
	e.ExpenseID = pgTextToStringPtr(expenseID)
	e.TransferID = pgTextToStringPtr(transferID)
	e.TradeID = pgTextToStringPtr(tradeID)
	e.PaymentID = pgTextToStringPtr(paymentID)
	e.CreatedAt = createdAt.Time

	return &e, nil
}
