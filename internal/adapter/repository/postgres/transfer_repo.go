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

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

const transferColumns = `id, from_account_id, to_account_id, amount, notes, created_at, event_at`

// Create creates a new transfer within a transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO transfers (id, from_account_id, to_account_id, amount, notes, created_at, event_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		transfer.ID,
		transfer.FromAccountID,
		transfer.ToAccountID,
		decimalToNumeric(transfer.Amount),
		transfer.Notes,
		timeToPgTimestamptz(transfer.CreatedAt),
		timeToPgTimestamptz(transfer.EventAt),
	)

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)

	return scanTransfer(row)
}

// ListByAccount lists transfers touching an account, newest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY event_at DESC, id DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		t         domain.Transfer
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
		eventAt   pgtype.Timestamptz
	)

	err := row.Scan(&t.ID, &t.FromAccountID, &t.ToAccountID, &amount, &t.Notes, &createdAt, &eventAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	t.Amount = numericToDecimal(amount)
	t.CreatedAt = createdAt.Time
	t.EventAt = eventAt.Time

	return &t, nil
}
