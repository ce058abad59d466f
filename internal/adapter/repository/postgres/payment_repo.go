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

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, liability_id, account_id, amount, principal_before, principal_after, paid_at, notes, created_at`

// Create creates a new payment within a transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.LiabilityPayment) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO liability_payments (id, liability_id, account_id, amount, principal_before, principal_after, paid_at, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		payment.ID,
		payment.LiabilityID,
		payment.AccountID,
		decimalToNumeric(payment.Amount),
		decimalToNumeric(payment.PrincipalBefore),
		decimalToNumeric(payment.PrincipalAfter),
		timeToPgTimestamptz(payment.PaidAt),
		payment.Notes,
		timeToPgTimestamptz(payment.CreatedAt),
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.LiabilityPayment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM liability_payments WHERE id = $1`, id)

	return scanPayment(row)
}

// Delete removes a payment within a transaction.
func (r *PaymentRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx).Exec(ctx, `DELETE FROM liability_payments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLiabilityNotFound
	}

	return nil
}

// ListByLiability lists payments for a liability, newest first.
func (r *PaymentRepository) ListByLiability(ctx context.Context, liabilityID string, limit, offset int) ([]*domain.LiabilityPayment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM liability_payments
		WHERE liability_id = $1
		ORDER BY paid_at DESC, id DESC
		LIMIT $2 OFFSET $3`, liabilityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.LiabilityPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.LiabilityPayment, error) {
	var (
		p               domain.LiabilityPayment
		amount          pgtype.Numeric
		principalBefore pgtype.Numeric
		principalAfter  pgtype.Numeric
		paidAt          pgtype.Timestamptz
		createdAt       pgtype.Timestamptz
	)

	err := row.Scan(&p.ID, &p.LiabilityID, &p.AccountID, &amount, &principalBefore, &principalAfter, &paidAt, &p.Notes, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLiabilityNotFound
		}

		return nil, err
	}

	p.Amount = numericToDecimal(amount)
	p.PrincipalBefore = numericToDecimal(principalBefore)
	p.PrincipalAfter = numericToDecimal(principalAfter)
	p.PaidAt = paidAt.Time
	p.CreatedAt = createdAt.Time

	return &p, nil
}
