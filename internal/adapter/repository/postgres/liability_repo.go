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

// LiabilityRepository implements usecase.LiabilityRepository.
type LiabilityRepository struct {
	pool *pgxpool.Pool
}

// NewLiabilityRepository creates a new LiabilityRepository.
func NewLiabilityRepository(pool *pgxpool.Pool) *LiabilityRepository {
	return &LiabilityRepository{pool: pool}
}

const liabilityColumns = `id, name, kind, original_principal, outstanding_principal, currency, active, notes, version, created_at, updated_at`

// Create creates a new liability.
func (r *LiabilityRepository) Create(ctx context.Context, liability *domain.Liability) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO liabilities (id, name, kind, original_principal, outstanding_principal, currency, active, notes, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		liability.ID,
		liability.Name,
		liability.Kind,
		decimalToNumeric(liability.OriginalPrincipal),
		decimalToNumeric(liability.OutstandingPrincipal),
		liability.Currency,
		liability.Active,
		liability.Notes,
		liability.Version,
		timeToPgTimestamptz(liability.CreatedAt),
		timeToPgTimestamptz(liability.UpdatedAt),
	)

	return err
}

// GetByID retrieves a liability by ID.
func (r *LiabilityRepository) GetByID(ctx context.Context, id string) (*domain.Liability, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+liabilityColumns+` FROM liabilities WHERE id = $1`, id)

	return scanLiability(row)
}

// GetByIDForUpdate retrieves a liability by ID with a FOR UPDATE lock.
func (r *LiabilityRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Liability, error) {
	row := txQuerier(tx).QueryRow(ctx, `SELECT `+liabilityColumns+` FROM liabilities WHERE id = $1 FOR UPDATE`, id)

	return scanLiability(row)
}

// UpdatePrincipal writes the outstanding principal after a payment or its
// reversal.
func (r *LiabilityRepository) UpdatePrincipal(ctx context.Context, tx usecase.Transaction, id string, principal decimal.Decimal, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE liabilities
		SET outstanding_principal = $2, version = version + 1, updated_at = $3
		WHERE id = $1`,
		id, decimalToNumeric(principal), timeToPgTimestamptz(updatedAt))

	return err
}

// List lists liabilities with pagination.
func (r *LiabilityRepository) List(ctx context.Context, limit, offset int) ([]*domain.Liability, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+liabilityColumns+`
		FROM liabilities
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var liabilities []*domain.Liability
	for rows.Next() {
		l, err := scanLiability(rows)
		if err != nil {
			return nil, err
		}
		liabilities = append(liabilities, l)
	}

	return liabilities, rows.Err()
}

func scanLiability(row pgx.Row) (*domain.Liability, error) {
	var (
		l           domain.Liability
		original    pgtype.Numeric
		outstanding pgtype.Numeric
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(&l.ID, &l.Name, &l.Kind, &original, &outstanding, &l.Currency, &l.Active, &l.Notes, &l.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLiabilityNotFound
		}

		return nil, err
	}

	l.OriginalPrincipal = numericToDecimal(original)
	l.OutstandingPrincipal = numericToDecimal(outstanding)
	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time

	return &l, nil
}
