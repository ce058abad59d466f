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

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, name, kind, institution, currency, balance, holdings_value, version, active, notes, created_at, updated_at`

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.create(ctx, r.pool, account)
}

// CreateTx creates a new account within a transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return r.create(ctx, txQuerier(tx), account)
}

func (r *AccountRepository) create(ctx context.Context, q querier, account *domain.Account) error {
	_, err := q.Exec(ctx, `
		INSERT INTO accounts (id, name, kind, institution, currency, balance, holdings_value, version, active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		account.ID,
		account.Name,
		string(account.Kind),
		account.Institution,
		account.Currency,
		decimalToNumeric(account.Balance),
		decimalToNumeric(account.HoldingsValue),
		account.Version,
		account.Active,
		account.Notes,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)

	return scanAccount(row)
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row := txQuerier(tx).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)

	return scanAccount(row)
}

// GetByIDsForUpdate retrieves multiple accounts with FOR UPDATE locks.
// Rows lock in the given order; callers sort IDs to avoid deadlocks.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	rows, err := txQuerier(tx).Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE accounts
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE id = $1`,
		id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// UpdateHoldingsValue refreshes the cached market value of an account's
// holdings.
func (r *AccountRepository) UpdateHoldingsValue(ctx context.Context, tx usecase.Transaction, id string, value decimal.Decimal, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE accounts
		SET holdings_value = $2, updated_at = $3
		WHERE id = $1`,
		id, decimalToNumeric(value), timeToPgTimestamptz(updatedAt))

	return err
}

// SetActive toggles the soft-delete flag.
func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET active = $2, updated_at = $3
		WHERE id = $1`,
		id, active, timeToPgTimestamptz(updatedAt))

	return err
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a         domain.Account
		kind      string
		balance   pgtype.Numeric
		holdings  pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&a.ID, &a.Name, &kind, &a.Institution, &a.Currency, &balance, &holdings, &a.Version, &a.Active, &a.Notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	a.Kind = domain.AccountKind(kind)
	a.Balance = numericToDecimal(balance)
	a.HoldingsValue = numericToDecimal(holdings)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}
