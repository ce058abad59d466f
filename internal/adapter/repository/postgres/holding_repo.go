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

// HoldingRepository implements usecase.HoldingRepository.
type HoldingRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(pool *pgxpool.Pool) *HoldingRepository {
	return &HoldingRepository{pool: pool}
}

const holdingColumns = `id, account_id, symbol, name, asset_kind, market, quantity, avg_cost, total_cost, current_price, current_value, last_sync_at, currency, liquid, active, version, created_at, updated_at`

// Create creates a new holding within a transaction.
func (r *HoldingRepository) Create(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO holdings (id, account_id, symbol, name, asset_kind, market, quantity, avg_cost, total_cost, current_price, current_value, last_sync_at, currency, liquid, active, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		holding.ID,
		holding.AccountID,
		holding.Symbol,
		holding.Name,
		string(holding.AssetKind),
		holding.Market,
		decimalToNumeric(holding.Quantity),
		decimalToNumeric(holding.AvgCost),
		decimalToNumeric(holding.TotalCost),
		decimalToNumeric(holding.CurrentPrice),
		decimalToNumeric(holding.CurrentValue),
		timePtrToPgTimestamptz(holding.LastSyncAt),
		holding.Currency,
		holding.Liquid,
		holding.Active,
		holding.Version,
		timeToPgTimestamptz(holding.CreatedAt),
		timeToPgTimestamptz(holding.UpdatedAt),
	)

	return err
}

// GetByID retrieves a holding by ID.
func (r *HoldingRepository) GetByID(ctx context.Context, id string) (*domain.Holding, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+holdingColumns+` FROM holdings WHERE id = $1`, id)

	return scanHolding(row)
}

// GetByIDForUpdate retrieves a holding by ID with a FOR UPDATE lock.
func (r *HoldingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Holding, error) {
	row := txQuerier(tx).QueryRow(ctx, `SELECT `+holdingColumns+` FROM holdings WHERE id = $1 FOR UPDATE`, id)

	return scanHolding(row)
}

// GetByKeyForUpdate locks the active holding identified by its natural key.
func (r *HoldingRepository) GetByKeyForUpdate(ctx context.Context, tx usecase.Transaction, accountID, symbol string, kind domain.AssetKind, market string) (*domain.Holding, error) {
	row := txQuerier(tx).QueryRow(ctx, `
		SELECT `+holdingColumns+`
		FROM holdings
		WHERE account_id = $1 AND symbol = $2 AND asset_kind = $3 AND market = $4 AND active
		FOR UPDATE`,
		accountID, symbol, string(kind), market)

	return scanHolding(row)
}

// UpdatePosition writes quantity and cost basis after a trade.
func (r *HoldingRepository) UpdatePosition(ctx context.Context, tx usecase.Transaction, id string, quantity, avgCost, totalCost decimal.Decimal, updatedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE holdings
		SET quantity = $2, avg_cost = $3, total_cost = $4, version = version + 1, updated_at = $5
		WHERE id = $1`,
		id,
		decimalToNumeric(quantity),
		decimalToNumeric(avgCost),
		decimalToNumeric(totalCost),
		timeToPgTimestamptz(updatedAt))

	return err
}

// UpdatePrice writes a fresh quote. The market value is computed from the
// row's quantity in the same statement, never from a quantity read earlier.
func (r *HoldingRepository) UpdatePrice(ctx context.Context, tx usecase.Transaction, id string, price decimal.Decimal, syncedAt time.Time) error {
	_, err := txQuerier(tx).Exec(ctx, `
		UPDATE holdings
		SET current_price = $2, current_value = quantity * $2, last_sync_at = $3, updated_at = $3
		WHERE id = $1`,
		id,
		decimalToNumeric(price),
		timeToPgTimestamptz(syncedAt))

	return err
}

// ListByAccount lists all of an account's holdings.
func (r *HoldingRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+holdingColumns+`
		FROM holdings
		WHERE account_id = $1
		ORDER BY symbol`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHoldings(rows)
}

// SumActiveValueByAccount sums current_value over an account's active
// holdings on the caller's transaction, so price writes from the same
// transaction are visible.
func (r *HoldingRepository) SumActiveValueByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := txQuerier(tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(current_value), 0)
		FROM holdings
		WHERE account_id = $1 AND active`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// ListActive lists every active holding across all accounts.
func (r *HoldingRepository) ListActive(ctx context.Context) ([]*domain.Holding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+holdingColumns+`
		FROM holdings
		WHERE active
		ORDER BY account_id, symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHoldings(rows)
}

func scanHoldings(rows pgx.Rows) ([]*domain.Holding, error) {
	var holdings []*domain.Holding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}

	return holdings, rows.Err()
}

func scanHolding(row pgx.Row) (*domain.Holding, error) {
	var (
		h            domain.Holding
		assetKind    string
		quantity     pgtype.Numeric
		avgCost      pgtype.Numeric
		totalCost    pgtype.Numeric
		currentPrice pgtype.Numeric
		currentValue pgtype.Numeric
		lastSyncAt   pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(&h.ID, &h.AccountID, &h.Symbol, &h.Name, &assetKind, &h.Market, &quantity, &avgCost, &totalCost, &currentPrice, &currentValue, &lastSyncAt, &h.Currency, &h.Liquid, &h.Active, &h.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHoldingNotFound
		}

		return nil, err
	}

	h.AssetKind = domain.AssetKind(assetKind)
	h.Quantity = numericToDecimal(quantity)
	h.AvgCost = numericToDecimal(avgCost)
	h.TotalCost = numericToDecimal(totalCost)
	h.CurrentPrice = numericToDecimal(currentPrice)
	h.CurrentValue = numericToDecimal(currentValue)
	h.LastSyncAt = pgTimestamptzToTimePtr(lastSyncAt)
	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return &h, nil
}
