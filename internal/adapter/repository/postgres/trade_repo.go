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

// TradeRepository implements usecase.TradeRepository.
type TradeRepository struct {
	pool *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository.
func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

const tradeColumns = `id, account_id, holding_id, kind, symbol, quantity, price, fees, cash_amount, prev_quantity, prev_avg_cost, prev_total_cost, trade_date, currency, notes, created_at`

// Create creates a new trade within a transaction.
func (r *TradeRepository) Create(ctx context.Context, tx usecase.Transaction, trade *domain.InvestmentTransaction) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO investment_transactions (id, account_id, holding_id, kind, symbol, quantity, price, fees, cash_amount, prev_quantity, prev_avg_cost, prev_total_cost, trade_date, currency, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		trade.ID,
		trade.AccountID,
		nullIfEmpty(trade.HoldingID),
		string(trade.Kind),
		trade.Symbol,
		decimalToNumeric(trade.Quantity),
		decimalToNumeric(trade.Price),
		decimalToNumeric(trade.Fees),
		decimalToNumeric(trade.CashAmount),
		decimalToNumeric(trade.PrevQuantity),
		decimalToNumeric(trade.PrevAvgCost),
		decimalToNumeric(trade.PrevTotalCost),
		timeToPgTimestamptz(trade.TradeDate),
		trade.Currency,
		trade.Notes,
		timeToPgTimestamptz(trade.CreatedAt),
	)

	return err
}

// GetByID retrieves a trade by ID.
func (r *TradeRepository) GetByID(ctx context.Context, id string) (*domain.InvestmentTransaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tradeColumns+` FROM investment_transactions WHERE id = $1`, id)

	return scanTrade(row)
}

// GetLatestForHolding returns the most recently created trade for a
// holding. Reversal is only safe in LIFO order; this is how the caller
// enforces it.
func (r *TradeRepository) GetLatestForHolding(ctx context.Context, tx usecase.Transaction, holdingID string) (*domain.InvestmentTransaction, error) {
	row := txQuerier(tx).QueryRow(ctx, `
		SELECT `+tradeColumns+`
		FROM investment_transactions
		WHERE holding_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, holdingID)

	return scanTrade(row)
}

// Delete removes a trade within a transaction.
func (r *TradeRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx).Exec(ctx, `DELETE FROM investment_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTradeNotFound
	}

	return nil
}

// ListByAccount lists an account's trades, newest first.
func (r *TradeRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.InvestmentTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM investment_transactions
		WHERE account_id = $1
		ORDER BY trade_date DESC, id DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

// ListByHolding lists a holding's trades, newest first.
func (r *TradeRepository) ListByHolding(ctx context.Context, holdingID string, limit, offset int) ([]*domain.InvestmentTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM investment_transactions
		WHERE holding_id = $1
		ORDER BY trade_date DESC, id DESC
		LIMIT $2 OFFSET $3`, holdingID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrades(rows)
}

func scanTrades(rows pgx.Rows) ([]*domain.InvestmentTransaction, error) {
	var trades []*domain.InvestmentTransaction
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

func scanTrade(row pgx.Row) (*domain.InvestmentTransaction, error) {
	var (
		t             domain.InvestmentTransaction
		holdingID     pgtype.Text
		kind          string
		quantity      pgtype.Numeric
		price         pgtype.Numeric
		fees          pgtype.Numeric
		cashAmount    pgtype.Numeric
		prevQuantity  pgtype.Numeric
		prevAvgCost   pgtype.Numeric
		prevTotalCost pgtype.Numeric
		tradeDate     pgtype.Timestamptz
		createdAt     pgtype.Timestamptz
	)

	err := row.Scan(&t.ID, &t.AccountID, &holdingID, &kind, &t.Symbol, &quantity, &price, &fees, &cashAmount, &prevQuantity, &prevAvgCost, &prevTotalCost, &tradeDate, &t.Currency, &t.Notes, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTradeNotFound
		}

		return nil, err
	}

	if holdingID.Valid {
		t.HoldingID = holdingID.String
	}
	t.Kind = domain.TradeKind(kind)
	t.Quantity = numericToDecimal(quantity)
	t.Price = numericToDecimal(price)
	t.Fees = numericToDecimal(fees)
	t.CashAmount = numericToDecimal(cashAmount)
	t.PrevQuantity = numericToDecimal(prevQuantity)
	t.PrevAvgCost = numericToDecimal(prevAvgCost)
	t.PrevTotalCost = numericToDecimal(prevTotalCost)
	t.TradeDate = tradeDate.Time
	t.CreatedAt = createdAt.Time

	return &t, nil
}

func nullIfEmpty(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}

	return pgtype.Text{String: s, Valid: true}
}
