package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/domain"
)

// SyncLogRepository implements usecase.SyncLogRepository.
type SyncLogRepository struct {
	pool *pgxpool.Pool
}

// NewSyncLogRepository creates a new SyncLogRepository.
func NewSyncLogRepository(pool *pgxpool.Pool) *SyncLogRepository {
	return &SyncLogRepository{pool: pool}
}

// Create records one sync run.
func (r *SyncLogRepository) Create(ctx context.Context, log *domain.MarketSyncLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO market_sync_logs (id, synced_at, holdings_count, failed_symbols, total_value, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.ID,
		timeToPgTimestamptz(log.SyncedAt),
		log.HoldingsCount,
		log.FailedSymbols,
		decimalToNumeric(log.TotalValue),
		string(log.Status),
		log.ErrorMessage,
	)

	return err
}

// List lists sync runs, newest first.
func (r *SyncLogRepository) List(ctx context.Context, limit, offset int) ([]*domain.MarketSyncLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, synced_at, holdings_count, failed_symbols, total_value, status, error_message
		FROM market_sync_logs
		ORDER BY synced_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.MarketSyncLog
	for rows.Next() {
		var (
			l          domain.MarketSyncLog
			syncedAt   pgtype.Timestamptz
			totalValue pgtype.Numeric
			status     string
		)

		if err := rows.Scan(&l.ID, &syncedAt, &l.HoldingsCount, &l.FailedSymbols, &totalValue, &status, &l.ErrorMessage); err != nil {
			return nil, err
		}

		l.SyncedAt = syncedAt.Time
		l.TotalValue = numericToDecimal(totalValue)
		l.Status = domain.SyncStatus(status)
		logs = append(logs, &l)
	}

	return logs, rows.Err()
}
