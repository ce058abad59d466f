package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
)

// SyncUseCase refreshes market prices for priceable holdings and records
// one MarketSyncLog row per run. The log is observational: sync never
// mutates quantities or cost basis, only current price, current value and
// the per-account holdings_value cache.
type SyncUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	holdingRepo HoldingRepository
	syncLogRepo SyncLogRepository
	oracle      PriceOracle
	idGen       IDGenerator
	policies    Policies
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewSyncUseCase creates a new SyncUseCase.
func NewSyncUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	holdingRepo HoldingRepository,
	syncLogRepo SyncLogRepository,
	oracle PriceOracle,
	idGen IDGenerator,
	policies Policies,
	logger zerolog.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		holdingRepo: holdingRepo,
		syncLogRepo: syncLogRepo,
		oracle:      oracle,
		idGen:       idGen,
		policies:    policies,
		logger:      logger,
	}
}

// WithMetrics enables operation metrics.
func (uc *SyncUseCase) WithMetrics(m *metrics.Metrics) *SyncUseCase {
	uc.metrics = m
	return uc
}

// SyncPrices refreshes prices for all active priceable holdings, or only
// those of one account when accountID is non-empty. A symbol that fails to
// price is skipped and reported; it never fails the batch. Running sync
// twice with unchanged quotes is a no-op for every stored value.
func (uc *SyncUseCase) SyncPrices(ctx context.Context, accountID string) (*domain.MarketSyncLog, error) {
	start := time.Now().UTC()

	var (
		holdings []*domain.Holding
		err      error
	)
	if accountID != "" {
		holdings, err = uc.holdingRepo.ListByAccount(ctx, accountID)
	} else {
		holdings, err = uc.holdingRepo.ListActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	priceable := make([]*domain.Holding, 0, len(holdings))
	for _, h := range holdings {
		if !h.Active || h.Quantity.IsZero() {
			continue
		}
		if uc.policies.SyncExcludedAssetKinds[h.AssetKind] {
			continue
		}
		priceable = append(priceable, h)
	}

	// Price lookups run outside any database transaction; a slow quote
	// source must not hold row locks.
	prices := make(map[string]decimal.Decimal)
	failed := make(map[string]struct{})

	for _, h := range priceable {
		if _, done := prices[h.Symbol]; done {
			continue
		}
		if _, bad := failed[h.Symbol]; bad {
			continue
		}

		price, err := uc.lookupPrice(ctx, h.Symbol)
		if err != nil {
			uc.logger.Warn().Err(err).Str("symbol", h.Symbol).Msg("price lookup failed")
			failed[h.Symbol] = struct{}{}
			continue
		}

		prices[h.Symbol] = price
	}

	summary, err := uc.applyPrices(ctx, priceable, prices)
	if err != nil {
		return nil, err
	}

	failedSymbols := make([]string, 0, len(failed))
	for s := range failed {
		failedSymbols = append(failedSymbols, s)
	}
	sort.Strings(failedSymbols)

	status := domain.SyncStatusSuccess
	switch {
	case len(failedSymbols) > 0 && summary.Succeeded == 0:
		status = domain.SyncStatusFailed
	case len(failedSymbols) > 0:
		status = domain.SyncStatusPartial
	}

	log := &domain.MarketSyncLog{
		ID:            uc.idGen.Generate(),
		SyncedAt:      start,
		HoldingsCount: summary.Succeeded,
		FailedSymbols: failedSymbols,
		TotalValue:    summary.HoldingsValue,
		Status:        status,
	}

	if err := uc.syncLogRepo.Create(ctx, log); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SyncRuns.WithLabelValues(string(status)).Inc()
		uc.metrics.SyncDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Info().
		Str("status", string(status)).
		Int("holdings", summary.Succeeded).
		Int("failed_symbols", len(failedSymbols)).
		Str("total_value", summary.HoldingsValue.String()).
		Msg("market sync finished")

	return log, nil
}

func (uc *SyncUseCase) lookupPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	timeout := uc.policies.PriceLookupTimeout
	if timeout <= 0 {
		timeout = DefaultPriceLookupTimeout
	}

	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return uc.oracle.GetPrice(lookupCtx, symbol)
}

type syncResult struct {
	Succeeded     int
	HoldingsValue decimal.Decimal
}

// applyPrices writes fetched quotes and refreshes each touched account's
// holdings_value cache in a single transaction.
func (uc *SyncUseCase) applyPrices(ctx context.Context, holdings []*domain.Holding, prices map[string]decimal.Decimal) (*syncResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	result := &syncResult{HoldingsValue: decimal.Zero}
	touched := make(map[string]struct{})

	for _, h := range holdings {
		price, ok := prices[h.Symbol]
		if !ok {
			continue
		}

		h.MarkPrice(price, now)

		// The stored current_value is derived from the row's quantity
		// inside the UPDATE; h.CurrentValue only feeds the sync log total.
		if err := uc.holdingRepo.UpdatePrice(txCtx, tx, h.ID, price, now); err != nil {
			return nil, err
		}

		result.Succeeded++
		result.HoldingsValue = result.HoldingsValue.Add(h.CurrentValue)
		touched[h.AccountID] = struct{}{}
	}

	accountIDs := make([]string, 0, len(touched))
	for id := range touched {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	// The cache sum must run on this transaction: the pool cannot see the
	// price writes above until commit.
	for _, id := range accountIDs {
		value, err := uc.holdingRepo.SumActiveValueByAccount(txCtx, tx, id)
		if err != nil {
			return nil, err
		}

		if err := uc.accountRepo.UpdateHoldingsValue(txCtx, tx, id, value, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return result, nil
}

// ListSyncLogs lists past sync runs, newest first.
func (uc *SyncUseCase) ListSyncLogs(ctx context.Context, limit, offset int) ([]*domain.MarketSyncLog, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.syncLogRepo.List(ctx, limit, offset)
}
