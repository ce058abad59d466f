package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// JournalUseCase serves the append-only cash-flow journal and replays it
// for reconciliation.
type JournalUseCase struct {
	accountRepo AccountRepository
	journalRepo JournalRepository
	logger      zerolog.Logger
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(accountRepo AccountRepository, journalRepo JournalRepository, logger zerolog.Logger) *JournalUseCase {
	return &JournalUseCase{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// ListEntries lists an account's journal entries, newest first.
func (uc *JournalUseCase) ListEntries(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlowEntry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.journalRepo.ListByAccount(ctx, accountID, limit, offset)
}

// Reconciliation compares an account's stored balance against the sum of
// its journal entries.
type Reconciliation struct {
	AccountID      string
	StoredBalance  decimal.Decimal
	JournalBalance decimal.Decimal
	Drift          decimal.Decimal
	Consistent     bool
}

// ReconcileAccount replays the account's journal from zero and reports any
// drift from the stored balance. Drift means a bug or out-of-band data
// change; the engine itself never produces one.
func (uc *JournalUseCase) ReconcileAccount(ctx context.Context, accountID string) (*Reconciliation, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sum, err := uc.journalRepo.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	rec := &Reconciliation{
		AccountID:      accountID,
		StoredBalance:  account.Balance,
		JournalBalance: sum,
		Drift:          account.Balance.Sub(sum),
		Consistent:     account.Balance.Equal(sum),
	}

	if !rec.Consistent {
		uc.logger.Error().
			Str("account_id", accountID).
			Str("stored", rec.StoredBalance.String()).
			Str("journal", rec.JournalBalance.String()).
			Str("drift", rec.Drift.String()).
			Msg("journal reconciliation drift")
	}

	return rec, nil
}

// ReconcileAll reconciles every account and returns the per-account
// reports, inconsistent accounts first.
func (uc *JournalUseCase) ReconcileAll(ctx context.Context) ([]*Reconciliation, error) {
	accounts, err := listAll(ctx, uc.accountRepo.List)
	if err != nil {
		return nil, err
	}

	var bad, good []*Reconciliation
	for _, account := range accounts {
		rec, err := uc.ReconcileAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		if rec.Consistent {
			good = append(good, rec)
		} else {
			bad = append(bad, rec)
		}
	}

	return append(bad, good...), nil
}
