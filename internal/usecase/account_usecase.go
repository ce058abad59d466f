package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
)

// AccountUseCase implements account lifecycle and read-side aggregation.
type AccountUseCase struct {
	txManager     TransactionManager
	accountRepo   AccountRepository
	holdingRepo   HoldingRepository
	liabilityRepo LiabilityRepository
	journalRepo   JournalRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	metrics       *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	holdingRepo HoldingRepository,
	liabilityRepo LiabilityRepository,
	journalRepo JournalRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:     txManager,
		accountRepo:   accountRepo,
		holdingRepo:   holdingRepo,
		liabilityRepo: liabilityRepo,
		journalRepo:   journalRepo,
		outboxRepo:    outboxRepo,
		idGen:         idGen,
	}
}

// WithMetrics enables operation metrics.
func (uc *AccountUseCase) WithMetrics(m *metrics.Metrics) *AccountUseCase {
	uc.metrics = m
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name           string
	Kind           domain.AccountKind
	Institution    string
	Currency       string
	OpeningBalance decimal.Decimal
	Notes          string
}

// CreateAccount creates an account. A positive opening balance is recorded
// as the account's first journal entry so that replaying the journal from
// zero always reproduces the stored balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if input.OpeningBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		Name:          input.Name,
		Kind:          input.Kind,
		Institution:   input.Institution,
		Currency:      input.Currency,
		Balance:       input.OpeningBalance,
		HoldingsValue: decimal.Zero,
		Active:        true,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.accountRepo.CreateTx(txCtx, tx, account); err != nil {
		return nil, err
	}

	if input.OpeningBalance.IsPositive() {
		entry := &domain.CashFlowEntry{
			ID:           uc.idGen.Generate(),
			AccountID:    account.ID,
			Kind:         domain.FlowKindInitial,
			Amount:       input.OpeningBalance,
			BalanceAfter: input.OpeningBalance,
			Description:  "opening balance",
			CreatedAt:    now,
		}
		if err := uc.journalRepo.Create(txCtx, tx, entry); err != nil {
			return nil, err
		}
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   account.ID,
			AggregateType: domain.AggregateTypeAccount,
			EventType:     domain.EventTypeAccountCreated,
			Payload: map[string]any{
				"account_id": account.ID,
				"name":       account.Name,
				"kind":       string(account.Kind),
				"currency":   account.Currency,
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// AccountView is an account together with its derived aggregates.
type AccountView struct {
	Account    *domain.Account
	Projection domain.Projection
	Holdings   []*domain.Holding
}

// GetAccount retrieves an account and recomputes its aggregates from the
// live holdings. Stored holdings_value is a sync-refreshed cache and is
// never trusted for the projection.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*AccountView, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	holdings, err := uc.holdingRepo.ListByAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AccountView{
		Account:    account,
		Projection: account.Project(holdings),
		Holdings:   holdings,
	}, nil
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.accountRepo.List(ctx, limit, offset)
}

// DeactivateAccount soft-deletes an account. History stays intact; new
// movements against the account are rejected.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, id string) error {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !account.Active {
		return domain.ErrAccountInactive
	}

	return uc.accountRepo.SetActive(ctx, id, false, time.Now().UTC())
}

// Summary is a point-in-time aggregate across all active accounts and
// liabilities.
type Summary struct {
	TotalAssets      decimal.Decimal
	AvailableCash    decimal.Decimal
	InvestmentValue  decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
	AccountCount     int
}

// GetSummary computes the dashboard totals by projecting every active
// account and subtracting outstanding liability principal.
func (uc *AccountUseCase) GetSummary(ctx context.Context) (*Summary, error) {
	accounts, err := listAll(ctx, uc.accountRepo.List)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalAssets:      decimal.Zero,
		AvailableCash:    decimal.Zero,
		InvestmentValue:  decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}

	for _, account := range accounts {
		if !account.Active {
			continue
		}

		holdings, err := uc.holdingRepo.ListByAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		p := account.Project(holdings)
		summary.TotalAssets = summary.TotalAssets.Add(p.TotalValue)
		summary.AvailableCash = summary.AvailableCash.Add(p.AvailableCash)
		summary.InvestmentValue = summary.InvestmentValue.Add(p.InvestmentValue)
		summary.AccountCount++
	}

	liabilities, err := listAll(ctx, uc.liabilityRepo.List)
	if err != nil {
		return nil, err
	}

	for _, liability := range liabilities {
		summary.TotalLiabilities = summary.TotalLiabilities.Add(liability.OutstandingPrincipal)
	}

	summary.NetWorth = summary.TotalAssets.Sub(summary.TotalLiabilities)

	return summary, nil
}
