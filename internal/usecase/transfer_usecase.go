package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
)

// TransferUseCase handles cash movement between two accounts.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	journalRepo  JournalRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	journalRepo JournalRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		journalRepo:  journalRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// WithRetrier enables retry on transient database conflicts.
func (uc *TransferUseCase) WithRetrier(r Retrier) *TransferUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables operation metrics.
func (uc *TransferUseCase) WithMetrics(m *metrics.Metrics) *TransferUseCase {
	uc.metrics = m
	return uc
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Notes         string
	EventAt       *time.Time
}

// CreateTransfer moves amount between two account balances as one unit:
// either both sides commit or neither does.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	var transfer *domain.Transfer

	err := uc.retry(ctx, func() error {
		var err error
		transfer, err = uc.createTransfer(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
	}

	return transfer, nil
}

func (uc *TransferUseCase) createTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock both accounts in sorted order to avoid deadlocks.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return nil, err
	}

	if len(accounts) != 2 {
		return nil, domain.ErrAccountNotFound
	}

	var from, to *domain.Account
	for _, a := range accounts {
		switch a.ID {
		case input.FromAccountID:
			from = a
		case input.ToAccountID:
			to = a
		}
	}

	if from == nil || to == nil {
		return nil, domain.ErrAccountNotFound
	}

	if !from.Active || !to.Active {
		return nil, domain.ErrAccountInactive
	}

	if from.Currency != to.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	if err := from.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	eventAt := now
	if input.EventAt != nil {
		eventAt = *input.EventAt
	}

	transfer := &domain.Transfer{
		ID:            uc.idGen.Generate(),
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
		Notes:         input.Notes,
		CreatedAt:     now,
		EventAt:       eventAt,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.Create(txCtx, tx, transfer); err != nil {
		return nil, err
	}

	fromBalance := from.ApplyDebit(input.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, from.ID, fromBalance, now); err != nil {
		return nil, err
	}

	fromEntry := &domain.CashFlowEntry{
		ID:           uc.idGen.Generate(),
		AccountID:    from.ID,
		Kind:         domain.FlowKindTransfer,
		Amount:       input.Amount.Neg(),
		BalanceAfter: fromBalance,
		TransferID:   &transfer.ID,
		Description:  "transfer to " + to.Name,
		CreatedAt:    now,
	}

	if err := uc.journalRepo.Create(txCtx, tx, fromEntry); err != nil {
		return nil, err
	}

	toBalance := to.ApplyCredit(input.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, to.ID, toBalance, now); err != nil {
		return nil, err
	}

	toEntry := &domain.CashFlowEntry{
		ID:           uc.idGen.Generate(),
		AccountID:    to.ID,
		Kind:         domain.FlowKindTransfer,
		Amount:       input.Amount,
		BalanceAfter: toBalance,
		TransferID:   &transfer.ID,
		Description:  "transfer from " + from.Name,
		CreatedAt:    now,
	}

	if err := uc.journalRepo.Create(txCtx, tx, toEntry); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   transfer.ID,
			AggregateType: domain.AggregateTypeTransfer,
			EventType:     domain.EventTypeTransferCreated,
			Payload: map[string]any{
				"transfer_id":     transfer.ID,
				"from_account_id": from.ID,
				"to_account_id":   to.ID,
				"amount":          input.Amount.String(),
				"currency":        from.Currency,
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

	return transfer, nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersByAccountInput represents input for listing transfers.
type ListTransfersByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransfersByAccount lists transfers touching an account.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, input ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transferRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

func (uc *TransferUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}
