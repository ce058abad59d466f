package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
)

// LiabilityUseCase tracks outstanding debts and principal payments funded
// from cash accounts.
type LiabilityUseCase struct {
	txManager     TransactionManager
	accountRepo   AccountRepository
	liabilityRepo LiabilityRepository
	paymentRepo   PaymentRepository
	journalRepo   JournalRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	policies      Policies
	retrier       Retrier
	metrics       *metrics.Metrics
}

// NewLiabilityUseCase creates a new LiabilityUseCase.
func NewLiabilityUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	liabilityRepo LiabilityRepository,
	paymentRepo PaymentRepository,
	journalRepo JournalRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	policies Policies,
) *LiabilityUseCase {
	return &LiabilityUseCase{
		txManager:     txManager,
		accountRepo:   accountRepo,
		liabilityRepo: liabilityRepo,
		paymentRepo:   paymentRepo,
		journalRepo:   journalRepo,
		outboxRepo:    outboxRepo,
		idGen:         idGen,
		policies:      policies,
	}
}

// WithRetrier enables retry on transient database conflicts.
func (uc *LiabilityUseCase) WithRetrier(r Retrier) *LiabilityUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables operation metrics.
func (uc *LiabilityUseCase) WithMetrics(m *metrics.Metrics) *LiabilityUseCase {
	uc.metrics = m
	return uc
}

// CreateLiabilityInput represents input for creating a liability.
type CreateLiabilityInput struct {
	Name      string
	Kind      string
	Principal decimal.Decimal
	Currency  string
	Notes     string
}

// CreateLiability registers a debt with its full principal outstanding.
func (uc *LiabilityUseCase) CreateLiability(ctx context.Context, input CreateLiabilityInput) (*domain.Liability, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Principal); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	liability := &domain.Liability{
		ID:                   uc.idGen.Generate(),
		Name:                 input.Name,
		Kind:                 input.Kind,
		OriginalPrincipal:    input.Principal,
		OutstandingPrincipal: input.Principal,
		Currency:             input.Currency,
		Active:               true,
		Notes:                input.Notes,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := uc.liabilityRepo.Create(ctx, liability); err != nil {
		return nil, err
	}

	return liability, nil
}

// RecordPaymentInput represents input for recording a liability payment.
type RecordPaymentInput struct {
	LiabilityID string
	AccountID   string
	Amount      decimal.Decimal
	PaidAt      time.Time
	Notes       string
}

// RecordPayment debits the funding account by the full amount, reduces the
// liability principal per the overpayment policy, and journals the debit,
// atomically.
func (uc *LiabilityUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.LiabilityPayment, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var payment *domain.LiabilityPayment

	err := uc.retry(ctx, func() error {
		var err error
		payment, err = uc.recordPayment(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.Inc()
	}

	return payment, nil
}

func (uc *LiabilityUseCase) recordPayment(ctx context.Context, input RecordPaymentInput) (*domain.LiabilityPayment, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if !account.Active {
		return nil, domain.ErrAccountInactive
	}

	liability, err := uc.liabilityRepo.GetByIDForUpdate(txCtx, tx, input.LiabilityID)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	principalBefore := liability.OutstandingPrincipal

	principalAfter, err := liability.ApplyPayment(input.Amount, uc.policies.Overpayment)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}

	payment := &domain.LiabilityPayment{
		ID:              uc.idGen.Generate(),
		LiabilityID:     liability.ID,
		AccountID:       account.ID,
		Amount:          input.Amount,
		PrincipalBefore: principalBefore,
		PrincipalAfter:  principalAfter,
		PaidAt:          paidAt,
		Notes:           input.Notes,
		CreatedAt:       now,
	}

	if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
		return nil, err
	}

	if err := uc.liabilityRepo.UpdatePrincipal(txCtx, tx, liability.ID, principalAfter, now); err != nil {
		return nil, err
	}

	newBalance := account.ApplyDebit(input.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	entry := &domain.CashFlowEntry{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Kind:         domain.FlowKindLiability,
		Amount:       input.Amount.Neg(),
		BalanceAfter: newBalance,
		PaymentID:    &payment.ID,
		Description:  "payment: " + liability.Name,
		CreatedAt:    now,
	}

	if err := uc.journalRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   liability.ID,
			AggregateType: domain.AggregateTypeLiability,
			EventType:     domain.EventTypePaymentRecorded,
			Payload: map[string]any{
				"payment_id":   payment.ID,
				"liability_id": liability.ID,
				"account_id":   account.ID,
				"amount":       input.Amount.String(),
				"principal":    principalAfter.String(),
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

	return payment, nil
}

// DeletePayment reverses a recorded payment: cash returns to the funding
// account and the payment's recorded principal delta is added back to the
// current outstanding principal. The delta is principal_before minus
// principal_after, not the paid amount, so clamped overpayments reverse
// exactly, and adding it to the current value keeps later payments intact
// when an older one is deleted.
func (uc *LiabilityUseCase) DeletePayment(ctx context.Context, paymentID string) error {
	return uc.retry(ctx, func() error {
		return uc.deletePayment(ctx, paymentID)
	})
}

func (uc *LiabilityUseCase) deletePayment(ctx context.Context, paymentID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	payment, err := uc.paymentRepo.GetByID(txCtx, paymentID)
	if err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, payment.AccountID)
	if err != nil {
		return err
	}

	liability, err := uc.liabilityRepo.GetByIDForUpdate(txCtx, tx, payment.LiabilityID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if err := uc.paymentRepo.Delete(txCtx, tx, payment.ID); err != nil {
		return err
	}

	restored := liability.OutstandingPrincipal.Add(payment.PrincipalBefore.Sub(payment.PrincipalAfter))
	if err := uc.liabilityRepo.UpdatePrincipal(txCtx, tx, liability.ID, restored, now); err != nil {
		return err
	}

	newBalance := account.ApplyCredit(payment.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, now); err != nil {
		return err
	}

	entry := &domain.CashFlowEntry{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Kind:         domain.FlowKindReversal,
		Amount:       payment.Amount,
		BalanceAfter: newBalance,
		PaymentID:    &payment.ID,
		Description:  "reversal of payment: " + liability.Name,
		CreatedAt:    now,
	}

	if err := uc.journalRepo.Create(txCtx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// GetLiability retrieves a liability by ID.
func (uc *LiabilityUseCase) GetLiability(ctx context.Context, id string) (*domain.Liability, error) {
	return uc.liabilityRepo.GetByID(ctx, id)
}

// ListLiabilities lists liabilities with pagination.
func (uc *LiabilityUseCase) ListLiabilities(ctx context.Context, limit, offset int) ([]*domain.Liability, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.liabilityRepo.List(ctx, limit, offset)
}

// ListPayments lists payments for a liability with pagination.
func (uc *LiabilityUseCase) ListPayments(ctx context.Context, liabilityID string, limit, offset int) ([]*domain.LiabilityPayment, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.paymentRepo.ListByLiability(ctx, liabilityID, limit, offset)
}

func (uc *LiabilityUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}
