package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
)

// TradeUseCase coordinates investment trades across the holding store, the
// account ledger and the journal.
type TradeUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	holdingRepo HoldingRepository
	tradeRepo   TradeRepository
	journalRepo JournalRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewTradeUseCase creates a new TradeUseCase.
func NewTradeUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	holdingRepo HoldingRepository,
	tradeRepo TradeRepository,
	journalRepo JournalRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *TradeUseCase {
	return &TradeUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		holdingRepo: holdingRepo,
		tradeRepo:   tradeRepo,
		journalRepo: journalRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
	}
}

// WithRetrier enables retry on transient database conflicts.
func (uc *TradeUseCase) WithRetrier(r Retrier) *TradeUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables operation metrics.
func (uc *TradeUseCase) WithMetrics(m *metrics.Metrics) *TradeUseCase {
	uc.metrics = m
	return uc
}

// RecordTradeInput represents input for recording a trade.
type RecordTradeInput struct {
	AccountID string
	Symbol    string
	Name      string
	AssetKind domain.AssetKind
	Market    string
	Kind      domain.TradeKind
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Fees      decimal.Decimal
	// Amount is the gross cash amount for dividend/interest trades; it is
	// ignored for buys and sells, which derive cash from quantity*price.
	Amount    decimal.Decimal
	Liquid    bool
	TradeDate time.Time
	Currency  string
	Notes     string
}

// RecordTrade applies one buy/sell/dividend/interest trade: the holding's
// quantity and cost basis move, the account's uninvested cash moves by the
// signed cash amount, and one trade row plus one journal entry are written,
// all atomically. A buy for an unknown position creates the holding.
func (uc *TradeUseCase) RecordTrade(ctx context.Context, input RecordTradeInput) (*domain.InvestmentTransaction, error) {
	var trade *domain.InvestmentTransaction

	err := uc.retry(ctx, func() error {
		var err error
		trade, err = uc.recordTrade(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TradesRecorded.WithLabelValues(string(input.Kind)).Inc()
	}

	return trade, nil
}

func (uc *TradeUseCase) recordTrade(ctx context.Context, input RecordTradeInput) (*domain.InvestmentTransaction, error) {
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

	now := time.Now().UTC()

	tradeDate := input.TradeDate
	if tradeDate.IsZero() {
		tradeDate = now
	}

	currency := input.Currency
	if currency == "" {
		currency = account.Currency
	}

	holding, err := uc.holdingRepo.GetByKeyForUpdate(txCtx, tx, input.AccountID, input.Symbol, input.AssetKind, input.Market)
	if err != nil && !errors.Is(err, domain.ErrHoldingNotFound) {
		return nil, err
	}

	if holding == nil {
		switch input.Kind {
		case domain.TradeKindBuy:
			holding = &domain.Holding{
				ID:        uc.idGen.Generate(),
				AccountID: input.AccountID,
				Symbol:    input.Symbol,
				Name:      input.Name,
				AssetKind: input.AssetKind,
				Market:    input.Market,
				Quantity:  decimal.Zero,
				AvgCost:   decimal.Zero,
				TotalCost: decimal.Zero,
				Currency:  currency,
				Liquid:    input.Liquid,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := uc.holdingRepo.Create(txCtx, tx, holding); err != nil {
				return nil, err
			}
		case domain.TradeKindSell:
			return nil, domain.ErrHoldingNotFound
		}
	}

	cashDelta := domain.TradeCashDelta(input.Kind, input.Quantity, input.Price, input.Fees, input.Amount)

	trade := &domain.InvestmentTransaction{
		ID:         uc.idGen.Generate(),
		AccountID:  input.AccountID,
		Kind:       input.Kind,
		Symbol:     input.Symbol,
		Quantity:   input.Quantity,
		Price:      input.Price,
		Fees:       input.Fees,
		CashAmount: cashDelta,
		TradeDate:  tradeDate,
		Currency:   currency,
		Notes:      input.Notes,
		CreatedAt:  now,
	}

	if holding != nil {
		trade.HoldingID = holding.ID

		snapshot := holding.Snapshot()
		trade.PrevQuantity = snapshot.Quantity
		trade.PrevAvgCost = snapshot.AvgCost
		trade.PrevTotalCost = snapshot.TotalCost
	}

	if err := trade.Validate(); err != nil {
		return nil, err
	}

	switch input.Kind {
	case domain.TradeKindBuy:
		if err := account.ValidateDebit(cashDelta.Neg()); err != nil {
			return nil, err
		}

		holding.ApplyBuy(input.Quantity, input.Price, input.Fees)
	case domain.TradeKindSell:
		if err := holding.ApplySell(input.Quantity); err != nil {
			return nil, err
		}
	}

	if holding != nil {
		if err := uc.holdingRepo.UpdatePosition(txCtx, tx, holding.ID, holding.Quantity, holding.AvgCost, holding.TotalCost, now); err != nil {
			return nil, err
		}
	}

	if err := uc.tradeRepo.Create(txCtx, tx, trade); err != nil {
		return nil, err
	}

	newBalance := account.ApplyCredit(cashDelta)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	entry := &domain.CashFlowEntry{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Kind:         domain.FlowKindInvestment,
		Amount:       cashDelta,
		BalanceAfter: newBalance,
		TradeID:      &trade.ID,
		Description:  string(input.Kind) + " " + input.Symbol,
		CreatedAt:    now,
	}

	if err := uc.journalRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   trade.ID,
			AggregateType: domain.AggregateTypeTrade,
			EventType:     domain.EventTypeTradeRecorded,
			Payload: map[string]any{
				"trade_id":   trade.ID,
				"account_id": account.ID,
				"symbol":     input.Symbol,
				"kind":       string(input.Kind),
				"cash":       cashDelta.String(),
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

	return trade, nil
}

// DeleteTrade reverses a recorded trade by restoring the pre-trade holding
// snapshot and undoing the cash effect. Only the most recent trade for a
// holding can be deleted: a snapshot restores safely only in LIFO order.
func (uc *TradeUseCase) DeleteTrade(ctx context.Context, tradeID string) error {
	err := uc.retry(ctx, func() error {
		return uc.deleteTrade(ctx, tradeID)
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TradesReversed.Inc()
	}

	return nil
}

func (uc *TradeUseCase) deleteTrade(ctx context.Context, tradeID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	trade, err := uc.tradeRepo.GetByID(txCtx, tradeID)
	if err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, trade.AccountID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if trade.HoldingID != "" {
		holding, err := uc.holdingRepo.GetByIDForUpdate(txCtx, tx, trade.HoldingID)
		if err != nil {
			return err
		}

		latest, err := uc.tradeRepo.GetLatestForHolding(txCtx, tx, holding.ID)
		if err != nil {
			return err
		}

		if latest.ID != trade.ID {
			return domain.ErrTradeNotLatest
		}

		holding.Restore(trade.PrevSnapshot())
		if err := uc.holdingRepo.UpdatePosition(txCtx, tx, holding.ID, holding.Quantity, holding.AvgCost, holding.TotalCost, now); err != nil {
			return err
		}
	}

	// Undoing a sell/dividend/interest takes cash back out of the account.
	if trade.CashAmount.IsPositive() {
		if err := account.ValidateDebit(trade.CashAmount); err != nil {
			return err
		}
	}

	if err := uc.tradeRepo.Delete(txCtx, tx, trade.ID); err != nil {
		return err
	}

	newBalance := account.ApplyCredit(trade.CashAmount.Neg())
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, now); err != nil {
		return err
	}

	entry := &domain.CashFlowEntry{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Kind:         domain.FlowKindReversal,
		Amount:       trade.CashAmount.Neg(),
		BalanceAfter: newBalance,
		TradeID:      &trade.ID,
		Description:  "reversal of " + string(trade.Kind) + " " + trade.Symbol,
		CreatedAt:    now,
	}

	if err := uc.journalRepo.Create(txCtx, tx, entry); err != nil {
		return err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   trade.ID,
			AggregateType: domain.AggregateTypeTrade,
			EventType:     domain.EventTypeTradeReversed,
			Payload: map[string]any{
				"trade_id":   trade.ID,
				"account_id": account.ID,
				"symbol":     trade.Symbol,
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}
	}

	return tx.Commit(txCtx)
}

// GetTrade retrieves an investment transaction by ID.
func (uc *TradeUseCase) GetTrade(ctx context.Context, id string) (*domain.InvestmentTransaction, error) {
	return uc.tradeRepo.GetByID(ctx, id)
}

// ListTradesInput represents input for listing trades.
type ListTradesInput struct {
	AccountID string
	HoldingID string
	Limit     int
	Offset    int
}

// ListTrades lists trades for an account or a holding.
func (uc *TradeUseCase) ListTrades(ctx context.Context, input ListTradesInput) ([]*domain.InvestmentTransaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if input.HoldingID != "" {
		return uc.tradeRepo.ListByHolding(ctx, input.HoldingID, limit, offset)
	}

	return uc.tradeRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

func (uc *TradeUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}
