package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
	"github.com/moneta-app/moneta/internal/usecase/mocks"
)

type tradeFixture struct {
	accountRepo *mocks.MockAccountRepository
	holdingRepo *mocks.MockHoldingRepository
	tradeRepo   *mocks.MockTradeRepository
	journalRepo *mocks.MockJournalRepository
	uc          *usecase.TradeUseCase
}

func newTradeFixture() *tradeFixture {
	f := &tradeFixture{
		accountRepo: mocks.NewMockAccountRepository(),
		holdingRepo: mocks.NewMockHoldingRepository(),
		tradeRepo:   mocks.NewMockTradeRepository(),
		journalRepo: mocks.NewMockJournalRepository(),
	}
	f.uc = usecase.NewTradeUseCase(
		mocks.NewMockTransactionManager(),
		f.accountRepo,
		f.holdingRepo,
		f.tradeRepo,
		f.journalRepo,
		nil,
		mocks.NewMockIDGenerator(),
	)
	return f
}

func (f *tradeFixture) seedAccount(id string, balance decimal.Decimal) *domain.Account {
	account := &domain.Account{
		ID:       id,
		Name:     "brokerage",
		Kind:     domain.AccountKindInvestment,
		Currency: "USD",
		Balance:  balance,
		Active:   true,
	}
	_ = f.accountRepo.Create(context.Background(), account)
	return account
}

func (f *tradeFixture) buy(t *testing.T, accountID, symbol, quantity, price, fees string) *domain.InvestmentTransaction {
	t.Helper()
	trade, err := f.uc.RecordTrade(context.Background(), usecase.RecordTradeInput{
		AccountID: accountID,
		Symbol:    symbol,
		Name:      symbol,
		AssetKind: domain.AssetKindStock,
		Market:    "US",
		Kind:      domain.TradeKindBuy,
		Quantity:  dec(quantity),
		Price:     dec(price),
		Fees:      dec(fees),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return trade
}

func TestTradeUseCase_RecordTrade_BuyCreatesHolding(t *testing.T) {
	f := newTradeFixture()
	account := f.seedAccount("acc-1", dec("10000.00"))

	trade := f.buy(t, account.ID, "AAPL", "10", "100.00", "5.00")

	if !account.Balance.Equal(dec("8995.00")) {
		t.Errorf("expected balance 8995.00, got %s", account.Balance)
	}
	if !trade.CashAmount.Equal(dec("-1005.00")) {
		t.Errorf("expected cash amount -1005.00, got %s", trade.CashAmount)
	}

	holding, err := f.holdingRepo.GetByID(context.Background(), trade.HoldingID)
	if err != nil {
		t.Fatalf("expected holding to exist: %v", err)
	}
	if !holding.Quantity.Equal(dec("10")) {
		t.Errorf("expected quantity 10, got %s", holding.Quantity)
	}
	if !holding.AvgCost.Equal(dec("100.5")) {
		t.Errorf("expected avg cost 100.5, got %s", holding.AvgCost)
	}
	if !holding.TotalCost.Equal(dec("1005.00")) {
		t.Errorf("expected total cost 1005.00, got %s", holding.TotalCost)
	}

	// The buy records the pre-trade snapshot of the fresh holding.
	if !trade.PrevQuantity.IsZero() || !trade.PrevTotalCost.IsZero() {
		t.Errorf("expected zero snapshot, got quantity=%s cost=%s", trade.PrevQuantity, trade.PrevTotalCost)
	}

	entries := f.journalRepo.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	if entries[0].Kind != domain.FlowKindInvestment {
		t.Errorf("expected kind %s, got %s", domain.FlowKindInvestment, entries[0].Kind)
	}
	if !entries[0].Amount.Equal(dec("-1005.00")) {
		t.Errorf("expected entry amount -1005.00, got %s", entries[0].Amount)
	}
}

func TestTradeUseCase_RecordTrade_AverageCostAcrossBuys(t *testing.T) {
	f := newTradeFixture()
	account := f.seedAccount("acc-1", dec("10000.00"))

	first := f.buy(t, account.ID, "AAPL", "10", "100.00", "0")
	second := f.buy(t, account.ID, "AAPL", "10", "200.00", "0")

	if second.HoldingID != first.HoldingID {
		t.Fatal("second buy must reuse the existing holding")
	}

	holding, err := f.holdingRepo.GetByID(context.Background(), first.HoldingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holding.Quantity.Equal(dec("20")) {
		t.Errorf("expected quantity 20, got %s", holding.Quantity)
	}
	if !holding.AvgCost.Equal(dec("150")) {
		t.Errorf("expected avg cost 150, got %s", holding.AvgCost)
	}
	if !holding.TotalCost.Equal(dec("3000.00")) {
		t.Errorf("expected total cost 3000.00, got %s", holding.TotalCost)
	}
	if !account.Balance.Equal(dec("7000.00")) {
		t.Errorf("expected balance 7000.00, got %s", account.Balance)
	}

	if !second.PrevQuantity.Equal(dec("10")) {
		t.Errorf("expected snapshot quantity 10, got %s", second.PrevQuantity)
	}
}

func TestTradeUseCase_RecordTrade_Sell(t *testing.T) {
	f := newTradeFixture()
	account := f.seedAccount("acc-1", dec("10000.00"))

	trade := f.buy(t, account.ID, "AAPL", "20", "150.00", "0")

	sell, err := f.uc.RecordTrade(context.Background(), usecase.RecordTradeInput{
		AccountID: account.ID,
		Symbol:    "AAPL",
		AssetKind: domain.AssetKindStock,
		Market:    "US",
		Kind:      domain.TradeKindSell,
		Quantity:  dec("5"),
		Price:     dec("200.00"),
		Fees:      dec("5.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 10000 - 3000 + (5*200 - 5).
	if !account.Balance.Equal(dec("7995.00")) {
		t.Errorf("expected balance 7995.00, got %s", account.Balance)
	}
	if !sell.CashAmount.Equal(dec("995.00")) {
		t.Errorf("expected cash amount 995.00, got %s", sell.CashAmount)
	}

	holding, err := f.holdingRepo.GetByID(context.Background(), trade.HoldingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holding.Quantity.Equal(dec("15")) {
		t.Errorf("expected quantity 15, got %s", holding.Quantity)
	}
	// Cost basis shrinks pro-rata; average cost is untouched by a sell.
	if !holding.TotalCost.Equal(dec("2250.00")) {
		t.Errorf("expected total cost 2250.00, got %s", holding.TotalCost)
	}
	if !holding.AvgCost.Equal(dec("150")) {
		t.Errorf("expected avg cost 150, got %s", holding.AvgCost)
	}
}

func TestTradeUseCase_RecordTrade_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*tradeFixture)
		input   usecase.RecordTradeInput
		wantErr error
	}{
		{
			name:  "buy with insufficient cash",
			setup: func(f *tradeFixture) { f.seedAccount("acc-1", dec("100.00")) },
			input: usecase.RecordTradeInput{
				AccountID: "acc-1",
				Symbol:    "AAPL",
				AssetKind: domain.AssetKindStock,
				Market:    "US",
				Kind:      domain.TradeKindBuy,
				Quantity:  dec("10"),
				Price:     dec("100.00"),
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:  "sell with no position",
			setup: func(f *tradeFixture) { f.seedAccount("acc-1", dec("1000.00")) },
			input: usecase.RecordTradeInput{
				AccountID: "acc-1",
				Symbol:    "AAPL",
				AssetKind: domain.AssetKindStock,
				Market:    "US",
				Kind:      domain.TradeKindSell,
				Quantity:  dec("10"),
				Price:     dec("100.00"),
			},
			wantErr: domain.ErrHoldingNotFound,
		},
		{
			name: "sell more than held",
			setup: func(f *tradeFixture) {
				f.seedAccount("acc-1", dec("10000.00"))
				_ = f.holdingRepo.Create(context.Background(), nil, &domain.Holding{
					ID:        "hold-1",
					AccountID: "acc-1",
					Symbol:    "AAPL",
					AssetKind: domain.AssetKindStock,
					Market:    "US",
					Quantity:  dec("10"),
					AvgCost:   dec("100"),
					TotalCost: dec("1000"),
					Currency:  "USD",
					Active:    true,
				})
			},
			input: usecase.RecordTradeInput{
				AccountID: "acc-1",
				Symbol:    "AAPL",
				AssetKind: domain.AssetKindStock,
				Market:    "US",
				Kind:      domain.TradeKindSell,
				Quantity:  dec("50"),
				Price:     dec("100.00"),
			},
			wantErr: domain.ErrInsufficientHoldingQuantity,
		},
		{
			name:  "inactive account",
			setup: func(f *tradeFixture) { f.seedAccount("acc-1", dec("10000.00")).Active = false },
			input: usecase.RecordTradeInput{
				AccountID: "acc-1",
				Symbol:    "AAPL",
				AssetKind: domain.AssetKindStock,
				Market:    "US",
				Kind:      domain.TradeKindBuy,
				Quantity:  dec("1"),
				Price:     dec("100.00"),
			},
			wantErr: domain.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTradeFixture()
			tt.setup(f)

			_, err := f.uc.RecordTrade(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTradeUseCase_RecordTrade_Dividend(t *testing.T) {
	f := newTradeFixture()
	account := f.seedAccount("acc-1", dec("1000.00"))

	trade, err := f.uc.RecordTrade(context.Background(), usecase.RecordTradeInput{
		AccountID: account.ID,
		Symbol:    "AAPL",
		AssetKind: domain.AssetKindStock,
		Market:    "US",
		Kind:      domain.TradeKindDividend,
		Amount:    dec("50.00"),
		Fees:      dec("1.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !trade.CashAmount.Equal(dec("49.00")) {
		t.Errorf("expected cash amount 49.00, got %s", trade.CashAmount)
	}
	if !account.Balance.Equal(dec("1049.00")) {
		t.Errorf("expected balance 1049.00, got %s", account.Balance)
	}

	// A dividend without a tracked position touches cash only.
	if trade.HoldingID != "" {
		t.Errorf("expected no holding, got %s", trade.HoldingID)
	}
}

func TestTradeUseCase_DeleteTrade(t *testing.T) {
	f := newTradeFixture()
	account := f.seedAccount("acc-1", dec("10000.00"))

	f.buy(t, account.ID, "AAPL", "10", "100.00", "0")
	second := f.buy(t, account.ID, "AAPL", "10", "200.00", "0")

	if err := f.uc.DeleteTrade(context.Background(), second.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	holding, err := f.holdingRepo.GetByID(context.Background(), second.HoldingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holding.Quantity.Equal(dec("10")) {
		t.Errorf("expected quantity restored to 10, got %s", holding.Quantity)
	}
	if !holding.AvgCost.Equal(dec("100")) {
		t.Errorf("expected avg cost restored to 100, got %s", holding.AvgCost)
	}
	if !holding.TotalCost.Equal(dec("1000.00")) {
		t.Errorf("expected total cost restored to 1000.00, got %s", holding.TotalCost)
	}
	if !account.Balance.Equal(dec("9000.00")) {
		t.Errorf("expected balance restored to 9000.00, got %s", account.Balance)
	}

	if _, err := f.uc.GetTrade(context.Background(), second.ID); !errors.Is(err, domain.ErrTradeNotFound) {
		t.Errorf("expected ErrTradeNotFound, got %v", err)
	}

	entries := f.journalRepo.Entries()
	last := entries[len(entries)-1]
	if last.Kind != domain.FlowKindReversal {
		t.Errorf("expected reversal entry, got %s", last.Kind)
	}
	if !last.Amount.Equal(dec("2000.00")) {
		t.Errorf("expected reversal amount 2000.00, got %s", last.Amount)
	}
}

func TestTradeUseCase_DeleteTrade_NotLatest(t *testing.T) {
	f := newTradeFixture()
	account := f.seedAccount("acc-1", dec("10000.00"))

	first := f.buy(t, account.ID, "AAPL", "10", "100.00", "0")
	f.buy(t, account.ID, "AAPL", "10", "200.00", "0")

	err := f.uc.DeleteTrade(context.Background(), first.ID)
	if !errors.Is(err, domain.ErrTradeNotLatest) {
		t.Errorf("expected ErrTradeNotLatest, got %v", err)
	}

	// Nothing moved.
	holding, err := f.holdingRepo.GetByID(context.Background(), first.HoldingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !holding.Quantity.Equal(dec("20")) {
		t.Errorf("expected quantity 20, got %s", holding.Quantity)
	}
	if !account.Balance.Equal(dec("7000.00")) {
		t.Errorf("expected balance 7000.00, got %s", account.Balance)
	}
}

func TestTradeUseCase_DeleteTrade_InsufficientCashForReversal(t *testing.T) {
	f := newTradeFixture()
	account := f.seedAccount("acc-1", dec("1000.00"))

	dividend, err := f.uc.RecordTrade(context.Background(), usecase.RecordTradeInput{
		AccountID: account.ID,
		Symbol:    "AAPL",
		AssetKind: domain.AssetKindStock,
		Market:    "US",
		Kind:      domain.TradeKindDividend,
		Amount:    dec("500.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Spend the dividend cash so the reversal debit cannot be covered.
	account.Balance = dec("100.00")

	if err := f.uc.DeleteTrade(context.Background(), dividend.ID); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}
