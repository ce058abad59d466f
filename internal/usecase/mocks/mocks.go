package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc             func(ctx context.Context, account *domain.Account) error
	CreateTxFunc           func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc      func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateHoldingsValFunc  func(ctx context.Context, tx usecase.Transaction, id string, value decimal.Decimal, updatedAt time.Time) error
	SetActiveFunc          func(ctx context.Context, id string, active bool, updatedAt time.Time) error
	ListFunc               func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	return m.Create(ctx, account)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Balance = balance
		acc.Version++
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) UpdateHoldingsValue(ctx context.Context, tx usecase.Transaction, id string, value decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateHoldingsValFunc != nil {
		return m.UpdateHoldingsValFunc(ctx, tx, id, value, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.HoldingsValue = value
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Active = active
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MockHoldingRepository is a mock implementation of HoldingRepository.
type MockHoldingRepository struct {
	mu       sync.RWMutex
	holdings map[string]*domain.Holding

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Holding, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Holding, error)
	GetByKeyForUpdateFunc func(ctx context.Context, tx usecase.Transaction, accountID, symbol string, kind domain.AssetKind, market string) (*domain.Holding, error)
	UpdatePositionFunc    func(ctx context.Context, tx usecase.Transaction, id string, quantity, avgCost, totalCost decimal.Decimal, updatedAt time.Time) error
	UpdatePriceFunc       func(ctx context.Context, tx usecase.Transaction, id string, price decimal.Decimal, syncedAt time.Time) error
	ListByAccountFunc     func(ctx context.Context, accountID string) ([]*domain.Holding, error)
	ListActiveFunc        func(ctx context.Context) ([]*domain.Holding, error)

	SumActiveValueByAccountFunc func(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error)
}

func NewMockHoldingRepository() *MockHoldingRepository {
	return &MockHoldingRepository{
		holdings: make(map[string]*domain.Holding),
	}
}

func (m *MockHoldingRepository) Create(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, holding)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings[holding.ID] = holding
	return nil
}

func (m *MockHoldingRepository) GetByID(ctx context.Context, id string) (*domain.Holding, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if h, ok := m.holdings[id]; ok {
		return h, nil
	}
	return nil, domain.ErrHoldingNotFound
}

func (m *MockHoldingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Holding, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockHoldingRepository) GetByKeyForUpdate(ctx context.Context, tx usecase.Transaction, accountID, symbol string, kind domain.AssetKind, market string) (*domain.Holding, error) {
	if m.GetByKeyForUpdateFunc != nil {
		return m.GetByKeyForUpdateFunc(ctx, tx, accountID, symbol, kind, market)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.holdings {
		if h.Active && h.AccountID == accountID && h.Symbol == symbol && h.AssetKind == kind && h.Market == market {
			return h, nil
		}
	}
	return nil, domain.ErrHoldingNotFound
}

func (m *MockHoldingRepository) UpdatePosition(ctx context.Context, tx usecase.Transaction, id string, quantity, avgCost, totalCost decimal.Decimal, updatedAt time.Time) error {
	if m.UpdatePositionFunc != nil {
		return m.UpdatePositionFunc(ctx, tx, id, quantity, avgCost, totalCost, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.holdings[id]; ok {
		h.Quantity = quantity
		h.AvgCost = avgCost
		h.TotalCost = totalCost
		h.Version++
		h.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockHoldingRepository) UpdatePrice(ctx context.Context, tx usecase.Transaction, id string, price decimal.Decimal, syncedAt time.Time) error {
	if m.UpdatePriceFunc != nil {
		return m.UpdatePriceFunc(ctx, tx, id, price, syncedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.holdings[id]; ok {
		h.CurrentPrice = price
		h.CurrentValue = h.Quantity.Mul(price)
		at := syncedAt
		h.LastSyncAt = &at
		h.UpdatedAt = syncedAt
	}
	return nil
}

func (m *MockHoldingRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var holdings []*domain.Holding
	for _, h := range m.holdings {
		if h.AccountID == accountID {
			holdings = append(holdings, h)
		}
	}
	return holdings, nil
}

func (m *MockHoldingRepository) ListActive(ctx context.Context) ([]*domain.Holding, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var holdings []*domain.Holding
	for _, h := range m.holdings {
		if h.Active {
			holdings = append(holdings, h)
		}
	}
	return holdings, nil
}

func (m *MockHoldingRepository) SumActiveValueByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	if m.SumActiveValueByAccountFunc != nil {
		return m.SumActiveValueByAccountFunc(ctx, tx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, h := range m.holdings {
		if h.Active && h.AccountID == accountID {
			sum = sum.Add(h.CurrentValue)
		}
	}
	return sum, nil
}

// MockBudgetRepository is a mock implementation of BudgetRepository.
type MockBudgetRepository struct {
	mu      sync.RWMutex
	budgets map[string]*domain.Budget

	CreateFunc           func(ctx context.Context, budget *domain.Budget) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Budget, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Budget, error)
	UpdateSpentFunc      func(ctx context.Context, tx usecase.Transaction, id string, spent decimal.Decimal, updatedAt time.Time) error
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.BudgetStatus, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Budget, error)
}

func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		budgets: make(map[string]*domain.Budget),
	}
}

func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, budget)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[budget.ID] = budget
	return nil
}

func (m *MockBudgetRepository) GetByID(ctx context.Context, id string) (*domain.Budget, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.budgets[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

func (m *MockBudgetRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Budget, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockBudgetRepository) UpdateSpent(ctx context.Context, tx usecase.Transaction, id string, spent decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateSpentFunc != nil {
		return m.UpdateSpentFunc(ctx, tx, id, spent, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.budgets[id]; ok {
		b.Spent = spent
		b.Version++
		b.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockBudgetRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.BudgetStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.budgets[id]; ok {
		b.Status = status
		b.Version++
		b.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockBudgetRepository) List(ctx context.Context, limit, offset int) ([]*domain.Budget, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var budgets []*domain.Budget
	for _, b := range m.budgets {
		budgets = append(budgets, b)
	}
	return budgets, nil
}

// MockLiabilityRepository is a mock implementation of LiabilityRepository.
type MockLiabilityRepository struct {
	mu          sync.RWMutex
	liabilities map[string]*domain.Liability

	CreateFunc           func(ctx context.Context, liability *domain.Liability) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Liability, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Liability, error)
	UpdatePrincipalFunc  func(ctx context.Context, tx usecase.Transaction, id string, principal decimal.Decimal, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Liability, error)
}

func NewMockLiabilityRepository() *MockLiabilityRepository {
	return &MockLiabilityRepository{
		liabilities: make(map[string]*domain.Liability),
	}
}

func (m *MockLiabilityRepository) Create(ctx context.Context, liability *domain.Liability) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, liability)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liabilities[liability.ID] = liability
	return nil
}

func (m *MockLiabilityRepository) GetByID(ctx context.Context, id string) (*domain.Liability, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.liabilities[id]; ok {
		return l, nil
	}
	return nil, domain.ErrLiabilityNotFound
}

func (m *MockLiabilityRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Liability, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockLiabilityRepository) UpdatePrincipal(ctx context.Context, tx usecase.Transaction, id string, principal decimal.Decimal, updatedAt time.Time) error {
	if m.UpdatePrincipalFunc != nil {
		return m.UpdatePrincipalFunc(ctx, tx, id, principal, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.liabilities[id]; ok {
		l.OutstandingPrincipal = principal
		l.Version++
		l.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockLiabilityRepository) List(ctx context.Context, limit, offset int) ([]*domain.Liability, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var liabilities []*domain.Liability
	for _, l := range m.liabilities {
		liabilities = append(liabilities, l)
	}
	return liabilities, nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.LiabilityPayment

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, payment *domain.LiabilityPayment) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.LiabilityPayment, error)
	DeleteFunc          func(ctx context.Context, tx usecase.Transaction, id string) error
	ListByLiabilityFunc func(ctx context.Context, liabilityID string, limit, offset int) ([]*domain.LiabilityPayment, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.LiabilityPayment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.LiabilityPayment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.LiabilityPayment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrLiabilityNotFound
}

func (m *MockPaymentRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payments, id)
	return nil
}

func (m *MockPaymentRepository) ListByLiability(ctx context.Context, liabilityID string, limit, offset int) ([]*domain.LiabilityPayment, error) {
	if m.ListByLiabilityFunc != nil {
		return m.ListByLiabilityFunc(ctx, liabilityID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.LiabilityPayment
	for _, p := range m.payments {
		if p.LiabilityID == liabilityID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Expense, error)
	DeleteFunc        func(ctx context.Context, tx usecase.Transaction, id string) error
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Expense, error)
	ListByBudgetFunc  func(ctx context.Context, budgetID string, limit, offset int) ([]*domain.Expense, error)
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		expenses: make(map[string]*domain.Expense),
	}
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *MockExpenseRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Expense, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var expenses []*domain.Expense
	for _, e := range m.expenses {
		if e.AccountID == accountID {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

func (m *MockExpenseRepository) ListByBudget(ctx context.Context, budgetID string, limit, offset int) ([]*domain.Expense, error) {
	if m.ListByBudgetFunc != nil {
		return m.ListByBudgetFunc(ctx, budgetID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var expenses []*domain.Expense
	for _, e := range m.expenses {
		if e.BudgetID != nil && *e.BudgetID == budgetID {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

// MockTradeRepository is a mock implementation of TradeRepository. Trades
// are kept in insertion order so GetLatestForHolding behaves like the
// created_at ordering of the real repository.
type MockTradeRepository struct {
	mu     sync.RWMutex
	trades []*domain.InvestmentTransaction

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, trade *domain.InvestmentTransaction) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.InvestmentTransaction, error)
	GetLatestForHoldingFunc func(ctx context.Context, tx usecase.Transaction, holdingID string) (*domain.InvestmentTransaction, error)
	DeleteFunc              func(ctx context.Context, tx usecase.Transaction, id string) error
	ListByAccountFunc       func(ctx context.Context, accountID string, limit, offset int) ([]*domain.InvestmentTransaction, error)
	ListByHoldingFunc       func(ctx context.Context, holdingID string, limit, offset int) ([]*domain.InvestmentTransaction, error)
}

func NewMockTradeRepository() *MockTradeRepository {
	return &MockTradeRepository{}
}

func (m *MockTradeRepository) Create(ctx context.Context, tx usecase.Transaction, trade *domain.InvestmentTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, trade)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, trade)
	return nil
}

func (m *MockTradeRepository) GetByID(ctx context.Context, id string) (*domain.InvestmentTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trades {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTradeNotFound
}

func (m *MockTradeRepository) GetLatestForHolding(ctx context.Context, tx usecase.Transaction, holdingID string) (*domain.InvestmentTransaction, error) {
	if m.GetLatestForHoldingFunc != nil {
		return m.GetLatestForHoldingFunc(ctx, tx, holdingID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.trades) - 1; i >= 0; i-- {
		if m.trades[i].HoldingID == holdingID {
			return m.trades[i], nil
		}
	}
	return nil, domain.ErrTradeNotFound
}

func (m *MockTradeRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.trades {
		if t.ID == id {
			m.trades = append(m.trades[:i], m.trades[i+1:]...)
			return nil
		}
	}
	return domain.ErrTradeNotFound
}

func (m *MockTradeRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.InvestmentTransaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trades []*domain.InvestmentTransaction
	for _, t := range m.trades {
		if t.AccountID == accountID {
			trades = append(trades, t)
		}
	}
	return trades, nil
}

func (m *MockTradeRepository) ListByHolding(ctx context.Context, holdingID string, limit, offset int) ([]*domain.InvestmentTransaction, error) {
	if m.ListByHoldingFunc != nil {
		return m.ListByHoldingFunc(ctx, holdingID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trades []*domain.InvestmentTransaction
	for _, t := range m.trades {
		if t.HoldingID == holdingID {
			trades = append(trades, t)
		}
	}
	return trades, nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Transfer, error)
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.Transfer),
	}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.Transfer
	for _, t := range m.transfers {
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			transfers = append(transfers, t)
		}
	}
	return transfers, nil
}

// MockJournalRepository is a mock implementation of JournalRepository.
// Entries are append-only, matching the real repository.
type MockJournalRepository struct {
	mu      sync.RWMutex
	entries []*domain.CashFlowEntry

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, entry *domain.CashFlowEntry) error
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlowEntry, error)
	SumByAccountFunc func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{}
}

func (m *MockJournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.CashFlowEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockJournalRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.CashFlowEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.CashFlowEntry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockJournalRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// Entries returns a copy of all recorded entries, for assertions.
func (m *MockJournalRepository) Entries() []*domain.CashFlowEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*domain.CashFlowEntry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// MockSyncLogRepository is a mock implementation of SyncLogRepository.
type MockSyncLogRepository struct {
	mu   sync.RWMutex
	logs []*domain.MarketSyncLog

	CreateFunc func(ctx context.Context, log *domain.MarketSyncLog) error
	ListFunc   func(ctx context.Context, limit, offset int) ([]*domain.MarketSyncLog, error)
}

func NewMockSyncLogRepository() *MockSyncLogRepository {
	return &MockSyncLogRepository{}
}

func (m *MockSyncLogRepository) Create(ctx context.Context, log *domain.MarketSyncLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockSyncLogRepository) List(ctx context.Context, limit, offset int) ([]*domain.MarketSyncLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	logs := make([]*domain.MarketSyncLog, len(m.logs))
	copy(logs, m.logs)
	return logs, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// Events returns a copy of all recorded events, for assertions.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]*domain.OutboxEvent, len(m.events))
	copy(events, m.events)
	return events
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockPriceOracle is a mock implementation of PriceOracle.
type MockPriceOracle struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal

	GetPriceFunc func(ctx context.Context, symbol string) (decimal.Decimal, error)
}

func NewMockPriceOracle() *MockPriceOracle {
	return &MockPriceOracle{
		prices: make(map[string]decimal.Decimal),
	}
}

// SetPrice seeds a quote for a symbol.
func (m *MockPriceOracle) SetPrice(symbol string, price decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
}

func (m *MockPriceOracle) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if m.GetPriceFunc != nil {
		return m.GetPriceFunc(ctx, symbol)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if price, ok := m.prices[symbol]; ok {
		return price, nil
	}
	return decimal.Zero, fmt.Errorf("no quote for symbol %q", symbol)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
