package dto

import (
	"time"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Institution    string          `json:"institution,omitempty"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Notes          string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:           r.Name,
		Kind:           domain.AccountKind(r.Kind),
		Institution:    r.Institution,
		Currency:       r.Currency,
		OpeningBalance: r.OpeningBalance,
		Notes:          r.Notes,
	}
}

// RecordExpenseRequest represents a request to record an expense.
type RecordExpenseRequest struct {
	AccountID     string          `json:"account_id"`
	BudgetID      *string         `json:"budget_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Merchant      string          `json:"merchant,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Shared        bool            `json:"shared,omitempty"`
	Participants  []string        `json:"participants,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordExpenseRequest) ToUseCaseInput() usecase.RecordExpenseInput {
	return usecase.RecordExpenseInput{
		AccountID:     r.AccountID,
		BudgetID:      r.BudgetID,
		Amount:        r.Amount,
		Date:          r.Date,
		Category:      r.Category,
		Subcategory:   r.Subcategory,
		Merchant:      r.Merchant,
		PaymentMethod: r.PaymentMethod,
		Shared:        r.Shared,
		Participants:  r.Participants,
		Tags:          r.Tags,
		Notes:         r.Notes,
	}
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes,omitempty"`
	EventAt       *time.Time      `json:"event_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Notes:         r.Notes,
		EventAt:       r.EventAt,
	}
}

// RecordTradeRequest represents a request to record a trade.
type RecordTradeRequest struct {
	AccountID string          `json:"account_id"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name,omitempty"`
	AssetKind string          `json:"asset_kind"`
	Market    string          `json:"market,omitempty"`
	Kind      string          `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Fees      decimal.Decimal `json:"fees"`
	Amount    decimal.Decimal `json:"amount"`
	Liquid    bool            `json:"liquid,omitempty"`
	TradeDate time.Time       `json:"trade_date"`
	Currency  string          `json:"currency"`
	Notes     string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordTradeRequest) ToUseCaseInput() usecase.RecordTradeInput {
	return usecase.RecordTradeInput{
		AccountID: r.AccountID,
		Symbol:    r.Symbol,
		Name:      r.Name,
		AssetKind: domain.AssetKind(r.AssetKind),
		Market:    r.Market,
		Kind:      domain.TradeKind(r.Kind),
		Quantity:  r.Quantity,
		Price:     r.Price,
		Fees:      r.Fees,
		Amount:    r.Amount,
		Liquid:    r.Liquid,
		TradeDate: r.TradeDate,
		Currency:  r.Currency,
		Notes:     r.Notes,
	}
}

// CreateBudgetRequest represents a request to create a budget.
type CreateBudgetRequest struct {
	Name               string          `json:"name"`
	Kind               string          `json:"kind"`
	Allocated          decimal.Decimal `json:"allocated"`
	Currency           string          `json:"currency"`
	PeriodStart        time.Time       `json:"period_start"`
	PeriodEnd          time.Time       `json:"period_end"`
	EligibleAccountIDs []string        `json:"eligible_account_ids,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBudgetRequest) ToUseCaseInput() usecase.CreateBudgetInput {
	return usecase.CreateBudgetInput{
		Name:               r.Name,
		Kind:               domain.BudgetKind(r.Kind),
		Allocated:          r.Allocated,
		Currency:           r.Currency,
		PeriodStart:        r.PeriodStart,
		PeriodEnd:          r.PeriodEnd,
		EligibleAccountIDs: r.EligibleAccountIDs,
		Notes:              r.Notes,
	}
}

// CreateLiabilityRequest represents a request to register a liability.
type CreateLiabilityRequest struct {
	Name      string          `json:"name"`
	Kind      string          `json:"kind,omitempty"`
	Principal decimal.Decimal `json:"principal"`
	Currency  string          `json:"currency"`
	Notes     string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLiabilityRequest) ToUseCaseInput() usecase.CreateLiabilityInput {
	return usecase.CreateLiabilityInput{
		Name:      r.Name,
		Kind:      r.Kind,
		Principal: r.Principal,
		Currency:  r.Currency,
		Notes:     r.Notes,
	}
}

// RecordPaymentRequest represents a request to record a liability payment.
type RecordPaymentRequest struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paid_at"`
	Notes     string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput(liabilityID string) usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		LiabilityID: liabilityID,
		AccountID:   r.AccountID,
		Amount:      r.Amount,
		PaidAt:      r.PaidAt,
		Notes:       r.Notes,
	}
}

// SyncPricesRequest represents a request to refresh market prices.
type SyncPricesRequest struct {
	// AccountID limits the refresh to one account's holdings. Empty means
	// all active holdings.
	AccountID string `json:"account_id,omitempty"`
}
