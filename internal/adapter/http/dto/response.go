package dto

import (
	"time"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/usecase"
	"github.com/shopspring/decimal"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Institution   string          `json:"institution,omitempty"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	HoldingsValue decimal.Decimal `json:"holdings_value"`
	Version       int64           `json:"version"`
	Active        bool            `json:"active"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		Kind:          string(a.Kind),
		Institution:   a.Institution,
		Currency:      a.Currency,
		Balance:       a.Balance,
		HoldingsValue: a.HoldingsValue,
		Version:       a.Version,
		Active:        a.Active,
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// AccountViewResponse is an account with its derived aggregates and live
// holdings.
type AccountViewResponse struct {
	Account         *AccountResponse   `json:"account"`
	TotalValue      decimal.Decimal    `json:"total_value"`
	AvailableCash   decimal.Decimal    `json:"available_cash"`
	InvestmentValue decimal.Decimal    `json:"investment_value"`
	Holdings        []*HoldingResponse `json:"holdings"`
}

// AccountViewFromUseCase converts a use case account view to a response.
func AccountViewFromUseCase(v *usecase.AccountView) *AccountViewResponse {
	return &AccountViewResponse{
		Account:         AccountFromDomain(v.Account),
		TotalValue:      v.Projection.TotalValue,
		AvailableCash:   v.Projection.AvailableCash,
		InvestmentValue: v.Projection.InvestmentValue,
		Holdings:        HoldingsFromDomain(v.Holdings),
	}
}

// SummaryResponse represents the cross-account dashboard totals.
type SummaryResponse struct {
	TotalAssets      decimal.Decimal `json:"total_assets"`
	AvailableCash    decimal.Decimal `json:"available_cash"`
	InvestmentValue  decimal.Decimal `json:"investment_value"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	AccountCount     int             `json:"account_count"`
}

// SummaryFromUseCase converts a use case summary to a response.
func SummaryFromUseCase(s *usecase.Summary) *SummaryResponse {
	return &SummaryResponse{
		TotalAssets:      s.TotalAssets,
		AvailableCash:    s.AvailableCash,
		InvestmentValue:  s.InvestmentValue,
		TotalLiabilities: s.TotalLiabilities,
		NetWorth:         s.NetWorth,
		AccountCount:     s.AccountCount,
	}
}

// HoldingResponse represents a holding in API responses.
type HoldingResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name,omitempty"`
	AssetKind    string          `json:"asset_kind"`
	Market       string          `json:"market,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CurrentValue decimal.Decimal `json:"current_value"`
	LastSyncAt   *time.Time      `json:"last_sync_at,omitempty"`
	Currency     string          `json:"currency"`
	Liquid       bool            `json:"liquid"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HoldingFromDomain converts domain holding to response.
func HoldingFromDomain(h *domain.Holding) *HoldingResponse {
	return &HoldingResponse{
		ID:           h.ID,
		AccountID:    h.AccountID,
		Symbol:       h.Symbol,
		Name:         h.Name,
		AssetKind:    string(h.AssetKind),
		Market:       h.Market,
		Quantity:     h.Quantity,
		AvgCost:      h.AvgCost,
		TotalCost:    h.TotalCost,
		CurrentPrice: h.CurrentPrice,
		CurrentValue: h.CurrentValue,
		LastSyncAt:   h.LastSyncAt,
		Currency:     h.Currency,
		Liquid:       h.Liquid,
		Active:       h.Active,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
}

// HoldingsFromDomain converts domain holdings to responses.
func HoldingsFromDomain(holdings []*domain.Holding) []*HoldingResponse {
	result := make([]*HoldingResponse, len(holdings))
	for i, h := range holdings {
		result[i] = HoldingFromDomain(h)
	}
	return result
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	BudgetID      *string         `json:"budget_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Merchant      string          `json:"merchant,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Shared        bool            `json:"shared"`
	Participants  []string        `json:"participants,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts domain expense to response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		BudgetID:      e.BudgetID,
		Amount:        e.Amount,
		Date:          e.Date,
		Category:      e.Category,
		Subcategory:   e.Subcategory,
		Merchant:      e.Merchant,
		PaymentMethod: e.PaymentMethod,
		Shared:        e.Shared,
		Participants:  e.Participants,
		Tags:          e.Tags,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	EventAt       time.Time       `json:"event_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		EventAt:       t.EventAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// TradeResponse represents an investment transaction in API responses.
type TradeResponse struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	HoldingID  string          `json:"holding_id,omitempty"`
	Kind       string          `json:"kind"`
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Fees       decimal.Decimal `json:"fees"`
	CashAmount decimal.Decimal `json:"cash_amount"`
	TradeDate  time.Time       `json:"trade_date"`
	Currency   string          `json:"currency"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TradeFromDomain converts domain trade to response.
func TradeFromDomain(t *domain.InvestmentTransaction) *TradeResponse {
	return &TradeResponse{
		ID:         t.ID,
		AccountID:  t.AccountID,
		HoldingID:  t.HoldingID,
		Kind:       string(t.Kind),
		Symbol:     t.Symbol,
		Quantity:   t.Quantity,
		Price:      t.Price,
		Fees:       t.Fees,
		CashAmount: t.CashAmount,
		TradeDate:  t.TradeDate,
		Currency:   t.Currency,
		Notes:      t.Notes,
		CreatedAt:  t.CreatedAt,
	}
}

// TradesFromDomain converts domain trades to responses.
func TradesFromDomain(trades []*domain.InvestmentTransaction) []*TradeResponse {
	result := make([]*TradeResponse, len(trades))
	for i, t := range trades {
		result[i] = TradeFromDomain(t)
	}
	return result
}

// BudgetResponse represents a budget in API responses.
type BudgetResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Kind               string          `json:"kind"`
	Allocated          decimal.Decimal `json:"allocated"`
	Spent              decimal.Decimal `json:"spent"`
	Remaining          decimal.Decimal `json:"remaining"`
	Currency           string          `json:"currency"`
	PeriodStart        time.Time       `json:"period_start"`
	PeriodEnd          time.Time       `json:"period_end"`
	Status             string          `json:"status"`
	EligibleAccountIDs []string        `json:"eligible_account_ids,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Version            int64           `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// BudgetFromDomain converts domain budget to response.
func BudgetFromDomain(b *domain.Budget) *BudgetResponse {
	return &BudgetResponse{
		ID:                 b.ID,
		Name:               b.Name,
		Kind:               string(b.Kind),
		Allocated:          b.Allocated,
		Spent:              b.Spent,
		Remaining:          b.Remaining(),
		Currency:           b.Currency,
		PeriodStart:        b.PeriodStart,
		PeriodEnd:          b.PeriodEnd,
		Status:             string(b.Status),
		EligibleAccountIDs: b.EligibleAccountIDs,
		Notes:              b.Notes,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// BudgetsFromDomain converts domain budgets to responses.
func BudgetsFromDomain(budgets []*domain.Budget) []*BudgetResponse {
	result := make([]*BudgetResponse, len(budgets))
	for i, b := range budgets {
		result[i] = BudgetFromDomain(b)
	}
	return result
}

// LiabilityResponse represents a liability in API responses.
type LiabilityResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Kind                 string          `json:"kind,omitempty"`
	OriginalPrincipal    decimal.Decimal `json:"original_principal"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	Currency             string          `json:"currency"`
	Active               bool            `json:"active"`
	Notes                string          `json:"notes,omitempty"`
	Version              int64           `json:"version"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// LiabilityFromDomain converts domain liability to response.
func LiabilityFromDomain(l *domain.Liability) *LiabilityResponse {
	return &LiabilityResponse{
		ID:                   l.ID,
		Name:                 l.Name,
		Kind:                 l.Kind,
		OriginalPrincipal:    l.OriginalPrincipal,
		OutstandingPrincipal: l.OutstandingPrincipal,
		Currency:             l.Currency,
		Active:               l.Active,
		Notes:                l.Notes,
		Version:              l.Version,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}

// LiabilitiesFromDomain converts domain liabilities to responses.
func LiabilitiesFromDomain(liabilities []*domain.Liability) []*LiabilityResponse {
	result := make([]*LiabilityResponse, len(liabilities))
	for i, l := range liabilities {
		result[i] = LiabilityFromDomain(l)
	}
	return result
}

// PaymentResponse represents a liability payment in API responses.
type PaymentResponse struct {
	ID              string          `json:"id"`
	LiabilityID     string          `json:"liability_id"`
	AccountID       string          `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	PrincipalBefore decimal.Decimal `json:"principal_before"`
	PrincipalAfter  decimal.Decimal `json:"principal_after"`
	PaidAt          time.Time       `json:"paid_at"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PaymentFromDomain converts domain payment to response.
func PaymentFromDomain(p *domain.LiabilityPayment) *PaymentResponse {
	return &PaymentResponse{
		ID:              p.ID,
		LiabilityID:     p.LiabilityID,
		AccountID:       p.AccountID,
		Amount:          p.Amount,
		PrincipalBefore: p.PrincipalBefore,
		PrincipalAfter:  p.PrincipalAfter,
		PaidAt:          p.PaidAt,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.LiabilityPayment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// EntryResponse represents a cash-flow journal entry in API responses.
type EntryResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	ExpenseID    *string         `json:"expense_id,omitempty"`
	TransferID   *string         `json:"transfer_id,omitempty"`
	TradeID      *string         `json:"trade_id,omitempty"`
	PaymentID    *string         `json:"payment_id,omitempty"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain journal entry to response.
func EntryFromDomain(e *domain.CashFlowEntry) *EntryResponse {
	return &EntryResponse{
		ID:           e.ID,
		AccountID:    e.AccountID,
		Kind:         string(e.Kind),
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		ExpenseID:    e.ExpenseID,
		TransferID:   e.TransferID,
		TradeID:      e.TradeID,
		PaymentID:    e.PaymentID,
		Description:  e.Description,
		CreatedAt:    e.CreatedAt,
	}
}

// EntriesFromDomain converts domain journal entries to responses.
func EntriesFromDomain(entries []*domain.CashFlowEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ReconciliationResponse reports an account's balance against its replayed
// journal.
type ReconciliationResponse struct {
	AccountID      string          `json:"account_id"`
	StoredBalance  decimal.Decimal `json:"stored_balance"`
	JournalBalance decimal.Decimal `json:"journal_balance"`
	Drift          decimal.Decimal `json:"drift"`
	Consistent     bool            `json:"consistent"`
}

// ReconciliationFromUseCase converts a use case reconciliation to a response.
func ReconciliationFromUseCase(r *usecase.Reconciliation) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:      r.AccountID,
		StoredBalance:  r.StoredBalance,
		JournalBalance: r.JournalBalance,
		Drift:          r.Drift,
		Consistent:     r.Consistent,
	}
}

// ReconciliationsFromUseCase converts reconciliations to responses.
func ReconciliationsFromUseCase(recs []*usecase.Reconciliation) []*ReconciliationResponse {
	result := make([]*ReconciliationResponse, len(recs))
	for i, r := range recs {
		result[i] = ReconciliationFromUseCase(r)
	}
	return result
}

// SyncLogResponse represents a market sync run in API responses.
type SyncLogResponse struct {
	ID            string          `json:"id"`
	SyncedAt      time.Time       `json:"synced_at"`
	HoldingsCount int             `json:"holdings_count"`
	FailedSymbols []string        `json:"failed_symbols,omitempty"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Status        string          `json:"status"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}

// SyncLogFromDomain converts a domain sync log to a response.
func SyncLogFromDomain(l *domain.MarketSyncLog) *SyncLogResponse {
	return &SyncLogResponse{
		ID:            l.ID,
		SyncedAt:      l.SyncedAt,
		HoldingsCount: l.HoldingsCount,
		FailedSymbols: l.FailedSymbols,
		TotalValue:    l.TotalValue,
		Status:        string(l.Status),
		ErrorMessage:  l.ErrorMessage,
	}
}

// SyncLogsFromDomain converts domain sync logs to responses.
func SyncLogsFromDomain(logs []*domain.MarketSyncLog) []*SyncLogResponse {
	result := make([]*SyncLogResponse, len(logs))
	for i, l := range logs {
		result[i] = SyncLogFromDomain(l)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    int64              `json:"total"`
}

// ListTransfersResponse wraps a page of transfers.
type ListTransfersResponse struct {
	Transfers []*TransferResponse `json:"transfers"`
	Total     int64               `json:"total"`
}

// ListTradesResponse wraps a page of trades.
type ListTradesResponse struct {
	Trades []*TradeResponse `json:"trades"`
	Total  int64            `json:"total"`
}

// ListBudgetsResponse wraps a page of budgets.
type ListBudgetsResponse struct {
	Budgets []*BudgetResponse `json:"budgets"`
	Total   int64             `json:"total"`
}

// ListLiabilitiesResponse wraps a page of liabilities.
type ListLiabilitiesResponse struct {
	Liabilities []*LiabilityResponse `json:"liabilities"`
	Total       int64                `json:"total"`
}

// ListPaymentsResponse wraps a page of liability payments.
type ListPaymentsResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Total    int64              `json:"total"`
}

// ListEntriesResponse wraps a page of journal entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// ListSyncLogsResponse wraps a page of sync logs.
type ListSyncLogsResponse struct {
	Logs  []*SyncLogResponse `json:"logs"`
	Total int64              `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
