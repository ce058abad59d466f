package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountInactive   = errors.New("account is not active")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Transfer errors
	ErrSameAccount      = errors.New("cannot transfer to same account")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrCurrencyMismatch = errors.New("cannot move money between different currencies")
	ErrTransferNotFound = errors.New("transfer not found")

	// Budget errors
	ErrBudgetNotFound    = errors.New("budget not found")
	ErrBudgetNotActive   = errors.New("budget is not active")
	ErrBudgetNotEligible = errors.New("account is not eligible for this budget")
	ErrBudgetExceeded    = errors.New("amount exceeds remaining budget")
	ErrInvalidTransition = errors.New("invalid budget status transition")

	// Holding and trade errors
	ErrHoldingNotFound             = errors.New("holding not found")
	ErrInsufficientHoldingQuantity = errors.New("insufficient holding quantity")
	ErrTradeNotFound               = errors.New("investment transaction not found")
	ErrTradeNotLatest              = errors.New("only the most recent trade for a holding can be deleted")

	// Liability errors
	ErrLiabilityNotFound = errors.New("liability not found")
	ErrOverpayment       = errors.New("payment exceeds outstanding principal")

	// Expense errors
	ErrExpenseNotFound = errors.New("expense not found")

	// Journal errors
	ErrJournalMismatch = errors.New("journal replay does not reproduce account balance")
)
