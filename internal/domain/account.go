package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind distinguishes spending accounts from investment accounts.
type AccountKind string

const (
	AccountKindCash       AccountKind = "cash"
	AccountKindInvestment AccountKind = "investment"
)

// Account holds uninvested cash. For investment accounts Balance is the
// cash-not-yet-invested portion; market value lives on the holdings.
type Account struct {
	ID            string
	Name          string
	Kind          AccountKind
	Institution   string
	Currency      string
	Balance       decimal.Decimal
	HoldingsValue decimal.Decimal
	Version       int64
	Active        bool
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateDebit checks whether the account balance can absorb a debit.
// Balance may never go negative, for either account kind.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}

	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Projection is the derived value view of an account, recomputed on read
// from the account's active holdings.
type Projection struct {
	TotalValue      decimal.Decimal
	AvailableCash   decimal.Decimal
	InvestmentValue decimal.Decimal
}

// Project computes total value, available cash and investment value from
// the current balance and the given holdings. Holdings are the single
// source of truth for market value; nothing here is cached.
func (a *Account) Project(holdings []*Holding) Projection {
	p := Projection{
		TotalValue:      a.Balance,
		AvailableCash:   a.Balance,
		InvestmentValue: decimal.Zero,
	}

	for _, h := range holdings {
		if !h.Active || h.AccountID != a.ID {
			continue
		}

		v := h.CurrentValue
		p.TotalValue = p.TotalValue.Add(v)

		if h.Liquid {
			p.AvailableCash = p.AvailableCash.Add(v)
		} else {
			p.InvestmentValue = p.InvestmentValue.Add(v)
		}
	}

	return p
}
