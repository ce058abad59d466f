package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLiability_ApplyPayment(t *testing.T) {
	tests := []struct {
		name        string
		outstanding decimal.Decimal
		amount      decimal.Decimal
		policy      OverpaymentPolicy
		expected    decimal.Decimal
		errorType   error
	}{
		{
			name:        "partial payment",
			outstanding: dec("1000"),
			amount:      dec("300"),
			policy:      OverpaymentClamp,
			expected:    dec("700"),
		},
		{
			name:        "exact payoff",
			outstanding: dec("1000"),
			amount:      dec("1000"),
			policy:      OverpaymentReject,
			expected:    decimal.Zero,
		},
		{
			name:        "overpayment clamps at zero",
			outstanding: dec("1000"),
			amount:      dec("1500"),
			policy:      OverpaymentClamp,
			expected:    decimal.Zero,
		},
		{
			name:        "overpayment rejected",
			outstanding: dec("1000"),
			amount:      dec("1500"),
			policy:      OverpaymentReject,
			errorType:   ErrOverpayment,
		},
		{
			name:        "zero amount rejected",
			outstanding: dec("1000"),
			amount:      decimal.Zero,
			policy:      OverpaymentClamp,
			errorType:   ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Liability{OutstandingPrincipal: tt.outstanding}

			got, err := l.ApplyPayment(tt.amount, tt.policy)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("expected principal %s, got %s", tt.expected, got)
			}
		})
	}
}
