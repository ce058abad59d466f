package usecase

import (
	"context"
	"time"

	"github.com/moneta-app/moneta/internal/domain"
)

const (
	// DefaultTransactionTimeout caps how long one orchestrated mutation
	// may hold its row locks.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultPriceLookupTimeout bounds a single oracle call during sync.
	DefaultPriceLookupTimeout = 5 * time.Second

	// fullScanPageSize is the page size for reads that must visit every
	// row (dashboard totals, reconciliation sweeps).
	fullScanPageSize = 1000
)

// listAll pages through a List-style reader until a short page, so
// full-scan reads do not silently stop after the first page.
func listAll[T any](ctx context.Context, list func(ctx context.Context, limit, offset int) ([]T, error)) ([]T, error) {
	var all []T
	for offset := 0; ; offset += fullScanPageSize {
		page, err := list(ctx, fullScanPageSize, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < fullScanPageSize {
			return all, nil
		}
	}
}

// Policies are the engine's runtime calibration knobs. The zero value is
// not usable; construct with DefaultPolicies.
type Policies struct {
	Overspend   domain.OverspendPolicy
	Overpayment domain.OverpaymentPolicy
	// UnlinkTerminal permits decrementing spent on completed/cancelled
	// budgets when a linked expense is deleted.
	UnlinkTerminal bool
	// SyncExcludedAssetKinds are skipped by market-price sync.
	SyncExcludedAssetKinds map[domain.AssetKind]bool
	PriceLookupTimeout     time.Duration
}

// DefaultPolicies mirrors the application defaults: budget overspend is
// rejected, liability overpayment clamps at zero, terminal budgets still
// unlink, and bond/money-market/crypto positions are not price-synced.
func DefaultPolicies() Policies {
	return Policies{
		Overspend:      domain.OverspendReject,
		Overpayment:    domain.OverpaymentClamp,
		UnlinkTerminal: true,
		SyncExcludedAssetKinds: map[domain.AssetKind]bool{
			domain.AssetKindBond:        true,
			domain.AssetKindMoneyMarket: true,
			domain.AssetKindCrypto:      true,
		},
		PriceLookupTimeout: DefaultPriceLookupTimeout,
	}
}
