package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncStatus is the overall outcome of a price-refresh batch.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusFailed  SyncStatus = "failed"
)

// MarketSyncLog records one price-refresh batch. Purely observational; it
// participates in no ledger invariant.
type MarketSyncLog struct {
	ID            string
	SyncedAt      time.Time
	HoldingsCount int
	FailedSymbols []string
	TotalValue    decimal.Decimal
	Status        SyncStatus
	ErrorMessage  string
}

// SyncSummary is returned to callers of a price-refresh run.
type SyncSummary struct {
	Succeeded     int
	FailedSymbols []string
	HoldingsValue decimal.Decimal
	Status        SyncStatus
}
