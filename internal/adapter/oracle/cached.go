package oracle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/usecase"
)

// CachedOracle decorates a PriceOracle with a short-TTL cache. A cache
// miss or a cache error falls through to the inner oracle; quotes are
// cached best-effort.
type CachedOracle struct {
	inner usecase.PriceOracle
	cache usecase.Cache
	ttl   time.Duration
}

// NewCachedOracle creates a new CachedOracle.
func NewCachedOracle(inner usecase.PriceOracle, cache usecase.Cache, ttl time.Duration) *CachedOracle {
	return &CachedOracle{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

// GetPrice implements usecase.PriceOracle.
func (o *CachedOracle) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	key := "quote:" + symbol

	if raw, err := o.cache.Get(ctx, key); err == nil {
		if price, perr := decimal.NewFromString(string(raw)); perr == nil {
			return price, nil
		}
	}

	price, err := o.inner.GetPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	_ = o.cache.Set(ctx, key, []byte(price.String()), o.ttl)

	return price, nil
}
