// Package oracle provides price lookup clients for market sync.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Client fetches quotes from an HTTP quote service. The service is
// expected to answer GET {base}/quote?symbol=X with {"symbol": "...",
// "price": "123.45"}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new quote client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type quoteResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetPrice implements usecase.PriceOracle.
func (c *Client) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	u := c.baseURL + "/quote?symbol=" + url.QueryEscape(symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote request for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote request for %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return decimal.Zero, fmt.Errorf("decode quote for %s: %w", symbol, err)
	}

	price, err := decimal.NewFromString(quote.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse quote price %q for %s: %w", quote.Price, symbol, err)
	}

	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative quote price for %s", symbol)
	}

	return price, nil
}
