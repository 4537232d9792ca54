// Package marketdata provides quote and option-chain retrieval for the
// analytics core. It includes the Alpha Vantage client implementation, a
// synthetic mock provider for offline use, and circuit-breaker / retry
// wrappers around any provider.
package marketdata

import "context"

// DefaultImpliedVolatility is used when the provider cannot supply an
// implied volatility reading (0.25 = 25% annualized).
const DefaultImpliedVolatility = 0.25

// Quote is a current market snapshot for a symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	PreviousClose float64 `json:"previous_close"`
	Volume        int64   `json:"volume"`
}

// Provider defines the contract for retrieving market data.
//
// The analytics core never calls a Provider itself; callers fetch the spot
// price and implied volatility up front and pass them in as plain values.
type Provider interface {
	// GetQuote returns the current quote for a symbol.
	GetQuote(symbol string) (*Quote, error)
	// GetQuoteCtx is GetQuote with context support.
	GetQuoteCtx(ctx context.Context, symbol string) (*Quote, error)
	// GetImpliedVolatility returns the base implied volatility for a
	// symbol, or DefaultImpliedVolatility when no reading is available.
	GetImpliedVolatility(symbol string) (float64, error)
	// GetOptionChain returns the option chain around the current price.
	GetOptionChain(symbol string) (*Chain, error)
}
