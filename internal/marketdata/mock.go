package marketdata

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"
)

// Baseline prices for well-known symbols so the mock produces stable,
// recognizable data. Unknown symbols get a random base in [50, 500).
var mockBasePrices = map[string]float64{
	"AAPL":  185.50,
	"MSFT":  378.90,
	"GOOGL": 141.80,
	"NVDA":  495.20,
	"TSLA":  248.50,
	"SPY":   475.30,
	"META":  385.60,
	"AMZN":  178.25,
}

// MockProvider serves synthetic quotes and chains without any network
// dependency. Prices drift a little on each call to feel alive.
type MockProvider struct {
	mu     sync.Mutex
	prices map[string]float64
	iv     float64
	now    func() time.Time
}

// Ensure MockProvider implements Provider at compile time.
var _ Provider = (*MockProvider)(nil)

// secureFloat64 generates a cryptographically secure random float64 in [0, 1).
func secureFloat64() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		// Fallback to a reasonable default if crypto/rand fails
		return 0.5
	}
	return float64(n.Int64()) / (1 << 53)
}

// secureInt63n generates a cryptographically secure random int64 in [0, n).
func secureInt63n(n int64) int64 {
	r, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return n / 2
	}
	return r.Int64()
}

// NewMockProvider returns a provider seeded with the baseline price table
// and an implied volatility around 20-30%.
func NewMockProvider() *MockProvider {
	prices := make(map[string]float64, len(mockBasePrices))
	for sym, p := range mockBasePrices {
		prices[sym] = p
	}
	return &MockProvider{
		prices: prices,
		iv:     0.20 + secureFloat64()*0.10,
		now:    time.Now,
	}
}

// GetQuote returns a synthetic quote, drifting the price slightly per call.
func (m *MockProvider) GetQuote(symbol string) (*Quote, error) {
	return m.GetQuoteCtx(context.Background(), symbol)
}

// GetQuoteCtx implements Provider; the mock never blocks so the context is
// unused.
func (m *MockProvider) GetQuoteCtx(_ context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(symbol)

	m.mu.Lock()
	price, ok := m.prices[symbol]
	if !ok {
		price = 50 + secureFloat64()*450
	}
	// Simulate small price movements
	price += (secureFloat64() - 0.5) * 2
	m.prices[symbol] = price
	m.mu.Unlock()

	change := (secureFloat64() - 0.5) * 8
	return &Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: change / price * 100,
		PreviousClose: price - change,
		Volume:        secureInt63n(100_000_000),
	}, nil
}

// GetImpliedVolatility returns the mock's drifting IV level.
func (m *MockProvider) GetImpliedVolatility(symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.iv += (secureFloat64() - 0.5) * 0.01
	if m.iv < 0.10 {
		m.iv = 0.10
	}
	if m.iv > 0.90 {
		m.iv = 0.90
	}
	return m.iv, nil
}

// GetOptionChain generates a synthetic chain around the mock quote.
func (m *MockProvider) GetOptionChain(symbol string) (*Chain, error) {
	quote, err := m.GetQuote(symbol)
	if err != nil {
		return nil, err
	}
	return GenerateChain(quote.Symbol, quote.Price, m.now()), nil
}
