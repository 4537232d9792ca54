package marketdata

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// stubProvider counts calls and serves canned responses, failing until
// failuresLeft hits zero.
type stubProvider struct {
	calls        atomic.Int64
	failuresLeft atomic.Int64
	quote        Quote
}

func (s *stubProvider) GetQuote(symbol string) (*Quote, error) {
	return s.GetQuoteCtx(context.Background(), symbol)
}

func (s *stubProvider) GetQuoteCtx(_ context.Context, symbol string) (*Quote, error) {
	s.calls.Add(1)
	if s.failuresLeft.Add(-1) >= 0 {
		return nil, errors.New("upstream unavailable")
	}
	q := s.quote
	q.Symbol = symbol
	return &q, nil
}

func (s *stubProvider) GetImpliedVolatility(string) (float64, error) {
	if s.failuresLeft.Load() > 0 {
		return 0, errors.New("upstream unavailable")
	}
	return 0.30, nil
}

func (s *stubProvider) GetOptionChain(symbol string) (*Chain, error) {
	q, err := s.GetQuote(symbol)
	if err != nil {
		return nil, err
	}
	return GenerateChain(q.Symbol, q.Price, time.Now()), nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestFallbackProvider_PrimaryHealthy(t *testing.T) {
	primary := &stubProvider{quote: Quote{Price: 120}}
	secondary := &stubProvider{quote: Quote{Price: 999}}
	f := NewFallbackProvider(primary, secondary, quietLogger(), fastRetry())

	quote, err := f.GetQuote("AAPL")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if quote.Price != 120 {
		t.Errorf("Price = %v, want the primary's 120", quote.Price)
	}
	if secondary.calls.Load() != 0 {
		t.Errorf("secondary was called %d times", secondary.calls.Load())
	}
}

func TestFallbackProvider_RetriesThenSucceeds(t *testing.T) {
	primary := &stubProvider{quote: Quote{Price: 120}}
	primary.failuresLeft.Store(2)
	secondary := &stubProvider{quote: Quote{Price: 999}}
	f := NewFallbackProvider(primary, secondary, quietLogger(), fastRetry())

	quote, err := f.GetQuote("AAPL")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if quote.Price != 120 {
		t.Errorf("Price = %v, want 120 from the recovered primary", quote.Price)
	}
	if got := primary.calls.Load(); got != 3 {
		t.Errorf("primary called %d times, want 3", got)
	}
	if secondary.calls.Load() != 0 {
		t.Errorf("secondary was called %d times", secondary.calls.Load())
	}
}

func TestFallbackProvider_FallsBackToSecondary(t *testing.T) {
	primary := &stubProvider{quote: Quote{Price: 120}}
	primary.failuresLeft.Store(100)
	secondary := &stubProvider{quote: Quote{Price: 999}}
	f := NewFallbackProvider(primary, secondary, quietLogger(), fastRetry())

	quote, err := f.GetQuote("AAPL")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if quote.Price != 999 {
		t.Errorf("Price = %v, want the secondary's 999", quote.Price)
	}
	// MaxRetries=2 means three attempts before giving up.
	if got := primary.calls.Load(); got != 3 {
		t.Errorf("primary called %d times, want 3", got)
	}
}

func TestFallbackProvider_ContextCancellation(t *testing.T) {
	primary := &stubProvider{}
	primary.failuresLeft.Store(100)
	secondary := &stubProvider{}
	secondary.failuresLeft.Store(100)
	f := NewFallbackProvider(primary, secondary, quietLogger(), RetryConfig{
		MaxRetries:     5,
		InitialBackoff: time.Hour,
		MaxBackoff:     time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.GetQuoteCtx(ctx, "AAPL"); err == nil {
		t.Fatal("expected error after context cancellation")
	}
	// One attempt only; the backoff wait observes the dead context.
	if got := primary.calls.Load(); got > 1 {
		t.Errorf("primary called %d times after cancellation", got)
	}
}
