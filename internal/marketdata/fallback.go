package marketdata

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig controls how hard the fallback provider tries the primary
// source before giving up on it.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig retries twice with short exponential backoff; quote
// lookups sit on an interactive path, so patience is limited.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     2,
	InitialBackoff: 250 * time.Millisecond,
	MaxBackoff:     2 * time.Second,
}

// FallbackProvider serves from the primary provider, retrying with backoff,
// and falls back to a secondary (typically the mock) when the primary keeps
// failing. Mirrors the original API's behavior of serving synthetic data
// when the upstream quota is exhausted.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	logger    *logrus.Logger
	config    RetryConfig
}

// Ensure FallbackProvider implements Provider at compile time.
var _ Provider = (*FallbackProvider)(nil)

// NewFallbackProvider wires a primary and secondary provider together.
func NewFallbackProvider(primary, secondary Provider, logger *logrus.Logger, config ...RetryConfig) *FallbackProvider {
	cfg := DefaultRetryConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
		config:    cfg,
	}
}

// GetQuote tries the primary with retries, then the secondary.
func (f *FallbackProvider) GetQuote(symbol string) (*Quote, error) {
	return f.GetQuoteCtx(context.Background(), symbol)
}

// GetQuoteCtx tries the primary with retries, then the secondary.
func (f *FallbackProvider) GetQuoteCtx(ctx context.Context, symbol string) (*Quote, error) {
	quote, err := retryWithBackoff(ctx, f.config, func() (*Quote, error) {
		return f.primary.GetQuoteCtx(ctx, symbol)
	})
	if err == nil {
		return quote, nil
	}
	f.logger.WithError(err).WithField("symbol", symbol).
		Warn("primary quote source failed, serving fallback data")
	return f.secondary.GetQuoteCtx(ctx, symbol)
}

// GetImpliedVolatility tries the primary once, then the secondary. IV is
// already a defaulted value upstream, so retries buy nothing.
func (f *FallbackProvider) GetImpliedVolatility(symbol string) (float64, error) {
	iv, err := f.primary.GetImpliedVolatility(symbol)
	if err == nil {
		return iv, nil
	}
	return f.secondary.GetImpliedVolatility(symbol)
}

// GetOptionChain tries the primary with retries, then the secondary.
func (f *FallbackProvider) GetOptionChain(symbol string) (*Chain, error) {
	ctx := context.Background()
	chain, err := retryWithBackoff(ctx, f.config, func() (*Chain, error) {
		return f.primary.GetOptionChain(symbol)
	})
	if err == nil {
		return chain, nil
	}
	f.logger.WithError(err).WithField("symbol", symbol).
		Warn("primary chain source failed, serving fallback data")
	return f.secondary.GetOptionChain(symbol)
}

// retryWithBackoff runs fn up to MaxRetries+1 times with exponential
// backoff and jitter, respecting context cancellation between attempts.
func retryWithBackoff[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		res, err := fn()
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt == cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff + jitter(backoff)):
		}
		backoff *= 2
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}
	return zero, lastErr
}

// jitter returns a random duration in [0, d/2) to spread retries.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(d/2)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}
