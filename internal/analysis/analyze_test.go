package analysis

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"optionsanalyzer/internal/models"
)

func TestAnalyze_LongCall(t *testing.T) {
	res, err := Analyze(context.Background(), longCall(t, 100, 5), 100, DefaultConfig(), NewSampler(42))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Empty {
		t.Error("Empty = true for a one-leg position")
	}
	if len(res.PayoffCurve) != 101 {
		t.Errorf("curve has %d points, want 101", len(res.PayoffCurve))
	}
	if res.MaxProfit != 4500 || res.MaxLoss != -500 {
		t.Errorf("extremes = %v/%v, want 4500/-500", res.MaxProfit, res.MaxLoss)
	}
	if len(res.BreakevenPrices) != 1 || res.BreakevenPrices[0] != 105 {
		t.Errorf("breakevens = %v, want [105]", res.BreakevenPrices)
	}
	if res.ProbabilityOfProfit < 0 || res.ProbabilityOfProfit > 100 {
		t.Errorf("probability = %d, out of [0, 100]", res.ProbabilityOfProfit)
	}
	if want := 4500.0 / 500.0; math.Abs(res.RiskRewardRatio-want) > 1e-12 {
		t.Errorf("risk/reward = %v, want %v", res.RiskRewardRatio, want)
	}
}

func TestAnalyze_DeterministicForSeed(t *testing.T) {
	pos := ironCondor(t)

	a, err := Analyze(context.Background(), pos, 100, DefaultConfig(), NewSampler(7))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Analyze(context.Background(), pos, 100, DefaultConfig(), NewSampler(7))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and inputs produced different results")
	}
}

func TestAnalyze_EmptyPosition(t *testing.T) {
	empty, _ := models.NewPosition("SPY", "empty", nil)

	res, err := Analyze(context.Background(), empty, 100, DefaultConfig(), NewSampler(1))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.Empty {
		t.Error("Empty = false for an empty position")
	}
	if res.MaxProfit != 0 || res.MaxLoss != 0 || res.ProbabilityOfProfit != 0 {
		t.Errorf("non-zero analytics for empty position: %+v", res)
	}
	if res.RiskRewardRatio != 0 {
		t.Errorf("risk/reward = %v for empty position, want 0", res.RiskRewardRatio)
	}
	if len(res.PayoffCurve) == 0 {
		t.Error("empty position should still carry a flat curve")
	}
	for _, pt := range res.PayoffCurve {
		if pt.PnL != 0 {
			t.Fatalf("flat curve has P&L %v at %v", pt.PnL, pt.Price)
		}
	}
}

func TestAnalyze_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleCount = 0

	var cfgErr *ConfigurationError
	_, err := Analyze(context.Background(), longCall(t, 100, 5), 100, cfg, NewSampler(1))
	if !errors.As(err, &cfgErr) {
		t.Errorf("got %v, want ConfigurationError", err)
	}
}

func TestAnalyze_NilSampler(t *testing.T) {
	res, err := Analyze(context.Background(), longCall(t, 100, 5), 100, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Analyze with nil sampler: %v", err)
	}
	if res.ProbabilityOfProfit < 0 || res.ProbabilityOfProfit > 100 {
		t.Errorf("probability = %d, out of [0, 100]", res.ProbabilityOfProfit)
	}
}
