package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"optionsanalyzer/internal/models"
)

// Config bundles the knobs for a full analysis run.
type Config struct {
	Grid        GridConfig
	SampleCount int
}

// DefaultConfig returns the default sweep and sampling parameters.
func DefaultConfig() Config {
	return Config{
		Grid:        DefaultGridConfig(),
		SampleCount: DefaultSampleCount,
	}
}

// Validate checks all analysis parameters.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.SampleCount <= 0 {
		return &ConfigurationError{Param: "sample_count", Reason: "must be > 0"}
	}
	return nil
}

// AnalysisResult aggregates everything a presentation layer needs to render
// a position. Recomputed on demand and never persisted by this package.
// Empty distinguishes "no legs" from a position that genuinely nets to
// zero everywhere.
type AnalysisResult struct {
	PayoffCurve         []PayoffPoint `json:"payoff_curve"`
	Greeks              Greeks        `json:"greeks"`
	MaxProfit           float64       `json:"max_profit"`
	MaxLoss             float64       `json:"max_loss"`
	BreakevenPrices     []float64     `json:"breakeven_prices"`
	ProbabilityOfProfit int           `json:"probability_of_profit"`
	RiskRewardRatio     float64       `json:"risk_reward_ratio"`
	Empty               bool          `json:"empty"`
}

// Analyze runs the full component chain for a position: payoff sweep,
// Greeks aggregation and probability estimation. The three computations are
// independent, so they fan out on an errgroup; results are deterministic
// for a fixed sampler seed regardless of scheduling. A nil sampler gets a
// wall-clock seed.
func Analyze(ctx context.Context, pos models.Position, spot float64, cfg Config, sampler *Sampler) (*AnalysisResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sampler == nil {
		sampler = NewDefaultSampler()
	}

	if pos.IsEmpty() {
		// All-zero result, flagged. The curve is still swept so callers can
		// render a flat line.
		curve, err := ComputePayoffCurve(pos, spot, cfg.Grid)
		if err != nil {
			return nil, err
		}
		return &AnalysisResult{PayoffCurve: curve, Empty: true}, nil
	}

	result := &AnalysisResult{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		curve, err := ComputePayoffCurve(pos, spot, cfg.Grid)
		if err != nil {
			return err
		}
		maxProfit, maxLoss := CurveExtremes(curve)
		result.PayoffCurve = curve
		result.MaxProfit = maxProfit
		result.MaxLoss = maxLoss
		result.BreakevenPrices = BreakevenPrices(curve, spot, cfg.Grid.BreakevenTolerance)
		result.RiskRewardRatio = RiskRewardRatio(maxProfit, maxLoss)
		return nil
	})
	g.Go(func() error {
		result.Greeks = ComputeGreeks(pos, spot)
		return nil
	})
	g.Go(func() error {
		pop, err := sampler.EstimateProbabilityOfProfit(pos, spot, cfg.SampleCount)
		if err != nil {
			return err
		}
		result.ProbabilityOfProfit = pop
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
