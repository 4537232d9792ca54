package analysis

import (
	"math"
	"math/rand"
	"time"

	"github.com/montanaflynn/stats"

	"optionsanalyzer/internal/models"
)

// DefaultSampleCount is the Monte Carlo sample size used when the caller
// does not specify one.
const DefaultSampleCount = 100

// Sampling band around spot. Prices are drawn uniformly, not lognormally;
// the uniform draw is the documented behavior.
const (
	sampleLowFactor  = 0.8
	sampleHighFactor = 1.2
)

// Sampler estimates probability of profit by Monte Carlo over a uniform
// price band. The RNG is injected through the seed so tests are
// deterministic; production callers use NewDefaultSampler.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler with a fixed seed. Identical seed and inputs
// yield bit-identical estimates.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// NewDefaultSampler returns a sampler seeded from the wall clock.
func NewDefaultSampler() *Sampler {
	return NewSampler(time.Now().UnixNano())
}

// EstimateProbabilityOfProfit draws sampleCount prices uniformly from
// [0.8*spot, 1.2*spot], evaluates the position's expiration P&L at each,
// and returns the percentage of profitable samples rounded to the nearest
// integer, always in [0, 100].
func (s *Sampler) EstimateProbabilityOfProfit(pos models.Position, spot float64, sampleCount int) (int, error) {
	pnls, err := s.samplePnLs(pos, spot, sampleCount)
	if err != nil {
		return 0, err
	}
	return probabilityFrom(pnls), nil
}

// ProbabilityDetail augments the integer probability with summary
// statistics over the sampled P&L distribution.
type ProbabilityDetail struct {
	Probability int     `json:"probability"`
	MeanPnL     float64 `json:"mean_pnl"`
	MedianPnL   float64 `json:"median_pnl"`
	P5PnL       float64 `json:"p5_pnl"`
	P95PnL      float64 `json:"p95_pnl"`
}

// EstimateWithDetail runs the same estimation as
// EstimateProbabilityOfProfit and summarizes the sampled distribution.
func (s *Sampler) EstimateWithDetail(pos models.Position, spot float64, sampleCount int) (ProbabilityDetail, error) {
	pnls, err := s.samplePnLs(pos, spot, sampleCount)
	if err != nil {
		return ProbabilityDetail{}, err
	}

	detail := ProbabilityDetail{Probability: probabilityFrom(pnls)}
	// stats errors only on empty input, which samplePnLs has ruled out.
	detail.MeanPnL, _ = stats.Mean(pnls)
	detail.MedianPnL, _ = stats.Median(pnls)
	detail.P5PnL, _ = stats.Percentile(pnls, 5)
	detail.P95PnL, _ = stats.Percentile(pnls, 95)
	return detail, nil
}

func (s *Sampler) samplePnLs(pos models.Position, spot float64, sampleCount int) ([]float64, error) {
	if sampleCount <= 0 {
		return nil, &ConfigurationError{Param: "sample_count", Reason: "must be > 0"}
	}
	if spot <= 0 || math.IsNaN(spot) || math.IsInf(spot, 0) {
		return nil, &ConfigurationError{Param: "spot_price", Reason: "must be a positive number"}
	}

	low := spot * sampleLowFactor
	high := spot * sampleHighFactor
	pnls := make([]float64, sampleCount)
	for i := range pnls {
		price := low + s.rng.Float64()*(high-low)
		pnls[i] = PositionPnLAt(pos, price)
	}
	return pnls, nil
}

func probabilityFrom(pnls []float64) int {
	profitable := 0
	for _, pnl := range pnls {
		if pnl > 0 {
			profitable++
		}
	}
	return int(math.Round(100 * float64(profitable) / float64(len(pnls))))
}
