// Package analysis implements the pure analytics core for multi-leg options
// positions: payoff curves, aggregate Greeks, probability-of-profit
// estimation, what-if scenarios, adjustment recommendations and roll
// suggestions. Every function is a pure computation over the position model
// plus caller-supplied market inputs; the package performs no I/O.
//
// The sensitivity and time-value formulas are deliberately coarse linear
// proxies, not a full pricing model. The recommendation thresholds are
// calibrated against them, so they must not be swapped for "more correct"
// Black-Scholes values.
package analysis

import (
	"math"
	"sort"

	"optionsanalyzer/internal/models"
)

// ContractMultiplier models the standard 100-share contract lot size.
// Every P&L figure in this package is in currency units of
// quantity * 100 * per-share value.
const ContractMultiplier = 100.0

// DefaultBreakevenTolerance is the absolute P&L band within which a grid
// point counts as a breakeven candidate.
const DefaultBreakevenTolerance = 50.0

// GridConfig controls the payoff sweep. The price range is
// [spot*LowFactor, spot*HighFactor] inclusive, stepped by the fixed
// absolute increment StepSize.
type GridConfig struct {
	LowFactor          float64
	HighFactor         float64
	StepSize           float64
	BreakevenTolerance float64
}

// DefaultGridConfig sweeps 50% below to 50% above spot in $1 steps.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		LowFactor:          0.5,
		HighFactor:         1.5,
		StepSize:           1.0,
		BreakevenTolerance: DefaultBreakevenTolerance,
	}
}

// Validate checks the sweep parameters.
func (g GridConfig) Validate() error {
	if g.StepSize <= 0 || math.IsNaN(g.StepSize) {
		return &ConfigurationError{Param: "step_size", Reason: "must be > 0"}
	}
	if g.LowFactor <= 0 {
		return &ConfigurationError{Param: "low_factor", Reason: "must be > 0"}
	}
	if g.HighFactor <= g.LowFactor {
		return &ConfigurationError{Param: "high_factor", Reason: "must be > low_factor"}
	}
	if g.BreakevenTolerance < 0 {
		return &ConfigurationError{Param: "breakeven_tolerance", Reason: "must be >= 0"}
	}
	return nil
}

// PayoffPoint is one (price, P&L) pair of a payoff curve.
type PayoffPoint struct {
	Price float64 `json:"price"`
	PnL   float64 `json:"pnl"`
}

// LegPnL returns the expiration P&L of a single leg at the given underlying
// price: intrinsic value against premium, signed by direction, scaled by
// quantity and the contract multiplier.
func LegPnL(leg models.Leg, price float64) float64 {
	intrinsic := leg.IntrinsicValue(price)
	perShare := intrinsic - leg.Premium
	if leg.Action == models.ActionSell {
		perShare = leg.Premium - intrinsic
	}
	return perShare * float64(leg.Quantity) * ContractMultiplier
}

// PositionPnLAt sums LegPnL over all legs at the given price. An empty
// position yields 0.
func PositionPnLAt(pos models.Position, price float64) float64 {
	total := 0.0
	for _, leg := range pos.Legs {
		total += LegPnL(leg, price)
	}
	return total
}

// ComputePayoffCurve sweeps the price grid and returns the per-price P&L of
// the position, prices ascending. The grid covers
// [spot*LowFactor, spot*HighFactor] inclusive of both ends when they land
// on the step grid.
func ComputePayoffCurve(pos models.Position, spot float64, cfg GridConfig) ([]PayoffPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if spot <= 0 || math.IsNaN(spot) || math.IsInf(spot, 0) {
		return nil, &ConfigurationError{Param: "spot_price", Reason: "must be a positive number"}
	}

	low := spot * cfg.LowFactor
	high := spot * cfg.HighFactor
	// Index-based stepping avoids accumulating float error across the sweep.
	// The epsilon keeps the upper bound inclusive when it lands on the grid.
	n := int(math.Floor((high-low)/cfg.StepSize + 1e-9))

	curve := make([]PayoffPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		price := low + float64(i)*cfg.StepSize
		curve = append(curve, PayoffPoint{Price: price, PnL: PositionPnLAt(pos, price)})
	}
	return curve, nil
}

// CurveExtremes returns the maximum and minimum P&L of a curve. Both are 0
// for an empty curve or an empty position's all-zero curve.
func CurveExtremes(curve []PayoffPoint) (maxProfit, maxLoss float64) {
	if len(curve) == 0 {
		return 0, 0
	}
	maxProfit, maxLoss = curve[0].PnL, curve[0].PnL
	for _, pt := range curve[1:] {
		if pt.PnL > maxProfit {
			maxProfit = pt.PnL
		}
		if pt.PnL < maxLoss {
			maxLoss = pt.PnL
		}
	}
	return maxProfit, maxLoss
}

// RiskRewardRatio is maxProfit / |maxLoss|, with +Inf as the sentinel for a
// position that cannot lose (maxLoss == 0).
func RiskRewardRatio(maxProfit, maxLoss float64) float64 {
	if maxLoss == 0 {
		return math.Inf(1)
	}
	return maxProfit / math.Abs(maxLoss)
}

// breakevenCluster is a run of adjacent grid points inside the tolerance
// band, reduced to its best representative.
type breakevenCluster struct {
	price  float64
	absPnL float64
}

// BreakevenPrices scans a payoff curve for prices where |P&L| falls below
// the absolute tolerance. Adjacent candidates are clustered into one
// crossing each, and at most two breakevens are reported in ascending price
// order. When candidates tie on |P&L| the one closer to spot wins.
func BreakevenPrices(curve []PayoffPoint, spot, tolerance float64) []float64 {
	var clusters []breakevenCluster
	inCluster := false
	for _, pt := range curve {
		if math.Abs(pt.PnL) >= tolerance {
			inCluster = false
			continue
		}
		cand := breakevenCluster{price: pt.Price, absPnL: math.Abs(pt.PnL)}
		if inCluster {
			last := &clusters[len(clusters)-1]
			if cand.absPnL < last.absPnL ||
				(cand.absPnL == last.absPnL && math.Abs(cand.price-spot) < math.Abs(last.price-spot)) {
				*last = cand
			}
		} else {
			clusters = append(clusters, cand)
		}
		inCluster = true
	}

	if len(clusters) > 2 {
		// Keep the two tightest crossings; ties go to the one nearer spot.
		sort.SliceStable(clusters, func(i, j int) bool {
			if clusters[i].absPnL != clusters[j].absPnL {
				return clusters[i].absPnL < clusters[j].absPnL
			}
			return math.Abs(clusters[i].price-spot) < math.Abs(clusters[j].price-spot)
		})
		clusters = clusters[:2]
	}

	prices := make([]float64, 0, len(clusters))
	for _, c := range clusters {
		prices = append(prices, c.price)
	}
	sort.Float64s(prices)
	return prices
}
