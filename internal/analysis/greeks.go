package analysis

import "optionsanalyzer/internal/models"

// Per-contract sensitivity proxies. These are linear approximations, not
// Black-Scholes Greeks; the advisor thresholds are calibrated against them.
const (
	gammaPerContract = 0.05
	thetaPerContract = -0.1
	vegaPerContract  = 0.15
)

// Greeks holds position-level sensitivity estimates summed across legs.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

// ComputeGreeks aggregates the simplified per-leg sensitivities into
// position totals. Per leg, with moneyness m = (spot-strike)/spot for calls
// and (strike-spot)/spot for puts, and sign +1 long / -1 short:
//
//	delta = (0.5 + m) * sign * qty   (calls)
//	delta = (-0.5 + m) * sign * qty  (puts)
//	gamma = 0.05 * sign * qty
//	theta = -0.1 * sign * qty
//	vega  = 0.15 * sign * qty
//
// A non-positive spot yields all zeros rather than NaN.
func ComputeGreeks(pos models.Position, spot float64) Greeks {
	if spot <= 0 {
		return Greeks{}
	}

	var g Greeks
	for _, leg := range pos.Legs {
		sign := leg.Action.Sign()
		qty := float64(leg.Quantity)

		var moneyness, delta float64
		if leg.Type == models.OptionCall {
			moneyness = (spot - leg.Strike) / spot
			delta = (0.5 + moneyness) * sign * qty
		} else {
			moneyness = (leg.Strike - spot) / spot
			delta = (-0.5 + moneyness) * sign * qty
		}

		g.Delta += delta
		g.Gamma += gammaPerContract * sign * qty
		g.Theta += thetaPerContract * sign * qty
		g.Vega += vegaPerContract * sign * qty
	}
	return g
}
