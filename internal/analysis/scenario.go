package analysis

import (
	"math"

	"optionsanalyzer/internal/models"
)

// ScenarioParams describes a what-if shock: a percentage move in the
// underlying, a percentage move in implied volatility, and a remaining
// time-to-expiry. Constructed per evaluation and discarded.
type ScenarioParams struct {
	PriceShockPercent      float64 `json:"price_shock_percent"`
	VolatilityShockPercent float64 `json:"volatility_shock_percent"`
	DaysToExpiry           int     `json:"days_to_expiry"`
}

// Validate checks the shock bounds: price can drop at most 100%, volatility
// must stay positive after the shock, days cannot be negative.
func (p ScenarioParams) Validate() error {
	if p.PriceShockPercent < -100 || math.IsNaN(p.PriceShockPercent) {
		return &ConfigurationError{Param: "price_shock_percent", Reason: "must be >= -100"}
	}
	if p.VolatilityShockPercent <= -100 || math.IsNaN(p.VolatilityShockPercent) {
		return &ConfigurationError{Param: "volatility_shock_percent", Reason: "must be > -100"}
	}
	if p.DaysToExpiry < 0 {
		return &ConfigurationError{Param: "days_to_expiry", Reason: "must be >= 0"}
	}
	return nil
}

// ScenarioResult projects the position under the shocked inputs. The three
// impact terms are independent illustrative decompositions; they are not
// expected to sum to PnLChange and no reconciliation rule exists.
type ScenarioResult struct {
	ScenarioPrice      float64 `json:"scenario_price"`
	CurrentPnL         float64 `json:"current_pnl"`
	ScenarioPnL        float64 `json:"scenario_pnl"`
	PnLChange          float64 `json:"pnl_change"`
	DeltaImpact        float64 `json:"delta_impact"`
	VegaImpact         float64 `json:"vega_impact"`
	ThetaImpact        float64 `json:"theta_impact"`
	ScenarioVolatility float64 `json:"scenario_volatility"`
}

// SimulateScenario applies the price / volatility / time shocks and
// re-derives the position's P&L. Current P&L is intrinsic-only at spot.
// Scenario P&L values each leg at intrinsic plus a simplified time-value
// proxy that scales the premium by sqrt(days/30), adjusted for the
// volatility shock, whenever days to expiry remain.
func SimulateScenario(pos models.Position, spot, baseVolatility float64, params ScenarioParams) (ScenarioResult, error) {
	if err := params.Validate(); err != nil {
		return ScenarioResult{}, err
	}
	if spot <= 0 || math.IsNaN(spot) || math.IsInf(spot, 0) {
		return ScenarioResult{}, &ConfigurationError{Param: "spot_price", Reason: "must be a positive number"}
	}

	scenarioPrice := spot * (1 + params.PriceShockPercent/100)
	scenarioVol := baseVolatility * (1 + params.VolatilityShockPercent/100)

	currentPnL := PositionPnLAt(pos, spot)

	scenarioPnL := 0.0
	for _, leg := range pos.Legs {
		value := leg.IntrinsicValue(scenarioPrice)
		if params.DaysToExpiry > 0 {
			value += timeValueComponent(leg.Premium, params.DaysToExpiry, scenarioVol, baseVolatility)
		}
		perShare := value - leg.Premium
		if leg.Action == models.ActionSell {
			perShare = leg.Premium - value
		}
		scenarioPnL += perShare * float64(leg.Quantity) * ContractMultiplier
	}

	return ScenarioResult{
		ScenarioPrice:      scenarioPrice,
		CurrentPnL:         currentPnL,
		ScenarioPnL:        scenarioPnL,
		PnLChange:          scenarioPnL - currentPnL,
		DeltaImpact:        (scenarioPrice - spot) * 0.5 * 100,
		VegaImpact:         (scenarioVol - baseVolatility) * 100 * 15,
		ThetaImpact:        -(30 - float64(params.DaysToExpiry)) * 5,
		ScenarioVolatility: scenarioVol,
	}, nil
}

// timeValueComponent is the simplified time-decay proxy: premium scaled by
// the square root of remaining time relative to a 30-day reference, bumped
// by twice the absolute volatility change, at a 0.3 weight.
func timeValueComponent(premium float64, days int, scenarioVol, baseVol float64) float64 {
	timeRatio := (float64(days) / 365.0) / (30.0 / 365.0)
	return premium * math.Sqrt(timeRatio) * (1 + (scenarioVol-baseVol)*2) * 0.3
}
