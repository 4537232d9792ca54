package analysis

import (
	"fmt"

	"optionsanalyzer/internal/models"
)

// Advisor P&L thresholds, in P&L currency units. The classification bands
// are calibrated against the simplified payoff and Greeks proxies in this
// package.
const (
	advisorLossThreshold   = -100.0
	advisorProfitThreshold = 200.0
)

// adviceContext is the advisor's view of a position: its current P&L and
// leg composition.
type adviceContext struct {
	pnl   float64
	calls int
	puts  int
}

// adviceRule pairs a predicate with a recommendation template. Rules are
// evaluated in declaration order and every matching rule contributes one
// recommendation; the output order is the table order, never re-sorted by
// urgency.
type adviceRule struct {
	applies func(adviceContext) bool
	build   func(adviceContext) models.Recommendation
}

var adviceRules = []adviceRule{
	{
		applies: func(c adviceContext) bool { return c.pnl < advisorLossThreshold },
		build: func(c adviceContext) models.Recommendation {
			return models.Recommendation{
				Kind:            models.RecommendClose,
				Urgency:         models.UrgencyHigh,
				Rationale:       fmt.Sprintf("Position is down $%.2f. Consider closing to limit further losses.", -c.pnl),
				SuggestedAction: "Close entire position",
			}
		},
	},
	{
		// Deep losses always pair the close recommendation with a roll.
		applies: func(c adviceContext) bool { return c.pnl < advisorLossThreshold },
		build: func(c adviceContext) models.Recommendation {
			return models.Recommendation{
				Kind:            models.RecommendRoll,
				Urgency:         models.UrgencyMedium,
				Rationale:       "Rolling to a later expiration or different strikes can reduce risk.",
				SuggestedAction: "Roll to further expiration or different strikes",
			}
		},
	},
	{
		applies: func(c adviceContext) bool { return c.pnl >= advisorLossThreshold && c.pnl < 0 },
		build: func(c adviceContext) models.Recommendation {
			return models.Recommendation{
				Kind:            models.RecommendAdjust,
				Urgency:         models.UrgencyMedium,
				Rationale:       fmt.Sprintf("Position is down $%.2f. A small adjustment may repair the trade.", -c.pnl),
				SuggestedAction: "Adjust the losing side",
			}
		},
	},
	{
		applies: func(c adviceContext) bool { return c.pnl > advisorProfitThreshold },
		build: func(c adviceContext) models.Recommendation {
			return models.Recommendation{
				Kind:            models.RecommendTakeProfit,
				Urgency:         models.UrgencyLow,
				Rationale:       fmt.Sprintf("Position is up $%.2f.", c.pnl),
				SuggestedAction: "Consider closing to lock in profits",
			}
		},
	},
	{
		applies: func(c adviceContext) bool { return c.pnl > 0 && c.pnl <= advisorProfitThreshold },
		build: func(c adviceContext) models.Recommendation {
			return models.Recommendation{
				Kind:            models.RecommendPartialClose,
				Urgency:         models.UrgencyLow,
				Rationale:       fmt.Sprintf("Position is up $%.2f.", c.pnl),
				SuggestedAction: "Consider closing half the position",
			}
		},
	},
	{
		// Two calls, no puts: vertical call spread shape.
		applies: func(c adviceContext) bool { return c.calls == 2 && c.puts == 0 },
		build: func(c adviceContext) models.Recommendation {
			return models.Recommendation{
				Kind:            models.RecommendAdjust,
				Urgency:         models.UrgencyMedium,
				Rationale:       "Vertical call spread detected. If price moved through the spread, rolling the strikes keeps the structure intact.",
				SuggestedAction: "Roll both strikes in the direction of the move",
			}
		},
	},
	{
		// Two calls, two puts: iron condor shape.
		applies: func(c adviceContext) bool { return c.calls == 2 && c.puts == 2 },
		build: func(c adviceContext) models.Recommendation {
			return models.Recommendation{
				Kind:            models.RecommendAdjust,
				Urgency:         models.UrgencyMedium,
				Rationale:       "Iron condor detected. Consider adjusting the tested wing.",
				SuggestedAction: "Roll the threatened side further out-of-the-money or close that side",
			}
		},
	},
	{
		// Always appended.
		applies: func(adviceContext) bool { return true },
		build: func(adviceContext) models.Recommendation {
			return models.Recommendation{
				Kind:            models.RecommendInfo,
				Urgency:         models.UrgencyInfo,
				Rationale:       "Time decay accelerates in the final 2 weeks before expiration.",
				SuggestedAction: "Monitor theta and consider rolling if holding through expiration",
			}
		},
	},
}

// GenerateAdjustmentRecommendations classifies the position's P&L state and
// leg shape against the fixed rule table and returns the matching
// recommendations in table order. An empty position yields only the
// informational time-decay note.
func GenerateAdjustmentRecommendations(pos models.Position, currentPnL float64) []models.Recommendation {
	calls, puts := pos.CountByType()
	ctx := adviceContext{pnl: currentPnL, calls: calls, puts: puts}

	var recs []models.Recommendation
	for _, rule := range adviceRules {
		if rule.applies(ctx) {
			recs = append(recs, rule.build(ctx))
		}
	}
	return recs
}
