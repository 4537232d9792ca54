package analysis

import (
	"fmt"

	"optionsanalyzer/internal/models"
)

// rollStrikeStep is the fixed absolute strike shift for roll suggestions,
// independent of strike magnitude: calls roll up, puts roll down.
const rollStrikeStep = 5.0

// Placeholder credit/debit estimates. These are fixed labels, not market
// quotes; real fills come from the broker.
const (
	rollCreditEstimate = "+0.50"
	rollDebitEstimate  = "-0.50"
)

// GenerateRollSuggestions proposes one replacement leg per existing leg:
// the same contract shifted $5 away from risk (calls up, puts down). The
// replacement leg is constructed fresh, leaving the original untouched.
// Legs whose shifted strike would not be a valid strike (puts struck at or
// below $5) yield no suggestion.
func GenerateRollSuggestions(pos models.Position) []models.RollSuggestion {
	suggestions := make([]models.RollSuggestion, 0, len(pos.Legs))
	for _, leg := range pos.Legs {
		newStrike := leg.Strike + rollStrikeStep
		direction := "up"
		if leg.Type == models.OptionPut {
			newStrike = leg.Strike - rollStrikeStep
			direction = "down"
		}
		if newStrike <= 0 {
			continue
		}

		replacement := leg
		replacement.Strike = newStrike

		estimate := rollDebitEstimate
		if leg.Action == models.ActionSell {
			estimate = rollCreditEstimate
		}

		suggestions = append(suggestions, models.RollSuggestion{
			Original:             leg.Description(),
			Suggested:            replacement.Description(),
			Rationale:            fmt.Sprintf("Roll the %s %s $%.0f %s to reduce risk from price movement", leg.Action, leg.Type, rollStrikeStep, direction),
			EstimatedCreditDebit: estimate,
			NewStrike:            newStrike,
			Replacement:          replacement,
		})
	}
	return suggestions
}
