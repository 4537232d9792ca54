package models

// RecommendationKind classifies an adjustment recommendation.
type RecommendationKind string

const (
	// RecommendClose advises closing the entire position.
	RecommendClose RecommendationKind = "close"
	// RecommendRoll advises rolling to different strikes or expirations.
	RecommendRoll RecommendationKind = "roll"
	// RecommendAdjust advises a structural adjustment.
	RecommendAdjust RecommendationKind = "adjust"
	// RecommendTakeProfit advises locking in profits.
	RecommendTakeProfit RecommendationKind = "take_profit"
	// RecommendPartialClose advises closing part of the position.
	RecommendPartialClose RecommendationKind = "partial_close"
	// RecommendInfo carries an informational note, not an action.
	RecommendInfo RecommendationKind = "info"
)

// Urgency ranks how pressing a recommendation is.
type Urgency string

const (
	// UrgencyHigh means act now.
	UrgencyHigh Urgency = "high"
	// UrgencyMedium means act soon.
	UrgencyMedium Urgency = "medium"
	// UrgencyLow means act at leisure.
	UrgencyLow Urgency = "low"
	// UrgencyInfo marks purely informational notes.
	UrgencyInfo Urgency = "info"
)

// Recommendation is one entry of the adjustment advisor's output. Produced
// fresh on each invocation and never mutated afterward.
type Recommendation struct {
	Kind            RecommendationKind `json:"kind"`
	Urgency         Urgency            `json:"urgency"`
	Rationale       string             `json:"rationale"`
	SuggestedAction string             `json:"suggested_action"`
}

// RollSuggestion proposes a concrete replacement leg for an existing one.
// EstimatedCreditDebit is a fixed placeholder, not derived from market data.
type RollSuggestion struct {
	Original             string  `json:"original"`
	Suggested            string  `json:"suggested"`
	Rationale            string  `json:"rationale"`
	EstimatedCreditDebit string  `json:"estimated_credit_debit"`
	NewStrike            float64 `json:"new_strike"`
	Replacement          Leg     `json:"replacement"`
}
