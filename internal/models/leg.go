// Package models defines the immutable position model shared by the
// analytics core and its collaborators.
package models

import (
	"fmt"
	"math"
	"strings"
)

// defaultLegIV is applied when a leg is created without an explicit
// implied volatility (0.20 = 20% annualized).
const defaultLegIV = 0.20

// OptionType identifies the contract type of a leg.
type OptionType string

const (
	// OptionCall is a call option.
	OptionCall OptionType = "call"
	// OptionPut is a put option.
	OptionPut OptionType = "put"
)

// Valid returns true if the OptionType is one of the defined constants.
func (t OptionType) Valid() bool {
	switch t {
	case OptionCall, OptionPut:
		return true
	default:
		return false
	}
}

// Action identifies the direction of a leg: buy is long, sell is short.
type Action string

const (
	// ActionBuy opens a long contract.
	ActionBuy Action = "buy"
	// ActionSell opens a short contract.
	ActionSell Action = "sell"
)

// Valid returns true if the Action is one of the defined constants.
func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionSell:
		return true
	default:
		return false
	}
}

// Sign returns +1 for long legs and -1 for short legs.
func (a Action) Sign() float64 {
	if a == ActionSell {
		return -1
	}
	return 1
}

// ValidationError reports a leg that violates its construction invariants.
// It is raised at the boundary (NewLeg / NewPosition) and never surfaces
// mid-computation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid leg: %s %s", e.Field, e.Reason)
}

// Leg is one option contract within a strategy. Legs are immutable once
// created; replacing a leg means constructing a new one (rolling does this).
type Leg struct {
	Type              OptionType `json:"type"`
	Action            Action     `json:"action"`
	Strike            float64    `json:"strike"`
	Premium           float64    `json:"premium"`
	Quantity          int        `json:"quantity"`
	ImpliedVolatility float64    `json:"implied_volatility,omitempty"`
	ExpirationDays    int        `json:"expiration_days,omitempty"`
}

// NewLeg constructs and validates a leg. The implied volatility defaults to
// 20% and can be overridden with WithVolatility.
func NewLeg(optType OptionType, action Action, strike, premium float64, quantity int) (Leg, error) {
	l := Leg{
		Type:              optType,
		Action:            action,
		Strike:            strike,
		Premium:           premium,
		Quantity:          quantity,
		ImpliedVolatility: defaultLegIV,
	}
	if err := l.Validate(); err != nil {
		return Leg{}, err
	}
	return l, nil
}

// WithVolatility returns a copy of the leg with the given implied
// volatility. Non-positive values fall back to the default.
func (l Leg) WithVolatility(iv float64) Leg {
	if iv <= 0 {
		iv = defaultLegIV
	}
	l.ImpliedVolatility = iv
	return l
}

// WithExpirationDays returns a copy of the leg with the given calendar days
// to expiration. Negative values clamp to 0 (expired).
func (l Leg) WithExpirationDays(days int) Leg {
	if days < 0 {
		days = 0
	}
	l.ExpirationDays = days
	return l
}

// Validate checks the leg construction invariants:
// strike > 0, premium > 0, quantity >= 1, known type and action.
func (l Leg) Validate() error {
	if !l.Type.Valid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("must be %q or %q", OptionCall, OptionPut)}
	}
	if !l.Action.Valid() {
		return &ValidationError{Field: "action", Reason: fmt.Sprintf("must be %q or %q", ActionBuy, ActionSell)}
	}
	if l.Strike <= 0 || math.IsNaN(l.Strike) || math.IsInf(l.Strike, 0) {
		return &ValidationError{Field: "strike", Reason: "must be a positive number"}
	}
	if l.Premium <= 0 || math.IsNaN(l.Premium) || math.IsInf(l.Premium, 0) {
		return &ValidationError{Field: "premium", Reason: "must be a positive number"}
	}
	if l.Quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be >= 1"}
	}
	if l.ExpirationDays < 0 {
		return &ValidationError{Field: "expiration_days", Reason: "must be >= 0"}
	}
	return nil
}

// IntrinsicValue returns the in-the-money amount of the leg at the given
// underlying price, ignoring time value.
func (l Leg) IntrinsicValue(price float64) float64 {
	if l.Type == OptionCall {
		return math.Max(0, price-l.Strike)
	}
	return math.Max(0, l.Strike-price)
}

// Description renders the leg the way order tickets do, e.g. "SELL CALL $105.00".
func (l Leg) Description() string {
	return fmt.Sprintf("%s %s $%.2f",
		strings.ToUpper(string(l.Action)), strings.ToUpper(string(l.Type)), l.Strike)
}
