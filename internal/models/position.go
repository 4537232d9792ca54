package models

import "time"

// Position is an ordered collection of legs plus identity metadata. Leg
// order is irrelevant to computation. An empty position is valid and yields
// an all-zero analysis result, flagged so callers can distinguish "no data"
// from "zero P&L".
type Position struct {
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Legs      []Leg     `json:"legs"`
}

// NewPosition constructs a position, validating every leg. The legs slice
// is copied so later mutation of the caller's slice cannot reach the
// position.
func NewPosition(ticker, name string, legs []Leg) (Position, error) {
	for _, l := range legs {
		if err := l.Validate(); err != nil {
			return Position{}, err
		}
	}
	copied := make([]Leg, len(legs))
	copy(copied, legs)
	return Position{
		Ticker:    ticker,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Legs:      copied,
	}, nil
}

// IsEmpty returns true when the position has no legs.
func (p Position) IsEmpty() bool {
	return len(p.Legs) == 0
}

// WithLeg returns a new position with the leg appended. The receiver is
// unchanged.
func (p Position) WithLeg(leg Leg) (Position, error) {
	if err := leg.Validate(); err != nil {
		return Position{}, err
	}
	legs := make([]Leg, len(p.Legs), len(p.Legs)+1)
	copy(legs, p.Legs)
	p.Legs = append(legs, leg)
	return p, nil
}

// ReplaceLeg returns a new position with the leg at index i swapped for the
// replacement. Used by rolling.
func (p Position) ReplaceLeg(i int, leg Leg) (Position, error) {
	if i < 0 || i >= len(p.Legs) {
		return Position{}, &ValidationError{Field: "leg index", Reason: "out of range"}
	}
	if err := leg.Validate(); err != nil {
		return Position{}, err
	}
	legs := make([]Leg, len(p.Legs))
	copy(legs, p.Legs)
	legs[i] = leg
	p.Legs = legs
	return p, nil
}

// CountByType returns how many call and put legs the position holds.
func (p Position) CountByType() (calls, puts int) {
	for _, l := range p.Legs {
		if l.Type == OptionCall {
			calls++
		} else {
			puts++
		}
	}
	return calls, puts
}

// MaxExpirationDays returns the largest remaining calendar days across all
// legs, 0 for an empty position.
func (p Position) MaxExpirationDays() int {
	days := 0
	for _, l := range p.Legs {
		if l.ExpirationDays > days {
			days = l.ExpirationDays
		}
	}
	return days
}
