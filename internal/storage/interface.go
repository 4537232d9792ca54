// Package storage persists saved strategies. The analytics core never
// touches this package; persistence is a collaborator of the presentation
// layer.
package storage

import (
	"time"

	"optionsanalyzer/internal/models"
)

// Strategy is a saved position plus the bookkeeping the original API kept
// per strategy.
type Strategy struct {
	ID           string          `json:"id"`
	Position     models.Position `json:"position"`
	Notes        string          `json:"notes,omitempty"`
	EntryPrice   float64         `json:"entry_price,omitempty"`
	TargetProfit float64         `json:"target_profit,omitempty"`
	StopLoss     float64         `json:"stop_loss,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StrategyUpdate carries the mutable fields of a stored strategy; nil
// pointers leave the existing value untouched.
type StrategyUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	TargetProfit *float64 `json:"target_profit,omitempty"`
	StopLoss     *float64 `json:"stop_loss,omitempty"`
	Status       *string  `json:"status,omitempty"`
}

// Interface defines the contract for strategy persistence.
//
// Implementations must be safe for concurrent use - callers can assume all
// methods are goroutine-safe. The provided JSONStorage uses sync.RWMutex to
// serialize access.
type Interface interface {
	CreateStrategy(s Strategy) (*Strategy, error)
	GetStrategy(id string) (*Strategy, error)
	ListStrategies(status string) []Strategy
	UpdateStrategy(id string, update StrategyUpdate) (*Strategy, error)
	DeleteStrategy(id string) error

	Save() error
	Load() error
}

// NewStorage creates a new storage implementation (currently JSON-based).
func NewStorage(filepath string) (Interface, error) {
	return NewJSONStorage(filepath)
}

// Ensure JSONStorage implements Interface.
var _ Interface = (*JSONStorage)(nil)
