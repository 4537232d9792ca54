package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Strategy status values.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// JSONStorage keeps all strategies in a single JSON file, guarded by an
// RWMutex and written atomically via temp-file rename.
type JSONStorage struct {
	mu       sync.RWMutex
	filepath string
	data     *storageData
}

type storageData struct {
	Strategies  map[string]Strategy `json:"strategies"`
	LastUpdated time.Time           `json:"last_updated"`
}

// NewJSONStorage opens (or initializes) the strategy file at path.
func NewJSONStorage(filepath string) (*JSONStorage, error) {
	s := &JSONStorage{
		filepath: filepath,
		data: &storageData{
			Strategies: make(map[string]Strategy),
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(filepath); err == nil {
		if err := s.Load(); err != nil {
			return nil, fmt.Errorf("loading storage: %w", err)
		}
	}

	return s, nil
}

// Load reads the strategy file from disk.
func (s *JSONStorage) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filepath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, s.data); err != nil {
		return err
	}
	if s.data.Strategies == nil {
		s.data.Strategies = make(map[string]Strategy)
	}
	return nil
}

// Save writes the strategy file atomically.
func (s *JSONStorage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *JSONStorage) saveLocked() error {
	s.data.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first, then atomic rename
	tmpFile := s.filepath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpFile, s.filepath)
}

// CreateStrategy stores a new strategy, assigning its ID, status and
// timestamps. Returns the stored copy.
func (s *JSONStorage) CreateStrategy(strategy Strategy) (*Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	strategy.ID = uuid.New().String()
	if strategy.Status == "" {
		strategy.Status = StatusActive
	}
	strategy.CreatedAt = now
	strategy.UpdatedAt = now

	s.data.Strategies[strategy.ID] = strategy
	if err := s.saveLocked(); err != nil {
		return nil, err
	}
	stored := strategy
	return &stored, nil
}

// GetStrategy returns the strategy with the given ID.
func (s *JSONStorage) GetStrategy(id string) (*Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	strategy, ok := s.data.Strategies[id]
	if !ok {
		return nil, ErrStrategyNotFound
	}
	return &strategy, nil
}

// ListStrategies returns all strategies, newest first, optionally filtered
// by status.
func (s *JSONStorage) ListStrategies(status string) []Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	strategies := make([]Strategy, 0, len(s.data.Strategies))
	for _, strategy := range s.data.Strategies {
		if status != "" && strategy.Status != status {
			continue
		}
		strategies = append(strategies, strategy)
	}
	sort.Slice(strategies, func(i, j int) bool {
		return strategies[i].CreatedAt.After(strategies[j].CreatedAt)
	})
	return strategies
}

// UpdateStrategy applies the non-nil fields of the update and bumps
// UpdatedAt. Returns the updated copy.
func (s *JSONStorage) UpdateStrategy(id string, update StrategyUpdate) (*Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	strategy, ok := s.data.Strategies[id]
	if !ok {
		return nil, ErrStrategyNotFound
	}

	if update.Name != nil {
		strategy.Position.Name = *update.Name
	}
	if update.Notes != nil {
		strategy.Notes = *update.Notes
	}
	if update.TargetProfit != nil {
		strategy.TargetProfit = *update.TargetProfit
	}
	if update.StopLoss != nil {
		strategy.StopLoss = *update.StopLoss
	}
	if update.Status != nil {
		strategy.Status = *update.Status
	}
	strategy.UpdatedAt = time.Now().UTC()

	s.data.Strategies[id] = strategy
	if err := s.saveLocked(); err != nil {
		return nil, err
	}
	return &strategy, nil
}

// DeleteStrategy removes the strategy with the given ID.
func (s *JSONStorage) DeleteStrategy(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Strategies[id]; !ok {
		return ErrStrategyNotFound
	}
	delete(s.data.Strategies, id)
	return s.saveLocked()
}
