package storage

import "errors"

// ErrStrategyNotFound is returned when the requested strategy ID does not exist.
var ErrStrategyNotFound = errors.New("strategy not found")
