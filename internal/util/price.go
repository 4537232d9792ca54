// Package util holds small rounding helpers shared by the market data and
// presentation layers.
package util

import "math"

// RoundToTick snaps x to the nearest multiple of tick, e.g. option premiums
// to the penny. Non-positive ticks leave x unchanged.
func RoundToTick(x, tick float64) float64 {
	if tick <= 0 {
		return x
	}
	return math.Round(x/tick) * tick
}

// RoundCents rounds x to two decimal places, the convention for reported
// P&L figures.
func RoundCents(x float64) float64 {
	return RoundToTick(x, 0.01)
}
