package util

import (
	"math"
	"testing"
)

func TestRoundToTick(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		tick float64
		want float64
	}{
		{"round down to cent", 1.2345, 0.01, 1.23},
		{"round up to cent", 1.2356, 0.01, 1.24},
		{"nickel tick", 1.23, 0.05, 1.25},
		{"whole dollar", 99.6, 1.0, 100},
		{"zero tick passes through", 1.2345, 0, 1.2345},
		{"negative tick passes through", 1.2345, -0.01, 1.2345},
		{"negative value", -1.236, 0.01, -1.24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundToTick(tt.x, tt.tick); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RoundToTick(%v, %v) = %v, want %v", tt.x, tt.tick, got, tt.want)
			}
		})
	}
}

func TestRoundCents(t *testing.T) {
	if got := RoundCents(-349.996); math.Abs(got-(-350.00)) > 1e-9 {
		t.Errorf("RoundCents(-349.996) = %v, want -350.00", got)
	}
	if got := RoundCents(150.004); math.Abs(got-150.00) > 1e-9 {
		t.Errorf("RoundCents(150.004) = %v, want 150.00", got)
	}
}
