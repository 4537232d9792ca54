package models

import (
	"errors"
	"testing"
)

func TestNewLeg_Validation(t *testing.T) {
	tests := []struct {
		name     string
		optType  OptionType
		action   Action
		strike   float64
		premium  float64
		quantity int
		wantErr  bool
	}{
		{"valid long call", OptionCall, ActionBuy, 100, 2.5, 1, false},
		{"valid short put", OptionPut, ActionSell, 95, 1.2, 3, false},
		{"zero strike", OptionCall, ActionBuy, 0, 2.5, 1, true},
		{"negative strike", OptionCall, ActionBuy, -5, 2.5, 1, true},
		{"zero premium", OptionCall, ActionBuy, 100, 0, 1, true},
		{"negative premium", OptionPut, ActionSell, 100, -1, 1, true},
		{"zero quantity", OptionCall, ActionBuy, 100, 2.5, 0, true},
		{"negative quantity", OptionCall, ActionBuy, 100, 2.5, -2, true},
		{"unknown type", OptionType("future"), ActionBuy, 100, 2.5, 1, true},
		{"unknown action", OptionCall, Action("hold"), 100, 2.5, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLeg(tt.optType, tt.action, tt.strike, tt.premium, tt.quantity)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLeg() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("NewLeg() error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestNewLeg_DefaultVolatility(t *testing.T) {
	leg, err := NewLeg(OptionCall, ActionBuy, 100, 2.5, 1)
	if err != nil {
		t.Fatalf("NewLeg() unexpected error: %v", err)
	}
	if leg.ImpliedVolatility != 0.20 {
		t.Fatalf("default IV = %v, want 0.20", leg.ImpliedVolatility)
	}

	custom := leg.WithVolatility(0.35)
	if custom.ImpliedVolatility != 0.35 {
		t.Fatalf("WithVolatility() = %v, want 0.35", custom.ImpliedVolatility)
	}
	// original leg untouched
	if leg.ImpliedVolatility != 0.20 {
		t.Fatalf("WithVolatility mutated the receiver: %v", leg.ImpliedVolatility)
	}

	fallback := leg.WithVolatility(-1)
	if fallback.ImpliedVolatility != 0.20 {
		t.Fatalf("WithVolatility(-1) = %v, want default 0.20", fallback.ImpliedVolatility)
	}
}

func TestWithExpirationDays_ClampsNegative(t *testing.T) {
	leg, _ := NewLeg(OptionPut, ActionSell, 95, 1.0, 1)
	if got := leg.WithExpirationDays(-3).ExpirationDays; got != 0 {
		t.Fatalf("WithExpirationDays(-3) = %d, want 0", got)
	}
	if got := leg.WithExpirationDays(21).ExpirationDays; got != 21 {
		t.Fatalf("WithExpirationDays(21) = %d, want 21", got)
	}
}

func TestIntrinsicValue(t *testing.T) {
	call, _ := NewLeg(OptionCall, ActionBuy, 100, 2.5, 1)
	put, _ := NewLeg(OptionPut, ActionBuy, 100, 2.5, 1)

	tests := []struct {
		name  string
		leg   Leg
		price float64
		want  float64
	}{
		{"ITM call", call, 110, 10},
		{"ATM call", call, 100, 0},
		{"OTM call", call, 90, 0},
		{"ITM put", put, 90, 10},
		{"ATM put", put, 100, 0},
		{"OTM put", put, 110, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.leg.IntrinsicValue(tt.price); got != tt.want {
				t.Fatalf("IntrinsicValue(%v) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestLegDescription(t *testing.T) {
	leg, _ := NewLeg(OptionCall, ActionSell, 105, 1.5, 1)
	if got := leg.Description(); got != "SELL CALL $105.00" {
		t.Fatalf("Description() = %q, want %q", got, "SELL CALL $105.00")
	}
}

func TestActionSign(t *testing.T) {
	if ActionBuy.Sign() != 1 {
		t.Fatal("buy sign should be +1")
	}
	if ActionSell.Sign() != -1 {
		t.Fatal("sell sign should be -1")
	}
}
