package models

import "testing"

func mustLeg(t *testing.T, optType OptionType, action Action, strike, premium float64, qty int) Leg {
	t.Helper()
	leg, err := NewLeg(optType, action, strike, premium, qty)
	if err != nil {
		t.Fatalf("NewLeg: %v", err)
	}
	return leg
}

func TestNewPosition_CopiesLegs(t *testing.T) {
	legs := []Leg{mustLeg(t, OptionCall, ActionBuy, 100, 2.5, 1)}
	pos, err := NewPosition("AAPL", "long call", legs)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}

	// Mutating the caller's slice must not reach the position.
	legs[0].Strike = 999
	if pos.Legs[0].Strike != 100 {
		t.Fatalf("position leg strike = %v after caller mutation, want 100", pos.Legs[0].Strike)
	}
}

func TestNewPosition_RejectsInvalidLeg(t *testing.T) {
	bad := Leg{Type: OptionCall, Action: ActionBuy, Strike: -1, Premium: 2.5, Quantity: 1}
	if _, err := NewPosition("AAPL", "broken", []Leg{bad}); err == nil {
		t.Fatal("NewPosition accepted an invalid leg")
	}
}

func TestEmptyPosition(t *testing.T) {
	pos, err := NewPosition("SPY", "empty", nil)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if !pos.IsEmpty() {
		t.Fatal("IsEmpty() = false for empty position")
	}
	calls, puts := pos.CountByType()
	if calls != 0 || puts != 0 {
		t.Fatalf("CountByType() = %d, %d, want 0, 0", calls, puts)
	}
	if pos.MaxExpirationDays() != 0 {
		t.Fatalf("MaxExpirationDays() = %d, want 0", pos.MaxExpirationDays())
	}
}

func TestWithLeg_DoesNotMutateReceiver(t *testing.T) {
	pos, _ := NewPosition("SPY", "base", []Leg{mustLeg(t, OptionCall, ActionSell, 105, 1.5, 1)})

	grown, err := pos.WithLeg(mustLeg(t, OptionPut, ActionSell, 95, 1.5, 1))
	if err != nil {
		t.Fatalf("WithLeg: %v", err)
	}
	if len(pos.Legs) != 1 {
		t.Fatalf("receiver grew to %d legs", len(pos.Legs))
	}
	if len(grown.Legs) != 2 {
		t.Fatalf("result has %d legs, want 2", len(grown.Legs))
	}
}

func TestReplaceLeg(t *testing.T) {
	orig := mustLeg(t, OptionCall, ActionSell, 105, 1.5, 1)
	pos, _ := NewPosition("SPY", "strangle", []Leg{orig})

	rolled := mustLeg(t, OptionCall, ActionSell, 110, 1.5, 1)
	next, err := pos.ReplaceLeg(0, rolled)
	if err != nil {
		t.Fatalf("ReplaceLeg: %v", err)
	}
	if next.Legs[0].Strike != 110 {
		t.Fatalf("replaced strike = %v, want 110", next.Legs[0].Strike)
	}
	if pos.Legs[0].Strike != 105 {
		t.Fatalf("receiver strike mutated to %v", pos.Legs[0].Strike)
	}

	if _, err := pos.ReplaceLeg(5, rolled); err == nil {
		t.Fatal("ReplaceLeg accepted out-of-range index")
	}
}

func TestCountByType(t *testing.T) {
	pos, _ := NewPosition("SPY", "condor", []Leg{
		mustLeg(t, OptionCall, ActionSell, 105, 2, 1),
		mustLeg(t, OptionCall, ActionBuy, 110, 1, 1),
		mustLeg(t, OptionPut, ActionSell, 95, 2, 1),
		mustLeg(t, OptionPut, ActionBuy, 90, 1, 1),
	})
	calls, puts := pos.CountByType()
	if calls != 2 || puts != 2 {
		t.Fatalf("CountByType() = %d, %d, want 2, 2", calls, puts)
	}
}

func TestMaxExpirationDays(t *testing.T) {
	pos, _ := NewPosition("SPY", "mixed", []Leg{
		mustLeg(t, OptionCall, ActionBuy, 100, 2, 1).WithExpirationDays(14),
		mustLeg(t, OptionPut, ActionBuy, 100, 2, 1).WithExpirationDays(45),
	})
	if got := pos.MaxExpirationDays(); got != 45 {
		t.Fatalf("MaxExpirationDays() = %d, want 45", got)
	}
}
