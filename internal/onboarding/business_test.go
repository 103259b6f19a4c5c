package onboarding

import (
	"errors"
	"testing"
)

func TestParseBusinessType(t *testing.T) {
	t.Parallel()

	cases := map[string]BusinessType{
		"sole_trader": BusinessSoleTrader,
		"Sole Trader": BusinessSoleTrader,
		"sole-trader": BusinessSoleTrader,
		"LANDLORD":    BusinessLandlord,
	}
	for in, want := range cases {
		got, err := ParseBusinessType(in)
		if err != nil || got != want {
			t.Errorf("ParseBusinessType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseBusinessType("wizard"); !errors.Is(err, ErrUnknownBusinessType) {
		t.Errorf("expected ErrUnknownBusinessType, got %v", err)
	}
}

func TestBusinessTypeLabels(t *testing.T) {
	t.Parallel()

	for _, b := range BusinessTypes() {
		if b.Label() == string(b) {
			t.Errorf("missing label for %q", b)
		}
	}
}
