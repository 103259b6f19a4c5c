package onboarding

import (
	"testing"
	"time"

	"selfemploy/internal/taxyear"
)

var testNow = time.Date(2025, time.October, 19, 9, 30, 0, 0, time.UTC)

func newTestWizard(t *testing.T, opts ...Option) *Wizard {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	w, err := New(DefaultsAt(testNow), opts...)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return w
}

// toFinalStep walks a fresh wizard to the business type step with a valid name.
func toFinalStep(t *testing.T, w *Wizard, name string) {
	t.Helper()
	if err := w.Advance(); err != nil {
		t.Fatalf("advance from welcome: %v", err)
	}
	if err := w.SetUserName(name); err != nil {
		t.Fatalf("SetUserName: %v", err)
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("advance from identity: %v", err)
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("advance from tax year: %v", err)
	}
	if w.Step() != StepBusinessType {
		t.Fatalf("expected business type step, got %v", w.Step())
	}
}

func mustYear(t *testing.T, s string) taxyear.TaxYear {
	t.Helper()
	y, err := taxyear.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return y
}
