package onboarding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildSummary(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	toFinalStep(t, w, " Alice ")
	_ = w.SetUTR("1234567890")
	_ = w.SetBusinessType(BusinessLandlord)

	got, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	want := Summary{
		UserName:            "Alice",
		UTR:                 "1234567890",
		TaxYear:             mustYear(t, "2025/26"),
		BusinessType:        BusinessLandlord,
		PersonalizedWelcome: "You're all set, Alice!",
		CompletedAt:         testNow,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary_IndependentOfWizard(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	toFinalStep(t, w, "Alice")
	got, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got.UserName = "Mallory"
	stored, _ := w.Summary()
	if stored.UserName != "Alice" {
		t.Errorf("mutating a returned summary changed the wizard's copy: %q", stored.UserName)
	}

	w.Reset()
	if got.PersonalizedWelcome != "You're all set, Alice!" {
		t.Errorf("reset must not affect an issued summary: %q", got.PersonalizedWelcome)
	}
}

func TestWelcome(t *testing.T) {
	t.Parallel()

	if got := Welcome("Alice"); got != "You're all set, Alice!" {
		t.Errorf("unexpected welcome %q", got)
	}
	if got := Welcome(""); got != "You're all set!" {
		t.Errorf("unexpected anonymous welcome %q", got)
	}
}
