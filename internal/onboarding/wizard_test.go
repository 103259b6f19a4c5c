package onboarding

import (
	"errors"
	"testing"
)

// =============================================================================
// CONSTRUCTION AND RESET
// =============================================================================

func TestWizard_StartsOnWelcome(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	if w.Step() != StepWelcome {
		t.Errorf("expected StepWelcome, got %v", w.Step())
	}
	if w.Completed() {
		t.Error("new wizard should not be completed")
	}
	if w.State().UserName() != "" {
		t.Errorf("expected empty name, got %q", w.State().UserName())
	}
	if got := w.State().SelectedTaxYear().String(); got != "2025/26" {
		t.Errorf("expected recommended year 2025/26 pre-selected, got %q", got)
	}
	if w.State().SelectedBusinessType() != BusinessSoleTrader {
		t.Errorf("expected sole trader pre-selected, got %q", w.State().SelectedBusinessType())
	}
}

func TestNew_RejectsInvalidDefaults(t *testing.T) {
	t.Parallel()

	if _, err := New(Defaults{BusinessType: BusinessSoleTrader}); err == nil {
		t.Error("expected error for missing tax year")
	}
	if _, err := New(Defaults{TaxYear: mustYear(t, "2025/26"), BusinessType: "plumber"}); !errors.Is(err, ErrUnknownBusinessType) {
		t.Errorf("expected ErrUnknownBusinessType, got %v", err)
	}
}

func TestWizard_ResetFromEveryStep(t *testing.T) {
	t.Parallel()

	for _, stop := range Steps() {
		t.Run(stop.String(), func(t *testing.T) {
			t.Parallel()

			w := newTestWizard(t)
			_ = w.SetUserName("Alice")
			_ = w.SetUTRSegment(1, "1234")
			_ = w.SetBusinessType(BusinessLandlord)
			_ = w.SetTaxYear(mustYear(t, "2023/24"))
			for w.Step() < stop {
				if err := w.Advance(); err != nil {
					t.Fatalf("advance: %v", err)
				}
				if w.Step() == StepIdentity {
					_ = w.SetUTRSegment(1, "")
				}
			}

			w.Reset()

			s := w.State()
			if s.Step() != StepWelcome {
				t.Errorf("expected StepWelcome after reset, got %v", s.Step())
			}
			if s.UserName() != "" || !s.UTR().IsEmpty() {
				t.Errorf("expected cleared identity, got %q %v", s.UserName(), s.UTR())
			}
			if s.SelectedTaxYear().String() != "2025/26" {
				t.Errorf("expected recommended tax year after reset, got %v", s.SelectedTaxYear())
			}
			if s.SelectedBusinessType() != BusinessSoleTrader {
				t.Errorf("expected default business type after reset, got %v", s.SelectedBusinessType())
			}
			if s.Completed() {
				t.Error("expected completed=false after reset")
			}
		})
	}
}

func TestWizard_ResetAfterCompletion(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	toFinalStep(t, w, "Alice")
	if _, err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	w.Reset()

	if w.Completed() {
		t.Error("expected completed=false after reset")
	}
	if _, ok := w.Summary(); ok {
		t.Error("expected summary to be discarded on reset")
	}
	if w.Step() != StepWelcome {
		t.Errorf("expected StepWelcome, got %v", w.Step())
	}
}

// =============================================================================
// ADVANCE
// =============================================================================

func TestWizard_AdvanceBlockedByShortName(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	if err := w.Advance(); err != nil {
		t.Fatalf("welcome should always advance: %v", err)
	}

	for _, name := range []string{"", "A", " B ", "  "} {
		_ = w.SetUserName(name)
		if w.CanAdvance() {
			t.Errorf("CanAdvance should be false for name %q", name)
		}
		if err := w.Advance(); !errors.Is(err, ErrStepInvalid) {
			t.Errorf("expected ErrStepInvalid for name %q, got %v", name, err)
		}
		if w.Step() != StepIdentity {
			t.Errorf("step changed on rejected advance: %v", w.Step())
		}
	}

	_ = w.SetUserName("Al")
	if !w.CanAdvance() {
		t.Fatal("expected CanAdvance with two-character name")
	}
	if err := w.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if w.Step() != StepTaxYear {
		t.Errorf("expected StepTaxYear, got %v", w.Step())
	}
}

func TestWizard_PartialUTRBlocksAdvance(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	_ = w.Advance()
	_ = w.SetUserName("Alice")
	if err := w.SetUTRSegment(1, "1234"); err != nil {
		t.Fatalf("SetUTRSegment: %v", err)
	}

	if w.CanAdvance() {
		t.Error("partial UTR should block advance")
	}
	if err := w.Advance(); !errors.Is(err, ErrStepInvalid) {
		t.Errorf("expected ErrStepInvalid, got %v", err)
	}

	_ = w.SetUTRSegment(2, "567")
	if w.CanAdvance() {
		t.Error("two of three segments should still block advance")
	}
	_ = w.SetUTRSegment(3, "89")
	if w.CanAdvance() {
		t.Error("short third segment should still block advance")
	}
	_ = w.SetUTRSegment(3, "890")
	if !w.CanAdvance() {
		t.Error("complete UTR should allow advance")
	}
}

func TestWizard_AdvanceClampsAtFinalStep(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	toFinalStep(t, w, "Alice")

	if w.CanAdvance() {
		t.Error("CanAdvance should be false on the final step")
	}
	if err := w.Advance(); !errors.Is(err, ErrAtFinalStep) {
		t.Errorf("expected ErrAtFinalStep, got %v", err)
	}
	if w.Step() != StepBusinessType {
		t.Errorf("expected to stay on final step, got %v", w.Step())
	}
}

// =============================================================================
// BACK
// =============================================================================

func TestWizard_BackPreservesValues(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	_ = w.Advance()
	_ = w.SetUserName("Alice")
	_ = w.SetUTR("1234567890")
	_ = w.Advance()
	_ = w.SetTaxYear(mustYear(t, "2024/25"))
	_ = w.Advance()
	_ = w.SetBusinessType(BusinessContractor)

	before := w.Snapshot()
	for w.Step() > StepWelcome {
		if err := w.Back(); err != nil {
			t.Fatalf("Back: %v", err)
		}
		after := w.Snapshot()
		if after.UserName != before.UserName || after.UTR != before.UTR ||
			after.TaxYear != before.TaxYear || after.BusinessType != before.BusinessType {
			t.Fatalf("back lost data: before %+v after %+v", before, after)
		}
	}

	if w.CanBack() {
		t.Error("CanBack should be false on the first step")
	}
	if err := w.Back(); !errors.Is(err, ErrAtFirstStep) {
		t.Errorf("expected ErrAtFirstStep, got %v", err)
	}
}

// =============================================================================
// COMPLETION
// =============================================================================

func TestWizard_CanCompleteOnlyOnFinalStep(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	_ = w.SetUserName("Alice")
	for w.Step() < StepBusinessType {
		if w.CanComplete() {
			t.Errorf("CanComplete should be false on %v", w.Step())
		}
		if _, err := w.Finish(); !errors.Is(err, ErrNotFinalStep) {
			t.Errorf("expected ErrNotFinalStep on %v, got %v", w.Step(), err)
		}
		if err := w.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	if !w.CanComplete() {
		t.Error("CanComplete should be true on the final step with a valid name")
	}
}

func TestWizard_CanCompleteTracksIdentityValidity(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	toFinalStep(t, w, "Alice")

	_ = w.SetUserName("A")
	if w.CanComplete() {
		t.Error("CanComplete should be false once the name becomes too short")
	}
	if _, err := w.Finish(); !errors.Is(err, ErrStepInvalid) {
		t.Errorf("expected ErrStepInvalid, got %v", err)
	}
	if w.Completed() {
		t.Error("rejected finish must not complete")
	}

	_ = w.SetUserName("Alice")
	_ = w.SetUTRSegment(1, "1234")
	if w.CanComplete() {
		t.Error("partial UTR should block completion")
	}
	_ = w.SetUTRSegment(2, "567")
	_ = w.SetUTRSegment(3, "890")
	if !w.CanComplete() {
		t.Error("complete UTR should restore completion")
	}
}

func TestWizard_FinishProducesSummary(t *testing.T) {
	t.Parallel()

	var seen []Transition
	w := newTestWizard(t, WithObserver(func(tr Transition) { seen = append(seen, tr) }))
	toFinalStep(t, w, "Alice")
	_ = w.SetBusinessType(BusinessFreelancer)

	summary, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !w.Completed() {
		t.Error("expected completed=true")
	}
	if summary.PersonalizedWelcome != "You're all set, Alice!" {
		t.Errorf("unexpected welcome: %q", summary.PersonalizedWelcome)
	}
	if summary.BusinessType != BusinessFreelancer {
		t.Errorf("unexpected business type: %q", summary.BusinessType)
	}
	if summary.Skipped {
		t.Error("finish should not be marked skipped")
	}
	if !summary.CompletedAt.Equal(testNow) {
		t.Errorf("expected completion time from clock, got %v", summary.CompletedAt)
	}

	last := seen[len(seen)-1]
	if last.Action != ActionFinish || !last.Completed {
		t.Errorf("expected finish transition, got %+v", last)
	}

	// Completed wizards reject further transitions and edits.
	if err := w.Advance(); !errors.Is(err, ErrCompleted) {
		t.Errorf("expected ErrCompleted from Advance, got %v", err)
	}
	if err := w.Back(); !errors.Is(err, ErrCompleted) {
		t.Errorf("expected ErrCompleted from Back, got %v", err)
	}
	if err := w.SetUserName("Bob"); !errors.Is(err, ErrCompleted) {
		t.Errorf("expected ErrCompleted from SetUserName, got %v", err)
	}
	if _, err := w.Finish(); !errors.Is(err, ErrCompleted) {
		t.Errorf("expected ErrCompleted from Finish, got %v", err)
	}

	again, ok := w.Summary()
	if !ok || again.UserName != "Alice" {
		t.Errorf("summary should be retained, got %+v", again)
	}
}

// =============================================================================
// SKIP
// =============================================================================

func TestWizard_SkipAvailability(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	if w.CanSkip() {
		t.Error("skip should not be offered on welcome")
	}
	if _, err := w.Skip(); !errors.Is(err, ErrSkipUnavailable) {
		t.Errorf("expected ErrSkipUnavailable, got %v", err)
	}

	_ = w.Advance()
	if !w.CanSkip() {
		t.Error("skip should be offered from identity onward")
	}
}

func TestWizard_SkipFinalisesWithoutValidation(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	_ = w.Advance()
	_ = w.SetUTRSegment(1, "12")

	summary, err := w.Skip()
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if !w.Completed() || !summary.Skipped {
		t.Error("skip should complete onboarding and mark the summary")
	}
	if summary.PersonalizedWelcome != "You're all set!" {
		t.Errorf("unexpected welcome for anonymous skip: %q", summary.PersonalizedWelcome)
	}
	if summary.UTR != "" {
		t.Errorf("partial UTR must not leak into the summary, got %q", summary.UTR)
	}
	if summary.TaxYear.String() != "2025/26" || summary.BusinessType != BusinessSoleTrader {
		t.Errorf("skip should keep pre-selected defaults, got %+v", summary)
	}
}

// =============================================================================
// INPUT VALIDATION
// =============================================================================

func TestWizard_RejectsBadInput(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	if err := w.SetUTRSegment(0, "1"); !errors.Is(err, ErrSegmentIndex) {
		t.Errorf("expected ErrSegmentIndex, got %v", err)
	}
	if err := w.SetUTRSegment(2, "12a"); !errors.Is(err, ErrSegmentValue) {
		t.Errorf("expected ErrSegmentValue for letters, got %v", err)
	}
	if err := w.SetUTRSegment(2, "1234"); !errors.Is(err, ErrSegmentValue) {
		t.Errorf("expected ErrSegmentValue for overlong segment, got %v", err)
	}
	if err := w.SetBusinessType("astronaut"); !errors.Is(err, ErrUnknownBusinessType) {
		t.Errorf("expected ErrUnknownBusinessType, got %v", err)
	}
	if err := w.SetTaxYear(mustYear(t, "2025/26").Previous().Previous()); err != nil {
		t.Errorf("SetTaxYear: %v", err)
	}
	if !w.State().UTR().IsEmpty() {
		t.Error("rejected input must not change state")
	}
}

func TestWizard_StepAlwaysInRange(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	_ = w.SetUserName("Alice")
	actions := []func(){
		func() { _ = w.Back() },
		func() { _ = w.Advance() },
		func() { _ = w.Advance() },
		func() { _ = w.Advance() },
		func() { _ = w.Advance() },
		func() { _ = w.Advance() },
		func() { _ = w.Back() },
		func() { w.Reset() },
		func() { _ = w.Back() },
	}
	for i, act := range actions {
		act()
		if !w.Step().Valid() {
			t.Fatalf("step out of range after action %d: %v", i, w.Step())
		}
	}
}
