package onboarding

import (
	"fmt"
	"time"

	"selfemploy/internal/taxyear"
)

// Defaults are the pre-selected values a fresh or reset wizard starts with.
type Defaults struct {
	TaxYear      taxyear.TaxYear
	BusinessType BusinessType
}

// DefaultsAt pre-selects the tax year in progress at now and sole trader.
func DefaultsAt(now time.Time) Defaults {
	return Defaults{
		TaxYear:      taxyear.Recommended(now),
		BusinessType: BusinessSoleTrader,
	}
}

func (d Defaults) validate() error {
	if d.TaxYear.IsZero() {
		return fmt.Errorf("default tax year is required")
	}
	if !d.BusinessType.Known() {
		return fmt.Errorf("%w: default %q", ErrUnknownBusinessType, d.BusinessType)
	}
	return nil
}

// State is the full wizard state: the current step tag plus every step's payload.
// It is a value type; copies never share mutable data.
type State struct {
	step      Step
	identity  IdentityPayload
	taxYear   TaxYearPayload
	business  BusinessPayload
	completed bool
	skipped   bool
	defaults  Defaults
}

func newState(d Defaults) State {
	return State{
		step:     FirstStep,
		taxYear:  TaxYearPayload{Selected: d.TaxYear, Recommended: d.TaxYear},
		business: BusinessPayload{Selected: d.BusinessType},
		defaults: d,
	}
}

// Step returns the current step.
func (s State) Step() Step { return s.step }

// UserName returns the name as typed.
func (s State) UserName() string { return s.identity.UserName }

// UTR returns the UTR segments as typed.
func (s State) UTR() UTR { return s.identity.UTR }

// UTRSegment returns segment n (1-based).
func (s State) UTRSegment(n int) string { return s.identity.UTR.Segment(n) }

// SelectedTaxYear returns the selected tax year.
func (s State) SelectedTaxYear() taxyear.TaxYear { return s.taxYear.Selected }

// RecommendedTaxYear returns the year that was pre-selected.
func (s State) RecommendedTaxYear() taxyear.TaxYear { return s.taxYear.Recommended }

// SelectedBusinessType returns the selected business type.
func (s State) SelectedBusinessType() BusinessType { return s.business.Selected }

// Completed reports whether onboarding was finished or skipped.
func (s State) Completed() bool { return s.completed }

// Skipped reports whether completion came from skip.
func (s State) Skipped() bool { return s.skipped }

// Payload returns the variant owned by step, or nil for an invalid step.
func (s State) Payload(step Step) Payload {
	switch step {
	case StepWelcome:
		return WelcomePayload{}
	case StepIdentity:
		return s.identity
	case StepTaxYear:
		return s.taxYear
	case StepBusinessType:
		return s.business
	default:
		return nil
	}
}

// Current returns the payload of the current step.
func (s State) Current() Payload {
	return s.Payload(s.step)
}

func (s *State) setUserName(name string) {
	s.identity.UserName = name
}

func (s *State) setUTRSegment(n int, value string) error {
	utr, err := s.identity.UTR.WithSegment(n, value)
	if err != nil {
		return err
	}
	s.identity.UTR = utr
	return nil
}

func (s *State) setTaxYear(y taxyear.TaxYear) error {
	if y.IsZero() {
		return fmt.Errorf("tax year is required")
	}
	s.taxYear.Selected = y
	return nil
}

func (s *State) setBusinessType(b BusinessType) error {
	if !b.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownBusinessType, b)
	}
	s.business.Selected = b
	return nil
}

func (s *State) reset() {
	*s = newState(s.defaults)
}
