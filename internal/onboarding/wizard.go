package onboarding

import (
	"errors"
	"fmt"
	"time"

	"selfemploy/internal/taxyear"
)

// Transition errors. A rejected transition leaves the wizard unchanged.
var (
	ErrStepInvalid     = errors.New("current step is not valid")
	ErrAtFirstStep     = errors.New("already at the first step")
	ErrAtFinalStep     = errors.New("already at the final step")
	ErrNotFinalStep    = errors.New("finish is only available on the final step")
	ErrSkipUnavailable = errors.New("skip is not available on this step")
	ErrCompleted       = errors.New("onboarding already completed")
)

// Action names an accepted transition.
type Action string

const (
	ActionAdvance Action = "advance"
	ActionBack    Action = "back"
	ActionFinish  Action = "finish"
	ActionSkip    Action = "skip"
	ActionReset   Action = "reset"
)

// Transition describes one accepted transition.
type Transition struct {
	Action    Action
	From      Step
	To        Step
	Completed bool
}

// Observer is notified after every accepted transition.
type Observer func(Transition)

// Option configures a Wizard.
type Option func(*Wizard)

// WithObserver registers fn for transitions.
func WithObserver(fn Observer) Option {
	return func(w *Wizard) { w.observer = fn }
}

// WithClock overrides time.Now for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// Wizard drives the onboarding state machine. It exclusively owns its State.
type Wizard struct {
	state    State
	summary  *Summary
	observer Observer
	now      func() time.Time
}

// New returns a wizard on the welcome step with d pre-selected.
func New(d Defaults, opts ...Option) (*Wizard, error) {
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("invalid onboarding defaults: %w", err)
	}
	w := &Wizard{
		state: newState(d),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// State returns a copy of the current state.
func (w *Wizard) State() State { return w.state }

// Step returns the current step.
func (w *Wizard) Step() Step { return w.state.step }

// Completed reports whether onboarding finished or was skipped.
func (w *Wizard) Completed() bool { return w.state.completed }

// Summary returns the completion summary once onboarding is complete.
func (w *Wizard) Summary() (Summary, bool) {
	if w.summary == nil {
		return Summary{}, false
	}
	return *w.summary, true
}

// Validation validates the current step.
func (w *Wizard) Validation() ValidationResult {
	return Validate(w.state.Current())
}

// ValidationFor validates an arbitrary step against current data.
func (w *Wizard) ValidationFor(step Step) ValidationResult {
	return Validate(w.state.Payload(step))
}

// SetUserName records the name typed on the identity step.
func (w *Wizard) SetUserName(name string) error {
	if w.state.completed {
		return ErrCompleted
	}
	w.state.setUserName(name)
	return nil
}

// SetUTRSegment records UTR box n (1-based). Values must be numeric and no
// wider than the box.
func (w *Wizard) SetUTRSegment(n int, value string) error {
	if w.state.completed {
		return ErrCompleted
	}
	return w.state.setUTRSegment(n, value)
}

// SetUTR fills all three boxes from a 10 digit reference; "" clears them.
func (w *Wizard) SetUTR(ref string) error {
	if w.state.completed {
		return ErrCompleted
	}
	utr, err := ParseUTR(ref)
	if err != nil {
		return err
	}
	w.state.identity.UTR = utr
	return nil
}

// SetTaxYear selects a tax year.
func (w *Wizard) SetTaxYear(y taxyear.TaxYear) error {
	if w.state.completed {
		return ErrCompleted
	}
	return w.state.setTaxYear(y)
}

// SetBusinessType selects a business type.
func (w *Wizard) SetBusinessType(b BusinessType) error {
	if w.state.completed {
		return ErrCompleted
	}
	return w.state.setBusinessType(b)
}

// CanAdvance reports whether Advance would succeed.
func (w *Wizard) CanAdvance() bool {
	return !w.state.completed && w.state.step < FinalStep && w.Validation().CanContinue
}

// CanBack reports whether Back would succeed.
func (w *Wizard) CanBack() bool {
	return !w.state.completed && w.state.step > FirstStep
}

// CanSkip reports whether Skip is offered: from the identity step onward.
func (w *Wizard) CanSkip() bool {
	return !w.state.completed && w.state.step >= StepIdentity
}

// CanComplete reports whether Finish would succeed: the final step is showing
// and the identity data entered earlier is still valid.
func (w *Wizard) CanComplete() bool {
	if w.state.completed || w.state.step != FinalStep {
		return false
	}
	return w.ValidationFor(StepIdentity).CanContinue && w.Validation().CanContinue
}

// Advance moves to the next step when the current one validates.
func (w *Wizard) Advance() error {
	if w.state.completed {
		return ErrCompleted
	}
	if w.state.step >= FinalStep {
		return ErrAtFinalStep
	}
	if !w.Validation().CanContinue {
		return ErrStepInvalid
	}
	from := w.state.step
	w.state.step = clampStep(from + 1)
	w.notify(ActionAdvance, from)
	return nil
}

// Back returns to the previous step, keeping every entered value.
func (w *Wizard) Back() error {
	if w.state.completed {
		return ErrCompleted
	}
	if w.state.step <= FirstStep {
		return ErrAtFirstStep
	}
	from := w.state.step
	w.state.step = clampStep(from - 1)
	w.notify(ActionBack, from)
	return nil
}

// Finish completes onboarding from the final step and returns the summary.
func (w *Wizard) Finish() (Summary, error) {
	if w.state.completed {
		return Summary{}, ErrCompleted
	}
	if w.state.step != FinalStep {
		return Summary{}, ErrNotFinalStep
	}
	if !w.CanComplete() {
		return Summary{}, ErrStepInvalid
	}
	return w.complete(ActionFinish, false), nil
}

// Skip ends onboarding early with whatever has been entered so far. Remaining
// steps are not validated; unset values keep their pre-selected defaults.
func (w *Wizard) Skip() (Summary, error) {
	if w.state.completed {
		return Summary{}, ErrCompleted
	}
	if !w.CanSkip() {
		return Summary{}, ErrSkipUnavailable
	}
	return w.complete(ActionSkip, true), nil
}

// Reset returns to the welcome step, clearing all input and the completed flag.
func (w *Wizard) Reset() {
	from := w.state.step
	w.state.reset()
	w.summary = nil
	w.notify(ActionReset, from)
}

func (w *Wizard) complete(action Action, skipped bool) Summary {
	from := w.state.step
	w.state.completed = true
	w.state.skipped = skipped
	s := BuildSummary(w.state, w.now())
	w.summary = &s
	w.notify(action, from)
	return s
}

func (w *Wizard) notify(action Action, from Step) {
	if w.observer == nil {
		return
	}
	w.observer(Transition{
		Action:    action,
		From:      from,
		To:        w.state.step,
		Completed: w.state.completed,
	})
}
