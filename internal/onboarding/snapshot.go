package onboarding

import (
	"fmt"

	"selfemploy/internal/taxyear"
)

// Snapshot is the serialisable form of an in-progress wizard, used to resume
// onboarding in a later session.
type Snapshot struct {
	Step         Step            `json:"step"`
	UserName     string          `json:"user_name"`
	UTR          UTR             `json:"utr"`
	TaxYear      taxyear.TaxYear `json:"tax_year"`
	BusinessType BusinessType    `json:"business_type,omitempty"`
	Completed    bool            `json:"completed,omitempty"`
	Skipped      bool            `json:"skipped,omitempty"`
}

// Snapshot captures the wizard's current state.
func (w *Wizard) Snapshot() Snapshot {
	s := w.state
	return Snapshot{
		Step:         s.step,
		UserName:     s.identity.UserName,
		UTR:          s.identity.UTR,
		TaxYear:      s.taxYear.Selected,
		BusinessType: s.business.Selected,
		Completed:    s.completed,
		Skipped:      s.skipped,
	}
}

// Restore rebuilds a wizard from snap. The step is clamped into range, and a
// missing tax year or business type falls back to d. A completed snapshot
// yields a completed wizard whose summary is rebuilt at restore time.
func Restore(snap Snapshot, d Defaults, opts ...Option) (*Wizard, error) {
	w, err := New(d, opts...)
	if err != nil {
		return nil, err
	}
	for i, seg := range snap.UTR {
		if err := checkSegment(i+1, seg); err != nil {
			return nil, fmt.Errorf("restore snapshot: %w", err)
		}
	}
	if snap.BusinessType != "" && !snap.BusinessType.Known() {
		return nil, fmt.Errorf("restore snapshot: %w: %q", ErrUnknownBusinessType, snap.BusinessType)
	}

	w.state.step = clampStep(snap.Step)
	w.state.identity = IdentityPayload{UserName: snap.UserName, UTR: snap.UTR}
	if !snap.TaxYear.IsZero() {
		w.state.taxYear.Selected = snap.TaxYear
	}
	if snap.BusinessType != "" {
		w.state.business.Selected = snap.BusinessType
	}
	if snap.Completed {
		w.state.completed = true
		w.state.skipped = snap.Skipped
		s := BuildSummary(w.state, w.now())
		w.summary = &s
	}
	return w, nil
}
