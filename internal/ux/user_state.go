package ux

// UserJourneyState represents a user's position in the onboarding journey.
type UserJourneyState string

const (
	// StateNew indicates a first-time user (no preferences yet).
	StateNew UserJourneyState = "new"

	// StateOnboarding indicates the user has started the wizard but not finished it.
	StateOnboarding UserJourneyState = "onboarding"

	// StateActive indicates onboarding was completed or skipped.
	StateActive UserJourneyState = "active"
)

// Label returns a human-readable name for the state.
func (s UserJourneyState) Label() string {
	switch s {
	case StateNew:
		return "Not started"
	case StateOnboarding:
		return "Onboarding in progress"
	case StateActive:
		return "Ready"
	default:
		return "Unknown"
	}
}

// NeedsOnboarding reports whether the wizard should be shown in state s.
func (s UserJourneyState) NeedsOnboarding() bool {
	return s != StateActive
}
