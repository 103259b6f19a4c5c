package ux

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// PreferencesVersion is the current schema version for preferences.json.
const PreferencesVersion = "1.0"

// UserPreferences is the persisted preferences schema.
type UserPreferences struct {
	// Version is the schema version for migration detection
	Version string `json:"version"`

	// UserJourney tracks the user's progression through onboarding
	UserJourney JourneyPrefs `json:"user_journey"`

	// UI holds display choices
	UI UIPrefs `json:"ui"`
}

// JourneyPrefs tracks user journey state.
type JourneyPrefs struct {
	State               UserJourneyState `json:"state"`
	TransitionTimestamp string           `json:"transition_timestamp,omitempty"`
	OnboardingCompleted bool             `json:"onboarding_completed"`
	OnboardingSkippedAt string           `json:"onboarding_skipped_at,omitempty"`
	CompletedSteps      []string         `json:"completed_steps,omitempty"`
	ProfileID           string           `json:"profile_id,omitempty"`
}

// UIPrefs stores UI choices.
type UIPrefs struct {
	Theme string `json:"theme,omitempty"`
}

// PreferencesManager handles loading/saving preferences.
type PreferencesManager struct {
	mu          sync.RWMutex
	path        string
	preferences *UserPreferences
}

// NewPreferencesManager creates a preferences manager for the given workspace.
func NewPreferencesManager(workspace string) *PreferencesManager {
	return &PreferencesManager{
		path: filepath.Join(workspace, ".selfemploy", "preferences.json"),
	}
}

// Path returns the preferences file location.
func (pm *PreferencesManager) Path() string {
	return pm.path
}

// Load reads preferences from disk, creating defaults if not exists.
func (pm *PreferencesManager) Load() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	data, err := os.ReadFile(pm.path)
	if err != nil {
		if os.IsNotExist(err) {
			pm.preferences = DefaultUserPreferences()
			return nil
		}
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs UserPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return fmt.Errorf("failed to parse preferences: %w", err)
	}
	if prefs.Version == "" {
		prefs.Version = PreferencesVersion
	}

	pm.preferences = &prefs
	return nil
}

// Save writes preferences to disk.
func (pm *PreferencesManager) Save() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.preferences == nil {
		pm.preferences = DefaultUserPreferences()
	}

	if err := os.MkdirAll(filepath.Dir(pm.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := json.MarshalIndent(pm.preferences, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := os.WriteFile(pm.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}

	return nil
}

// Delete removes the preferences file and resets in-memory state.
func (pm *PreferencesManager) Delete() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.preferences = DefaultUserPreferences()
	if err := os.Remove(pm.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}

// Get returns a copy of the current preferences (thread-safe).
func (pm *PreferencesManager) Get() UserPreferences {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if pm.preferences == nil {
		return *DefaultUserPreferences()
	}
	prefs := *pm.preferences
	prefs.UserJourney.CompletedSteps = append([]string(nil), pm.preferences.UserJourney.CompletedSteps...)
	return prefs
}

// GetJourneyState returns the current journey state.
func (pm *PreferencesManager) GetJourneyState() UserJourneyState {
	prefs := pm.Get()
	if prefs.UserJourney.State == "" {
		return StateNew
	}
	return prefs.UserJourney.State
}

// update runs fn with the lock held, creating defaults first if needed.
func (pm *PreferencesManager) update(fn func(p *UserPreferences)) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.preferences == nil {
		pm.preferences = DefaultUserPreferences()
	}
	fn(pm.preferences)
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

// SetJourneyState updates the journey state.
func (pm *PreferencesManager) SetJourneyState(state UserJourneyState) {
	pm.update(func(p *UserPreferences) {
		p.UserJourney.State = state
		p.UserJourney.TransitionTimestamp = now()
	})
}

// StartOnboarding moves a new user into the onboarding state. Users already
// past onboarding are left alone.
func (pm *PreferencesManager) StartOnboarding() {
	pm.update(func(p *UserPreferences) {
		if p.UserJourney.State == StateNew || p.UserJourney.State == "" {
			p.UserJourney.State = StateOnboarding
			p.UserJourney.TransitionTimestamp = now()
		}
	})
}

// CompleteOnboardingStep marks an onboarding step as seen.
func (pm *PreferencesManager) CompleteOnboardingStep(step string) {
	pm.update(func(p *UserPreferences) {
		for _, s := range p.UserJourney.CompletedSteps {
			if s == step {
				return
			}
		}
		p.UserJourney.CompletedSteps = append(p.UserJourney.CompletedSteps, step)
	})
}

// SkipOnboarding marks onboarding as skipped.
func (pm *PreferencesManager) SkipOnboarding(profileID string) {
	pm.update(func(p *UserPreferences) {
		p.UserJourney.OnboardingSkippedAt = now()
		p.UserJourney.ProfileID = profileID
		p.UserJourney.State = StateActive
		p.UserJourney.TransitionTimestamp = now()
	})
}

// MarkOnboardingComplete marks onboarding as completed.
func (pm *PreferencesManager) MarkOnboardingComplete(profileID string) {
	pm.update(func(p *UserPreferences) {
		p.UserJourney.OnboardingCompleted = true
		p.UserJourney.ProfileID = profileID
		p.UserJourney.State = StateActive
		p.UserJourney.TransitionTimestamp = now()
	})
}

// ResetOnboarding returns the journey to the new state.
func (pm *PreferencesManager) ResetOnboarding() {
	pm.update(func(p *UserPreferences) {
		p.UserJourney = JourneyPrefs{State: StateNew, TransitionTimestamp: now()}
	})
}

// IsOnboardingComplete returns true if onboarding is done.
func (pm *PreferencesManager) IsOnboardingComplete() bool {
	prefs := pm.Get()
	return prefs.UserJourney.OnboardingCompleted || prefs.UserJourney.OnboardingSkippedAt != ""
}

// SetTheme records the preferred theme.
func (pm *PreferencesManager) SetTheme(theme string) {
	pm.update(func(p *UserPreferences) {
		p.UI.Theme = theme
	})
}

// ShouldShowOnboarding reports whether the wizard should run for workspace.
// Unreadable preferences count as a first run.
func ShouldShowOnboarding(workspace string) bool {
	pm := NewPreferencesManager(workspace)
	if err := pm.Load(); err != nil {
		return true
	}
	return !pm.IsOnboardingComplete()
}

// DefaultUserPreferences returns sensible defaults for new users.
func DefaultUserPreferences() *UserPreferences {
	return &UserPreferences{
		Version: PreferencesVersion,
		UserJourney: JourneyPrefs{
			State:               StateNew,
			TransitionTimestamp: now(),
		},
	}
}
