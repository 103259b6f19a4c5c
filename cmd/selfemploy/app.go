package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"selfemploy/internal/config"
	"selfemploy/internal/logging"
	"selfemploy/internal/onboarding"
	"selfemploy/internal/store"
	"selfemploy/internal/ux"

	"go.uber.org/zap"
)

// app bundles the per-workspace state every command works with.
type app struct {
	workspace string
	cfg       *config.Config
	store     *store.Store
	prefs     *ux.PreferencesManager
}

func resolveWorkspace() (string, error) {
	if workspace != "" {
		return filepath.Abs(workspace)
	}
	return os.Getwd()
}

// loadConfig reads and validates the workspace configuration.
func loadConfig(ws string) (*config.Config, error) {
	cfg, err := config.Load(config.DefaultPath(ws))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// showOnboarding reports whether the wizard should run for ws.
func showOnboarding(ws string) bool {
	return ux.ShouldShowOnboarding(ws)
}

// openApp loads config, starts category logging, reads preferences and opens
// the database.
func openApp(ctx context.Context) (*app, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	cfg, err := loadConfig(ws)
	if err != nil {
		return nil, err
	}
	if err := logging.Initialize(ws, cfg.LoggingSettings()); err != nil {
		logger.Warn("Category logging disabled", zap.Error(err))
	}
	logging.Boot("config %s", config.DefaultPath(ws))
	logging.BootDebug("database %s, busy timeout %s, theme %s",
		cfg.DatabasePath(ws), cfg.GetBusyTimeout(), cfg.UI.Theme)

	prefs := ux.NewPreferencesManager(ws)
	if err := prefs.Load(); err != nil {
		// A broken preferences file must not lock the user out.
		logger.Warn("Ignoring unreadable preferences", zap.String("path", prefs.Path()), zap.Error(err))
		logging.Get(logging.CategoryBoot).Warn("ignoring unreadable preferences: %v", err)
	}

	st, err := store.Open(ctx, cfg.DatabasePath(ws), cfg.GetBusyTimeout())
	if err != nil {
		logging.CloseAll()
		return nil, err
	}

	logger.Debug("Workspace ready", zap.String("workspace", ws), zap.String("db", st.Path()))
	return &app{workspace: ws, cfg: cfg, store: st, prefs: prefs}, nil
}

// Close releases the database and log files.
func (a *app) Close() error {
	err := a.store.Close()
	logging.CloseAll()
	return err
}

// observe is the wizard observer: it logs every transition and records the
// steps a user has moved past.
func (a *app) observe(t onboarding.Transition) {
	logging.Get(logging.CategoryWizard).
		With("action", string(t.Action), "completed", t.Completed).
		Info("%s -> %s", t.From, t.To)
	switch t.Action {
	case onboarding.ActionAdvance:
		a.prefs.CompleteOnboardingStep(t.From.String())
	case onboarding.ActionReset:
		a.prefs.ResetOnboarding()
		a.prefs.StartOnboarding()
	}
}

// newWizard creates the wizard for this session, resuming a saved draft
// unless restart is set or drafts are disabled.
func (a *app) newWizard(ctx context.Context, restart bool) (*onboarding.Wizard, bool, error) {
	defaults := a.cfg.OnboardingDefaults(nowFunc())
	opts := a.wizardOptions()

	if restart {
		if err := a.store.ClearDraft(ctx); err != nil {
			return nil, false, err
		}
		a.prefs.ResetOnboarding()
	} else if a.cfg.Onboarding.ResumeDrafts {
		snap, ok, err := a.store.LoadDraft(ctx)
		if err != nil {
			return nil, false, err
		}
		if ok && !snap.Completed {
			w, err := onboarding.Restore(snap, defaults, opts...)
			if err == nil {
				logging.Wizard("resumed draft at step %s", w.Step())
				return w, true, nil
			}
			logger.Warn("Discarding unreadable draft", zap.Error(err))
			logging.Get(logging.CategoryWizard).Warn("discarding unreadable draft: %v", err)
			if err := a.store.ClearDraft(ctx); err != nil {
				return nil, false, err
			}
		}
	}

	w, err := a.freshWizard()
	if err != nil {
		return nil, false, err
	}
	return w, false, nil
}

func (a *app) wizardOptions() []onboarding.Option {
	return []onboarding.Option{onboarding.WithObserver(a.observe), onboarding.WithClock(nowFunc)}
}

// freshWizard starts a wizard at the welcome step without touching any draft.
func (a *app) freshWizard() (*onboarding.Wizard, error) {
	return onboarding.New(a.cfg.OnboardingDefaults(nowFunc()), a.wizardOptions()...)
}

// complete persists a finished onboarding: profile row, draft removal and
// journey state.
func (a *app) complete(ctx context.Context, summary onboarding.Summary) (store.Profile, error) {
	profile, err := a.store.CompleteOnboarding(ctx, summary)
	if err != nil {
		return store.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	if summary.Skipped {
		a.prefs.SkipOnboarding(profile.ID)
	} else {
		a.prefs.MarkOnboardingComplete(profile.ID)
	}
	if err := a.prefs.Save(); err != nil {
		return profile, err
	}
	logger.Info("Onboarding complete", zap.String("profile", profile.ID), zap.Bool("skipped", summary.Skipped))
	return profile, nil
}

// saveDraft keeps an unfinished wizard for the next session.
func (a *app) saveDraft(ctx context.Context, w *onboarding.Wizard) error {
	if err := a.store.SaveDraft(ctx, w.Snapshot()); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return a.prefs.Save()
}
