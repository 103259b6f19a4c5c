package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"selfemploy/internal/onboarding"
	"selfemploy/internal/store"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// statusCmd shows the saved profile
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your profile and onboarding progress",
	RunE:  showStatus,
}

// workspaceStatus is everything status reports on.
type workspaceStatus struct {
	profile    store.Profile
	hasProfile bool
	draft      onboarding.Snapshot
	hasDraft   bool
}

func showStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := a.status(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return a.printStatus(out, st, isTerminal(out))
}

// status loads the latest profile and any saved draft concurrently.
func (a *app) status(ctx context.Context) (workspaceStatus, error) {
	var st workspaceStatus
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := a.store.LatestProfile(gctx)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		st.profile, st.hasProfile = p, true
		return nil
	})
	g.Go(func() error {
		snap, ok, err := a.store.LoadDraft(gctx)
		if err != nil {
			return err
		}
		st.draft, st.hasDraft = snap, ok
		return nil
	})

	if err := g.Wait(); err != nil {
		return workspaceStatus{}, fmt.Errorf("failed to load status: %w", err)
	}
	return st, nil
}

func (a *app) printStatus(out io.Writer, st workspaceStatus, styled bool) error {
	fmt.Fprintf(out, "Workspace: %s\n", a.workspace)
	fmt.Fprintf(out, "Onboarding: %s\n", a.prefs.GetJourneyState().Label())

	if st.hasDraft {
		fmt.Fprintf(out, "Saved progress: step %d of %d (%s)\n", st.draft.Step, onboarding.FinalStep, st.draft.Step.Title())
	}
	if !st.hasProfile {
		fmt.Fprintln(out, "No profile yet. Run `selfemploy onboard` to set one up.")
		return nil
	}

	fmt.Fprintf(out, "Profile: %s (created %s)\n\n", st.profile.ID, st.profile.CreatedAt.Local().Format("2 Jan 2006 15:04"))
	if err := printSummary(out, st.profile.Summary, a.cfg.UI.WordWrap, styled); err != nil {
		return err
	}
	if y := st.profile.Summary.TaxYear; !y.IsZero() {
		fmt.Fprintf(out, "\nOnline return for %s due by %s.\n", y, y.FilingDeadline().Format("2 January 2006"))
	}
	return nil
}

// isTerminal reports whether out is an interactive terminal.
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
