package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var resetYes bool

// resetCmd removes everything onboarding saved
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the saved profile, progress and preferences",
	Long: `Deletes every saved profile and any onboarding progress, and forgets that
onboarding was completed. The next run starts from the welcome step.

Configuration in .selfemploy/config.yaml is kept.`,
	RunE: runReset,
}

var errResetNotConfirmed = errors.New("reset removes your saved profile; rerun with --yes to confirm")

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		return errResetNotConfirmed
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.store.DeleteAll(gctx)
	})
	g.Go(func() error {
		return a.prefs.Delete()
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	logger.Info("Workspace reset", zap.String("workspace", a.workspace))
	fmt.Fprintln(cmd.OutOrStdout(), "Profile, progress and preferences removed. Run `selfemploy onboard` to start again.")
	return nil
}
