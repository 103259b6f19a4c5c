package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose   bool
	workspace string
	timeout   time.Duration

	// Logger
	logger *zap.Logger

	// nowFunc is the clock used for tax year defaults.
	nowFunc = time.Now
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "selfemploy",
	Short: "selfemploy - self-employment records for UK sole traders",
	Long: `selfemploy keeps the records a UK self-employed person needs for their
Self Assessment return.

The first run walks you through a short onboarding wizard: your name, your
Unique Taxpayer Reference, the tax year you are starting with and how you work.

Run without arguments to start onboarding, or to see your profile once it is set up.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The wizard owns the terminal; structured logs would tear the view.
		if interactive(cmd) {
			logger = zap.NewNop()
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRoot,
}

// interactive reports whether cmd will hand the terminal to the wizard.
func interactive(cmd *cobra.Command) bool {
	switch {
	case !cmd.HasParent():
		return true
	case cmd.Name() == "onboard":
		return !onboardNonInteractive
	default:
		return false
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for database operations")

	onboardCmd.Flags().BoolVar(&onboardRestart, "restart", false, "Discard any saved progress and start from the welcome step")
	onboardCmd.Flags().BoolVar(&onboardNonInteractive, "non-interactive", false, "Complete onboarding from flags without the terminal wizard")
	onboardCmd.Flags().StringVar(&onboardName, "name", "", "Your name (non-interactive)")
	onboardCmd.Flags().StringVar(&onboardUTR, "utr", "", "10 digit Unique Taxpayer Reference (non-interactive, optional)")
	onboardCmd.Flags().StringVar(&onboardTaxYear, "tax-year", "", "Tax year such as 2025/26 (non-interactive, default: current)")
	onboardCmd.Flags().StringVar(&onboardBusinessType, "business-type", "", "sole_trader, freelancer, contractor, landlord or partnership (non-interactive)")
	onboardCmd.Flags().BoolVar(&onboardSkip, "skip", false, "Skip the remaining steps (non-interactive)")
	onboardCmd.Flags().StringVar(&onboardTheme, "theme", "", "Remember a colour theme: auto, light or dark")

	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Confirm removal of the saved profile, draft and preferences")

	taxYearsCmd.Flags().IntVarP(&taxYearsCount, "count", "n", 0, "Number of tax years to list (default: onboarding.tax_year_options)")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(taxYearsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRoot starts onboarding for new users and shows the profile otherwise.
func runRoot(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	if showOnboarding(ws) {
		return runOnboard(cmd, args)
	}
	return showStatus(cmd, args)
}
