package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"selfemploy/cmd/selfemploy/ui"
	"selfemploy/internal/config"
	"selfemploy/internal/logging"
	"selfemploy/internal/onboarding"
	"selfemploy/internal/taxyear"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	onboardRestart        bool
	onboardNonInteractive bool
	onboardName           string
	onboardUTR            string
	onboardTaxYear        string
	onboardBusinessType   string
	onboardSkip           bool
	onboardTheme          string
)

// onboardCmd runs the onboarding wizard
var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Set up your self-employment profile",
	Long: `Walks through four steps: welcome, your details, tax year and business type.

Progress is saved when you quit, and the next run resumes where you left off.
Use --restart to begin again from the welcome step.

For scripts, --non-interactive completes the same steps from flags:
  selfemploy onboard --non-interactive --name "Alex Smith" --utr 1234567890 \
    --tax-year 2025/26 --business-type freelancer`,
	RunE: runOnboard,
}

func runOnboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if onboardTheme != "" {
		if onboardTheme != config.ThemeAuto && onboardTheme != config.ThemeLight && onboardTheme != config.ThemeDark {
			return fmt.Errorf("invalid theme %q (valid: auto, light, dark)", onboardTheme)
		}
		a.prefs.SetTheme(onboardTheme)
	}

	if onboardNonInteractive {
		return onboardFromFlags(ctx, a, cmd.OutOrStdout())
	}
	return onboardInteractive(ctx, a, cmd.OutOrStdout())
}

// onboardInteractive hands the terminal to the wizard view and persists the
// outcome once it exits.
func onboardInteractive(ctx context.Context, a *app, out io.Writer) error {
	w, resumed, err := a.newWizard(ctx, onboardRestart)
	if err != nil {
		return err
	}
	a.prefs.StartOnboarding()
	if resumed {
		fmt.Fprintf(out, "Resuming onboarding at %q.\n", w.Step().Title())
	}

	styles := ui.NewStyles(ui.ThemeFor(a.theme()))
	model := ui.NewWizardModel(w, ui.Options{
		Styles:   styles,
		TaxYears: a.cfg.TaxYearOptions(nowFunc()),
		WordWrap: a.cfg.UI.WordWrap,
		Now:      nowFunc,
	})

	logging.UI("starting wizard at step %s", w.Step())
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	// The session may have outlived the timeout; persistence gets a fresh one.
	saveCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fm, ok := final.(ui.WizardModel)
	if !ok {
		return fmt.Errorf("unexpected wizard model %T", final)
	}
	summary, done := fm.Summary()
	if !done {
		if err := a.saveDraft(saveCtx, fm.Wizard()); err != nil {
			return err
		}
		fmt.Fprintln(out, "Progress saved. Run `selfemploy onboard` to pick up where you left off.")
		return nil
	}

	profile, err := a.complete(saveCtx, summary)
	if err != nil {
		return err
	}
	logging.UI("wizard finished, profile %s", profile.ID)
	return nil
}

// theme resolves the colour theme: a remembered preference wins over an
// automatic config setting.
func (a *app) theme() string {
	if pref := a.prefs.Get().UI.Theme; pref != "" && a.cfg.UI.Theme == config.ThemeAuto {
		return pref
	}
	return a.cfg.UI.Theme
}

// onboardFromFlags drives the same wizard operations as the view, from flags.
func onboardFromFlags(ctx context.Context, a *app, out io.Writer) error {
	w, err := a.freshWizard()
	if err != nil {
		return err
	}
	a.prefs.StartOnboarding()

	summary, err := fillWizard(w, flagInput{
		Name:         onboardName,
		UTR:          onboardUTR,
		TaxYear:      onboardTaxYear,
		TaxYears:     a.cfg.TaxYearOptions(nowFunc()),
		BusinessType: onboardBusinessType,
		Skip:         onboardSkip,
	})
	if err != nil {
		return err
	}

	profile, err := a.complete(ctx, summary)
	if err != nil {
		return err
	}
	logger.Debug("Profile saved", zap.String("id", profile.ID))
	return printSummary(out, summary, a.cfg.UI.WordWrap, false)
}

// flagInput holds the answers given on the command line.
type flagInput struct {
	Name         string
	UTR          string
	TaxYear      string
	TaxYears     []taxyear.TaxYear // years the wizard offers; empty allows any
	BusinessType string
	Skip         bool
}

var errTaxYearNotOffered = errors.New("tax year is not one of the offered years")

// fillWizard enters in into w step by step and completes it.
func fillWizard(w *onboarding.Wizard, in flagInput) (onboarding.Summary, error) {
	if err := w.Advance(); err != nil {
		return onboarding.Summary{}, err
	}
	if err := w.SetUserName(in.Name); err != nil {
		return onboarding.Summary{}, err
	}
	if err := w.SetUTR(in.UTR); err != nil {
		return onboarding.Summary{}, fmt.Errorf("--utr: %w", err)
	}
	if in.TaxYear != "" {
		y, err := taxyear.Parse(in.TaxYear)
		if err != nil {
			return onboarding.Summary{}, fmt.Errorf("--tax-year: %w", err)
		}
		if !offered(in.TaxYears, y) {
			return onboarding.Summary{}, fmt.Errorf("--tax-year %s: %w (see `selfemploy taxyears`)", y, errTaxYearNotOffered)
		}
		if err := w.SetTaxYear(y); err != nil {
			return onboarding.Summary{}, fmt.Errorf("--tax-year: %w", err)
		}
	}
	if in.BusinessType != "" {
		b, err := onboarding.ParseBusinessType(in.BusinessType)
		if err != nil {
			return onboarding.Summary{}, fmt.Errorf("--business-type: %w", err)
		}
		if err := w.SetBusinessType(b); err != nil {
			return onboarding.Summary{}, fmt.Errorf("--business-type: %w", err)
		}
	}

	if in.Skip {
		return w.Skip()
	}
	for w.Step() < onboarding.FinalStep {
		if err := w.Advance(); err != nil {
			if errors.Is(err, onboarding.ErrStepInvalid) {
				return onboarding.Summary{}, fmt.Errorf("%s: %w: %s", w.Step().Title(), err, invalidFields(w.Validation()))
			}
			return onboarding.Summary{}, err
		}
	}
	return w.Finish()
}

func offered(years []taxyear.TaxYear, y taxyear.TaxYear) bool {
	if len(years) == 0 {
		return true
	}
	for _, o := range years {
		if o == y {
			return true
		}
	}
	return false
}

// invalidFields lists the failing fields of v for error messages.
func invalidFields(v onboarding.ValidationResult) string {
	var bad []string
	for f, ok := range v.Fields {
		if !ok {
			bad = append(bad, string(f))
		}
	}
	sort.Strings(bad)
	return "check " + strings.Join(bad, ", ")
}

// printSummary writes summary to out, rendered as markdown when styled is set.
func printSummary(out io.Writer, summary onboarding.Summary, wrap int, styled bool) error {
	md := ui.SummaryMarkdown(summary)
	if !styled {
		_, err := io.WriteString(out, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrap))
	if err != nil {
		_, err = io.WriteString(out, md)
		return err
	}
	rendered, err := r.Render(md)
	if err != nil {
		rendered = md
	}
	_, err = io.WriteString(out, rendered)
	return err
}
