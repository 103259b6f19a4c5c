package main

import (
	"fmt"

	"selfemploy/internal/taxyear"

	"github.com/spf13/cobra"
)

var taxYearsCount int

// taxYearsCmd lists the tax years offered during onboarding
var taxYearsCmd = &cobra.Command{
	Use:   "taxyears",
	Short: "List selectable UK tax years",
	Long: `Lists the tax years offered on the onboarding tax year step, newest first.
The current tax year (6 April to 5 April) is the recommended choice.`,
	RunE: listTaxYears,
}

func listTaxYears(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}

	now := nowFunc()
	years := cfg.TaxYearOptions(now)
	if taxYearsCount > 0 {
		years = taxyear.Options(now, taxYearsCount)
	}

	out := cmd.OutOrStdout()
	for _, y := range years {
		fmt.Fprintf(out, "%-18s %s to %s, return due %s\n",
			y.Label(now),
			y.Start().Format("2 Jan 2006"),
			y.End().Format("2 Jan 2006"),
			y.FilingDeadline().Format("2 Jan 2006"))
	}
	return nil
}
