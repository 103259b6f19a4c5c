package onboarding

import (
	"fmt"
	"strings"
	"time"

	"selfemploy/internal/taxyear"
)

// Summary is the read-only record produced when onboarding completes. It is
// handed out by value and never changes after it is built.
type Summary struct {
	UserName            string          `json:"user_name"`
	UTR                 string          `json:"utr,omitempty"`
	TaxYear             taxyear.TaxYear `json:"tax_year"`
	BusinessType        BusinessType    `json:"business_type"`
	PersonalizedWelcome string          `json:"personalized_welcome"`
	Skipped             bool            `json:"skipped"`
	CompletedAt         time.Time       `json:"completed_at"`
}

// BuildSummary snapshots s at the moment of completion.
func BuildSummary(s State, at time.Time) Summary {
	name := strings.TrimSpace(s.UserName())
	return Summary{
		UserName:            name,
		UTR:                 s.UTR().String(),
		TaxYear:             s.SelectedTaxYear(),
		BusinessType:        s.SelectedBusinessType(),
		PersonalizedWelcome: Welcome(name),
		Skipped:             s.Skipped(),
		CompletedAt:         at,
	}
}

// Welcome returns the closing greeting for name.
func Welcome(name string) string {
	if name == "" {
		return "You're all set!"
	}
	return fmt.Sprintf("You're all set, %s!", name)
}
