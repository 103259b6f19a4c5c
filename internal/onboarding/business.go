package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

// BusinessType is how the user trades.
type BusinessType string

const (
	BusinessSoleTrader  BusinessType = "sole_trader"
	BusinessFreelancer  BusinessType = "freelancer"
	BusinessContractor  BusinessType = "contractor"
	BusinessLandlord    BusinessType = "landlord"
	BusinessPartnership BusinessType = "partnership"
)

// ErrUnknownBusinessType is returned when selecting a type outside BusinessTypes.
var ErrUnknownBusinessType = errors.New("unknown business type")

// BusinessTypes returns the selectable types in display order.
func BusinessTypes() []BusinessType {
	return []BusinessType{
		BusinessSoleTrader,
		BusinessFreelancer,
		BusinessContractor,
		BusinessLandlord,
		BusinessPartnership,
	}
}

// Label is the human readable name.
func (b BusinessType) Label() string {
	switch b {
	case BusinessSoleTrader:
		return "Sole trader"
	case BusinessFreelancer:
		return "Freelancer"
	case BusinessContractor:
		return "Contractor"
	case BusinessLandlord:
		return "Landlord (property income)"
	case BusinessPartnership:
		return "Partnership"
	default:
		return string(b)
	}
}

// Known reports whether b is one of BusinessTypes.
func (b BusinessType) Known() bool {
	for _, t := range BusinessTypes() {
		if t == b {
			return true
		}
	}
	return false
}

// ParseBusinessType accepts the machine name, case-insensitively, with
// spaces or hyphens in place of underscores.
func ParseBusinessType(s string) (BusinessType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	b := BusinessType(norm)
	if !b.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBusinessType, s)
	}
	return b, nil
}
