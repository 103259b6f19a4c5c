package onboarding

import "fmt"

// Step identifies one wizard screen.
type Step int

const (
	StepWelcome Step = iota + 1
	StepIdentity
	StepTaxYear
	StepBusinessType
)

// FirstStep and FinalStep bound every valid Step.
const (
	FirstStep = StepWelcome
	FinalStep = StepBusinessType
)

// Steps lists the wizard screens in order.
func Steps() []Step {
	return []Step{StepWelcome, StepIdentity, StepTaxYear, StepBusinessType}
}

// String returns the machine name of the step.
func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepIdentity:
		return "identity"
	case StepTaxYear:
		return "tax_year"
	case StepBusinessType:
		return "business_type"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Title is the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case StepWelcome:
		return "Welcome"
	case StepIdentity:
		return "About you"
	case StepTaxYear:
		return "Tax year"
	case StepBusinessType:
		return "Business type"
	default:
		return ""
	}
}

// Valid reports whether s is inside [FirstStep, FinalStep].
func (s Step) Valid() bool {
	return s >= FirstStep && s <= FinalStep
}

func clampStep(s Step) Step {
	if s < FirstStep {
		return FirstStep
	}
	if s > FinalStep {
		return FinalStep
	}
	return s
}
