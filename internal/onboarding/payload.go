package onboarding

import "selfemploy/internal/taxyear"

// Payload is the data owned by one step. Exactly one variant exists per Step.
type Payload interface {
	Step() Step
}

// WelcomePayload carries no input.
type WelcomePayload struct{}

// IdentityPayload holds the user's name and optional UTR.
type IdentityPayload struct {
	UserName string
	UTR      UTR
}

// TaxYearPayload holds the selected year and the year that was recommended.
type TaxYearPayload struct {
	Selected    taxyear.TaxYear
	Recommended taxyear.TaxYear
}

// BusinessPayload holds the selected business type.
type BusinessPayload struct {
	Selected BusinessType
}

func (WelcomePayload) Step() Step  { return StepWelcome }
func (IdentityPayload) Step() Step { return StepIdentity }
func (TaxYearPayload) Step() Step  { return StepTaxYear }
func (BusinessPayload) Step() Step { return StepBusinessType }
