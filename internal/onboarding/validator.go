package onboarding

import (
	"strings"
	"unicode/utf8"
)

// MinNameLength is the shortest accepted name, counted in characters after trimming.
const MinNameLength = 2

// Field names one validated input.
type Field string

const (
	FieldUserName     Field = "user_name"
	FieldUTR          Field = "utr"
	FieldTaxYear      Field = "tax_year"
	FieldBusinessType Field = "business_type"
)

// ValidationResult is the outcome of validating one step.
type ValidationResult struct {
	Step        Step
	Fields      map[Field]bool
	CanContinue bool
}

// Valid reports the validity of f. Fields the step does not own are valid.
func (r ValidationResult) Valid(f Field) bool {
	ok, present := r.Fields[f]
	return !present || ok
}

// Validate checks a single step's payload.
func Validate(p Payload) ValidationResult {
	switch v := p.(type) {
	case WelcomePayload:
		return ValidationResult{Step: StepWelcome, Fields: map[Field]bool{}, CanContinue: true}
	case IdentityPayload:
		return validateIdentity(v)
	case TaxYearPayload:
		ok := !v.Selected.IsZero()
		return ValidationResult{
			Step:        StepTaxYear,
			Fields:      map[Field]bool{FieldTaxYear: ok},
			CanContinue: ok,
		}
	case BusinessPayload:
		ok := v.Selected.Known()
		return ValidationResult{
			Step:        StepBusinessType,
			Fields:      map[Field]bool{FieldBusinessType: ok},
			CanContinue: ok,
		}
	default:
		return ValidationResult{Fields: map[Field]bool{}}
	}
}

func validateIdentity(p IdentityPayload) ValidationResult {
	name := ValidName(p.UserName)
	// UTR is optional, but once started all three segments must be filled.
	utr := p.UTR.IsEmpty() || p.UTR.IsComplete()
	return ValidationResult{
		Step:        StepIdentity,
		Fields:      map[Field]bool{FieldUserName: name, FieldUTR: utr},
		CanContinue: name && utr,
	}
}

// ValidName reports whether name meets MinNameLength.
func ValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= MinNameLength
}
