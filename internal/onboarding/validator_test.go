package onboarding

import "testing"

func TestValidate_Identity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   IdentityPayload
		wantName  bool
		wantUTR   bool
		wantCanGo bool
	}{
		{"empty", IdentityPayload{}, false, true, false},
		{"one char", IdentityPayload{UserName: "A"}, false, true, false},
		{"two chars", IdentityPayload{UserName: "Al"}, true, true, true},
		{"multibyte", IdentityPayload{UserName: "Zoë"}, true, true, true},
		{"two runes", IdentityPayload{UserName: "Éa"}, true, true, true},
		{"padded single", IdentityPayload{UserName: "  A  "}, false, true, false},
		{"partial utr", IdentityPayload{UserName: "Alice", UTR: UTR{"1234", "", ""}}, true, false, false},
		{"short segment", IdentityPayload{UserName: "Alice", UTR: UTR{"123", "456", "789"}}, true, false, false},
		{"full utr", IdentityPayload{UserName: "Alice", UTR: UTR{"1234", "567", "890"}}, true, true, true},
		{"utr without name", IdentityPayload{UTR: UTR{"1234", "567", "890"}}, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := Validate(tt.payload)
			if r.Step != StepIdentity {
				t.Errorf("expected identity step, got %v", r.Step)
			}
			if got := r.Valid(FieldUserName); got != tt.wantName {
				t.Errorf("name valid = %v, want %v", got, tt.wantName)
			}
			if got := r.Valid(FieldUTR); got != tt.wantUTR {
				t.Errorf("utr valid = %v, want %v", got, tt.wantUTR)
			}
			if r.CanContinue != tt.wantCanGo {
				t.Errorf("CanContinue = %v, want %v", r.CanContinue, tt.wantCanGo)
			}
		})
	}
}

func TestValidate_OtherSteps(t *testing.T) {
	t.Parallel()

	if !Validate(WelcomePayload{}).CanContinue {
		t.Error("welcome should always validate")
	}
	if Validate(TaxYearPayload{}).CanContinue {
		t.Error("tax year step without a selection should not validate")
	}
	if !Validate(TaxYearPayload{Selected: mustYear(t, "2025/26")}).CanContinue {
		t.Error("selected tax year should validate")
	}
	if Validate(BusinessPayload{}).CanContinue {
		t.Error("business step without a selection should not validate")
	}
	if !Validate(BusinessPayload{Selected: BusinessPartnership}).CanContinue {
		t.Error("selected business type should validate")
	}
	if Validate(nil).CanContinue {
		t.Error("nil payload should not validate")
	}
}

func TestValidationResult_ValidForeignField(t *testing.T) {
	t.Parallel()

	r := Validate(WelcomePayload{})
	if !r.Valid(FieldUserName) {
		t.Error("fields a step does not own should report valid")
	}
}

func TestState_PayloadVariants(t *testing.T) {
	t.Parallel()

	w := newTestWizard(t)
	s := w.State()
	for _, step := range Steps() {
		p := s.Payload(step)
		if p == nil {
			t.Fatalf("nil payload for %v", step)
		}
		if p.Step() != step {
			t.Errorf("payload for %v reports %v", step, p.Step())
		}
	}
	if s.Payload(Step(9)) != nil {
		t.Error("expected nil payload for unknown step")
	}
}
