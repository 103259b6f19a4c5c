package onboarding

import (
	"errors"
	"testing"
)

func TestParseUTR(t *testing.T) {
	t.Parallel()

	u, err := ParseUTR("12345 67890")
	if err != nil {
		t.Fatalf("ParseUTR: %v", err)
	}
	if u != (UTR{"1234", "567", "890"}) {
		t.Errorf("unexpected segments %v", u)
	}
	if u.String() != "1234567890" {
		t.Errorf("unexpected String %q", u.String())
	}
	if u.Masked() != "*******890" {
		t.Errorf("unexpected Masked %q", u.Masked())
	}

	empty, err := ParseUTR("  ")
	if err != nil || !empty.IsEmpty() {
		t.Errorf("expected empty UTR, got %v %v", empty, err)
	}

	for _, bad := range []string{"123", "12345678901", "12345abcde"} {
		if _, err := ParseUTR(bad); !errors.Is(err, ErrSegmentValue) {
			t.Errorf("expected ErrSegmentValue for %q, got %v", bad, err)
		}
	}
}

func TestUTR_States(t *testing.T) {
	t.Parallel()

	var u UTR
	if !u.IsEmpty() || u.IsPartial() || u.IsComplete() {
		t.Error("zero UTR should be empty only")
	}
	u, _ = u.WithSegment(1, "1234")
	if !u.IsPartial() {
		t.Error("one segment should be partial")
	}
	if u.String() != "" || u.Masked() != "" {
		t.Error("partial UTR should render empty")
	}
	if u.Segment(1) != "1234" || u.Segment(4) != "" {
		t.Error("unexpected Segment results")
	}
}
