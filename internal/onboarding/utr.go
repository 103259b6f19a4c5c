package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

// UTRSegments is the number of input boxes a UTR is entered in.
const UTRSegments = 3

// UTRSegmentWidths are the digit counts of the three UTR boxes (4+3+3).
var UTRSegmentWidths = [UTRSegments]int{4, 3, 3}

var (
	// ErrSegmentIndex is returned for a segment number outside 1..3.
	ErrSegmentIndex = errors.New("utr segment index out of range")
	// ErrSegmentValue is returned for a segment holding non-digits or too many digits.
	ErrSegmentValue = errors.New("invalid utr segment")
)

// UTR is a Unique Taxpayer Reference as typed into three fixed-width boxes.
// Segments may be partially filled while the user is typing.
type UTR [UTRSegments]string

// ParseUTR splits a 10 digit reference into its segments. Spaces are ignored
// and the empty string yields an empty UTR.
func ParseUTR(s string) (UTR, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if digits == "" {
		return UTR{}, nil
	}
	if len(digits) != 10 || !isDigits(digits) {
		return UTR{}, fmt.Errorf("%w: %q is not a 10 digit reference", ErrSegmentValue, s)
	}
	return UTR{digits[:4], digits[4:7], digits[7:]}, nil
}

// Segment returns segment n (1-based); out of range yields "".
func (u UTR) Segment(n int) string {
	if n < 1 || n > UTRSegments {
		return ""
	}
	return u[n-1]
}

// WithSegment returns a copy of u with segment n replaced.
func (u UTR) WithSegment(n int, value string) (UTR, error) {
	if err := checkSegment(n, value); err != nil {
		return u, err
	}
	u[n-1] = value
	return u, nil
}

// IsEmpty reports whether no segment has any input.
func (u UTR) IsEmpty() bool {
	for _, s := range u {
		if s != "" {
			return false
		}
	}
	return true
}

// IsComplete reports whether every segment holds exactly its width in digits.
func (u UTR) IsComplete() bool {
	for i, s := range u {
		if len(s) != UTRSegmentWidths[i] || !isDigits(s) {
			return false
		}
	}
	return true
}

// IsPartial reports input that is neither empty nor complete. A partial UTR
// blocks the identity step.
func (u UTR) IsPartial() bool {
	return !u.IsEmpty() && !u.IsComplete()
}

// String returns the 10 digit reference, or "" unless complete.
func (u UTR) String() string {
	if !u.IsComplete() {
		return ""
	}
	return u[0] + u[1] + u[2]
}

// Masked hides all but the last three digits.
func (u UTR) Masked() string {
	s := u.String()
	if s == "" {
		return ""
	}
	return strings.Repeat("*", len(s)-3) + s[len(s)-3:]
}

func checkSegment(n int, value string) error {
	if n < 1 || n > UTRSegments {
		return fmt.Errorf("%w: %d", ErrSegmentIndex, n)
	}
	if len(value) > UTRSegmentWidths[n-1] {
		return fmt.Errorf("%w: segment %d takes at most %d digits", ErrSegmentValue, n, UTRSegmentWidths[n-1])
	}
	if !isDigits(value) {
		return fmt.Errorf("%w: segment %d must be numeric", ErrSegmentValue, n)
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
