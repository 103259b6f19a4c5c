// Package taxyear models UK fiscal years, which run from 6 April to 5 April.
package taxyear

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TaxYear identifies a UK tax year by the calendar year in which it starts.
// 2025/26 has StartYear 2025. The zero value means "no tax year selected".
type TaxYear struct {
	StartYear int
}

// New returns the tax year starting in the given calendar year.
func New(startYear int) TaxYear {
	return TaxYear{StartYear: startYear}
}

// IsZero reports whether no tax year is set.
func (y TaxYear) IsZero() bool {
	return y.StartYear == 0
}

// String renders the year as "2025/26".
func (y TaxYear) String() string {
	if y.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d/%02d", y.StartYear, (y.StartYear+1)%100)
}

// Start returns 6 April of the start year.
func (y TaxYear) Start() time.Time {
	return time.Date(y.StartYear, time.April, 6, 0, 0, 0, 0, time.UTC)
}

// End returns 5 April of the following year.
func (y TaxYear) End() time.Time {
	return time.Date(y.StartYear+1, time.April, 5, 0, 0, 0, 0, time.UTC)
}

// FilingDeadline is the online Self Assessment deadline: 31 January after the year ends.
func (y TaxYear) FilingDeadline() time.Time {
	return time.Date(y.StartYear+2, time.January, 31, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the tax year.
func (y TaxYear) Contains(t time.Time) bool {
	return ForDate(t) == y
}

// Previous returns the tax year before y.
func (y TaxYear) Previous() TaxYear {
	return TaxYear{StartYear: y.StartYear - 1}
}

// Label renders the year for selection lists, marking the one containing now.
func (y TaxYear) Label(now time.Time) string {
	if y.Contains(now) {
		return y.String() + " (current)"
	}
	return y.String()
}

// ForDate returns the tax year containing t. Dates are compared on the
// calendar day in t's own location.
func ForDate(t time.Time) TaxYear {
	year := t.Year()
	if t.Month() < time.April || (t.Month() == time.April && t.Day() < 6) {
		year--
	}
	return TaxYear{StartYear: year}
}

// Recommended is the year pre-selected during onboarding: the one in progress.
func Recommended(now time.Time) TaxYear {
	return ForDate(now)
}

// Options returns n selectable years, the recommended year first and then
// the preceding years in descending order. n < 1 is treated as 1.
func Options(now time.Time, n int) []TaxYear {
	if n < 1 {
		n = 1
	}
	out := make([]TaxYear, 0, n)
	y := Recommended(now)
	for i := 0; i < n; i++ {
		out = append(out, y)
		y = y.Previous()
	}
	return out
}

// MinStartYear is the earliest start year Parse accepts.
const MinStartYear = 1900

// Parse accepts "2025/26" or "2025-26".
func Parse(s string) (TaxYear, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, "/-")
	if sep != 4 || len(s) != 7 || !isDigits(s[:4]) || !isDigits(s[5:]) {
		return TaxYear{}, fmt.Errorf("invalid tax year %q: expected YYYY/YY", s)
	}
	start, err := strconv.Atoi(s[:4])
	if err != nil {
		return TaxYear{}, fmt.Errorf("invalid tax year %q: %w", s, err)
	}
	if start < MinStartYear {
		return TaxYear{}, fmt.Errorf("invalid tax year %q: starts before %d", s, MinStartYear)
	}
	end, err := strconv.Atoi(s[5:])
	if err != nil {
		return TaxYear{}, fmt.Errorf("invalid tax year %q: %w", s, err)
	}
	if end != (start+1)%100 {
		return TaxYear{}, fmt.Errorf("invalid tax year %q: %02d does not follow %d", s, end, start)
	}
	return TaxYear{StartYear: start}, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MarshalText implements encoding.TextMarshaler.
func (y TaxYear) MarshalText() ([]byte, error) {
	return []byte(y.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the zero year.
func (y *TaxYear) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*y = TaxYear{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*y = parsed
	return nil
}
