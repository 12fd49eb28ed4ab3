package entity

import (
	"fmt"
	"time"
)

// Month is a reporting period in YYYY-MM form. All snapshot, diff and
// insight artifacts are keyed by Month.
type Month string

// ParseMonth validates s as a YYYY-MM month string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("month must be in YYYY-MM format, got %q", s)
	}
	// time.Parse accepts "2006-1"; round-trip to reject it.
	if t.Format("2006-01") != s {
		return "", fmt.Errorf("month must be in YYYY-MM format, got %q", s)
	}
	return Month(s), nil
}

// MustMonth is ParseMonth that panics on invalid input. Test helper.
func MustMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Prev returns the month immediately before m, handling the January
// rollover into the previous year.
func (m Month) Prev() Month {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return ""
	}
	return Month(t.AddDate(0, -1, 0).Format("2006-01"))
}

func (m Month) String() string { return string(m) }
