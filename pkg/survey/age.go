package survey

import (
	"strings"
	"time"

	"github.com/mesh-intelligence/census/pkg/types"
)

// Age returns the number of whole years between dob and today. A birthday
// not yet reached this year does not count. The result is never negative.
func Age(dob, today time.Time) int {
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// ParseDOB parses a date of birth in types.DateLayout.
func ParseDOB(s string) (time.Time, error) {
	dob, err := time.Parse(types.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, types.Validationf("dob %q is not a YYYY-MM-DD date", s)
	}
	return dob, nil
}

// dateOnly drops the clock part of t, keeping its calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
