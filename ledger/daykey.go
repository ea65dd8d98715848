package ledger

import (
	"fmt"
	"time"

	"Medivue/errs"
)

// DayKey is a calendar date in canonical "YYYY-MM-DD" form. Visit identity
// is per civil day, not per instant: two timestamps on the same civil date
// in any timezone normalize to the same DayKey.
type DayKey string

const dayKeyLayout = "2006-01-02"

// DayKeyFromTime normalizes t to its own civil date. The instant is read in
// the location it carries; it is never converted to UTC first, since that
// would shift late-evening or early-morning times onto a neighboring day.
func DayKeyFromTime(t time.Time) DayKey {
	year, month, day := t.Date()
	return DayKey(fmt.Sprintf("%04d-%02d-%02d", year, int(month), day))
}

// ParseDayKey normalizes a date string to a DayKey. Plain dates and RFC 3339
// timestamps are accepted; a timestamp contributes only its civil date.
func ParseDayKey(value string) (DayKey, error) {
	if value == "" {
		return "", errs.Validation("date is required")
	}
	if t, err := time.Parse(dayKeyLayout, value); err == nil {
		return DayKeyFromTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return DayKeyFromTime(t), nil
	}
	return "", errs.Validation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD or RFC 3339", value))
}

// String returns the canonical form.
func (d DayKey) String() string {
	return string(d)
}

// Time returns midnight UTC of the civil date, for range arithmetic only.
func (d DayKey) Time() time.Time {
	t, _ := time.Parse(dayKeyLayout, string(d))
	return t
}

// Before reports whether d sorts before other. Canonical form makes
// lexicographic and chronological order agree.
func (d DayKey) Before(other DayKey) bool {
	return d < other
}

// InRange reports whether d falls within [start, end]. A zero bound is open.
func (d DayKey) InRange(start, end DayKey) bool {
	if start != "" && d < start {
		return false
	}
	if end != "" && d > end {
		return false
	}
	return true
}
