package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// LOCAL DAY IDENTITY
// =============================================================================

// DayKey returns the calendar day of t in loc as "2006-01-02". Report series
// are keyed by this value.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// SameLocalDay reports whether a and b fall on the same calendar day in loc.
// This compares date fields, not a rolling 24h window.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DisplayDate renders t in loc as "02-01-2006", the operator-facing format.
func DisplayDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02-01-2006")
}

// =============================================================================
// DURATION FORMATTING
// =============================================================================

// FormatHMS renders a non-negative duration as HH:MM:SS. Hours do not wrap.
func FormatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
