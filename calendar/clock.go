/*
Package calendar provides the time capabilities shared by every engine module.

PURPOSE:
  All week bucketing, day bucketing, and countdown math in the system flows
  through this package so that "which week is it" and "which local day is it"
  have exactly one answer. Modules never call time.Now directly; they take a
  Clock so tests can pin the moment.

KEY CONCEPTS:
  - Clock: Now() capability injected into every module
  - WeekLabel: ISO-8601 week identity used for the loyalty weekly reset
  - DayKey: local calendar day identity used for report bucketing

SEE ALSO:
  - week.go: ISO week numbering and the promo-week countdown
  - day.go: local-day keys and HH:MM:SS formatting
*/
package calendar

import "time"

// Clock supplies the current time. The engine owns no other source of "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location so every caller
// shares the same notion of the local calendar day.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant. Test use only.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }
