package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// ISO WEEK LABELS
// =============================================================================

// WeekLabel returns the ISO-8601 week identity of t, e.g. "2026-W36".
// ISO weeks are Thursday-anchored: the week belongs to the Gregorian year of
// its Thursday, and week 1 is the week containing the year's first Thursday.
// Go's ISOWeek implements exactly this rule.
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%d", year, week)
}

// WeekNumber returns just the ISO week number, for display headers.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// =============================================================================
// PROMO WEEK COUNTDOWN
// =============================================================================

// WeekCountdown is the time remaining until the next weekly reset boundary.
type WeekCountdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// UntilNextMonday reports how long until the coming Monday 00:00 in t's
// location. The loyalty week resets on that boundary.
func UntilNextMonday(t time.Time) WeekCountdown {
	day := int(t.Weekday())
	if day == 0 {
		day = 7 // Sunday
	}
	daysAhead := 8 - day
	next := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, daysAhead)
	diff := next.Sub(t)

	return WeekCountdown{
		Days:    int(diff.Hours()) / 24,
		Hours:   int(diff.Hours()) % 24,
		Minutes: int(diff.Minutes()) % 60,
	}
}
