/*
aggregate.go - Filtered day-bucket aggregation over the history log

PURPOSE:
  One fold produces everything the analytics view shows:
  - a day-bucketed revenue/count series for the filtered records, ascending
  - a fixed trailing-7-day series of rental revenue, ignoring the filters
  - the same-calendar-day total, also ignoring the filters
  - filtered totals: revenue, count, average per transaction

  Day identity is the record's calendar day in the configured location
  (calendar.DayKey); "today" compares date fields, not a rolling window.
  An empty log aggregates to zero totals and empty series, never an error.
*/
package reporting

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/infinityps/rental-engine/calendar"
)

// =============================================================================
// FILTER
// =============================================================================

// Filter narrows the history log for the main series and totals. Zero values
// disable the corresponding criterion.
type Filter struct {
	// From/To bound the range at day granularity, inclusive on both ends.
	From time.Time
	To   time.Time

	// Type keeps only records of one billing model.
	Type RecordType

	// Package is a substring matched against rental package labels.
	// Hourly records never match a package filter.
	Package string

	// Customer is a case-insensitive name substring.
	Customer string
}

func (f Filter) matches(rec HistoryRecord, loc *time.Location) bool {
	day := calendar.DayKey(rec.Timestamp, loc)
	if !f.From.IsZero() && day < calendar.DayKey(f.From, loc) {
		return false
	}
	if !f.To.IsZero() && day > calendar.DayKey(f.To, loc) {
		return false
	}
	if f.Type != "" && rec.Type != f.Type {
		return false
	}
	if f.Customer != "" &&
		!strings.Contains(strings.ToLower(rec.CustomerName), strings.ToLower(f.Customer)) {
		return false
	}
	if f.Package != "" {
		if rec.Type != TypeRental {
			return false
		}
		if !strings.Contains(rec.UnitName, f.Package) {
			return false
		}
	}
	return true
}

// =============================================================================
// REPORT
// =============================================================================

// DayBucket is one day of summed revenue.
type DayBucket struct {
	Key     string          `json:"date"` // "2006-01-02" in the local timezone
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

// Report is the aggregated view the analytics screen renders.
type Report struct {
	// Buckets is the filtered series, one bucket per local day, ascending.
	Buckets []DayBucket `json:"buckets"`

	// TrailingWeek is the last 7 local days (today included, oldest first)
	// of rental revenue, independent of the filters. Always 7 entries.
	TrailingWeek []DayBucket `json:"trailingWeek"`

	// TodayRevenue sums every record on today's local calendar day,
	// independent of the filters.
	TodayRevenue decimal.Decimal `json:"todayRevenue"`

	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	Count        int             `json:"count"`
	// Average is revenue per transaction, rounded to whole rupiah.
	Average decimal.Decimal `json:"average"`

	// Records are the filtered entries, newest first, for the detail table.
	Records []HistoryRecord `json:"records"`
}

// Aggregate folds the history log into a Report.
func Aggregate(records []HistoryRecord, f Filter, now time.Time, loc *time.Location) Report {
	rep := Report{
		TodayRevenue: decimal.Zero,
		TotalRevenue: decimal.Zero,
		Average:      decimal.Zero,
	}

	buckets := make(map[string]*DayBucket)
	trailing := make(map[string]*DayBucket)

	// Seed the trailing week so quiet days render as zero bars.
	for i := 6; i >= 0; i-- {
		key := calendar.DayKey(now.AddDate(0, 0, -i), loc)
		trailing[key] = &DayBucket{Key: key, Revenue: decimal.Zero}
	}

	for _, rec := range records {
		day := calendar.DayKey(rec.Timestamp, loc)

		if calendar.SameLocalDay(rec.Timestamp, now, loc) {
			rep.TodayRevenue = rep.TodayRevenue.Add(rec.Cost)
		}
		if rec.Type == TypeRental {
			if b, ok := trailing[day]; ok {
				b.Revenue = b.Revenue.Add(rec.Cost)
				b.Count++
			}
		}

		if !f.matches(rec, loc) {
			continue
		}

		rep.TotalRevenue = rep.TotalRevenue.Add(rec.Cost)
		rep.Count++
		rep.Records = append(rep.Records, rec)

		b, ok := buckets[day]
		if !ok {
			b = &DayBucket{Key: day, Revenue: decimal.Zero}
			buckets[day] = b
		}
		b.Revenue = b.Revenue.Add(rec.Cost)
		b.Count++
	}

	for _, b := range buckets {
		rep.Buckets = append(rep.Buckets, *b)
	}
	sort.Slice(rep.Buckets, func(i, j int) bool { return rep.Buckets[i].Key < rep.Buckets[j].Key })

	for i := 6; i >= 0; i-- {
		key := calendar.DayKey(now.AddDate(0, 0, -i), loc)
		rep.TrailingWeek = append(rep.TrailingWeek, *trailing[key])
	}

	if rep.Count > 0 {
		rep.Average = rep.TotalRevenue.DivRound(decimal.NewFromInt(int64(rep.Count)), 0)
	}

	// Newest first for the detail table.
	sort.SliceStable(rep.Records, func(i, j int) bool {
		return rep.Records[i].Timestamp.After(rep.Records[j].Timestamp)
	})
	return rep
}
