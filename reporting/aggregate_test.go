package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*3600)

// now is a fixed Tuesday afternoon; records are placed relative to it.
var now = time.Date(2026, 9, 1, 15, 0, 0, 0, jakarta)

func rec(daysAgo int, customer, unit string, cost int64, typ RecordType) HistoryRecord {
	return NewRecord(unit, customer,
		decimal.NewFromInt(1), decimal.NewFromInt(cost),
		now.AddDate(0, 0, -daysAgo), typ)
}

func TestAggregateEmptyLog(t *testing.T) {
	// GIVEN no history at all
	// WHEN aggregating
	rep := Aggregate(nil, Filter{}, now, jakarta)

	// THEN totals are zero, the trailing week is still seeded with 7 days
	assert.True(t, rep.TotalRevenue.IsZero())
	assert.True(t, rep.TodayRevenue.IsZero())
	assert.True(t, rep.Average.IsZero())
	assert.Zero(t, rep.Count)
	assert.Empty(t, rep.Buckets)
	require.Len(t, rep.TrailingWeek, 7)
	for _, b := range rep.TrailingWeek {
		assert.True(t, b.Revenue.IsZero())
	}
}

func TestAggregateBucketsByLocalDay(t *testing.T) {
	// GIVEN two records on one day and one on the next
	records := []HistoryRecord{
		rec(1, "Budi", "PS #1", 10000, TypeHourly),
		rec(1, "Sari", "PS #2", 15000, TypeHourly),
		rec(0, "Budi", "PS #1", 5000, TypeHourly),
	}

	rep := Aggregate(records, Filter{}, now, jakarta)

	// THEN buckets come out ascending with per-day sums
	require.Len(t, rep.Buckets, 2)
	assert.Equal(t, "2026-08-31", rep.Buckets[0].Key)
	assert.True(t, rep.Buckets[0].Revenue.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, 2, rep.Buckets[0].Count)
	assert.Equal(t, "2026-09-01", rep.Buckets[1].Key)
	assert.True(t, rep.Buckets[1].Revenue.Equal(decimal.NewFromInt(5000)))

	assert.True(t, rep.TotalRevenue.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, 3, rep.Count)
	assert.True(t, rep.Average.Equal(decimal.NewFromInt(10000)))
}

func TestAggregateTrailingWeekIsRentalOnlyAndFilterIndependent(t *testing.T) {
	records := []HistoryRecord{
		rec(0, "Budi", "Sewa PS Only 6 Jam", 25000, TypeRental),
		rec(3, "Sari", "Sewa PS + TV 12 Jam", 60000, TypeRental),
		rec(3, "Sari", "PS #1", 6000, TypeHourly), // hourly never counts here
		rec(9, "Tono", "Sewa PS Only 24 Jam", 70000, TypeRental), // out of window
	}

	// WHEN a filter excludes everything from the main series
	rep := Aggregate(records, Filter{Customer: "nobody"}, now, jakarta)

	// THEN the trailing week still carries the rental revenue
	require.Len(t, rep.TrailingWeek, 7)
	assert.Equal(t, "2026-08-26", rep.TrailingWeek[0].Key)
	assert.Equal(t, "2026-09-01", rep.TrailingWeek[6].Key)
	assert.True(t, rep.TrailingWeek[6].Revenue.Equal(decimal.NewFromInt(25000)))
	assert.True(t, rep.TrailingWeek[3].Revenue.Equal(decimal.NewFromInt(60000)))
	assert.True(t, rep.TrailingWeek[0].Revenue.IsZero())
	assert.Zero(t, rep.Count)
	assert.Empty(t, rep.Records)
}

func TestAggregateTodayRevenueIgnoresFilters(t *testing.T) {
	records := []HistoryRecord{
		rec(0, "Budi", "PS #1", 6000, TypeHourly),
		rec(0, "Sari", "Sewa PS Only 6 Jam", 25000, TypeRental),
		rec(1, "Budi", "PS #1", 9000, TypeHourly),
	}

	rep := Aggregate(records, Filter{Type: TypeRental}, now, jakarta)

	// Today's total mixes both types even though the filter keeps rentals only.
	assert.True(t, rep.TodayRevenue.Equal(decimal.NewFromInt(31000)))
	assert.Equal(t, 1, rep.Count)
	assert.True(t, rep.TotalRevenue.Equal(decimal.NewFromInt(25000)))
}

func TestAggregateFilters(t *testing.T) {
	records := []HistoryRecord{
		rec(0, "Budi Santoso", "Sewa PS Only 6 Jam", 25000, TypeRental),
		rec(2, "Sari", "Sewa PS + TV 12 Jam", 60000, TypeRental),
		rec(5, "Budi Santoso", "PS #2", 12000, TypeHourly),
	}

	t.Run("customer substring is case-insensitive", func(t *testing.T) {
		rep := Aggregate(records, Filter{Customer: "budi"}, now, jakarta)
		assert.Equal(t, 2, rep.Count)
	})

	t.Run("package filter never matches hourly records", func(t *testing.T) {
		rep := Aggregate(records, Filter{Package: "PS"}, now, jakarta)
		require.Equal(t, 2, rep.Count)
		for _, r := range rep.Records {
			assert.Equal(t, TypeRental, r.Type)
		}
	})

	t.Run("date range is inclusive at day granularity", func(t *testing.T) {
		rep := Aggregate(records, Filter{
			From: now.AddDate(0, 0, -2),
			To:   now,
		}, now, jakarta)
		assert.Equal(t, 2, rep.Count)
	})
}

func TestAggregateRecordsNewestFirst(t *testing.T) {
	records := []HistoryRecord{
		rec(2, "A", "PS #1", 1000, TypeHourly),
		rec(0, "B", "PS #1", 2000, TypeHourly),
		rec(1, "C", "PS #1", 3000, TypeHourly),
	}

	rep := Aggregate(records, Filter{}, now, jakarta)

	require.Len(t, rep.Records, 3)
	assert.Equal(t, "B", rep.Records[0].CustomerName)
	assert.Equal(t, "C", rep.Records[1].CustomerName)
	assert.Equal(t, "A", rep.Records[2].CustomerName)
}
