/*
Package reporting owns the transaction history log and its read-side
aggregations.

PURPOSE:
  Every confirmed hourly session and every returned rental appends one
  immutable HistoryRecord. Reports fold over that log: filtered day-bucketed
  revenue series, a fixed trailing-week rental series, the same-calendar-day
  total, and per-customer spend ranks all recompute from it on demand.
  The only mutation the log supports besides append is a bulk clear.

SEE ALSO:
  - aggregate.go: filters and bucketing
  - export.go: JSON / XLSX / PDF renditions
*/
package reporting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// RecordType tags which billing model produced a record.
type RecordType string

const (
	TypeHourly RecordType = "HOURLY"
	TypeRental RecordType = "RENTAL"
)

// HistoryRecord is one append-only log entry. Immutable once created.
type HistoryRecord struct {
	ID           string          `json:"id"`
	UnitName     string          `json:"unitName"` // unit or package label
	CustomerName string          `json:"customerName"`
	DurationHrs  decimal.Decimal `json:"duration"` // hours
	Cost         decimal.Decimal `json:"cost"`
	Timestamp    time.Time       `json:"timestamp"`
	Type         RecordType      `json:"type"`
}

// NewRecord stamps a fresh identifier onto a record.
func NewRecord(unitName, customer string, durationHrs, cost decimal.Decimal, at time.Time, typ RecordType) HistoryRecord {
	return HistoryRecord{
		ID:           uuid.NewString(),
		UnitName:     unitName,
		CustomerName: customer,
		DurationHrs:  durationHrs,
		Cost:         cost,
		Timestamp:    at,
		Type:         typ,
	}
}
