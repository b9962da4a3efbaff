/*
Package rentals tracks fixed-duration home rentals: create, extend, return,
and the derived overdue countdown.

PURPOSE:
  A rental is a console delivered to the customer's address for a fixed
  package (6, 12, or 24 hours) at a fixed price, optionally discounted.
  Unlike hourly sessions there is no running meter: the price is settled at
  creation and only grows when the operator extends the rental. Overdue is a
  pure display projection — the end timestamp passing changes nothing in the
  stored record (business rules for late fees are not defined; see Return).

SEE ALSO:
  - pricing.go: the package rate table
  - tracker.go: the active-rental set
  - rank.go: derived customer spend tiers
*/
package rentals

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PACKAGE TYPES
// =============================================================================

// PackageType selects which equipment bundle is delivered.
type PackageType string

const (
	PackagePSOnly PackageType = "PS_ONLY"
	PackagePSTV   PackageType = "PS_TV"
)

// Label is the operator-facing name, also used in history records.
func (p PackageType) Label() string {
	if p == PackagePSTV {
		return "PS + TV"
	}
	return "PS Only"
}

// Valid reports whether p is a known package type.
func (p PackageType) Valid() bool {
	return p == PackagePSOnly || p == PackagePSTV
}

// =============================================================================
// RENTAL
// =============================================================================

// Rental is one active fixed-term rental.
type Rental struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Address      string          `json:"address"`
	Type         PackageType     `json:"type"`
	PackageName  string          `json:"packageName"` // e.g. "6 Jam"
	TotalHours   int             `json:"totalHours"`  // initial tier plus extensions
	StartTime    time.Time       `json:"startTime"`
	EndTime      time.Time       `json:"endTime"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	Discount     decimal.Decimal `json:"discount"`
}

// Countdown is the derived display state of a rental clock.
type Countdown struct {
	// Text is HH:MM:SS remaining, or -HH:MM:SS once overdue.
	Text      string
	IsOverdue bool
	// OverdueBy is how long past the end time; zero while not overdue.
	OverdueBy time.Duration
}
