/*
Package loyalty implements the voucher accrual program for walk-in players.

PURPOSE:
  Converts played hours into free-hour vouchers for promo-eligible customer
  categories, tracked per ISO week. Five accumulated hours in a week convert
  into one voucher; the remainder carries forward within the week and resets
  when the week rolls over.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: customer tier; primary/secondary school tiers are promo-eligible
  - Player: the mutable loyalty record, one per unique name
  - SessionResult: outcome of one accrual, including vouchers earned this call

INVARIANT:
  After any accrual operation, AccumulatedHours is in [0, 5). Overflow is
  converted to vouchers immediately, including multi-voucher sessions.

SEE ALSO:
  - accrual.go: week reconciliation and the conversion loop
  - roster.go: the owning collection and its operations
  - codec.go: JSON backup/restore
*/
package loyalty

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORIES
// =============================================================================

// Category is a customer tier. The labels match what the operator sees.
type Category string

const (
	CategoryPrimary   Category = "SD"   // primary school, promo-eligible
	CategorySecondary Category = "SMP"  // secondary school, promo-eligible
	CategoryGeneral   Category = "Umum" // general public, no promo
)

// PromoEligible reports whether the category participates in the
// hours-for-voucher program.
func (c Category) PromoEligible() bool {
	return c == CategoryPrimary || c == CategorySecondary
}

// Valid reports whether c is one of the known tiers.
func (c Category) Valid() bool {
	switch c {
	case CategoryPrimary, CategorySecondary, CategoryGeneral:
		return true
	}
	return false
}

// =============================================================================
// PROGRAM CONSTANTS
// =============================================================================

var (
	// HoursPerVoucher is the weekly accumulation that converts to one voucher.
	HoursPerVoucher = decimal.NewFromInt(5)

	// MaxPromoSessionHours caps a single session for promo-eligible tiers.
	MaxPromoSessionHours = decimal.NewFromInt(3)
)

// =============================================================================
// PLAYER
// =============================================================================

// Player is one loyalty customer. Name is unique case-insensitively.
type Player struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Category           Category        `json:"category"`
	CurrentWeek        string          `json:"currentWeek"`
	AccumulatedHours   decimal.Decimal `json:"accumulatedHours"`
	Vouchers           int             `json:"vouchers"`
	TotalLifetimeHours decimal.Decimal `json:"totalLifetimeHours"`
	Notes              string          `json:"notes,omitempty"`
}

// SessionResult reports the outcome of one recorded session.
type SessionResult struct {
	Player Player

	// VouchersEarned is how many vouchers this call produced, distinct from
	// the cumulative Player.Vouchers. Used for the operator notification.
	VouchersEarned int

	// Created is true when the session created a new player record.
	Created bool
}
