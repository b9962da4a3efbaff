/*
accrual.go - Week reconciliation and the hours-to-voucher conversion

PURPOSE:
  The two pure functions every loyalty mutation goes through. Centralizing
  them here keeps the weekly reset from diverging across call sites: session
  recording, the eager startup sweep, and the operator bulk reset all use the
  same reconcileWeek.

CONVERSION RULE:
  Promo-eligible categories accumulate hours within the current ISO week.
  Each full block of 5 hours converts to 1 voucher; the loop handles sessions
  long enough to earn several vouchers at once. Non-eligible categories only
  grow lifetime hours.

SEE ALSO:
  - roster.go: the stateful operations calling into these
*/
package loyalty

import "github.com/shopspring/decimal"

// reconcileWeek resets the weekly accumulator when the stored week label is
// stale. Pure: returns the updated copy. Idempotent within a week.
func reconcileWeek(p Player, weekLabel string) Player {
	if p.CurrentWeek != weekLabel {
		p.AccumulatedHours = decimal.Zero
		p.CurrentWeek = weekLabel
	}
	return p
}

// accrue adds a session's hours to the player and converts any full voucher
// blocks. Returns the updated player and the vouchers earned by this call.
// The caller must have validated hours and reconciled the week first.
func accrue(p Player, hours decimal.Decimal) (Player, int) {
	p.TotalLifetimeHours = p.TotalLifetimeHours.Add(hours)

	if !p.Category.PromoEligible() {
		return p, 0
	}

	p.AccumulatedHours = p.AccumulatedHours.Add(hours)
	earned := 0
	for p.AccumulatedHours.GreaterThanOrEqual(HoursPerVoucher) {
		p.Vouchers++
		p.AccumulatedHours = p.AccumulatedHours.Sub(HoursPerVoucher)
		earned++
	}
	return p, earned
}

// validateSession checks operator input before any mutation happens.
func validateSession(name string, category Category, hours decimal.Decimal) error {
	if name == "" {
		return ErrEmptyName
	}
	if !category.Valid() {
		return ErrInvalidCategory
	}
	if !hours.IsPositive() {
		return ErrInvalidDuration
	}
	if category.PromoEligible() && hours.GreaterThan(MaxPromoSessionHours) {
		return &PromoLimitError{Category: category, Hours: hours, Limit: MaxPromoSessionHours}
	}
	return nil
}
