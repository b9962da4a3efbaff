/*
tracker.go - The active rental set and its operations

OPERATIONS:
  Create    price from the rate table minus discount (floored at 0),
            end = start + tier hours
  Extend    end time pushed forward, tier base price added; the original
            discount is not reapplied
  Return    remove from the active set and emit the history record
  Clock     derived countdown / overdue projection, never stored

Rentals are loaded from and saved to storage by the owning controller; the
tracker only manages the in-memory set.
*/
package rentals

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/infinityps/rental-engine/calendar"
	"github.com/infinityps/rental-engine/reporting"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	ErrEmptyCustomer  = errors.New("customer name is required")
	ErrEmptyAddress   = errors.New("customer address is required")
	ErrRentalNotFound = errors.New("rental not found")
)

// =============================================================================
// TRACKER
// =============================================================================

// Tracker owns the active rentals.
type Tracker struct {
	rentals []Rental
}

// NewTracker wraps an existing rental list, e.g. one loaded from storage.
func NewTracker(rentals []Rental) *Tracker {
	return &Tracker{rentals: rentals}
}

// Rentals returns a copy of the active set in creation order.
func (t *Tracker) Rentals() []Rental {
	out := make([]Rental, len(t.rentals))
	copy(out, t.rentals)
	return out
}

// Len returns the number of active rentals.
func (t *Tracker) Len() int { return len(t.rentals) }

// Create opens a new rental starting now.
func (t *Tracker) Create(customer, address string, typ PackageType, hours int, discount decimal.Decimal, now time.Time) (Rental, error) {
	customer = strings.TrimSpace(customer)
	address = strings.TrimSpace(address)
	if customer == "" {
		return Rental{}, ErrEmptyCustomer
	}
	if address == "" {
		return Rental{}, ErrEmptyAddress
	}

	base, err := BasePrice(typ, hours)
	if err != nil {
		return Rental{}, err
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	r := Rental{
		ID:           uuid.NewString(),
		CustomerName: customer,
		Address:      address,
		Type:         typ,
		PackageName:  fmt.Sprintf("%d Jam", hours),
		TotalHours:   hours,
		StartTime:    now,
		EndTime:      now.Add(time.Duration(hours) * time.Hour),
		TotalPrice:   FinalPrice(base, discount),
		Discount:     discount,
	}
	t.rentals = append(t.rentals, r)
	return r, nil
}

// Extend pushes the end time forward by a tier and adds that tier's base
// price. The creation discount is not reapplied.
func (t *Tracker) Extend(id string, hours int) (Rental, error) {
	i, ok := t.index(id)
	if !ok {
		return Rental{}, fmt.Errorf("%w: %s", ErrRentalNotFound, id)
	}
	r := t.rentals[i]

	base, err := BasePrice(r.Type, hours)
	if err != nil {
		return Rental{}, err
	}

	r.EndTime = r.EndTime.Add(time.Duration(hours) * time.Hour)
	r.TotalPrice = r.TotalPrice.Add(base)
	r.TotalHours += hours
	r.PackageName = fmt.Sprintf("%d Jam", r.TotalHours)
	t.rentals[i] = r
	return r, nil
}

// Return closes a rental: it leaves the active set and becomes a history
// record billed at the stored total price. Overdue adds nothing (display-only
// by current business rules).
func (t *Tracker) Return(id string, now time.Time) (reporting.HistoryRecord, error) {
	i, ok := t.index(id)
	if !ok {
		return reporting.HistoryRecord{}, fmt.Errorf("%w: %s", ErrRentalNotFound, id)
	}
	r := t.rentals[i]
	t.rentals = append(t.rentals[:i], t.rentals[i+1:]...)

	label := fmt.Sprintf("Sewa %s %s", r.Type.Label(), r.PackageName)
	rec := reporting.NewRecord(label, r.CustomerName,
		decimal.NewFromInt(int64(r.TotalHours)), r.TotalPrice, now, reporting.TypeRental)
	return rec, nil
}

// =============================================================================
// COUNTDOWN PROJECTION
// =============================================================================

// Clock projects the rental's countdown at the given instant. A rental whose
// end time has passed is overdue with a non-negative overdue duration.
func (r Rental) Clock(now time.Time) Countdown {
	diff := r.EndTime.Sub(now)
	if diff <= 0 {
		overdue := -diff
		return Countdown{
			Text:      "-" + calendar.FormatHMS(overdue),
			IsOverdue: true,
			OverdueBy: overdue,
		}
	}
	return Countdown{Text: calendar.FormatHMS(diff)}
}

func (t *Tracker) index(id string) (int, bool) {
	for i, r := range t.rentals {
		if r.ID == id {
			return i, true
		}
	}
	return 0, false
}
