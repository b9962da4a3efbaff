/*
fleet.go - State machine operations over the fixed set of consoles

OPERATIONS:
  Start     Available -> Occupied, requires a customer name and a preset
  Tick      recompute countdown and running cost; expire to Finished at zero
  Stop      forced Occupied -> Finished, bills actual elapsed time
  Confirm   Finished -> Available, emits the history record
  Cancel    Finished -> Available, discards without billing

BILLING:
  cost = (elapsedMinutes / 60) * hourlyRate, where elapsed time is capped at
  the configured preset. Natural expiry therefore bills exactly the preset's
  full cost; a forced stop bills only what was played.

FAILURE SEMANTICS:
  Starting a busy unit or stopping an idle one is rejected with a sentinel
  error. Everything is synchronous local state; no retries.
*/
package sessions

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/infinityps/rental-engine/reporting"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	ErrUnitNotFound    = errors.New("unit not found")
	ErrUnitNotIdle     = errors.New("unit is not available")
	ErrUnitNotRunning  = errors.New("unit has no running session")
	ErrUnitNotFinished = errors.New("unit has no finished session")
	ErrEmptyCustomer   = errors.New("customer name is required")
	ErrInvalidPreset   = errors.New("duration is not a selectable preset")
)

// =============================================================================
// FLEET
// =============================================================================

// Fleet is the fixed set of consoles plus the hourly rate they bill at.
type Fleet struct {
	units []Unit
	rate  decimal.Decimal
}

// NewFleet creates count available units named "PS #1".."PS #n".
func NewFleet(count int, hourlyRate decimal.Decimal) *Fleet {
	units := make([]Unit, count)
	for i := range units {
		units[i] = Unit{
			ID:        i + 1,
			Name:      fmt.Sprintf("PS #%d", i+1),
			Status:    StatusAvailable,
			TotalCost: decimal.Zero,
		}
	}
	return &Fleet{units: units, rate: hourlyRate}
}

// Units returns a copy of the current unit states.
func (f *Fleet) Units() []Unit {
	out := make([]Unit, len(f.units))
	copy(out, f.units)
	return out
}

// HourlyRate returns the configured billing rate.
func (f *Fleet) HourlyRate() decimal.Decimal { return f.rate }

// EstimateCost is the full price of a preset at the fleet's rate, shown to
// the operator before starting.
func (f *Fleet) EstimateCost(minutes int) decimal.Decimal {
	return costFor(minutes*60, f.rate)
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Start begins a session on an available unit.
func (f *Fleet) Start(id, minutes int, customer string, now time.Time) error {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return ErrEmptyCustomer
	}
	if !ValidPreset(minutes) {
		return ErrInvalidPreset
	}
	u, err := f.at(id)
	if err != nil {
		return err
	}
	if u.Status != StatusAvailable {
		return fmt.Errorf("%w: %s is %s", ErrUnitNotIdle, u.Name, u.Status)
	}

	start := now
	u.Status = StatusOccupied
	u.CustomerName = customer
	u.StartTime = &start
	u.FinishedAt = nil
	u.DurationMinutes = minutes
	u.RemainingSeconds = minutes * 60
	u.TotalCost = decimal.Zero
	f.put(u)
	return nil
}

// Tick advances every occupied unit to now: countdown, running cost, and the
// natural transition to Finished when time runs out. Returns the units that
// finished on this tick.
func (f *Fleet) Tick(now time.Time) []Unit {
	var finished []Unit
	for i, u := range f.units {
		if u.Status != StatusOccupied || u.StartTime == nil {
			continue
		}

		elapsed := int(now.Sub(*u.StartTime).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
		budget := u.DurationMinutes * 60

		if elapsed >= budget {
			u.RemainingSeconds = 0
			u.TotalCost = costFor(budget, f.rate)
			u.Status = StatusFinished
			at := now
			u.FinishedAt = &at
			finished = append(finished, u)
		} else {
			u.RemainingSeconds = budget - elapsed
			u.TotalCost = costFor(elapsed, f.rate)
		}
		f.units[i] = u
	}
	return finished
}

// Stop force-finishes a running session, billing only the elapsed time.
func (f *Fleet) Stop(id int, now time.Time) error {
	u, err := f.at(id)
	if err != nil {
		return err
	}
	if u.Status != StatusOccupied || u.StartTime == nil {
		return fmt.Errorf("%w: %s", ErrUnitNotRunning, u.Name)
	}

	elapsed := int(now.Sub(*u.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	if budget := u.DurationMinutes * 60; elapsed > budget {
		elapsed = budget
	}

	u.Status = StatusFinished
	u.RemainingSeconds = 0
	u.TotalCost = costFor(elapsed, f.rate)
	at := now
	u.FinishedAt = &at
	f.put(u)
	return nil
}

// Confirm closes out a finished session: the history record is emitted and
// the unit returns to Available.
func (f *Fleet) Confirm(id int, now time.Time) (reporting.HistoryRecord, error) {
	u, err := f.at(id)
	if err != nil {
		return reporting.HistoryRecord{}, err
	}
	if u.Status != StatusFinished {
		return reporting.HistoryRecord{}, fmt.Errorf("%w: %s", ErrUnitNotFinished, u.Name)
	}

	billedSeconds := 0
	if u.StartTime != nil && u.FinishedAt != nil {
		billedSeconds = int(u.FinishedAt.Sub(*u.StartTime).Seconds())
		if budget := u.DurationMinutes * 60; billedSeconds > budget {
			billedSeconds = budget
		}
	}
	durationHrs := decimal.NewFromInt(int64(billedSeconds)).
		Div(decimal.NewFromInt(3600)).Round(4)
	rec := reporting.NewRecord(u.Name, u.CustomerName, durationHrs, u.TotalCost, now, reporting.TypeHourly)

	f.put(cleared(u))
	return rec, nil
}

// Cancel discards a finished session without billing.
func (f *Fleet) Cancel(id int) error {
	u, err := f.at(id)
	if err != nil {
		return err
	}
	if u.Status != StatusFinished {
		return fmt.Errorf("%w: %s", ErrUnitNotFinished, u.Name)
	}
	f.put(cleared(u))
	return nil
}

// =============================================================================
// INTERNAL
// =============================================================================

func cleared(u Unit) Unit {
	u.Status = StatusAvailable
	u.CustomerName = ""
	u.StartTime = nil
	u.FinishedAt = nil
	u.DurationMinutes = 0
	u.RemainingSeconds = 0
	u.TotalCost = decimal.Zero
	return u
}

func costFor(elapsedSeconds int, rate decimal.Decimal) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(elapsedSeconds)).Div(decimal.NewFromInt(60))
	return minutes.Div(decimal.NewFromInt(60)).Mul(rate).Round(2)
}

func (f *Fleet) at(id int) (Unit, error) {
	for _, u := range f.units {
		if u.ID == id {
			return u, nil
		}
	}
	return Unit{}, fmt.Errorf("%w: id %d", ErrUnitNotFound, id)
}

func (f *Fleet) put(u Unit) {
	for i := range f.units {
		if f.units[i].ID == u.ID {
			f.units[i] = u
			return
		}
	}
}
