/*
Package sessions tracks the physical console units through their hourly
billing lifecycle.

PURPOSE:
  Each unit is a little state machine:

    Available --Start--> Occupied --expiry|Stop--> Finished --Confirm--> Available
                                                            \-Cancel---> Available

  Occupied units are driven by a once-per-second tick from the owning
  controller. Cost accrues continuously from elapsed time at the configured
  hourly rate; natural expiry bills the full preset, a forced stop bills only
  the time actually played. Confirm emits the history record; Cancel discards
  the session without billing.

KEY CONCEPTS IN THIS FILE (types.go):
  - Status: the three lifecycle states
  - Unit: one console with its live countdown and running cost
  - DurationPresets: the selectable session lengths in minutes

SEE ALSO:
  - fleet.go: the state machine operations
*/
package sessions

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusOccupied  Status = "OCCUPIED"
	StatusFinished  Status = "FINISHED"
)

// =============================================================================
// UNITS
// =============================================================================

// DurationPresets are the selectable session lengths, in minutes.
var DurationPresets = []int{30, 60, 120, 180}

// ValidPreset reports whether minutes is one of the selectable lengths.
func ValidPreset(minutes int) bool {
	for _, p := range DurationPresets {
		if p == minutes {
			return true
		}
	}
	return false
}

// Unit is one physical console.
type Unit struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Status           Status          `json:"status"`
	CustomerName     string          `json:"customerName"`
	StartTime        *time.Time      `json:"startTime"`
	FinishedAt       *time.Time      `json:"finishedAt"`
	DurationMinutes  int             `json:"durationInMinutes"`
	RemainingSeconds int             `json:"remainingSeconds"`
	TotalCost        decimal.Decimal `json:"totalCost"`
}
