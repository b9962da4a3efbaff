/*
dto.go - Request and response shapes for the operator API

PURPOSE:
  Decouples the wire contract from the domain types. Domain structs already
  carry the view's JSON tags; DTOs exist for the shapes that are derived on
  read (unit cards with estimates, rentals with live countdowns) and for
  request bodies.

NAMING CONVENTION:
  - *Request: request body types from the view
  - *DTO: derived response types

SEE ALSO:
  - handlers.go: the only user of these types
*/
package api

import (
	"github.com/infinityps/rental-engine/calendar"
	"github.com/infinityps/rental-engine/rentals"
	"github.com/infinityps/rental-engine/sessions"
)

// =============================================================================
// REQUESTS
// =============================================================================

// RecordSessionRequest credits promo hours to a player.
type RecordSessionRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Hours    string `json:"hours"` // decimal string, e.g. "2.5"
}

// UpdateProfileRequest edits a player in place. AccumulatedHours is a
// decimal string; non-numeric input coerces to zero.
type UpdateProfileRequest struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	Notes            string `json:"notes"`
	AccumulatedHours string `json:"accumulatedHours"`
}

// StartSessionRequest puts a unit on the clock.
type StartSessionRequest struct {
	CustomerName string `json:"customerName"`
	Minutes      int    `json:"minutes"`
}

// CreateRentalRequest opens a fixed-term rental.
type CreateRentalRequest struct {
	CustomerName string `json:"customerName"`
	Address      string `json:"address"`
	Type         string `json:"type"`  // PS_ONLY | PS_TV
	Hours        int    `json:"hours"` // 6 | 12 | 24
	Discount     string `json:"discount"`
}

// ExtendRentalRequest adds a tier's hours to a running rental.
type ExtendRentalRequest struct {
	Hours int `json:"hours"`
}

// ThemeRequest sets the persisted UI theme.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// UnitDTO is a unit snapshot plus its live hourly rate.
type UnitDTO struct {
	sessions.Unit
	HourlyRate string `json:"hourlyRate"`
}

// RentalDTO is a rental plus its derived countdown.
type RentalDTO struct {
	rentals.Rental
	Countdown string `json:"countdown"`
	IsOverdue bool   `json:"isOverdue"`
}

// SessionResultDTO reports a recorded loyalty session.
type SessionResultDTO struct {
	PlayerID       string `json:"playerId"`
	PlayerName     string `json:"playerName"`
	VouchersEarned int    `json:"vouchersEarned"`
	Vouchers       int    `json:"vouchers"`
	Created        bool   `json:"created"`
}

// MetaDTO is the header state: week number and countdown to the reset.
type MetaDTO struct {
	WeekNumber int                    `json:"weekNumber"`
	Countdown  calendar.WeekCountdown `json:"countdown"`
	Theme      string                 `json:"theme"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
