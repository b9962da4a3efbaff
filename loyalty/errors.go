package loyalty

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptyName is returned when a session is submitted without a name.
	ErrEmptyName = errors.New("customer name is required")

	// ErrInvalidDuration is returned when the session duration is not a
	// positive number of hours.
	ErrInvalidDuration = errors.New("duration must be a positive number of hours")

	// ErrPromoLimitExceeded is returned when a promo-eligible category
	// submits a single session above the per-session cap.
	ErrPromoLimitExceeded = errors.New("session exceeds promo per-session limit")

	// ErrInvalidCategory is returned for an unknown customer tier.
	ErrInvalidCategory = errors.New("unknown customer category")

	// ErrMalformedBackup is returned when a restore payload is not a
	// sequence of player-shaped records.
	ErrMalformedBackup = errors.New("backup payload is not a player list")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PromoLimitError reports a session that exceeded the promo cap.
type PromoLimitError struct {
	Category Category
	Hours    decimal.Decimal
	Limit    decimal.Decimal
}

func (e *PromoLimitError) Error() string {
	return fmt.Sprintf("category %s is limited to %s hours per session, got %s",
		e.Category, e.Limit, e.Hours)
}

func (e *PromoLimitError) Unwrap() error { return ErrPromoLimitExceeded }

// IsValidation reports whether the error is recoverable operator input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrPromoLimitExceeded) ||
		errors.Is(err, ErrInvalidCategory)
}
