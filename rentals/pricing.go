package rentals

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE TABLE (rupiah)
// =============================================================================

// DurationTiers are the bookable rental lengths in hours.
var DurationTiers = []int{6, 12, 24}

var priceTable = map[PackageType]map[int]int64{
	PackagePSOnly: {6: 25000, 12: 40000, 24: 70000},
	PackagePSTV:   {6: 35000, 12: 60000, 24: 110000},
}

var (
	ErrUnknownPackage = errors.New("unknown package type")
	ErrUnknownTier    = errors.New("duration is not a bookable tier")
)

// BasePrice returns the undiscounted price for a package/tier combination.
func BasePrice(p PackageType, hours int) (decimal.Decimal, error) {
	tiers, ok := priceTable[p]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownPackage, p)
	}
	price, ok := tiers[hours]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %d hours", ErrUnknownTier, hours)
	}
	return decimal.NewFromInt(price), nil
}

// FinalPrice applies a discount to the base price, floored at zero.
// Negative discounts are treated as zero.
func FinalPrice(base, discount decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	final := base.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}
