package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// storeScale drops the binary noise that float-backed columns (sqlite REAL)
	// add to sums, before any rounding to cents happens.
	storeScale = 9
	moneyScale = 2
)

// RoundMoney rounds half away from zero to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(storeScale).Round(moneyScale)
}

// FormatMoney renders d with exactly two decimals, e.g. "30.02" or "-50.00".
func FormatMoney(d decimal.Decimal) string {
	return d.Round(storeScale).StringFixed(moneyScale)
}

// PlainNumber is the float form used for raw numeric fields in JSON output.
func PlainNumber(d decimal.Decimal) float64 {
	return d.Round(storeScale).InexactFloat64()
}

// MaxAmount bounds every stored quantity, price and payment so that products
// and sums stay finite in float-backed columns.
var MaxAmount = decimal.New(1, 12)

// CheckAmount rejects values whose magnitude exceeds MaxAmount.
func CheckAmount(field string, d decimal.Decimal) error {
	if d.Abs().GreaterThan(MaxAmount) {
		return NewValidationError(field, fmt.Sprintf("%s must be between -%s and %s", field, MaxAmount, MaxAmount))
	}
	return nil
}
