package services

import (
	"math"

	"github.com/shopspring/decimal"
)

// quotientPrecision is the number of decimal places the x/significance
// quotient is rounded to before the ceiling is applied. It absorbs binary
// drift such as 3.0000000000004 without changing genuine fractions.
const quotientPrecision = 6

// CeilingToSignificance rounds x up to the nearest multiple of significance,
// the way the spreadsheet CEILING function does for non-negative values.
// A zero significance returns x unchanged.
func CeilingToSignificance(x, significance float64) float64 {
	if significance == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	q := decimal.NewFromFloat(x / significance).Round(quotientPrecision).Ceil()
	return q.Mul(decimal.NewFromFloat(significance)).InexactFloat64()
}
