// Package oddsmath converts American odds and model probabilities into
// betting metrics. Every function is pure and safe to call from render paths:
// a zero price means "no market" and yields a documented neutral value
// instead of an error.
package oddsmath

import (
	"math"

	"github.com/shopspring/decimal"
)

// ImpliedProbability converts American odds to the win probability they
// encode, as a percentage in (0,100).
// American -110 → 52.38, +150 → 40.00
// Odds of 0 return 0, which callers must read as "undefined".
func ImpliedProbability(american int) float64 {
	p, _ := ImpliedProbabilityOK(american)
	return p
}

// ImpliedProbabilityOK is ImpliedProbability with an explicit availability flag.
func ImpliedProbabilityOK(american int) (float64, bool) {
	switch {
	case american < 0:
		stake := float64(-american)
		return stake / (stake + 100.0) * 100.0, true
	case american > 0:
		return 100.0 / (float64(american) + 100.0) * 100.0, true
	default:
		return 0, false
	}
}

// AmericanToDecimal converts American odds to decimal odds.
// American +150 → Decimal 2.50
// American -200 → Decimal 1.50
// The result is strictly greater than 1 for any non-zero price. Odds of 0
// return 0 ("unavailable") rather than a price.
func AmericanToDecimal(american int) float64 {
	if american > 0 {
		return float64(american)/100.0 + 1.0
	}
	if american < 0 {
		return 100.0/float64(-american) + 1.0
	}
	return 0
}

// DecimalToAmerican converts decimal odds back to the nearest American price.
// Prices at or below 1.0 have no American equivalent and return 0.
func DecimalToAmerican(dec float64) int {
	if dec <= 1.0 || math.IsNaN(dec) || math.IsInf(dec, 0) {
		return 0
	}
	if dec >= 2.0 {
		return int(math.Round((dec - 1.0) * 100.0))
	}
	return int(math.Round(-100.0 / (dec - 1.0)))
}

// round2 rounds half away from zero to two places.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
