package oddsmath

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OddsFormat selects how a price is rendered.
type OddsFormat string

const (
	FormatAmerican OddsFormat = "AMERICAN"
	FormatDecimal  OddsFormat = "DECIMAL"
)

// Unavailable is rendered for a price of 0 in every format.
const Unavailable = "-"

// ParseOddsFormat accepts "american" or "decimal" in any case.
func ParseOddsFormat(s string) (OddsFormat, bool) {
	switch OddsFormat(strings.ToUpper(strings.TrimSpace(s))) {
	case FormatAmerican:
		return FormatAmerican, true
	case FormatDecimal:
		return FormatDecimal, true
	default:
		return "", false
	}
}

// FormatOdds renders a price.
// American +150 → "+150", -200 → "-200"; Decimal +150 → "2.50".
// Unknown formats render as American.
func FormatOdds(american int, format OddsFormat) string {
	if american == 0 {
		return Unavailable
	}

	if format == FormatDecimal {
		return decimal.NewFromFloat(AmericanToDecimal(american)).StringFixed(2)
	}

	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}
