package model

import (
	"math"
	"strconv"
)

// RoundHome rounds a home-currency amount to a whole unit. All persisted
// home-currency shares go through this; aggregation does not (rounding is a
// display-boundary concern).
func RoundHome(v float64) float64 {
	return math.Round(v)
}

// FormatHome renders a home-currency amount as a whole-unit integer.
func FormatHome(v float64) string {
	return strconv.FormatInt(int64(math.Round(v)), 10)
}

// FormatOrigin renders an origin-currency amount with at most two decimal
// digits, dropping trailing zeros so integral values carry no ".00".
func FormatOrigin(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// ParseAmount parses a numeric amount, substituting 0 for malformed input
// so one bad cell never discards a whole ledger load.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
