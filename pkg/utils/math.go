package utils

import "math"

// Round2 rounds a value to 2 decimal places. Used for prices, costs, and
// daily material amounts in calculation results.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds a value to 4 decimal places. Used for per-worker consumable
// amounts, which are too small for 2-decimal precision.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Min returns the minimum of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
