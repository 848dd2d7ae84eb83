package utils

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// NearestMatch returns the candidate closest to input by edit distance,
// or "" when no candidate is within maxDistance. Comparison is
// case-insensitive. Used to build "did you mean" hints for unknown
// tickers and recipe names.
func NearestMatch(input string, candidates []string, maxDistance int) string {
	upper := strings.ToUpper(input)
	best := ""
	bestDist := maxDistance + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(upper, strings.ToUpper(c))
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}
