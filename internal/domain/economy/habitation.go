package economy

import (
	"sort"
	"strings"
)

// HabitationCapacity maps habitation building tickers to housed workforce
// per tier. Single-tier buildings (HB1..HB5) house 100 of one tier; the
// combined buildings house 75 of each of two adjacent tiers.
var HabitationCapacity = map[string]map[string]int{
	"HB1": {"Pioneers": 100},
	"HB2": {"Settlers": 100},
	"HB3": {"Technicians": 100},
	"HB4": {"Engineers": 100},
	"HB5": {"Scientists": 100},
	"HBB": {"Pioneers": 75, "Settlers": 75},
	"HBC": {"Settlers": 75, "Technicians": 75},
	"HBM": {"Technicians": 75, "Engineers": 75},
	"HBL": {"Engineers": 75, "Scientists": 75},
}

// IsHabitationBuilding reports whether ticker names a known habitation
// building.
func IsHabitationBuilding(ticker string) bool {
	_, ok := HabitationCapacity[strings.ToUpper(ticker)]
	return ok
}

// HabitationTickers returns the known habitation building tickers sorted
// alphabetically, for error messages.
func HabitationTickers() []string {
	tickers := make([]string, 0, len(HabitationCapacity))
	for ticker := range HabitationCapacity {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}
