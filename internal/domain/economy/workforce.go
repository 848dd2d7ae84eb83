package economy

import (
	"sort"
	"strings"
)

// WorkforceTypes lists the five workforce tiers in tier order, lowest to
// highest. Keys in workforce maps use these plural forms.
var WorkforceTypes = []string{"Pioneers", "Settlers", "Technicians", "Engineers", "Scientists"}

// NormalizeWorkforceType converts a tier name to the upper-case singular
// form the needs tables are keyed by: "Pioneers" -> "PIONEER".
func NormalizeWorkforceType(workforceType string) string {
	upper := strings.ToUpper(workforceType)
	return strings.TrimSuffix(upper, "S")
}

// WorkforceFromBuilding extracts a building's non-zero workforce headcounts,
// multiplied by the building count. Only tiers with workers appear in the
// returned map.
func WorkforceFromBuilding(building *Building, count int) map[string]int {
	headcounts := map[string]int{
		"Pioneers":    building.Pioneers,
		"Settlers":    building.Settlers,
		"Technicians": building.Technicians,
		"Engineers":   building.Engineers,
		"Scientists":  building.Scientists,
	}
	workforce := make(map[string]int)
	for _, tier := range WorkforceTypes {
		if workers := headcounts[tier]; workers > 0 {
			workforce[tier] = workers * count
		}
	}
	return workforce
}

// AggregateWorkforce sums workforce maps into one combined map.
func AggregateWorkforce(workforces ...map[string]int) map[string]int {
	total := make(map[string]int)
	for _, wf := range workforces {
		for tier, count := range wf {
			total[tier] += count
		}
	}
	return total
}

// WorkforceConsumption computes total daily consumable demand for an
// aggregated workforce. Need amounts are per 100 workers per day.
func WorkforceConsumption(workforce map[string]int, needs WorkforceNeedsLookup) map[string]float64 {
	consumption := make(map[string]float64)

	for tier, workers := range workforce {
		if workers <= 0 {
			continue
		}
		for _, need := range needs.Needs(NormalizeWorkforceType(tier)) {
			if need.Ticker != "" && need.AmountPer100 > 0 {
				consumption[need.Ticker] += float64(workers) / 100 * need.AmountPer100
			}
		}
	}

	return consumption
}

// ConsumableTickers returns the sorted set of material tickers a workforce
// consumes. Used to know which prices to fetch before costing.
func ConsumableTickers(workforce map[string]int, needs WorkforceNeedsLookup) []string {
	set := make(map[string]bool)
	for tier, workers := range workforce {
		if workers <= 0 {
			continue
		}
		for _, need := range needs.Needs(NormalizeWorkforceType(tier)) {
			if need.Ticker != "" {
				set[need.Ticker] = true
			}
		}
	}

	tickers := make([]string, 0, len(set))
	for ticker := range set {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}
