package planning

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

// ValidExpertise lists the expertise categories a base can carry, in the
// game's PascalCase convention.
var ValidExpertise = map[string]bool{
	"Agriculture":        true,
	"Chemistry":          true,
	"Construction":       true,
	"Electronics":        true,
	"FoodIndustries":     true,
	"FuelRefining":       true,
	"Manufacturing":      true,
	"Metallurgy":         true,
	"ResourceExtraction": true,
}

// ValidStorageBuildings lists the known storage building tickers.
var ValidStorageBuildings = map[string]bool{"STO": true}

// MaxExpertiseLevel is the per-category expert cap.
const MaxExpertiseLevel = 5

// ValidatePlan checks a plan before persisting. Validation is deliberately
// lenient: structural problems (missing fields, bad counts) are errors that
// block the save, while unknown habitation/storage/expertise values and
// odd-looking recipe names only warn, because the game data set grows.
func ValidatePlan(plan *BasePlan) (errors []string, warnings []string) {
	if strings.TrimSpace(plan.Name) == "" {
		errors = append(errors, "name must be a non-empty string")
	}
	if strings.TrimSpace(plan.Planet) == "" {
		errors = append(errors, "planet must be a non-empty string")
	}

	if plan.Habitation == nil {
		errors = append(errors, "habitation is required")
	}
	for i, hab := range plan.Habitation {
		if hab.Building == "" {
			errors = append(errors, fmt.Sprintf("habitation[%d].building is required", i))
		} else if !economy.IsHabitationBuilding(hab.Building) {
			warnings = append(warnings, fmt.Sprintf(
				"habitation[%d].building '%s' is not a known habitation type (valid: %s)",
				i, hab.Building, strings.Join(economy.HabitationTickers(), ", ")))
		}
		if hab.Count < 0 {
			errors = append(errors, fmt.Sprintf("habitation[%d].count must be a non-negative integer", i))
		}
	}

	if plan.Production == nil {
		errors = append(errors, "production is required")
	}
	for i, prod := range plan.Production {
		if prod.Recipe == "" {
			errors = append(errors, fmt.Sprintf("production[%d].recipe is required", i))
		} else if !strings.Contains(prod.Recipe, "=>") {
			warnings = append(warnings, fmt.Sprintf(
				"production[%d].recipe '%s' may not be a valid recipe format (expected format: '1xINPUT=>1xOUTPUT')",
				i, prod.Recipe))
		}
		if prod.Count < 1 {
			errors = append(errors, fmt.Sprintf("production[%d].count must be a positive integer", i))
		}
		if prod.Efficiency <= 0 {
			errors = append(errors, fmt.Sprintf("production[%d].efficiency must be a positive number", i))
		}
	}

	for i, sto := range plan.Storage {
		if sto.Building != "" && !ValidStorageBuildings[sto.Building] {
			warnings = append(warnings, fmt.Sprintf(
				"storage[%d].building '%s' is not a known storage type (valid: %s)",
				i, sto.Building, strings.Join(sortedKeys(ValidStorageBuildings), ", ")))
		}
		if sto.Count < 0 {
			errors = append(errors, fmt.Sprintf("storage[%d].count must be a non-negative integer", i))
		}
		if sto.Capacity < 0 {
			errors = append(errors, fmt.Sprintf("storage[%d].capacity must be a non-negative integer", i))
		}
	}

	for i, ext := range plan.Extraction {
		if ext.Building == "" {
			errors = append(errors, fmt.Sprintf("extraction[%d].building is required", i))
		} else if !economy.IsExtractionBuilding(ext.Building) {
			warnings = append(warnings, fmt.Sprintf(
				"extraction[%d].building '%s' is not an extraction building (valid: EXT, RIG, COL)",
				i, ext.Building))
		}
		if ext.Resource == "" {
			errors = append(errors, fmt.Sprintf("extraction[%d].resource is required", i))
		}
		if ext.Count < 1 {
			errors = append(errors, fmt.Sprintf("extraction[%d].count must be a positive integer", i))
		}
		if ext.Efficiency != nil && *ext.Efficiency <= 0 {
			errors = append(errors, fmt.Sprintf("extraction[%d].efficiency must be a positive number", i))
		}
	}

	for _, key := range sortedIntKeys(plan.Expertise) {
		value := plan.Expertise[key]
		if !ValidExpertise[key] {
			warnings = append(warnings, fmt.Sprintf(
				"expertise key '%s' is not a known category (valid: %s)",
				key, strings.Join(sortedKeys(ValidExpertise), ", ")))
		}
		if value < 0 {
			errors = append(errors, fmt.Sprintf("expertise['%s'] must be a non-negative integer", key))
		} else if value > MaxExpertiseLevel {
			warnings = append(warnings, fmt.Sprintf(
				"expertise['%s'] value %d exceeds maximum (%d)", key, value, MaxExpertiseLevel))
		}
	}

	return errors, warnings
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
