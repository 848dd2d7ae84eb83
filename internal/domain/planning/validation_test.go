package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/planning"
)

func validPlan() *planning.BasePlan {
	return &planning.BasePlan{
		Name:       "promitor-rations",
		Planet:     "KW-020c",
		Habitation: []planning.HabitationLine{{Building: "HB1", Count: 2}},
		Production: []planning.ProductionLine{{Recipe: "1xGRN=>10xRAT", Count: 1, Efficiency: 1.0}},
	}
}

func TestValidatePlan_Valid(t *testing.T) {
	errors, warnings := planning.ValidatePlan(validPlan())

	assert.Empty(t, errors)
	assert.Empty(t, warnings)
}

func TestValidatePlan_MissingRequiredFields(t *testing.T) {
	plan := &planning.BasePlan{}

	errors, _ := planning.ValidatePlan(plan)

	assert.Contains(t, errors, "name must be a non-empty string")
	assert.Contains(t, errors, "planet must be a non-empty string")
	assert.Contains(t, errors, "habitation is required")
	assert.Contains(t, errors, "production is required")
}

func TestValidatePlan_UnknownHabitationWarnsOnly(t *testing.T) {
	plan := validPlan()
	plan.Habitation = append(plan.Habitation, planning.HabitationLine{Building: "HB9", Count: 1})

	errors, warnings := planning.ValidatePlan(plan)

	assert.Empty(t, errors)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "HB9")
}

func TestValidatePlan_BadProductionCountIsError(t *testing.T) {
	plan := validPlan()
	plan.Production[0].Count = 0
	plan.Production[0].Efficiency = -1

	errors, _ := planning.ValidatePlan(plan)

	assert.Contains(t, errors, "production[0].count must be a positive integer")
	assert.Contains(t, errors, "production[0].efficiency must be a positive number")
}

func TestValidatePlan_RecipeWithoutArrowWarns(t *testing.T) {
	plan := validPlan()
	plan.Production[0].Recipe = "RAT"

	errors, warnings := planning.ValidatePlan(plan)

	assert.Empty(t, errors)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "may not be a valid recipe format")
}

func TestValidatePlan_Expertise(t *testing.T) {
	plan := validPlan()
	plan.Expertise = map[string]int{
		"Agriculture": 6,  // over cap, warns
		"Cooking":     2,  // unknown category, warns
		"Metallurgy":  -1, // negative, errors
	}

	errors, warnings := planning.ValidatePlan(plan)

	assert.Len(t, errors, 1)
	assert.Contains(t, errors[0], "Metallurgy")
	assert.Len(t, warnings, 2)
}

func TestValidatePlan_UnknownStorageWarns(t *testing.T) {
	plan := validPlan()
	plan.Storage = []planning.StorageLine{{Building: "WAR", Count: 1, Capacity: 500}}

	errors, warnings := planning.ValidatePlan(plan)

	assert.Empty(t, errors)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "WAR")
}
