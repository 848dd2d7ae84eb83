package economy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

func ptr(v float64) *float64 {
	return &v
}

func TestMaterialFlowTracker_AccumulatesInputsAndOutputs(t *testing.T) {
	// Arrange
	tracker := economy.NewMaterialFlowTracker()

	// Act
	tracker.AddInput("GRN", 10)
	tracker.AddInput("GRN", 5)
	tracker.AddOutput("RAT", 40)
	tracker.AddOutput("GRN", 2)

	// Assert
	flows := tracker.Flows()
	assert.Equal(t, 15.0, flows["GRN"].Input)
	assert.Equal(t, 2.0, flows["GRN"].Output)
	assert.Equal(t, 40.0, flows["RAT"].Output)
	assert.Equal(t, 0.0, flows["RAT"].Input)
}

func TestMaterialFlowTracker_DeltaIsOutputMinusInput(t *testing.T) {
	tracker := economy.NewMaterialFlowTracker()
	tracker.AddInput("H2O", 30)
	tracker.AddOutput("H2O", 12)

	flows := tracker.Flows()
	assert.Equal(t, -18.0, flows["H2O"].Delta())
}

func TestMaterialFlowTracker_AddConsumption(t *testing.T) {
	tracker := economy.NewMaterialFlowTracker()

	tracker.AddConsumption(map[string]float64{"RAT": 4.0, "DW": 4.0})
	tracker.AddConsumption(map[string]float64{"RAT": 1.0})

	flows := tracker.Flows()
	assert.Equal(t, 5.0, flows["RAT"].Input)
	assert.Equal(t, 4.0, flows["DW"].Input)
}

func TestMaterialFlowTracker_TickersSorted(t *testing.T) {
	tracker := economy.NewMaterialFlowTracker()
	tracker.AddOutput("RAT", 1)
	tracker.AddInput("BSE", 1)
	tracker.AddInput("GRN", 1)

	assert.Equal(t, []string{"BSE", "GRN", "RAT"}, tracker.Tickers())
}

func TestMaterialFlowTracker_FlowsReturnsCopy(t *testing.T) {
	tracker := economy.NewMaterialFlowTracker()
	tracker.AddInput("GRN", 10)

	flows := tracker.Flows()
	flows["GRN"] = economy.Flow{Input: 999}

	assert.Equal(t, 10.0, tracker.Flows()["GRN"].Input)
}

func TestRunsPerDay_SixHourRecipe(t *testing.T) {
	// 6h duration at 100% efficiency runs exactly 4 times a day.
	runs := economy.RunsPerDay(21_600_000, 1, 1.0)
	assert.Equal(t, 4.0, runs)
}

func TestRunsPerDay_ScalesWithCountAndEfficiency(t *testing.T) {
	runs := economy.RunsPerDay(21_600_000, 3, 0.5)
	assert.Equal(t, 6.0, runs)
}

func TestRunsPerDay_InvalidDurationIsZero(t *testing.T) {
	assert.Equal(t, 0.0, economy.RunsPerDay(0, 1, 1.0))
	assert.Equal(t, 0.0, economy.RunsPerDay(-500, 1, 1.0))
}

func TestProcessRecipeFlow_AddsScaledFlows(t *testing.T) {
	// Arrange
	recipe := &economy.Recipe{
		BuildingTicker: "FP",
		Name:           "1xGRN=>10xRAT",
		Inputs:         []economy.RecipeItem{{Ticker: "GRN", Amount: 1}},
		Outputs:        []economy.RecipeItem{{Ticker: "RAT", Amount: 10}},
		DurationMS:     21_600_000,
	}
	tracker := economy.NewMaterialFlowTracker()

	// Act
	ok := economy.ProcessRecipeFlow(recipe, 2, 1.0, tracker)

	// Assert: 4 runs/day * 2 lines
	require.True(t, ok)
	flows := tracker.Flows()
	assert.Equal(t, 8.0, flows["GRN"].Input)
	assert.Equal(t, 80.0, flows["RAT"].Output)
}

func TestProcessRecipeFlow_InvalidDurationAddsNothing(t *testing.T) {
	recipe := &economy.Recipe{
		Inputs:     []economy.RecipeItem{{Ticker: "GRN", Amount: 1}},
		Outputs:    []economy.RecipeItem{{Ticker: "RAT", Amount: 10}},
		DurationMS: 0,
	}
	tracker := economy.NewMaterialFlowTracker()

	ok := economy.ProcessRecipeFlow(recipe, 1, 1.0, tracker)

	assert.False(t, ok)
	assert.Empty(t, tracker.Flows())
}

func TestMaterialValues_SignConvention(t *testing.T) {
	// Arrange: net producer, net consumer, and balanced tickers.
	flows := map[string]economy.Flow{
		"RAT": {Input: 10, Output: 50}, // delta +40, sells at bid
		"GRN": {Input: 20, Output: 0},  // delta -20, buys at ask
		"DW":  {Input: 5, Output: 5},   // delta 0
	}
	prices := map[string]economy.PriceQuote{
		"RAT": {Bid: ptr(100.0), Ask: ptr(110.0)},
		"GRN": {Bid: ptr(40.0), Ask: ptr(50.0)},
		"DW":  {},
	}

	// Act
	materials, total, missing := economy.MaterialValues(flows, prices)

	// Assert
	require.Len(t, materials, 3)
	assert.Empty(t, missing)

	byTicker := make(map[string]economy.MaterialValue)
	for _, m := range materials {
		byTicker[m.Ticker] = m
	}
	assert.Equal(t, 4000.0, *byTicker["RAT"].CISPerDay)
	assert.Equal(t, -1000.0, *byTicker["GRN"].CISPerDay)
	assert.Equal(t, 0.0, *byTicker["DW"].CISPerDay)
	assert.Equal(t, 3000.0, total)
}

func TestMaterialValues_MissingPriceOnRelevantSide(t *testing.T) {
	flows := map[string]economy.Flow{
		"RAT": {Output: 40}, // needs bid, only ask present
	}
	prices := map[string]economy.PriceQuote{
		"RAT": {Ask: ptr(110.0)},
	}

	materials, total, missing := economy.MaterialValues(flows, prices)

	require.Len(t, materials, 1)
	assert.Nil(t, materials[0].CISPerDay)
	assert.Equal(t, []string{"RAT"}, missing)
	assert.Equal(t, 0.0, total)
}

func TestMaterialValues_SortedByTicker(t *testing.T) {
	flows := map[string]economy.Flow{
		"RAT": {Output: 1},
		"BSE": {Output: 1},
		"GRN": {Output: 1},
	}

	materials, _, _ := economy.MaterialValues(flows, nil)

	require.Len(t, materials, 3)
	assert.Equal(t, "BSE", materials[0].Ticker)
	assert.Equal(t, "GRN", materials[1].Ticker)
	assert.Equal(t, "RAT", materials[2].Ticker)
}
