package economy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

func TestValidateExchange_NormalizesInput(t *testing.T) {
	code, err := economy.ValidateExchange("  ci1 ")

	require.NoError(t, err)
	assert.Equal(t, "CI1", code)
}

func TestValidateExchange_RejectsUnknownCode(t *testing.T) {
	_, err := economy.ValidateExchange("XX9")

	var invalid *economy.InvalidExchangeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "XX9", invalid.Exchange)
	assert.Contains(t, err.Error(), "AI1")
}

func TestExchangeCodes_Sorted(t *testing.T) {
	assert.Equal(t, []string{"AI1", "CI1", "CI2", "IC1", "NC1", "NC2"}, economy.ExchangeCodes())
}

func TestAreaLimit(t *testing.T) {
	assert.Equal(t, 500, economy.AreaLimit(1))
	assert.Equal(t, 750, economy.AreaLimit(2))
	assert.Equal(t, 1000, economy.AreaLimit(3))
	assert.Equal(t, 0, economy.AreaLimit(0))
	assert.Equal(t, 0, economy.AreaLimit(-1))
}

func TestHabitationCapacity(t *testing.T) {
	assert.Equal(t, map[string]int{"Pioneers": 100}, economy.HabitationCapacity["HB1"])
	assert.Equal(t, map[string]int{"Pioneers": 75, "Settlers": 75}, economy.HabitationCapacity["HBB"])
	assert.True(t, economy.IsHabitationBuilding("hbl"))
	assert.False(t, economy.IsHabitationBuilding("HB6"))
	assert.Equal(t, []string{"HB1", "HB2", "HB3", "HB4", "HB5", "HBB", "HBC", "HBL", "HBM"}, economy.HabitationTickers())
}
