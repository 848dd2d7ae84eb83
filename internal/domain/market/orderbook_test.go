package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/market"
)

func ptr(v float64) *float64 {
	return &v
}

func TestAggregateOrders_MergesAndSorts(t *testing.T) {
	orders := []market.Order{
		{Count: 30, Cost: 105},
		{Count: 20, Cost: 100},
		{Count: 10, Cost: 100},
		{Count: 0, Cost: 95},  // empty, dropped
		{Count: 5, Cost: 0},   // unpriced, dropped
	}

	levels := market.AggregateOrders(orders, false)

	require.Len(t, levels, 2)
	assert.Equal(t, market.PriceLevel{Price: 100, Units: 30}, levels[0])
	assert.Equal(t, market.PriceLevel{Price: 105, Units: 30}, levels[1])
}

func TestAggregateOrders_DescendingForBids(t *testing.T) {
	orders := []market.Order{
		{Count: 10, Cost: 90},
		{Count: 10, Cost: 95},
	}

	levels := market.AggregateOrders(orders, true)

	assert.Equal(t, 95.0, levels[0].Price)
	assert.Equal(t, 90.0, levels[1].Price)
}

func TestWalkOrderBook_FullFillAcrossLevels(t *testing.T) {
	// Arrange: 30 units at 100, 30 at 105.
	levels := []market.PriceLevel{
		{Price: 100, Units: 30},
		{Price: 105, Units: 30},
	}

	// Act
	result := market.WalkOrderBook(levels, 50)

	// Assert: 30*100 + 20*105 = 5100, vwap 102.
	require.True(t, result.CanFill)
	assert.Equal(t, 50, result.FillQuantity)
	assert.Equal(t, 0, result.Unfilled)
	assert.Equal(t, 100.0, *result.BestPrice)
	assert.Equal(t, 105.0, *result.WorstPrice)
	assert.Equal(t, 5100.0, result.TotalCost)
	assert.Equal(t, 102.0, result.VWAP)
	assert.Equal(t, 2.0, result.SlippageFromBest)
	assert.Equal(t, 2.0, result.SlippagePct)
	assert.Equal(t, 2, result.DepthConsumed)

	require.Len(t, result.Fills, 2)
	assert.Equal(t, market.Fill{Price: 100, Units: 30, Cumulative: 30, CumulativeCost: 3000}, result.Fills[0])
	assert.Equal(t, market.Fill{Price: 105, Units: 20, Cumulative: 50, CumulativeCost: 5100}, result.Fills[1])
}

func TestWalkOrderBook_PartialFill(t *testing.T) {
	levels := []market.PriceLevel{{Price: 100, Units: 10}}

	result := market.WalkOrderBook(levels, 25)

	assert.False(t, result.CanFill)
	assert.Equal(t, 10, result.FillQuantity)
	assert.Equal(t, 15, result.Unfilled)
	assert.Equal(t, 100.0, result.VWAP)
}

func TestWalkOrderBook_EmptyBook(t *testing.T) {
	result := market.WalkOrderBook(nil, 10)

	assert.False(t, result.CanFill)
	assert.Equal(t, 0, result.FillQuantity)
	assert.Nil(t, result.BestPrice)
	assert.Nil(t, result.WorstPrice)
	assert.Equal(t, 0.0, result.VWAP)
}

func TestDepthAt(t *testing.T) {
	orders := []market.Order{
		{Count: 10, Cost: 100},
		{Count: 15, Cost: 100},
		{Count: 40, Cost: 105},
	}

	assert.Equal(t, 25, market.DepthAt(orders, ptr(100)))
	assert.Equal(t, 0, market.DepthAt(orders, ptr(99)))
	assert.Equal(t, 0, market.DepthAt(orders, nil))
}

func TestConditionWarnings_WideSpreadAndThinDepth(t *testing.T) {
	info := &market.ExchangeInfo{
		Ticker:        "RAT",
		Exchange:      "CI1",
		Bid:           ptr(100),
		Ask:           ptr(110), // 10% spread
		Supply:        100,
		Demand:        100,
		BuyingOrders:  []market.Order{{Count: 10, Cost: 100}}, // thin
		SellingOrders: []market.Order{{Count: 500, Cost: 110}},
	}

	warnings := market.ConditionWarnings(info, "")

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "Wide spread")
	assert.Contains(t, warnings[1], "Thin bid depth (10 units)")
}

func TestConditionWarnings_EmptySides(t *testing.T) {
	info := &market.ExchangeInfo{Ticker: "RAT", Exchange: "CI1"}

	warnings := market.ConditionWarnings(info, "RAT: ")

	require.Len(t, warnings, 2)
	assert.Equal(t, "RAT: No buy orders, cannot sell at market", warnings[0])
	assert.Equal(t, "RAT: No sell orders, cannot buy at market", warnings[1])
}

func TestConditionWarnings_SupplyDemandImbalance(t *testing.T) {
	info := &market.ExchangeInfo{
		Bid:    ptr(100),
		Ask:    ptr(101),
		Supply: 400,
		Demand: 100,
	}

	warnings := market.ConditionWarnings(info, "")

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Heavy supply pressure (4.0x)")
}

func TestConditionWarnings_MarketMakerProximity(t *testing.T) {
	info := &market.ExchangeInfo{
		Bid:    ptr(10.2),
		Ask:    ptr(10.3),
		Supply: 100,
		Demand: 100,
		MMBuy:  ptr(10.0),
		MMSell: ptr(10.5),
	}

	warnings := market.ConditionWarnings(info, "")

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "MM ceiling")
	assert.Contains(t, warnings[1], "MM floor")
}
