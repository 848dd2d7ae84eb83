package market_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmarket "github.com/hyposcaler-bot/prun-mcp/internal/application/market"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/market"
)

func ptr(v float64) *float64 {
	return &v
}

// fakeExchange serves exchange info keyed by "TICKER.EXCHANGE".
type fakeExchange struct {
	infos map[string]*market.ExchangeInfo
}

func (f *fakeExchange) ExchangeInfo(ctx context.Context, ticker, exchange string) (*market.ExchangeInfo, error) {
	return f.infos[ticker+"."+exchange], nil
}

func ratMarket() *market.ExchangeInfo {
	return &market.ExchangeInfo{
		Ticker:   "RAT",
		Exchange: "CI1",
		Bid:      ptr(100),
		Ask:      ptr(102),
		Supply:   600,
		Demand:   500,
		BuyingOrders: []market.Order{
			{Count: 200, Cost: 100},
			{Count: 300, Cost: 98},
		},
		SellingOrders: []market.Order{
			{Count: 300, Cost: 102},
			{Count: 300, Cost: 105},
		},
	}
}

func TestService_Summary(t *testing.T) {
	// Arrange
	service := appmarket.NewService(&fakeExchange{infos: map[string]*market.ExchangeInfo{
		"RAT.CI1": ratMarket(),
	}})

	// Act
	result, err := service.Summary(context.Background(), []string{"rat", "COF"}, "ci1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "CI1", result.Exchange)
	require.Len(t, result.Markets, 1)

	snapshot := result.Markets[0]
	assert.Equal(t, "RAT", snapshot.Ticker)
	assert.Equal(t, 200, snapshot.BidDepth)
	assert.Equal(t, 300, snapshot.AskDepth)
	assert.Equal(t, 2.0, *snapshot.Spread)
	assert.Equal(t, 101.0, *snapshot.Mid)

	assert.Equal(t, []string{"COF"}, result.NotFound)
}

func TestService_Summary_AllMissingFails(t *testing.T) {
	service := appmarket.NewService(&fakeExchange{infos: map[string]*market.ExchangeInfo{}})

	_, err := service.Summary(context.Background(), []string{"XYZ"}, "CI1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "XYZ")
}

func TestService_Summary_InvalidExchange(t *testing.T) {
	service := appmarket.NewService(&fakeExchange{})

	_, err := service.Summary(context.Background(), []string{"RAT"}, "LOL")

	assert.Error(t, err)
}

func TestService_FillCost_Buy(t *testing.T) {
	// Arrange
	service := appmarket.NewService(&fakeExchange{infos: map[string]*market.ExchangeInfo{
		"RAT.CI1": ratMarket(),
	}})

	// Act: buy 400 eats 300@102 then 100@105.
	result, err := service.FillCost(context.Background(), appmarket.FillCostRequest{
		Ticker:    "RAT",
		Exchange:  "CI1",
		Quantity:  400,
		Direction: "buy",
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.CanFill)
	assert.Equal(t, 41100.0, result.TotalCost) // 300*102 + 100*105
	assert.Equal(t, 102.75, result.VWAP)
	assert.Equal(t, 200, result.RemainingAtWorst)
	assert.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "Limit at 102")
}

func TestService_FillCost_SellWalksBidsDescending(t *testing.T) {
	service := appmarket.NewService(&fakeExchange{infos: map[string]*market.ExchangeInfo{
		"RAT.CI1": ratMarket(),
	}})

	result, err := service.FillCost(context.Background(), appmarket.FillCostRequest{
		Ticker:    "RAT",
		Exchange:  "CI1",
		Quantity:  250,
		Direction: "sell",
	})

	// 200*100 + 50*98 = 24900.
	require.NoError(t, err)
	assert.Equal(t, 24900.0, result.TotalCost)
	assert.Equal(t, 100.0, *result.BestPrice)
	assert.Equal(t, 98.0, *result.WorstPrice)
}

func TestService_FillCost_PartialFillWarns(t *testing.T) {
	service := appmarket.NewService(&fakeExchange{infos: map[string]*market.ExchangeInfo{
		"RAT.CI1": ratMarket(),
	}})

	result, err := service.FillCost(context.Background(), appmarket.FillCostRequest{
		Ticker:    "RAT",
		Exchange:  "CI1",
		Quantity:  1000,
		Direction: "buy",
	})

	require.NoError(t, err)
	assert.False(t, result.CanFill)
	assert.Equal(t, 400, result.Unfilled)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "Insufficient supply")
	assert.Contains(t, result.Warnings[1], "clear the entire sell side")
}

func TestService_FillCost_InvalidInput(t *testing.T) {
	service := appmarket.NewService(&fakeExchange{infos: map[string]*market.ExchangeInfo{
		"RAT.CI1": ratMarket(),
	}})

	tests := []struct {
		name string
		req  appmarket.FillCostRequest
	}{
		{"bad direction", appmarket.FillCostRequest{Ticker: "RAT", Exchange: "CI1", Quantity: 10, Direction: "hold"}},
		{"zero quantity", appmarket.FillCostRequest{Ticker: "RAT", Exchange: "CI1", Quantity: 0, Direction: "buy"}},
		{"bad exchange", appmarket.FillCostRequest{Ticker: "RAT", Exchange: "XX", Quantity: 10, Direction: "buy"}},
		{"unknown market", appmarket.FillCostRequest{Ticker: "COF", Exchange: "CI1", Quantity: 10, Direction: "buy"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.FillCost(context.Background(), tc.req)
			assert.Error(t, err)
		})
	}
}
