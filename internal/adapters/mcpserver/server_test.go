package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/cache"
	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/persistence"
	appeconomy "github.com/hyposcaler-bot/prun-mcp/internal/application/economy"
	appmarket "github.com/hyposcaler-bot/prun-mcp/internal/application/market"
	appplanning "github.com/hyposcaler-bot/prun-mcp/internal/application/planning"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/market"
	"github.com/hyposcaler-bot/prun-mcp/test/helpers"
)

type fakeCatalogFetcher struct{}

func (f *fakeCatalogFetcher) AllMaterials(ctx context.Context) ([]economy.Material, error) {
	return []economy.Material{
		{Ticker: "RAT", MaterialID: "aaa111", Name: "basicRations", Category: "consumables (basic)", Weight: 0.21, Volume: 0.1},
		{Ticker: "DW", MaterialID: "bbb222", Name: "drinkingWater", Category: "consumables (basic)", Weight: 0.1, Volume: 0.1},
		{Ticker: "FEO", MaterialID: "ccc333", Name: "ironOre", Category: "ores", Weight: 5.9, Volume: 1.0},
	}, nil
}

func (f *fakeCatalogFetcher) AllBuildings(ctx context.Context) ([]economy.Building, error) {
	return []economy.Building{
		{
			Ticker: "FP", BuildingID: "fp-id", Name: "foodProcessor",
			Expertise: "FOOD_INDUSTRIES", AreaCost: 12, Pioneers: 40,
			Costs: []economy.BuildingCost{{Ticker: "BSE", Amount: 2}},
			Recipes: []economy.Recipe{
				{BuildingTicker: "FP", Name: "1xGRN 1xALG=>10xRAT", DurationMS: 21600000},
			},
		},
	}, nil
}

func (f *fakeCatalogFetcher) AllRecipes(ctx context.Context) ([]economy.Recipe, error) {
	return []economy.Recipe{
		{
			BuildingTicker: "FP",
			Name:           "1xGRN 1xALG=>10xRAT",
			Inputs:         []economy.RecipeItem{{Ticker: "GRN", Amount: 1}, {Ticker: "ALG", Amount: 1}},
			Outputs:        []economy.RecipeItem{{Ticker: "RAT", Amount: 10}},
			DurationMS:     21600000,
		},
	}, nil
}

func (f *fakeCatalogFetcher) WorkforceNeeds(ctx context.Context) (map[string][]economy.WorkforceNeed, error) {
	return map[string][]economy.WorkforceNeed{
		"PIONEER": {{Ticker: "DW", AmountPer100: 4}, {Ticker: "RAT", AmountPer100: 4}},
	}, nil
}

type fakePlanetSource struct {
	planets []economy.Planet
}

func (f *fakePlanetSource) Planet(ctx context.Context, identifier string) (*economy.Planet, error) {
	for i := range f.planets {
		p := &f.planets[i]
		if strings.EqualFold(p.NaturalID, identifier) || strings.EqualFold(p.Name, identifier) {
			return p, nil
		}
	}
	return nil, economy.NewPlanetNotFoundError(identifier)
}

func (f *fakePlanetSource) SearchPlanets(ctx context.Context, materials []string) ([]economy.Planet, error) {
	return f.planets, nil
}

type fakePriceLookup struct{}

func (f *fakePriceLookup) Prices(ctx context.Context, tickers []string, exchange string) (map[string]economy.PriceQuote, error) {
	ask, bid := 115.0, 108.0
	quotes := make(map[string]economy.PriceQuote)
	for _, ticker := range tickers {
		if ticker == "RAT" {
			quotes[ticker] = economy.PriceQuote{Ask: &ask, Bid: &bid}
		}
	}
	return quotes, nil
}

type fakeExchangeLookup struct {
	info *market.ExchangeInfo
}

func (f *fakeExchangeLookup) ExchangeInfo(ctx context.Context, ticker, exchange string) (*market.ExchangeInfo, error) {
	if f.info != nil && f.info.Ticker == ticker {
		return f.info, nil
	}
	return nil, nil
}

func testPlanets() []economy.Planet {
	fertility := 0.4
	return []economy.Planet{
		{
			PlanetID: "p1", NaturalID: "OT-580b", Name: "Montem", Surface: true,
			Pressure: 1.0, Gravity: 1.1, Temperature: 20, Fertility: &fertility,
			Resources: []economy.PlanetResource{
				{MaterialID: "ccc333", ResourceType: "MINERAL", Factor: 0.25},
			},
		},
		{
			PlanetID: "p2", NaturalID: "XK-745c", Name: "Katoa", Surface: true,
			Pressure: 0.9, Gravity: 0.9, Temperature: 25, Fertility: nil,
			Resources: []economy.PlanetResource{
				{MaterialID: "ccc333", ResourceType: "MINERAL", Factor: 0.1},
				{MaterialID: "bbb222", ResourceType: "LIQUID", Factor: 0.8},
			},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	catalogs := cache.NewManager(&fakeCatalogFetcher{}, t.TempDir(), time.Hour)
	planets := &fakePlanetSource{planets: testPlanets()}
	economySvc := appeconomy.NewService(catalogs, &fakePriceLookup{}, planets)

	db := helpers.NewTestDB(t)
	planningSvc := appplanning.NewService(persistence.NewBasePlanRepository(db), economySvc)

	ask, bid := 115.0, 108.0
	marketSvc := appmarket.NewService(&fakeExchangeLookup{info: &market.ExchangeInfo{
		Ticker:   "RAT",
		Exchange: "AI1",
		Ask:      &ask,
		Bid:      &bid,
		Supply:   500,
		Demand:   400,
		SellingOrders: []market.Order{
			{Count: 100, Cost: 115},
			{Count: 200, Cost: 120},
		},
		BuyingOrders: []market.Order{
			{Count: 150, Cost: 108},
		},
	}})

	return NewServer(Deps{
		Economy:  economySvc,
		Planning: planningSvc,
		Market:   marketSvc,
		Catalogs: catalogs,
		Planets:  planets,
		Version:  "1.2.3",
	})
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text payload of a successful tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsError, "expected success, got: %v", result.Content)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.True(t, result.IsError, "expected a tool error")
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	return decoded
}

func TestHandleGetMaterialInfo_PrettifiesNames(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleGetMaterialInfo(context.Background(), callReq(map[string]any{
		"material": "rat",
	}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, "RAT", decoded["ticker"])
	assert.Equal(t, "Basic Rations", decoded["name"])
	assert.Equal(t, "Consumables (basic)", decoded["category"])
}

func TestHandleGetMaterialInfo_UnknownMaterial(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleGetMaterialInfo(context.Background(), callReq(map[string]any{
		"material": "XYZ",
	}))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "XYZ")
}

func TestHandleGetBuildingInfo(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleGetBuildingInfo(context.Background(), callReq(map[string]any{
		"building": "FP",
	}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, "FP", decoded["ticker"])
	assert.Equal(t, float64(12), decoded["area_cost"])
	workforce, ok := decoded["workforce"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(40), workforce["pioneers"])
	assert.Equal(t, []any{"1xGRN 1xALG=>10xRAT"}, decoded["recipes"])
}

func TestHandleSearchBuildings_RequiresFilter(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleSearchBuildings(context.Background(), callReq(map[string]any{}))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "at least one filter")
}

func TestHandleSearchBuildings_ByExpertise(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleSearchBuildings(context.Background(), callReq(map[string]any{
		"expertise": "food_industries",
	}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, float64(1), decoded["count"])
}

func TestHandleGetRecipeInfo_ByOutputTicker(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleGetRecipeInfo(context.Background(), callReq(map[string]any{
		"recipe": "RAT",
	}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, "1xGRN 1xALG=>10xRAT", decoded["name"])
	assert.Equal(t, "FP", decoded["building"])
	assert.Equal(t, float64(6), decoded["duration_hours"])
	assert.Equal(t, float64(4), decoded["runs_per_day"])
}

func TestHandleGetPlanetInfo_MapsResourceTickers(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleGetPlanetInfo(context.Background(), callReq(map[string]any{
		"planet": "OT-580b",
	}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, "OT-580b", decoded["natural_id"])
	resources, ok := decoded["resources"].([]any)
	require.True(t, ok)
	require.Len(t, resources, 1)
	resource := resources[0].(map[string]any)
	assert.Equal(t, "FEO", resource["ticker"])
	assert.Equal(t, "EXT", resource["extractor"])
	// 0.25 * 100 * 0.7 per extractor per day
	assert.Equal(t, 17.5, resource["daily_base"])
}

func TestHandleSearchPlanets_ExcludeFilters(t *testing.T) {
	// Arrange: Katoa carries a DW deposit and should be excluded.
	s := newTestServer(t)

	// Act
	result, err := s.handleSearchPlanets(context.Background(), callReq(map[string]any{
		"materials": []any{"FEO"},
		"exclude":   []any{"DW"},
	}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, float64(1), decoded["count"])
	planets := decoded["planets"].([]any)
	row := planets[0].(map[string]any)
	assert.Equal(t, "Montem", row["planet_name"])
	assert.Equal(t, "FEO:0.25", row["resources"])
}

func TestHandleSearchPlanets_TooManyMaterials(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleSearchPlanets(context.Background(), callReq(map[string]any{
		"materials": []any{"A", "B", "C", "D", "E"},
	}))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "at most 4")
}

func TestHandleGetExchangePrices_DefaultsExchange(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleGetExchangePrices(context.Background(), callReq(map[string]any{
		"tickers": []any{"RAT"},
	}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	prices := decoded["prices"].([]any)
	require.Len(t, prices, 1)
	row := prices[0].(map[string]any)
	assert.Equal(t, "AI1", row["exchange"])
	assert.Equal(t, 115.0, row["ask"])
}

func TestBasePlanLifecycle(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	ctx := context.Background()
	planArgs := map[string]any{
		"name":   "montem-rats",
		"planet": "OT-580b",
		"habitation": []any{
			map[string]any{"building": "HB1", "count": 2},
		},
		"production": []any{
			map[string]any{"recipe": "1xGRN 1xALG=>10xRAT", "count": 2, "efficiency": 1.0},
		},
		"active": true,
	}

	// Act: save, list, fetch, delete.
	saved, err := s.handleSaveBasePlan(ctx, callReq(planArgs))
	require.NoError(t, err)
	savedDecoded := decodeResult(t, saved)

	listed, err := s.handleListBasePlans(ctx, callReq(map[string]any{"active": true}))
	require.NoError(t, err)
	listedDecoded := decodeResult(t, listed)

	fetched, err := s.handleGetBasePlan(ctx, callReq(map[string]any{"name": "montem-rats"}))
	require.NoError(t, err)
	fetchedDecoded := decodeResult(t, fetched)

	deleted, err := s.handleDeleteBasePlan(ctx, callReq(map[string]any{"name": "montem-rats"}))
	require.NoError(t, err)

	missing, err := s.handleGetBasePlan(ctx, callReq(map[string]any{"name": "montem-rats"}))
	require.NoError(t, err)

	// Assert
	plan := savedDecoded["plan"].(map[string]any)
	assert.NotEmpty(t, plan["id"])
	assert.Equal(t, float64(1), listedDecoded["count"])
	assert.Equal(t, "montem-rats", fetchedDecoded["name"])
	assert.Equal(t, "montem-rats", decodeResult(t, deleted)["deleted"])
	assert.Contains(t, errorText(t, missing), "not found")
}

func TestHandleSaveBasePlan_DuplicateWithoutOverwrite(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	ctx := context.Background()
	args := map[string]any{
		"name":       "dup",
		"planet":     "OT-580b",
		"habitation": []any{map[string]any{"building": "HB1", "count": 1}},
		"production": []any{map[string]any{"recipe": "1xGRN 1xALG=>10xRAT", "count": 1}},
	}
	_, err := s.handleSaveBasePlan(ctx, callReq(args))
	require.NoError(t, err)

	// Act
	result, err := s.handleSaveBasePlan(ctx, callReq(args))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "already exists")
}

func TestHandleCalculatePlanIO(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	ctx := context.Background()
	_, err := s.handleSaveBasePlan(ctx, callReq(map[string]any{
		"name":       "io-plan",
		"planet":     "OT-580b",
		"habitation": []any{map[string]any{"building": "HB1", "count": 1}},
		"production": []any{map[string]any{"recipe": "1xGRN 1xALG=>10xRAT", "count": 1, "efficiency": 1.0}},
	}))
	require.NoError(t, err)

	// Act
	result, err := s.handleCalculatePlanIO(ctx, callReq(map[string]any{"name": "io-plan"}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, "AI1", decoded["exchange"])
	assert.NotEmpty(t, decoded["materials"])
}

func TestHandleGetVersion(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleGetVersion(context.Background(), callReq(nil))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, ServerName, decoded["server"])
	assert.Equal(t, "1.2.3", decoded["version"])
}

func TestHandleGetCacheInfo(t *testing.T) {
	// Arrange: one lookup populates the materials cache.
	s := newTestServer(t)
	_, err := s.handleGetMaterialInfo(context.Background(), callReq(map[string]any{"material": "RAT"}))
	require.NoError(t, err)

	// Act
	result, err := s.handleGetCacheInfo(context.Background(), callReq(nil))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	caches := decoded["caches"].([]any)
	require.Len(t, caches, 4)
	materials := caches[0].(map[string]any)
	assert.Equal(t, "materials", materials["name"])
	assert.Equal(t, float64(3), materials["count"])
	assert.Equal(t, true, materials["valid"])
}

func TestHandleRefreshBuildingsCache(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.refreshCacheHandler(cache.TypeBuildings)(context.Background(), callReq(nil))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, "buildings", decoded["cache"])
	assert.Equal(t, float64(1), decoded["count"])
}

func TestHandleGetMarketSummary(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleGetMarketSummary(context.Background(), callReq(map[string]any{
		"tickers": []any{"RAT"},
	}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	markets := decoded["markets"].([]any)
	require.Len(t, markets, 1)
	snapshot := markets[0].(map[string]any)
	assert.Equal(t, "RAT", snapshot["ticker"])
	assert.Equal(t, 115.0, snapshot["ask"])
	assert.Equal(t, 108.0, snapshot["bid"])
}

func TestHandleAnalyzeFillCost(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act: 150 units walk the 115 level and 50 units of the 120 level.
	result, err := s.handleAnalyzeFillCost(context.Background(), callReq(map[string]any{
		"ticker":    "RAT",
		"quantity":  150,
		"direction": "buy",
	}))

	// Assert
	require.NoError(t, err)
	decoded := decodeResult(t, result)
	assert.Equal(t, true, decoded["can_fill"])
	assert.Equal(t, float64(150), decoded["fill_quantity"])
	assert.Equal(t, 115.0, *floatField(decoded, "best_price"))
	assert.Equal(t, 120.0, *floatField(decoded, "worst_price"))
}

func TestHandleAnalyzeFillCost_BadDirection(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	result, err := s.handleAnalyzeFillCost(context.Background(), callReq(map[string]any{
		"ticker":    "RAT",
		"quantity":  10,
		"direction": "hold",
	}))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "direction")
}

func floatField(decoded map[string]any, key string) *float64 {
	if v, ok := decoded[key].(float64); ok {
		return &v
	}
	return nil
}
