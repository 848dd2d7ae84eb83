package fio_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/fio"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/shared"
)

func newTestClient(t *testing.T, handler http.Handler) (*fio.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	clock := shared.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return fio.NewClientWithConfig(server.URL, time.Second, 2, time.Millisecond, clock), server
}

func TestClient_Material(t *testing.T) {
	// Arrange
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/material/RAT", r.URL.Path)
		w.Write([]byte(`{
			"MaterialId": "83DD61885CF6879FF49FE1D4",
			"Ticker": "RAT", "Name": "rations", "CategoryName": "consumables (basic)",
			"Weight": 0.21, "Volume": 0.1
		}`))
	}))

	// Act
	material, err := client.Material(context.Background(), " rat ")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "RAT", material.Ticker)
	assert.Equal(t, "83dd61885cf6879ff49fe1d4", material.MaterialID)
	assert.Equal(t, "rations", material.Name)
	assert.Equal(t, 0.21, material.Weight)
}

func TestClient_Material_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	_, err := client.Material(context.Background(), "XYZ")

	var notFound *economy.MaterialNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestClient_AllRecipes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/allrecipes", r.URL.Path)
		w.Write([]byte(`[{
			"BuildingTicker": "FP",
			"RecipeName": "1xGRN 1xALG 1xNUT=>10xRAT",
			"TimeMs": 21600000,
			"Inputs": [{"Ticker": "GRN", "Amount": 1}],
			"Outputs": [{"Ticker": "RAT", "Amount": 10}]
		}]`))
	}))

	recipes, err := client.AllRecipes(context.Background())

	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "FP", recipes[0].BuildingTicker)
	assert.Equal(t, int64(21600000), recipes[0].DurationMS)
	assert.Equal(t, []economy.RecipeItem{{Ticker: "RAT", Amount: 10}}, recipes[0].Outputs)
}

func TestClient_Planet_InfertileMapsToNil(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"PlanetId": "7f1135f5d7792a058c8be66e7cbcb536",
			"PlanetNaturalId": "XK-745b", "PlanetName": "Katoa",
			"Surface": true, "Pressure": 1.1, "Gravity": 0.9, "Temperature": 24.0,
			"Fertility": -1,
			"Resources": [{"MaterialId": "4FCA6F5B5E6C3B8A1B887C6D", "ResourceType": "MINERAL", "Factor": 0.25}]
		}`))
	}))

	planet, err := client.Planet(context.Background(), "Katoa")

	require.NoError(t, err)
	assert.Nil(t, planet.Fertility)
	require.Len(t, planet.Resources, 1)
	assert.Equal(t, "4fca6f5b5e6c3b8a1b887c6d", planet.Resources[0].MaterialID)
	assert.Equal(t, "MINERAL", planet.Resources[0].ResourceType)
}

func TestClient_Planet_FertilityKept(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"PlanetNaturalId": "OT-580b", "PlanetName": "Montem", "Fertility": 0.33}`))
	}))

	planet, err := client.Planet(context.Background(), "Montem")

	require.NoError(t, err)
	require.NotNil(t, planet.Fertility)
	assert.Equal(t, 0.33, *planet.Fertility)
}

func TestClient_Planet_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	_, err := client.Planet(context.Background(), "Nowhere")

	var notFound *economy.PlanetNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestClient_ExchangeInfo(t *testing.T) {
	// Arrange: one market maker buy order with a null count
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exchange/RAT.CI1", r.URL.Path)
		w.Write([]byte(`{
			"MaterialTicker": "RAT", "ExchangeCode": "CI1",
			"Ask": 102.0, "Bid": 100.0, "Supply": 600, "Demand": 500,
			"MMBuy": 60.0, "MMSell": null,
			"BuyingOrders": [
				{"ItemCount": null, "ItemCost": 60.0},
				{"ItemCount": 200, "ItemCost": 100.0}
			],
			"SellingOrders": [{"ItemCount": 300, "ItemCost": 102.0}]
		}`))
	}))

	// Act
	info, err := client.ExchangeInfo(context.Background(), "rat", "ci1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 100.0, *info.Bid)
	assert.Nil(t, info.MMSell)
	require.Len(t, info.BuyingOrders, 2)
	assert.Equal(t, 0, info.BuyingOrders[0].Count) // MM order carries no depth
	assert.Equal(t, 200, info.BuyingOrders[1].Count)
}

func TestClient_ExchangeInfo_NoMarket(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	info, err := client.ExchangeInfo(context.Background(), "RAT", "CI1")

	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestClient_ExchangeAll(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exchange/all", r.URL.Path)
		w.Write([]byte(`[
			{"MaterialTicker": "RAT", "ExchangeCode": "AI1", "Ask": 115.0, "Bid": 108.0, "PriceAverage": 111.5, "Supply": 600, "Demand": 500},
			{"MaterialTicker": "RAT", "ExchangeCode": "CI1", "Ask": null, "Bid": null, "PriceAverage": 0, "Supply": 0, "Demand": 0}
		]`))
	}))

	snapshots, err := client.ExchangeAll(context.Background())

	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "AI1", snapshots[0].Exchange)
	assert.Equal(t, 115.0, *snapshots[0].Ask)
	assert.Equal(t, 111.5, snapshots[0].PriceAverage)
	assert.Nil(t, snapshots[1].Ask)
}

func TestClient_PriceHistory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exchange/cxpc/RAT.AI1", r.URL.Path)
		w.Write([]byte(`[{
			"Interval": "DAY_ONE", "DateEpochMs": 1704067200000,
			"Open": 110.0, "Close": 115.0, "High": 116.0, "Low": 109.0,
			"Traded": 4200, "Volume": 478800.0
		}]`))
	}))

	candles, err := client.PriceHistory(context.Background(), " rat ", "ai1")

	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, "DAY_ONE", candles[0].Interval)
	assert.Equal(t, int64(1704067200000), candles[0].Timestamp)
	assert.Equal(t, 115.0, candles[0].Close)
	assert.Equal(t, int64(4200), candles[0].Traded)
}

func TestClient_PriceHistory_NeverTraded(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	candles, err := client.PriceHistory(context.Background(), "RAT", "AI1")

	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestClient_Prices_MissingTickerGetsZeroQuote(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/exchange/RAT.CI1" {
			w.Write([]byte(`{"MaterialTicker": "RAT", "ExchangeCode": "CI1", "Ask": 102.0, "Bid": 100.0}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	quotes, err := client.Prices(context.Background(), []string{"RAT", "XYZ"}, "CI1")

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, 102.0, *quotes["RAT"].Ask)
	assert.Nil(t, quotes["XYZ"].Ask)
	assert.Nil(t, quotes["XYZ"].Bid)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	// Arrange: fail twice, then succeed
	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"Ticker": "RAT", "MaterialId": "abc"}`))
	}))

	// Act
	material, err := client.Material(context.Background(), "RAT")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, "RAT", material.Ticker)
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := client.Material(context.Background(), "RAT")

	var apiErr *fio.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, 1, attempts)
}

func TestClient_RetriesExhausted(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.Material(context.Background(), "RAT")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestClient_HonorsRetryAfter(t *testing.T) {
	// Arrange
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"Ticker": "RAT"}`))
	}))
	defer server.Close()

	client := fio.NewClientWithConfig(server.URL, time.Second, 2, time.Millisecond, clock)

	// Act
	_, err := client.Material(context.Background(), "RAT")

	// Assert: the mock clock slept for the server-provided delay
	require.NoError(t, err)
	assert.Equal(t, start.Add(7*time.Second), clock.Now())
}
