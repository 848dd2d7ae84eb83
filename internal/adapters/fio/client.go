// Package fio is the HTTP adapter for the FIO REST API
// (https://rest.fnar.net), the community data export for Prosperous
// Universe. It maps FIO's wire format onto the domain records and
// implements the economy lookup ports.
package fio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/metrics"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/market"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/shared"
)

const (
	defaultBaseURL     = "https://rest.fnar.net"
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 5
	defaultBackoffBase = time.Second
)

// Client is the FIO REST API client
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewClient creates a FIO client with default settings
// Rate limit: 2 requests per second with burst of 2
// Retry: max 5 attempts with 1s exponential backoff + jitter
func NewClient() *Client {
	return NewClientWithConfig(defaultBaseURL, defaultTimeout, defaultMaxRetries, defaultBackoffBase, nil)
}

// NewClientWithConfig creates a FIO client with custom configuration
// If clock is nil, uses RealClock for production
func NewClientWithConfig(baseURL string, timeout time.Duration, maxRetries int, backoffBase time.Duration, clock shared.Clock) *Client {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(2), 2), // 2 req/sec, burst 2
		baseURL:     baseURL,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		clock:       clock,
	}
}

// Material retrieves one material by ticker
func (c *Client) Material(ctx context.Context, ticker string) (*economy.Material, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	var response materialPayload
	found, err := c.request(ctx, "GET", "/material/"+ticker, nil, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	if !found {
		return nil, economy.NewMaterialNotFoundError(ticker)
	}

	material := response.toRecord()
	return &material, nil
}

// AllMaterials fetches the full material catalog
func (c *Client) AllMaterials(ctx context.Context) ([]economy.Material, error) {
	var response []materialPayload
	if _, err := c.request(ctx, "GET", "/material/allmaterials", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get materials: %w", err)
	}

	materials := make([]economy.Material, len(response))
	for i, payload := range response {
		materials[i] = payload.toRecord()
	}
	return materials, nil
}

// AllBuildings fetches the full building catalog, including construction
// costs and the recipes each building can run
func (c *Client) AllBuildings(ctx context.Context) ([]economy.Building, error) {
	var response []struct {
		BuildingID  string `json:"BuildingId"`
		Ticker      string `json:"Ticker"`
		Name        string `json:"Name"`
		Expertise   string `json:"Expertise"`
		AreaCost    int    `json:"AreaCost"`
		Pioneers    int    `json:"Pioneers"`
		Settlers    int    `json:"Settlers"`
		Technicians int    `json:"Technicians"`
		Engineers   int    `json:"Engineers"`
		Scientists  int    `json:"Scientists"`
		Costs       []struct {
			CommodityTicker string `json:"CommodityTicker"`
			Amount          int    `json:"Amount"`
		} `json:"BuildingCosts"`
		Recipes []struct {
			RecipeName string `json:"BuildingRecipeId"`
			DurationMS int64  `json:"DurationMs"`
			Inputs     []struct {
				CommodityTicker string  `json:"CommodityTicker"`
				Amount          float64 `json:"Amount"`
			} `json:"Inputs"`
			Outputs []struct {
				CommodityTicker string  `json:"CommodityTicker"`
				Amount          float64 `json:"Amount"`
			} `json:"Outputs"`
		} `json:"Recipes"`
	}

	if _, err := c.request(ctx, "GET", "/building/allbuildings", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get buildings: %w", err)
	}

	buildings := make([]economy.Building, len(response))
	for i, payload := range response {
		costs := make([]economy.BuildingCost, len(payload.Costs))
		for j, cost := range payload.Costs {
			costs[j] = economy.BuildingCost{
				Ticker: cost.CommodityTicker,
				Amount: cost.Amount,
			}
		}

		recipes := make([]economy.Recipe, len(payload.Recipes))
		for j, recipe := range payload.Recipes {
			inputs := make([]economy.RecipeItem, len(recipe.Inputs))
			for k, item := range recipe.Inputs {
				inputs[k] = economy.RecipeItem{Ticker: item.CommodityTicker, Amount: item.Amount}
			}
			outputs := make([]economy.RecipeItem, len(recipe.Outputs))
			for k, item := range recipe.Outputs {
				outputs[k] = economy.RecipeItem{Ticker: item.CommodityTicker, Amount: item.Amount}
			}
			recipes[j] = economy.Recipe{
				BuildingTicker: payload.Ticker,
				Name:           recipe.RecipeName,
				Inputs:         inputs,
				Outputs:        outputs,
				DurationMS:     recipe.DurationMS,
			}
		}

		buildings[i] = economy.Building{
			Ticker:      payload.Ticker,
			BuildingID:  strings.ToLower(payload.BuildingID),
			Name:        payload.Name,
			Expertise:   payload.Expertise,
			AreaCost:    payload.AreaCost,
			Pioneers:    payload.Pioneers,
			Settlers:    payload.Settlers,
			Technicians: payload.Technicians,
			Engineers:   payload.Engineers,
			Scientists:  payload.Scientists,
			Costs:       costs,
			Recipes:     recipes,
		}
	}
	return buildings, nil
}

// AllRecipes fetches the full recipe catalog
func (c *Client) AllRecipes(ctx context.Context) ([]economy.Recipe, error) {
	var response []struct {
		BuildingTicker string `json:"BuildingTicker"`
		RecipeName     string `json:"RecipeName"`
		DurationMS     int64  `json:"TimeMs"`
		Inputs         []struct {
			Ticker string  `json:"Ticker"`
			Amount float64 `json:"Amount"`
		} `json:"Inputs"`
		Outputs []struct {
			Ticker string  `json:"Ticker"`
			Amount float64 `json:"Amount"`
		} `json:"Outputs"`
	}

	if _, err := c.request(ctx, "GET", "/recipes/allrecipes", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	recipes := make([]economy.Recipe, len(response))
	for i, payload := range response {
		inputs := make([]economy.RecipeItem, len(payload.Inputs))
		for j, item := range payload.Inputs {
			inputs[j] = economy.RecipeItem{Ticker: item.Ticker, Amount: item.Amount}
		}
		outputs := make([]economy.RecipeItem, len(payload.Outputs))
		for j, item := range payload.Outputs {
			outputs[j] = economy.RecipeItem{Ticker: item.Ticker, Amount: item.Amount}
		}
		recipes[i] = economy.Recipe{
			BuildingTicker: payload.BuildingTicker,
			Name:           payload.RecipeName,
			Inputs:         inputs,
			Outputs:        outputs,
			DurationMS:     payload.DurationMS,
		}
	}
	return recipes, nil
}

// WorkforceNeeds fetches the per-tier consumable needs, keyed by normalized
// workforce type. Amounts are per 100 workers per day
func (c *Client) WorkforceNeeds(ctx context.Context) (map[string][]economy.WorkforceNeed, error) {
	var response []struct {
		WorkforceType string `json:"WorkforceType"`
		Needs         []struct {
			MaterialTicker string  `json:"MaterialTicker"`
			Amount         float64 `json:"Amount"`
		} `json:"Needs"`
	}

	if _, err := c.request(ctx, "GET", "/global/workforceneeds", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get workforce needs: %w", err)
	}

	needs := make(map[string][]economy.WorkforceNeed, len(response))
	for _, tier := range response {
		workforceType := strings.ToUpper(strings.TrimSpace(tier.WorkforceType))
		if workforceType == "" {
			continue
		}
		entries := make([]economy.WorkforceNeed, len(tier.Needs))
		for i, need := range tier.Needs {
			entries[i] = economy.WorkforceNeed{
				Ticker:       need.MaterialTicker,
				AmountPer100: need.Amount,
			}
		}
		needs[workforceType] = entries
	}
	return needs, nil
}

// Planet resolves a planet by PlanetId, natural id, or name. FIO reports
// infertile planets as Fertility -1, which maps to a nil fertility here
func (c *Client) Planet(ctx context.Context, identifier string) (*economy.Planet, error) {
	identifier = strings.TrimSpace(identifier)

	var response planetPayload
	found, err := c.request(ctx, "GET", "/planet/"+identifier, nil, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to get planet: %w", err)
	}
	if !found {
		return nil, economy.NewPlanetNotFoundError(identifier)
	}

	planet := response.toRecord()
	return &planet, nil
}

// SearchPlanets finds planets whose deposits contain every given material
// ticker. With no materials it returns the full planet list
func (c *Client) SearchPlanets(ctx context.Context, materials []string) ([]economy.Planet, error) {
	body := struct {
		Materials []string `json:"Materials"`
	}{Materials: materials}

	var response []planetPayload
	if _, err := c.request(ctx, "POST", "/planet/search", body, &response); err != nil {
		return nil, fmt.Errorf("failed to search planets: %w", err)
	}

	planets := make([]economy.Planet, len(response))
	for i, payload := range response {
		planets[i] = payload.toRecord()
	}
	return planets, nil
}

// ExchangeInfo fetches the full market state for one ticker on one
// exchange. Returns (nil, nil) when the pair has no market
func (c *Client) ExchangeInfo(ctx context.Context, ticker, exchange string) (*market.ExchangeInfo, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	exchange = strings.ToUpper(strings.TrimSpace(exchange))

	var response struct {
		MaterialTicker string   `json:"MaterialTicker"`
		ExchangeCode   string   `json:"ExchangeCode"`
		Ask            *float64 `json:"Ask"`
		Bid            *float64 `json:"Bid"`
		Supply         int      `json:"Supply"`
		Demand         int      `json:"Demand"`
		MMBuy          *float64 `json:"MMBuy"`
		MMSell         *float64 `json:"MMSell"`
		BuyingOrders   []struct {
			ItemCount *int    `json:"ItemCount"`
			ItemCost  float64 `json:"ItemCost"`
		} `json:"BuyingOrders"`
		SellingOrders []struct {
			ItemCount *int    `json:"ItemCount"`
			ItemCost  float64 `json:"ItemCost"`
		} `json:"SellingOrders"`
	}

	found, err := c.request(ctx, "GET", "/exchange/"+ticker+"."+exchange, nil, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange info: %w", err)
	}
	if !found {
		return nil, nil
	}

	info := &market.ExchangeInfo{
		Ticker:   response.MaterialTicker,
		Exchange: response.ExchangeCode,
		Ask:      response.Ask,
		Bid:      response.Bid,
		Supply:   response.Supply,
		Demand:   response.Demand,
		MMBuy:    response.MMBuy,
		MMSell:   response.MMSell,
	}
	for _, order := range response.BuyingOrders {
		// Market maker orders have a null count; they carry no walkable depth
		count := 0
		if order.ItemCount != nil {
			count = *order.ItemCount
		}
		info.BuyingOrders = append(info.BuyingOrders, market.Order{Count: count, Cost: order.ItemCost})
	}
	for _, order := range response.SellingOrders {
		count := 0
		if order.ItemCount != nil {
			count = *order.ItemCount
		}
		info.SellingOrders = append(info.SellingOrders, market.Order{Count: count, Cost: order.ItemCost})
	}
	return info, nil
}

// ExchangeAll fetches the current quote for every ticker on every
// exchange in a single call
func (c *Client) ExchangeAll(ctx context.Context) ([]market.TickerSnapshot, error) {
	var response []struct {
		MaterialTicker string   `json:"MaterialTicker"`
		ExchangeCode   string   `json:"ExchangeCode"`
		Ask            *float64 `json:"Ask"`
		Bid            *float64 `json:"Bid"`
		PriceAverage   float64  `json:"PriceAverage"`
		Supply         int      `json:"Supply"`
		Demand         int      `json:"Demand"`
	}

	if _, err := c.request(ctx, "GET", "/exchange/all", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get exchange snapshot: %w", err)
	}

	snapshots := make([]market.TickerSnapshot, len(response))
	for i, payload := range response {
		snapshots[i] = market.TickerSnapshot{
			Ticker:       payload.MaterialTicker,
			Exchange:     payload.ExchangeCode,
			Ask:          payload.Ask,
			Bid:          payload.Bid,
			PriceAverage: payload.PriceAverage,
			Supply:       payload.Supply,
			Demand:       payload.Demand,
		}
	}
	return snapshots, nil
}

// PriceHistory fetches OHLC trade history for one ticker on one exchange.
// Returns an empty slice when the pair has never traded
func (c *Client) PriceHistory(ctx context.Context, ticker, exchange string) ([]market.PriceCandle, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	exchange = strings.ToUpper(strings.TrimSpace(exchange))

	var response []struct {
		Interval    string  `json:"Interval"`
		DateEpochMS int64   `json:"DateEpochMs"`
		Open        float64 `json:"Open"`
		Close       float64 `json:"Close"`
		High        float64 `json:"High"`
		Low         float64 `json:"Low"`
		Traded      int64   `json:"Traded"`
		Volume      float64 `json:"Volume"`
	}

	found, err := c.request(ctx, "GET", "/exchange/cxpc/"+ticker+"."+exchange, nil, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	if !found {
		return []market.PriceCandle{}, nil
	}

	candles := make([]market.PriceCandle, len(response))
	for i, payload := range response {
		candles[i] = market.PriceCandle{
			Interval:  payload.Interval,
			Timestamp: payload.DateEpochMS,
			Open:      payload.Open,
			Close:     payload.Close,
			High:      payload.High,
			Low:       payload.Low,
			Traded:    payload.Traded,
			Volume:    payload.Volume,
		}
	}
	return candles, nil
}

// Prices fetches ask/bid quotes for a set of tickers on one exchange,
// fanning out one exchange info request per ticker. Untraded tickers get a
// zero-value quote rather than an error
func (c *Client) Prices(ctx context.Context, tickers []string, exchange string) (map[string]economy.PriceQuote, error) {
	quotes := make(map[string]economy.PriceQuote, len(tickers))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			info, err := c.ExchangeInfo(ctx, ticker, exchange)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			if info == nil {
				quotes[ticker] = economy.PriceQuote{}
				return
			}
			quotes[ticker] = economy.PriceQuote{Ask: info.Ask, Bid: info.Bid}
		}(ticker)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return quotes, nil
}

// materialPayload is the FIO material wire shape, shared by the single and
// catalog endpoints
type materialPayload struct {
	MaterialID string  `json:"MaterialId"`
	Ticker     string  `json:"Ticker"`
	Name       string  `json:"Name"`
	Category   string  `json:"CategoryName"`
	Weight     float64 `json:"Weight"`
	Volume     float64 `json:"Volume"`
}

func (p materialPayload) toRecord() economy.Material {
	return economy.Material{
		Ticker:     p.Ticker,
		MaterialID: strings.ToLower(p.MaterialID),
		Name:       p.Name,
		Category:   p.Category,
		Weight:     p.Weight,
		Volume:     p.Volume,
	}
}

// planetPayload is the FIO planet wire shape, shared by the lookup and
// search endpoints
type planetPayload struct {
	PlanetID    string  `json:"PlanetId"`
	NaturalID   string  `json:"PlanetNaturalId"`
	Name        string  `json:"PlanetName"`
	Surface     bool    `json:"Surface"`
	Pressure    float64 `json:"Pressure"`
	Gravity     float64 `json:"Gravity"`
	Temperature float64 `json:"Temperature"`
	Fertility   float64 `json:"Fertility"`
	Resources   []struct {
		MaterialID   string  `json:"MaterialId"`
		ResourceType string  `json:"ResourceType"`
		Factor       float64 `json:"Factor"`
	} `json:"Resources"`
}

func (p planetPayload) toRecord() economy.Planet {
	planet := economy.Planet{
		PlanetID:    p.PlanetID,
		NaturalID:   p.NaturalID,
		Name:        p.Name,
		Surface:     p.Surface,
		Pressure:    p.Pressure,
		Gravity:     p.Gravity,
		Temperature: p.Temperature,
	}
	if p.Fertility != -1 {
		fertility := p.Fertility
		planet.Fertility = &fertility
	}
	for _, resource := range p.Resources {
		planet.Resources = append(planet.Resources, economy.PlanetResource{
			MaterialID:   strings.ToLower(resource.MaterialID),
			ResourceType: resource.ResourceType,
			Factor:       resource.Factor,
		})
	}
	return planet
}

// addJitter adds random jitter to a duration to avoid thundering herd
// Returns a duration between 50% and 150% of the original value
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64() // 0.5 to 1.5
	return time.Duration(float64(d) * jitter)
}

// request makes an HTTP request with rate limiting and exponential backoff
// retries. Returns found=false on 204, which FIO uses for unknown entities
func (c *Client) request(ctx context.Context, method, path string, body, result interface{}) (bool, error) {
	url := c.baseURL + path

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return false, fmt.Errorf("rate limiter error: %w", err)
		}

		var reqBody io.Reader
		if body != nil {
			jsonData, err := json.Marshal(body)
			if err != nil {
				return false, fmt.Errorf("failed to marshal request body: %w", err)
			}
			reqBody = bytes.NewBuffer(jsonData)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return false, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network error - retryable
			lastErr = &retryableError{
				message: fmt.Errorf("network error: %w", err).Error(),
			}

			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return false, fmt.Errorf("context cancelled: %w", ctx.Err())
			}

			metrics.RecordFIORetry(method, path, "network_error")
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}
		metrics.RecordFIORequest(method, path, resp.StatusCode, time.Since(started).Seconds())

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return false, fmt.Errorf("failed to read response: %w", err)
		}

		// Handle 429 Too Many Requests - retryable
		if resp.StatusCode == http.StatusTooManyRequests {
			var retryAfterDuration time.Duration
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					retryAfterDuration = time.Duration(seconds) * time.Second
				}
			}

			lastErr = &retryableError{
				message:    "rate limited (429)",
				retryAfter: retryAfterDuration,
			}

			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return false, fmt.Errorf("context cancelled: %w", ctx.Err())
			}

			// Use server-provided Retry-After without jitter when present
			backoffDelay := addJitter(c.backoffBase * time.Duration(1<<attempt))
			if retryAfterDuration > 0 {
				backoffDelay = retryAfterDuration
			}
			metrics.RecordFIORetry(method, path, "rate_limited")
			c.clock.Sleep(backoffDelay)
			continue
		}

		// Handle 5xx server errors - retryable
		if resp.StatusCode >= 500 {
			lastErr = &retryableError{
				message: fmt.Sprintf("server error (%d)", resp.StatusCode),
			}

			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return false, fmt.Errorf("context cancelled: %w", ctx.Err())
			}

			metrics.RecordFIORetry(method, path, "server_error")
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}

		// FIO answers 204 for unknown materials, planets, and markets
		if resp.StatusCode == http.StatusNoContent {
			return false, nil
		}

		// Handle 4xx client errors (except 429) - NOT retryable
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return false, NewAPIError(resp.StatusCode, string(respBody))
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return false, NewAPIError(resp.StatusCode, string(respBody))
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return false, fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}

		return true, nil
	}

	if lastErr != nil {
		return false, fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return false, fmt.Errorf("max retries exceeded")
}
