package economy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	domain "github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
	"github.com/hyposcaler-bot/prun-mcp/pkg/utils"
)

// suggestionDistance bounds how far a "did you mean" candidate may be from
// the unknown identifier.
const suggestionDistance = 2

// Service orchestrates the economy calculators: it resolves identifiers
// through the catalogs, batch-fetches the prices a calculation needs, and
// delegates the math to the domain layer.
type Service struct {
	data    DataSource
	prices  domain.PriceLookup
	planets domain.PlanetLookup
}

func NewService(data DataSource, prices domain.PriceLookup, planets domain.PlanetLookup) *Service {
	return &Service{
		data:    data,
		prices:  prices,
		planets: planets,
	}
}

// Material resolves a material by ticker or id, attaching a nearest-match
// suggestion to the not-found error when a close ticker exists.
func (s *Service) Material(ctx context.Context, identifier string) (*domain.Material, error) {
	catalog, err := s.data.Materials(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading materials: %w", err)
	}

	if material, ok := catalog.Material(identifier); ok {
		return material, nil
	}

	notFound := domain.NewMaterialNotFoundError(identifier)
	notFound.Suggestion = utils.NearestMatch(identifier, catalog.MaterialTickers(), suggestionDistance)
	return nil, notFound
}

// Building resolves a building by ticker or id.
func (s *Service) Building(ctx context.Context, identifier string) (*domain.Building, error) {
	catalog, err := s.data.Buildings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading buildings: %w", err)
	}

	if building, ok := catalog.Building(identifier); ok {
		return building, nil
	}

	notFound := domain.NewBuildingNotFoundError(identifier)
	notFound.Suggestion = utils.NearestMatch(identifier, catalog.BuildingTickers(), suggestionDistance)
	return nil, notFound
}

// Recipe resolves a recipe by exact name first, then by output ticker. An
// output ticker with multiple producing recipes is ambiguous and errors
// with the candidate names.
func (s *Service) Recipe(ctx context.Context, identifier string) (*domain.Recipe, error) {
	catalog, err := s.data.Recipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}

	if recipe, ok := catalog.RecipeByName(identifier); ok {
		return recipe, nil
	}

	byOutput := catalog.RecipesByOutput(identifier)
	switch len(byOutput) {
	case 0:
		notFound := domain.NewRecipeNotFoundError(identifier)
		notFound.Suggestion = utils.NearestMatch(identifier, catalog.RecipeNames(), suggestionDistance)
		return nil, notFound
	case 1:
		return byOutput[0], nil
	default:
		names := make([]string, 0, len(byOutput))
		for _, r := range byOutput {
			names = append(names, r.Name)
		}
		return nil, NewValidationError("multiple recipes produce %s, specify one of: %s",
			strings.ToUpper(identifier), strings.Join(names, ", "))
	}
}

// Planet resolves a planet by id, natural id, or name.
func (s *Service) Planet(ctx context.Context, identifier string) (*domain.Planet, error) {
	return s.planets.Planet(ctx, identifier)
}

// Workforce returns the consumable needs catalog.
func (s *Service) Workforce(ctx context.Context) (WorkforceCatalog, error) {
	return s.data.Workforce(ctx)
}

// BuildingCost computes the construction requirement for a building on a
// planet, priced when an exchange was requested.
func (s *Service) BuildingCost(ctx context.Context, req BuildingCostRequest) (*domain.BuildingCostResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	building, err := s.Building(ctx, req.Building)
	if err != nil {
		return nil, err
	}

	planet, err := s.planets.Planet(ctx, req.Planet)
	if err != nil {
		return nil, err
	}

	var prices map[string]domain.PriceQuote
	if req.Exchange != "" {
		tickers := make(map[string]bool)
		for _, cost := range building.Costs {
			tickers[cost.Ticker] = true
		}
		for _, ticker := range domain.RequiredInfrastructureMaterials(planet) {
			tickers[ticker] = true
		}
		prices, err = s.prices.Prices(ctx, setToSlice(tickers), req.Exchange)
		if err != nil {
			return nil, fmt.Errorf("fetching prices on %s: %w", req.Exchange, err)
		}
	}

	return domain.CalculateBuildingCost(building, planet, prices, req.Exchange)
}

// COGM computes the cost of goods manufactured for a recipe.
func (s *Service) COGM(ctx context.Context, req COGMRequest) (*domain.COGMResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipe, err := s.Recipe(ctx, req.Recipe)
	if err != nil {
		return nil, err
	}

	building, err := s.Building(ctx, recipe.BuildingTicker)
	if err != nil {
		return nil, err
	}

	needs, err := s.data.Workforce(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workforce needs: %w", err)
	}

	tickers := make(map[string]bool)
	for _, in := range recipe.Inputs {
		tickers[in.Ticker] = true
	}
	workforce := domain.WorkforceFromBuilding(building, 1)
	for _, ticker := range domain.ConsumableTickers(workforce, needs) {
		tickers[ticker] = true
	}

	prices, err := s.prices.Prices(ctx, setToSlice(tickers), req.Exchange)
	if err != nil {
		return nil, fmt.Errorf("fetching prices on %s: %w", req.Exchange, err)
	}

	return domain.CalculateCOGM(recipe.Name, recipe, building, needs, prices, req.Exchange, req.Efficiency, req.SelfConsume)
}

// ExchangePriceRow is one ticker's quote on one exchange.
type ExchangePriceRow struct {
	Ticker   string   `json:"ticker"`
	Exchange string   `json:"exchange"`
	Ask      *float64 `json:"ask"`
	Bid      *float64 `json:"bid"`
}

// ExchangePricesResult is the fan-out quote fetch outcome. NotFound lists
// ticker.exchange pairs with no market on that exchange.
type ExchangePricesResult struct {
	Prices   []ExchangePriceRow `json:"prices"`
	NotFound []string           `json:"not_found,omitempty"`
}

// ExchangePrices fetches quotes for every ticker on every requested
// exchange. The special exchange "ALL" expands to the full exchange set.
// Exchanges are fetched concurrently; rows come back grouped by exchange
// in request order.
func (s *Service) ExchangePrices(ctx context.Context, tickers []string, exchanges []string) (*ExchangePricesResult, error) {
	if len(tickers) == 0 {
		return nil, NewValidationError("at least one ticker is required")
	}
	if len(exchanges) == 0 {
		return nil, NewValidationError("at least one exchange is required")
	}

	normalized := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		if t := strings.ToUpper(strings.TrimSpace(ticker)); t != "" {
			normalized = append(normalized, t)
		}
	}

	var codes []string
	for _, exchange := range exchanges {
		code := strings.ToUpper(strings.TrimSpace(exchange))
		if code == "ALL" {
			codes = domain.ExchangeCodes()
			break
		}
		validated, err := domain.ValidateExchange(code)
		if err != nil {
			return nil, err
		}
		codes = append(codes, validated)
	}

	type fetch struct {
		exchange string
		quotes   map[string]domain.PriceQuote
		err      error
	}

	results := make([]fetch, len(codes))
	var wg sync.WaitGroup
	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			quotes, err := s.prices.Prices(ctx, normalized, code)
			results[i] = fetch{exchange: code, quotes: quotes, err: err}
		}(i, code)
	}
	wg.Wait()

	result := &ExchangePricesResult{}
	for _, f := range results {
		if f.err != nil {
			return nil, fmt.Errorf("fetching prices on %s: %w", f.exchange, f.err)
		}
		for _, ticker := range normalized {
			quote := f.quotes[ticker]
			if quote.Ask == nil && quote.Bid == nil {
				result.NotFound = append(result.NotFound, ticker+"."+f.exchange)
				continue
			}
			result.Prices = append(result.Prices, ExchangePriceRow{
				Ticker:   ticker,
				Exchange: f.exchange,
				Ask:      quote.Ask,
				Bid:      quote.Bid,
			})
		}
	}
	return result, nil
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	return out
}
