package economy_test

import (
	"context"
	"strings"

	appeconomy "github.com/hyposcaler-bot/prun-mcp/internal/application/economy"
	domain "github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

func ptr(v float64) *float64 {
	return &v
}

// fakeCatalogs is an in-memory DataSource holding all four catalogs.
type fakeCatalogs struct {
	materials map[string]*domain.Material
	buildings map[string]*domain.Building
	recipes   []*domain.Recipe
	needs     map[string][]domain.WorkforceNeed
}

func newFakeCatalogs() *fakeCatalogs {
	return &fakeCatalogs{
		materials: make(map[string]*domain.Material),
		buildings: make(map[string]*domain.Building),
		needs:     make(map[string][]domain.WorkforceNeed),
	}
}

func (f *fakeCatalogs) addMaterial(m *domain.Material) *fakeCatalogs {
	f.materials[strings.ToUpper(m.Ticker)] = m
	if m.MaterialID != "" {
		f.materials[strings.ToLower(m.MaterialID)] = m
	}
	return f
}

func (f *fakeCatalogs) addBuilding(b *domain.Building) *fakeCatalogs {
	f.buildings[strings.ToUpper(b.Ticker)] = b
	return f
}

func (f *fakeCatalogs) addRecipe(r *domain.Recipe) *fakeCatalogs {
	f.recipes = append(f.recipes, r)
	return f
}

func (f *fakeCatalogs) Material(identifier string) (*domain.Material, bool) {
	if m, ok := f.materials[strings.ToUpper(identifier)]; ok {
		return m, true
	}
	m, ok := f.materials[strings.ToLower(identifier)]
	return m, ok
}

func (f *fakeCatalogs) AllMaterials() []*domain.Material {
	seen := make(map[*domain.Material]bool)
	var out []*domain.Material
	for _, m := range f.materials {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeCatalogs) MaterialTickers() []string {
	var out []string
	for _, m := range f.AllMaterials() {
		out = append(out, m.Ticker)
	}
	return out
}

func (f *fakeCatalogs) Building(identifier string) (*domain.Building, bool) {
	b, ok := f.buildings[strings.ToUpper(identifier)]
	return b, ok
}

func (f *fakeCatalogs) AllBuildings() []*domain.Building {
	var out []*domain.Building
	for _, b := range f.buildings {
		out = append(out, b)
	}
	return out
}

func (f *fakeCatalogs) BuildingTickers() []string {
	var out []string
	for ticker := range f.buildings {
		out = append(out, ticker)
	}
	return out
}

func (f *fakeCatalogs) RecipeByName(name string) (*domain.Recipe, bool) {
	for _, r := range f.recipes {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

func (f *fakeCatalogs) RecipesByOutput(ticker string) []*domain.Recipe {
	upper := strings.ToUpper(ticker)
	var out []*domain.Recipe
	for _, r := range f.recipes {
		for _, item := range r.Outputs {
			if strings.ToUpper(item.Ticker) == upper {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func (f *fakeCatalogs) AllRecipes() []*domain.Recipe {
	return f.recipes
}

func (f *fakeCatalogs) RecipeNames() []string {
	var out []string
	for _, r := range f.recipes {
		out = append(out, r.Name)
	}
	return out
}

func (f *fakeCatalogs) Needs(workforceType string) []domain.WorkforceNeed {
	return f.needs[workforceType]
}

func (f *fakeCatalogs) Materials(ctx context.Context) (appeconomy.MaterialCatalog, error) {
	return f, nil
}

func (f *fakeCatalogs) Buildings(ctx context.Context) (appeconomy.BuildingCatalog, error) {
	return f, nil
}

func (f *fakeCatalogs) Recipes(ctx context.Context) (appeconomy.RecipeCatalog, error) {
	return f, nil
}

func (f *fakeCatalogs) Workforce(ctx context.Context) (appeconomy.WorkforceCatalog, error) {
	return f, nil
}

// fakePrices serves quotes keyed by exchange then ticker and records the
// tickers requested.
type fakePrices struct {
	quotes    map[string]map[string]domain.PriceQuote
	requested [][]string
}

func newFakePrices() *fakePrices {
	return &fakePrices{quotes: make(map[string]map[string]domain.PriceQuote)}
}

func (f *fakePrices) set(exchange, ticker string, quote domain.PriceQuote) *fakePrices {
	if f.quotes[exchange] == nil {
		f.quotes[exchange] = make(map[string]domain.PriceQuote)
	}
	f.quotes[exchange][ticker] = quote
	return f
}

func (f *fakePrices) Prices(ctx context.Context, tickers []string, exchange string) (map[string]domain.PriceQuote, error) {
	f.requested = append(f.requested, tickers)
	out := make(map[string]domain.PriceQuote, len(tickers))
	for _, ticker := range tickers {
		out[ticker] = f.quotes[exchange][ticker]
	}
	return out, nil
}

// fakePlanets resolves planets by any of their identifiers.
type fakePlanets struct {
	planets []*domain.Planet
}

func (f *fakePlanets) Planet(ctx context.Context, identifier string) (*domain.Planet, error) {
	for _, p := range f.planets {
		if strings.EqualFold(p.PlanetID, identifier) ||
			strings.EqualFold(p.NaturalID, identifier) ||
			strings.EqualFold(p.Name, identifier) {
			return p, nil
		}
	}
	return nil, domain.NewPlanetNotFoundError(identifier)
}
