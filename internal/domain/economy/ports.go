package economy

import "context"

// MaterialLookup resolves materials by ticker (upper-cased) or material id
// (lower-cased).
type MaterialLookup interface {
	Material(identifier string) (*Material, bool)
}

// BuildingLookup resolves buildings by ticker or building id.
type BuildingLookup interface {
	Building(identifier string) (*Building, bool)
}

// RecipeLookup resolves recipes by exact name or by output ticker.
type RecipeLookup interface {
	RecipeByName(name string) (*Recipe, bool)
	RecipesByOutput(ticker string) []*Recipe
}

// WorkforceNeedsLookup returns the consumable needs for a workforce tier
// (normalized form, e.g. "PIONEER"). Nil means the tier is unknown.
type WorkforceNeedsLookup interface {
	Needs(workforceType string) []WorkforceNeed
}

// PriceLookup fetches ask/bid quotes for a set of tickers on one exchange.
// Missing quotes are represented as zero-value PriceQuote entries, never as
// an error; price availability is expected to be incomplete.
type PriceLookup interface {
	Prices(ctx context.Context, tickers []string, exchange string) (map[string]PriceQuote, error)
}

// PlanetLookup resolves a planet by id, natural id, or name.
type PlanetLookup interface {
	Planet(ctx context.Context, identifier string) (*Planet, error)
}
