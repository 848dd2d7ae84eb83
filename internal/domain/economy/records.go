// Package economy contains the calculation core for Prosperous Universe
// base planning: material flow tracking, building construction costs,
// cost-of-goods-manufactured, workforce consumption, and extraction output.
//
// All calculators here are pure: they operate on typed records resolved at
// the lookup boundary and never perform I/O themselves.
package economy

// Material is a tradeable commodity identified by its ticker.
// Tickers are canonically upper-case; material ids are lower-case hex.
type Material struct {
	Ticker     string
	MaterialID string
	Name       string
	Category   string
	Weight     float64
	Volume     float64
}

// BuildingCost is a single construction material requirement.
// The same ticker may appear more than once in a building's cost list;
// amounts must be summed, not overwritten.
type BuildingCost struct {
	Ticker string
	Amount int
}

// Building describes a constructible building: its footprint, workforce
// headcounts by tier, construction costs, and the recipes it can run.
type Building struct {
	Ticker      string
	BuildingID  string
	Name        string
	Expertise   string
	AreaCost    int
	Pioneers    int
	Settlers    int
	Technicians int
	Engineers   int
	Scientists  int
	Costs       []BuildingCost
	Recipes     []Recipe
}

// RecipeItem is one (ticker, amount) pair on a recipe's input or output side.
type RecipeItem struct {
	Ticker string
	Amount float64
}

// Recipe is a production recipe. Names are unique only within a building's
// recipe set; the full identity is building ticker plus the
// "1xA 1xB=>1xC"-style name. DurationMS must be positive for any rate
// calculation.
type Recipe struct {
	BuildingTicker string
	Name           string
	Inputs         []RecipeItem
	Outputs        []RecipeItem
	DurationMS     int64
}

// PlanetResource is one extractable deposit on a planet.
type PlanetResource struct {
	MaterialID   string
	ResourceType string
	Factor       float64
}

// Planet carries the environmental parameters that drive infrastructure
// costs. Fertility nil means "no fertility at all", which is distinct from
// a present-but-negative value denoting reduced fertility.
type Planet struct {
	PlanetID    string
	NaturalID   string
	Name        string
	Surface     bool
	Pressure    float64
	Gravity     float64
	Temperature float64
	Fertility   *float64
	Resources   []PlanetResource
}

// WorkforceNeed is one consumable requirement for a workforce tier,
// expressed per 100 workers per day.
type WorkforceNeed struct {
	Ticker       string
	AmountPer100 float64
}

// PriceQuote is a best-effort ask/bid pair for one ticker on one exchange.
// Nil means the material is not traded there.
type PriceQuote struct {
	Ask *float64
	Bid *float64
}
