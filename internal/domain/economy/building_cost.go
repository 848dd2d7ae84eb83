package economy

import (
	"math"
	"sort"

	"github.com/hyposcaler-bot/prun-mcp/pkg/utils"
)

// Environment thresholds. Every boundary is a strict comparison; a planet
// sitting exactly on a threshold triggers neither branch.
const (
	lowPressureThreshold  = 0.25
	highPressureThreshold = 2.0
	lowGravityThreshold   = 0.25
	highGravityThreshold  = 2.5
	coldThreshold         = -25.0
	hotThreshold          = 75.0
)

// Infrastructure cost factors.
const (
	mcgPerAreaRocky    = 4  // MCG per area unit on rocky planets
	aefDivisorGaseous  = 3  // AEF = ceil(area / 3) on gaseous planets
	insPerAreaCold     = 10 // INS per area unit in cold environments
	seaPerAreaLowPress = 1  // SEA per area unit in low pressure
)

// soilDependentBuildings require arable soil; placing one on a planet with
// absent fertility is an error.
var soilDependentBuildings = map[string]bool{
	"FRM": true,
	"ORC": true,
}

// EnvironmentInfo describes a planet's classified environment: the surface
// type label first, then condition labels in the fixed check order
// (pressure, gravity, temperature).
type EnvironmentInfo struct {
	SurfaceType string   `json:"surface_type"`
	Conditions  []string `json:"conditions"`
}

// RequiredInfrastructureMaterials returns the infrastructure material
// tickers a planet's environment demands, without amounts. Useful for
// knowing which prices to fetch before calculating.
func RequiredInfrastructureMaterials(planet *Planet) []string {
	materials := make([]string, 0, 4)

	if planet.Surface {
		materials = append(materials, "MCG")
	} else {
		materials = append(materials, "AEF")
	}

	if planet.Pressure < lowPressureThreshold {
		materials = append(materials, "SEA")
	} else if planet.Pressure > highPressureThreshold {
		materials = append(materials, "HSE")
	}

	if planet.Gravity < lowGravityThreshold {
		materials = append(materials, "MGC")
	} else if planet.Gravity > highGravityThreshold {
		materials = append(materials, "BL")
	}

	if planet.Temperature < coldThreshold {
		materials = append(materials, "INS")
	} else if planet.Temperature > hotThreshold {
		materials = append(materials, "TSH")
	}

	return materials
}

// InfrastructureCosts computes the infrastructure material amounts for a
// building footprint on a planet. AEF rounds up; under-provisioning
// infrastructure is not acceptable.
func InfrastructureCosts(area int, planet *Planet) map[string]int {
	costs := make(map[string]int)

	if planet.Surface {
		costs["MCG"] = area * mcgPerAreaRocky
	} else {
		costs["AEF"] = int(math.Ceil(float64(area) / aefDivisorGaseous))
	}

	if planet.Pressure < lowPressureThreshold {
		costs["SEA"] = area * seaPerAreaLowPress
	} else if planet.Pressure > highPressureThreshold {
		costs["HSE"] = 1
	}

	if planet.Gravity < lowGravityThreshold {
		costs["MGC"] = 1
	} else if planet.Gravity > highGravityThreshold {
		costs["BL"] = 1
	}

	if planet.Temperature < coldThreshold {
		costs["INS"] = area * insPerAreaCold
	} else if planet.Temperature > hotThreshold {
		costs["TSH"] = 1
	}

	return costs
}

// ClassifyEnvironment classifies a planet into its surface type and
// discrete environmental conditions.
func ClassifyEnvironment(planet *Planet) EnvironmentInfo {
	var conditions []string

	if planet.Pressure < lowPressureThreshold {
		conditions = append(conditions, "low-pressure")
	} else if planet.Pressure > highPressureThreshold {
		conditions = append(conditions, "high-pressure")
	}

	if planet.Gravity < lowGravityThreshold {
		conditions = append(conditions, "low-gravity")
	} else if planet.Gravity > highGravityThreshold {
		conditions = append(conditions, "high-gravity")
	}

	if planet.Temperature < coldThreshold {
		conditions = append(conditions, "cold")
	} else if planet.Temperature > hotThreshold {
		conditions = append(conditions, "hot")
	}

	surfaceType := "gaseous"
	if planet.Surface {
		surfaceType = "rocky"
	}

	return EnvironmentInfo{SurfaceType: surfaceType, Conditions: conditions}
}

// MaterialCostLine is one material requirement in a building cost result.
// Price and Cost are nil when no exchange was given or the material has no
// ask price there.
type MaterialCostLine struct {
	Ticker string   `json:"ticker"`
	Amount int      `json:"amount"`
	Price  *float64 `json:"price,omitempty"`
	Cost   *float64 `json:"cost,omitempty"`
}

// BuildingCostResult is the full material requirement for one building on
// one planet, optionally priced against an exchange.
type BuildingCostResult struct {
	BuildingTicker string             `json:"building_ticker"`
	BuildingName   string             `json:"building_name"`
	PlanetName     string             `json:"planet_name"`
	PlanetID       string             `json:"planet_id"`
	Area           int                `json:"area"`
	Materials      []MaterialCostLine `json:"materials"`
	Environment    EnvironmentInfo    `json:"environment"`
	Exchange       string             `json:"exchange,omitempty"`
	TotalCost      *float64           `json:"total_cost,omitempty"`
	MissingPrices  []string           `json:"missing_prices,omitempty"`
}

// CalculateBuildingCost computes the complete construction requirement for
// a building on a planet: summed base costs plus environment-driven
// infrastructure, sorted alphabetically by ticker. When prices are given
// (exchange non-empty), each material is priced at ask and a running total
// accumulates; missing prices are reported inline, never raised.
//
// The only raised error is InfertilePlanetError for a soil-dependent
// building on a planet with absent fertility.
func CalculateBuildingCost(building *Building, planet *Planet, prices map[string]PriceQuote, exchange string) (*BuildingCostResult, error) {
	if soilDependentBuildings[building.Ticker] && planet.Fertility == nil {
		return nil, NewInfertilePlanetError(building.Ticker)
	}

	// Base construction costs. Duplicate tickers sum.
	materials := make(map[string]int)
	for _, cost := range building.Costs {
		if cost.Ticker != "" && cost.Amount > 0 {
			materials[cost.Ticker] += cost.Amount
		}
	}

	for ticker, amount := range InfrastructureCosts(building.AreaCost, planet) {
		materials[ticker] += amount
	}

	tickers := make([]string, 0, len(materials))
	for ticker := range materials {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	lines := make([]MaterialCostLine, 0, len(tickers))
	totalCost := 0.0
	var missingPrices []string

	for _, ticker := range tickers {
		line := MaterialCostLine{Ticker: ticker, Amount: materials[ticker]}

		if exchange != "" {
			if quote, ok := prices[ticker]; ok && quote.Ask != nil {
				price := utils.Round2(*quote.Ask)
				cost := utils.Round2(price * float64(line.Amount))
				line.Price = &price
				line.Cost = &cost
				totalCost += price * float64(line.Amount)
			} else {
				missingPrices = append(missingPrices, ticker)
			}
		}

		lines = append(lines, line)
	}

	result := &BuildingCostResult{
		BuildingTicker: building.Ticker,
		BuildingName:   building.Name,
		PlanetName:     planet.Name,
		PlanetID:       planet.NaturalID,
		Area:           building.AreaCost,
		Materials:      lines,
		Environment:    ClassifyEnvironment(planet),
		Exchange:       exchange,
		MissingPrices:  missingPrices,
	}
	if exchange != "" {
		rounded := utils.Round2(totalCost)
		result.TotalCost = &rounded
	}
	return result, nil
}
