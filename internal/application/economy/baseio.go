package economy

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
	"github.com/hyposcaler-bot/prun-mcp/pkg/utils"
)

// HabitationRow is the sufficiency check for one workforce tier.
type HabitationRow struct {
	Type       string `json:"type"`
	Required   int    `json:"required"`
	Available  int    `json:"available"`
	Sufficient bool   `json:"sufficient"`
}

// HabitationBlock aggregates per-tier housing checks; Sufficient is the AND
// of all rows.
type HabitationBlock struct {
	Validation []HabitationRow `json:"validation"`
	Sufficient bool            `json:"sufficient"`
}

// AreaBlock is the construction area budget check.
type AreaBlock struct {
	Used       int  `json:"used"`
	Limit      int  `json:"limit"`
	Remaining  int  `json:"remaining"`
	Sufficient bool `json:"sufficient"`
}

// BaseIOTotals holds the priced bottom line.
type BaseIOTotals struct {
	DailyCIS float64 `json:"daily_cis"`
}

// BaseIOResult is the complete daily input/output picture for a base.
type BaseIOResult struct {
	Exchange         string                 `json:"exchange"`
	Materials        []domain.MaterialValue `json:"materials"`
	Workforce        map[string]int         `json:"workforce"`
	Habitation       HabitationBlock        `json:"habitation"`
	Area             AreaBlock              `json:"area"`
	Totals           BaseIOTotals           `json:"totals"`
	Errors           []string               `json:"errors,omitempty"`
	ExtractionErrors []string               `json:"extraction_errors,omitempty"`
	MissingPrices    []string               `json:"missing_prices,omitempty"`
}

// planetResource is a planet deposit keyed by resolved ticker.
type planetResource struct {
	resourceType string
	factor       float64
}

// BaseIO computes the net daily material flow, workforce requirement,
// habitation and area checks, and priced totals for a whole base.
//
// Per-line lookup failures (unknown recipe, unknown resource, wrong
// extraction building) are collected as soft errors and the rest of the
// base still calculates. Only malformed input and infrastructure failures
// abort the call.
func (s *Service) BaseIO(ctx context.Context, req BaseIORequest) (*BaseIOResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipes, err := s.data.Recipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	buildings, err := s.data.Buildings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading buildings: %w", err)
	}
	needs, err := s.data.Workforce(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workforce needs: %w", err)
	}

	tracker := domain.NewMaterialFlowTracker()
	totalWorkforce := make(map[string]int)
	totalArea := 0
	var softErrors []string
	var extractionErrors []string

	// Production lines.
	for _, entry := range req.Production {
		recipe, ok := recipes.RecipeByName(entry.Recipe)
		if !ok {
			softErrors = append(softErrors, fmt.Sprintf("recipe not found: %s", entry.Recipe))
			continue
		}
		building, ok := buildings.Building(recipe.BuildingTicker)
		if !ok {
			softErrors = append(softErrors, fmt.Sprintf("building not found for recipe %s: %s", entry.Recipe, recipe.BuildingTicker))
			continue
		}
		if !domain.ProcessRecipeFlow(recipe, entry.Count, entry.Efficiency, tracker) {
			softErrors = append(softErrors, fmt.Sprintf("invalid duration on recipe %s: %dms", entry.Recipe, recipe.DurationMS))
			continue
		}
		totalWorkforce = domain.AggregateWorkforce(totalWorkforce, domain.WorkforceFromBuilding(building, entry.Count))
		totalArea += building.AreaCost * entry.Count
	}

	// Extraction operations.
	if len(req.Extraction) > 0 {
		deposits, err := s.planetDeposits(ctx, req.Planet)
		if err != nil {
			extractionErrors = append(extractionErrors, err.Error())
		} else {
			for _, entry := range req.Extraction {
				deposit, ok := deposits[entry.Resource]
				if !ok {
					extractionErrors = append(extractionErrors, fmt.Sprintf("resource %s not found on planet %s", entry.Resource, req.Planet))
					continue
				}
				required, ok := domain.BuildingForResourceType(deposit.resourceType)
				if !ok {
					extractionErrors = append(extractionErrors, fmt.Sprintf("resource %s has unknown type %s", entry.Resource, deposit.resourceType))
					continue
				}
				if required != entry.Building {
					extractionErrors = append(extractionErrors, fmt.Sprintf("resource %s (%s) requires %s, not %s",
						entry.Resource, strings.ToLower(deposit.resourceType), required, entry.Building))
					continue
				}

				daily := domain.ExtractionOutput(deposit.factor, entry.EffectiveEfficiency(), entry.Count, deposit.resourceType)
				tracker.AddOutput(entry.Resource, daily)

				spec := domain.ExtractionBuildings[entry.Building]
				scaled := make(map[string]int, len(spec.Workforce))
				for tier, workers := range spec.Workforce {
					scaled[tier] = workers * entry.Count
				}
				totalWorkforce = domain.AggregateWorkforce(totalWorkforce, scaled)
				totalArea += spec.Area * entry.Count
			}
		}
	}

	// Habitation contributes area and later capacity, never material flow.
	capacity := make(map[string]int)
	for _, entry := range req.Habitation {
		if building, ok := buildings.Building(entry.Building); ok {
			totalArea += building.AreaCost * entry.Count
		} else {
			softErrors = append(softErrors, fmt.Sprintf("habitation building not in data set: %s", entry.Building))
		}
		for tier, housed := range domain.HabitationCapacity[entry.Building] {
			capacity[tier] += housed * entry.Count
		}
	}

	tracker.AddConsumption(domain.WorkforceConsumption(totalWorkforce, needs))

	prices, err := s.prices.Prices(ctx, tracker.Tickers(), req.Exchange)
	if err != nil {
		return nil, fmt.Errorf("fetching prices on %s: %w", req.Exchange, err)
	}

	materials, totalCIS, missingPrices := domain.MaterialValues(tracker.Flows(), prices)

	habitation := HabitationBlock{Sufficient: true}
	for _, tier := range domain.WorkforceTypes {
		required := totalWorkforce[tier]
		available := capacity[tier]
		if required == 0 && available == 0 {
			continue
		}
		sufficient := available >= required
		habitation.Validation = append(habitation.Validation, HabitationRow{
			Type:       tier,
			Required:   required,
			Available:  available,
			Sufficient: sufficient,
		})
		if !sufficient {
			habitation.Sufficient = false
		}
	}

	limit := domain.AreaLimit(req.Permits)
	area := AreaBlock{
		Used:       totalArea,
		Limit:      limit,
		Remaining:  limit - totalArea,
		Sufficient: totalArea <= limit,
	}

	workforce := make(map[string]int)
	for tier, count := range totalWorkforce {
		if count > 0 {
			workforce[tier] = count
		}
	}

	return &BaseIOResult{
		Exchange:         req.Exchange,
		Materials:        materials,
		Workforce:        workforce,
		Habitation:       habitation,
		Area:             area,
		Totals:           BaseIOTotals{DailyCIS: utils.Round2(totalCIS)},
		Errors:           softErrors,
		ExtractionErrors: extractionErrors,
		MissingPrices:    missingPrices,
	}, nil
}

// planetDeposits fetches a planet and resolves its resource list to a
// ticker-keyed map, translating material ids through the materials catalog.
func (s *Service) planetDeposits(ctx context.Context, identifier string) (map[string]planetResource, error) {
	planet, err := s.planets.Planet(ctx, identifier)
	if err != nil {
		return nil, err
	}

	catalog, err := s.data.Materials(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading materials: %w", err)
	}

	deposits := make(map[string]planetResource, len(planet.Resources))
	for _, resource := range planet.Resources {
		material, ok := catalog.Material(resource.MaterialID)
		if !ok {
			continue
		}
		deposits[material.Ticker] = planetResource{
			resourceType: resource.ResourceType,
			factor:       resource.Factor,
		}
	}
	return deposits, nil
}
