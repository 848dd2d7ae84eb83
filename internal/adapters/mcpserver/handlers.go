package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/cache"
	appeconomy "github.com/hyposcaler-bot/prun-mcp/internal/application/economy"
	appmarket "github.com/hyposcaler-bot/prun-mcp/internal/application/market"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/planning"
	"github.com/hyposcaler-bot/prun-mcp/pkg/utils"
)

const maxSearchMaterials = 4

type materialInfo struct {
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Weight     float64 `json:"weight"`
	Volume     float64 `json:"volume"`
	MaterialID string  `json:"material_id"`
}

func (s *Server) handleGetMaterialInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := req.RequireString("material")
	if err != nil {
		return errorResult(err)
	}

	material, err := s.economy.Material(ctx, identifier)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(materialInfo{
		Ticker:     material.Ticker,
		Name:       material.Name,
		Category:   material.Category,
		Weight:     material.Weight,
		Volume:     material.Volume,
		MaterialID: material.MaterialID,
	})
}

type recipeItemRow struct {
	Ticker string  `json:"ticker"`
	Amount float64 `json:"amount"`
}

type buildingInfo struct {
	Ticker    string          `json:"ticker"`
	Name      string          `json:"name"`
	Expertise string          `json:"expertise,omitempty"`
	AreaCost  int             `json:"area_cost"`
	Workforce map[string]int  `json:"workforce"`
	Costs     []recipeItemRow `json:"construction_costs"`
	Recipes   []string        `json:"recipes,omitempty"`
}

func (s *Server) handleGetBuildingInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := req.RequireString("building")
	if err != nil {
		return errorResult(err)
	}

	building, err := s.economy.Building(ctx, identifier)
	if err != nil {
		return errorResult(err)
	}

	info := buildingInfo{
		Ticker:    building.Ticker,
		Name:      building.Name,
		Expertise: building.Expertise,
		AreaCost:  building.AreaCost,
		Workforce: map[string]int{
			"pioneers":    building.Pioneers,
			"settlers":    building.Settlers,
			"technicians": building.Technicians,
			"engineers":   building.Engineers,
			"scientists":  building.Scientists,
		},
	}
	for _, cost := range building.Costs {
		info.Costs = append(info.Costs, recipeItemRow{Ticker: cost.Ticker, Amount: float64(cost.Amount)})
	}
	for _, recipe := range building.Recipes {
		info.Recipes = append(info.Recipes, recipe.Name)
	}
	return jsonResult(info)
}

func (s *Server) handleSearchBuildings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := cache.BuildingFilter{
		Materials: req.GetStringSlice("materials", nil),
		Expertise: req.GetString("expertise", ""),
		Workforce: req.GetString("workforce", ""),
	}
	if len(filter.Materials) == 0 && filter.Expertise == "" && filter.Workforce == "" {
		return errorResult(fmt.Errorf("at least one filter is required: materials, expertise, or workforce"))
	}

	matches, err := s.catalogs.BuildingSearch(ctx, filter)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]any{
		"count":     len(matches),
		"buildings": matches,
	})
}

// refreshCacheHandler builds the handler for one cache type's refresh tool.
func (s *Server) refreshCacheHandler(cacheType string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		count, err := s.catalogs.Refresh(ctx, cacheType)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(map[string]any{
			"cache":     cacheType,
			"count":     count,
			"refreshed": true,
		})
	}
}

type recipeInfo struct {
	Name          string          `json:"name"`
	Building      string          `json:"building"`
	DurationHours float64         `json:"duration_hours"`
	RunsPerDay    float64         `json:"runs_per_day"`
	Inputs        []recipeItemRow `json:"inputs"`
	Outputs       []recipeItemRow `json:"outputs"`
}

func newRecipeInfo(recipe *economy.Recipe) recipeInfo {
	info := recipeInfo{
		Name:     recipe.Name,
		Building: recipe.BuildingTicker,
		Inputs:   []recipeItemRow{},
		Outputs:  []recipeItemRow{},
	}
	if recipe.DurationMS > 0 {
		info.DurationHours = utils.Round2(float64(recipe.DurationMS) / (60 * 60 * 1000))
		info.RunsPerDay = utils.Round2(float64(economy.MSPerDay) / float64(recipe.DurationMS))
	}
	for _, item := range recipe.Inputs {
		info.Inputs = append(info.Inputs, recipeItemRow{Ticker: item.Ticker, Amount: item.Amount})
	}
	for _, item := range recipe.Outputs {
		info.Outputs = append(info.Outputs, recipeItemRow{Ticker: item.Ticker, Amount: item.Amount})
	}
	return info
}

func (s *Server) handleGetRecipeInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := req.RequireString("recipe")
	if err != nil {
		return errorResult(err)
	}

	recipe, err := s.economy.Recipe(ctx, identifier)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(newRecipeInfo(recipe))
}

func (s *Server) handleSearchRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := cache.RecipeFilter{
		Building: req.GetString("building", ""),
		Inputs:   req.GetStringSlice("inputs", nil),
		Outputs:  req.GetStringSlice("outputs", nil),
	}
	if filter.Building == "" && len(filter.Inputs) == 0 && len(filter.Outputs) == 0 {
		return errorResult(fmt.Errorf("at least one filter is required: building, inputs, or outputs"))
	}

	matches, err := s.catalogs.RecipeSearch(ctx, filter)
	if err != nil {
		return errorResult(err)
	}

	rows := make([]recipeInfo, 0, len(matches))
	for _, recipe := range matches {
		rows = append(rows, newRecipeInfo(recipe))
	}
	return jsonResult(map[string]any{
		"count":   len(rows),
		"recipes": rows,
	})
}

type planetResourceRow struct {
	Ticker    string  `json:"ticker"`
	Type      string  `json:"type"`
	Factor    float64 `json:"factor"`
	Extractor string  `json:"extractor,omitempty"`
	DailyBase float64 `json:"daily_base,omitempty"`
}

type planetInfo struct {
	PlanetID    string                  `json:"planet_id"`
	NaturalID   string                  `json:"natural_id"`
	Name        string                  `json:"name"`
	Pressure    float64                 `json:"pressure"`
	Gravity     float64                 `json:"gravity"`
	Temperature float64                 `json:"temperature"`
	Fertility   *float64                `json:"fertility"`
	Environment economy.EnvironmentInfo `json:"environment"`
	Resources   []planetResourceRow     `json:"resources"`
}

// resourceTicker resolves a deposit's material id to its ticker, falling
// back to the raw id when the catalog does not know it.
func resourceTicker(catalog appeconomy.MaterialCatalog, materialID string) string {
	if material, ok := catalog.Material(materialID); ok {
		return material.Ticker
	}
	return materialID
}

func (s *Server) handleGetPlanetInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := req.RequireString("planet")
	if err != nil {
		return errorResult(err)
	}

	planet, err := s.economy.Planet(ctx, identifier)
	if err != nil {
		return errorResult(err)
	}
	materials, err := s.catalogs.Materials(ctx)
	if err != nil {
		return errorResult(err)
	}

	info := planetInfo{
		PlanetID:    planet.PlanetID,
		NaturalID:   planet.NaturalID,
		Name:        planet.Name,
		Pressure:    planet.Pressure,
		Gravity:     planet.Gravity,
		Temperature: planet.Temperature,
		Fertility:   planet.Fertility,
		Environment: economy.ClassifyEnvironment(planet),
		Resources:   []planetResourceRow{},
	}
	for _, resource := range planet.Resources {
		row := planetResourceRow{
			Ticker: resourceTicker(materials, resource.MaterialID),
			Type:   resource.ResourceType,
			Factor: utils.Round4(resource.Factor),
		}
		if extractor, ok := economy.BuildingForResourceType(resource.ResourceType); ok {
			row.Extractor = extractor
			row.DailyBase = utils.Round2(economy.ExtractionOutput(resource.Factor, 1.0, 1, resource.ResourceType))
		}
		info.Resources = append(info.Resources, row)
	}
	sort.Slice(info.Resources, func(i, j int) bool {
		return info.Resources[i].Factor > info.Resources[j].Factor
	})
	return jsonResult(info)
}

type planetSearchRow struct {
	Name        string   `json:"planet_name"`
	NaturalID   string   `json:"natural_id"`
	Gravity     float64  `json:"gravity"`
	Temperature float64  `json:"temperature"`
	Fertility   *float64 `json:"fertility"`
	Resources   string   `json:"resources"`
}

func (s *Server) handleSearchPlanets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	materials := upperTickers(req.GetStringSlice("materials", nil))
	if len(materials) == 0 {
		return errorResult(fmt.Errorf("at least one material is required"))
	}
	if len(materials) > maxSearchMaterials {
		return errorResult(fmt.Errorf("at most %d materials can be searched at once, got %d", maxSearchMaterials, len(materials)))
	}
	exclude := upperTickers(req.GetStringSlice("exclude", nil))
	limit := req.GetInt("limit", 20)
	topResources := req.GetInt("top_resources", 3)

	planets, err := s.planets.SearchPlanets(ctx, materials)
	if err != nil {
		return errorResult(err)
	}
	catalog, err := s.catalogs.Materials(ctx)
	if err != nil {
		return errorResult(err)
	}

	wanted := make(map[string]bool, len(materials))
	for _, ticker := range materials {
		wanted[ticker] = true
	}
	excluded := make(map[string]bool, len(exclude))
	for _, ticker := range exclude {
		excluded[ticker] = true
	}

	type scored struct {
		row   planetSearchRow
		score float64
	}
	var results []scored
nextPlanet:
	for i := range planets {
		planet := &planets[i]

		type deposit struct {
			ticker string
			factor float64
		}
		deposits := make([]deposit, 0, len(planet.Resources))
		score := 0.0
		for _, resource := range planet.Resources {
			ticker := resourceTicker(catalog, resource.MaterialID)
			if excluded[ticker] {
				continue nextPlanet
			}
			if wanted[ticker] {
				score += resource.Factor
			}
			deposits = append(deposits, deposit{ticker: ticker, factor: resource.Factor})
		}

		sort.Slice(deposits, func(i, j int) bool { return deposits[i].factor > deposits[j].factor })
		if len(deposits) > topResources {
			deposits = deposits[:topResources]
		}
		parts := make([]string, 0, len(deposits))
		for _, d := range deposits {
			parts = append(parts, fmt.Sprintf("%s:%.4g", d.ticker, d.factor))
		}

		results = append(results, scored{
			row: planetSearchRow{
				Name:        planet.Name,
				NaturalID:   planet.NaturalID,
				Gravity:     planet.Gravity,
				Temperature: planet.Temperature,
				Fertility:   planet.Fertility,
				Resources:   strings.Join(parts, ", "),
			},
			score: score,
		})
	}

	// Richest deposits of the requested materials first.
	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) > limit {
		results = results[:limit]
	}
	rows := make([]planetSearchRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, r.row)
	}
	return jsonResult(map[string]any{
		"count":   len(rows),
		"planets": rows,
	})
}

func (s *Server) handleGetExchangePrices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tickers := req.GetStringSlice("tickers", nil)
	exchanges := req.GetStringSlice("exchanges", nil)
	if len(exchanges) == 0 {
		exchanges = []string{defaultExchange}
	}

	result, err := s.economy.ExchangePrices(ctx, tickers, exchanges)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(result)
}

func (s *Server) handleCalculateBuildingCost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args appeconomy.BuildingCostRequest
	if err := req.BindArguments(&args); err != nil {
		return errorResult(err)
	}

	result, err := s.economy.BuildingCost(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(result)
}

func (s *Server) handleCalculateCOGM(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args appeconomy.COGMRequest
	if err := req.BindArguments(&args); err != nil {
		return errorResult(err)
	}
	if args.Exchange == "" {
		args.Exchange = defaultExchange
	}

	result, err := s.economy.COGM(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(result)
}

func (s *Server) handleCalculateBaseIO(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args appeconomy.BaseIORequest
	if err := req.BindArguments(&args); err != nil {
		return errorResult(err)
	}
	if args.Exchange == "" {
		args.Exchange = defaultExchange
	}
	if args.Permits == 0 {
		args.Permits = 1
	}

	result, err := s.economy.BaseIO(ctx, args)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(result)
}

type savePlanArgs struct {
	Name        string                    `json:"name"`
	Planet      string                    `json:"planet"`
	PlanetName  string                    `json:"planet_name"`
	COGCProgram string                    `json:"cogc_program"`
	Habitation  []planning.HabitationLine `json:"habitation"`
	Production  []planning.ProductionLine `json:"production"`
	Storage     []planning.StorageLine    `json:"storage"`
	Extraction  []planning.ExtractionLine `json:"extraction"`
	Expertise   map[string]int            `json:"expertise"`
	Notes       string                    `json:"notes"`
	Active      bool                      `json:"active"`
	Overwrite   bool                      `json:"overwrite"`
}

func (s *Server) handleSaveBasePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args savePlanArgs
	if err := req.BindArguments(&args); err != nil {
		return errorResult(err)
	}

	plan := &planning.BasePlan{
		Name:        args.Name,
		Planet:      args.Planet,
		PlanetName:  args.PlanetName,
		COGCProgram: args.COGCProgram,
		Habitation:  args.Habitation,
		Production:  args.Production,
		Storage:     args.Storage,
		Extraction:  args.Extraction,
		Expertise:   args.Expertise,
		Notes:       args.Notes,
		Active:      args.Active,
	}
	result, err := s.planning.Save(ctx, plan, args.Overwrite)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(result)
}

func (s *Server) handleGetBasePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return errorResult(err)
	}

	plan, err := s.planning.Get(ctx, name)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(plan)
}

func (s *Server) handleListBasePlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Absent means no filter; the bool default cannot express that.
	var active *bool
	if raw, ok := req.GetArguments()["active"]; ok {
		if value, ok := raw.(bool); ok {
			active = &value
		}
	}

	summaries, err := s.planning.List(ctx, active)
	if err != nil {
		return errorResult(err)
	}
	if summaries == nil {
		summaries = []planning.PlanSummary{}
	}
	return jsonResult(map[string]any{
		"count": len(summaries),
		"plans": summaries,
	})
}

func (s *Server) handleDeleteBasePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return errorResult(err)
	}

	if err := s.planning.Delete(ctx, name); err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]any{
		"deleted": name,
	})
}

func (s *Server) handleCalculatePlanIO(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return errorResult(err)
	}
	exchange := req.GetString("exchange", defaultExchange)

	result, err := s.planning.PlanIO(ctx, name, exchange)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(result)
}

func (s *Server) handleGetVersion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"server":  ServerName,
		"version": s.version,
	})
}

func (s *Server) handleGetCacheInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"caches": s.catalogs.Info(),
	})
}

func (s *Server) handleGetMarketSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tickers := req.GetStringSlice("tickers", nil)
	exchange := req.GetString("exchange", defaultExchange)

	result, err := s.market.Summary(ctx, tickers, exchange)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(result)
}

func (s *Server) handleAnalyzeFillCost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticker, err := req.RequireString("ticker")
	if err != nil {
		return errorResult(err)
	}
	direction, err := req.RequireString("direction")
	if err != nil {
		return errorResult(err)
	}

	result, err := s.market.FillCost(ctx, appmarket.FillCostRequest{
		Ticker:    ticker,
		Exchange:  req.GetString("exchange", defaultExchange),
		Quantity:  req.GetInt("quantity", 0),
		Direction: direction,
	})
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(result)
}

func upperTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		if t := strings.ToUpper(strings.TrimSpace(ticker)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
