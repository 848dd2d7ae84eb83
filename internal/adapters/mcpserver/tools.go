package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the Prosperous Universe MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var toolGetMaterialInfo = mcp.NewTool("get_material_info",
	mcp.WithDescription(
		"Look up a Prosperous Universe material by ticker (e.g. 'RAT', 'DW') or material id. "+
			"Returns name, category, weight, and volume."),
	mcp.WithString("material",
		mcp.Required(),
		mcp.Description("Material ticker (e.g. 'RAT') or material id")),
)

var toolGetBuildingInfo = mcp.NewTool("get_building_info",
	mcp.WithDescription(
		"Look up a building by ticker (e.g. 'FP', 'EXT'). "+
			"Returns area cost, expertise, workforce headcounts, construction materials, and recipe names."),
	mcp.WithString("building",
		mcp.Required(),
		mcp.Description("Building ticker (e.g. 'FP') or building id")),
)

var toolSearchBuildings = mcp.NewTool("search_buildings",
	mcp.WithDescription(
		"Search buildings by construction material, expertise, or workforce tier. "+
			"All given filters must match. Returns matching building tickers and names."),
	mcp.WithArray("materials",
		mcp.Description("Construction material tickers the building must require (e.g. ['BSE', 'BDE'])"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("expertise",
		mcp.Description("Expertise category (e.g. 'FOOD_INDUSTRIES', 'METALLURGY')")),
	mcp.WithString("workforce",
		mcp.Description("Workforce tier the building must employ (e.g. 'Pioneers', 'Scientists')")),
)

var toolRefreshBuildingsCache = mcp.NewTool("refresh_buildings_cache",
	mcp.WithDescription(
		"Force a re-download of the building catalog from FIO, replacing the local cache."),
)

var toolGetRecipeInfo = mcp.NewTool("get_recipe_info",
	mcp.WithDescription(
		"Look up a production recipe by exact name (e.g. '1xGRN 1xALG=>10xRAT') or by output "+
			"ticker. An output ticker resolves to the recipe producing it; ambiguous tickers "+
			"list the candidates."),
	mcp.WithString("recipe",
		mcp.Required(),
		mcp.Description("Exact recipe name or an output material ticker (e.g. 'RAT')")),
)

var toolSearchRecipes = mcp.NewTool("search_recipes",
	mcp.WithDescription(
		"Search recipes by building, input materials, or output materials. "+
			"All given filters must match."),
	mcp.WithString("building",
		mcp.Description("Building ticker the recipe runs in (e.g. 'FP')")),
	mcp.WithArray("inputs",
		mcp.Description("Material tickers the recipe must consume"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("outputs",
		mcp.Description("Material tickers the recipe must produce"),
		mcp.Items(map[string]any{"type": "string"})),
)

var toolRefreshRecipesCache = mcp.NewTool("refresh_recipes_cache",
	mcp.WithDescription(
		"Force a re-download of the recipe catalog from FIO, replacing the local cache."),
)

var toolGetPlanetInfo = mcp.NewTool("get_planet_info",
	mcp.WithDescription(
		"Look up a planet by natural id (e.g. 'OT-580b') or name. Returns environment "+
			"(pressure, gravity, temperature, fertility, surface type) and extractable "+
			"resources with their concentration factors."),
	mcp.WithString("planet",
		mcp.Required(),
		mcp.Description("Planet natural id (e.g. 'OT-580b'), planet id, or name")),
)

var toolSearchPlanets = mcp.NewTool("search_planets",
	mcp.WithDescription(
		"Find planets whose deposits include all of the given materials (up to 4). "+
			"Optionally exclude planets carrying unwanted resources. Results list each "+
			"planet's top resources by concentration."),
	mcp.WithArray("materials",
		mcp.Required(),
		mcp.Description("Resource tickers every result must have (max 4, e.g. ['FEO', 'LST'])"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("exclude",
		mcp.Description("Resource tickers that disqualify a planet"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of planets to return (default 20)")),
	mcp.WithNumber("top_resources",
		mcp.Description("How many of each planet's richest resources to list (default 3)")),
)

var toolGetExchangePrices = mcp.NewTool("get_exchange_prices",
	mcp.WithDescription(
		"Fetch ask/bid quotes for materials on one or more commodity exchanges. "+
			"Pass exchange 'ALL' to query every exchange at once."),
	mcp.WithArray("tickers",
		mcp.Required(),
		mcp.Description("Material tickers to quote (e.g. ['RAT', 'DW'])"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("exchanges",
		mcp.Description("Exchange codes (AI1, CI1, CI2, IC1, NC1, NC2) or 'ALL'. Default AI1."),
		mcp.Items(map[string]any{"type": "string"})),
)

var toolCalculateBuildingCost = mcp.NewTool("calculate_building_cost",
	mcp.WithDescription(
		"Calculate the full construction bill for a building on a specific planet, "+
			"including environment-driven infrastructure (MCG/AEF, SEA/HSE, MGC/BL, INS/TSH). "+
			"Given an exchange, each material is priced at ask and totaled."),
	mcp.WithString("building",
		mcp.Required(),
		mcp.Description("Building ticker (e.g. 'FP')")),
	mcp.WithString("planet",
		mcp.Required(),
		mcp.Description("Planet natural id, planet id, or name")),
	mcp.WithString("exchange",
		mcp.Description("Exchange code to price materials against (e.g. 'AI1'). Omit for amounts only."),
		mcp.Enum("AI1", "CI1", "CI2", "IC1", "NC1", "NC2")),
)

var toolCalculateCOGM = mcp.NewTool("calculate_cogm",
	mcp.WithDescription(
		"Calculate the cost of goods manufactured for one recipe: daily input costs at ask, "+
			"workforce consumable costs, and the resulting per-unit cost. "+
			"self_consume diverts own production to the workforce instead of buying it."),
	mcp.WithString("recipe",
		mcp.Required(),
		mcp.Description("Exact recipe name or an output material ticker")),
	mcp.WithString("exchange",
		mcp.Description("Exchange code for pricing (default AI1)"),
		mcp.Enum("AI1", "CI1", "CI2", "IC1", "NC1", "NC2")),
	mcp.WithNumber("efficiency",
		mcp.Description("Production efficiency multiplier (default 1.0)")),
	mcp.WithBoolean("self_consume",
		mcp.Description("Feed the workforce from this recipe's own output where possible")),
)

var toolCalculateBaseIO = mcp.NewTool("calculate_base_io",
	mcp.WithDescription(
		"Calculate the net daily material flow of a whole base: production lines, workforce "+
			"consumption, extraction, habitation sufficiency, area budget, and the priced daily "+
			"bottom line. Unknown recipes or resources are reported per line without failing "+
			"the rest of the base."),
	mcp.WithArray("production",
		mcp.Required(),
		mcp.Description("Production lines: [{\"recipe\": \"1xGRN 1xALG=>10xRAT\", \"count\": 2, \"efficiency\": 1.0}]"),
		mcp.Items(map[string]any{"type": "object"})),
	mcp.WithArray("habitation",
		mcp.Description("Habitation buildings: [{\"building\": \"HB1\", \"count\": 2}]"),
		mcp.Items(map[string]any{"type": "object"})),
	mcp.WithArray("extraction",
		mcp.Description("Extraction lines: [{\"building\": \"EXT\", \"resource\": \"FEO\", \"count\": 1, \"efficiency\": 1.0}]"),
		mcp.Items(map[string]any{"type": "object"})),
	mcp.WithString("planet",
		mcp.Description("Planet the base sits on. Required when extraction lines are given.")),
	mcp.WithString("exchange",
		mcp.Description("Exchange code for pricing (default AI1)"),
		mcp.Enum("AI1", "CI1", "CI2", "IC1", "NC1", "NC2")),
	mcp.WithNumber("permits",
		mcp.Description("Base permits, which set the area limit (default 1)")),
)

var toolSaveBasePlan = mcp.NewTool("save_base_plan",
	mcp.WithDescription(
		"Save a named base plan: planet, habitation, production, and optional storage, "+
			"extraction, expertise, and notes. Unknown buildings or expertise produce warnings "+
			"but still save; missing fields or bad counts reject the plan. "+
			"Saving over an existing name requires overwrite=true."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Unique plan name")),
	mcp.WithString("planet",
		mcp.Required(),
		mcp.Description("Planet natural id or name the base sits on")),
	mcp.WithString("planet_name",
		mcp.Description("Human-readable planet name")),
	mcp.WithString("cogc_program",
		mcp.Description("Active COGC program on the planet, if any")),
	mcp.WithArray("habitation",
		mcp.Required(),
		mcp.Description("Habitation buildings: [{\"building\": \"HB1\", \"count\": 2}]"),
		mcp.Items(map[string]any{"type": "object"})),
	mcp.WithArray("production",
		mcp.Required(),
		mcp.Description("Production lines: [{\"recipe\": \"...\", \"count\": 1, \"efficiency\": 1.0}]"),
		mcp.Items(map[string]any{"type": "object"})),
	mcp.WithArray("storage",
		mcp.Description("Storage buildings: [{\"building\": \"STO\", \"count\": 1}]"),
		mcp.Items(map[string]any{"type": "object"})),
	mcp.WithArray("extraction",
		mcp.Description("Extraction lines: [{\"building\": \"EXT\", \"resource\": \"FEO\", \"count\": 1}]"),
		mcp.Items(map[string]any{"type": "object"})),
	mcp.WithObject("expertise",
		mcp.Description("Expertise levels by category: {\"AGRICULTURE\": 3}")),
	mcp.WithString("notes",
		mcp.Description("Free-form notes")),
	mcp.WithBoolean("active",
		mcp.Description("Mark the plan as backing a real in-game base")),
	mcp.WithBoolean("overwrite",
		mcp.Description("Replace an existing plan with the same name")),
)

var toolGetBasePlan = mcp.NewTool("get_base_plan",
	mcp.WithDescription("Retrieve a saved base plan by name."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Plan name")),
)

var toolListBasePlans = mcp.NewTool("list_base_plans",
	mcp.WithDescription(
		"List saved base plans, most recently updated first. "+
			"Optionally filter to active or draft plans only."),
	mcp.WithBoolean("active",
		mcp.Description("true for active plans only, false for drafts only. Omit for all.")),
)

var toolDeleteBasePlan = mcp.NewTool("delete_base_plan",
	mcp.WithDescription("Delete a saved base plan by name."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Plan name")),
)

var toolCalculatePlanIO = mcp.NewTool("calculate_plan_io",
	mcp.WithDescription(
		"Run the daily base I/O calculation against a saved plan, pricing the net flow "+
			"on one exchange."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Saved plan name")),
	mcp.WithString("exchange",
		mcp.Description("Exchange code for pricing (default AI1)"),
		mcp.Enum("AI1", "CI1", "CI2", "IC1", "NC1", "NC2")),
)

var toolGetVersion = mcp.NewTool("get_version",
	mcp.WithDescription("Report the server name and version."),
)

var toolGetCacheInfo = mcp.NewTool("get_cache_info",
	mcp.WithDescription(
		"Report the state of the local FIO catalog caches: entry counts, validity, "+
			"and when each was last refreshed."),
)

var toolGetMarketSummary = mcp.NewTool("get_market_summary",
	mcp.WithDescription(
		"Snapshot the market for one or more materials on an exchange: bid/ask with depth, "+
			"spread, supply and demand, market maker prices, and liquidity warnings "+
			"(wide spread, thin depth, supply/demand imbalance, MM proximity)."),
	mcp.WithArray("tickers",
		mcp.Required(),
		mcp.Description("Material tickers to analyze (e.g. ['RAT', 'DW'])"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("exchange",
		mcp.Description("Exchange code (default AI1)"),
		mcp.Enum("AI1", "CI1", "CI2", "IC1", "NC1", "NC2")),
)

var toolAnalyzeFillCost = mcp.NewTool("analyze_fill_cost",
	mcp.WithDescription(
		"Walk the order book to see what buying or selling a quantity would actually cost: "+
			"average and worst fill price, per-level fills, limit price recommendations, and "+
			"partial fill warnings when depth runs out."),
	mcp.WithString("ticker",
		mcp.Required(),
		mcp.Description("Material ticker (e.g. 'RAT')")),
	mcp.WithString("exchange",
		mcp.Description("Exchange code (default AI1)"),
		mcp.Enum("AI1", "CI1", "CI2", "IC1", "NC1", "NC2")),
	mcp.WithNumber("quantity",
		mcp.Required(),
		mcp.Description("Units to fill")),
	mcp.WithString("direction",
		mcp.Required(),
		mcp.Description("'buy' walks sell orders cheapest first; 'sell' walks buy orders highest first"),
		mcp.Enum("buy", "sell")),
)
