// Package mcpserver exposes the economy services over the Model Context
// Protocol: catalog lookups, calculators, base plan storage, and market
// analysis as tools, plus static game data as resources.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/cache"
	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/metrics"
	"github.com/hyposcaler-bot/prun-mcp/internal/application/common"
	appeconomy "github.com/hyposcaler-bot/prun-mcp/internal/application/economy"
	appmarket "github.com/hyposcaler-bot/prun-mcp/internal/application/market"
	appplanning "github.com/hyposcaler-bot/prun-mcp/internal/application/planning"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
	"github.com/hyposcaler-bot/prun-mcp/pkg/utils"
)

// ServerName identifies this server to MCP clients.
const ServerName = "prun-mcp"

const defaultExchange = "AI1"

// PlanetSource resolves planets and searches them by deposit.
type PlanetSource interface {
	Planet(ctx context.Context, identifier string) (*economy.Planet, error)
	SearchPlanets(ctx context.Context, materials []string) ([]economy.Planet, error)
}

// Deps are the services the MCP server fronts.
type Deps struct {
	Economy  *appeconomy.Service
	Planning *appplanning.Service
	Market   *appmarket.Service
	Catalogs *cache.Manager
	Planets  PlanetSource
	Logger   common.Logger
	Version  string
}

// Server wires the application services to MCP tools and resources.
type Server struct {
	economy  *appeconomy.Service
	planning *appplanning.Service
	market   *appmarket.Service
	catalogs *cache.Manager
	planets  PlanetSource
	logger   common.Logger
	version  string

	mcp *server.MCPServer
}

// NewServer builds the MCP server with every tool and resource registered.
func NewServer(deps Deps) *Server {
	s := &Server{
		economy:  deps.Economy,
		planning: deps.Planning,
		market:   deps.Market,
		catalogs: deps.Catalogs,
		planets:  deps.Planets,
		logger:   deps.Logger,
		version:  deps.Version,
	}
	if s.logger == nil {
		s.logger = common.NoOpLogger()
	}

	s.mcp = server.NewMCPServer(ServerName, s.version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithInstructions(
			"Prosperous Universe base planning tools backed by live FIO data: "+
				"material, building, recipe, and planet lookups; construction cost, "+
				"COGM, and base I/O calculators; base plan storage; and exchange "+
				"market analysis."),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// Serve runs the server over stdio until the client disconnects.
func (s *Server) Serve() error {
	s.logger.Log("info", "MCP server starting", map[string]interface{}{
		"name":    ServerName,
		"version": s.version,
	})
	return server.ServeStdio(s.mcp)
}

// MCPServer exposes the underlying server, mainly for in-process tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) registerTools() {
	s.mcp.AddTool(toolGetMaterialInfo, s.instrument("get_material_info", s.handleGetMaterialInfo))
	s.mcp.AddTool(toolGetBuildingInfo, s.instrument("get_building_info", s.handleGetBuildingInfo))
	s.mcp.AddTool(toolSearchBuildings, s.instrument("search_buildings", s.handleSearchBuildings))
	s.mcp.AddTool(toolRefreshBuildingsCache, s.instrument("refresh_buildings_cache", s.refreshCacheHandler(cache.TypeBuildings)))
	s.mcp.AddTool(toolGetRecipeInfo, s.instrument("get_recipe_info", s.handleGetRecipeInfo))
	s.mcp.AddTool(toolSearchRecipes, s.instrument("search_recipes", s.handleSearchRecipes))
	s.mcp.AddTool(toolRefreshRecipesCache, s.instrument("refresh_recipes_cache", s.refreshCacheHandler(cache.TypeRecipes)))
	s.mcp.AddTool(toolGetPlanetInfo, s.instrument("get_planet_info", s.handleGetPlanetInfo))
	s.mcp.AddTool(toolSearchPlanets, s.instrument("search_planets", s.handleSearchPlanets))
	s.mcp.AddTool(toolGetExchangePrices, s.instrument("get_exchange_prices", s.handleGetExchangePrices))
	s.mcp.AddTool(toolCalculateBuildingCost, s.instrument("calculate_building_cost", s.handleCalculateBuildingCost))
	s.mcp.AddTool(toolCalculateCOGM, s.instrument("calculate_cogm", s.handleCalculateCOGM))
	s.mcp.AddTool(toolCalculateBaseIO, s.instrument("calculate_base_io", s.handleCalculateBaseIO))
	s.mcp.AddTool(toolSaveBasePlan, s.instrument("save_base_plan", s.handleSaveBasePlan))
	s.mcp.AddTool(toolGetBasePlan, s.instrument("get_base_plan", s.handleGetBasePlan))
	s.mcp.AddTool(toolListBasePlans, s.instrument("list_base_plans", s.handleListBasePlans))
	s.mcp.AddTool(toolDeleteBasePlan, s.instrument("delete_base_plan", s.handleDeleteBasePlan))
	s.mcp.AddTool(toolCalculatePlanIO, s.instrument("calculate_plan_io", s.handleCalculatePlanIO))
	s.mcp.AddTool(toolGetVersion, s.instrument("get_version", s.handleGetVersion))
	s.mcp.AddTool(toolGetCacheInfo, s.instrument("get_cache_info", s.handleGetCacheInfo))
	s.mcp.AddTool(toolGetMarketSummary, s.instrument("get_market_summary", s.handleGetMarketSummary))
	s.mcp.AddTool(toolAnalyzeFillCost, s.instrument("analyze_fill_cost", s.handleAnalyzeFillCost))
}

// instrument injects the server logger into the request context and records
// invocation metrics around the handler.
func (s *Server) instrument(name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = common.WithLogger(ctx, s.logger)
		started := time.Now()

		result, err := handler(ctx, req)

		isError := err != nil || (result != nil && result.IsError)
		duration := time.Since(started)
		metrics.RecordToolInvocation(name, isError, duration.Seconds())

		level := "debug"
		if isError {
			level = "warn"
		}
		s.logger.Log(level, "Tool invoked", map[string]interface{}{
			"tool":        name,
			"duration_ms": duration.Milliseconds(),
			"error":       isError,
		})
		return result, err
	}
}

// jsonResult renders a tool response: marshal, prettify display names, and
// indent for the client.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode tool result: %w", err)
	}
	pretty, err := json.MarshalIndent(utils.PrettifyNames(decoded), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(pretty)), nil
}

// errorResult reports a failed tool call to the client. Lookup and
// validation failures are tool-level errors, not protocol errors; the
// conversation continues with the message in hand.
func errorResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
