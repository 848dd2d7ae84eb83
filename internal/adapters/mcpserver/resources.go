package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

// Static game data exposed as MCP resources. Unlike the tools these never
// hit FIO; the values are fixed game constants.

var resourceWorkforceTypes = mcp.NewResource(
	"workforce://types",
	"Workforce tiers",
	mcp.WithResourceDescription("The five workforce tiers in tier order, lowest to highest."),
	mcp.WithMIMEType("application/json"),
)

var resourceWorkforceHabitation = mcp.NewResource(
	"workforce://habitation",
	"Habitation capacities",
	mcp.WithResourceDescription("Housed workforce per habitation building, by tier."),
	mcp.WithMIMEType("application/json"),
)

var resourceExchangeList = mcp.NewResource(
	"exchange://list",
	"Commodity exchanges",
	mcp.WithResourceDescription("Commodity exchange codes and their station names."),
	mcp.WithMIMEType("application/json"),
)

var resourceExtractionBuildings = mcp.NewResource(
	"extraction://buildings",
	"Extraction buildings",
	mcp.WithResourceDescription("The fixed extraction building specifications: resource type, base multiplier, workforce, and area."),
	mcp.WithMIMEType("application/json"),
)

func (s *Server) registerResources() {
	s.mcp.AddResource(resourceWorkforceTypes, staticResource("workforce://types", economy.WorkforceTypes))
	s.mcp.AddResource(resourceWorkforceHabitation, staticResource("workforce://habitation", economy.HabitationCapacity))
	s.mcp.AddResource(resourceExchangeList, staticResource("exchange://list", economy.Exchanges))
	s.mcp.AddResource(resourceExtractionBuildings, staticResource("extraction://buildings", economy.ExtractionBuildings))
}

// staticResource builds a read handler serving one fixed value as JSON.
func staticResource(uri string, value any) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode resource %s: %w", uri, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
