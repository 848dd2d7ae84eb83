package economy

import (
	"context"

	domain "github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

// MaterialCatalog is a resolved, in-memory view over the material data set.
type MaterialCatalog interface {
	Material(identifier string) (*domain.Material, bool)
	AllMaterials() []*domain.Material
	MaterialTickers() []string
}

// BuildingCatalog is a resolved, in-memory view over the building data set.
type BuildingCatalog interface {
	Building(identifier string) (*domain.Building, bool)
	AllBuildings() []*domain.Building
	BuildingTickers() []string
}

// RecipeCatalog is a resolved, in-memory view over the recipe data set.
type RecipeCatalog interface {
	RecipeByName(name string) (*domain.Recipe, bool)
	RecipesByOutput(ticker string) []*domain.Recipe
	AllRecipes() []*domain.Recipe
	RecipeNames() []string
}

// WorkforceCatalog returns consumable needs per normalized workforce tier.
type WorkforceCatalog interface {
	Needs(workforceType string) []domain.WorkforceNeed
}

// DataSource hands out catalogs, refreshing stale backing data as needed.
// Implementations may hit the network on a cold call; catalogs themselves
// are cheap after that.
type DataSource interface {
	Materials(ctx context.Context) (MaterialCatalog, error)
	Buildings(ctx context.Context) (BuildingCatalog, error)
	Recipes(ctx context.Context) (RecipeCatalog, error)
	Workforce(ctx context.Context) (WorkforceCatalog, error)
}
