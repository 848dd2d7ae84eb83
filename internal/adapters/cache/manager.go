package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hyposcaler-bot/prun-mcp/internal/adapters/metrics"
	"github.com/hyposcaler-bot/prun-mcp/internal/application/common"
	appeconomy "github.com/hyposcaler-bot/prun-mcp/internal/application/economy"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

// Cache type names accepted by Refresh and Invalidate.
const (
	TypeMaterials = "materials"
	TypeBuildings = "buildings"
	TypeRecipes   = "recipes"
	TypeWorkforce = "workforce"
)

// Types lists the cache type names in display order.
var Types = []string{TypeMaterials, TypeBuildings, TypeRecipes, TypeWorkforce}

// Fetcher pulls fresh catalog data from FIO.
type Fetcher interface {
	AllMaterials(ctx context.Context) ([]economy.Material, error)
	AllBuildings(ctx context.Context) ([]economy.Building, error)
	AllRecipes(ctx context.Context) ([]economy.Recipe, error)
	WorkforceNeeds(ctx context.Context) (map[string][]economy.WorkforceNeed, error)
}

// Manager lazily populates the catalog caches from a Fetcher. It is the
// DataSource the application services run against.
type Manager struct {
	fetcher   Fetcher
	materials *MaterialsCache
	buildings *BuildingsCache
	recipes   *RecipesCache
	workforce *WorkforceCache

	// Serializes refreshes so a cold start doesn't fetch the same
	// catalog several times.
	mu sync.Mutex
}

func NewManager(fetcher Fetcher, dir string, ttl time.Duration) *Manager {
	return &Manager{
		fetcher:   fetcher,
		materials: NewMaterialsCache(dir, ttl),
		buildings: NewBuildingsCache(dir, ttl),
		recipes:   NewRecipesCache(dir, ttl),
		workforce: NewWorkforceCache(dir, ttl),
	}
}

// Materials returns the material catalog, refreshing it from FIO if stale.
func (m *Manager) Materials(ctx context.Context) (appeconomy.MaterialCatalog, error) {
	if err := m.ensure(ctx, TypeMaterials); err != nil {
		return nil, err
	}
	return m.materials, nil
}

// Buildings returns the building catalog, refreshing it from FIO if stale.
func (m *Manager) Buildings(ctx context.Context) (appeconomy.BuildingCatalog, error) {
	if err := m.ensure(ctx, TypeBuildings); err != nil {
		return nil, err
	}
	return m.buildings, nil
}

// Recipes returns the recipe catalog, refreshing it from FIO if stale.
func (m *Manager) Recipes(ctx context.Context) (appeconomy.RecipeCatalog, error) {
	if err := m.ensure(ctx, TypeRecipes); err != nil {
		return nil, err
	}
	return m.recipes, nil
}

// Workforce returns the workforce needs catalog, refreshing it if stale.
func (m *Manager) Workforce(ctx context.Context) (appeconomy.WorkforceCatalog, error) {
	if err := m.ensure(ctx, TypeWorkforce); err != nil {
		return nil, err
	}
	return m.workforce, nil
}

// BuildingSearch exposes the building search index, ensuring freshness.
func (m *Manager) BuildingSearch(ctx context.Context, filter BuildingFilter) ([]BuildingSummary, error) {
	if err := m.ensure(ctx, TypeBuildings); err != nil {
		return nil, err
	}
	return m.buildings.Search(filter), nil
}

// RecipeSearch exposes the recipe search index, ensuring freshness.
func (m *Manager) RecipeSearch(ctx context.Context, filter RecipeFilter) ([]*economy.Recipe, error) {
	if err := m.ensure(ctx, TypeRecipes); err != nil {
		return nil, err
	}
	return m.recipes.Search(filter), nil
}

// Refresh force-fetches one cache type and returns the new entry count.
func (m *Manager) Refresh(ctx context.Context, cacheType string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.refreshLocked(ctx, cacheType); err != nil {
		return 0, err
	}
	return m.count(cacheType)
}

// Invalidate deletes one cache type's backing file and in-memory index.
func (m *Manager) Invalidate(cacheType string) error {
	switch cacheType {
	case TypeMaterials:
		return m.materials.Invalidate()
	case TypeBuildings:
		return m.buildings.Invalidate()
	case TypeRecipes:
		return m.recipes.Invalidate()
	case TypeWorkforce:
		return m.workforce.Invalidate()
	}
	return fmt.Errorf("unknown cache type %q, valid: %v", cacheType, Types)
}

// Info describes one cache's state for diagnostics.
type Info struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Valid     bool   `json:"valid"`
	Refreshed string `json:"refreshed"`
}

// Info reports the state of every cache. Ages are humanized ("3 hours
// ago"); caches that were never populated report "never".
func (m *Manager) Info() []Info {
	infos := make([]Info, 0, len(Types))
	for _, cacheType := range Types {
		info := Info{Name: cacheType, Refreshed: "never"}
		switch cacheType {
		case TypeMaterials:
			info.Count = m.materials.Count()
			info.Valid = m.materials.Valid()
			if age, ok := m.materials.Age(); ok {
				info.Refreshed = humanize.Time(time.Now().Add(-age))
			}
		case TypeBuildings:
			info.Count = m.buildings.Count()
			info.Valid = m.buildings.Valid()
			if age, ok := m.buildings.Age(); ok {
				info.Refreshed = humanize.Time(time.Now().Add(-age))
			}
		case TypeRecipes:
			info.Count = m.recipes.Count()
			info.Valid = m.recipes.Valid()
			if age, ok := m.recipes.Age(); ok {
				info.Refreshed = humanize.Time(time.Now().Add(-age))
			}
		case TypeWorkforce:
			info.Count = m.workforce.Count()
			info.Valid = m.workforce.Valid()
			if age, ok := m.workforce.Age(); ok {
				info.Refreshed = humanize.Time(time.Now().Add(-age))
			}
		}
		infos = append(infos, info)
	}
	return infos
}

func (m *Manager) ensure(ctx context.Context, cacheType string) error {
	if m.valid(cacheType) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have refreshed while we waited for the lock.
	if m.valid(cacheType) {
		return nil
	}
	return m.refreshLocked(ctx, cacheType)
}

func (m *Manager) valid(cacheType string) bool {
	switch cacheType {
	case TypeMaterials:
		return m.materials.Valid()
	case TypeBuildings:
		return m.buildings.Valid()
	case TypeRecipes:
		return m.recipes.Valid()
	case TypeWorkforce:
		return m.workforce.Valid()
	}
	return false
}

func (m *Manager) refreshLocked(ctx context.Context, cacheType string) error {
	logger := common.LoggerFromContext(ctx)

	var err error
	switch cacheType {
	case TypeMaterials:
		var materials []economy.Material
		if materials, err = m.fetcher.AllMaterials(ctx); err == nil {
			err = m.materials.Refresh(materials)
		}
	case TypeBuildings:
		var buildings []economy.Building
		if buildings, err = m.fetcher.AllBuildings(ctx); err == nil {
			err = m.buildings.Refresh(buildings)
		}
	case TypeRecipes:
		var recipes []economy.Recipe
		if recipes, err = m.fetcher.AllRecipes(ctx); err == nil {
			err = m.recipes.Refresh(recipes)
		}
	case TypeWorkforce:
		var needs map[string][]economy.WorkforceNeed
		if needs, err = m.fetcher.WorkforceNeeds(ctx); err == nil {
			err = m.workforce.Refresh(needs)
		}
	default:
		return fmt.Errorf("unknown cache type %q, valid: %v", cacheType, Types)
	}

	if err != nil {
		return fmt.Errorf("failed to refresh %s cache: %w", cacheType, err)
	}

	count, _ := m.count(cacheType)
	logger.Log("info", "Refreshed cache", map[string]interface{}{
		"cache": cacheType,
		"count": count,
	})
	metrics.RecordCacheRefresh(cacheType, count)
	return nil
}

func (m *Manager) count(cacheType string) (int, error) {
	switch cacheType {
	case TypeMaterials:
		return m.materials.Count(), nil
	case TypeBuildings:
		return m.buildings.Count(), nil
	case TypeRecipes:
		return m.recipes.Count(), nil
	case TypeWorkforce:
		return m.workforce.Count(), nil
	}
	return 0, fmt.Errorf("unknown cache type %q, valid: %v", cacheType, Types)
}
