package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

// BuildingFilter narrows a building search. All set fields must match.
type BuildingFilter struct {
	// Materials that must all appear in the construction costs.
	Materials []string
	// Expertise category, case-insensitive.
	Expertise string
	// Workforce tier that must have a positive headcount.
	Workforce string
}

// BuildingSummary is the compact search result: ticker and name only.
type BuildingSummary struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// BuildingsCache indexes the building catalog by ticker and building id.
type BuildingsCache struct {
	store fileStore

	mu       sync.RWMutex
	all      []*economy.Building
	byTicker map[string]*economy.Building
	byID     map[string]*economy.Building
}

func NewBuildingsCache(dir string, ttl time.Duration) *BuildingsCache {
	return &BuildingsCache{store: newFileStore(dir, "buildings.json", ttl)}
}

func (c *BuildingsCache) Valid() bool {
	return c.store.valid()
}

func (c *BuildingsCache) Age() (time.Duration, bool) {
	return c.store.age()
}

// Building resolves a building by ticker or building id.
func (c *BuildingsCache) Building(identifier string) (*economy.Building, bool) {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()

	if building, ok := c.byTicker[strings.ToUpper(identifier)]; ok {
		return building, true
	}
	building, ok := c.byID[strings.ToLower(identifier)]
	return building, ok
}

func (c *BuildingsCache) AllBuildings() []*economy.Building {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.all
}

// BuildingTickers returns all tickers, sorted.
func (c *BuildingsCache) BuildingTickers() []string {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickers := make([]string, 0, len(c.byTicker))
	for ticker := range c.byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}

// Search returns compact summaries of buildings matching the filter,
// sorted by ticker. Material filters use AND logic.
func (c *BuildingsCache) Search(filter BuildingFilter) []BuildingSummary {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()

	var results []BuildingSummary
	for _, building := range c.all {
		if !matchesBuildingFilter(building, filter) {
			continue
		}
		results = append(results, BuildingSummary{Ticker: building.Ticker, Name: building.Name})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Ticker < results[j].Ticker })
	return results
}

func matchesBuildingFilter(building *economy.Building, filter BuildingFilter) bool {
	if len(filter.Materials) > 0 {
		costs := make(map[string]bool, len(building.Costs))
		for _, cost := range building.Costs {
			costs[strings.ToUpper(cost.Ticker)] = true
		}
		for _, ticker := range filter.Materials {
			if !costs[strings.ToUpper(ticker)] {
				return false
			}
		}
	}

	if filter.Expertise != "" && !strings.EqualFold(building.Expertise, filter.Expertise) {
		return false
	}

	if filter.Workforce != "" {
		headcount := 0
		switch economy.NormalizeWorkforceType(strings.TrimSpace(filter.Workforce)) {
		case "PIONEER":
			headcount = building.Pioneers
		case "SETTLER":
			headcount = building.Settlers
		case "TECHNICIAN":
			headcount = building.Technicians
		case "ENGINEER":
			headcount = building.Engineers
		case "SCIENTIST":
			headcount = building.Scientists
		}
		if headcount <= 0 {
			return false
		}
	}

	return true
}

func (c *BuildingsCache) Refresh(buildings []economy.Building) error {
	if err := c.store.write(buildings); err != nil {
		return err
	}
	c.index(buildings)
	return nil
}

func (c *BuildingsCache) Invalidate() error {
	c.mu.Lock()
	c.all = nil
	c.byTicker = nil
	c.byID = nil
	c.mu.Unlock()
	return c.store.remove()
}

func (c *BuildingsCache) Count() int {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

func (c *BuildingsCache) ensureLoaded() {
	c.mu.RLock()
	loaded := c.byTicker != nil
	c.mu.RUnlock()
	if loaded || !c.store.valid() {
		return
	}

	var buildings []economy.Building
	if err := c.store.read(&buildings); err != nil {
		return
	}
	c.index(buildings)
}

func (c *BuildingsCache) index(buildings []economy.Building) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.all = make([]*economy.Building, 0, len(buildings))
	c.byTicker = make(map[string]*economy.Building, len(buildings))
	c.byID = make(map[string]*economy.Building, len(buildings))
	for i := range buildings {
		building := &buildings[i]
		if building.Ticker == "" {
			continue
		}
		c.all = append(c.all, building)
		c.byTicker[strings.ToUpper(building.Ticker)] = building
		if building.BuildingID != "" {
			c.byID[strings.ToLower(building.BuildingID)] = building
		}
	}
}
