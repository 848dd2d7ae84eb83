package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

// RecipeFilter narrows a recipe search. Input and output filters use AND
// logic: a recipe must use or produce every listed ticker.
type RecipeFilter struct {
	Building string
	Inputs   []string
	Outputs  []string
}

// RecipesCache indexes the recipe catalog by exact name and by output
// ticker.
type RecipesCache struct {
	store fileStore

	mu       sync.RWMutex
	all      []*economy.Recipe
	byName   map[string]*economy.Recipe
	byOutput map[string][]*economy.Recipe
}

func NewRecipesCache(dir string, ttl time.Duration) *RecipesCache {
	return &RecipesCache{store: newFileStore(dir, "recipes.json", ttl)}
}

func (c *RecipesCache) Valid() bool {
	return c.store.valid()
}

func (c *RecipesCache) Age() (time.Duration, bool) {
	return c.store.age()
}

// RecipeByName resolves a recipe by its exact name.
func (c *RecipesCache) RecipeByName(name string) (*economy.Recipe, bool) {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	recipe, ok := c.byName[name]
	return recipe, ok
}

// RecipesByOutput returns every recipe producing the given material.
func (c *RecipesCache) RecipesByOutput(ticker string) []*economy.Recipe {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byOutput[strings.ToUpper(ticker)]
}

func (c *RecipesCache) AllRecipes() []*economy.Recipe {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.all
}

// RecipeNames returns every recipe name, sorted.
func (c *RecipesCache) RecipeNames() []string {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search returns recipes matching the filter, in catalog order.
func (c *RecipesCache) Search(filter RecipeFilter) []*economy.Recipe {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()

	var results []*economy.Recipe
	for _, recipe := range c.all {
		if filter.Building != "" && !strings.EqualFold(recipe.BuildingTicker, filter.Building) {
			continue
		}
		if !containsAllTickers(recipe.Inputs, filter.Inputs) {
			continue
		}
		if !containsAllTickers(recipe.Outputs, filter.Outputs) {
			continue
		}
		results = append(results, recipe)
	}
	return results
}

func containsAllTickers(items []economy.RecipeItem, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	present := make(map[string]bool, len(items))
	for _, item := range items {
		present[strings.ToUpper(item.Ticker)] = true
	}
	for _, ticker := range wanted {
		if !present[strings.ToUpper(ticker)] {
			return false
		}
	}
	return true
}

func (c *RecipesCache) Refresh(recipes []economy.Recipe) error {
	if err := c.store.write(recipes); err != nil {
		return err
	}
	c.index(recipes)
	return nil
}

func (c *RecipesCache) Invalidate() error {
	c.mu.Lock()
	c.all = nil
	c.byName = nil
	c.byOutput = nil
	c.mu.Unlock()
	return c.store.remove()
}

func (c *RecipesCache) Count() int {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

func (c *RecipesCache) ensureLoaded() {
	c.mu.RLock()
	loaded := c.byName != nil
	c.mu.RUnlock()
	if loaded || !c.store.valid() {
		return
	}

	var recipes []economy.Recipe
	if err := c.store.read(&recipes); err != nil {
		return
	}
	c.index(recipes)
}

func (c *RecipesCache) index(recipes []economy.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.all = make([]*economy.Recipe, 0, len(recipes))
	c.byName = make(map[string]*economy.Recipe, len(recipes))
	c.byOutput = make(map[string][]*economy.Recipe)
	for i := range recipes {
		recipe := &recipes[i]
		c.all = append(c.all, recipe)
		if recipe.Name != "" {
			c.byName[recipe.Name] = recipe
		}
		for _, output := range recipe.Outputs {
			if ticker := strings.ToUpper(output.Ticker); ticker != "" {
				c.byOutput[ticker] = append(c.byOutput[ticker], recipe)
			}
		}
	}
}
