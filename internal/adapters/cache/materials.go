package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

// MaterialsCache indexes the material catalog by ticker (upper-cased) and
// material id (lower-cased).
type MaterialsCache struct {
	store fileStore

	mu       sync.RWMutex
	all      []*economy.Material
	byTicker map[string]*economy.Material
	byID     map[string]*economy.Material
}

func NewMaterialsCache(dir string, ttl time.Duration) *MaterialsCache {
	return &MaterialsCache{store: newFileStore(dir, "materials.json", ttl)}
}

// Valid reports whether the backing file exists and is within TTL.
func (c *MaterialsCache) Valid() bool {
	return c.store.valid()
}

// Age returns how long ago the cache was last refreshed.
func (c *MaterialsCache) Age() (time.Duration, bool) {
	return c.store.age()
}

// Material resolves a material by ticker or material id.
func (c *MaterialsCache) Material(identifier string) (*economy.Material, bool) {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()

	if material, ok := c.byTicker[strings.ToUpper(identifier)]; ok {
		return material, true
	}
	material, ok := c.byID[strings.ToLower(identifier)]
	return material, ok
}

// AllMaterials returns every cached material.
func (c *MaterialsCache) AllMaterials() []*economy.Material {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.all
}

// MaterialTickers returns all tickers, sorted.
func (c *MaterialsCache) MaterialTickers() []string {
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

// Refresh replaces the cache contents and rewrites the backing file.
func (c *MaterialsCache) Refresh(materials []economy.Material) error {
	if err := c.store.write(materials); err != nil {
		return err
	}
	c.index(materials)
	return nil
}

// Invalidate drops the in-memory index and deletes the backing file.
func (c *MaterialsCache) Invalidate() error {
	c.mu.Lock()
	c.all = nil
	c.byTicker = nil
	c.byID = nil
	c.mu.Unlock()
	return c.store.remove()
}

// Count returns the number of cached materials.
func (c *MaterialsCache) Count() int {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

func (c *MaterialsCache) ensureLoaded() {
	c.mu.RLock()
	loaded := c.byTicker != nil
	c.mu.RUnlock()
	if loaded || !c.store.valid() {
		return
	}

	var materials []economy.Material
	if err := c.store.read(&materials); err != nil {
		return
	}
	c.index(materials)
}

func (c *MaterialsCache) index(materials []economy.Material) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.all = make([]*economy.Material, 0, len(materials))
	c.byTicker = make(map[string]*economy.Material, len(materials))
	c.byID = make(map[string]*economy.Material, len(materials))
	for i := range materials {
		material := &materials[i]
		if material.Ticker == "" {
			continue
		}
		c.all = append(c.all, material)
		c.byTicker[strings.ToUpper(material.Ticker)] = material
		if material.MaterialID != "" {
			c.byID[strings.ToLower(material.MaterialID)] = material
		}
	}
}
