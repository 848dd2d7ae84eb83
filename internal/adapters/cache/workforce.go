package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
)

// WorkforceCache holds per-tier consumable needs, keyed by normalized
// workforce type ("PIONEER", "SETTLER", ...).
type WorkforceCache struct {
	store fileStore

	mu    sync.RWMutex
	needs map[string][]economy.WorkforceNeed
}

func NewWorkforceCache(dir string, ttl time.Duration) *WorkforceCache {
	return &WorkforceCache{store: newFileStore(dir, "workforce.json", ttl)}
}

func (c *WorkforceCache) Valid() bool {
	return c.store.valid()
}

func (c *WorkforceCache) Age() (time.Duration, bool) {
	return c.store.age()
}

// Needs returns the consumable needs for a workforce tier, nil if the tier
// is unknown.
func (c *WorkforceCache) Needs(workforceType string) []economy.WorkforceNeed {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.needs[strings.ToUpper(workforceType)]
}

func (c *WorkforceCache) Refresh(needs map[string][]economy.WorkforceNeed) error {
	if err := c.store.write(needs); err != nil {
		return err
	}
	c.index(needs)
	return nil
}

func (c *WorkforceCache) Invalidate() error {
	c.mu.Lock()
	c.needs = nil
	c.mu.Unlock()
	return c.store.remove()
}

// Count returns the number of cached workforce tiers.
func (c *WorkforceCache) Count() int {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.needs)
}

func (c *WorkforceCache) ensureLoaded() {
	c.mu.RLock()
	loaded := c.needs != nil
	c.mu.RUnlock()
	if loaded || !c.store.valid() {
		return
	}

	var needs map[string][]economy.WorkforceNeed
	if err := c.store.read(&needs); err != nil {
		return
	}
	c.index(needs)
}

func (c *WorkforceCache) index(needs map[string][]economy.WorkforceNeed) {
	normalized := make(map[string][]economy.WorkforceNeed, len(needs))
	for tier, entries := range needs {
		normalized[strings.ToUpper(tier)] = entries
	}

	c.mu.Lock()
	c.needs = normalized
	c.mu.Unlock()
}
