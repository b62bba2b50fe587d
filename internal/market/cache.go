package market

import (
	"strings"
	"sync"
	"time"
)

// Cache keeps the latest snapshot per symbol. The mutex guards the map;
// snapshots themselves are replaced wholesale on publish so readers never see
// a half-written update.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*Snapshot
}

func NewCache() *Cache {
	return &Cache{items: make(map[string]*Snapshot)}
}

// Publish replaces the symbol's snapshot.
func (c *Cache) Publish(symbol string, snap *Snapshot) {
	key := normalize(symbol)
	c.mu.Lock()
	c.items[key] = snap
	c.mu.Unlock()
}

// PublishBar derives a snapshot from a bar and publishes it, using the bar
// close as the last trade price.
func (c *Cache) PublishBar(symbol string, bar Bar) *Snapshot {
	snap := &Snapshot{LastPrice: bar.Close, Bar: &bar, UpdatedAt: bar.Time}
	c.Publish(symbol, snap)
	return snap
}

// Get returns the latest snapshot for symbol, or nil when none was published.
func (c *Cache) Get(symbol string) *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[normalize(symbol)]
}

// Symbols lists every symbol with a published snapshot.
func (c *Cache) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.items))
	for s := range c.items {
		out = append(out, s)
	}
	return out
}

// LastUpdate returns the timestamp of the symbol's snapshot, zero when absent.
func (c *Cache) LastUpdate(symbol string) time.Time {
	snap := c.Get(symbol)
	if snap == nil {
		return time.Time{}
	}
	return snap.UpdatedAt
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
