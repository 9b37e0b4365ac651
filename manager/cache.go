package manager

import (
	"sync"

	"github.com/katalvlaran/reconstruct/relation"
)

// CacheStats reports hit/miss counters for one interning cache.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// HitRate returns Hits/(Hits+Misses), or 0 if the cache has never been
// queried.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// relationCache interns *relation.Relation values by canonical print
// name, so structurally identical relations pulled in by different
// models share one underlying Relation — and therefore one cached
// Marginal projection (relation.Relation.Marginal memoizes per
// instance).
type relationCache struct {
	mu    sync.Mutex
	byKey map[string]*relation.Relation
	stats CacheStats
}

func newRelationCache() *relationCache {
	return &relationCache{byKey: make(map[string]*relation.Relation)}
}

// intern returns the cached Relation with r's canonical name if one
// exists, otherwise stores and returns r itself.
func (c *relationCache) intern(r *relation.Relation) *relation.Relation {
	key := r.PrintName()
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.byKey[key]; ok {
		c.stats.Hits++
		return cached
	}
	c.stats.Misses++
	c.byKey[key] = r
	return r
}

func (c *relationCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// modelCache interns *relation.Model values by canonical print name,
// so repeated Fit/ParseModel calls on the same hypothesis string reuse
// one Model (and thus one ID, and whatever fit results a caller layers
// on top keyed by that ID).
type modelCache struct {
	mu     sync.Mutex
	byKey  map[string]*relation.Model
	nextID uint64
	stats  CacheStats
}

func newModelCache() *modelCache {
	return &modelCache{byKey: make(map[string]*relation.Model)}
}

// lookup returns the cached model for key, if present, recording a hit
// or miss.
func (c *modelCache) lookup(key string) (*relation.Model, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.byKey[key]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return m, ok
}

// store assigns the next arena ID to m and caches it under its
// canonical print name.
func (c *modelCache) store(m *relation.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	m.ID = c.nextID
	c.byKey[m.PrintName()] = m
}

func (c *modelCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
