package fitness

import "sync"

// gridStepWh is the quantisation step for cache keys (§9 Open Questions:
// "self-consumption probability" refinement is a nice-to-have, not load
// bearing, so a coarse grid is sufficient).
const gridStepWh = 50.0

type cacheKey struct {
	loadBucket int
	pvBucket   int
}

// InterpolatorCache is a read-mostly, concurrency-safe cache mapping
// quantised (load, pv) pairs to a plausibility score in [0,1], refining the
// break-even penalty's "could this hour plausibly absorb a discharge"
// heuristic. Adapted from the teacher's internal/store.Store
// RWMutex-guarded map shape, generalized from sensor readings to a float
// lookup table. Never required: nil and empty caches both degrade to the
// caller's own load>pv heuristic.
type InterpolatorCache struct {
	mu    sync.RWMutex
	table map[cacheKey]float64
}

// NewInterpolatorCache returns an empty cache ready for concurrent use.
func NewInterpolatorCache() *InterpolatorCache {
	return &InterpolatorCache{table: make(map[cacheKey]float64)}
}

func bucket(wh float64) int {
	return int(wh / gridStepWh)
}

// Put records a plausibility score for the quantised bucket containing
// (loadWh, pvWh). Safe for concurrent use with Plausible and other Puts.
func (c *InterpolatorCache) Put(loadWh, pvWh, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table[cacheKey{bucket(loadWh), bucket(pvWh)}] = score
}

// Plausible reports whether the cache considers a discharge at this
// (loadWh, pvWh) point likely to find a taker. Returns false on a cache
// miss, so an empty or nil cache leaves the caller's candidate set as it
// is; a positive hit (score above 0.5) widens it.
func (c *InterpolatorCache) Plausible(loadWh, pvWh float64) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	score, ok := c.table[cacheKey{bucket(loadWh), bucket(pvWh)}]
	return ok && score > 0.5
}

// Len reports the number of distinct buckets recorded, mostly useful for
// tests and diagnostics.
func (c *InterpolatorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.table)
}
