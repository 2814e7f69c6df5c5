// Package cache memoizes optimization runs keyed by their full input, so a
// caller that resubmits the same forecast/device/GA parameters gets the
// prior result back instead of re-running the GA. Adapted from the
// teacher's internal/store.Store: an RWMutex-guarded map, one lookup key per
// stored entry, no eviction policy (the teacher's store never evicts
// sensor readings either).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"energyplanner/internal/model"
)

// RunCache stores OptimizeResponse results keyed by a hash of the
// OptimizationParameters that produced them.
type RunCache struct {
	mu      sync.RWMutex
	entries map[string]model.OptimizeResponse
}

// New returns an empty RunCache.
func New() *RunCache {
	return &RunCache{entries: make(map[string]model.OptimizeResponse)}
}

// Key hashes params to a stable cache key. Two calls with identical field
// values (including slice contents) produce the same key, since
// encoding/json serializes struct fields in a fixed order.
func Key(params model.OptimizationParameters) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached response for key, if present.
func (c *RunCache) Get(key string) (model.OptimizeResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.entries[key]
	return resp, ok
}

// Put stores resp under key, overwriting any prior entry.
func (c *RunCache) Put(key string, resp model.OptimizeResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resp
}

// Len returns the number of cached entries.
func (c *RunCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Delete evicts a single entry, used when a caller wants to force a rerun.
func (c *RunCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
