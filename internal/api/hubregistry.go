package api

import (
	"sync"

	"energyplanner/internal/ws"
)

// HubRegistry tracks one ws.Hub per subscribed run_id, so a client that
// opened a WebSocket before POSTing /optimize can be found and wired up as
// that run's progress sink. Grounded on the teacher's internal/store.Store:
// an RWMutex-guarded map, one entry per key.
type HubRegistry struct {
	mu   sync.RWMutex
	hubs map[string]*ws.Hub
}

func NewHubRegistry() *HubRegistry {
	return &HubRegistry{hubs: make(map[string]*ws.Hub)}
}

// Open registers a fresh Hub for runID and returns it, for the WebSocket
// handler to hand new connections to.
func (r *HubRegistry) Open(runID string) *ws.Hub {
	hub := ws.NewHub()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hubs[runID] = hub
	return hub
}

// Lookup implements ProgressHub.
func (r *HubRegistry) Lookup(runID string) (*ws.Hub, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hub, ok := r.hubs[runID]
	return hub, ok
}

// Close discards the hub for runID. A hub stays registered, also after its
// run completes, until Close is called for it; OptimizeHandler.Run does not
// call it.
func (r *HubRegistry) Close(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hubs, runID)
}
