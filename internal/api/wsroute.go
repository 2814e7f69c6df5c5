package api

import (
	"github.com/gin-gonic/gin"

	"energyplanner/internal/ws"
)

// ProgressWebSocket returns a gin handler for GET /ws/:run_id: it opens (or
// reopens) the Hub for run_id in hubs and upgrades the connection to it, so
// a caller can subscribe to a run's progress before POSTing /optimize with
// a matching run_id.
func ProgressWebSocket(hubs *HubRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("run_id")
		hub, ok := hubs.Lookup(runID)
		if !ok {
			hub = hubs.Open(runID)
		}
		ws.NewHandler(hub).ServeHTTP(c.Writer, c.Request)
	}
}
