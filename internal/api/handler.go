// Package api wires HTTP requests to ga.Run, the gin-based counterpart to
// brianmickel-battery-backtest's internal/api/handlers package: one
// handler struct per resource, ShouldBindJSON + JSON error envelopes on
// failure.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"energyplanner/internal/apperr"
	"energyplanner/internal/cache"
	"energyplanner/internal/fitness"
	"energyplanner/internal/ga"
	"energyplanner/internal/model"
	"energyplanner/internal/ws"
)

// ProgressHub resolves a run_id to the websocket Hub broadcasting its
// progress, if the caller opened one. Runs without a matching hub still
// execute; they just have nowhere to stream progress to.
type ProgressHub interface {
	Lookup(runID string) (*ws.Hub, bool)
}

// OptimizeHandler serves POST /optimize.
type OptimizeHandler struct {
	cache *cache.RunCache
	ipc   *fitness.InterpolatorCache
	hubs  ProgressHub
}

func NewOptimizeHandler(runCache *cache.RunCache, ipc *fitness.InterpolatorCache, hubs ProgressHub) *OptimizeHandler {
	return &OptimizeHandler{cache: runCache, ipc: ipc, hubs: hubs}
}

// Run handles POST /optimize: validates the request, checks the run cache,
// and otherwise executes ga.RunWithProgress, streaming generation progress
// to any WebSocket hub registered under the request's run_id.
func (h *OptimizeHandler) Run(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code: "INVALID_REQUEST", Message: err.Error(),
		}})
		return
	}

	params := req.toParams()
	applyRequestDefaults(&params)

	key, keyErr := cache.Key(params)
	if keyErr == nil && h.cache != nil {
		if resp, ok := h.cache.Get(key); ok {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	var bridge *ws.Bridge
	if h.hubs != nil && req.RunID != "" {
		if hub, ok := h.hubs.Lookup(req.RunID); ok {
			bridge = ws.NewBridge(hub, params.GA.Generations)
		}
	}

	var progress ga.ProgressFunc
	if bridge != nil {
		progress = bridge.OnProgress
	}

	resp, err := ga.RunWithProgress(c.Request.Context(), params, h.ipc, progress)
	if err != nil {
		if bridge != nil {
			bridge.OnError(err)
		}
		writeError(c, err)
		return
	}

	if bridge != nil {
		bridge.OnResult(resp)
	}
	if keyErr == nil && h.cache != nil {
		h.cache.Put(key, resp)
	}
	c.JSON(http.StatusOK, resp)
}

func applyRequestDefaults(p *model.OptimizationParameters) {
	d := model.DefaultGAParams()
	if p.GA.PopulationSize == 0 {
		p.GA.PopulationSize = d.PopulationSize
	}
	if p.GA.Generations == 0 {
		p.GA.Generations = d.Generations
	}
	if p.GA.PCrossover == 0 {
		p.GA.PCrossover = d.PCrossover
	}
	if p.GA.TournamentK == 0 {
		p.GA.TournamentK = d.TournamentK
	}
	if p.GA.BiasedInitFraction == 0 {
		p.GA.BiasedInitFraction = d.BiasedInitFraction
	}
	if p.GA.UnscheduledMutationProb == 0 {
		p.GA.UnscheduledMutationProb = d.UnscheduledMutationProb
	}

	dp := model.DefaultPenaltyWeights()
	if p.Penalty.ApplianceNotScheduled == 0 {
		p.Penalty.ApplianceNotScheduled = dp.ApplianceNotScheduled
	}
	if p.Penalty.SoCTargetPerWh == 0 {
		p.Penalty.SoCTargetPerWh = dp.SoCTargetPerWh
	}
	if p.Penalty.ClipPerWh == 0 {
		p.Penalty.ClipPerWh = dp.ClipPerWh
	}
}

func writeError(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := http.StatusInternalServerError
		switch ae.Kind {
		case apperr.InvalidInput, apperr.InvalidParameters:
			status = http.StatusBadRequest
		case apperr.Cancelled:
			status = http.StatusOK
		}
		c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: string(ae.Kind), Message: ae.Msg}})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
		Code: "INTERNAL_ERROR", Message: err.Error(),
	}})
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
