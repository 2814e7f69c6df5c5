// Package model holds the typed inputs and the chromosome representation
// consumed by the energy planner: forecast vectors, device parameters, and
// the genetic algorithm's gene domains.
package model

import (
	"fmt"

	"energyplanner/internal/apperr"
)

// Forecast bundles the four hour-indexed vectors the planner consumes. All
// vectors must share the same length H (the horizon).
type Forecast struct {
	// PVWh is PV generation in watt-hours per hour. >= 0.
	PVWh []float64
	// LoadWh is expected household consumption in watt-hours per hour. >= 0.
	LoadWh []float64
	// PriceBuyWh is the cost per watt-hour of grid draw.
	PriceBuyWh []float64
	// PriceSellWh is the revenue per watt-hour of feed-in. >= 0.
	PriceSellWh []float64
}

// Horizon returns H, the number of planned hours.
func (f Forecast) Horizon() int {
	return len(f.PVWh)
}

// Validate checks vector lengths and value domains.
func (f Forecast) Validate() error {
	h := len(f.PVWh)
	if h == 0 {
		return apperr.New(apperr.InvalidInput, "forecast vectors are empty")
	}
	if len(f.LoadWh) != h || len(f.PriceBuyWh) != h || len(f.PriceSellWh) != h {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf(
			"forecast vector length mismatch: pv=%d load=%d price_buy=%d price_sell=%d",
			h, len(f.LoadWh), len(f.PriceBuyWh), len(f.PriceSellWh)))
	}
	for i := 0; i < h; i++ {
		if f.PVWh[i] < 0 {
			return apperr.New(apperr.InvalidInput, fmt.Sprintf("pv_wh[%d] is negative", i))
		}
		if f.LoadWh[i] < 0 {
			return apperr.New(apperr.InvalidInput, fmt.Sprintf("load_wh[%d] is negative", i))
		}
		if f.PriceSellWh[i] < 0 {
			return apperr.New(apperr.InvalidInput, fmt.Sprintf("price_sell_wh[%d] is negative", i))
		}
	}
	return nil
}
