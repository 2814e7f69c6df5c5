package forecast

import (
	"time"

	"energyplanner/internal/model"
)

// Site names the location and capacity needed to bound a synthesized PV
// shape by real sunrise/sunset times, and the household baseline load used
// when no load history is configured.
type Site struct {
	Latitude  float64
	Longitude float64
	PeakWp    float64
	BaseLoadWh float64
}

// Synthesize builds a naive model.Forecast for horizon hours starting at
// startHour of startDate, the fallback path used when a caller has no
// forecast file to import (§6, SPEC_FULL.md §C.3). Prices are flat:
// priceBuyWh and priceSellWh are used for every hour, since neither pack
// example repo carries a tariff forecaster worth grounding a synthetic one on.
func Synthesize(site Site, startDate time.Time, startHour, horizon int, priceBuyWh, priceSellWh float64) model.Forecast {
	profile := DefaultProfile()
	pv := BuildPVWh(profile, startDate, startHour, horizon, site.PeakWp, site.Latitude, site.Longitude)
	load := BuildLoadWh(site.BaseLoadWh, startHour+horizon)[startHour:]

	buy := make([]float64, horizon)
	sell := make([]float64, horizon)
	for i := range buy {
		buy[i] = priceBuyWh
		sell[i] = priceSellWh
	}

	return model.Forecast{
		PVWh:        pv,
		LoadWh:      load,
		PriceBuyWh:  buy,
		PriceSellWh: sell,
	}
}
