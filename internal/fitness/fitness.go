// Package fitness converts a simflow.Result into the single scalar the
// genetic optimizer minimizes (§4.3): monetary cost plus weighted soft
// constraint penalties, lower is better.
package fitness

import (
	"math"

	"energyplanner/internal/model"
	"energyplanner/internal/simflow"
)

// Breakdown exposes each penalty component separately (SPEC_FULL §C.1) so a
// caller can see which term dominated, instead of a single opaque scalar.
type Breakdown struct {
	Cost                  float64
	ApplianceNotScheduled float64
	SoCTargetShortfall    float64
	BreakEven             float64
	ClipPenalty           float64
	Total                 float64
}

// Evaluate computes the fitness of one simulated chromosome. cache may be
// nil; when present it is consulted (never required) for the break-even
// penalty's self-consumption refinement (§9 Open Questions).
func Evaluate(res simflow.Result, devs model.Devices, fc model.Forecast, weights model.PenaltyWeights, cache *InterpolatorCache) Breakdown {
	b := Breakdown{Cost: res.TotalCost - res.TotalRevenue}

	for _, a := range devs.Appliances {
		if !res.ApplianceScheduled[a.ApplianceID] {
			b.ApplianceNotScheduled += weights.ApplianceNotScheduled * a.ConsumptionWh
		}
	}

	maxBuyPrice := 0.0
	for _, p := range fc.PriceBuyWh {
		if p > maxBuyPrice {
			maxBuyPrice = p
		}
	}
	for _, bp := range devs.Batteries {
		if !bp.IsEV || bp.SoCTargetPct <= 0 {
			continue
		}
		final := res.FinalSoCPct[bp.DeviceID]
		shortfall := bp.SoCTargetPct - final
		if shortfall > 0 {
			b.SoCTargetShortfall += weights.SoCTargetPerWh * shortfall / 100 * bp.CapacityWh * maxBuyPrice
		}
	}

	for _, bp := range devs.Batteries {
		inv, ok := devs.InverterFor(bp.DeviceID)
		if !ok {
			continue
		}
		r := roundTripFactor(bp, inv)
		acCharged := res.ACChargedWh[bp.DeviceID]
		for h, e := range acCharged {
			if e <= 0 {
				continue
			}
			pStar := bestFutureDischargePrice(fc, h, cache)
			threshold := r * pStar
			if fc.PriceBuyWh[h] > threshold {
				b.BreakEven += e * (fc.PriceBuyWh[h] - threshold)
			}
		}
	}

	for _, clipped := range res.TotalClippedWh {
		b.ClipPenalty += weights.ClipPerWh * clipped
	}

	b.Total = b.Cost + b.ApplianceNotScheduled + b.SoCTargetShortfall + b.BreakEven + b.ClipPenalty
	return b
}

// roundTripFactor computes R = chargeEff * acToDc * dischargeEff * dcToAc (§4.3, GLOSSARY).
func roundTripFactor(bp model.BatteryParams, inv model.InverterParams) float64 {
	return bp.ChargeEfficiency * inv.ACToDCEfficiency * bp.DischargeEfficiency * inv.DCToACEfficiency
}

// bestFutureDischargePrice finds p*, the maximum sell or buy price over
// future hours where the stored energy could plausibly displace load or be
// exported (§4.3). Every future hour is a candidate at its sell price (for
// export); its buy price counts where load exceeds PV, or where cache (if
// non-nil) reports a positive self-consumption hit, which can only add
// hours to that set.
func bestFutureDischargePrice(fc model.Forecast, h int, cache *InterpolatorCache) float64 {
	best := 0.0
	for k := h + 1; k < fc.Horizon(); k++ {
		plausible := fc.LoadWh[k] > fc.PVWh[k] || cache.Plausible(fc.LoadWh[k], fc.PVWh[k])
		if plausible && fc.PriceBuyWh[k] > best {
			best = fc.PriceBuyWh[k]
		}
		if fc.PriceSellWh[k] > best {
			best = fc.PriceSellWh[k]
		}
	}
	return best
}

// NaNGuard reports whether any field of a Breakdown is NaN, surfaced by the
// GA as an Internal error at a generation barrier (§7).
func (b Breakdown) NaNGuard() bool {
	return math.IsNaN(b.Total) || math.IsNaN(b.Cost) || math.IsNaN(b.BreakEven)
}
