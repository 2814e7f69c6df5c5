// Package simflow implements the energy-flow simulator of §4.2: the sole
// authoritative interpreter of a chromosome. It walks the horizon hour by
// hour, calling each battery's coupled inverter, and produces a per-hour
// trace plus run-level aggregates. Adapted from the teacher's
// internal/simulator.Engine hour-loop shape (accumulate Summary totals
// while iterating readings), generalized from a fixed house topology to an
// arbitrary battery/inverter/appliance list decoded from a chromosome.
package simflow

import (
	"math"

	"energyplanner/internal/apperr"
	"energyplanner/internal/devices"
	"energyplanner/internal/model"
)

// Result is the simulator's full output for one chromosome evaluation.
type Result struct {
	Trace       []model.HourTrace
	TotalCost   float64
	TotalRevenue float64
	TotalLossesWh float64
	FinalSoCPct map[string]float64 // battery device_id -> final SoC%
	TotalChargeWh map[string]float64
	TotalDischargeWh map[string]float64
	TotalClippedWh map[string]float64
	ApplianceScheduled map[string]bool
	// ACChargedWh[batteryID][hour] is the incremental AC-charge energy
	// decoded for that hour, needed by the fitness evaluator's break-even
	// penalty (§4.3).
	ACChargedWh map[string][]float64
}

// Simulate decodes chromosome against devices and forecast, and runs the
// deterministic hour loop of §4.2. It is side-effect-free apart from
// mutating fresh battery copies cloned at entry (here: constructed fresh
// from params, so the caller's params are never mutated).
func Simulate(chromo model.Chromosome, devs model.Devices, fc model.Forecast) (Result, error) {
	if err := fc.Validate(); err != nil {
		return Result{}, err
	}
	h := fc.Horizon()

	batteries := make([]*devices.Battery, len(devs.Batteries))
	inverters := make([]*devices.Inverter, len(devs.Batteries))
	prevClipped := make([]float64, len(devs.Batteries))
	for i, bp := range devs.Batteries {
		batteries[i] = devices.NewBattery(bp)
		invParams, ok := devs.InverterFor(bp.DeviceID)
		if !ok {
			return Result{}, apperr.New(apperr.InvalidInput, "no inverter coupled to battery "+bp.DeviceID)
		}
		inverters[i] = devices.NewInverter(invParams, batteries[i])
	}
	if len(chromo.ChargeRateIdx) != len(devs.Batteries) || len(chromo.DischargeAllowed) != len(devs.Batteries) {
		return Result{}, apperr.New(apperr.InvalidInput, "chromosome battery gene count mismatches device list")
	}
	if len(chromo.ApplianceStart) != len(devs.Appliances) {
		return Result{}, apperr.New(apperr.InvalidInput, "chromosome appliance gene count mismatches device list")
	}

	res := Result{
		FinalSoCPct:        make(map[string]float64, len(devs.Batteries)),
		TotalChargeWh:      make(map[string]float64, len(devs.Batteries)),
		TotalDischargeWh:   make(map[string]float64, len(devs.Batteries)),
		TotalClippedWh:     make(map[string]float64, len(devs.Batteries)),
		ApplianceScheduled: make(map[string]bool, len(devs.Appliances)),
		ACChargedWh:        make(map[string][]float64, len(devs.Batteries)),
	}
	for _, bp := range devs.Batteries {
		res.ACChargedWh[bp.DeviceID] = make([]float64, h)
	}
	for _, a := range devs.Appliances {
		res.ApplianceScheduled[a.ApplianceID] = false
	}

	for hour := 0; hour < h; hour++ {
		load := fc.LoadWh[hour]
		for ai, a := range devs.Appliances {
			start := chromo.ApplianceStart[ai]
			if a.ActiveAt(start, hour) {
				load += a.PowerW()
				res.ApplianceScheduled[a.ApplianceID] = true
			}
		}

		pv := fc.PVWh[hour]
		// Split PV and load evenly across batteries' inverters, mirroring a
		// single-bus AC topology with multiple battery branches. For a
		// single battery the whole hour's PV/load goes to its one inverter.
		pvShare := pv
		loadShare := load
		if len(devs.Batteries) > 1 {
			pvShare = pv / float64(len(devs.Batteries))
			loadShare = load / float64(len(devs.Batteries))
		}

		for bi, bp := range devs.Batteries {
			rateIdx := chromo.ChargeRateIdx[bi][hour]
			rates := bp.SortedRates()
			if rateIdx < 0 || rateIdx >= len(rates) {
				return Result{}, apperr.New(apperr.InvalidInput, "charge rate gene out of domain")
			}
			rate := rates[rateIdx]
			invParams, _ := devs.InverterFor(bp.DeviceID)
			acChargeRequestWh := rate * invParams.EffectiveMaxACChargePowerW()

			dischargeAllowed := false
			if bp.DischargeEnabled() {
				dischargeAllowed = chromo.DischargeAllowed[bi][hour]
			}
			// §4.1: AC-charge and discharge cannot occur in the same hour.
			if acChargeRequestWh > 0 {
				dischargeAllowed = false
			}

			trace := inverters[bi].Process(pvShare, loadShare, acChargeRequestWh, dischargeAllowed, hour)

			clippedDelta := trace.ClippedWh - prevClipped[bi]
			prevClipped[bi] = trace.ClippedWh

			res.Trace = append(res.Trace, model.HourTrace{
				Hour:              hour,
				BatteryID:         bp.DeviceID,
				GridDrawWh:        trace.GridDrawWh,
				GridFeedInWh:      trace.GridFeedInWh,
				LossesWh:          trace.LossesWh,
				SelfConsumptionWh: trace.SelfConsumptionWh,
				SoCPct:            trace.SoCPct,
				ACChargeRequestWh: acChargeRequestWh,
				ClippedWh:         clippedDelta,
			})

			res.ACChargedWh[bp.DeviceID][hour] = acChargeRequestWh
			res.TotalChargeWh[bp.DeviceID] += trace.ChargedWh
			res.TotalDischargeWh[bp.DeviceID] += trace.DischargedACWh
			res.TotalClippedWh[bp.DeviceID] += clippedDelta
			res.TotalCost += fc.PriceBuyWh[hour] * trace.GridDrawWh
			res.TotalRevenue += fc.PriceSellWh[hour] * trace.GridFeedInWh
			res.TotalLossesWh += trace.LossesWh
		}
	}

	for bi, bp := range devs.Batteries {
		res.FinalSoCPct[bp.DeviceID] = batteries[bi].SoCPct()
		if math.IsNaN(res.FinalSoCPct[bp.DeviceID]) {
			return Result{}, apperr.New(apperr.Internal, "NaN state-of-charge for battery "+bp.DeviceID)
		}
	}
	return res, nil
}
