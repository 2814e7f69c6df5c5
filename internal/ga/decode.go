package ga

import "energyplanner/internal/model"

// decodeSchedule turns a chromosome's genes into the human/consumer-facing
// per-hour decisions of §6's OptimizeResponse. Discharge permission is
// decoded the way simflow.Simulate applies it: false for a battery without
// a discharge gene, and false in any hour with a non-zero AC-charge power.
func decodeSchedule(c model.Chromosome, devs model.Devices) model.Schedule {
	sched := model.Schedule{
		Batteries:  make(map[string][]model.BatteryHourSchedule, len(devs.Batteries)),
		Appliances: make(map[string]int, len(devs.Appliances)),
	}
	for bi, bp := range devs.Batteries {
		inv, _ := devs.InverterFor(bp.DeviceID)
		rates := bp.SortedRates()
		hours := make([]model.BatteryHourSchedule, len(c.ChargeRateIdx[bi]))
		for h, idx := range c.ChargeRateIdx[bi] {
			acChargePowerW := rates[idx] * inv.EffectiveMaxACChargePowerW()
			hours[h] = model.BatteryHourSchedule{
				Hour:             h,
				ACChargePowerW:   acChargePowerW,
				DischargeAllowed: bp.DischargeEnabled() && c.DischargeAllowed[bi][h] && acChargePowerW <= 0,
			}
		}
		sched.Batteries[bp.DeviceID] = hours
	}
	for ai, a := range devs.Appliances {
		sched.Appliances[a.ApplianceID] = c.ApplianceStart[ai]
	}
	return sched
}

// buildResponse assembles the full OptimizeResponse for the given best
// individual and run outcome.
func buildResponse(best individual, devs model.Devices, status model.Status) model.OptimizeResponse {
	totals := model.Totals{
		TotalCost:               best.trace.TotalCost,
		TotalRevenue:            best.trace.TotalRevenue,
		TotalLossesWh:           best.trace.TotalLossesWh,
		ApplianceScheduledFlags: best.trace.ApplianceScheduled,
	}
	for _, bp := range devs.Batteries {
		totals.Batteries = append(totals.Batteries, model.BatteryTotals{
			DeviceID:         bp.DeviceID,
			FinalSoCPct:      best.trace.FinalSoCPct[bp.DeviceID],
			TotalChargeWh:    best.trace.TotalChargeWh[bp.DeviceID],
			TotalDischargeWh: best.trace.TotalDischargeWh[bp.DeviceID],
		})
	}
	return model.OptimizeResponse{
		Schedule: decodeSchedule(best.chromo, devs),
		Trace:    best.trace.Trace,
		Totals:   totals,
		Fitness:  best.breakdown.Total,
		Status:   status,
	}
}
