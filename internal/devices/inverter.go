package devices

import "energyplanner/internal/model"

// HourTrace is the inverter's per-hour output (§4.1).
type HourTrace struct {
	GridFeedInWh      float64
	GridDrawWh        float64
	LossesWh          float64
	SelfConsumptionWh float64
	DischargedACWh    float64
	ChargedWh         float64
	SoCPct            float64
	ClippedWh         float64
}

// Inverter couples exactly one battery to the grid, converting between the
// AC and DC sides with the configured efficiencies. Adapted from
// original_source/src/akkudoktoreos/class_inverter.py's process_energy,
// generalized to hour-indexed AC grid charging and an explicit discharge
// permission bit (§3: AC-charge and discharge cannot both occur in the
// same hour for the same battery).
type Inverter struct {
	params  model.InverterParams
	battery *Battery
}

func NewInverter(p model.InverterParams, battery *Battery) *Inverter {
	return &Inverter{params: p, battery: battery}
}

// Process runs the §4.1 algorithm for one hour:
//  1. If PV >= load: serve load directly, charge the battery with the
//     DC-side surplus (no AC<->DC crossing, only chargeEfficiency applies),
//     export what fits the AC cap, and lose whatever doesn't.
//  2. Else: discharge (if allowed) to cover the shortfall up to the AC cap,
//     applying dcToAcEfficiency; remaining shortfall is grid draw.
//  3. Separately, an AC-charge request draws from the grid, applies
//     acToDcEfficiency, and offers the result to the battery's Charge.
func (inv *Inverter) Process(pvWh, loadWh, acChargeRequestWh float64, dischargeAllowed bool, hour int) HourTrace {
	var trace HourTrace
	maxPower := inv.params.MaxPowerWh

	if pvWh >= loadWh {
		actualConsumption := min(loadWh, maxPower)
		trace.SelfConsumptionWh = actualConsumption
		remaining := pvWh - actualConsumption

		chargedWh, chargeLossWh := inv.battery.Charge(remaining, hour)
		trace.LossesWh += chargeLossWh
		trace.ChargedWh += chargedWh

		remainingSurplus := remaining - chargedWh
		exportCap := maxPower - actualConsumption
		if exportCap < 0 {
			exportCap = 0
		}
		feedIn := min(remainingSurplus, exportCap)
		if feedIn < 0 {
			feedIn = 0
		}
		trace.GridFeedInWh = feedIn
		if leftover := remainingSurplus - feedIn; leftover > 0 {
			trace.LossesWh += leftover
		}
	} else {
		shortfall := loadWh - pvWh
		trace.SelfConsumptionWh = pvWh

		if dischargeAllowed {
			availableACForDischarge := maxPower - pvWh
			if availableACForDischarge < 0 {
				availableACForDischarge = 0
			}
			deliveredWh, dischargeLossWh := inv.battery.Discharge(min(shortfall, availableACForDischarge), hour)
			deliveredACWh := deliveredWh * inv.params.DCToACEfficiency
			acLoss := deliveredWh - deliveredACWh
			trace.LossesWh += dischargeLossWh + acLoss
			trace.SelfConsumptionWh += deliveredACWh
			trace.DischargedACWh += deliveredACWh
			shortfall -= deliveredACWh
		}
		if shortfall < 0 {
			shortfall = 0
		}
		trace.GridDrawWh = shortfall
	}

	if acChargeRequestWh > 0 && !dischargeAllowed {
		capped := min(acChargeRequestWh, inv.params.EffectiveMaxACChargePowerW())
		trace.GridDrawWh += capped
		dcSideWh := capped * inv.params.ACToDCEfficiency
		acdcLoss := capped - dcSideWh
		chargedWh, chargeLossWh := inv.battery.Charge(dcSideWh, hour)
		trace.LossesWh += acdcLoss + chargeLossWh
		trace.ChargedWh += chargedWh
	}

	trace.SoCPct = inv.battery.SoCPct()
	trace.ClippedWh = inv.battery.ClippedWh
	return trace
}
