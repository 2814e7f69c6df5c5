// Package devices implements the pure-state device models of §4.1: a
// battery (stationary or EV) and the inverter that couples it to the grid.
// Adapted from the teacher's internal/simulator.Battery: same
// SoC-as-energy bookkeeping, same clip-don't-fail philosophy, generalized
// to the planner's charge/discharge/efficiency/hour-indexed contract.
package devices

import "energyplanner/internal/model"

// Battery tracks the state of charge of one stationary or EV battery across
// a simulated horizon. Over-requests are silently clipped, never rejected:
// power-level decisions belong to the inverter and the GA, not here.
type Battery struct {
	params model.BatteryParams

	socWh float64

	// ClippedWh accumulates, for the fitness evaluator's soft-bound
	// penalty, any energy a caller requested that this battery refused
	// because of the power cap or the SoC bounds.
	ClippedWh float64
}

// NewBattery creates a battery at its configured initial state of charge.
func NewBattery(p model.BatteryParams) *Battery {
	return &Battery{
		params: p,
		socWh:  p.CapacityWh * p.SoCInitialPct / 100,
	}
}

// Reset restores the initial state of charge and clears accounting.
func (b *Battery) Reset() {
	b.socWh = b.params.CapacityWh * b.params.SoCInitialPct / 100
	b.ClippedWh = 0
}

// SoCPct returns the current state of charge as a percentage of capacity.
func (b *Battery) SoCPct() float64 {
	if b.params.CapacityWh <= 0 {
		return 0
	}
	return b.socWh / b.params.CapacityWh * 100
}

func (b *Battery) floorWh() float64 { return b.params.CapacityWh * b.params.SoCMinPct / 100 }
func (b *Battery) ceilWh() float64  { return b.params.CapacityWh * b.params.SoCMaxPct / 100 }

// Charge accepts up to requestedWh of energy on the battery's DC side for
// the given hour. Accepted energy is the minimum of the request, the
// per-hour power cap, and the headroom to soc_max_pct. Loss is
// accepted*(1-chargeEfficiency); the stored delta is accepted*chargeEfficiency.
func (b *Battery) Charge(requestedWh float64, _ int) (acceptedWh, lossWh float64) {
	if requestedWh <= 0 {
		return 0, 0
	}
	capped := min(requestedWh, b.params.MaxChargePowerW)
	headroom := b.ceilWh() - b.socWh
	if headroom < 0 {
		headroom = 0
	}
	accepted := min(capped, headroom)
	if accepted < 0 {
		accepted = 0
	}
	b.ClippedWh += requestedWh - accepted

	stored := accepted * b.params.ChargeEfficiency
	loss := accepted - stored
	b.socWh += stored
	return accepted, loss
}

// Discharge delivers up to requestedWh of energy from the battery's DC
// side for the given hour. Delivered is limited by the per-hour power cap
// and by available energy above soc_min_pct. Loss is drawn*(1-dischargeEfficiency),
// where delivered = drawn*dischargeEfficiency.
func (b *Battery) Discharge(requestedWh float64, _ int) (deliveredWh, lossWh float64) {
	if requestedWh <= 0 {
		return 0, 0
	}
	available := b.socWh - b.floorWh()
	if available < 0 {
		available = 0
	}
	// requestedWh is expressed on the delivered (post-efficiency) side;
	// drawn is the DC energy that must leave the battery to deliver it.
	maxDeliverableFromPower := b.params.MaxDischargePowerW
	maxDeliverableFromSoC := available * b.params.DischargeEfficiency
	delivered := min(requestedWh, maxDeliverableFromPower, maxDeliverableFromSoC)
	if delivered < 0 {
		delivered = 0
	}
	b.ClippedWh += requestedWh - delivered

	drawn := delivered / b.params.DischargeEfficiency
	loss := drawn - delivered
	b.socWh -= drawn
	return delivered, loss
}

// Params exposes the immutable configuration, e.g. for the GA's gene
// domains and the fitness evaluator's break-even computation.
func (b *Battery) Params() model.BatteryParams { return b.params }

func min(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
