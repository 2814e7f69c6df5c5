package model

import (
	"fmt"
	"sort"

	"energyplanner/internal/apperr"
)

// BatteryParams describes one stationary or EV battery.
type BatteryParams struct {
	DeviceID             string    `yaml:"device_id"`
	CapacityWh           float64   `yaml:"capacity_wh"`
	SoCMinPct            float64   `yaml:"soc_min_pct"`
	SoCMaxPct            float64   `yaml:"soc_max_pct"`
	SoCInitialPct        float64   `yaml:"soc_initial_pct"`
	ChargeEfficiency     float64   `yaml:"charge_efficiency"`
	DischargeEfficiency  float64   `yaml:"discharge_efficiency"`
	MaxChargePowerW      float64   `yaml:"max_charge_power_w"`
	MaxDischargePowerW   float64   `yaml:"max_discharge_power_w"`
	AllowedChargeRates   []float64 `yaml:"allowed_charge_rates"`
	IsEV                 bool      `yaml:"is_ev"`
	SoCTargetPct         float64   `yaml:"soc_target_pct"`
	EVDischargeAllowed   bool      `yaml:"ev_discharge_allowed"`
}

// Validate checks the invariants of §3: bounds ordering, positive capacity,
// efficiencies in (0,1], and a non-empty, sorted, [0,1]-bounded rate alphabet.
func (b BatteryParams) Validate() error {
	if b.DeviceID == "" {
		return apperr.New(apperr.InvalidInput, "battery device_id is required")
	}
	if b.CapacityWh <= 0 {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("battery %s: capacity_wh must be > 0", b.DeviceID))
	}
	if !(b.SoCMinPct >= 0 && b.SoCMinPct <= b.SoCMaxPct && b.SoCMaxPct <= 100) {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("battery %s: soc_min_pct/soc_max_pct out of [0,100] or non-monotone", b.DeviceID))
	}
	if b.SoCInitialPct < b.SoCMinPct || b.SoCInitialPct > b.SoCMaxPct {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("battery %s: soc_initial_pct outside [soc_min_pct, soc_max_pct]", b.DeviceID))
	}
	if b.ChargeEfficiency <= 0 || b.ChargeEfficiency > 1 || b.DischargeEfficiency <= 0 || b.DischargeEfficiency > 1 {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("battery %s: efficiencies must lie in (0,1]", b.DeviceID))
	}
	if b.MaxChargePowerW <= 0 || b.MaxDischargePowerW <= 0 {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("battery %s: power caps must be > 0", b.DeviceID))
	}
	if len(b.AllowedChargeRates) == 0 {
		return apperr.New(apperr.InvalidParameters, fmt.Sprintf("battery %s: allowed_charge_rates is empty", b.DeviceID))
	}
	prev := -1.0
	for _, r := range b.AllowedChargeRates {
		if r < 0 || r > 1 {
			return apperr.New(apperr.InvalidParameters, fmt.Sprintf("battery %s: allowed_charge_rates must lie in [0,1]", b.DeviceID))
		}
		if r < prev {
			return apperr.New(apperr.InvalidParameters, fmt.Sprintf("battery %s: allowed_charge_rates must be sorted ascending", b.DeviceID))
		}
		prev = r
	}
	if b.IsEV && b.SoCTargetPct > 0 && (b.SoCTargetPct < b.SoCMinPct || b.SoCTargetPct > b.SoCMaxPct) {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("battery %s: soc_target_pct outside [soc_min_pct, soc_max_pct]", b.DeviceID))
	}
	return nil
}

// DischargeEnabled reports whether the GA may expose a per-hour discharge
// gene for this battery. Per §3/§9: always present for non-EV; for EV
// batteries it only exists when explicitly configured.
func (b BatteryParams) DischargeEnabled() bool {
	if !b.IsEV {
		return true
	}
	return b.EVDischargeAllowed
}

// SortedRates returns a defensive, sorted copy of AllowedChargeRates.
func (b BatteryParams) SortedRates() []float64 {
	rates := append([]float64(nil), b.AllowedChargeRates...)
	sort.Float64s(rates)
	return rates
}

// InverterParams describes the inverter coupled 1:1 to one battery.
type InverterParams struct {
	BatteryID        string  `yaml:"battery_id"`
	MaxPowerWh       float64 `yaml:"max_power_wh"`
	DCToACEfficiency float64 `yaml:"dc_to_ac_efficiency"`
	ACToDCEfficiency float64 `yaml:"ac_to_dc_efficiency"`
	MaxACChargePowerW float64 `yaml:"max_ac_charge_power_w"`
}

func (i InverterParams) Validate() error {
	if i.BatteryID == "" {
		return apperr.New(apperr.InvalidInput, "inverter battery_id is required")
	}
	if i.MaxPowerWh <= 0 {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("inverter for %s: max_power_wh must be > 0", i.BatteryID))
	}
	if i.DCToACEfficiency <= 0 || i.DCToACEfficiency > 1 || i.ACToDCEfficiency <= 0 || i.ACToDCEfficiency > 1 {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("inverter for %s: efficiencies must lie in (0,1]", i.BatteryID))
	}
	return nil
}

// EffectiveMaxACChargePowerW returns the configured cap, or MaxPowerWh if
// no narrower cap was configured.
func (i InverterParams) EffectiveMaxACChargePowerW() float64 {
	if i.MaxACChargePowerW > 0 {
		return i.MaxACChargePowerW
	}
	return i.MaxPowerWh
}

// ApplianceParams describes one deferrable household appliance.
type ApplianceParams struct {
	ApplianceID    string  `yaml:"appliance_id"`
	ConsumptionWh  float64 `yaml:"consumption_wh"`
	DurationH      int     `yaml:"duration_h"`
	EarliestStartH int     `yaml:"earliest_start_h"`
	LatestStartH   int     `yaml:"latest_start_h"`
}

// UnscheduledGene is the sentinel value meaning "not scheduled".
const UnscheduledGene = -1

func (a ApplianceParams) Validate(horizon int) error {
	if a.ApplianceID == "" {
		return apperr.New(apperr.InvalidInput, "appliance_id is required")
	}
	if a.ConsumptionWh <= 0 {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("appliance %s: consumption_wh must be > 0", a.ApplianceID))
	}
	if a.DurationH <= 0 {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("appliance %s: duration_h must be > 0", a.ApplianceID))
	}
	if a.EarliestStartH < 0 || a.LatestStartH < a.EarliestStartH || a.LatestStartH+a.DurationH > horizon {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("appliance %s: start window invalid for horizon %d", a.ApplianceID, horizon))
	}
	return nil
}

// EffectiveLatestStartH returns the latest legal start hour once the
// optimization-hours window k is applied: min(latest_start_h, k-duration_h),
// so a start hour that would run the appliance past k is excluded even when
// latest_start_h allows it against the full forecast horizon. The result is
// never below earliest_start_h: when even earliest_start_h would run past k,
// earliest_start_h is returned and that start still runs past k. k <= 0
// means no window cap is configured, so latest_start_h applies unchanged.
func (a ApplianceParams) EffectiveLatestStartH(k int) int {
	if k <= 0 {
		return a.LatestStartH
	}
	bound := k - a.DurationH
	if bound < a.EarliestStartH {
		bound = a.EarliestStartH
	}
	if bound < a.LatestStartH {
		return bound
	}
	return a.LatestStartH
}

// PowerW returns the appliance's constant power draw while running.
func (a ApplianceParams) PowerW() float64 {
	return a.ConsumptionWh / float64(a.DurationH)
}

// ActiveAt reports whether the appliance is running during hour h, given a
// chosen start hour (or UnscheduledGene).
func (a ApplianceParams) ActiveAt(startHour, h int) bool {
	if startHour == UnscheduledGene {
		return false
	}
	return h >= startHour && h < startHour+a.DurationH
}
