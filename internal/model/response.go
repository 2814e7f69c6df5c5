package model

// Status is the outcome of an optimization run (§6).
type Status string

const (
	StatusOk        Status = "Ok"
	StatusCancelled Status = "Cancelled"
	StatusError     Status = "Error"
)

// HourTrace carries one hour's simulator output for one battery (§4.2).
type HourTrace struct {
	Hour             int     `json:"hour"`
	BatteryID        string  `json:"battery_id"`
	GridDrawWh       float64 `json:"grid_draw_wh"`
	GridFeedInWh     float64 `json:"grid_feed_in_wh"`
	LossesWh         float64 `json:"losses_wh"`
	SelfConsumptionWh float64 `json:"self_consumption_wh"`
	SoCPct           float64 `json:"soc_pct"`
	ACChargeRequestWh float64 `json:"ac_charge_request_wh"`
	ClippedWh        float64 `json:"clipped_wh"`
}

// BatteryTotals summarizes one battery's run-level aggregates.
type BatteryTotals struct {
	DeviceID      string  `json:"device_id"`
	FinalSoCPct   float64 `json:"final_soc_pct"`
	TotalChargeWh float64 `json:"total_charge_wh"`
	TotalDischargeWh float64 `json:"total_discharge_wh"`
}

// Totals bundles the run-level aggregates of §4.2's simulator output. There
// is no unmet-load aggregate: the inverter's grid draw is uncapped (§4.1),
// so a shortfall the battery can't cover is always fully absorbed by the
// grid rather than going unserved.
type Totals struct {
	TotalCost              float64         `json:"total_cost"`
	TotalRevenue            float64         `json:"total_revenue"`
	TotalLossesWh           float64         `json:"total_losses_wh"`
	Batteries               []BatteryTotals `json:"batteries"`
	ApplianceScheduledFlags map[string]bool `json:"appliance_scheduled_flags"`
}

// BatteryHourSchedule is the decoded per-hour decision for one battery.
type BatteryHourSchedule struct {
	Hour             int     `json:"hour"`
	ACChargePowerW   float64 `json:"ac_charge_power_w"`
	DischargeAllowed bool    `json:"discharge_allowed"`
}

// Schedule is the human/consumer-facing decoded output of the best
// chromosome: per-device, per-hour decisions.
type Schedule struct {
	Batteries  map[string][]BatteryHourSchedule `json:"batteries"`
	Appliances map[string]int                   `json:"appliances"` // appliance_id -> start hour, or UnscheduledGene
}

// OptimizeResponse is the optimizer's external output (§6).
type OptimizeResponse struct {
	Schedule Schedule    `json:"schedule"`
	Trace    []HourTrace `json:"trace"`
	Totals   Totals      `json:"totals"`
	Fitness  float64     `json:"fitness"`
	Status   Status      `json:"status"`
}
