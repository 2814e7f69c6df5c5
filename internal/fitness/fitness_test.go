package fitness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"energyplanner/internal/model"
	"energyplanner/internal/simflow"
)

func baseDevices() model.Devices {
	return model.Devices{
		Batteries: []model.BatteryParams{{
			DeviceID:            "batt1",
			CapacityWh:          10000,
			SoCMinPct:           10,
			SoCMaxPct:           100,
			SoCInitialPct:       50,
			ChargeEfficiency:    0.95,
			DischargeEfficiency: 0.95,
			MaxChargePowerW:     5000,
			MaxDischargePowerW:  5000,
			AllowedChargeRates:  []float64{0, 1},
		}},
		Inverters: []model.InverterParams{{
			BatteryID:        "batt1",
			MaxPowerWh:       5000,
			DCToACEfficiency: 0.95,
			ACToDCEfficiency: 0.95,
		}},
		Appliances: []model.ApplianceParams{{
			ApplianceID:    "dishwasher",
			ConsumptionWh:  1000,
			DurationH:      1,
			EarliestStartH: 0,
			LatestStartH:   2,
		}},
	}
}

func baseForecast() model.Forecast {
	return model.Forecast{
		PVWh:         []float64{0, 0, 0},
		LoadWh:       []float64{500, 500, 500},
		PriceBuyWh:   []float64{0.30, 0.30, 0.30},
		PriceSellWh:  []float64{0.08, 0.08, 0.08},
	}
}

func TestEvaluate_PenalizesUnscheduledAppliance(t *testing.T) {
	devs := baseDevices()
	fc := baseForecast()
	chromo := model.Chromosome{
		ChargeRateIdx:    [][]int{{0, 0, 0}},
		DischargeAllowed: [][]bool{{false, false, false}},
		ApplianceStart:   []int{model.UnscheduledGene},
	}
	res, err := simflow.Simulate(chromo, devs, fc)
	assert.NoError(t, err)

	b := Evaluate(res, devs, fc, model.DefaultPenaltyWeights(), nil)
	assert.Greater(t, b.ApplianceNotScheduled, 0.0)
}

func TestEvaluate_NoAppliancePenaltyWhenScheduled(t *testing.T) {
	devs := baseDevices()
	fc := baseForecast()
	chromo := model.Chromosome{
		ChargeRateIdx:    [][]int{{0, 0, 0}},
		DischargeAllowed: [][]bool{{false, false, false}},
		ApplianceStart:   []int{0},
	}
	res, err := simflow.Simulate(chromo, devs, fc)
	assert.NoError(t, err)

	b := Evaluate(res, devs, fc, model.DefaultPenaltyWeights(), nil)
	assert.InDelta(t, 0, b.ApplianceNotScheduled, 0.001)
}

func TestEvaluate_ClipPenaltyIsZeroWithoutClipping(t *testing.T) {
	devs := baseDevices()
	fc := baseForecast()
	chromo := model.Chromosome{
		ChargeRateIdx:    [][]int{{0, 0, 0}},
		DischargeAllowed: [][]bool{{false, false, false}},
		ApplianceStart:   []int{model.UnscheduledGene},
	}
	res, err := simflow.Simulate(chromo, devs, fc)
	assert.NoError(t, err)

	b := Evaluate(res, devs, fc, model.DefaultPenaltyWeights(), nil)
	assert.InDelta(t, 0, b.ClipPenalty, 0.001)
}

func TestEvaluate_NilCacheNeverPanics(t *testing.T) {
	devs := baseDevices()
	fc := baseForecast()
	chromo := model.Chromosome{
		ChargeRateIdx:    [][]int{{1, 1, 1}},
		DischargeAllowed: [][]bool{{false, false, false}},
		ApplianceStart:   []int{model.UnscheduledGene},
	}
	res, err := simflow.Simulate(chromo, devs, fc)
	assert.NoError(t, err)

	assert.NotPanics(t, func() {
		Evaluate(res, devs, fc, model.DefaultPenaltyWeights(), nil)
	})
}

func TestEvaluate_BreakEvenPenalizesExpensiveACCharge(t *testing.T) {
	devs := baseDevices()
	fc := model.Forecast{
		PVWh:        []float64{0, 0, 0},
		LoadWh:      []float64{0, 0, 0},
		PriceBuyWh:  []float64{1.0, 0.01, 0.01}, // expensive AC-charge hour, cheap future
		PriceSellWh: []float64{0, 0, 0},
	}
	chromo := model.Chromosome{
		ChargeRateIdx:    [][]int{{1, 0, 0}},
		DischargeAllowed: [][]bool{{false, false, false}},
		ApplianceStart:   []int{model.UnscheduledGene},
	}
	res, err := simflow.Simulate(chromo, devs, fc)
	assert.NoError(t, err)

	b := Evaluate(res, devs, fc, model.DefaultPenaltyWeights(), nil)
	assert.Greater(t, b.BreakEven, 0.0)
}

func TestInterpolatorCache_PutThenPlausible(t *testing.T) {
	c := NewInterpolatorCache()
	c.Put(1000, 200, 0.9)
	assert.True(t, c.Plausible(1000, 200))
	assert.False(t, c.Plausible(5000, 5000))
}

func TestInterpolatorCache_NilReceiverIsSafe(t *testing.T) {
	var c *InterpolatorCache
	assert.False(t, c.Plausible(100, 100))
}
