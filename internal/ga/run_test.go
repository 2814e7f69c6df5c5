package ga

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyplanner/internal/model"
)

func testParams() model.OptimizationParameters {
	devs := model.Devices{
		Batteries: []model.BatteryParams{{
			DeviceID:            "batt1",
			CapacityWh:          5000,
			SoCMinPct:           10,
			SoCMaxPct:           100,
			SoCInitialPct:       50,
			ChargeEfficiency:    0.95,
			DischargeEfficiency: 0.95,
			MaxChargePowerW:     3000,
			MaxDischargePowerW:  3000,
			AllowedChargeRates:  []float64{0, 0.5, 1},
		}},
		Inverters: []model.InverterParams{{
			BatteryID:        "batt1",
			MaxPowerWh:       3000,
			DCToACEfficiency: 0.95,
			ACToDCEfficiency: 0.95,
		}},
	}
	fc := model.Forecast{
		PVWh:        []float64{0, 0, 2000, 2000, 0, 0},
		LoadWh:      []float64{500, 500, 300, 300, 800, 800},
		PriceBuyWh:  []float64{0.1, 0.1, 0.3, 0.3, 0.4, 0.4},
		PriceSellWh: []float64{0.05, 0.05, 0.05, 0.05, 0.05, 0.05},
	}
	gaParams := model.GAParams{
		PopulationSize: 12,
		Generations:    5,
		PCrossover:     0.7,
		PMutation:      0,
		TournamentK:    3,
		Elitism:        1,
		Seed:           42,
	}
	return model.OptimizationParameters{
		Forecast: fc,
		Devices:  devs,
		GA:       gaParams,
		Penalty:  model.DefaultPenaltyWeights(),
	}
}

func TestRun_DeterministicGivenSameSeed(t *testing.T) {
	params := testParams()
	r1, err := Run(context.Background(), params, nil)
	require.NoError(t, err)
	r2, err := Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.InDelta(t, r1.Fitness, r2.Fitness, 1e-9)
	assert.Equal(t, r1.Schedule, r2.Schedule)
}

func TestRun_ReturnsOkStatusWithoutCancellation(t *testing.T) {
	params := testParams()
	res, err := Run(context.Background(), params, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOk, res.Status)
}

func TestRun_CancelledContextReturnsBestSoFar(t *testing.T) {
	params := testParams()
	params.GA.Generations = 400
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, params, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, res.Status)
}

func TestRun_RejectsInvalidParameters(t *testing.T) {
	params := testParams()
	params.GA.PopulationSize = 1
	_, err := Run(context.Background(), params, nil)
	assert.Error(t, err)
}

func TestRun_MoreGenerationsNeverWorsensFitness(t *testing.T) {
	short := testParams()
	short.GA.Generations = 2
	long := testParams()
	long.GA.Generations = 20

	rShort, err := Run(context.Background(), short, nil)
	require.NoError(t, err)
	rLong, err := Run(context.Background(), long, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, rLong.Fitness, rShort.Fitness+1e-6)
}
