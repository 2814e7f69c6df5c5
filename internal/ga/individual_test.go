package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"energyplanner/internal/fitness"
	"energyplanner/internal/model"
	"energyplanner/internal/simflow"
)

func fitnessOf(total float64) fitness.Breakdown {
	return fitness.Breakdown{Total: total}
}

func TestBetter_LowerTotalWins(t *testing.T) {
	a := individual{breakdown: fitnessOf(5)}
	b := individual{breakdown: fitnessOf(10)}
	assert.True(t, better(a, b))
	assert.False(t, better(b, a))
}

func TestBetter_TiesBreakOnGridDraw(t *testing.T) {
	a := individual{breakdown: fitnessOf(5), trace: simflow.Result{Trace: []model.HourTrace{{GridDrawWh: 100}}}}
	b := individual{breakdown: fitnessOf(5), trace: simflow.Result{Trace: []model.HourTrace{{GridDrawWh: 200}}}}
	assert.True(t, better(a, b))
}

func TestBetter_TiesBreakOnACChargeThenLexOrder(t *testing.T) {
	a := individual{
		breakdown: fitnessOf(5),
		trace:     simflow.Result{Trace: []model.HourTrace{{GridDrawWh: 100, ACChargeRequestWh: 50}}},
		chromo:    model.Chromosome{ChargeRateIdx: [][]int{{0}}},
	}
	b := individual{
		breakdown: fitnessOf(5),
		trace:     simflow.Result{Trace: []model.HourTrace{{GridDrawWh: 100, ACChargeRequestWh: 50}}},
		chromo:    model.Chromosome{ChargeRateIdx: [][]int{{1}}},
	}
	assert.True(t, better(a, b))
}

func TestBest_ReturnsLowestTotal(t *testing.T) {
	pop := []individual{fitnessOnlyInd(9), fitnessOnlyInd(2), fitnessOnlyInd(7)}
	assert.InDelta(t, 2, best(pop).breakdown.Total, 1e-9)
}

func fitnessOnlyInd(total float64) individual {
	return individual{breakdown: fitnessOf(total)}
}
