package ga

import "energyplanner/internal/model"

// randomChromosome draws every gene independently, uniformly from its
// domain (§4.4 Initialisation). optHours is the §6 optimization_hours (K)
// window appliance start genes are confined to.
func randomChromosome(devs model.Devices, horizon, optHours int, r *rng) model.Chromosome {
	c := model.Chromosome{
		ChargeRateIdx:    make([][]int, len(devs.Batteries)),
		DischargeAllowed: make([][]bool, len(devs.Batteries)),
		ApplianceStart:   make([]int, len(devs.Appliances)),
	}
	for bi, bp := range devs.Batteries {
		rates := bp.SortedRates()
		c.ChargeRateIdx[bi] = make([]int, horizon)
		c.DischargeAllowed[bi] = make([]bool, horizon)
		for h := 0; h < horizon; h++ {
			c.ChargeRateIdx[bi][h] = r.intn(len(rates))
			if bp.DischargeEnabled() {
				c.DischargeAllowed[bi][h] = r.Intn(2) == 1
			}
		}
	}
	for ai, a := range devs.Appliances {
		c.ApplianceStart[ai] = randomApplianceStart(a, optHours, r)
	}
	return c
}

// biasedChromosome produces a "never AC-charge, always allow discharge"
// individual to accelerate convergence in cheap-PV scenarios (§4.4).
func biasedChromosome(devs model.Devices, horizon, optHours int, r *rng) model.Chromosome {
	c := model.Chromosome{
		ChargeRateIdx:    make([][]int, len(devs.Batteries)),
		DischargeAllowed: make([][]bool, len(devs.Batteries)),
		ApplianceStart:   make([]int, len(devs.Appliances)),
	}
	for bi, bp := range devs.Batteries {
		c.ChargeRateIdx[bi] = make([]int, horizon)
		c.DischargeAllowed[bi] = make([]bool, horizon)
		zeroIdx := zeroRateIndex(bp)
		for h := 0; h < horizon; h++ {
			c.ChargeRateIdx[bi][h] = zeroIdx
			c.DischargeAllowed[bi][h] = bp.DischargeEnabled()
		}
	}
	for ai, a := range devs.Appliances {
		c.ApplianceStart[ai] = randomApplianceStart(a, optHours, r)
	}
	return c
}

// zeroRateIndex finds the index of rate 0 in the sorted alphabet, falling
// back to the lowest rate if 0 isn't present.
func zeroRateIndex(bp model.BatteryParams) int {
	rates := bp.SortedRates()
	for i, r := range rates {
		if r == 0 {
			return i
		}
	}
	return 0
}

func randomApplianceStart(a model.ApplianceParams, optHours int, r *rng) int {
	if r.Float64() < 0.1 {
		return model.UnscheduledGene
	}
	latest := a.EffectiveLatestStartH(optHours)
	window := latest - a.EarliestStartH + 1
	return a.EarliestStartH + r.intn(window)
}

// initPopulation builds the generation-0 population: a biased fraction
// seeded toward never-AC-charge/always-discharge, the rest fully random.
func initPopulation(devs model.Devices, horizon, optHours int, params model.GAParams, r *rng) []model.Chromosome {
	pop := make([]model.Chromosome, params.PopulationSize)
	biasedCount := int(float64(params.PopulationSize) * params.BiasedInitFraction)
	for i := 0; i < params.PopulationSize; i++ {
		if i < biasedCount {
			pop[i] = biasedChromosome(devs, horizon, optHours, r)
		} else {
			pop[i] = randomChromosome(devs, horizon, optHours, r)
		}
	}
	return pop
}
