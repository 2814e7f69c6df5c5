package ga

import "energyplanner/internal/model"

// tournamentSelect samples k distinct individuals and returns the best
// (§4.4 Selection). Population is assumed deduplicated by index, not value.
func tournamentSelect(pop []individual, k int, r *rng) individual {
	idx := r.Perm(len(pop))[:k]
	winner := pop[idx[0]]
	for _, i := range idx[1:] {
		if better(pop[i], winner) {
			winner = pop[i]
		}
	}
	return winner
}

// crossover performs two-parent uniform crossover on the flat gene arrays
// (§4.4). Appliance start-hour genes use the arithmetic midpoint rounded to
// the nearest legal hour instead of a uniform swap.
func crossover(a, b model.Chromosome, devs model.Devices, optHours int, pCx float64, r *rng) (model.Chromosome, model.Chromosome) {
	if r.Float64() >= pCx {
		return a.Clone(), b.Clone()
	}
	childA, childB := a.Clone(), b.Clone()

	for bi := range a.ChargeRateIdx {
		for h := range a.ChargeRateIdx[bi] {
			if r.Intn(2) == 0 {
				childA.ChargeRateIdx[bi][h], childB.ChargeRateIdx[bi][h] = b.ChargeRateIdx[bi][h], a.ChargeRateIdx[bi][h]
			}
		}
	}
	for bi := range a.DischargeAllowed {
		for h := range a.DischargeAllowed[bi] {
			if r.Intn(2) == 0 {
				childA.DischargeAllowed[bi][h], childB.DischargeAllowed[bi][h] = b.DischargeAllowed[bi][h], a.DischargeAllowed[bi][h]
			}
		}
	}
	for ai, ap := range devs.Appliances {
		childA.ApplianceStart[ai] = applianceMidpoint(a.ApplianceStart[ai], b.ApplianceStart[ai], ap, optHours)
		childB.ApplianceStart[ai] = childA.ApplianceStart[ai]
	}
	return childA, childB
}

// applianceMidpoint computes the arithmetic midpoint of two start-hour
// genes, clamped to the appliance's legal window as narrowed by optHours
// (§6 optimization_hours, K). The unscheduled sentinel counts as "no
// preference": if either parent is unscheduled, the other parent's value (or
// unscheduled, if both are) is used directly.
func applianceMidpoint(x, y int, a model.ApplianceParams, optHours int) int {
	if x == model.UnscheduledGene && y == model.UnscheduledGene {
		return model.UnscheduledGene
	}
	if x == model.UnscheduledGene {
		return y
	}
	if y == model.UnscheduledGene {
		return x
	}
	mid := (x + y + 1) / 2 // round to nearest, ties up
	latest := a.EffectiveLatestStartH(optHours)
	if mid < a.EarliestStartH {
		mid = a.EarliestStartH
	}
	if mid > latest {
		mid = latest
	}
	return mid
}

// mutate applies per-gene independent mutation with probability pMut
// (§4.4). Rate-index genes redraw uniformly; discharge bits flip;
// appliance starts resample within their window, with the unscheduled
// sentinel drawn at unscheduledProb.
func mutate(c model.Chromosome, devs model.Devices, optHours int, pMut, unscheduledProb float64, r *rng) model.Chromosome {
	out := c.Clone()
	for bi, bp := range devs.Batteries {
		rates := bp.SortedRates()
		for h := range out.ChargeRateIdx[bi] {
			if r.Float64() < pMut {
				out.ChargeRateIdx[bi][h] = r.intn(len(rates))
			}
			if bp.DischargeEnabled() && r.Float64() < pMut {
				out.DischargeAllowed[bi][h] = !out.DischargeAllowed[bi][h]
			}
		}
	}
	for ai, a := range devs.Appliances {
		if r.Float64() < pMut {
			if r.Float64() < unscheduledProb {
				out.ApplianceStart[ai] = model.UnscheduledGene
			} else {
				latest := a.EffectiveLatestStartH(optHours)
				window := latest - a.EarliestStartH + 1
				out.ApplianceStart[ai] = a.EarliestStartH + r.intn(window)
			}
		}
	}
	return out
}

// effectivePMutation resolves the configured p_mut, defaulting to 1/L
// (§4.4) when the caller leaves it at zero.
func effectivePMutation(configured float64, geneCount int) float64 {
	if configured > 0 {
		return configured
	}
	if geneCount == 0 {
		return 0
	}
	return 1.0 / float64(geneCount)
}
