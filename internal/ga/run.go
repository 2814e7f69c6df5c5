// Package ga implements the genetic optimizer of §4.4: the
// Init -> Evaluate -> Select -> Vary -> Evaluate -> ... -> Terminate state
// machine that searches chromosome space for the schedule minimizing
// fitness.Evaluate's output. Concurrency follows §5: fitness evaluations
// within a generation run on worker goroutines over cloned device state;
// every RNG draw affecting reproducibility happens on the caller's
// goroutine; the generation boundary is a hard barrier.
package ga

import (
	"context"
	"runtime"
	"sync"

	"energyplanner/internal/apperr"
	"energyplanner/internal/fitness"
	"energyplanner/internal/model"
	"energyplanner/internal/simflow"
)

// ProgressFunc is notified once per completed generation with the
// generation number (0 = initial population) and the current best total
// fitness, used to stream progress to a caller over the wire (§6). It is
// called synchronously on Run's goroutine at each generation barrier, so
// the next generation does not start until it returns.
type ProgressFunc func(generation int, bestFitness float64)

// Run executes one optimization from Init through Terminate (or
// Cancelled). It implements §6's optimize() entry point. cache may be nil.
func Run(ctx context.Context, params model.OptimizationParameters, cache *fitness.InterpolatorCache) (model.OptimizeResponse, error) {
	return RunWithProgress(ctx, params, cache, nil)
}

// RunWithProgress is Run with an optional per-generation progress callback.
// progress may be nil.
func RunWithProgress(ctx context.Context, params model.OptimizationParameters, cache *fitness.InterpolatorCache, progress ProgressFunc) (model.OptimizeResponse, error) {
	if err := params.Validate(); err != nil {
		return model.OptimizeResponse{}, err
	}

	horizon := params.Forecast.Horizon()
	optHours := params.EffectiveOptimizationHours()
	r := newRNG(params.GA.Seed)
	chromos := initPopulation(params.Devices, horizon, optHours, params.GA, r)

	pop, err := evaluateAll(chromos, params, cache)
	if err != nil {
		return model.OptimizeResponse{}, err
	}
	notify(progress, 0, pop)

	status := model.StatusOk
	for gen := 1; gen < params.GA.Generations; gen++ {
		select {
		case <-ctx.Done():
			status = model.StatusCancelled
		default:
		}
		if status == model.StatusCancelled {
			break
		}

		elite := eliteOf(pop, params.GA.Elitism)
		offspring := vary(pop, params.Devices, optHours, params.GA, r)
		next := append(offspring, elite...)

		pop, err = evaluateAll(next, params, cache)
		if err != nil {
			return model.OptimizeResponse{}, err
		}
		notify(progress, gen, pop)
	}

	return buildResponse(best(pop), params.Devices, status), nil
}

func notify(progress ProgressFunc, gen int, pop []individual) {
	if progress == nil {
		return
	}
	progress(gen, best(pop).breakdown.Total)
}

// eliteOf returns deep copies of the n best individuals' chromosomes, kept
// unchanged into the next generation (§4.4 Replacement).
func eliteOf(pop []individual, n int) []model.Chromosome {
	if n <= 0 {
		return nil
	}
	ranked := append([]individual(nil), pop...)
	for i := 0; i < n; i++ {
		minIdx := i
		for j := i + 1; j < len(ranked); j++ {
			if better(ranked[j], ranked[minIdx]) {
				minIdx = j
			}
		}
		ranked[i], ranked[minIdx] = ranked[minIdx], ranked[i]
	}
	out := make([]model.Chromosome, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].chromo.Clone()
	}
	return out
}

// vary produces PopulationSize-len(elite) offspring chromosomes via
// tournament selection, crossover, and mutation (§4.4 Selection/Crossover/
// Mutation). All randomness is drawn from the caller's goroutine.
func vary(pop []individual, devs model.Devices, optHours int, gaParams model.GAParams, r *rng) []model.Chromosome {
	need := gaParams.PopulationSize - gaParams.Elitism
	out := make([]model.Chromosome, 0, need)
	pMut := effectivePMutation(gaParams.PMutation, pop[0].chromo.GeneCount())

	for len(out) < need {
		p1 := tournamentSelect(pop, gaParams.TournamentK, r)
		p2 := tournamentSelect(pop, gaParams.TournamentK, r)
		c1, c2 := crossover(p1.chromo, p2.chromo, devs, optHours, gaParams.PCrossover, r)
		c1 = mutate(c1, devs, optHours, pMut, gaParams.UnscheduledMutationProb, r)
		out = append(out, c1)
		if len(out) < need {
			c2 = mutate(c2, devs, optHours, pMut, gaParams.UnscheduledMutationProb, r)
			out = append(out, c2)
		}
	}
	return out
}

// evaluateAll runs the simulator and fitness evaluator for every chromosome
// in parallel across worker goroutines, honoring the §5 generation barrier:
// this call does not return until every individual is evaluated.
func evaluateAll(chromos []model.Chromosome, params model.OptimizationParameters, cache *fitness.InterpolatorCache) ([]individual, error) {
	out := make([]individual, len(chromos))
	errs := make([]error, len(chromos))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(chromos) {
		workers = len(chromos)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				ind, err := evaluateOne(chromos[i], params, cache)
				out[i] = ind
				errs[i] = err
			}
		}()
	}
	for i := range chromos {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for _, ind := range out {
		if ind.breakdown.NaNGuard() {
			return nil, apperr.New(apperr.Internal, "NaN fitness at generation barrier")
		}
	}
	return out, nil
}

func evaluateOne(chromo model.Chromosome, params model.OptimizationParameters, cache *fitness.InterpolatorCache) (individual, error) {
	res, err := simflow.Simulate(chromo, params.Devices, params.Forecast)
	if err != nil {
		return individual{}, err
	}
	b := fitness.Evaluate(res, params.Devices, params.Forecast, params.Penalty, cache)
	return individual{chromo: chromo, breakdown: b, trace: res}, nil
}
