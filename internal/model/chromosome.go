package model

// Chromosome is a fully decoded set of per-hour, per-device genes for one
// candidate schedule (§3). Gene slices are indexed in the same order as the
// Devices.Batteries / Devices.Appliances slices they decode against.
type Chromosome struct {
	// ChargeRateIdx[b][h] indexes into Batteries[b].AllowedChargeRates for
	// hour h: the AC-charge rate applied to battery b during hour h.
	ChargeRateIdx [][]int
	// DischargeAllowed[b][h] is the discharge-permission bit for hour h of
	// battery b. A row exists for every battery, but it is meaningful only
	// when Batteries[b].DischargeEnabled().
	DischargeAllowed [][]bool
	// ApplianceStart[a] is the chosen start hour for appliance a, or
	// model.UnscheduledGene.
	ApplianceStart []int
}

// Clone returns a deep copy, used by the GA when producing offspring.
func (c Chromosome) Clone() Chromosome {
	out := Chromosome{
		ChargeRateIdx:    make([][]int, len(c.ChargeRateIdx)),
		DischargeAllowed: make([][]bool, len(c.DischargeAllowed)),
		ApplianceStart:   append([]int(nil), c.ApplianceStart...),
	}
	for i, row := range c.ChargeRateIdx {
		out.ChargeRateIdx[i] = append([]int(nil), row...)
	}
	for i, row := range c.DischargeAllowed {
		out.DischargeAllowed[i] = append([]bool(nil), row...)
	}
	return out
}

// GeneCount returns the total flat gene length L, used to size the default
// per-gene mutation probability 1/L.
func (c Chromosome) GeneCount() int {
	n := 0
	for _, row := range c.ChargeRateIdx {
		n += len(row)
	}
	for _, row := range c.DischargeAllowed {
		n += len(row)
	}
	n += len(c.ApplianceStart)
	return n
}

// Devices bundles the device lists a chromosome is decoded against.
type Devices struct {
	Batteries  []BatteryParams
	Inverters  []InverterParams
	Appliances []ApplianceParams
}

// InverterFor returns the inverter coupled to the given battery, if any.
func (d Devices) InverterFor(batteryID string) (InverterParams, bool) {
	for _, inv := range d.Inverters {
		if inv.BatteryID == batteryID {
			return inv, true
		}
	}
	return InverterParams{}, false
}

// GAParams holds the genetic optimizer's knobs (§4.4, §6).
type GAParams struct {
	PopulationSize          int     `yaml:"population_size"`
	Generations             int     `yaml:"generations"`
	PCrossover              float64 `yaml:"p_cx"`
	PMutation               float64 `yaml:"p_mut"` // 0 means "use default 1/L"
	TournamentK             int     `yaml:"tournament_k"`
	Elitism                 int     `yaml:"elitism"`
	Seed                    int64   `yaml:"seed"`
	BiasedInitFraction      float64 `yaml:"biased_init_fraction"`
	UnscheduledMutationProb float64 `yaml:"unscheduled_mutation_prob"`
}

// DefaultGAParams mirrors the documented defaults of §4.4.
func DefaultGAParams() GAParams {
	return GAParams{
		PopulationSize:          300,
		Generations:             400,
		PCrossover:              0.7,
		PMutation:               0, // resolved to 1/L at run time
		TournamentK:             3,
		Elitism:                 1,
		Seed:                    1,
		BiasedInitFraction:      0.05,
		UnscheduledMutationProb: 0.1,
	}
}

// PenaltyWeights holds the fitness evaluator's configurable weights (§4.3).
// Defaults preserve the documented ordering appliance >> SOC target >>
// break-even >> clip.
type PenaltyWeights struct {
	ApplianceNotScheduled float64 `yaml:"appliance_not_scheduled"`
	SoCTargetPerWh        float64 `yaml:"soc_target_per_wh"` // the "k" factor of §4.3
	ClipPerWh             float64 `yaml:"clip_per_wh"`       // the "k_clip" factor of §4.3
}

func DefaultPenaltyWeights() PenaltyWeights {
	return PenaltyWeights{
		ApplianceNotScheduled: 10.0,
		SoCTargetPerWh:        1.0,
		ClipPerWh:             0.01,
	}
}

// OptimizationParameters bundles everything one optimization run needs (§6).
type OptimizationParameters struct {
	Forecast          Forecast
	Devices           Devices
	GA                GAParams
	Penalty           PenaltyWeights
	PredictionHours   int // H; must equal all forecast vector lengths
	OptimizationHours int // K <= H; appliance scheduling window cap, enforced via ApplianceParams.EffectiveLatestStartH
}

// EffectiveOptimizationHours resolves K against the forecast horizon: 0 (or
// unset) means no narrower window was configured, so the full horizon H
// applies.
func (p OptimizationParameters) EffectiveOptimizationHours() int {
	if p.OptimizationHours > 0 {
		return p.OptimizationHours
	}
	return p.Forecast.Horizon()
}

// Validate checks §7's InvalidInput/InvalidParameters conditions that must
// be raised before the first generation.
func (p OptimizationParameters) Validate() error {
	if err := p.Forecast.Validate(); err != nil {
		return err
	}
	h := p.Forecast.Horizon()
	if p.PredictionHours != 0 && p.PredictionHours != h {
		return invalidInputf("prediction_hours (%d) does not match forecast horizon (%d)", p.PredictionHours, h)
	}
	if p.OptimizationHours < 0 {
		return invalidInputf("optimization_hours (%d) must not be negative", p.OptimizationHours)
	}
	if p.OptimizationHours > h {
		return invalidInputf("optimization_hours (%d) exceeds horizon (%d)", p.OptimizationHours, h)
	}
	if len(p.Devices.Batteries) == 0 {
		return invalidInputf("at least one battery is required")
	}
	seen := make(map[string]bool, len(p.Devices.Batteries))
	for _, b := range p.Devices.Batteries {
		if err := b.Validate(); err != nil {
			return err
		}
		if seen[b.DeviceID] {
			return invalidInputf("duplicate battery device_id %q", b.DeviceID)
		}
		seen[b.DeviceID] = true
	}
	for _, inv := range p.Devices.Inverters {
		if err := inv.Validate(); err != nil {
			return err
		}
		if !seen[inv.BatteryID] {
			return invalidInputf("inverter references unknown battery_id %q", inv.BatteryID)
		}
	}
	if len(p.Devices.Inverters) != len(p.Devices.Batteries) {
		return invalidInputf("every battery must have exactly one coupled inverter")
	}
	for _, a := range p.Devices.Appliances {
		if err := a.Validate(h); err != nil {
			return err
		}
	}
	return p.GA.validate()
}

func (g GAParams) validate() error {
	if g.PopulationSize < 2 {
		return invalidParamsf("ga.population_size must be >= 2, got %d", g.PopulationSize)
	}
	if g.Generations < 1 {
		return invalidParamsf("ga.generations must be >= 1, got %d", g.Generations)
	}
	if g.PCrossover < 0 || g.PCrossover > 1 {
		return invalidParamsf("ga.p_cx must lie in [0,1], got %f", g.PCrossover)
	}
	if g.PMutation < 0 || g.PMutation > 1 {
		return invalidParamsf("ga.p_mut must lie in [0,1], got %f", g.PMutation)
	}
	if g.TournamentK < 1 || g.TournamentK > g.PopulationSize {
		return invalidParamsf("ga.tournament_k must lie in [1,population_size], got %d", g.TournamentK)
	}
	if g.Elitism < 0 || g.Elitism >= g.PopulationSize {
		return invalidParamsf("ga.elitism must lie in [0,population_size), got %d", g.Elitism)
	}
	return nil
}
