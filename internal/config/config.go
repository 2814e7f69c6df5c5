// Package config loads the planner's on-disk YAML configuration. Load also
// loads a .env file into the process environment via godotenv when one is
// present; no config field is read from the environment, so every setting
// comes from the YAML file. Adapted from brianmickel-battery-backtest's
// internal/config/config.go Load/LoadUnchecked/Validate pattern.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"energyplanner/internal/apperr"
	"energyplanner/internal/model"
	"energyplanner/internal/publish"
)

// Config is the on-disk configuration shape.
type Config struct {
	PredictionHours   int                  `yaml:"prediction_hours"`
	OptimizationHours int                  `yaml:"optimization_hours"`
	GA                model.GAParams       `yaml:"ga"`
	Penalty           model.PenaltyWeights `yaml:"penalty"`
	Batteries         []model.BatteryParams  `yaml:"batteries"`
	Inverters         []model.InverterParams `yaml:"inverters"`
	Appliances        []model.ApplianceParams `yaml:"appliances"`
	MQTT              publish.Config       `yaml:"mqtt"`
	ForecastFile      string               `yaml:"forecast_file"`
}

// Load reads .env (if present, missing is not an error), reads the YAML
// file at path, applies defaults, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	applyDefaults(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads and parses the YAML file without validating it or
// filling in defaults, useful for inspecting a partially-written config.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "read config file", err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "parse config yaml", err)
	}
	return &c, nil
}

// applyDefaults fills GA/penalty knobs left at their zero value with the
// documented defaults of §4.4/§4.3, so a config only needs to mention the
// knobs it wants to override.
func applyDefaults(c *Config) {
	d := model.DefaultGAParams()
	if c.GA.PopulationSize == 0 {
		c.GA.PopulationSize = d.PopulationSize
	}
	if c.GA.Generations == 0 {
		c.GA.Generations = d.Generations
	}
	if c.GA.PCrossover == 0 {
		c.GA.PCrossover = d.PCrossover
	}
	if c.GA.TournamentK == 0 {
		c.GA.TournamentK = d.TournamentK
	}
	if c.GA.Elitism == 0 {
		c.GA.Elitism = d.Elitism
	}
	if c.GA.BiasedInitFraction == 0 {
		c.GA.BiasedInitFraction = d.BiasedInitFraction
	}
	if c.GA.UnscheduledMutationProb == 0 {
		c.GA.UnscheduledMutationProb = d.UnscheduledMutationProb
	}

	dp := model.DefaultPenaltyWeights()
	if c.Penalty.ApplianceNotScheduled == 0 {
		c.Penalty.ApplianceNotScheduled = dp.ApplianceNotScheduled
	}
	if c.Penalty.SoCTargetPerWh == 0 {
		c.Penalty.SoCTargetPerWh = dp.SoCTargetPerWh
	}
	if c.Penalty.ClipPerWh == 0 {
		c.Penalty.ClipPerWh = dp.ClipPerWh
	}
}

// Validate checks the device lists that don't depend on the forecast: at
// least one battery, one inverter per battery, and each battery's and
// inverter's own parameters. GA knobs and appliances are not checked here;
// model.OptimizationParameters.Validate checks them once a forecast is
// supplied.
func (c *Config) Validate() error {
	if len(c.Batteries) == 0 {
		return apperr.New(apperr.InvalidInput, "config: at least one battery is required")
	}
	if len(c.Inverters) != len(c.Batteries) {
		return apperr.New(apperr.InvalidInput, "config: every battery must have exactly one coupled inverter")
	}
	for _, b := range c.Batteries {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	for _, inv := range c.Inverters {
		if err := inv.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Devices assembles the model.Devices bundle from the loaded config.
func (c *Config) Devices() model.Devices {
	return model.Devices{Batteries: c.Batteries, Inverters: c.Inverters, Appliances: c.Appliances}
}

// String renders the config for debug logging without secrets.
func (c *Config) String() string {
	return fmt.Sprintf("Config{batteries=%d inverters=%d appliances=%d generations=%d population=%d}",
		len(c.Batteries), len(c.Inverters), len(c.Appliances), c.GA.Generations, c.GA.PopulationSize)
}
