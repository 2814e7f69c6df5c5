// Command scenario-compare runs the optimizer once per battery capacity in
// a sweep and prints a comparison table, adapted from the teacher's
// cmd/battery-compare (which swept capacities against a fixed simulation
// engine instead of an optimizer).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"energyplanner/internal/config"
	"energyplanner/internal/fitness"
	"energyplanner/internal/ga"
	"energyplanner/internal/ingest"
	"energyplanner/internal/model"
)

type scenarioResult struct {
	capacityWh float64
	fitness    float64
	totalCost  float64
	gridDrawWh float64
}

func main() {
	configPath := flag.String("config", "config.yaml", "planner config file")
	capsFlag := flag.String("capacities-wh", "2000,4000,6000,8000,10000", "comma-separated battery capacities in Wh to compare")
	flag.Parse()

	capacities, err := parseCapacities(*capsFlag)
	if err != nil {
		log.Fatalf("invalid capacities: %v", err)
	}
	sort.Float64s(capacities)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if len(cfg.Batteries) == 0 {
		log.Fatal("config must define at least one battery to sweep")
	}

	fc, err := loadForecast(cfg)
	if err != nil {
		log.Fatalf("loading forecast: %v", err)
	}

	ipc := fitness.NewInterpolatorCache()
	results := make([]scenarioResult, 0, len(capacities))
	for _, capWh := range capacities {
		devs := cfg.Devices()
		devs.Batteries = cloneBatteries(devs.Batteries)
		devs.Batteries[0].CapacityWh = capWh

		params := model.OptimizationParameters{
			Forecast: fc,
			Devices:  devs,
			GA:       cfg.GA,
			Penalty:  cfg.Penalty,
		}

		resp, err := ga.Run(context.Background(), params, ipc)
		if err != nil {
			log.Printf("capacity %.0f Wh: run failed: %v", capWh, err)
			continue
		}

		results = append(results, scenarioResult{
			capacityWh: capWh,
			fitness:    resp.Fitness,
			totalCost:  resp.Totals.TotalCost,
			gridDrawWh: gridDrawTotal(resp),
		})
		fmt.Fprintf(os.Stderr, "  %.0f Wh done\n", capWh)
	}

	printTable(results)
}

func gridDrawTotal(resp model.OptimizeResponse) float64 {
	var total float64
	for _, h := range resp.Trace {
		total += h.GridDrawWh
	}
	return total
}

func cloneBatteries(in []model.BatteryParams) []model.BatteryParams {
	out := make([]model.BatteryParams, len(in))
	copy(out, in)
	return out
}

func loadForecast(cfg *config.Config) (model.Forecast, error) {
	if cfg.ForecastFile == "" {
		return model.Forecast{}, fmt.Errorf("config has no forecast_file set")
	}
	var p ingest.Parser = ingest.JSONParser{}
	if strings.HasSuffix(cfg.ForecastFile, ".csv") {
		p = ingest.CSVParser{}
	}
	return ingest.LoadForecast(cfg.ForecastFile, p)
}

func printTable(results []scenarioResult) {
	if len(results) == 0 {
		fmt.Println("no successful runs")
		return
	}

	fmt.Println()
	fmt.Println("Battery Capacity Comparison")
	fmt.Println()
	fmt.Printf(" %10s │ %10s │ %12s │ %10s\n", "Capacity", "Fitness", "Total Cost", "Grid Draw")
	fmt.Println("────────────┼────────────┼──────────────┼────────────")

	for i, r := range results {
		marginal := "-"
		if i > 0 {
			dCap := r.capacityWh - results[i-1].capacityWh
			if dCap > 0 {
				dCost := results[i-1].totalCost - r.totalCost
				marginal = fmt.Sprintf("%.4f/Wh", dCost/dCap)
			}
		}
		fmt.Printf(" %7.0f Wh │ %10.4f │ %10.4f   │ %7.0f Wh (%s)\n",
			r.capacityWh, r.fitness, r.totalCost, r.gridDrawWh, marginal)
	}
	fmt.Println()
}

func parseCapacities(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	caps := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("capacity must be positive, got %v", v)
		}
		caps = append(caps, v)
	}
	if len(caps) == 0 {
		return nil, fmt.Errorf("no capacities specified")
	}
	return caps, nil
}
