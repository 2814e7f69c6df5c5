// Command planner is the primary CLI entry point: load a config file, load
// or synthesize a forecast, run the genetic optimizer once, and print the
// result (optionally publishing it to MQTT and/or pushing it straight to
// inverter hardware). Adapted from brianmickel-battery-backtest's cmd/api
// wiring pattern, collapsed from an HTTP server to a single run-and-exit
// invocation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"energyplanner/internal/actuate"
	"energyplanner/internal/config"
	"energyplanner/internal/fitness"
	"energyplanner/internal/forecast"
	"energyplanner/internal/ga"
	"energyplanner/internal/ingest"
	"energyplanner/internal/model"
	"energyplanner/internal/publish"
)

func main() {
	configPath := flag.String("config", "config.yaml", "planner config file")
	synthesize := flag.Bool("synthesize-forecast", false, "synthesize a forecast from -lat/-lon/-peak-wp instead of reading config's forecast_file")
	lat := flag.Float64("lat", 52.5, "site latitude, used only with -synthesize-forecast")
	lon := flag.Float64("lon", 13.4, "site longitude, used only with -synthesize-forecast")
	peakWp := flag.Float64("peak-wp", 5000, "PV array peak power in watts, used only with -synthesize-forecast")
	baseLoadWh := flag.Float64("base-load-wh", 400, "average hourly household load in Wh, used only with -synthesize-forecast")
	publishMQTT := flag.Bool("publish", false, "publish the resulting schedule to the config's MQTT broker")
	applyTCP := flag.String("apply-tcp", "", "push the resulting schedule straight to an inverter at this Modbus TCP address")
	outputPath := flag.String("output", "", "write the full OptimizeResponse as JSON to this path (default: stdout)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	log.Print(cfg)

	fc, err := loadOrSynthesizeForecast(cfg, *synthesize, *lat, *lon, *peakWp, *baseLoadWh)
	if err != nil {
		log.Fatalf("loading forecast: %v", err)
	}

	params := model.OptimizationParameters{
		Forecast:          fc,
		Devices:           cfg.Devices(),
		GA:                cfg.GA,
		Penalty:           cfg.Penalty,
		PredictionHours:   cfg.PredictionHours,
		OptimizationHours: cfg.OptimizationHours,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ipc := fitness.NewInterpolatorCache()
	resp, err := ga.RunWithProgress(ctx, params, ipc, logProgress)
	if err != nil {
		log.Fatalf("optimization failed: %v", err)
	}
	log.Printf("done: status=%s fitness=%.4f total_cost=%.4f", resp.Status, resp.Fitness, resp.Totals.TotalCost)

	if err := writeResult(resp, *outputPath); err != nil {
		log.Fatalf("writing result: %v", err)
	}

	if *publishMQTT {
		if err := publishSchedule(cfg, resp.Schedule); err != nil {
			log.Fatalf("publishing schedule: %v", err)
		}
	}

	if *applyTCP != "" {
		if err := applySchedule(*applyTCP, resp.Schedule); err != nil {
			log.Fatalf("applying schedule to inverter: %v", err)
		}
	}
}

func logProgress(generation int, bestFitness float64) {
	log.Printf("generation %d: best fitness %.4f", generation, bestFitness)
}

func loadOrSynthesizeForecast(cfg *config.Config, synth bool, lat, lon, peakWp, baseLoadWh float64) (model.Forecast, error) {
	if synth {
		site := forecast.Site{Latitude: lat, Longitude: lon, PeakWp: peakWp, BaseLoadWh: baseLoadWh}
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return forecast.Synthesize(site, midnight, now.Hour(), cfg.PredictionHours, 0.30, 0.08), nil
	}
	if cfg.ForecastFile == "" {
		return model.Forecast{}, fmt.Errorf("config has no forecast_file set; pass -synthesize-forecast instead")
	}
	var p ingest.Parser = ingest.JSONParser{}
	if strings.HasSuffix(cfg.ForecastFile, ".csv") {
		p = ingest.CSVParser{}
	}
	return ingest.LoadForecast(cfg.ForecastFile, p)
}

func writeResult(resp model.OptimizeResponse, path string) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}

func publishSchedule(cfg *config.Config, sched model.Schedule) error {
	p, err := publish.Connect(cfg.MQTT)
	if err != nil {
		return err
	}
	defer p.Close()
	return p.PublishSchedule(sched)
}

func applySchedule(tcpAddr string, sched model.Schedule) error {
	client, err := actuate.DialTCP(tcpAddr, 1)
	if err != nil {
		return err
	}
	defer client.Close()

	for batteryID, hours := range sched.Batteries {
		for _, h := range hours {
			if err := client.ApplyHour(h); err != nil {
				return fmt.Errorf("battery %s hour %d: %w", batteryID, h.Hour, err)
			}
		}
	}
	return nil
}
