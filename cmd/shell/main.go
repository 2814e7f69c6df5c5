// Command shell is an interactive REPL for running and inspecting
// optimizations without re-invoking cmd/planner for every tweak. Grounded on
// ryansname-powerctl's debug_worker.go readline loop: a persistent-history
// readline.Instance feeding a command dispatcher, with log output redirected
// through a readline-aware writer so prompt and printed lines never collide.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"energyplanner/internal/config"
	"energyplanner/internal/fitness"
	"energyplanner/internal/ga"
	"energyplanner/internal/ingest"
	"energyplanner/internal/model"
)

func loadForecastFile(path string) (model.Forecast, error) {
	var p ingest.Parser = ingest.JSONParser{}
	if strings.HasSuffix(path, ".csv") {
		p = ingest.CSVParser{}
	}
	return ingest.LoadForecast(path, p)
}

// readlineWriter redirects log output through readline.Clean/Refresh so
// log lines never land mid-prompt.
type readlineWriter struct {
	rl *readline.Instance
}

func (w *readlineWriter) Write(p []byte) (int, error) {
	if w.rl != nil {
		w.rl.Clean()
	}
	n, err := os.Stderr.Write(p)
	if w.rl != nil {
		w.rl.Refresh()
	}
	return n, err
}

// shellState holds the REPL's working config and the most recent run, so
// "show" can inspect the last result without re-running anything.
type shellState struct {
	cfg      *config.Config
	lastResp *model.OptimizeResponse
	ipc      *fitness.InterpolatorCache
}

func main() {
	configPath := flag.String("config", "config.yaml", "planner config file to load at startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "planner> ",
		HistoryFile: historyFilePath(),
	})
	if err != nil {
		log.Fatalf("readline init failed: %v", err)
	}
	defer rl.Close()

	writer := &readlineWriter{rl: rl}
	log.SetOutput(writer)

	state := &shellState{cfg: cfg, ipc: fitness.NewInterpolatorCache()}

	fmt.Println("planner shell — type 'help' for commands, Ctrl+D to exit")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil { // io.EOF or other terminal error
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		dispatch(line, state)
	}
}

func dispatch(line string, state *shellState) {
	parts := strings.Fields(line)
	switch parts[0] {
	case "help":
		printHelp()
	case "reload":
		handleReload(parts[1:], state)
	case "run":
		handleRun(parts[1:], state)
	case "show":
		handleShow(state)
	case "set":
		handleSet(parts[1:], state)
	case "exit", "quit":
		os.Exit(0)
	default:
		log.Printf("unknown command: %s (try 'help')", parts[0])
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  run [seconds]          - run one optimization (default timeout 60s)")
	fmt.Println("  show                   - print the last run's totals and fitness")
	fmt.Println("  set generations <n>    - override GA generation count for future runs")
	fmt.Println("  set population <n>     - override GA population size for future runs")
	fmt.Println("  reload <path>          - reload config from a new file")
	fmt.Println("  help                   - show this help")
	fmt.Println("  exit                   - quit")
}

func handleReload(args []string, state *shellState) {
	if len(args) != 1 {
		log.Println("usage: reload <config-path>")
		return
	}
	cfg, err := config.Load(args[0])
	if err != nil {
		log.Printf("reload failed: %v", err)
		return
	}
	state.cfg = cfg
	log.Printf("reloaded %s", args[0])
}

func handleRun(args []string, state *shellState) {
	if state.cfg.ForecastFile == "" {
		log.Println("config has no forecast_file set")
		return
	}

	timeoutSec := 60
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			log.Println("usage: run [timeout-seconds]")
			return
		}
		timeoutSec = n
	}

	fc, err := loadForecastFile(state.cfg.ForecastFile)
	if err != nil {
		log.Printf("loading forecast: %v", err)
		return
	}

	params := model.OptimizationParameters{
		Forecast:          fc,
		Devices:           state.cfg.Devices(),
		GA:                state.cfg.GA,
		Penalty:           state.cfg.Penalty,
		PredictionHours:   state.cfg.PredictionHours,
		OptimizationHours: state.cfg.OptimizationHours,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	resp, err := ga.RunWithProgress(ctx, params, state.ipc, func(gen int, best float64) {
		log.Printf("generation %d: best fitness %.4f", gen, best)
	})
	if err != nil {
		log.Printf("run failed: %v", err)
		return
	}
	state.lastResp = &resp
	log.Printf("done: status=%s fitness=%.4f", resp.Status, resp.Fitness)
}

func handleShow(state *shellState) {
	if state.lastResp == nil {
		log.Println("no run yet — try 'run'")
		return
	}
	r := state.lastResp
	fmt.Printf("status:       %s\n", r.Status)
	fmt.Printf("fitness:      %.4f\n", r.Fitness)
	fmt.Printf("total cost:   %.4f\n", r.Totals.TotalCost)
	fmt.Printf("total losses: %.1f Wh\n", r.Totals.TotalLossesWh)
	for _, b := range r.Totals.Batteries {
		fmt.Printf("  battery %-12s final_soc=%.1f%% charge=%.0fWh discharge=%.0fWh\n",
			b.DeviceID, b.FinalSoCPct, b.TotalChargeWh, b.TotalDischargeWh)
	}
}

func handleSet(args []string, state *shellState) {
	if len(args) != 2 {
		log.Println("usage: set <generations|population> <n>")
		return
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n <= 0 {
		log.Printf("invalid value %q", args[1])
		return
	}
	switch args[0] {
	case "generations":
		state.cfg.GA.Generations = n
	case "population":
		state.cfg.GA.PopulationSize = n
	default:
		log.Printf("unknown setting %q", args[0])
		return
	}
	log.Printf("set %s = %d", args[0], n)
}

func historyFilePath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(cacheDir, "planner")
	_ = os.MkdirAll(dir, 0o750)
	return filepath.Join(dir, "shell_history")
}
