// Command forecast-import fetches a forecast from a remote provider (a
// solar-forecast / day-ahead-price HTTP API) and writes it to disk in the
// flat JSON shape internal/ingest.JSONParser understands, so cmd/planner can
// run against it without a network round-trip on every invocation. Adapted
// from the teacher's cmd/ha-fetch-history, which polled Home Assistant's
// history API and wrote weekly CSVs; this tool fetches one forecast window
// from one HTTP endpoint and writes one JSON file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"energyplanner/internal/ingest"
)

func main() {
	urlFlag := flag.String("url", "", "forecast provider base URL (overrides FORECAST_URL)")
	tokenFlag := flag.String("token", "", "provider API token (overrides FORECAST_TOKEN)")
	outputFlag := flag.String("output", "input/forecast.json", "output forecast file path")
	hoursFlag := flag.Int("hours", 48, "forecast horizon in hours to request")
	latFlag := flag.Float64("lat", 0, "site latitude, passed through to the provider")
	lonFlag := flag.Float64("lon", 0, "site longitude, passed through to the provider")
	timeoutFlag := flag.Duration("timeout", 15*time.Second, "HTTP request timeout")
	flag.Parse()

	_ = godotenv.Load()

	baseURL := resolveFlag(*urlFlag, "FORECAST_URL")
	if baseURL == "" {
		log.Fatal("forecast provider URL not set: pass -url or set FORECAST_URL")
	}
	token := resolveFlag(*tokenFlag, "FORECAST_TOKEN")

	client := &http.Client{Timeout: *timeoutFlag}

	raw, err := fetchForecast(client, baseURL, token, *hoursFlag, *latFlag, *lonFlag)
	if err != nil {
		log.Fatalf("fetching forecast: %v", err)
	}

	if err := writeForecastFile(*outputFlag, raw); err != nil {
		log.Fatalf("writing %s: %v", *outputFlag, err)
	}

	// Round-trip through the real parser so a malformed provider response is
	// caught here instead of at the next planner run.
	if _, err := ingest.LoadForecast(*outputFlag, ingest.JSONParser{}); err != nil {
		log.Fatalf("fetched forecast failed validation: %v", err)
	}

	log.Printf("wrote forecast for %d keys, %d hours, to %s", len(raw), *hoursFlag, *outputFlag)
}

// fetchForecast requests hours of forecast data from a provider's JSON API
// and returns the flat key -> []float64 shape ingest.JSONParser expects.
// The provider is expected to respond with the same shape already, which
// covers both a from-scratch forecast microservice and a passthrough proxy
// in front of a third-party provider.
func fetchForecast(client *http.Client, baseURL, token string, hours int, lat, lon float64) (map[string][]float64, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing provider URL: %w", err)
	}
	q := u.Query()
	q.Set("hours", strconv.Itoa(hours))
	if lat != 0 || lon != 0 {
		q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("provider returned %s: %s", resp.Status, body)
	}

	var raw map[string][]float64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding provider response: %w", err)
	}
	return raw, nil
}

func writeForecastFile(path string, raw map[string][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

func resolveFlag(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}
