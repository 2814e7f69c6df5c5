package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyplanner/internal/ingest"
)

func TestFetchForecast_ParsesJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "6", r.URL.Query().Get("hours"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pvforecast_ac_power":[0,0,100,200,100,0],"load_wh":[50,50,50,50,50,50],"elecprice_marketprice_wh":[0.3,0.3,0.3,0.3,0.3,0.3],"feed_in_tariff_wh":[0.08,0.08,0.08,0.08,0.08,0.08]}`))
	}))
	defer srv.Close()

	raw, err := fetchForecast(srv.Client(), srv.URL, "secret", 6, 0, 0)
	require.NoError(t, err)
	assert.Len(t, raw["pvforecast_ac_power"], 6)
}

func TestFetchForecast_ErrorsOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("provider down"))
	}))
	defer srv.Close()

	_, err := fetchForecast(srv.Client(), srv.URL, "", 6, 0, 0)
	assert.Error(t, err)
}

func TestWriteForecastFile_RoundTripsThroughIngest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forecast.json")

	raw := map[string][]float64{
		"pvforecast_ac_power":     {0, 0, 500, 800, 200, 0},
		"load_wh":                 {300, 300, 300, 300, 300, 300},
		"elecprice_marketprice_wh": {0.3, 0.3, 0.3, 0.3, 0.3, 0.3},
		"feed_in_tariff_wh":       {0.08, 0.08, 0.08, 0.08, 0.08, 0.08},
	}
	require.NoError(t, writeForecastFile(path, raw))

	_, err := os.Stat(path)
	require.NoError(t, err)

	fc, err := ingest.LoadForecast(path, ingest.JSONParser{})
	require.NoError(t, err)
	assert.Len(t, fc.PVWh, 6)
}

func TestResolveFlag_PrefersFlagOverEnv(t *testing.T) {
	t.Setenv("FORECAST_TEST_VAR", "from-env")
	assert.Equal(t, "from-flag", resolveFlag("from-flag", "FORECAST_TEST_VAR"))
	assert.Equal(t, "from-env", resolveFlag("", "FORECAST_TEST_VAR"))
}
