package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyplanner/internal/cache"
	"energyplanner/internal/fitness"
	"energyplanner/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testOptimizeRequest() OptimizeRequest {
	return OptimizeRequest{
		Forecast: model.Forecast{
			PVWh:        []float64{0, 0, 500, 800, 200, 0},
			LoadWh:      []float64{300, 300, 300, 300, 300, 300},
			PriceBuyWh:  []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3},
			PriceSellWh: []float64{0.08, 0.08, 0.08, 0.08, 0.08, 0.08},
		},
		Devices: model.Devices{
			Batteries: []model.BatteryParams{{
				DeviceID: "b1", CapacityWh: 2000, SoCMinPct: 10, SoCMaxPct: 95,
				SoCInitialPct: 50, ChargeEfficiency: 0.95, DischargeEfficiency: 0.95,
				MaxChargePowerW: 1000, MaxDischargePowerW: 1000, AllowedChargeRates: []float64{0, 1},
			}},
			Inverters: []model.InverterParams{{
				BatteryID: "b1", MaxPowerWh: 2000, DCToACEfficiency: 0.95, ACToDCEfficiency: 0.95,
			}},
		},
		GA: model.GAParams{PopulationSize: 8, Generations: 3, Seed: 1},
	}
}

func newTestRouter() *gin.Engine {
	r := gin.New()
	h := NewOptimizeHandler(cache.New(), fitness.NewInterpolatorCache(), NewHubRegistry())
	r.GET("/health", Health)
	r.POST("/optimize", h.Run)
	return r
}

func TestHealth_ReturnsOk(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptimize_ReturnsResponseForValidRequest(t *testing.T) {
	r := newTestRouter()
	body, err := json.Marshal(testOptimizeRequest())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp model.OptimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusOk, resp.Status)
}

func TestOptimize_RejectsMalformedJSON(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimize_RejectsEmptyForecast(t *testing.T) {
	r := newTestRouter()
	reqBody := testOptimizeRequest()
	reqBody.Forecast = model.Forecast{}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimize_CachesSecondIdenticalRequest(t *testing.T) {
	runCache := cache.New()
	r := gin.New()
	h := NewOptimizeHandler(runCache, fitness.NewInterpolatorCache(), NewHubRegistry())
	r.POST("/optimize", h.Run)

	body, err := json.Marshal(testOptimizeRequest())
	require.NoError(t, err)

	rec1 := httptest.NewRecorder()
	r.ServeHTTP(rec1, httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec1.Code)
	assert.Equal(t, 1, runCache.Len())

	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.JSONEq(t, rec1.Body.String(), rec2.Body.String())
}
