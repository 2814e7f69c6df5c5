package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultProfile_PeaksNearMidday(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, 1.0, p.HourlyFactor[10])
	assert.Less(t, p.HourlyFactor[2], p.HourlyFactor[10])
	assert.Less(t, p.HourlyFactor[22], p.HourlyFactor[10])
}

func TestPowerAt_ZeroAtNight(t *testing.T) {
	p := DefaultProfile()
	date := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	watts := p.PowerAt(date, 2, 5000, 52.5, 13.4)
	assert.Equal(t, 0.0, watts)
}

func TestPowerAt_PositiveAtMidday(t *testing.T) {
	p := DefaultProfile()
	date := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	watts := p.PowerAt(date, 12, 5000, 52.5, 13.4)
	assert.Greater(t, watts, 0.0)
	assert.LessOrEqual(t, watts, 5000.0)
}

func TestBuildLoadWh_PeaksInEvening(t *testing.T) {
	load := BuildLoadWh(500, 24)
	assert.Greater(t, load[19], load[3])
}

func TestSynthesize_ProducesValidForecast(t *testing.T) {
	site := Site{Latitude: 52.5, Longitude: 13.4, PeakWp: 5000, BaseLoadWh: 400}
	date := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	fc := Synthesize(site, date, 0, 24, 0.30, 0.08)
	assert.NoError(t, fc.Validate())
	assert.Equal(t, 24, fc.Horizon())
}
