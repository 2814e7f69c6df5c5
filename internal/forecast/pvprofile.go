// Package forecast synthesizes a naive PV/load forecast when a caller has
// no forecast file to import, the fallback named in original_source's
// prediction/pvforecastimport.py and prediction/load.py. Adapted from the
// teacher's internal/solar/pvprofile.go hourly-capacity-factor shape,
// generalized from a live-reading-derived profile to a parameter-driven
// synthesizer bounded by sunrise/sunset.
package forecast

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// PVProfile holds a normalized hourly generation shape: peak hour = 1.0,
// every other hour scaled relative to it.
type PVProfile struct {
	HourlyFactor [24]float64
	PeakHour     int
}

// DefaultProfile returns a bell-curve profile centered at hour 10,
// mirroring the teacher's defaultProfile fallback for installations with
// no historical data to derive a shape from.
func DefaultProfile() PVProfile {
	var p PVProfile
	p.PeakHour = 10
	for h := 0; h < 24; h++ {
		dist := float64(h) - 10.0
		p.HourlyFactor[h] = math.Exp(-dist * dist / 18.0)
		if p.HourlyFactor[h] < 0.01 {
			p.HourlyFactor[h] = 0
		}
	}
	return p
}

// PowerAt returns the estimated PV power in watts for a fractional hour,
// clamped to zero outside the sunrise/sunset window for date/lat/lon.
func (p PVProfile) PowerAt(date time.Time, hour float64, peakWp, lat, lon float64) float64 {
	t := date.Add(time.Duration(hour * float64(time.Hour)))
	times := suncalc.GetTimes(t, lat, lon)
	sunrise := times["sunrise"].Value
	sunset := times["sunset"].Value
	if t.Before(sunrise) || t.After(sunset) {
		return 0
	}
	factor := interpolate(p.HourlyFactor, hour)
	if factor < 0 {
		factor = 0
	}
	return factor * peakWp
}

func interpolate(factors [24]float64, hour float64) float64 {
	for hour < 0 {
		hour += 24
	}
	for hour >= 24 {
		hour -= 24
	}
	lo := int(math.Floor(hour)) % 24
	hi := (lo + 1) % 24
	frac := hour - math.Floor(hour)
	return factors[lo]*(1-frac) + factors[hi]*frac
}

// BuildPVWh synthesizes an H-hour PV generation vector in Wh starting at
// startHour of startDate, the naive forecast named in SPEC_FULL.md §C.3.
func BuildPVWh(p PVProfile, startDate time.Time, startHour, horizon int, peakWp, lat, lon float64) []float64 {
	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		fractionalHour := float64(startHour + h)
		out[h] = p.PowerAt(startDate, fractionalHour, peakWp, lat, lon)
	}
	return out
}

// BuildLoadWh synthesizes a daily household load vector in Wh, with index 0
// taken as hour 0 of the day: baseWh scaled by 1.4 for hours 17-22, by 0.6
// for hours 0-5, and by 1.0 otherwise, the simplest shape original_source's
// load.py falls back to when no historical load profile is configured. The
// shape has no seasonal variation.
func BuildLoadWh(baseWh float64, horizon int) []float64 {
	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		hourOfDay := h % 24
		mult := 1.0
		if hourOfDay >= 17 && hourOfDay <= 22 {
			mult = 1.4
		} else if hourOfDay >= 0 && hourOfDay <= 5 {
			mult = 0.6
		}
		out[h] = baseWh * mult
	}
	return out
}
