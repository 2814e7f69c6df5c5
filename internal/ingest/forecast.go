// Package ingest reads forecast files from disk and decodes them into
// model.Forecast. The core optimizer never touches a file itself (§6); this
// package is the one caller-side adapter that does. Adapted from the
// teacher's internal/ingest.Parser interface idiom (one small interface,
// one implementation per input shape).
package ingest

import (
	"encoding/json"
	"io"
	"os"

	"energyplanner/internal/apperr"
	"energyplanner/internal/model"
)

// Parser decodes a forecast file into the fixed key set named in §6:
// pvforecast_dc_power, pvforecast_ac_power, elecprice_marketprice_wh,
// feed_in_tariff_wh, load_wh.
type Parser interface {
	Parse(r io.Reader) (map[string][]float64, error)
}

// JSONParser decodes a flat JSON object of key -> numeric array.
type JSONParser struct{}

func (JSONParser) Parse(r io.Reader) (map[string][]float64, error) {
	var raw map[string][]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "decode forecast json", err)
	}
	return raw, nil
}

// Keys recognised in a forecast file, per §6.
const (
	KeyPVForecastDCPower   = "pvforecast_dc_power"
	KeyPVForecastACPower   = "pvforecast_ac_power"
	KeyElecPriceMarketWh   = "elecprice_marketprice_wh"
	KeyFeedInTariffWh      = "feed_in_tariff_wh"
	KeyLoadWh              = "load_wh"
)

// LoadForecast opens path, parses it with p, and maps the recognised keys
// onto a model.Forecast. PV prefers the AC-power key (the inverter-side
// figure the simulator consumes) and falls back to DC power if AC is
// absent.
func LoadForecast(path string, p Parser) (model.Forecast, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Forecast{}, apperr.Wrap(apperr.InvalidInput, "open forecast file", err)
	}
	defer f.Close()

	raw, err := p.Parse(f)
	if err != nil {
		return model.Forecast{}, err
	}

	pv := raw[KeyPVForecastACPower]
	if pv == nil {
		pv = raw[KeyPVForecastDCPower]
	}
	fc := model.Forecast{
		PVWh:        pv,
		LoadWh:      raw[KeyLoadWh],
		PriceBuyWh:  raw[KeyElecPriceMarketWh],
		PriceSellWh: raw[KeyFeedInTariffWh],
	}
	if err := fc.Validate(); err != nil {
		return model.Forecast{}, err
	}
	return fc, nil
}
