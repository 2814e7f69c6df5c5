package ingest

import (
	"encoding/csv"
	"io"
	"strconv"

	"energyplanner/internal/apperr"
)

// CSVParser decodes a forecast file with one header row naming the §6 keys
// and one data row per hour, mirroring the column-per-sensor CSV exports
// the teacher's (unretrieved) homeassistant parser consumed.
type CSVParser struct{}

func (CSVParser) Parse(r io.Reader) (map[string][]float64, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "read forecast csv", err)
	}
	if len(rows) < 1 {
		return nil, apperr.New(apperr.InvalidInput, "forecast csv has no header row")
	}
	header := rows[0]
	out := make(map[string][]float64, len(header))
	for _, col := range header {
		out[col] = make([]float64, 0, len(rows)-1)
	}
	for _, row := range rows[1:] {
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, apperr.Wrap(apperr.InvalidInput, "parse forecast csv cell", err)
			}
			out[header[i]] = append(out[header[i]], v)
		}
	}
	return out, nil
}
