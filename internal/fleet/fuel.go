package fleet

import (
	"errors"
	"fmt"

	"fleetreport/internal/sheet"
)

// FuelAgg is one vehicle's totals from the fuel report.
type FuelAgg struct {
	FuelLitres float64
	DistanceKm float64
}

var fuelColumns = []sheet.Column{
	{Canonical: "Vehicle Registration", Aliases: []string{"vehicle registration", "registration"}},
	{Canonical: "Fuel Consumed", Aliases: []string{"fuel consumed", "fuel"}, Optional: true},
	{Canonical: "Distance Travelled", Aliases: []string{"distance travelled", "distance traveled", "distance"}, Optional: true},
}

// ParseFuel aggregates the fuel report by registration. The header row is
// located by fuzzy column matching because column names drift across report
// versions. Missing fuel or distance columns leave those aggregates at zero
// rather than failing the file.
func ParseFuel(fileName string, rows [][]string) (map[string]FuelAgg, error) {
	headerIdx, cols, err := sheet.FindHeader(rows, fuelColumns)
	if err != nil {
		if errors.Is(err, sheet.ErrMissingColumns) {
			return nil, fmt.Errorf("%s: %w: no registration column", fileName, ErrHeaderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}

	out := make(map[string]FuelAgg)
	for _, row := range rows[headerIdx+1:] {
		reg := sheet.Cell(row, cols["Vehicle Registration"])
		if reg == "" {
			continue
		}
		agg := out[reg]
		if idx, ok := cols["Fuel Consumed"]; ok {
			if v, ok := sheet.Float(row, idx); ok {
				agg.FuelLitres += v
			}
		}
		if idx, ok := cols["Distance Travelled"]; ok {
			if v, ok := sheet.Float(row, idx); ok {
				agg.DistanceKm += v
			}
		}
		out[reg] = agg
	}
	return out, nil
}
