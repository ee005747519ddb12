package telemetry

import (
	"fmt"
	"time"

	"fleetreport/internal/sheet"
)

var riderColumns = []sheet.Column{
	{Canonical: "Time", Aliases: []string{"time"}},
	{Canonical: "Mileage", Aliases: []string{"mileage"}},
	{Canonical: "Speed", Aliases: []string{"speed"}},
}

// Tracker exports stamp rows with a 12-hour clock.
var timeLayouts = []string{"3:04:05 PM", "3:04 PM", "15:04:05"}

// ParseRows turns one rider sheet into an ordered sample sequence. The first
// row is the header. Rows whose timestamp does not parse are dropped from the
// sequence (they cannot be placed in the working window) and counted in
// skipped; they never abort the file. A missing required column fails the
// file with sheet.ErrMissingColumns wrapped with the file name.
func ParseRows(fileName string, rows [][]string) (samples []Sample, skipped int, err error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%s: %w: empty sheet", fileName, sheet.ErrMissingColumns)
	}
	cols, err := sheet.Resolve(rows[0], riderColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", fileName, err)
	}
	timeIdx, mileageIdx, speedIdx := cols["Time"], cols["Mileage"], cols["Speed"]

	for _, row := range rows[1:] {
		if rowEmpty(row) {
			continue
		}
		ts, ok := parseClockStamp(sheet.Cell(row, timeIdx))
		if !ok {
			skipped++
			continue
		}
		mileage, _ := sheet.Float(row, mileageIdx)
		speed, _ := sheet.Float(row, speedIdx)
		samples = append(samples, Sample{Timestamp: ts, Mileage: mileage, Speed: speed})
	}
	return samples, skipped, nil
}

func rowEmpty(row []string) bool {
	for i := range row {
		if sheet.Cell(row, i) != "" {
			return false
		}
	}
	return true
}

func parseClockStamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
