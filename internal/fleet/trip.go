// Package fleet reconciles trip and fuel report extracts into per-driver
// summaries keyed by vehicle registration.
package fleet

import (
	"errors"
	"fmt"
	"strings"

	"fleetreport/internal/sheet"
)

// Errors fatal for the trip/fuel pair being processed. They never disturb
// the POD or idle sections of the same invocation.
var (
	ErrRegistrationNotFound = errors.New("registration label not found")
	ErrHeaderNotFound       = errors.New("header row not found")
)

// TripExtract is one trip report reduced to its registration's aggregates.
// The registration is a scalar metadata cell broadcast over every trip row.
type TripExtract struct {
	Registration  string
	Driver        string
	EndLocation   string
	DistanceKm    float64
	SpeedingCount int
}

var tripColumns = []sheet.Column{
	{Canonical: "Trip Distance", Aliases: []string{"trip distance", "distance"}},
	{Canonical: "Speeding", Aliases: []string{"speeding"}, Optional: true},
	{Canonical: "End Location", Aliases: []string{"end location"}, Optional: true},
	{Canonical: "Driver", Aliases: []string{"driver"}, Optional: true},
}

// ParseTrip extracts the registration scalar and the trip table from one
// trip report. The registration lives in a labeled metadata row near the top
// of the sheet ("Registration: SLR5342K" or label and value in adjacent
// cells). The tabular section starts at the first row whose first column is
// the literal header token "Driver".
func ParseTrip(fileName string, rows [][]string) (TripExtract, error) {
	registration, err := findRegistration(rows)
	if err != nil {
		return TripExtract{}, fmt.Errorf("%s: %w", fileName, err)
	}
	headerIdx := -1
	for i, row := range rows {
		if strings.EqualFold(sheet.Cell(row, 0), "Driver") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return TripExtract{}, fmt.Errorf("%s: %w: no %q row", fileName, ErrHeaderNotFound, "Driver")
	}
	cols, err := sheet.Resolve(rows[headerIdx], tripColumns)
	if err != nil {
		return TripExtract{}, fmt.Errorf("%s: %w", fileName, err)
	}

	extract := TripExtract{Registration: registration}
	for _, row := range rows[headerIdx+1:] {
		if d, ok := sheet.Float(row, cols["Trip Distance"]); ok {
			extract.DistanceKm += d
		}
		if idx, ok := cols["Speeding"]; ok {
			if n, ok := sheet.Float(row, idx); ok {
				extract.SpeedingCount += int(n)
			}
		}
		if idx, ok := cols["Driver"]; ok && extract.Driver == "" {
			extract.Driver = sheet.Cell(row, idx)
		}
		if idx, ok := cols["End Location"]; ok {
			if loc := sheet.Cell(row, idx); loc != "" {
				// Keep the day's final destination for the location rules.
				extract.EndLocation = loc
			}
		}
	}
	return extract, nil
}

func findRegistration(rows [][]string) (string, error) {
	for _, row := range rows {
		label := strings.ToLower(sheet.Cell(row, 0))
		if !strings.HasPrefix(label, "registration") {
			continue
		}
		// "Registration: SLR5342K" in one cell.
		if _, after, found := strings.Cut(sheet.Cell(row, 0), ":"); found {
			if v := strings.TrimSpace(after); v != "" {
				return v, nil
			}
		}
		// Label and value in adjacent cells.
		for i := 1; i < len(row); i++ {
			if v := sheet.Cell(row, i); v != "" {
				return v, nil
			}
		}
	}
	return "", ErrRegistrationNotFound
}
