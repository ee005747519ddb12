package fleet

import (
	"errors"
	"math"
	"testing"

	"fleetreport/internal/rules"
)

func tripRows() [][]string {
	return [][]string{
		{"Trip Report"},
		{"Period:", "2025-06-02"},
		{"Registration:", "SLR5342K"},
		{},
		{"Driver", "Start Location", "End Location", "Trip Distance (km)", "Speeding Count"},
		{"", "Depot", "Hougang Ave 3", "12.4", "1"},
		{"", "Hougang Ave 3", "Punggol Dr", "8.1", "0"},
		{"", "Punggol Dr", "Hougang Central", "6.0", "2"},
	}
}

func TestParseTripBroadcastsRegistration(t *testing.T) {
	extract, err := ParseTrip("trip.xlsx", tripRows())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if extract.Registration != "SLR5342K" {
		t.Fatalf("unexpected registration %q", extract.Registration)
	}
	if math.Abs(extract.DistanceKm-26.5) > 1e-9 {
		t.Fatalf("expected distance 26.5, got %f", extract.DistanceKm)
	}
	if extract.SpeedingCount != 3 {
		t.Fatalf("expected 3 speeding events, got %d", extract.SpeedingCount)
	}
	if extract.EndLocation != "Hougang Central" {
		t.Fatalf("expected the day's final destination, got %q", extract.EndLocation)
	}
	if extract.Driver != "" {
		t.Fatalf("no driver field present, got %q", extract.Driver)
	}
}

func TestParseTripRegistrationInSingleCell(t *testing.T) {
	rows := [][]string{
		{"Registration: GBC1234X"},
		{"Driver", "Trip Distance"},
		{"Marcus Tan", "4"},
	}
	extract, err := ParseTrip("trip.xlsx", rows)
	if err != nil {
		t.Fatal(err)
	}
	if extract.Registration != "GBC1234X" {
		t.Fatalf("unexpected registration %q", extract.Registration)
	}
	if extract.Driver != "Marcus Tan" {
		t.Fatalf("unexpected driver %q", extract.Driver)
	}
}

func TestParseTripMissingRegistration(t *testing.T) {
	rows := [][]string{
		{"Trip Report"},
		{"Driver", "Trip Distance"},
	}
	_, err := ParseTrip("trip.xlsx", rows)
	if !errors.Is(err, ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
	}
}

func TestParseTripMissingHeader(t *testing.T) {
	rows := [][]string{
		{"Registration:", "SLR5342K"},
		{"Vehicle", "Distance"},
	}
	_, err := ParseTrip("trip.xlsx", rows)
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Fatalf("expected ErrHeaderNotFound, got %v", err)
	}
}

func TestParseFuelFuzzyHeaders(t *testing.T) {
	rows := [][]string{
		{"Fuel usage summary for June"},
		{"Vehicle Registration No.", "Fuel Consumed (L)", "Distance Travelled (km)"},
		{"SLR5342K", "10.5", "120"},
		{"GBC1234X", "4.5", "60"},
		{"SLR5342K", "2.0", "30"},
	}
	agg, err := ParseFuel("fuel.xlsx", rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(agg) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(agg))
	}
	if got := agg["SLR5342K"]; got.FuelLitres != 12.5 || got.DistanceKm != 150 {
		t.Fatalf("unexpected aggregate %+v", got)
	}
}

func TestParseFuelMissingOptionalColumns(t *testing.T) {
	rows := [][]string{
		{"Vehicle Registration"},
		{"SLR5342K"},
	}
	agg, err := ParseFuel("fuel.xlsx", rows)
	if err != nil {
		t.Fatalf("optional columns must not fail the file: %v", err)
	}
	if got := agg["SLR5342K"]; got.FuelLitres != 0 || got.DistanceKm != 0 {
		t.Fatalf("expected zero aggregates, got %+v", got)
	}
}

func TestParseFuelNoRegistrationColumn(t *testing.T) {
	rows := [][]string{
		{"Plate", "Litres"},
		{"SLR5342K", "10"},
	}
	_, err := ParseFuel("fuel.xlsx", rows)
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Fatalf("expected ErrHeaderNotFound, got %v", err)
	}
}

func TestReconcileOuterJoin(t *testing.T) {
	trips := []TripExtract{
		{Registration: "SLR5342K", EndLocation: "Hougang Ave", DistanceKm: 26.5, SpeedingCount: 3},
		{Registration: "SKV8810B", EndLocation: "Tuas South", DistanceKm: 40, SpeedingCount: 0},
	}
	fuel := map[string]FuelAgg{
		"SLR5342K": {FuelLitres: 12.5, DistanceKm: 150},
		"GBC1234X": {FuelLitres: 4, DistanceKm: 60},
	}
	summaries := Reconcile(trips, fuel, rules.DefaultTable())

	byDriver := make(map[string]DriverSummary)
	for _, s := range summaries {
		byDriver[s.Driver] = s
	}

	// Trip + fuel, resolved by the Hougang location rule.
	ravi, ok := byDriver["Ravi"]
	if !ok {
		t.Fatalf("expected a summary for Ravi: %+v", summaries)
	}
	if ravi.MileageKm != 26.5 || ravi.FuelLitres != 12.5 || ravi.SpeedingCount != 3 {
		t.Fatalf("unexpected Ravi summary %+v", ravi)
	}
	if ravi.FuelEfficiency == nil || *ravi.FuelEfficiency != 26.5/12.5 {
		t.Fatalf("unexpected efficiency %+v", ravi.FuelEfficiency)
	}

	// Trip only: fuel metrics stay zero, efficiency undefined.
	weiMing, ok := byDriver["Wei Ming"]
	if !ok {
		t.Fatalf("expected a summary for Wei Ming: %+v", summaries)
	}
	if weiMing.FuelLitres != 0 || weiMing.FuelEfficiency != nil {
		t.Fatalf("nonzero mileage with zero fuel must leave efficiency nil: %+v", weiMing)
	}

	// Fuel only: resolved through the override table, mileage from the fuel
	// report's travelled distance.
	marcus, ok := byDriver["Marcus Tan"]
	if !ok {
		t.Fatalf("expected a summary for Marcus Tan: %+v", summaries)
	}
	if marcus.MileageKm != 60 || marcus.FuelLitres != 4 {
		t.Fatalf("unexpected Marcus summary %+v", marcus)
	}
}

func TestReconcileUnknownFallback(t *testing.T) {
	fuel := map[string]FuelAgg{"XXX000A": {FuelLitres: 5, DistanceKm: 50}}
	summaries := Reconcile(nil, fuel, rules.DefaultTable())
	if len(summaries) != 1 || summaries[0].Driver != rules.UnknownDriver {
		t.Fatalf("expected Unknown fallback, got %+v", summaries)
	}
}
