package fleet

import (
	"sort"

	"fleetreport/internal/rules"
)

// DriverSummary is the per-driver rollup across every registration resolved
// to that driver. FuelEfficiency is nil when no fuel was recorded; it is
// never reported as zero or infinite.
type DriverSummary struct {
	Driver         string   `json:"driver"`
	SpeedingCount  int      `json:"total_speeding_count"`
	MileageKm      float64  `json:"total_mileage_km"`
	FuelLitres     float64  `json:"total_fuel_litres"`
	FuelEfficiency *float64 `json:"fuel_efficiency_km_per_l,omitempty"`
}

type vehicle struct {
	trip TripExtract
	fuel FuelAgg
}

// Reconcile outer-joins trip and fuel aggregates on registration and rolls
// them up by resolved driver. A vehicle present in only one report still
// appears, with zeros for the other report's metrics. Driver resolution is
// evaluated once per distinct registration.
func Reconcile(trips []TripExtract, fuel map[string]FuelAgg, table rules.Table) []DriverSummary {
	vehicles := make(map[string]*vehicle)
	for _, trip := range trips {
		v, ok := vehicles[trip.Registration]
		if !ok {
			v = &vehicle{}
			vehicles[trip.Registration] = v
		}
		v.trip.Registration = trip.Registration
		v.trip.DistanceKm += trip.DistanceKm
		v.trip.SpeedingCount += trip.SpeedingCount
		if v.trip.Driver == "" {
			v.trip.Driver = trip.Driver
		}
		if trip.EndLocation != "" {
			v.trip.EndLocation = trip.EndLocation
		}
	}
	for reg, agg := range fuel {
		v, ok := vehicles[reg]
		if !ok {
			v = &vehicle{trip: TripExtract{Registration: reg}}
			vehicles[reg] = v
		}
		v.fuel = agg
	}

	byDriver := make(map[string]*DriverSummary)
	for reg, v := range vehicles {
		driver := table.Resolve(v.trip.Driver, reg, v.trip.EndLocation)
		s, ok := byDriver[driver]
		if !ok {
			s = &DriverSummary{Driver: driver}
			byDriver[driver] = s
		}
		s.SpeedingCount += v.trip.SpeedingCount
		s.FuelLitres += v.fuel.FuelLitres
		// Trip distance is authoritative; the fuel report's travelled
		// distance fills in vehicles the trip reports never covered.
		if v.trip.DistanceKm > 0 {
			s.MileageKm += v.trip.DistanceKm
		} else {
			s.MileageKm += v.fuel.DistanceKm
		}
	}

	out := make([]DriverSummary, 0, len(byDriver))
	for _, s := range byDriver {
		if s.FuelLitres > 0 {
			eff := s.MileageKm / s.FuelLitres
			s.FuelEfficiency = &eff
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Driver < out[j].Driver })
	return out
}
