package telemetry

import "time"

// Status values for a rider day.
const (
	StatusWorking    = "Working"
	StatusNotWorking = "NotWorking"
)

// Interval is one maximal idle run clipped to the working window. End is the
// timestamp of the first non-idle sample after the run, or the last sample's
// timestamp when the run is still open at the end of the sheet.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Minutes returns the interval duration in minutes.
func (iv Interval) Minutes() float64 {
	return iv.End.Sub(iv.Start).Minutes()
}

// Summary holds the per-rider-day aggregates derived from one sheet.
type Summary struct {
	TotalIdleMinutes  float64    `json:"total_idle_minutes"`
	IdleOver15Minutes float64    `json:"idle_over_15_minutes"`
	CountIdleOver15   int        `json:"count_idle_over_15"`
	TotalMileageKm    float64    `json:"total_mileage_km"`
	MaxSpeedKmh       float64    `json:"max_speed_kmh"`
	Status            string     `json:"status"`
	Intervals         []Interval `json:"intervals,omitempty"`
}

const over15Threshold = 15 // minutes

// Segment runs the idle-interval scan over an ordered sample sequence.
//
// Mileage and max speed are computed over the in-window subset only,
// independently of run detection. A rider whose in-window mileage is zero is
// reported NotWorking with all-zero aggregates and no interval detail, even
// when raw samples exist. Otherwise a single stateful pass detects idle runs:
// in-window idle samples open a run, in-window moving samples close it, and
// out-of-window samples close an open run without ever starting one. A run
// still open after the last sample is closed at that sample's timestamp,
// recorded only if it started inside the window.
func Segment(samples []Sample, win Window) Summary {
	sum := Summary{Status: StatusNotWorking}
	for _, s := range samples {
		if !win.Contains(s.Timestamp) {
			continue
		}
		sum.TotalMileageKm += s.Mileage
		if s.Speed > sum.MaxSpeedKmh {
			sum.MaxSpeedKmh = s.Speed
		}
	}
	if sum.TotalMileageKm == 0 {
		return Summary{Status: StatusNotWorking}
	}
	sum.Status = StatusWorking

	var open *time.Time
	for i := range samples {
		s := samples[i]
		switch {
		case !win.Contains(s.Timestamp):
			if open != nil {
				sum.Intervals = append(sum.Intervals, Interval{Start: *open, End: s.Timestamp})
				open = nil
			}
		case s.Idle():
			if open == nil {
				ts := s.Timestamp
				open = &ts
			}
		default:
			if open != nil {
				sum.Intervals = append(sum.Intervals, Interval{Start: *open, End: s.Timestamp})
				open = nil
			}
		}
	}
	// Flush a trailing open run, guarding against one that began at
	// end-of-day and would otherwise extend past the dataset.
	if open != nil && win.Contains(*open) {
		last := samples[len(samples)-1].Timestamp
		sum.Intervals = append(sum.Intervals, Interval{Start: *open, End: last})
	}

	for _, iv := range sum.Intervals {
		d := iv.Minutes()
		sum.TotalIdleMinutes += d
		if d > over15Threshold {
			sum.IdleOver15Minutes += d
			sum.CountIdleOver15++
		}
	}
	return sum
}
