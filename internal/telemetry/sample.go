package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sample is one telemetry row: a timestamp with the mileage delta and speed
// reported since the previous row. Samples keep source-sheet order and are
// never re-sorted.
type Sample struct {
	Timestamp time.Time
	Mileage   float64
	Speed     float64
}

// Idle reports whether the rider did not move during this sample.
func (s Sample) Idle() bool { return s.Mileage == 0 }

// Clock is a time of day in seconds since midnight.
type Clock int

// ParseClock parses "HH:MM" (24-hour).
func ParseClock(v string) (Clock, error) {
	parts := strings.SplitN(strings.TrimSpace(v), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("parse clock %q: want HH:MM", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("parse clock %q: bad hour", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: bad minute", v)
	}
	return Clock(h*3600 + m*60), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/3600, int(c)%3600/60)
}

func clockOf(t time.Time) Clock {
	return Clock(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Window is the configured working-hours range. Bounds are inclusive on both
// ends: a sample stamped exactly at work start or work end counts as
// in-window.
type Window struct {
	Start Clock
	End   Clock
}

// Contains reports whether the sample timestamp's time of day falls inside
// the working window.
func (w Window) Contains(t time.Time) bool {
	c := clockOf(t)
	return c >= w.Start && c <= w.End
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
