// Package pod summarizes proof-of-delivery extracts per assignee.
package pod

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fleetreport/internal/sheet"
)

// UnknownDate is the sentinel used when no delivery date can be recovered
// from an upload. It flows into export filenames unchanged.
const UnknownDate = "unknown_date"

// Record is one proof-of-delivery row.
type Record struct {
	Assignee     string
	DeliveryDate time.Time
	HasDate      bool
	PODTime      time.Time
	HasTime      bool
	Weight       float64
}

// Summary aggregates one assignee's deliveries for the upload.
type Summary struct {
	Assignee    string     `json:"assignee"`
	EarliestPOD *time.Time `json:"earliest_pod,omitempty"`
	LatestPOD   *time.Time `json:"latest_pod,omitempty"`
	TotalPODs   int        `json:"total_pods"`
	TotalWeight float64    `json:"total_weight"`
}

// Report is the full result for one POD upload. Date is the statistical mode
// of the delivery-date column, or UnknownDate.
type Report struct {
	Date      string    `json:"date"`
	Summaries []Summary `json:"summaries"`
}

var podColumns = []sheet.Column{
	{Canonical: "Assign to", Aliases: []string{"assign"}},
	{Canonical: "POD Time", Aliases: []string{"pod time"}},
	{Canonical: "Delivery Date", Aliases: []string{"delivery date"}},
	{Canonical: "Weight", Aliases: []string{"weight"}, Optional: true},
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05", "2/1/2006"}
var podTimeLayouts = []string{"15:04:05", "3:04:05 PM", "15:04", "2006-01-02 15:04:05"}

// ParseRows reads POD records from a sheet grid whose first row is the
// header. Individual cells that fail to parse leave the corresponding part
// unset; the record still counts toward its group.
func ParseRows(fileName string, rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w: empty sheet", fileName, sheet.ErrMissingColumns)
	}
	cols, err := sheet.Resolve(rows[0], podColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	var out []Record
	for _, row := range rows[1:] {
		assignee := strings.TrimSpace(sheet.Cell(row, cols["Assign to"]))
		if assignee == "" {
			continue
		}
		rec := Record{Assignee: assignee}
		if d, ok := parseAny(sheet.Cell(row, cols["Delivery Date"]), dateLayouts); ok {
			rec.DeliveryDate = d
			rec.HasDate = true
		}
		if ts, ok := parseAny(sheet.Cell(row, cols["POD Time"]), podTimeLayouts); ok {
			rec.PODTime = ts
			rec.HasTime = true
		}
		if idx, ok := cols["Weight"]; ok {
			rec.Weight, _ = sheet.Float(row, idx)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Aggregate groups records by assignee. Earliest/latest use the delivery
// date combined with the POD time of day; records missing either part are
// excluded from min/max but still counted and weighed.
func Aggregate(records []Record) Report {
	groups := make(map[string]*Summary)
	var order []string
	for _, rec := range records {
		s, ok := groups[rec.Assignee]
		if !ok {
			s = &Summary{Assignee: rec.Assignee}
			groups[rec.Assignee] = s
			order = append(order, rec.Assignee)
		}
		s.TotalPODs++
		s.TotalWeight += rec.Weight
		if !rec.HasDate || !rec.HasTime {
			continue
		}
		ts := combine(rec.DeliveryDate, rec.PODTime)
		if s.EarliestPOD == nil || ts.Before(*s.EarliestPOD) {
			t := ts
			s.EarliestPOD = &t
		}
		if s.LatestPOD == nil || ts.After(*s.LatestPOD) {
			t := ts
			s.LatestPOD = &t
		}
	}
	sort.Strings(order)
	report := Report{Date: modeDate(records)}
	for _, name := range order {
		report.Summaries = append(report.Summaries, *groups[name])
	}
	return report
}

func combine(date, tod time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC)
}

// modeDate picks the most frequent delivery date across all rows, not the
// date of any single record. Ties break on the earlier date so repeated runs
// over the same upload name the same file.
func modeDate(records []Record) string {
	counts := make(map[string]int)
	for _, rec := range records {
		if !rec.HasDate {
			continue
		}
		counts[rec.DeliveryDate.Format("2006-01-02")]++
	}
	var top string
	best := 0
	for key, count := range counts {
		if count > best || (count == best && key < top) {
			best = count
			top = key
		}
	}
	if top == "" {
		return UnknownDate
	}
	return top
}

func parseAny(raw string, layouts []string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
