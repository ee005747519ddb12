// Package report assembles uploaded workbooks into summary records and
// renders the downloadable spreadsheet exports.
package report

import (
	"fmt"
	"regexp"

	"fleetreport/internal/pod"
	"fleetreport/internal/sheet"
	"fleetreport/internal/telemetry"
)

// RiderDay is one rider file's idle and mileage summary.
type RiderDay struct {
	File        string `json:"file"`
	Rider       string `json:"rider"`
	Date        string `json:"date"`
	SkippedRows int    `json:"skipped_rows,omitempty"`
	telemetry.Summary
}

// FileError records a per-file failure without stopping the batch.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// IdleReport is the combined result of one telemetry batch. Date comes from
// the first successfully processed file.
type IdleReport struct {
	Date      string      `json:"date"`
	Summaries []RiderDay  `json:"summaries"`
	Errors    []FileError `json:"errors,omitempty"`
}

var filenameDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// DateFromFilename pulls a YYYY-MM-DD date out of an upload filename, or the
// unknown-date sentinel.
func DateFromFilename(name string) string {
	if m := filenameDate.FindString(name); m != "" {
		return m
	}
	return pod.UnknownDate
}

// BuildRiderDay processes one rider workbook. The first sheet carries the
// rider's name; its rows are the telemetry table.
func BuildRiderDay(wb *sheet.Workbook, win telemetry.Window) (RiderDay, error) {
	names := wb.SheetNames()
	if len(names) == 0 {
		return RiderDay{}, fmt.Errorf("%s: workbook has no sheets", wb.Name())
	}
	rider := names[0]
	rows, err := wb.Rows(rider)
	if err != nil {
		return RiderDay{}, err
	}
	samples, skipped, err := telemetry.ParseRows(wb.Name(), rows)
	if err != nil {
		return RiderDay{}, err
	}
	return RiderDay{
		File:        wb.Name(),
		Rider:       rider,
		Date:        DateFromFilename(wb.Name()),
		SkippedRows: skipped,
		Summary:     telemetry.Segment(samples, win),
	}, nil
}

// FormatHoursMins renders minutes as "X hr Y min" for the summary tables.
func FormatHoursMins(minutes float64) string {
	if minutes <= 0 {
		return "0 hr 0 min"
	}
	total := int(minutes)
	return fmt.Sprintf("%d hr %d min", total/60, total%60)
}
