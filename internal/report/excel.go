package report

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"fleetreport/internal/chart"
	"fleetreport/internal/fleet"
	"fleetreport/internal/pod"
)

// ExportPOD writes the POD summary workbook and returns its bytes plus the
// dated download filename.
func ExportPOD(rep pod.Report) ([]byte, string, error) {
	const sheetName = "POD Summary"
	f, err := newWorkbook(sheetName)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	header := []interface{}{"Assign to", "Earliest POD", "Latest POD", "Total PODs", "Total Weight"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, "", err
	}
	for i, s := range rep.Summaries {
		row := []interface{}{s.Assignee, timeCell(s.EarliestPOD), timeCell(s.LatestPOD), s.TotalPODs, s.TotalWeight}
		if err := setRow(f, sheetName, i+2, row); err != nil {
			return nil, "", err
		}
	}
	return finish(f, fmt.Sprintf("pod_summary_%s.xlsx", rep.Date))
}

// ExportIdle writes the idle summary workbook with the per-rider bar chart
// embedded beside the table.
func ExportIdle(rep IdleReport) ([]byte, string, error) {
	const sheetName = "Idle Summary"
	f, err := newWorkbook(sheetName)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	header := []interface{}{
		"File", "Rider", "Date",
		"Total idle time (mins)", "Idle time >15 mins (mins)", "Idle >15 mins (formatted)",
		"Num idle periods >15 mins", "Total mileage (km)", "Max speed (km/h)", "Status",
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, "", err
	}
	for i, s := range rep.Summaries {
		row := []interface{}{
			s.File, s.Rider, s.Date,
			s.TotalIdleMinutes, s.IdleOver15Minutes, FormatHoursMins(s.IdleOver15Minutes),
			s.CountIdleOver15, s.TotalMileageKm, s.MaxSpeedKmh, s.Status,
		}
		if err := setRow(f, sheetName, i+2, row); err != nil {
			return nil, "", err
		}
	}
	embedIdleChart(f, sheetName, rep)
	return finish(f, fmt.Sprintf("idle_time_summary_%s.xlsx", rep.Date))
}

// ExportFleet writes the per-driver reconciliation workbook.
func ExportFleet(summaries []fleet.DriverSummary, date string) ([]byte, string, error) {
	const sheetName = "Fleet Summary"
	f, err := newWorkbook(sheetName)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	header := []interface{}{"Driver", "Total Speeding Count", "Total Mileage (km)", "Total Fuel (L)", "Fuel Efficiency (km/L)"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, "", err
	}
	for i, s := range summaries {
		var eff interface{}
		if s.FuelEfficiency != nil {
			eff = *s.FuelEfficiency
		}
		row := []interface{}{s.Driver, s.SpeedingCount, s.MileageKm, s.FuelLitres, eff}
		if err := setRow(f, sheetName, i+2, row); err != nil {
			return nil, "", err
		}
	}
	return finish(f, fmt.Sprintf("fleet_driver_summary_%s.xlsx", date))
}

// IdleChartBars ranks riders by idle hours over the 15-minute threshold,
// worst first.
func IdleChartBars(rep IdleReport) []chart.Bar {
	bars := make([]chart.Bar, 0, len(rep.Summaries))
	for _, s := range rep.Summaries {
		bars = append(bars, chart.Bar{Label: s.Rider, Value: s.IdleOver15Minutes / 60})
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })
	return bars
}

// embedIdleChart is best effort: a chart failure never blocks the export.
func embedIdleChart(f *excelize.File, sheetName string, rep IdleReport) {
	bars := IdleChartBars(rep)
	if len(bars) == 0 {
		return
	}
	img, err := chart.Render("Idle Time >15 mins per Rider (hours)", bars)
	if err != nil {
		log.Printf("idle chart render failed: %v", err)
		return
	}
	anchor, err := excelize.CoordinatesToCellName(1, len(rep.Summaries)+4)
	if err != nil {
		return
	}
	if err := f.AddPictureFromBytes(sheetName, anchor, &excelize.Picture{
		Extension: ".png",
		File:      img,
	}); err != nil {
		log.Printf("idle chart embed failed: %v", err)
	}
}

func newWorkbook(sheetName string) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return f, nil
}

func setRow(f *excelize.File, sheetName string, rowNum int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, cell, &row)
}

func finish(f *excelize.File, name string) ([]byte, string, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), name, nil
}

func timeCell(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
