package pod

import (
	"errors"
	"testing"
	"time"

	"fleetreport/internal/sheet"
)

func TestAggregateSingleAssignee(t *testing.T) {
	rows := [][]string{
		{"Delivery Date", "Assign to", "POD Time", "Weight (kg)"},
		{"2025-06-02", "R1", "09:00:00", "2.5"},
		{"2025-06-02", "R1", "11:30:00", "3.0"},
	}
	records, err := ParseRows("pod.xlsx", rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report := Aggregate(records)
	if len(report.Summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(report.Summaries))
	}
	s := report.Summaries[0]
	if s.TotalPODs != 2 {
		t.Fatalf("expected 2 PODs, got %d", s.TotalPODs)
	}
	if s.TotalWeight != 5.5 {
		t.Fatalf("expected weight 5.5, got %f", s.TotalWeight)
	}
	wantEarliest := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	wantLatest := time.Date(2025, time.June, 2, 11, 30, 0, 0, time.UTC)
	if s.EarliestPOD == nil || !s.EarliestPOD.Equal(wantEarliest) {
		t.Fatalf("unexpected earliest %v", s.EarliestPOD)
	}
	if s.LatestPOD == nil || !s.LatestPOD.Equal(wantLatest) {
		t.Fatalf("unexpected latest %v", s.LatestPOD)
	}
	if report.Date != "2025-06-02" {
		t.Fatalf("unexpected report date %s", report.Date)
	}
}

func TestAggregateTrimsAssignees(t *testing.T) {
	rows := [][]string{
		{"Delivery Date", "Assign to", "POD Time"},
		{"2025-06-02", "  R2 ", "09:00:00"},
		{"2025-06-02", "R2", "10:00:00"},
	}
	records, err := ParseRows("pod.xlsx", rows)
	if err != nil {
		t.Fatal(err)
	}
	report := Aggregate(records)
	if len(report.Summaries) != 1 || report.Summaries[0].TotalPODs != 2 {
		t.Fatalf("trimmed assignees must group together: %+v", report.Summaries)
	}
}

func TestAggregatePartialTimestampsStillCount(t *testing.T) {
	records := []Record{
		{Assignee: "R1", Weight: 1},
		{Assignee: "R1", HasDate: true, DeliveryDate: day(2025, 6, 2), HasTime: true, PODTime: tod(9, 0)},
	}
	report := Aggregate(records)
	s := report.Summaries[0]
	if s.TotalPODs != 2 {
		t.Fatalf("record without timestamp must still count: %+v", s)
	}
	if s.EarliestPOD == nil || !s.EarliestPOD.Equal(s.LatestPOD.UTC()) {
		t.Fatalf("min/max must come from the one complete record: %+v", s)
	}
}

func TestModeDateFallsBackToSentinel(t *testing.T) {
	report := Aggregate([]Record{{Assignee: "R1"}, {Assignee: "R2"}})
	if report.Date != UnknownDate {
		t.Fatalf("expected %s, got %s", UnknownDate, report.Date)
	}
}

func TestModeDatePicksMajority(t *testing.T) {
	records := []Record{
		{Assignee: "A", HasDate: true, DeliveryDate: day(2025, 6, 2)},
		{Assignee: "B", HasDate: true, DeliveryDate: day(2025, 6, 3)},
		{Assignee: "C", HasDate: true, DeliveryDate: day(2025, 6, 3)},
	}
	if got := Aggregate(records).Date; got != "2025-06-03" {
		t.Fatalf("expected mode date 2025-06-03, got %s", got)
	}
}

func TestParseRowsMissingRequiredColumn(t *testing.T) {
	rows := [][]string{{"Assign to", "Weight"}}
	_, err := ParseRows("pod.xlsx", rows)
	if !errors.Is(err, sheet.ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tod(h, m int) time.Time {
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC)
}
