package sheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is a read-only view over one uploaded XLSX file.
type Workbook struct {
	name string
	file *excelize.File
}

// Open decodes an uploaded workbook held in memory. The name is kept for
// error messages only.
func Open(name string, data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	return &Workbook{name: name, file: f}, nil
}

func (w *Workbook) Close() error { return w.file.Close() }

// Name returns the upload filename the workbook was opened with.
func (w *Workbook) Name() string { return w.name }

// SheetNames lists sheets in workbook order. Rider telemetry files carry the
// rider name as the first sheet name.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Rows returns the sheet contents as a string grid. Trailing empty cells are
// not padded; callers index defensively via Cell.
func (w *Workbook) Rows(sheetName string) ([][]string, error) {
	rows, err := w.file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q in %s: %w", sheetName, w.name, err)
	}
	return rows, nil
}

// Cell returns the trimmed cell at idx or "" when the row is short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Float parses a numeric cell. Thousands separators are tolerated because
// fleet-management exports format large mileages with commas.
func Float(row []string, idx int) (float64, bool) {
	raw := Cell(row, idx)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
