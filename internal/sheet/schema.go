package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns reports required columns absent from an uploaded table.
// It is fatal for that file only, never for the batch.
var ErrMissingColumns = errors.New("missing required columns")

// Column declares one expected column for a report type. Header matching is a
// case-insensitive substring scan against the aliases because fleet-management
// exports rename columns between report versions ("Fuel Consumed (L)",
// "Fuel Consumed Litres", ...).
type Column struct {
	Canonical string
	Aliases   []string
	Optional  bool
}

// Resolve maps each canonical column name to its index in the header row.
// Optional columns that never match are simply absent from the result.
func Resolve(header []string, cols []Column) (map[string]int, error) {
	found := make(map[string]int, len(cols))
	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		for _, col := range cols {
			if _, ok := found[col.Canonical]; ok {
				continue
			}
			for _, alias := range col.Aliases {
				if strings.Contains(cell, strings.ToLower(alias)) {
					found[col.Canonical] = i
					break
				}
			}
		}
	}
	var missing []string
	for _, col := range cols {
		if col.Optional {
			continue
		}
		if _, ok := found[col.Canonical]; !ok {
			missing = append(missing, col.Canonical)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return found, nil
}

// FindHeader scans the grid for the first row that satisfies the required
// columns and returns its index plus the resolved mapping. Used for reports
// whose tabular section starts below metadata rows.
func FindHeader(rows [][]string, cols []Column) (int, map[string]int, error) {
	for i, row := range rows {
		resolved, err := Resolve(row, cols)
		if err == nil {
			return i, resolved, nil
		}
	}
	return 0, nil, fmt.Errorf("%w: no header row matched", ErrMissingColumns)
}
