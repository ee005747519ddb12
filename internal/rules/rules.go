// Package rules holds the registration-to-driver assignment table. The table
// is operations-owned configuration: known vehicle assignments plus ordered
// free-text location rules, maintained in a YAML file and hot-reloaded.
package rules

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnknownDriver is the terminal fallback when no resolution rule matches.
const UnknownDriver = "Unknown"

// LocationRule binds trip end-location text to a driver. Matching is a
// case-insensitive substring test against each keyword.
type LocationRule struct {
	Driver   string   `yaml:"driver"`
	Contains []string `yaml:"contains"`
}

// Table is the full resolution ruleset. Locations order is load-bearing: the
// first matching rule wins, so reordering changes which driver absorbs
// ambiguous vehicles.
type Table struct {
	Overrides map[string]string `yaml:"overrides"`
	Locations []LocationRule    `yaml:"locations"`
}

// DefaultTable returns the baked-in vehicle assignments used when no rules
// file is configured.
func DefaultTable() Table {
	return Table{
		Overrides: map[string]string{
			"GBC1234X": "Marcus Tan",
			"YN8821K":  "Daniel Lim",
			"GY5520M":  "Suresh Kumar",
		},
		Locations: []LocationRule{
			{Driver: "Ravi", Contains: []string{"Punggol", "Hougang"}},
			{Driver: "Wei Ming", Contains: []string{"Jurong", "Tuas", "Boon Lay"}},
			{Driver: "Hafiz", Contains: []string{"Woodlands", "Yishun", "Sembawang"}},
			{Driver: "Jason", Contains: []string{"Tampines", "Pasir Ris", "Bedok"}},
		},
	}
}

// Load reads YAML rules and overlays the non-empty sections onto the
// defaults. A missing file returns the defaults with the error so the caller
// can log and continue.
func Load(path string) (Table, error) {
	table := DefaultTable()
	data, err := os.ReadFile(path)
	if err != nil {
		return table, err
	}
	if len(data) == 0 {
		return table, errors.New("empty rules file")
	}
	var parsed Table
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return table, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return Merge(table, parsed), nil
}

// Merge overlays the non-empty sections of override onto base.
func Merge(base, override Table) Table {
	if len(override.Overrides) > 0 {
		base.Overrides = override.Overrides
	}
	if len(override.Locations) > 0 {
		base.Locations = override.Locations
	}
	return base
}

// Resolve maps one registration to a driver. Pure and deterministic for a
// fixed table: the same (tripDriver, registration, endLocation) triple always
// yields the same driver. Priority, first match wins:
//
//  1. explicit driver field on the trip rows
//  2. static registration override
//  3. ordered end-location substring rules
//  4. UnknownDriver
func (t Table) Resolve(tripDriver, registration, endLocation string) string {
	if d := strings.TrimSpace(tripDriver); d != "" {
		return d
	}
	if d, ok := t.Overrides[strings.TrimSpace(registration)]; ok && d != "" {
		return d
	}
	loc := strings.ToLower(endLocation)
	if loc != "" {
		for _, rule := range t.Locations {
			for _, kw := range rule.Contains {
				if strings.Contains(loc, strings.ToLower(kw)) {
					return rule.Driver
				}
			}
		}
	}
	return UnknownDriver
}
