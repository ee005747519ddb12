// Package batch runs upload sections synchronously. Each unit of work (one
// file, one section) completes before the next begins; failures and panics
// are contained to their unit so the rest of the batch keeps going.
package batch

import (
	"fmt"
	"log"
	"time"

	"fleetreport/internal/metrics"
)

// Runner executes section and file units with duration logging and panic
// recovery.
type Runner struct {
	metrics *metrics.Metrics
}

func NewRunner(m *metrics.Metrics) *Runner {
	return &Runner{metrics: m}
}

// Section runs one independent report section (pod, idle, fleet) to
// completion.
func (r *Runner) Section(batchID, section string, fn func() error) error {
	err := r.run("section", batchID, section, fn)
	if r.metrics != nil {
		r.metrics.RecordSection(err)
	}
	return err
}

// File runs one file's processing inside a section. A failure is reported to
// the caller and never aborts sibling files.
func (r *Runner) File(batchID, file string, fn func() error) error {
	err := r.run("file", batchID, file, fn)
	if r.metrics != nil {
		r.metrics.RecordFile(err)
	}
	return err
}

func (r *Runner) run(kind, batchID, unit string, fn func() error) (err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s %s panicked: %v", kind, unit, rec)
		}
		status := "success"
		if err != nil {
			status = err.Error()
		}
		log.Printf("batch=%s %s=%s duration_ms=%d status=%s", batchID, kind, unit, time.Since(start).Milliseconds(), status)
	}()
	return fn()
}
