// Package httpapi is the upload surface: spreadsheets in, summary JSON or
// XLSX exports out. Each report section is independent; a failure in one
// never disturbs the others.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"fleetreport/internal/batch"
	"fleetreport/internal/config"
	"fleetreport/internal/fleet"
	"fleetreport/internal/metrics"
	"fleetreport/internal/pod"
	"fleetreport/internal/report"
	"fleetreport/internal/rules"
	"fleetreport/internal/sheet"
)

// Router builds HTTP handlers for /api and /ops.
type Router struct {
	cfg     config.Config
	rules   *rules.Store
	runner  *batch.Runner
	metrics *metrics.Metrics
}

func NewRouter(cfg config.Config, rulesStore *rules.Store, runner *batch.Runner, m *metrics.Metrics) *Router {
	return &Router{cfg: cfg, rules: rulesStore, runner: runner, metrics: m}
}

func (r *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/pod", r.podSummary)
	mux.HandleFunc("/api/telemetry", r.telemetrySummary)
	mux.HandleFunc("/api/fleet", r.fleetSummary)
	mux.HandleFunc("/ops/health", r.health)
	mux.HandleFunc("/ops/status", r.status)
}

type upload struct {
	name string
	data []byte
}

func (r *Router) podSummary(w http.ResponseWriter, req *http.Request) {
	batchID, ok := r.beginBatch(w, req)
	if !ok {
		return
	}
	files, err := r.uploads(req, "file")
	if err != nil || len(files) != 1 {
		httpError(w, http.StatusBadRequest, "upload exactly one POD workbook in field %q", "file")
		return
	}

	var rep pod.Report
	err = r.runner.Section(batchID, "pod", func() error {
		rows, err := firstSheetRows(files[0])
		if err != nil {
			return err
		}
		records, err := pod.ParseRows(files[0].name, rows)
		if err != nil {
			return err
		}
		rep = pod.Aggregate(records)
		return nil
	})
	if err != nil {
		httpError(w, statusFor(err), "%v", err)
		return
	}
	if wantsXLSX(req) {
		data, name, err := report.ExportPOD(rep)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "export failed: %v", err)
			return
		}
		respondXLSX(w, name, data)
		return
	}
	respondJSON(w, map[string]any{"batch_id": batchID, "report": rep})
}

func (r *Router) telemetrySummary(w http.ResponseWriter, req *http.Request) {
	batchID, ok := r.beginBatch(w, req)
	if !ok {
		return
	}
	files, err := r.uploads(req, "files")
	if err != nil || len(files) == 0 {
		httpError(w, http.StatusBadRequest, "upload one or more rider workbooks in field %q", "files")
		return
	}

	rep := report.IdleReport{Date: pod.UnknownDate}
	_ = r.runner.Section(batchID, "idle", func() error {
		for _, f := range files {
			f := f
			err := r.runner.File(batchID, f.name, func() error {
				wb, err := sheet.Open(f.name, f.data)
				if err != nil {
					return err
				}
				defer wb.Close()
				day, err := report.BuildRiderDay(wb, r.cfg.WorkWindow)
				if err != nil {
					return err
				}
				rep.Summaries = append(rep.Summaries, day)
				return nil
			})
			if err != nil {
				rep.Errors = append(rep.Errors, report.FileError{File: f.name, Error: err.Error()})
			}
		}
		return nil
	})
	// Filename date comes from the first file that produced a summary.
	if len(rep.Summaries) > 0 {
		rep.Date = rep.Summaries[0].Date
	}

	if wantsXLSX(req) {
		data, name, err := report.ExportIdle(rep)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "export failed: %v", err)
			return
		}
		respondXLSX(w, name, data)
		return
	}
	respondJSON(w, map[string]any{"batch_id": batchID, "report": rep})
}

func (r *Router) fleetSummary(w http.ResponseWriter, req *http.Request) {
	batchID, ok := r.beginBatch(w, req)
	if !ok {
		return
	}
	trips, err := r.uploads(req, "trip")
	if err != nil || len(trips) == 0 {
		httpError(w, http.StatusBadRequest, "upload trip workbooks in field %q", "trip")
		return
	}
	fuels, err := r.uploads(req, "fuel")
	if err != nil || len(fuels) != 1 {
		httpError(w, http.StatusBadRequest, "upload exactly one fuel workbook in field %q", "fuel")
		return
	}

	var summaries []fleet.DriverSummary
	date := pod.UnknownDate
	err = r.runner.Section(batchID, "fleet", func() error {
		var extracts []fleet.TripExtract
		for _, f := range trips {
			rows, err := firstSheetRows(f)
			if err != nil {
				return err
			}
			extract, err := fleet.ParseTrip(f.name, rows)
			if err != nil {
				return err
			}
			extracts = append(extracts, extract)
			if date == pod.UnknownDate {
				date = report.DateFromFilename(f.name)
			}
		}
		rows, err := firstSheetRows(fuels[0])
		if err != nil {
			return err
		}
		fuelAgg, err := fleet.ParseFuel(fuels[0].name, rows)
		if err != nil {
			return err
		}
		summaries = fleet.Reconcile(extracts, fuelAgg, r.rules.Get())
		return nil
	})
	if err != nil {
		httpError(w, statusFor(err), "%v", err)
		return
	}
	if wantsXLSX(req) {
		data, name, err := report.ExportFleet(summaries, date)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "export failed: %v", err)
			return
		}
		respondXLSX(w, name, data)
		return
	}
	respondJSON(w, map[string]any{"batch_id": batchID, "date": date, "summaries": summaries})
}

func (r *Router) status(w http.ResponseWriter, req *http.Request) {
	table := r.rules.Get()
	respondJSON(w, map[string]any{
		"metrics":        r.metrics.Snapshot(),
		"work_window":    r.cfg.WorkWindow.String(),
		"rule_overrides": len(table.Overrides),
		"location_rules": len(table.Locations),
	})
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// beginBatch enforces the method and upload size and assigns the batch id
// used in logs and responses.
func (r *Router) beginBatch(w http.ResponseWriter, req *http.Request) (string, bool) {
	if req.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", false
	}
	req.Body = http.MaxBytesReader(w, req.Body, int64(r.cfg.MaxUploadMB)<<20)
	return uuid.NewString(), true
}

func (r *Router) uploads(req *http.Request, field string) ([]upload, error) {
	if req.MultipartForm == nil {
		if err := req.ParseMultipartForm(int64(r.cfg.MaxUploadMB) << 20); err != nil {
			return nil, err
		}
	}
	var out []upload
	for _, hdr := range req.MultipartForm.File[field] {
		data, err := readPart(hdr)
		if err != nil {
			return nil, err
		}
		out = append(out, upload{name: hdr.Filename, data: data})
	}
	return out, nil
}

func readPart(hdr *multipart.FileHeader) ([]byte, error) {
	f, err := hdr.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func firstSheetRows(f upload) ([][]string, error) {
	wb, err := sheet.Open(f.name, f.data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", f.name)
	}
	return wb.Rows(names[0])
}

func wantsXLSX(req *http.Request) bool {
	return req.URL.Query().Get("format") == "xlsx"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sheet.ErrMissingColumns),
		errors.Is(err, fleet.ErrRegistrationNotFound),
		errors.Is(err, fleet.ErrHeaderNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	http.Error(w, fmt.Sprintf(format, args...), code)
}

func respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write json: %v", err)
	}
}

func respondXLSX(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write(data); err != nil {
		log.Printf("write export %s: %v", name, err)
	}
}
