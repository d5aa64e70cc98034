package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	errs "perfectscan/pkg/errors"
)

// Discovery is one perfect number found during the reported run.
type Discovery struct {
	Ordinal        int       `json:"ordinal"`
	Value          uint32    `json:"value"`
	HiPower        uint32    `json:"hi_power"`
	LoPower        uint32    `json:"lo_power"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	FoundAt        time.Time `json:"found_at"`
}

// Cursor is the resume position in a JSON-friendly shape.
type Cursor struct {
	HiPower uint32 `json:"hi_power"`
	LoPower uint32 `json:"lo_power"`
}

// Report summarizes a single run for machine consumption: what the run
// found, how it ended, and where the next run picks up.
type Report struct {
	RunID            string      `json:"run_id"`
	StartedAt        time.Time   `json:"started_at"`
	FinishedAt       time.Time   `json:"finished_at"`
	Outcome          string      `json:"outcome"`
	ElapsedSeconds   float64     `json:"elapsed_seconds"`
	CandidatesTested uint64      `json:"candidates_tested"`
	Found            int         `json:"found"`
	Values           []uint32    `json:"values"`
	Discoveries      []Discovery `json:"discoveries,omitempty"`
	Cursor           Cursor      `json:"cursor"`
	Exhausted        bool        `json:"exhausted"`
}

// AddDiscovery appends a discovery made during this run.
func (r *Report) AddDiscovery(d Discovery) {
	r.Discoveries = append(r.Discoveries, d)
}

// Save writes the report as indented JSON through a temporary file and
// rename, so readers never observe a partial document.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errs.WrapPath(errs.ErrorTypeReportWrite, "failed to encode report", path, err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errs.WrapPath(errs.ErrorTypeReportWrite, "failed to create report directory", path, err)
		}
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errs.WrapPath(errs.ErrorTypeReportWrite, "failed to write report", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errs.WrapPath(errs.ErrorTypeReportWrite, "failed to replace report", path, err)
	}

	return nil
}

// Load reads a report back from disk.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
