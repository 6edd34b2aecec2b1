// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/runbooklabs/runbook/lib/runner"
)

// resultLog writes structured JSONL during a run. Each line is an
// independent JSON object, so a crash mid-run preserves every step
// result written so far, and wrapping tooling can tail the file for
// live progress.
//
// All methods are nil-safe no-ops, so call sites need no guards when
// no log path was requested.
type resultLog struct {
	logger  *slog.Logger
	file    *os.File
	encoder *json.Encoder
}

// newResultLog creates (truncating) the JSONL log at path.
func newResultLog(path string, logger *slog.Logger) (*resultLog, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating result log %s: %w", path, err)
	}
	return &resultLog{logger: logger, file: file, encoder: json.NewEncoder(file)}, nil
}

func (r *resultLog) Close() error {
	if r == nil {
		return nil
	}
	return r.file.Close()
}

// writeStart records the scenario and step count before execution.
func (r *resultLog) writeStart(scenario string, stepCount int) {
	if r == nil {
		return
	}
	r.write(logStartEntry{
		Type:      "start",
		Scenario:  scenario,
		StepCount: stepCount,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeSteps records one line per step the run touched.
func (r *resultLog) writeSteps(records []runner.StepRecord) {
	if r == nil {
		return
	}
	for index, record := range records {
		entry := logStepEntry{
			Type:            "step",
			Index:           index,
			Name:            record.Name,
			Status:          record.Status.String(),
			DurationMS:      record.Duration.Milliseconds(),
			AlreadyComplete: record.AlreadyComplete,
		}
		if record.Err != nil {
			entry.Error = record.Err.Error()
		}
		r.write(entry)
	}
}

// writeOutcome is the final line.
func (r *resultLog) writeOutcome(result *runner.Result, duration time.Duration) {
	if r == nil {
		return
	}
	r.write(logOutcomeEntry{
		Type:          "outcome",
		Outcome:       result.Outcome.String(),
		FailedStep:    result.FailedStep,
		ResumeCommand: result.ResumeCommand,
		DurationMS:    duration.Milliseconds(),
	})
}

func (r *resultLog) write(entry any) {
	if err := r.encoder.Encode(entry); err != nil {
		r.logger.Warn("result log write failed", "error", err)
		return
	}
	// Sync per line so partial results survive a crash and are visible
	// to tailing readers immediately.
	if err := r.file.Sync(); err != nil {
		r.logger.Warn("result log sync failed", "error", err)
	}
}

// One struct per line type keeps the wire format explicit instead of a
// single struct with omitempty everywhere.

type logStartEntry struct {
	Type      string `json:"type"`
	Scenario  string `json:"scenario"`
	StepCount int    `json:"step_count"`
	Timestamp string `json:"timestamp"`
}

type logStepEntry struct {
	Type            string `json:"type"`
	Index           int    `json:"index"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	DurationMS      int64  `json:"duration_ms"`
	AlreadyComplete bool   `json:"already_complete,omitempty"`
	Error           string `json:"error,omitempty"`
}

type logOutcomeEntry struct {
	Type          string `json:"type"`
	Outcome       string `json:"outcome"`
	FailedStep    string `json:"failed_step,omitempty"`
	ResumeCommand string `json:"resume_command,omitempty"`
	DurationMS    int64  `json:"duration_ms"`
}
