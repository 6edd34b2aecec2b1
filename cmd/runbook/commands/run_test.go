// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runbooklabs/runbook/cmd/runbook/cli"
)

// writeScenario drops a scenario file into a temp dir and points the
// state directory at another temp dir, so each test gets isolated
// progress.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("RUNBOOK_STATE_DIR", t.TempDir())
	t.Setenv("RUNBOOK_STORE", "file")
	os.Unsetenv("RUNBOOK_CONFIG")
	os.Unsetenv("RUNBOOK_RESULT_PATH")
	return path
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"REGION=eu-west-1", "NAME=a=b"})
	if err != nil {
		t.Fatalf("parseParams: %v", err)
	}
	if params["REGION"] != "eu-west-1" {
		t.Errorf("REGION = %q", params["REGION"])
	}
	// Values may contain '='; only the first splits.
	if params["NAME"] != "a=b" {
		t.Errorf("NAME = %q", params["NAME"])
	}

	for _, bad := range []string{"NOVALUE", "=value"} {
		if _, err := parseParams([]string{bad}); err == nil {
			t.Errorf("parseParams(%q) succeeded", bad)
		}
	}
}

func TestLoadScenarioReportsAllIssues(t *testing.T) {
	path := writeScenario(t, `
name: broken
steps:
  - name: dup
    run: "true"
  - name: dup
    run: "true"
    probe:
      url: http://x/
`)

	_, err := loadScenario(path)
	var usage *cli.UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("err = %v, want UsageError", err)
	}
	for _, want := range []string{"duplicate step name", "mutually exclusive"} {
		if !strings.Contains(usage.Message, want) {
			t.Errorf("message missing %q:\n%s", want, usage.Message)
		}
	}
}

func TestRunScenarioEndToEnd(t *testing.T) {
	work := t.TempDir()
	path := writeScenario(t, `
name: e2e
steps:
  - name: first
    run: touch `+work+`/first
  - name: second
    run: touch `+work+`/second
`)

	if err := runScenario(&runParams{configPath: path}); err != nil {
		t.Fatalf("runScenario: %v", err)
	}
	for _, marker := range []string{"first", "second"} {
		if _, err := os.Stat(filepath.Join(work, marker)); err != nil {
			t.Errorf("step %s did not run: %v", marker, err)
		}
	}

	// Second run skips everything already complete.
	if err := os.Remove(filepath.Join(work, "first")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := runScenario(&runParams{configPath: path}); err != nil {
		t.Fatalf("second runScenario: %v", err)
	}
	if _, err := os.Stat(filepath.Join(work, "first")); err == nil {
		t.Error("completed step re-ran on the second invocation")
	}
}

func TestRunScenarioFailureExitsOne(t *testing.T) {
	work := t.TempDir()
	path := writeScenario(t, `
name: fails
steps:
  - name: ok-step
    run: touch `+work+`/ok
  - name: bad-step
    run: exit 9
  - name: never
    run: touch `+work+`/never
`)

	err := runScenario(&runParams{configPath: path})
	var exit *cli.ExitError
	if !errors.As(err, &exit) || exit.Code != 1 {
		t.Fatalf("err = %v, want ExitError{1}", err)
	}
	if _, statErr := os.Stat(filepath.Join(work, "never")); statErr == nil {
		t.Error("step after the failure ran")
	}

	// Fixing the step and rerunning resumes at bad-step: ok-step's
	// marker is not recreated.
	if err := os.Remove(filepath.Join(work, "ok")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	fixed := strings.ReplaceAll(mustRead(t, path), "exit 9", "true")
	if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := runScenario(&runParams{configPath: path}); err != nil {
		t.Fatalf("resumed runScenario: %v", err)
	}
	if _, err := os.Stat(filepath.Join(work, "ok")); err == nil {
		t.Error("completed step re-ran during resume")
	}
	if _, err := os.Stat(filepath.Join(work, "never")); err != nil {
		t.Error("final step did not run during resume")
	}
}

func TestRunScenarioInvalidOptionsExitTwo(t *testing.T) {
	path := writeScenario(t, `
name: opts
steps:
  - name: only
    run: "true"
`)

	err := runScenario(&runParams{configPath: path, step: "nope"})
	var usage *cli.UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("err = %v, want UsageError", err)
	}
}

func TestRunScenarioResultLog(t *testing.T) {
	path := writeScenario(t, `
name: logged
steps:
  - name: only
    run: "true"
`)
	logPath := filepath.Join(t.TempDir(), "result.jsonl")

	if err := runScenario(&runParams{configPath: path, resultLog: logPath}); err != nil {
		t.Fatalf("runScenario: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(mustRead(t, logPath)), "\n")
	if len(lines) != 3 {
		t.Fatalf("result log has %d lines, want 3 (start, step, outcome):\n%s", len(lines), mustRead(t, logPath))
	}

	var start logStartEntry
	if err := json.Unmarshal([]byte(lines[0]), &start); err != nil {
		t.Fatalf("start line: %v", err)
	}
	if start.Type != "start" || start.Scenario != "logged" || start.StepCount != 1 {
		t.Errorf("start = %+v", start)
	}

	var outcome logOutcomeEntry
	if err := json.Unmarshal([]byte(lines[2]), &outcome); err != nil {
		t.Fatalf("outcome line: %v", err)
	}
	if outcome.Outcome != "completed" {
		t.Errorf("outcome = %+v", outcome)
	}
}

func TestRunScenarioResetRerunsEverything(t *testing.T) {
	work := t.TempDir()
	path := writeScenario(t, `
name: resettable
steps:
  - name: only
    run: date +%s%N >> `+work+`/runs
`)

	if err := runScenario(&runParams{configPath: path}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := runScenario(&runParams{configPath: path, reset: true}); err != nil {
		t.Fatalf("reset run: %v", err)
	}

	runs := strings.TrimSpace(mustRead(t, filepath.Join(work, "runs")))
	if got := len(strings.Split(runs, "\n")); got != 2 {
		t.Errorf("step ran %d time(s), want 2", got)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}
