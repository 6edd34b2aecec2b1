// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import "time"

// Status is the tri-state result of a single step.
type Status int

const (
	// StatusOK means the step ran and succeeded, or was verified as
	// already complete.
	StatusOK Status = iota
	// StatusFailed means the step ran and failed.
	StatusFailed
	// StatusSkipped means the step's guard condition ruled it out.
	// Skipped steps are not marked complete; a later run re-evaluates
	// the guard.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the overall result of a run. It is a closed enum: callers
// switch on it rather than interpreting process exit codes.
type Outcome int

const (
	// Completed means every step in scope ran (or was skipped by its
	// guard or prior completion) and none failed.
	Completed Outcome = iota
	// Stopped means the run halted at a requested stop boundary with
	// no failures. Progress through the boundary is saved.
	Stopped
	// Failed means a step failed. Progress up to the failing step is
	// saved; the failing step is not marked complete.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepRecord describes what happened to one step during a run.
type StepRecord struct {
	// Name is the step's registered name.
	Name string
	// Status is the step's tri-state result.
	Status Status
	// Duration is how long the step's action ran. Zero for steps
	// skipped by prior completion.
	Duration time.Duration
	// Err is the step's failure, nil unless Status is StatusFailed.
	Err error
	// AlreadyComplete marks steps skipped because a previous run
	// finished them. Their Status is StatusOK.
	AlreadyComplete bool
}

// Result is the full account of one run.
type Result struct {
	// Outcome classifies the run as a whole.
	Outcome Outcome
	// Scenario is the scenario name the run executed.
	Scenario string
	// Records holds one entry per step the run touched, in execution
	// order. Steps before the start position do not appear.
	Records []StepRecord
	// FailedStep names the step that failed. Empty unless Outcome is
	// Failed.
	FailedStep string
	// ResumeCommand is the command line that resumes the run at the
	// failed step. Empty unless Outcome is Failed and the runner was
	// configured with a resume command builder.
	ResumeCommand string
}
