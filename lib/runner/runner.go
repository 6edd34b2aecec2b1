// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/runbooklabs/runbook/lib/clock"
	"github.com/runbooklabs/runbook/lib/progress"
)

// timePrecision rounds step durations for display.
const timePrecision = 10 * time.Millisecond

// ErrSkip is returned by an Action to report that its guard condition
// ruled the step out. The runner records the step as skipped and moves
// on without marking it complete.
var ErrSkip = errors.New("step skipped by guard")

// ErrInvalidOptions wraps every error caused by bad run options (an
// unknown step reference, a stop boundary before the start position).
// These surface before any step executes, so callers can report them
// as usage errors rather than run failures.
var ErrInvalidOptions = errors.New("invalid run options")

// Action executes one step. A nil return marks the step complete.
// Returning ErrSkip records the step as skipped without marking it.
// Any other error fails the step and halts the run.
type Action func(ctx context.Context) error

// Step is one registered unit of work.
type Step struct {
	// Name identifies the step. Names key progress records and must be
	// unique within a runner.
	Name string
	// Description is a one-line summary for listings.
	Description string
	// Verify marks steps that check state without changing it. Only
	// verify steps run in a tests-only run.
	Verify bool
	// Optional means the step's failure is recorded but does not halt
	// the run or change its outcome. The failed step stays incomplete,
	// so a later run tries it again.
	Optional bool
	// Action does the work.
	Action Action
}

// Options control a single run.
type Options struct {
	// From restarts execution at the named step (or 1-based index),
	// re-running it even when a previous run completed it. Empty means
	// start from the first step.
	From string
	// StopAfter halts the run after the named step (or 1-based index)
	// finishes, reporting Stopped. Empty means run to the end.
	StopAfter string
	// TestsOnly runs only the verify steps, ignoring saved progress
	// and writing none.
	TestsOnly bool
	// Reset clears the scenario's saved progress before running.
	Reset bool
}

// Runner executes registered steps in order against a progress store.
type Runner struct {
	scenario string
	store    progress.Store
	steps    []Step
	names    map[string]int

	logger        *slog.Logger
	clock         clock.Clock
	output        io.Writer
	resumeCommand func(step string) string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithClock sets the time source. Defaults to the real clock.
func WithClock(c clock.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithOutput sets the writer for human-readable progress lines.
// Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.output = w }
}

// WithResumeCommand sets the builder for the resume command included
// in failure results. The builder receives the failed step's name.
func WithResumeCommand(build func(step string) string) Option {
	return func(r *Runner) { r.resumeCommand = build }
}

// New creates a Runner for the named scenario backed by store.
func New(scenario string, store progress.Store, opts ...Option) *Runner {
	r := &Runner{
		scenario: scenario,
		store:    store,
		names:    make(map[string]int),
		logger:   slog.Default(),
		clock:    clock.Real(),
		output:   io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends a step to the execution order. Steps run in
// registration order. Registration fails on an empty name, a nil
// action, or a name already registered.
func (r *Runner) Register(step Step) error {
	if step.Name == "" {
		return errors.New("step name is required")
	}
	if step.Action == nil {
		return fmt.Errorf("step %q: action is required", step.Name)
	}
	if _, exists := r.names[step.Name]; exists {
		return fmt.Errorf("step %q is already registered", step.Name)
	}
	r.names[step.Name] = len(r.steps)
	r.steps = append(r.steps, step)
	return nil
}

// List returns the registered steps in execution order. The returned
// slice is a copy.
func (r *Runner) List() []Step {
	steps := make([]Step, len(r.steps))
	copy(steps, r.steps)
	return steps
}

// Run executes the registered steps under opts.
//
// The returned error is non-nil only for problems outside the steps
// themselves: invalid options (wrapped in ErrInvalidOptions) or a
// progress store failure. A step failing is not an error here; it is
// a Result with Outcome Failed.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if len(r.steps) == 0 {
		return nil, fmt.Errorf("%w: no steps registered", ErrInvalidOptions)
	}

	start := 0
	explicitStart := false
	if opts.From != "" {
		index, err := r.resolveStep(opts.From)
		if err != nil {
			return nil, fmt.Errorf("%w: --step: %v", ErrInvalidOptions, err)
		}
		start = index
		explicitStart = true
	}

	stop := -1
	if opts.StopAfter != "" {
		index, err := r.resolveStep(opts.StopAfter)
		if err != nil {
			return nil, fmt.Errorf("%w: --stop-after: %v", ErrInvalidOptions, err)
		}
		if index < start {
			return nil, fmt.Errorf("%w: stop boundary %q (step %d) precedes start step %q (step %d)",
				ErrInvalidOptions, opts.StopAfter, index+1, r.steps[start].Name, start+1)
		}
		stop = index
	}

	if opts.Reset {
		if err := r.store.Clear(ctx, r.scenario); err != nil {
			return nil, fmt.Errorf("clearing progress: %w", err)
		}
		r.logger.Info("progress cleared", "scenario", r.scenario)
	}

	if opts.TestsOnly {
		return r.runVerifyOnly(ctx)
	}

	completedSteps, err := r.store.Completed(ctx, r.scenario)
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	complete := make(map[string]bool, len(completedSteps))
	for _, name := range completedSteps {
		complete[name] = true
	}

	result := &Result{Outcome: Completed, Scenario: r.scenario}
	total := len(r.steps)

	for index := start; index < total; index++ {
		step := r.steps[index]

		// A completed step is skipped unless it is the explicit
		// restart target, which always re-runs.
		if complete[step.Name] && !(explicitStart && index == start) {
			fmt.Fprintf(r.output, "step %d/%d: %s... skipped (already complete)\n", index+1, total, step.Name)
			result.Records = append(result.Records, StepRecord{
				Name:            step.Name,
				Status:          StatusOK,
				AlreadyComplete: true,
			})
			if index == stop {
				result.Outcome = Stopped
				r.logger.Info("run stopped at boundary", "scenario", r.scenario, "step", step.Name)
				return result, nil
			}
			continue
		}

		record, err := r.runStep(ctx, index, total, step, true)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, record)

		if record.Status == StatusFailed {
			if step.Optional {
				r.logger.Warn("optional step failed, continuing",
					"scenario", r.scenario, "step", step.Name, "error", record.Err)
			} else {
				result.Outcome = Failed
				result.FailedStep = step.Name
				if r.resumeCommand != nil {
					result.ResumeCommand = r.resumeCommand(step.Name)
				}
				r.logger.Error("run failed", "scenario", r.scenario, "step", step.Name, "error", record.Err)
				return result, nil
			}
		}

		if index == stop {
			result.Outcome = Stopped
			r.logger.Info("run stopped at boundary", "scenario", r.scenario, "step", step.Name)
			return result, nil
		}
	}

	r.logger.Info("run completed", "scenario", r.scenario, "steps", len(result.Records))
	return result, nil
}

// runVerifyOnly runs every verify step regardless of saved progress
// and writes no progress. All verify steps run even after a failure,
// so one pass reports every broken check.
func (r *Runner) runVerifyOnly(ctx context.Context) (*Result, error) {
	result := &Result{Outcome: Completed, Scenario: r.scenario}

	var verify []int
	for index, step := range r.steps {
		if step.Verify {
			verify = append(verify, index)
		}
	}
	if len(verify) == 0 {
		return nil, fmt.Errorf("%w: scenario has no verify steps", ErrInvalidOptions)
	}

	for position, index := range verify {
		step := r.steps[index]
		record, err := r.runStepAt(ctx, position+1, len(verify), step, false)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, record)
		if record.Status == StatusFailed && result.Outcome != Failed {
			result.Outcome = Failed
			result.FailedStep = step.Name
		}
	}
	return result, nil
}

// runStep executes one step by its position in the full step list.
func (r *Runner) runStep(ctx context.Context, index, total int, step Step, mark bool) (StepRecord, error) {
	return r.runStepAt(ctx, index+1, total, step, mark)
}

// runStepAt executes step, printing it as "step ordinal/total", and
// marks it complete on success when mark is set.
func (r *Runner) runStepAt(ctx context.Context, ordinal, total int, step Step, mark bool) (StepRecord, error) {
	fmt.Fprintf(r.output, "step %d/%d: %s... ", ordinal, total, step.Name)
	r.logger.Debug("step starting", "scenario", r.scenario, "step", step.Name)

	started := r.clock.Now()
	err := step.Action(ctx)
	elapsed := r.clock.Now().Sub(started)

	record := StepRecord{Name: step.Name, Duration: elapsed}
	switch {
	case err == nil:
		record.Status = StatusOK
		if mark {
			if err := r.store.MarkComplete(ctx, r.scenario, step.Name); err != nil {
				fmt.Fprintln(r.output)
				return StepRecord{}, fmt.Errorf("recording completion of step %q: %w", step.Name, err)
			}
		}
		fmt.Fprintf(r.output, "ok (%s)\n", elapsed.Round(timePrecision))
	case errors.Is(err, ErrSkip):
		record.Status = StatusSkipped
		fmt.Fprintln(r.output, "skipped")
	default:
		record.Status = StatusFailed
		record.Err = err
		fmt.Fprintf(r.output, "failed (%s)\n", elapsed.Round(timePrecision))
	}
	return record, nil
}

// resolveStep maps a step reference (exact name, or 1-based index) to
// a position in the step list. Names win over indices, so a step
// literally named "2" is addressable.
func (r *Runner) resolveStep(ref string) (int, error) {
	if index, ok := r.names[ref]; ok {
		return index, nil
	}
	if index, err := strconv.Atoi(ref); err == nil {
		if index < 1 || index > len(r.steps) {
			return 0, fmt.Errorf("step index %d out of range 1..%d", index, len(r.steps))
		}
		return index - 1, nil
	}
	return 0, fmt.Errorf("unknown step %q", ref)
}
