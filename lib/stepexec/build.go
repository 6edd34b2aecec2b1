// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package stepexec

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/runbooklabs/runbook/lib/clock"
	"github.com/runbooklabs/runbook/lib/runner"
	"github.com/runbooklabs/runbook/lib/scenario"
)

// BuildOptions configure how scenario steps become actions.
type BuildOptions struct {
	// Stdout and Stderr receive shell command output. Nil inherits
	// the process streams.
	Stdout io.Writer
	Stderr io.Writer
	// HTTPClient serves probe steps. Nil uses http.DefaultClient.
	HTTPClient *http.Client
	// Clock paces probe retries. Nil uses the real clock.
	Clock clock.Clock
	// DefaultTimeout applies to run steps that set none. Zero leaves
	// them unbounded.
	DefaultTimeout time.Duration
}

// FromScenario expands every step against the resolved variables and
// builds the runner step list. The scenario should already have passed
// scenario.Validate; errors here are limited to variable expansion and
// duration parsing.
func FromScenario(s *scenario.Scenario, variables map[string]string, opts BuildOptions) ([]runner.Step, error) {
	steps := make([]runner.Step, 0, len(s.Steps))

	for _, definition := range s.Steps {
		expanded, err := scenario.ExpandStep(definition, variables)
		if err != nil {
			return nil, err
		}

		var action runner.Action
		if expanded.Probe != nil {
			action, err = buildProbeAction(expanded, opts)
		} else {
			action, err = buildShellAction(expanded, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", expanded.Name, err)
		}

		steps = append(steps, runner.Step{
			Name:        expanded.Name,
			Description: expanded.Description,
			Verify:      expanded.Verify,
			Optional:    expanded.Optional,
			Action:      action,
		})
	}

	return steps, nil
}

func buildShellAction(step scenario.Step, opts BuildOptions) (runner.Action, error) {
	timeout := opts.DefaultTimeout
	if step.Timeout != "" {
		parsed, err := time.ParseDuration(step.Timeout)
		if err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
		timeout = parsed
	}

	var gracePeriod time.Duration
	if step.GracePeriod != "" {
		parsed, err := time.ParseDuration(step.GracePeriod)
		if err != nil {
			return nil, fmt.Errorf("grace_period: %w", err)
		}
		gracePeriod = parsed
	}

	return NewShellAction(ShellStep{
		Name:        step.Name,
		Run:         step.Run,
		Check:       step.Check,
		When:        step.When,
		Env:         step.Env,
		Timeout:     timeout,
		GracePeriod: gracePeriod,
		Stdout:      opts.Stdout,
		Stderr:      opts.Stderr,
	}), nil
}

func buildProbeAction(step scenario.Step, opts BuildOptions) (runner.Action, error) {
	var interval time.Duration
	if step.Probe.Interval != "" {
		parsed, err := time.ParseDuration(step.Probe.Interval)
		if err != nil {
			return nil, fmt.Errorf("probe.interval: %w", err)
		}
		interval = parsed
	}

	return NewProbeAction(ProbeStep{
		Name:         step.Name,
		URL:          step.Probe.URL,
		Method:       step.Probe.Method,
		ExpectStatus: step.Probe.ExpectStatus,
		ExpectBody:   step.Probe.ExpectBody,
		Interval:     interval,
		Attempts:     step.Probe.Attempts,
	}, opts.HTTPClient, opts.Clock), nil
}
