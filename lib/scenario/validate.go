// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"fmt"
	"regexp"
	"time"
)

// namePattern constrains scenario and step names. Names key progress
// records and appear in resume commands, so they must be shell- and
// filesystem-safe.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validate checks a Scenario for structural issues. Returns a list of
// human-readable issue descriptions; an empty list means the scenario
// is valid.
//
// Structural checks include:
//   - Scenario name and step names match the allowed character set
//   - At least one step is required
//   - Step names are unique (duplicates would corrupt resume state)
//   - Each step sets exactly one of run or probe
//   - check, when, and grace_period are only valid on run steps
//   - Durations parse via time.ParseDuration
//   - Probe URL is required; attempts and expect_status are sane
func Validate(s *Scenario) []string {
	var issues []string

	if s.Name != "" && !namePattern.MatchString(s.Name) {
		issues = append(issues, fmt.Sprintf("scenario name %q: must start with a letter or digit and contain only letters, digits, '.', '_', '-'", s.Name))
	}

	if len(s.Steps) == 0 {
		issues = append(issues, "scenario has no steps (at least one step is required)")
	}

	seen := make(map[string]int, len(s.Steps))
	for index, step := range s.Steps {
		prefix := fmt.Sprintf("steps[%d]", index)

		switch {
		case step.Name == "":
			issues = append(issues, fmt.Sprintf("%s: name is required", prefix))
		case !namePattern.MatchString(step.Name):
			issues = append(issues, fmt.Sprintf("%s: name %q must start with a letter or digit and contain only letters, digits, '.', '_', '-'", prefix, step.Name))
		default:
			prefix = fmt.Sprintf("steps[%d] %q", index, step.Name)
			if first, dup := seen[step.Name]; dup {
				issues = append(issues, fmt.Sprintf("%s: duplicate step name (first declared at steps[%d])", prefix, first))
			} else {
				seen[step.Name] = index
			}
		}

		hasRun := step.Run != ""
		hasProbe := step.Probe != nil

		switch {
		case hasRun && hasProbe:
			issues = append(issues, fmt.Sprintf("%s: run and probe are mutually exclusive (set exactly one)", prefix))
		case !hasRun && !hasProbe:
			issues = append(issues, fmt.Sprintf("%s: must set either run or probe", prefix))
		}

		// Fields that are only meaningful on run steps.
		if !hasRun {
			if step.Check != "" {
				issues = append(issues, fmt.Sprintf("%s: check is only valid on run steps", prefix))
			}
			if step.When != "" {
				issues = append(issues, fmt.Sprintf("%s: when is only valid on run steps", prefix))
			}
			if step.GracePeriod != "" {
				issues = append(issues, fmt.Sprintf("%s: grace_period is only valid on run steps", prefix))
			}
		}

		if step.Timeout != "" {
			if _, err := time.ParseDuration(step.Timeout); err != nil {
				issues = append(issues, fmt.Sprintf("%s: invalid timeout %q: %v", prefix, step.Timeout, err))
			}
		}
		if step.GracePeriod != "" {
			if _, err := time.ParseDuration(step.GracePeriod); err != nil {
				issues = append(issues, fmt.Sprintf("%s: invalid grace_period %q: %v", prefix, step.GracePeriod, err))
			}
		}

		if hasProbe {
			issues = append(issues, validateProbe(prefix, step.Probe)...)
		}
	}

	return issues
}

// validateProbe checks the probe-specific fields.
func validateProbe(prefix string, probe *Probe) []string {
	var issues []string

	if probe.URL == "" {
		issues = append(issues, fmt.Sprintf("%s: probe.url is required", prefix))
	}
	if probe.Attempts < 0 {
		issues = append(issues, fmt.Sprintf("%s: probe.attempts must be positive, got %d", prefix, probe.Attempts))
	}
	if probe.ExpectStatus != 0 && (probe.ExpectStatus < 100 || probe.ExpectStatus > 599) {
		issues = append(issues, fmt.Sprintf("%s: probe.expect_status %d is not a valid HTTP status", prefix, probe.ExpectStatus))
	}
	if probe.Interval != "" {
		if _, err := time.ParseDuration(probe.Interval); err != nil {
			issues = append(issues, fmt.Sprintf("%s: invalid probe.interval %q: %v", prefix, probe.Interval, err))
		}
	}
	switch probe.Method {
	case "", "GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS":
	default:
		issues = append(issues, fmt.Sprintf("%s: unsupported probe.method %q", prefix, probe.Method))
	}

	return issues
}
