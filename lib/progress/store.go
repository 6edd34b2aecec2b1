// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"context"
	"fmt"
	"regexp"
)

// Store is the durable progress record contract. Implementations must
// persist each MarkComplete before returning: the runner's central
// correctness guarantee is that an interrupted run loses at most the
// in-flight step.
//
// Step names are recorded in completion order. Completed returns them
// in that order; callers treating the result as a set must build their
// own lookup.
type Store interface {
	// Completed returns the step names recorded for the scenario, in
	// completion order. A scenario with no record returns an empty
	// slice, not an error.
	Completed(ctx context.Context, scenario string) ([]string, error)

	// MarkComplete records a step as complete. Recording an
	// already-recorded step is a no-op, not an error.
	MarkComplete(ctx context.Context, scenario, step string) error

	// Clear removes the scenario's entire record, including its
	// fingerprint. Clearing a scenario with no record is a no-op.
	Clear(ctx context.Context, scenario string) error

	// Fingerprint returns the stored scenario-definition fingerprint,
	// or "" when none has been recorded.
	Fingerprint(ctx context.Context, scenario string) (string, error)

	// SetFingerprint records the scenario-definition fingerprint,
	// replacing any previous value.
	SetFingerprint(ctx context.Context, scenario, fingerprint string) error
}

// scenarioNamePattern constrains scenario names used as storage keys.
// FileStore derives filenames from scenario names, so path separators
// and other filesystem-hostile characters are rejected at the store
// boundary rather than silently creating files outside the state
// directory.
var scenarioNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// validateScenarioName rejects scenario names that cannot serve as
// storage keys. Shared by all store implementations so that switching
// backends never changes which scenarios are accepted.
func validateScenarioName(scenario string) error {
	if !scenarioNamePattern.MatchString(scenario) {
		return fmt.Errorf("invalid scenario name %q: must start with a letter or digit and contain only letters, digits, '.', '_', '-'", scenario)
	}
	return nil
}
