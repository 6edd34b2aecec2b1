// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"context"
	"testing"
)

// testStoreContract exercises the Store behavior every implementation
// must share: empty record on first read, completion order, idempotent
// marks, fingerprint round-trip, and full clear.
func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	const scenario = "contract-scenario"

	// Fresh scenario: empty record, no fingerprint.
	steps, err := store.Completed(ctx, scenario)
	if err != nil {
		t.Fatalf("Completed on fresh scenario: %v", err)
	}
	if len(steps) != 0 {
		t.Fatalf("fresh scenario has %d completed steps, want 0", len(steps))
	}
	fingerprint, err := store.Fingerprint(ctx, scenario)
	if err != nil {
		t.Fatalf("Fingerprint on fresh scenario: %v", err)
	}
	if fingerprint != "" {
		t.Fatalf("fresh scenario fingerprint = %q, want empty", fingerprint)
	}

	// Marks preserve completion order; duplicates are dropped.
	for _, step := range []string{"create-cluster", "install-mesh", "create-cluster"} {
		if err := store.MarkComplete(ctx, scenario, step); err != nil {
			t.Fatalf("MarkComplete(%q): %v", step, err)
		}
	}
	steps, err = store.Completed(ctx, scenario)
	if err != nil {
		t.Fatalf("Completed: %v", err)
	}
	want := []string{"create-cluster", "install-mesh"}
	if len(steps) != len(want) {
		t.Fatalf("Completed = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("Completed[%d] = %q, want %q", i, steps[i], want[i])
		}
	}

	// Fingerprint round-trip, including replacement.
	if err := store.SetFingerprint(ctx, scenario, "aaaa"); err != nil {
		t.Fatalf("SetFingerprint: %v", err)
	}
	if err := store.SetFingerprint(ctx, scenario, "bbbb"); err != nil {
		t.Fatalf("SetFingerprint (replace): %v", err)
	}
	fingerprint, err = store.Fingerprint(ctx, scenario)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fingerprint != "bbbb" {
		t.Errorf("Fingerprint = %q, want %q", fingerprint, "bbbb")
	}

	// Setting a fingerprint must not disturb completions.
	steps, err = store.Completed(ctx, scenario)
	if err != nil {
		t.Fatalf("Completed after SetFingerprint: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("Completed after SetFingerprint = %v, want 2 steps", steps)
	}

	// Clear removes everything; clearing again is a no-op.
	if err := store.Clear(ctx, scenario); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(ctx, scenario); err != nil {
		t.Fatalf("Clear (repeat): %v", err)
	}
	steps, err = store.Completed(ctx, scenario)
	if err != nil {
		t.Fatalf("Completed after Clear: %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("Completed after Clear = %v, want empty", steps)
	}
	fingerprint, err = store.Fingerprint(ctx, scenario)
	if err != nil {
		t.Fatalf("Fingerprint after Clear: %v", err)
	}
	if fingerprint != "" {
		t.Errorf("Fingerprint after Clear = %q, want empty", fingerprint)
	}

	// Scenario isolation: another scenario's record is untouched by
	// activity above.
	if err := store.MarkComplete(ctx, "other-scenario", "probe-gateway"); err != nil {
		t.Fatalf("MarkComplete(other-scenario): %v", err)
	}
	steps, err = store.Completed(ctx, "other-scenario")
	if err != nil {
		t.Fatalf("Completed(other-scenario): %v", err)
	}
	if len(steps) != 1 || steps[0] != "probe-gateway" {
		t.Errorf("Completed(other-scenario) = %v, want [probe-gateway]", steps)
	}
}

func TestValidateScenarioName(t *testing.T) {
	valid := []string{"ambient-mesh", "a", "Demo_2.1", "0-smoke"}
	for _, name := range valid {
		if err := validateScenarioName(name); err != nil {
			t.Errorf("validateScenarioName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "../escape", "a/b", ".hidden", "-lead", "a b", "a\nb"}
	for _, name := range invalid {
		if err := validateScenarioName(name); err == nil {
			t.Errorf("validateScenarioName(%q) = nil, want error", name)
		}
	}
}

func TestMemoryStoreContract(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}
