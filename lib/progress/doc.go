// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package progress persists per-scenario completion state for the step
// runner.
//
// A progress record is the set of step names a scenario has completed,
// plus an optional fingerprint of the scenario definition the record
// was written against. Records are keyed by scenario name so that
// concurrent scenarios never collide. The record is created on the
// first run, appended to after each successful step, fully cleared on
// an explicit reset, and never expired.
//
// The Store interface is injected into the runner at construction.
// There is no process-wide singleton: multiple scenarios (and tests)
// can run in isolation within the same process against independent
// stores.
//
// Three implementations are provided:
//
//   - FileStore: one flat, human-readable file per scenario under a
//     state directory. The default backend; an operator can inspect or
//     hand-edit the record with any text editor.
//   - SQLiteStore: a SQLite database shared by all scenarios, for
//     installations that prefer a single durable state file with
//     transactional writes.
//   - MemoryStore: in-process only, for tests and embedding.
package progress
