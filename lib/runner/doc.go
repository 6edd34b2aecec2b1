// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package runner executes an ordered sequence of named steps with
// resumable progress.
//
// Steps are registered in execution order and run front to back. After
// each successful step the runner marks it complete in a progress
// store, so a later run of the same scenario skips everything already
// done and picks up where the previous run stopped. A failed step
// halts the run and reports the exact command to resume from it.
//
// The runner is deliberately dumb about what a step does: a step is a
// name plus an Action callback. Shell commands, HTTP probes, and
// anything else are built on top (see lib/stepexec).
package runner
