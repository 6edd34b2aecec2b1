// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the runbook
// binary: a nested command tree over pflag, help rendering, typo
// suggestions, and exit code plumbing.
package cli
