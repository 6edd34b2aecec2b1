// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the runbook command tree: run, list,
// validate, show, reset, and version.
package commands
