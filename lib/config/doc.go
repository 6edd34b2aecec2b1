// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads runbook's own settings: where progress state
// lives and which store backend keeps it. Scenario definitions are a
// separate concern (see lib/scenario).
package config
