// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package stepexec turns scenario step definitions into runnable
// actions: shell commands executed via sh -c with timeout and process
// group cleanup, and HTTP probes polled until they match or run out
// of attempts.
package stepexec
