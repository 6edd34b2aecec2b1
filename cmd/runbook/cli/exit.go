// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a specific exit code without an extra error line.
// Commands that already printed their own output (a run summary, a
// validation report) return an ExitError so main exits with the right
// code silently.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the code main should exit with. main checks for
// this interface to tell handled non-zero exits apart from unexpected
// errors that need printing.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// UsageError reports a problem with how the command was invoked: an
// unknown flag, a missing argument, an inconsistent flag combination.
// main prints the message and exits with code 2, keeping usage errors
// distinguishable from step failures (code 1) in scripts.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// Usagef builds a UsageError from a format string.
func Usagef(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}
