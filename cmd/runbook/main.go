// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// runbook is a resumable runner for multi-step deployment scenarios.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/runbooklabs/runbook/cmd/runbook/cli"
	"github.com/runbooklabs/runbook/cmd/runbook/commands"
)

func main() {
	if err := commands.Root().Execute(os.Args[1:]); err != nil {
		// Invocation problems print with exit code 2, so scripts can
		// tell "you called it wrong" from "a step failed".
		var usage *cli.UsageError
		if errors.As(err, &usage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		// Commands that already printed their own output return an
		// ExitError carrying the code; no redundant "error:" line.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
