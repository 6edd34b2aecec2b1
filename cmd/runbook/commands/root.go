// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/runbooklabs/runbook/cmd/runbook/cli"
)

// Root builds the full command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "runbook",
		Summary: "Resumable runner for multi-step deployment scenarios.",
		Description: "runbook executes the ordered steps of a scenario definition,\n" +
			"recording progress after each success so an interrupted or failed\n" +
			"run picks up where it left off instead of starting over.",
		Subcommands: []*cli.Command{
			runCommand(),
			listCommand(),
			validateCommand(),
			showCommand(),
			resetCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{Description: "Run a scenario end to end", Command: "runbook run -c examples/ambient-mesh.yaml"},
			{Description: "Resume at a failed step", Command: "runbook run -c examples/ambient-mesh.yaml -s deploy-gateway"},
			{Description: "Run only the verification steps", Command: "runbook run -c examples/ambient-mesh.yaml -t"},
		},
	}
}
