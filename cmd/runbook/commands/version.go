// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"runtime"

	"github.com/runbooklabs/runbook/cmd/runbook/cli"
)

// Set at build time via -ldflags "-X .../commands.version=v1.2.3".
var (
	version = "dev"
	commit  = "unknown"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print the runbook version.",
		Run: func(args []string) error {
			fmt.Printf("runbook %s (%s, %s, %s/%s)\n",
				version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
