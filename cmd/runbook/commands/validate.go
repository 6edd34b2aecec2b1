// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/runbooklabs/runbook/cmd/runbook/cli"
	"github.com/runbooklabs/runbook/cmd/runbook/ui"
	"github.com/runbooklabs/runbook/lib/scenario"
)

func validateCommand() *cli.Command {
	var configPath string
	var params []string
	return &cli.Command{
		Name:    "validate",
		Summary: "Check a scenario definition without running it.",
		Usage:   "runbook validate -c <scenario> [--param KEY=VALUE]",
		Description: "Parse and structurally validate a scenario, then check that\n" +
			"every required variable resolves. Exits 0 when the scenario is\n" +
			"runnable, 2 otherwise.",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("validate", pflag.ContinueOnError)
			fs.StringVarP(&configPath, "config", "c", "", "scenario definition file (required)")
			fs.StringArrayVar(&params, "param", nil, "set a scenario variable (KEY=VALUE, repeatable)")
			return fs
		},
		Run: func(args []string) error {
			if configPath == "" {
				return cli.Usagef("a scenario file is required (-c <file>)")
			}

			s, err := scenario.ReadFile(configPath)
			if err != nil {
				fmt.Println(ui.ErrorMsg("%v", err))
				return &cli.ExitError{Code: 2}
			}

			issues := scenario.Validate(s)

			parsed, err := parseParams(params)
			if err != nil {
				return err
			}
			if _, err := scenario.ResolveVariables(s.Variables, parsed, os.Getenv); err != nil {
				issues = append(issues, err.Error())
			}

			if len(issues) > 0 {
				fmt.Println(ui.ErrorMsg("%s has %d issue(s):", configPath, len(issues)))
				for _, issue := range issues {
					fmt.Printf("  - %s\n", issue)
				}
				return &cli.ExitError{Code: 2}
			}

			fmt.Println(ui.SuccessMsg("%s is valid: %d step(s), %d variable(s)", configPath, len(s.Steps), len(s.Variables)))
			return nil
		},
	}
}
