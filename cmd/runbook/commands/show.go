// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/runbooklabs/runbook/cmd/runbook/cli"
	"github.com/runbooklabs/runbook/cmd/runbook/ui"
)

func showCommand() *cli.Command {
	var configPath string
	return &cli.Command{
		Name:    "show",
		Summary: "Show a scenario's steps, variables, and commands.",
		Usage:   "runbook show -c <scenario>",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("show", pflag.ContinueOnError)
			fs.StringVarP(&configPath, "config", "c", "", "scenario definition file (required)")
			return fs
		},
		Run: func(args []string) error {
			s, err := loadScenario(configPath)
			if err != nil {
				return err
			}

			fmt.Println(ui.BoldStyle.Render(s.Name))
			if s.Description != "" {
				fmt.Println(ui.MutedStyle.Render(s.Description))
			}

			if len(s.Variables) > 0 {
				names := make([]string, 0, len(s.Variables))
				for name := range s.Variables {
					names = append(names, name)
				}
				sort.Strings(names)

				rows := make([][]string, 0, len(names))
				for _, name := range names {
					variable := s.Variables[name]
					required := ""
					if variable.Required {
						required = "yes"
					}
					rows = append(rows, []string{name, variable.Default, required, variable.Description})
				}
				fmt.Println(ui.Table([]string{"variable", "default", "required", "description"}, rows))
			}

			rows := make([][]string, 0, len(s.Steps))
			for index, step := range s.Steps {
				kind := "run"
				detail := step.Run
				if step.Probe != nil {
					kind = "probe"
					detail = step.Probe.URL
				}
				if step.Verify {
					kind += " (verify)"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", index+1),
					step.Name,
					kind,
					truncate(detail, 60),
				})
			}
			fmt.Println(ui.Table([]string{"#", "step", "kind", "command"}, rows))
			return nil
		},
	}
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit-1] + "…"
}
