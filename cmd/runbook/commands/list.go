// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/runbooklabs/runbook/cmd/runbook/cli"
	"github.com/runbooklabs/runbook/cmd/runbook/ui"
	"github.com/runbooklabs/runbook/lib/config"
	"github.com/runbooklabs/runbook/lib/progress"
	"github.com/runbooklabs/runbook/lib/scenario"
)

func listCommand() *cli.Command {
	var configPath string
	return &cli.Command{
		Name:    "list",
		Summary: "List a scenario's steps with their completion state.",
		Usage:   "runbook list -c <scenario>",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
			fs.StringVarP(&configPath, "config", "c", "", "scenario definition file (required)")
			return fs
		},
		Run: func(args []string) error {
			s, err := loadScenario(configPath)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return cli.Usagef("%v", err)
			}
			store, closeStore, err := openStore(cfg, cli.NewLogger())
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return printChecklist(ctx, s, store)
		},
	}
}

// printChecklist renders every step with a completion marker from the
// progress store. Shared by the list command and run --list.
func printChecklist(ctx context.Context, s *scenario.Scenario, store progress.Store) error {
	completedSteps, err := store.Completed(ctx, s.Name)
	if err != nil {
		return fmt.Errorf("loading progress: %w", err)
	}
	complete := make(map[string]bool, len(completedSteps))
	for _, name := range completedSteps {
		complete[name] = true
	}

	entries := make([]ui.ChecklistEntry, 0, len(s.Steps))
	done := 0
	for _, step := range s.Steps {
		note := step.Description
		if step.Verify {
			if note != "" {
				note += " "
			}
			note += "(verify)"
		}
		if complete[step.Name] {
			done++
		}
		entries = append(entries, ui.ChecklistEntry{
			Name: step.Name,
			Done: complete[step.Name],
			Note: note,
		})
	}

	fmt.Printf("%s (%d/%d complete)\n", ui.BoldStyle.Render(s.Name), done, len(s.Steps))
	fmt.Print(ui.Checklist(entries))
	return nil
}
