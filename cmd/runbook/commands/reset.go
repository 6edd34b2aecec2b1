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
)

func resetCommand() *cli.Command {
	var configPath string
	var name string
	return &cli.Command{
		Name:    "reset",
		Summary: "Clear a scenario's saved progress.",
		Usage:   "runbook reset -c <scenario> | --scenario <name>",
		Description: "Forget every recorded step completion for a scenario. The next\n" +
			"run starts from the first step. Accepts either the definition file\n" +
			"(-c) or a bare scenario name (--scenario) when the file is gone.",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("reset", pflag.ContinueOnError)
			fs.StringVarP(&configPath, "config", "c", "", "scenario definition file")
			fs.StringVar(&name, "scenario", "", "scenario name (alternative to -c)")
			return fs
		},
		Run: func(args []string) error {
			switch {
			case configPath != "" && name != "":
				return cli.Usagef("-c and --scenario are mutually exclusive")
			case configPath != "":
				s, err := loadScenario(configPath)
				if err != nil {
					return err
				}
				name = s.Name
			case name == "":
				return cli.Usagef("a scenario is required (-c <file> or --scenario <name>)")
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

			if err := store.Clear(ctx, name); err != nil {
				return fmt.Errorf("clearing progress: %w", err)
			}
			fmt.Println(ui.SuccessMsg("progress for %s cleared", name))
			return nil
		},
	}
}
