// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/runbooklabs/runbook/cmd/runbook/cli"
	"github.com/runbooklabs/runbook/cmd/runbook/ui"
	"github.com/runbooklabs/runbook/lib/config"
	"github.com/runbooklabs/runbook/lib/progress"
	"github.com/runbooklabs/runbook/lib/runner"
	"github.com/runbooklabs/runbook/lib/scenario"
	"github.com/runbooklabs/runbook/lib/stepexec"
)

type runParams struct {
	configPath string
	step       string
	stopAfter  string
	testsOnly  bool
	reset      bool
	list       bool
	params     []string
	resultLog  string
}

func runCommand() *cli.Command {
	params := &runParams{}
	return &cli.Command{
		Name:    "run",
		Summary: "Execute a scenario, resuming saved progress.",
		Usage:   "runbook run -c <scenario> [flags]",
		Description: "Execute the scenario's steps in order. Steps completed by a\n" +
			"previous run are skipped, so rerunning after a failure resumes at\n" +
			"the step that failed.",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
			fs.StringVarP(&params.configPath, "config", "c", "", "scenario definition file (required)")
			fs.StringVarP(&params.step, "step", "s", "", "restart at this step (name or 1-based index), re-running it even if complete")
			fs.StringVar(&params.stopAfter, "stop-after", "", "stop after this step (name or 1-based index) completes")
			fs.BoolVarP(&params.testsOnly, "tests-only", "t", false, "run only the verify steps; progress is neither read nor written")
			fs.BoolVar(&params.reset, "reset", false, "clear saved progress before running")
			fs.BoolVarP(&params.list, "list", "l", false, "list steps with completion state instead of running")
			fs.StringArrayVar(&params.params, "param", nil, "set a scenario variable (KEY=VALUE, repeatable)")
			fs.StringVar(&params.resultLog, "result-log", "", "write a JSONL result log to this path")
			return fs
		},
		Examples: []cli.Example{
			{Description: "Deploy, stopping before the verification phase", Command: "runbook run -c demo.yaml --stop-after install-mesh"},
			{Description: "Force a completed step to run again", Command: "runbook run -c demo.yaml -s create-cluster"},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Usagef("unexpected argument %q", args[0])
			}
			return runScenario(params)
		},
	}
}

func runScenario(p *runParams) error {
	logger := cli.NewLogger()

	s, err := loadScenario(p.configPath)
	if err != nil {
		return err
	}
	variables, err := resolveVariables(s, p.params)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return cli.Usagef("%v", err)
	}
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if p.list {
		return printChecklist(ctx, s, store)
	}

	steps, err := stepexec.FromScenario(s, variables, stepexec.BuildOptions{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		DefaultTimeout: cfg.DefaultTimeout,
	})
	if err != nil {
		return cli.Usagef("%v", err)
	}

	run := runner.New(s.Name, store,
		runner.WithLogger(logger),
		runner.WithOutput(os.Stdout),
		runner.WithResumeCommand(func(step string) string {
			return fmt.Sprintf("runbook run -c %s -s %s", p.configPath, step)
		}),
	)
	for _, step := range steps {
		if err := run.Register(step); err != nil {
			return err
		}
	}

	fingerprint, err := scenario.FingerprintFile(p.configPath)
	if err != nil {
		return err
	}
	if !p.testsOnly {
		warnOnFingerprintDrift(ctx, store, s.Name, fingerprint, p.reset, logger)
	}

	log, err := openResultLog(p.resultLog, logger)
	if err != nil {
		return err
	}
	defer log.Close()

	log.writeStart(s.Name, len(steps))
	started := time.Now()

	result, err := run.Run(ctx, runner.Options{
		From:      p.step,
		StopAfter: p.stopAfter,
		TestsOnly: p.testsOnly,
		Reset:     p.reset,
	})
	if err != nil {
		if errors.Is(err, runner.ErrInvalidOptions) {
			return cli.Usagef("%v", err)
		}
		return err
	}

	log.writeSteps(result.Records)
	log.writeOutcome(result, time.Since(started))

	if !p.testsOnly {
		if err := store.SetFingerprint(ctx, s.Name, fingerprint); err != nil {
			logger.Warn("recording scenario fingerprint failed", "error", err)
		}
	}

	return printSummary(result, time.Since(started))
}

// warnOnFingerprintDrift compares the stored fingerprint against the
// current definition. Drift is a warning, not an abort: step names may
// be unchanged even when commands were edited, and the operator is the
// one who knows. A reset makes the old record irrelevant, so no
// warning then.
func warnOnFingerprintDrift(ctx context.Context, store progress.Store, name, current string, reset bool, logger *slog.Logger) {
	if reset {
		return
	}
	stored, err := store.Fingerprint(ctx, name)
	if err != nil {
		logger.Warn("reading stored scenario fingerprint failed", "error", err)
		return
	}
	if stored != "" && stored != current {
		fmt.Println(ui.WarnMsg("scenario definition changed since progress was recorded; saved step completions may not match (use --reset to start over)"))
	}
}

// openResultLog opens the JSONL log when a path was given via flag or
// the RUNBOOK_RESULT_PATH environment variable. Nil when neither is
// set.
func openResultLog(path string, logger *slog.Logger) (*resultLog, error) {
	if path == "" {
		path = os.Getenv("RUNBOOK_RESULT_PATH")
	}
	if path == "" {
		return nil, nil
	}
	return newResultLog(path, logger)
}

// printSummary renders the final run status and maps the outcome to
// the process exit code: 0 for completed and stopped, 1 for failed.
func printSummary(result *runner.Result, duration time.Duration) error {
	executed := 0
	skipped := 0
	for _, record := range result.Records {
		if record.AlreadyComplete || record.Status == runner.StatusSkipped {
			skipped++
		} else {
			executed++
		}
	}

	switch result.Outcome {
	case runner.Completed:
		fmt.Println(ui.SuccessMsg("scenario %s completed (%d step(s) run, %d skipped, %s)",
			result.Scenario, executed, skipped, duration.Round(time.Second)))
		return nil

	case runner.Stopped:
		fmt.Println(ui.WarnMsg("scenario %s stopped at the requested boundary (%d step(s) run, %s)",
			result.Scenario, executed, duration.Round(time.Second)))
		fmt.Println(ui.MutedStyle.Render("  rerun without --stop-after to continue"))
		return nil

	case runner.Failed:
		var failure error
		for _, record := range result.Records {
			if record.Status == runner.StatusFailed {
				failure = record.Err
			}
		}
		fmt.Println(ui.ErrorMsg("step %s failed: %v", result.FailedStep, failure))
		if result.ResumeCommand != "" {
			fmt.Println(ui.MutedStyle.Render("  resume with: " + result.ResumeCommand))
		}
		return &cli.ExitError{Code: 1}

	default:
		return fmt.Errorf("unexpected outcome %v", result.Outcome)
	}
}
