// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package stepexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/runbooklabs/runbook/lib/runner"
)

// ShellStep describes a shell-executed step.
type ShellStep struct {
	// Name is used in error messages.
	Name string
	// Run is the command, executed via sh -c.
	Run string
	// Check optionally verifies the step after Run succeeds. A
	// non-zero check exit fails the step even though Run passed.
	Check string
	// When optionally guards the step. A non-zero when exit skips the
	// step without marking it complete.
	When string
	// Env is extra environment for Run and Check (not When; guards
	// see the plain process environment).
	Env map[string]string
	// Timeout bounds the Run command. Zero means no bound beyond the
	// run context.
	Timeout time.Duration
	// GracePeriod selects termination behavior on timeout: zero sends
	// SIGKILL immediately, positive sends SIGTERM and escalates to
	// SIGKILL after the period.
	GracePeriod time.Duration
	// Stdout and Stderr receive the command's output. Nil values
	// inherit the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellAction builds a runner.Action that executes step.
//
// Order of operations: the when guard runs first and a non-zero exit
// skips the step. Then Run executes under the timeout. Then Check, if
// set, verifies the result; check commands get a short fixed timeout
// of their own since they are expected to be cheap reads.
func NewShellAction(step ShellStep) runner.Action {
	return func(ctx context.Context) error {
		if step.When != "" {
			code, err := runShell(ctx, step.When, nil, step.Stdout, step.Stderr, 0)
			if err != nil {
				return fmt.Errorf("when guard: %w", err)
			}
			if code != 0 {
				return runner.ErrSkip
			}
		}

		runCtx := ctx
		if step.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, step.Timeout)
			defer cancel()
		}

		code, err := runShell(runCtx, step.Run, step.Env, step.Stdout, step.Stderr, step.GracePeriod)
		// A timeout kill surfaces as a signal exit (code -1, nil
		// error), so check the deadline before the exit code.
		if runCtx.Err() != nil && ctx.Err() == nil {
			return fmt.Errorf("timed out after %s", step.Timeout)
		}
		if err != nil {
			return err
		}
		if code != 0 {
			return fmt.Errorf("exit status %d", code)
		}

		if step.Check != "" {
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			code, err := runShell(checkCtx, step.Check, step.Env, step.Stdout, step.Stderr, 0)
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}
			if code != 0 {
				return fmt.Errorf("check failed with exit status %d", code)
			}
		}
		return nil
	}
}

// checkTimeout bounds post-run check commands.
const checkTimeout = 2 * time.Minute

// runShell executes a command via sh -c and returns its exit code.
//
// The shell is resolved via PATH rather than hardcoded to /bin/sh, so
// the right shell is found on hosts where /bin/sh is absent or is a
// different shell than the environment expects.
//
// The command runs in its own process group so that cancellation kills
// the shell and everything it spawned. Without Setpgid only the shell
// receives the signal; children survive and hold the inherited output
// descriptors open.
//
// With a zero gracePeriod, cancellation sends SIGKILL to the group
// immediately. With a positive gracePeriod, SIGTERM goes first and a
// background goroutine escalates to SIGKILL after the period. Use a
// grace period for steps whose abrupt death could leave external state
// half-written.
func runShell(ctx context.Context, command string, env map[string]string, stdout, stderr io.Writer, gracePeriod time.Duration) (int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	// Negative PID signals the whole process group.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if gracePeriod > 0 {
		cmd.Cancel = func() error {
			processGroupID := -cmd.Process.Pid
			if err := syscall.Kill(processGroupID, syscall.SIGTERM); err != nil {
				// The group is already gone or unsignalable; escalate.
				return syscall.Kill(processGroupID, syscall.SIGKILL)
			}
			go func() {
				time.Sleep(gracePeriod)
				// ESRCH from an already-dead group is harmless.
				_ = syscall.Kill(processGroupID, syscall.SIGKILL)
			}()
			return nil
		}
	} else {
		cmd.Cancel = func() error {
			return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
	}

	if len(env) > 0 {
		cmd.Env = os.Environ()
		for name, value := range env {
			cmd.Env = append(cmd.Env, name+"="+value)
		}
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return exitError.ExitCode(), nil
	}

	// Non-exit errors: context cancellation, signal delivery failure.
	return -1, err
}
