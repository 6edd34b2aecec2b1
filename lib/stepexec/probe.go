// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package stepexec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/runbooklabs/runbook/lib/clock"
	"github.com/runbooklabs/runbook/lib/runner"
)

// Probe defaults, applied when the scenario leaves the field unset.
const (
	defaultProbeInterval = 5 * time.Second
	defaultProbeAttempts = 12
	probeBodyLimit       = 1 << 20 // read at most 1 MiB when matching bodies
)

// ProbeStep describes an HTTP verification step. The probe polls the
// URL until a response matches or the attempts run out; workshop
// deployments routinely need a minute or two before a gateway answers,
// so a probe is a poll loop, not a single request.
type ProbeStep struct {
	// Name is used in error messages.
	Name string
	// URL is the endpoint to poll.
	URL string
	// Method defaults to GET.
	Method string
	// ExpectStatus is the required response status. Zero accepts any
	// 2xx status.
	ExpectStatus int
	// ExpectBody, when set, must be a substring of the response body.
	ExpectBody string
	// Interval is the pause between attempts.
	Interval time.Duration
	// Attempts bounds the number of requests. Zero applies the
	// default.
	Attempts int
}

// NewProbeAction builds a runner.Action that polls step's endpoint.
// The HTTP client and clock are injected so tests can use a test
// server and a fake clock.
func NewProbeAction(step ProbeStep, client *http.Client, clk clock.Clock) runner.Action {
	if client == nil {
		client = http.DefaultClient
	}
	if clk == nil {
		clk = clock.Real()
	}
	interval := step.Interval
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	attempts := step.Attempts
	if attempts <= 0 {
		attempts = defaultProbeAttempts
	}
	method := step.Method
	if method == "" {
		method = http.MethodGet
	}

	return func(ctx context.Context) error {
		var lastErr error
		for attempt := 1; attempt <= attempts; attempt++ {
			lastErr = probeOnce(ctx, client, method, step)
			if lastErr == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if attempt < attempts {
				clk.Sleep(interval)
			}
		}
		return fmt.Errorf("probe %s: no match after %d attempts: %w", step.URL, attempts, lastErr)
	}
}

// probeOnce makes a single request and checks it against the step's
// expectations.
func probeOnce(ctx context.Context, client *http.Client, method string, step ProbeStep) error {
	request, err := http.NewRequestWithContext(ctx, method, step.URL, nil)
	if err != nil {
		return err
	}

	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if step.ExpectStatus != 0 {
		if response.StatusCode != step.ExpectStatus {
			return fmt.Errorf("status %d, want %d", response.StatusCode, step.ExpectStatus)
		}
	} else if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("status %d, want 2xx", response.StatusCode)
	}

	if step.ExpectBody != "" {
		body, err := io.ReadAll(io.LimitReader(response.Body, probeBodyLimit))
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		if !strings.Contains(string(body), step.ExpectBody) {
			return fmt.Errorf("body does not contain %q", step.ExpectBody)
		}
	}
	return nil
}
