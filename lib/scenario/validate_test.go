// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"strings"
	"testing"
)

func validScenario() *Scenario {
	return &Scenario{
		Name: "demo",
		Steps: []Step{
			{Name: "prepare", Run: "true"},
			{Name: "verify", Probe: &Probe{URL: "http://localhost/healthz"}},
		},
	}
}

func TestValidateAcceptsWellFormedScenario(t *testing.T) {
	if issues := Validate(validScenario()); len(issues) != 0 {
		t.Errorf("Validate returned issues for a valid scenario: %v", issues)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Scenario)
		wantSub string
	}{
		{
			name:    "bad scenario name",
			mutate:  func(s *Scenario) { s.Name = "-leading-dash" },
			wantSub: "scenario name",
		},
		{
			name:    "no steps",
			mutate:  func(s *Scenario) { s.Steps = nil },
			wantSub: "no steps",
		},
		{
			name:    "missing step name",
			mutate:  func(s *Scenario) { s.Steps[0].Name = "" },
			wantSub: "name is required",
		},
		{
			name:    "bad step name",
			mutate:  func(s *Scenario) { s.Steps[0].Name = "has space" },
			wantSub: "must start with a letter or digit",
		},
		{
			name:    "duplicate step name",
			mutate:  func(s *Scenario) { s.Steps[1] = Step{Name: "prepare", Run: "true"} },
			wantSub: "duplicate step name",
		},
		{
			name:    "run and probe together",
			mutate:  func(s *Scenario) { s.Steps[1].Run = "true" },
			wantSub: "mutually exclusive",
		},
		{
			name:    "neither run nor probe",
			mutate:  func(s *Scenario) { s.Steps[0].Run = "" },
			wantSub: "must set either run or probe",
		},
		{
			name:    "check on probe step",
			mutate:  func(s *Scenario) { s.Steps[1].Check = "true" },
			wantSub: "check is only valid on run steps",
		},
		{
			name:    "when on probe step",
			mutate:  func(s *Scenario) { s.Steps[1].When = "true" },
			wantSub: "when is only valid on run steps",
		},
		{
			name:    "grace period on probe step",
			mutate:  func(s *Scenario) { s.Steps[1].GracePeriod = "5s" },
			wantSub: "grace_period is only valid on run steps",
		},
		{
			name:    "unparseable timeout",
			mutate:  func(s *Scenario) { s.Steps[0].Timeout = "five minutes" },
			wantSub: "invalid timeout",
		},
		{
			name:    "unparseable grace period",
			mutate:  func(s *Scenario) { s.Steps[0].GracePeriod = "soon" },
			wantSub: "invalid grace_period",
		},
		{
			name:    "probe without url",
			mutate:  func(s *Scenario) { s.Steps[1].Probe.URL = "" },
			wantSub: "probe.url is required",
		},
		{
			name:    "negative probe attempts",
			mutate:  func(s *Scenario) { s.Steps[1].Probe.Attempts = -1 },
			wantSub: "probe.attempts",
		},
		{
			name:    "probe status out of range",
			mutate:  func(s *Scenario) { s.Steps[1].Probe.ExpectStatus = 42 },
			wantSub: "not a valid HTTP status",
		},
		{
			name:    "unparseable probe interval",
			mutate:  func(s *Scenario) { s.Steps[1].Probe.Interval = "often" },
			wantSub: "invalid probe.interval",
		},
		{
			name:    "unsupported probe method",
			mutate:  func(s *Scenario) { s.Steps[1].Probe.Method = "TRACE" },
			wantSub: "unsupported probe.method",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := validScenario()
			c.mutate(s)
			issues := Validate(s)
			if len(issues) == 0 {
				t.Fatalf("Validate found no issues, want one containing %q", c.wantSub)
			}
			found := false
			for _, issue := range issues {
				if strings.Contains(issue, c.wantSub) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("no issue contains %q; got %v", c.wantSub, issues)
			}
		})
	}
}
