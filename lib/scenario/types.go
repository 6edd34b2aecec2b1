// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package scenario

// Scenario is a named, ordered workshop workflow. The name keys the
// progress record, so two scenarios with different names never share
// completion state.
//
// Variable substitution (${NAME}) is applied to step string fields
// before execution. Variables are resolved from declarations, CLI
// --param values, and the process environment.
type Scenario struct {
	// Name identifies the scenario. When empty, ReadFile fills it
	// from the file basename. Must be filesystem-safe (letters,
	// digits, '.', '_', '-').
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Description is a human-readable summary shown by `runbook show`.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Variables declares the variables the scenario expects, with
	// optional defaults and required flags. Required variables with
	// no value from any source fail the run before any step executes.
	Variables map[string]Variable `yaml:"variables,omitempty" json:"variables,omitempty"`

	// Steps is the ordered list of steps. At least one is required.
	// Steps run strictly sequentially in declaration order; there is
	// no dependency graph and no parallelism.
	Steps []Step `yaml:"steps" json:"steps"`
}

// Variable declares an expected scenario variable.
type Variable struct {
	// Description explains what the variable is for.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Default is the fallback value when the variable is not provided
	// by --param or the environment. Empty string is a valid default.
	Default string `yaml:"default,omitempty" json:"default,omitempty"`

	// Required means the run fails during variable resolution if the
	// variable has no value from any source (including Default).
	Required bool `yaml:"required,omitempty" json:"required,omitempty"`
}

// Step is a single unit of scenario work. Exactly one of Run or Probe
// must be set:
//   - Run: execute a shell command
//   - Probe: poll an HTTP endpoint until it answers as expected
type Step struct {
	// Name identifies the step in progress records, logs, and the
	// -s/--stop-after flags. Required and unique within a scenario.
	// The name must be stable across runs: renaming a step orphans
	// its completion record.
	Name string `yaml:"name" json:"name"`

	// Description is shown by `runbook list` and `runbook show`.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Run is a shell command executed via sh -c. Multi-line strings
	// are supported. ${NAME} substitution is applied before
	// execution. Mutually exclusive with Probe.
	Run string `yaml:"run,omitempty" json:"run,omitempty"`

	// Check is a post-step verification command. Runs after Run
	// succeeds; a non-zero exit fails the step. Catches commands
	// that "succeed" without producing the expected result. Only
	// valid on run steps.
	Check string `yaml:"check,omitempty" json:"check,omitempty"`

	// When is a guard command. Runs before Run; a non-zero exit
	// skips the step (not a failure). Use for conditional steps:
	// when: "test -z \"$(kubectl get ns istio-system -o name)\""
	// skips installation when the namespace already exists. Only
	// valid on run steps.
	When string `yaml:"when,omitempty" json:"when,omitempty"`

	// Probe polls an HTTP endpoint instead of running a command.
	// Mutually exclusive with Run.
	Probe *Probe `yaml:"probe,omitempty" json:"probe,omitempty"`

	// Verify marks the step as a verification step. `runbook run -t`
	// executes only verification steps, skipping setup work.
	Verify bool `yaml:"verify,omitempty" json:"verify,omitempty"`

	// Optional means step failure is logged but does not abort the
	// run. The step is not marked complete on failure. Use for
	// best-effort steps such as cleanup of resources that may not
	// exist.
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`

	// Timeout is the maximum duration for this step (e.g. "5m",
	// "90s"). Parsed by time.ParseDuration. Empty means the
	// configured default.
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// GracePeriod is the duration between SIGTERM and SIGKILL when
	// the timeout expires. When empty, the process group is killed
	// immediately. Use for steps whose abrupt termination could
	// leave cloud state inconsistent. Only valid on run steps.
	GracePeriod string `yaml:"grace_period,omitempty" json:"grace_period,omitempty"`

	// Env sets additional environment variables for this step only.
	// Values support ${NAME} substitution against scenario variables.
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// Probe describes a bounded HTTP poll: request the URL up to Attempts
// times, Interval apart, until the response matches. Matching means
// the status equals ExpectStatus (any 2xx when unset) and the body
// contains ExpectBody (when set).
//
// The bound matters: probes wait for asynchronous cloud state, and an
// unbounded wait would hang a run forever on a wedged resource. The
// step fails after the last attempt; the runner never extends the
// wait.
type Probe struct {
	// URL is the endpoint to request. Supports ${NAME} substitution.
	URL string `yaml:"url" json:"url"`

	// Method is the HTTP method. Defaults to GET.
	Method string `yaml:"method,omitempty" json:"method,omitempty"`

	// ExpectStatus is the required response status. Zero accepts any
	// 2xx status.
	ExpectStatus int `yaml:"expect_status,omitempty" json:"expect_status,omitempty"`

	// ExpectBody is a substring the response body must contain. Empty
	// means the body is not inspected. Supports ${NAME} substitution.
	ExpectBody string `yaml:"expect_body,omitempty" json:"expect_body,omitempty"`

	// Interval is the pause between attempts (e.g. "5s"). Defaults
	// to 5s. Parsed by time.ParseDuration.
	Interval string `yaml:"interval,omitempty" json:"interval,omitempty"`

	// Attempts is the maximum number of requests. Defaults to 12.
	Attempts int `yaml:"attempts,omitempty" json:"attempts,omitempty"`
}
