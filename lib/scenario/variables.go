// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// variablePattern matches ${NAME} references in strings. Only the
// braced form is recognized — bare $NAME is left for shell
// interpretation. Variable names must start with a letter or
// underscore and contain only letters, digits, and underscores.
var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ResolveVariables merges variable sources in resolution order (lowest
// to highest priority):
//
//  1. Declared defaults from the scenario's variable definitions
//  2. Explicit params (--param KEY=VALUE on the command line)
//  3. Environment lookup via the environ function
//
// Returns the merged variable map, or an error naming every required
// variable that has no value from any source.
//
// The environ function is typically os.Getenv in production, or a stub
// in tests. Only declared variables are looked up — the process
// environment is not pulled in wholesale.
func ResolveVariables(declarations map[string]Variable, params map[string]string, environ func(string) string) (map[string]string, error) {
	resolved := make(map[string]string, len(declarations)+len(params))

	for name, declaration := range declarations {
		if declaration.Default != "" {
			resolved[name] = declaration.Default
		}
	}

	for name, value := range params {
		resolved[name] = value
	}

	if environ != nil {
		for name := range declarations {
			if value := environ(name); value != "" {
				resolved[name] = value
			}
		}
	}

	var missing []string
	for name, declaration := range declarations {
		if declaration.Required {
			if _, exists := resolved[name]; !exists {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("required scenario variables not set: %s", strings.Join(missing, ", "))
	}

	return resolved, nil
}

// Expand replaces ${NAME} references in input with values from the
// variables map. Returns an error listing all referenced variables
// that have no value, so definitions fail fast on unresolvable
// references instead of producing broken commands.
func Expand(input string, variables map[string]string) (string, error) {
	var unresolved []string

	result := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[2 : len(match)-1]
		if value, exists := variables[name]; exists {
			return value
		}
		unresolved = append(unresolved, name)
		return match
	})

	if len(unresolved) > 0 {
		return "", fmt.Errorf("unresolved scenario variables: %s", strings.Join(unresolved, ", "))
	}

	return result, nil
}

// ExpandStep returns a copy of step with all string fields expanded.
// Step-level Env values are expanded first (against scenario variables
// only), then merged into the variable map for the remaining fields,
// so a run command can reference ${NAME} values from its own env
// block. The original step and variables map are not modified.
func ExpandStep(step Step, variables map[string]string) (Step, error) {
	var expandedEnv map[string]string
	if len(step.Env) > 0 {
		expandedEnv = make(map[string]string, len(step.Env))
		for name, value := range step.Env {
			expandedValue, err := Expand(value, variables)
			if err != nil {
				return Step{}, fmt.Errorf("step %q env[%s]: %w", step.Name, name, err)
			}
			expandedEnv[name] = expandedValue
		}
	}

	merged := make(map[string]string, len(variables)+len(expandedEnv))
	for name, value := range variables {
		merged[name] = value
	}
	for name, value := range expandedEnv {
		merged[name] = value
	}

	var err error
	if step.Run, err = Expand(step.Run, merged); err != nil {
		return Step{}, fmt.Errorf("step %q run: %w", step.Name, err)
	}
	if step.Check, err = Expand(step.Check, merged); err != nil {
		return Step{}, fmt.Errorf("step %q check: %w", step.Name, err)
	}
	if step.When, err = Expand(step.When, merged); err != nil {
		return Step{}, fmt.Errorf("step %q when: %w", step.Name, err)
	}

	if step.Probe != nil {
		expanded := *step.Probe
		if expanded.URL, err = Expand(expanded.URL, merged); err != nil {
			return Step{}, fmt.Errorf("step %q probe.url: %w", step.Name, err)
		}
		if expanded.ExpectBody, err = Expand(expanded.ExpectBody, merged); err != nil {
			return Step{}, fmt.Errorf("step %q probe.expect_body: %w", step.Name, err)
		}
		step.Probe = &expanded
	}

	step.Env = expandedEnv
	return step, nil
}
