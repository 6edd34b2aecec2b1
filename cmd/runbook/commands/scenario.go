// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/runbooklabs/runbook/cmd/runbook/cli"
	"github.com/runbooklabs/runbook/lib/scenario"
)

// loadScenario reads and structurally validates a scenario definition.
// Validation issues become a usage error listing every problem, so the
// author fixes them in one pass.
func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return nil, cli.Usagef("a scenario file is required (-c <file>)")
	}

	s, err := scenario.ReadFile(path)
	if err != nil {
		return nil, cli.Usagef("%v", err)
	}

	if issues := scenario.Validate(s); len(issues) > 0 {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s has %d issue(s):\n", path, len(issues))
		for _, issue := range issues {
			fmt.Fprintf(&sb, "  - %s\n", issue)
		}
		return nil, &cli.UsageError{Message: strings.TrimRight(sb.String(), "\n")}
	}

	return s, nil
}

// parseParams turns repeated --param KEY=VALUE flags into a map.
func parseParams(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, cli.Usagef("invalid --param %q (want KEY=VALUE)", pair)
		}
		params[key] = value
	}
	return params, nil
}

// resolveVariables merges scenario variable declarations with --param
// values and the process environment.
func resolveVariables(s *scenario.Scenario, paramPairs []string) (map[string]string, error) {
	params, err := parseParams(paramPairs)
	if err != nil {
		return nil, err
	}
	variables, err := scenario.ResolveVariables(s.Variables, params, os.Getenv)
	if err != nil {
		return nil, cli.Usagef("%v", err)
	}
	return variables, nil
}
