// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Parse unmarshals YAML scenario bytes.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &s, nil
}

// ParseJSONC strips JSONC comments and trailing commas from data, then
// unmarshals the result. The format exists for scenarios generated by
// JSON tooling; hand-authored scenarios are usually YAML.
func ParseJSONC(data []byte) (*Scenario, error) {
	stripped := jsonc.ToJSON(data)

	var s Scenario
	if err := json.Unmarshal(stripped, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &s, nil
}

// ReadFile reads a scenario definition from disk, picking the parser
// from the file extension (.yaml/.yml → YAML, .json/.jsonc → JSONC).
// When the definition does not set a name, the file basename without
// extension is used.
func ReadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var s *Scenario
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = Parse(data)
	case ".json", ".jsonc":
		s, err = ParseJSONC(data)
	default:
		return nil, fmt.Errorf("%s: unsupported scenario format %q (want .yaml, .yml, .json, or .jsonc)", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if s.Name == "" {
		s.Name = NameFromPath(path)
	}
	return s, nil
}

// NameFromPath extracts a scenario name from a file path by stripping
// the directory prefix and the extension: "examples/ambient-mesh.yaml"
// returns "ambient-mesh".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
