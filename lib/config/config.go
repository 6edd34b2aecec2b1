// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backend names accepted in configuration.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds runbook's settings.
type Config struct {
	// StateDir is where progress records live. Defaults to
	// $XDG_STATE_HOME/runbook, falling back to ~/.local/state/runbook.
	StateDir string `yaml:"state_dir"`
	// Store selects the progress backend, "file" or "sqlite".
	// Defaults to "file".
	Store string `yaml:"store"`
	// DefaultTimeout bounds run steps that set no timeout of their
	// own. Zero leaves them unbounded.
	DefaultTimeout time.Duration `yaml:"default_timeout"`
}

// Load assembles the configuration from, in increasing priority:
// built-in defaults, the YAML file named by RUNBOOK_CONFIG (when set,
// the file must exist and parse), and the RUNBOOK_STATE_DIR and
// RUNBOOK_STORE environment variables.
func Load() (*Config, error) {
	cfg := &Config{Store: StoreFile}

	if path := os.Getenv("RUNBOOK_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if dir := os.Getenv("RUNBOOK_STATE_DIR"); dir != "" {
		cfg.StateDir = dir
	}
	if store := os.Getenv("RUNBOOK_STORE"); store != "" {
		cfg.Store = store
	}

	if cfg.StateDir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return nil, err
		}
		cfg.StateDir = dir
	}

	if cfg.Store != StoreFile && cfg.Store != StoreSQLite {
		return nil, fmt.Errorf("unknown store backend %q (want %q or %q)", cfg.Store, StoreFile, StoreSQLite)
	}

	return cfg, nil
}

// defaultStateDir follows the XDG base directory convention.
func defaultStateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "runbook"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving state directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "runbook"), nil
}
