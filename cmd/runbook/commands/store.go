// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runbooklabs/runbook/lib/config"
	"github.com/runbooklabs/runbook/lib/progress"
)

// openStore constructs the configured progress backend. The returned
// close function is a no-op for the file backend and closes the pool
// for sqlite.
func openStore(cfg *config.Config, logger *slog.Logger) (progress.Store, func() error, error) {
	switch cfg.Store {
	case config.StoreFile:
		store, err := progress.NewFileStore(cfg.StateDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil

	case config.StoreSQLite:
		if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating state directory: %w", err)
		}
		store, err := progress.OpenSQLite(progress.SQLiteConfig{
			Path:   filepath.Join(cfg.StateDir, "progress.db"),
			Logger: logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
