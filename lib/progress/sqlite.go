// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// sqliteSchema holds all scenario records in one database. Completion
// order is the insertion order (rowid); the primary key makes repeat
// marks idempotent.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS step_completion (
	scenario     TEXT NOT NULL,
	step         TEXT NOT NULL,
	completed_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
	PRIMARY KEY (scenario, step)
);

CREATE TABLE IF NOT EXISTS scenario_meta (
	scenario    TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL
);
`

// SQLiteStore persists progress records in a single SQLite database.
// Writes commit before MarkComplete returns (synchronous=NORMAL under
// WAL survives process crashes), preserving the runner's resume
// guarantee.
//
// SQLiteStore is safe for concurrent use; connections come from a
// small pool. A runbook invocation is a single operator process, so
// the pool stays tiny.
type SQLiteStore struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	path   string
}

// SQLiteConfig holds the parameters for opening a SQLiteStore. Path is
// required; Logger defaults to a no-op logger.
type SQLiteConfig struct {
	// Path is the database file path. The parent directory must
	// exist. ":memory:" is valid for tests.
	Path string

	// Logger receives operational messages (open/close). If nil, a
	// no-op logger is used.
	Logger *slog.Logger
}

// OpenSQLite opens (creating if absent) the progress database and
// applies the standard pragmas plus schema to every connection. The
// caller must Close the store when done.
func OpenSQLite(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("progress: sqlite path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		// One writer plus one connection for reads issued while a
		// mark is in flight. SQLite serializes writes anyway.
		PoolSize:    2,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("progress: opening %s: %w", cfg.Path, err)
	}

	logger.Debug("progress database opened", "path", cfg.Path)
	return &SQLiteStore{pool: pool, logger: logger, path: cfg.Path}, nil
}

// prepareConnection applies the pragmas every connection needs: WAL
// for concurrent readers, NORMAL synchronous for crash durability
// without per-commit fsync cost, and a busy timeout instead of
// immediate SQLITE_BUSY. Runs once per pooled connection.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("progress: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, sqliteSchema, nil); err != nil {
		return fmt.Errorf("progress: creating schema: %w", err)
	}
	return nil
}

// Close closes the connection pool. Blocks until borrowed connections
// are returned.
func (s *SQLiteStore) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("progress: closing %s: %w", s.path, err)
	}
	s.logger.Debug("progress database closed", "path", s.path)
	return nil
}

// Completed implements Store.
func (s *SQLiteStore) Completed(ctx context.Context, scenario string) ([]string, error) {
	if err := validateScenarioName(scenario); err != nil {
		return nil, err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("progress: take connection: %w", err)
	}
	defer s.pool.Put(conn)

	var steps []string
	err = sqlitex.Execute(conn,
		"SELECT step FROM step_completion WHERE scenario = ? ORDER BY rowid",
		&sqlitex.ExecOptions{
			Args: []any{scenario},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				steps = append(steps, stmt.ColumnText(0))
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("progress: reading record for %s: %w", scenario, err)
	}
	return steps, nil
}

// MarkComplete implements Store.
func (s *SQLiteStore) MarkComplete(ctx context.Context, scenario, step string) error {
	if err := validateScenarioName(scenario); err != nil {
		return err
	}
	if step == "" {
		return fmt.Errorf("progress: invalid step name %q", step)
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("progress: take connection: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT OR IGNORE INTO step_completion (scenario, step) VALUES (?, ?)",
		&sqlitex.ExecOptions{Args: []any{scenario, step}})
	if err != nil {
		return fmt.Errorf("progress: recording step %q for %s: %w", step, scenario, err)
	}
	return nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context, scenario string) error {
	if err := validateScenarioName(scenario); err != nil {
		return err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("progress: take connection: %w", err)
	}
	defer s.pool.Put(conn)

	stmts := []string{
		"DELETE FROM step_completion WHERE scenario = ?",
		"DELETE FROM scenario_meta WHERE scenario = ?",
	}
	for _, stmt := range stmts {
		err := sqlitex.Execute(conn, stmt, &sqlitex.ExecOptions{Args: []any{scenario}})
		if err != nil {
			return fmt.Errorf("progress: clearing record for %s: %w", scenario, err)
		}
	}
	return nil
}

// Fingerprint implements Store.
func (s *SQLiteStore) Fingerprint(ctx context.Context, scenario string) (string, error) {
	if err := validateScenarioName(scenario); err != nil {
		return "", err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return "", fmt.Errorf("progress: take connection: %w", err)
	}
	defer s.pool.Put(conn)

	var fingerprint string
	err = sqlitex.Execute(conn,
		"SELECT fingerprint FROM scenario_meta WHERE scenario = ?",
		&sqlitex.ExecOptions{
			Args: []any{scenario},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				fingerprint = stmt.ColumnText(0)
				return nil
			},
		})
	if err != nil {
		return "", fmt.Errorf("progress: reading fingerprint for %s: %w", scenario, err)
	}
	return fingerprint, nil
}

// SetFingerprint implements Store.
func (s *SQLiteStore) SetFingerprint(ctx context.Context, scenario, fingerprint string) error {
	if err := validateScenarioName(scenario); err != nil {
		return err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("progress: take connection: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO scenario_meta (scenario, fingerprint) VALUES (?, ?)
		 ON CONFLICT (scenario) DO UPDATE SET fingerprint = excluded.fingerprint`,
		&sqlitex.ExecOptions{Args: []any{scenario, fingerprint}})
	if err != nil {
		return fmt.Errorf("progress: recording fingerprint for %s: %w", scenario, err)
	}
	return nil
}
