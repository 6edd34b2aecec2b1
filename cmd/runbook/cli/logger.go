// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// NewLogger creates the structured logger for command execution. When
// stderr is a terminal the output is human-readable text; when piped
// or redirected (CI, scripts) it is JSON, one object per line.
//
// RUNBOOK_LOG_LEVEL selects the minimum level (debug, info, warn,
// error). The default is info.
func NewLogger() *slog.Logger {
	options := &slog.HandlerOptions{Level: logLevel()}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("RUNBOOK_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
