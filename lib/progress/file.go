// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// fingerprintPrefix marks the header line holding the scenario
// fingerprint. All '#' lines are comments; this one is machine-read.
const fingerprintPrefix = "# fingerprint: "

// FileStore keeps one flat, human-readable file per scenario in a
// state directory. The format is a short comment header followed by
// one completed step name per line, appended in completion order:
//
//	# runbook progress record
//	# scenario: ambient-mesh
//	# fingerprint: 9f2c...
//	create-cluster
//	install-istio
//
// Each MarkComplete appends and fsyncs before returning, so a crash
// mid-run loses at most the in-flight step. The file is small (one
// line per step), so reads load it whole.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("progress: state directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("progress: creating state directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// path returns the record file path for a scenario.
func (s *FileStore) path(scenario string) string {
	return filepath.Join(s.dir, scenario+".progress")
}

// Completed implements Store.
func (s *FileStore) Completed(_ context.Context, scenario string) ([]string, error) {
	if err := validateScenarioName(scenario); err != nil {
		return nil, err
	}
	steps, _, err := s.read(scenario)
	return steps, err
}

// MarkComplete implements Store. The step line is appended with
// O_APPEND and synced; duplicate marks are dropped.
func (s *FileStore) MarkComplete(_ context.Context, scenario, step string) error {
	if err := validateScenarioName(scenario); err != nil {
		return err
	}
	if step == "" || strings.ContainsAny(step, "\n\r") {
		return fmt.Errorf("progress: invalid step name %q", step)
	}

	steps, _, err := s.read(scenario)
	if err != nil {
		return err
	}
	for _, existing := range steps {
		if existing == step {
			return nil
		}
	}

	file, err := os.OpenFile(s.path(scenario), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("progress: opening record for %s: %w", scenario, err)
	}
	defer file.Close()

	// First write to a fresh file gets the comment header.
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("progress: stat record for %s: %w", scenario, err)
	}
	if info.Size() == 0 {
		if _, err := fmt.Fprintf(file, "# runbook progress record\n# scenario: %s\n", scenario); err != nil {
			return fmt.Errorf("progress: writing record header for %s: %w", scenario, err)
		}
	}

	if _, err := fmt.Fprintln(file, step); err != nil {
		return fmt.Errorf("progress: recording step %q for %s: %w", step, scenario, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("progress: syncing record for %s: %w", scenario, err)
	}
	return nil
}

// Clear implements Store.
func (s *FileStore) Clear(_ context.Context, scenario string) error {
	if err := validateScenarioName(scenario); err != nil {
		return err
	}
	if err := os.Remove(s.path(scenario)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("progress: clearing record for %s: %w", scenario, err)
	}
	return nil
}

// Fingerprint implements Store.
func (s *FileStore) Fingerprint(_ context.Context, scenario string) (string, error) {
	if err := validateScenarioName(scenario); err != nil {
		return "", err
	}
	_, fingerprint, err := s.read(scenario)
	return fingerprint, err
}

// SetFingerprint implements Store. The whole record is rewritten via a
// temp file and rename so a crash never leaves a half-written record.
func (s *FileStore) SetFingerprint(_ context.Context, scenario, fingerprint string) error {
	if err := validateScenarioName(scenario); err != nil {
		return err
	}
	if strings.ContainsAny(fingerprint, "\n\r") {
		return fmt.Errorf("progress: invalid fingerprint %q", fingerprint)
	}

	steps, _, err := s.read(scenario)
	if err != nil {
		return err
	}

	var record strings.Builder
	fmt.Fprintf(&record, "# runbook progress record\n# scenario: %s\n", scenario)
	if fingerprint != "" {
		record.WriteString(fingerprintPrefix + fingerprint + "\n")
	}
	for _, step := range steps {
		record.WriteString(step + "\n")
	}

	tmp, err := os.CreateTemp(s.dir, scenario+".progress.tmp*")
	if err != nil {
		return fmt.Errorf("progress: creating temp record for %s: %w", scenario, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(record.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("progress: writing temp record for %s: %w", scenario, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("progress: syncing temp record for %s: %w", scenario, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("progress: closing temp record for %s: %w", scenario, err)
	}
	if err := os.Rename(tmpPath, s.path(scenario)); err != nil {
		return fmt.Errorf("progress: replacing record for %s: %w", scenario, err)
	}
	return nil
}

// read loads a scenario's record. A missing file is an empty record.
func (s *FileStore) read(scenario string) (steps []string, fingerprint string, err error) {
	file, err := os.Open(s.path(scenario))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("progress: reading record for %s: %w", scenario, err)
	}
	defer file.Close()

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, fingerprintPrefix):
			fingerprint = strings.TrimSpace(strings.TrimPrefix(line, fingerprintPrefix))
		case strings.HasPrefix(line, "#"):
			continue
		default:
			if !seen[line] {
				seen[line] = true
				steps = append(steps, line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("progress: scanning record for %s: %w", scenario, err)
	}
	return steps, fingerprint, nil
}
