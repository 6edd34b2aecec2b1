// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. It backs runner tests and any
// embedder that wants runner semantics without durable state. It is
// safe for concurrent use.
type MemoryStore struct {
	mu           sync.Mutex
	completed    map[string][]string
	fingerprints map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		completed:    make(map[string][]string),
		fingerprints: make(map[string]string),
	}
}

// Completed implements Store.
func (s *MemoryStore) Completed(_ context.Context, scenario string) ([]string, error) {
	if err := validateScenarioName(scenario); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	steps := make([]string, len(s.completed[scenario]))
	copy(steps, s.completed[scenario])
	return steps, nil
}

// MarkComplete implements Store.
func (s *MemoryStore) MarkComplete(_ context.Context, scenario, step string) error {
	if err := validateScenarioName(scenario); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.completed[scenario] {
		if existing == step {
			return nil
		}
	}
	s.completed[scenario] = append(s.completed[scenario], step)
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context, scenario string) error {
	if err := validateScenarioName(scenario); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.completed, scenario)
	delete(s.fingerprints, scenario)
	return nil
}

// Fingerprint implements Store.
func (s *MemoryStore) Fingerprint(_ context.Context, scenario string) (string, error) {
	if err := validateScenarioName(scenario); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fingerprints[scenario], nil
}

// SetFingerprint implements Store.
func (s *MemoryStore) SetFingerprint(_ context.Context, scenario, fingerprint string) error {
	if err := validateScenarioName(scenario); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprints[scenario] = fingerprint
	return nil
}
