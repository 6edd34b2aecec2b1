// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time.
//
// The fake is tailored to synchronous poll loops: Sleep does not block.
// It advances the fake time by d, records d, and returns, so a loop
// that sleeps between attempts runs to completion instantly while the
// test observes exactly how long it would have waited.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for testing. It is safe for
// concurrent use, though runbook's poll loops are single-goroutine.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	slept   []time.Duration
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Sleep advances the fake time by d and returns immediately. Negative
// durations are ignored, matching time.Sleep.
func (c *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	c.slept = append(c.slept, d)
}

// After advances the fake time by d and returns a channel that already
// holds the new time. Callers selecting on the channel proceed
// immediately, in deadline order from their own loop structure.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.current = c.current.Add(d)
		c.slept = append(c.slept, d)
	}
	channel := make(chan time.Time, 1)
	channel <- c.current
	return channel
}

// Advance moves the fake time forward by d without recording a sleep.
// Use it to simulate work taking time between clock reads.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Slept returns the durations passed to Sleep and After, in order.
func (c *FakeClock) Slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.slept))
	copy(out, c.slept)
	return out
}
