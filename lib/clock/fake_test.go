// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeSleepAdvances(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := Fake(start)

	fake.Sleep(5 * time.Second)
	fake.Sleep(2 * time.Second)

	want := start.Add(7 * time.Second)
	if got := fake.Now(); !got.Equal(want) {
		t.Errorf("Now() = %v, want %v", got, want)
	}

	slept := fake.Slept()
	if len(slept) != 2 {
		t.Fatalf("Slept() has %d entries, want 2", len(slept))
	}
	if slept[0] != 5*time.Second || slept[1] != 2*time.Second {
		t.Errorf("Slept() = %v, want [5s 2s]", slept)
	}
}

func TestFakeSleepIgnoresNonPositive(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := Fake(start)

	fake.Sleep(0)
	fake.Sleep(-time.Second)

	if got := fake.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want unchanged %v", got, start)
	}
	if slept := fake.Slept(); len(slept) != 0 {
		t.Errorf("Slept() = %v, want empty", slept)
	}
}

func TestFakeAfterDeliversImmediately(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := Fake(start)

	select {
	case got := <-fake.After(time.Minute):
		want := start.Add(time.Minute)
		if !got.Equal(want) {
			t.Errorf("After delivered %v, want %v", got, want)
		}
	default:
		t.Fatal("After channel did not deliver immediately")
	}
}

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := Fake(start)

	fake.Advance(90 * time.Second)

	if got := fake.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Errorf("Now() = %v after Advance", got)
	}
	if slept := fake.Slept(); len(slept) != 0 {
		t.Errorf("Advance must not record a sleep, got %v", slept)
	}
}
