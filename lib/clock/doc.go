// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now,
// time.After, or time.Sleep directly. Real() provides standard library
// behavior; Fake() provides a deterministic clock for tests.
//
// Runbook's time use is simple: actions poll external systems in a
// synchronous loop (sleep between attempts) and the runner stamps step
// durations. The interface is therefore deliberately small (Now, Sleep,
// After) rather than a full timer/ticker surface.
//
// The fake clock is built for synchronous poll loops: Sleep advances
// the fake time immediately and returns, recording the requested
// duration. Tests assert on elapsed fake time and recorded sleeps
// instead of racing real timers.
package clock
