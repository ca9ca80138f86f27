// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now
// directly. In production, Real() provides the standard library
// behavior. In tests, Fake() provides a deterministic clock that moves
// only when Advance or Set is called, so timestamp-derived artifact
// names are reproducible.
package clock
