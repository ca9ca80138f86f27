// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

// Package persist writes a byte stream to a file on disk with an
// all-or-nothing guarantee: on any failure (including cooperative
// cancellation) the partially written destination is deleted before the
// error is returned, so a path returned by Save always names a complete
// artifact.
//
// The write loop is synchronous and single-threaded. Progress and
// cancellation are exposed through a Listener that the saver consults
// at chunk boundaries; callers wanting bounded latency wrap Save in
// their own goroutine and cancel through the listener.
package persist
