// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

// Package bundle packs artifacts into a zip container and unpacks zip
// containers into a directory tree. Entries are deflate-compressed
// and streamed in bounded-size chunks on both the read and write side,
// so archives larger than memory are fine.
//
// Entry names inside a bundle are the source files' base names only.
// Two source files with the same base name collide silently — callers
// own base-name uniqueness. This keeps extraction flat and predictable
// for the diagnostic-log use case (a handful of distinctly named
// artifacts per bundle).
//
// Create makes no cleanup guarantee for the archive file on failure:
// treat any error as "the archive is unreliable, discard and recreate".
package bundle
