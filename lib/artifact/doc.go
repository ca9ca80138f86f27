// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact handles the naming and garbage collection of
// on-disk artifacts. An artifact family is the set of files sharing a
// name prefix; names carry a second-resolution timestamp so families
// sort chronologically, and Purge removes a whole family at once
// (typically at startup, before the next capture).
//
// Purge must not race a concurrent save into the same family; the
// caller serializes the two.
package artifact
