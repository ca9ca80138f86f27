// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides CBOR encoding helpers with deterministic
// output. Manifest records written next to bundles use this encoding
// so the same logical record always produces identical bytes.
//
// Struct types use json struct tags — fxamacker/cbor falls back to
// json tags, so the same types also marshal cleanly with encoding/json
// for display purposes.
package codec
