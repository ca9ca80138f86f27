// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress provides streaming compression codecs for single
// artifacts. A captured log can be compressed on the way to disk (the
// persist layer wraps its file writer in a codec writer) and read back
// transparently. The zip bundle format has its own deflate layer and
// does not use this package.
package compress
