// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/logcrate/logcrate/lib/clock"
	"github.com/logcrate/logcrate/lib/persist"
)

// TimestampLayout is the time layout embedded in artifact names:
// yyyyMMdd_HHmmss. Changing it breaks name ordering against existing
// artifacts.
const TimestampLayout = "20060102_150405"

// Name derives a timestamped artifact name: prefix, then the clock's
// current time in TimestampLayout, then extension. The prefix carries
// its own separator ("app_log_" gives "app_log_20260314_092653.log")
// and the extension includes the dot.
func Name(prefix, extension string, clk clock.Clock) string {
	return prefix + clk.Now().Format(TimestampLayout) + extension
}

// Purge removes every immediate child of directory whose name starts
// with prefix. Matched children that are themselves directories are
// removed recursively. A missing directory is a no-op. Removal is
// best-effort: one failure does not stop the rest, and failures are
// aggregated into the returned error. Calling Purge twice in a row is
// harmless.
//
// The empty prefix is rejected — it would match the whole directory.
func Purge(directory, prefix string, logger *slog.Logger) error {
	if prefix == "" {
		return fmt.Errorf("purge: prefix must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(directory)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("listing %s: %w", directory, err)
	}

	var failures []error
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		path := filepath.Join(directory, entry.Name())
		if err := persist.DeletePath(path); err != nil {
			failures = append(failures, err)
			continue
		}
		logger.Debug("removed stale artifact", "path", path)
	}
	return errors.Join(failures...)
}
