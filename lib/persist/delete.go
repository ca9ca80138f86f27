// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DeletePath removes a file, or a directory and everything beneath it.
// A path that does not exist is treated as already deleted. Deletion is
// best-effort and does not short-circuit: a failure under one
// subdirectory does not stop removal of its siblings, and all failures
// are aggregated into the returned error.
func DeletePath(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}

	if !info.IsDir() {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("listing %s: %w", path, err)
	}

	var failures []error
	for _, entry := range entries {
		if err := DeletePath(filepath.Join(path, entry.Name())); err != nil {
			failures = append(failures, err)
		}
	}

	// The directory itself can only go once its children are gone; if
	// any child failed this records a second, expected failure that the
	// aggregate makes easy to trace.
	if err := os.Remove(path); err != nil {
		failures = append(failures, fmt.Errorf("removing %s: %w", path, err))
	}

	return errors.Join(failures...)
}
