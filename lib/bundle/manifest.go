// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"fmt"
	"os"
	"time"

	"github.com/logcrate/logcrate/lib/codec"
)

// Manifest is the sidecar record written next to a bundle when
// Options.Manifest is set. It lets a recipient verify entry integrity
// without unpacking the archive.
type Manifest struct {
	// CreatedAt is the bundle creation time, UTC.
	CreatedAt time.Time `json:"created_at"`

	// Entries lists the archived files in archive order.
	Entries []Entry `json:"entries"`
}

// Entry describes one archived file.
type Entry struct {
	// Name is the entry's name inside the archive (the source file's
	// base name).
	Name string `json:"name"`

	// Size is the uncompressed size in bytes.
	Size int64 `json:"size"`

	// Checksum is the hex BLAKE3 digest of the uncompressed content.
	Checksum string `json:"checksum"`
}

// ManifestPath returns the sidecar path for a given archive path.
func ManifestPath(archivePath string) string {
	return archivePath + ".manifest"
}

// ReadManifest loads and decodes a manifest sidecar.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var manifest Manifest
	if err := codec.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return &manifest, nil
}

func writeManifest(path string, manifest *Manifest) error {
	data, err := codec.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
