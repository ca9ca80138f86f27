// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/zeebo/blake3"

	"github.com/logcrate/logcrate/lib/clock"
)

// copyBufferSize is the chunk size for entry I/O on both the compress
// and extract paths. Internal tuning only, not part of the format.
const copyBufferSize = 2 * 1024

// ErrMissingFile is wrapped into Create's error when a source file is
// absent and the options demand MissingAbort.
var ErrMissingFile = errors.New("source file missing")

// MissingFilePolicy decides what Create does when a source file does
// not exist.
type MissingFilePolicy int

const (
	// MissingAbort fails the whole Create call on the first absent
	// source file. This is the default: a bundle that silently lacks
	// an expected artifact is worse than no bundle.
	MissingAbort MissingFilePolicy = iota

	// MissingSkip logs the absent file at warn level and continues
	// with the remaining sources.
	MissingSkip
)

// Options configures Create.
type Options struct {
	// MissingFiles selects the policy for absent source files.
	MissingFiles MissingFilePolicy

	// Manifest writes a CBOR sidecar record (see ManifestPath) listing
	// every entry with its size and BLAKE3 checksum.
	Manifest bool

	// Logger receives warn records for skipped files. Nil falls back
	// to slog.Default().
	Logger *slog.Logger

	// Clock supplies the manifest creation timestamp. Nil uses the
	// real clock.
	Clock clock.Clock
}

// Create writes a deflate zip archive at archivePath containing the
// given files in order. Each entry is named by its source file's base
// name. The archive's parent directory is created if needed.
//
// On failure the partially written archive may remain on disk; the
// caller must treat it as garbage.
func Create(archivePath string, files []string, options Options) error {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return fmt.Errorf("creating bundle directory: %w", err)
	}
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating bundle %s: %w", archivePath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})

	var manifest *Manifest
	if options.Manifest {
		manifest = &Manifest{CreatedAt: clk.Now().UTC()}
	}

	buffer := make([]byte, copyBufferSize)
	for _, path := range files {
		in, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			if options.MissingFiles == MissingSkip {
				logger.Warn("skipping missing source file", "path", path)
				continue
			}
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		if err != nil {
			return fmt.Errorf("opening source %s: %w", path, err)
		}

		written, checksum, err := addEntry(zw, filepath.Base(path), in, buffer)
		in.Close()
		if err != nil {
			return fmt.Errorf("archiving %s: %w", path, err)
		}

		if manifest != nil {
			manifest.Entries = append(manifest.Entries, Entry{
				Name:     filepath.Base(path),
				Size:     written,
				Checksum: checksum,
			})
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing bundle %s: %w", archivePath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing bundle %s: %w", archivePath, err)
	}

	if manifest != nil {
		if err := writeManifest(ManifestPath(archivePath), manifest); err != nil {
			return err
		}
	}
	return nil
}

// addEntry streams one source into the archive, returning the entry's
// uncompressed size and BLAKE3 checksum.
func addEntry(zw *zip.Writer, name string, in *os.File, buffer []byte) (int64, string, error) {
	info, err := in.Stat()
	if err != nil {
		return 0, "", fmt.Errorf("inspecting source: %w", err)
	}
	if info.IsDir() {
		return 0, "", fmt.Errorf("source is a directory")
	}

	entry, err := zw.Create(name)
	if err != nil {
		return 0, "", fmt.Errorf("creating entry: %w", err)
	}

	hasher := blake3.New()
	written, err := io.CopyBuffer(io.MultiWriter(entry, hasher), in, buffer)
	if err != nil {
		return 0, "", fmt.Errorf("copying entry: %w", err)
	}
	return written, fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
