// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
)

// ErrUnsafePath is returned when an archive entry's path would escape
// the extraction root.
var ErrUnsafePath = errors.New("entry path escapes destination")

// Extract unpacks the archive at archivePath into destDir, creating
// destDir and any entry subdirectories as needed. Entries are
// processed in archive order and streamed in bounded chunks.
//
// Extraction is not transactional: a malformed entry midway aborts the
// call and leaves earlier entries on disk.
func Extract(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening bundle %s: %w", archivePath, err)
	}
	defer reader.Close()

	return extractAll(&reader.Reader, destDir)
}

// ExtractReader unpacks an in-memory or already-open archive. The zip
// format requires random access (the entry directory lives at the end
// of the file), hence io.ReaderAt plus size rather than a plain reader.
func ExtractReader(r io.ReaderAt, size int64, destDir string) error {
	reader, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("reading bundle: %w", err)
	}
	return extractAll(reader, destDir)
}

// ExtractStream unpacks an archive delivered as a sequential byte
// stream by spooling it to a temporary file first. The spool file is
// always removed before returning.
func ExtractStream(r io.Reader, destDir string) error {
	spool, err := os.CreateTemp("", "logcrate-bundle-*.zip")
	if err != nil {
		return fmt.Errorf("creating spool file: %w", err)
	}
	defer func() {
		spool.Close()
		os.Remove(spool.Name())
	}()

	size, err := io.Copy(spool, r)
	if err != nil {
		return fmt.Errorf("spooling bundle stream: %w", err)
	}
	return ExtractReader(spool, size, destDir)
}

func extractAll(reader *zip.Reader, destDir string) error {
	reader.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating destination %s: %w", destDir, err)
	}

	buffer := make([]byte, copyBufferSize)
	for _, entry := range reader.File {
		target, err := securePath(destDir, entry.Name)
		if err != nil {
			return fmt.Errorf("entry %q: %w", entry.Name, err)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating entry directory %s: %w", target, err)
			}
			continue
		}

		if err := extractEntry(entry, target, buffer); err != nil {
			return fmt.Errorf("extracting %q: %w", entry.Name, err)
		}
	}
	return nil
}

func extractEntry(entry *zip.File, target string, buffer []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening entry: %w", err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}

	if _, err := io.CopyBuffer(out, in, buffer); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", target, err)
	}
	return nil
}

// securePath resolves an archive entry name against the extraction
// root, rejecting absolute paths and any path that climbs out of the
// root. Entry names use forward slashes per the zip spec.
func securePath(root, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) {
		return "", ErrUnsafePath
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", ErrUnsafePath
	}
	return filepath.Join(root, cleaned), nil
}
