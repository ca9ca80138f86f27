// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/zeebo/blake3"

	"github.com/logcrate/logcrate/lib/compress"
)

// ChunkSize is the number of bytes read from the source per write
// call. Progress is reported and cancellation is polled once per
// chunk, so this value bounds how much data can be written after a
// cancellation request.
const ChunkSize = 10 * 1024

// MarkerFileName is the zero-byte marker created in a private artifact
// directory to exclude it from media indexing by file scanners.
const MarkerFileName = ".nomedia"

// ErrCancelled is returned by Save when the listener's cancellation
// flag was observed at a chunk boundary. Cleanup is identical to an
// I/O failure (the destination is removed); the distinct sentinel lets
// callers avoid logging a deliberate cancellation as an error.
var ErrCancelled = errors.New("save cancelled")

// Listener receives progress updates during a Save and carries the
// cooperative cancellation flag. Both methods are called from the
// goroutine running Save, once per chunk.
type Listener interface {
	// Progress reports the cumulative KiB written so far.
	Progress(kibWritten int64)

	// Cancelled is polled before each chunk. Once it returns true the
	// save terminates within one chunk and deletes the destination.
	Cancelled() bool
}

// CancelFlag is a Listener backed by an atomic boolean. The zero value
// is ready to use: never cancelled, progress discarded. Set OnProgress
// to observe progress; call Cancel from any goroutine to request
// cancellation.
type CancelFlag struct {
	// OnProgress, if non-nil, is invoked with the cumulative KiB
	// written after each chunk.
	OnProgress func(kibWritten int64)

	cancelled atomic.Bool
}

// Cancel requests cancellation. The in-progress save observes the flag
// at the next chunk boundary.
func (c *CancelFlag) Cancel() { c.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called.
func (c *CancelFlag) Cancelled() bool { return c.cancelled.Load() }

// Progress forwards to OnProgress when set.
func (c *CancelFlag) Progress(kibWritten int64) {
	if c.OnProgress != nil {
		c.OnProgress(kibWritten)
	}
}

// nopListener is used when the caller passes a nil Listener.
type nopListener struct{}

func (nopListener) Progress(int64)  {}
func (nopListener) Cancelled() bool { return false }

// Saver writes byte streams to files. The zero value is usable; fields
// customize behavior.
type Saver struct {
	// Logger receives debug and warn records for best-effort side
	// operations. Nil falls back to slog.Default().
	Logger *slog.Logger

	// Codec, when not compress.None, compresses the destination file
	// as it is written. The stream's byte count, progress reports, and
	// checksum all refer to the uncompressed source bytes.
	Codec compress.Codec

	// ExcludeFromIndexing creates the MarkerFileName marker in the
	// target directory so media scanners skip it. Marker creation is
	// best-effort: its failure never fails the save.
	ExcludeFromIndexing bool
}

// SaveResult describes a successfully persisted artifact.
type SaveResult struct {
	// Path is the fully qualified destination path.
	Path string

	// Bytes is the number of source bytes consumed (uncompressed).
	Bytes int64

	// Checksum is the BLAKE3 digest of the source bytes.
	Checksum [32]byte
}

// Save streams source into directory/name, creating the directory
// chain as needed (name may itself contain path separators). The
// source is consumed in ChunkSize chunks; after each chunk the
// listener receives the cumulative KiB written, and before each chunk
// its cancellation flag is polled. On success the file is fsynced
// before the result is returned. On any failure — read error, write
// error, or cancellation — the destination path is deleted and an
// error is returned; no partially written file survives.
//
// A nil listener disables progress reporting and cancellation.
func (s *Saver) Save(directory, name string, source io.Reader, listener Listener) (*SaveResult, error) {
	if directory == "" {
		return nil, fmt.Errorf("save: directory must not be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("save: name must not be empty")
	}
	if listener == nil {
		listener = nopListener{}
	}

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory %s: %w", directory, err)
	}
	if s.ExcludeFromIndexing {
		s.placeMarker(directory)
	}

	destination := filepath.Join(directory, name)
	if parent := filepath.Dir(destination); parent != directory {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("creating artifact directory %s: %w", parent, err)
		}
	}

	file, err := os.Create(destination)
	if err != nil {
		return nil, fmt.Errorf("creating artifact file %s: %w", destination, err)
	}

	// On any failure past this point the destination must not survive.
	fail := func(cause error) (*SaveResult, error) {
		file.Close()
		if removeErr := DeletePath(destination); removeErr != nil {
			s.logger().Warn("removing partial artifact failed",
				"path", destination, "error", removeErr)
		}
		return nil, cause
	}

	var writer io.Writer = file
	var codecWriter io.WriteCloser
	if s.Codec != compress.None {
		codecWriter, err = compress.NewWriter(file, s.Codec)
		if err != nil {
			return fail(fmt.Errorf("initializing %s writer: %w", s.Codec, err))
		}
		writer = codecWriter
	}

	hasher := blake3.New()
	buffer := make([]byte, ChunkSize)
	var total int64

	for {
		if listener.Cancelled() {
			if codecWriter != nil {
				_ = codecWriter.Close()
			}
			return fail(fmt.Errorf("writing %s: %w", destination, ErrCancelled))
		}

		n, readErr := source.Read(buffer)
		if n > 0 {
			chunk := buffer[:n]
			if _, err := writer.Write(chunk); err != nil {
				if codecWriter != nil {
					_ = codecWriter.Close()
				}
				return fail(fmt.Errorf("writing %s: %w", destination, err))
			}
			// Hasher writes never fail.
			_, _ = hasher.Write(chunk)
			total += int64(n)
			listener.Progress(total / 1024)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if codecWriter != nil {
				_ = codecWriter.Close()
			}
			return fail(fmt.Errorf("reading source for %s: %w", destination, readErr))
		}
	}

	if codecWriter != nil {
		if err := codecWriter.Close(); err != nil {
			return fail(fmt.Errorf("flushing %s writer for %s: %w", s.Codec, destination, err))
		}
	}
	if err := file.Sync(); err != nil {
		return fail(fmt.Errorf("syncing %s: %w", destination, err))
	}
	if err := file.Close(); err != nil {
		if removeErr := DeletePath(destination); removeErr != nil {
			s.logger().Warn("removing partial artifact failed",
				"path", destination, "error", removeErr)
		}
		return nil, fmt.Errorf("closing %s: %w", destination, err)
	}

	result := &SaveResult{Path: destination, Bytes: total}
	hasher.Sum(result.Checksum[:0])
	return result, nil
}

// placeMarker creates the media-index exclusion marker in directory if
// it is not already present. Failures are logged and swallowed: the
// marker is a convenience, not part of the save contract.
func (s *Saver) placeMarker(directory string) {
	marker := filepath.Join(directory, MarkerFileName)
	file, err := os.OpenFile(marker, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if !os.IsExist(err) {
			s.logger().Warn("creating index exclusion marker failed",
				"path", marker, "error", err)
		}
		return
	}
	if err := file.Close(); err != nil {
		s.logger().Warn("closing index exclusion marker failed",
			"path", marker, "error", err)
	}
}

func (s *Saver) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
