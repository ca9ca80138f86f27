// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/blake3"

	"github.com/logcrate/logcrate/lib/compress"
)

func newTestSaver(t *testing.T) *Saver {
	t.Helper()
	return &Saver{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// brokenReader yields its payload, then fails.
type brokenReader struct {
	payload io.Reader
	err     error
}

func (r *brokenReader) Read(p []byte) (int, error) {
	n, err := r.payload.Read(p)
	if err == io.EOF {
		return n, r.err
	}
	return n, err
}

func TestSaveWritesExactContent(t *testing.T) {
	saver := newTestSaver(t)
	directory := filepath.Join(t.TempDir(), "app")

	result, err := saver.Save(directory, filepath.Join("sub", "log", "a.log"),
		strings.NewReader("hello"), nil)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := filepath.Join(directory, "sub", "log", "a.log")
	if result.Path != want {
		t.Errorf("Path = %q, want %q", result.Path, want)
	}
	if result.Bytes != 5 {
		t.Errorf("Bytes = %d, want 5", result.Bytes)
	}

	content, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("content = %q, want %q", content, "hello")
	}
}

func TestSaveCreatesOnlyMissingDirectories(t *testing.T) {
	root := t.TempDir()
	directory := filepath.Join(root, "a", "b", "c")
	saver := newTestSaver(t)

	if _, err := saver.Save(directory, "x.log", strings.NewReader("x"), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a" {
		t.Errorf("root contains %v, want exactly [a]", entries)
	}
	entries, err = os.ReadDir(filepath.Join(root, "a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "x.log" {
		t.Errorf("leaf directory contains %v, want exactly [x.log]", entries)
	}
}

func TestSaveChecksumMatchesContent(t *testing.T) {
	saver := newTestSaver(t)
	content := bytes.Repeat([]byte("checksum me\n"), 3000) // spans several chunks

	result, err := saver.Save(t.TempDir(), "sum.log", bytes.NewReader(content), nil)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := blake3.Sum256(content)
	if result.Checksum != want {
		t.Errorf("Checksum mismatch")
	}
}

func TestSaveSourceFailureRemovesDestination(t *testing.T) {
	saver := newTestSaver(t)
	directory := filepath.Join(t.TempDir(), "app")
	source := &brokenReader{
		payload: strings.NewReader("hello"),
		err:     fmt.Errorf("log stream torn down"),
	}

	_, err := saver.Save(directory, filepath.Join("nested", "a.log"), source, nil)
	if err == nil {
		t.Fatal("Save succeeded, want failure")
	}
	if errors.Is(err, ErrCancelled) {
		t.Errorf("source failure classified as cancellation: %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(directory, "nested", "a.log")); !os.IsNotExist(statErr) {
		t.Errorf("destination still exists after failed save (stat err: %v)", statErr)
	}
}

func TestSaveCancellationRemovesDestination(t *testing.T) {
	saver := newTestSaver(t)
	directory := t.TempDir()

	// A source far longer than one chunk; cancel after the first
	// progress report. The save must stop within one chunk and leave
	// nothing behind.
	flag := &CancelFlag{}
	flag.OnProgress = func(int64) { flag.Cancel() }
	source := bytes.NewReader(bytes.Repeat([]byte{'x'}, 50*ChunkSize))

	_, err := saver.Save(directory, "cancelled.log", source, flag)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Save error = %v, want ErrCancelled", err)
	}

	if _, statErr := os.Stat(filepath.Join(directory, "cancelled.log")); !os.IsNotExist(statErr) {
		t.Errorf("destination still exists after cancelled save (stat err: %v)", statErr)
	}
	if remaining := source.Len(); remaining < 48*ChunkSize {
		t.Errorf("save consumed %d bytes after cancellation, want at most ~2 chunks",
			50*ChunkSize-remaining)
	}
}

func TestSaveCancelledBeforeStart(t *testing.T) {
	saver := newTestSaver(t)
	directory := t.TempDir()

	flag := &CancelFlag{}
	flag.Cancel()

	_, err := saver.Save(directory, "never.log", strings.NewReader("data"), flag)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Save error = %v, want ErrCancelled", err)
	}
	if _, statErr := os.Stat(filepath.Join(directory, "never.log")); !os.IsNotExist(statErr) {
		t.Error("destination exists after pre-cancelled save")
	}
}

func TestSaveProgressReportsCumulativeKiB(t *testing.T) {
	saver := newTestSaver(t)

	var reports []int64
	flag := &CancelFlag{OnProgress: func(kib int64) { reports = append(reports, kib) }}

	// 25 KiB: two full chunks (10 KiB each) plus a 5 KiB tail.
	source := bytes.NewReader(bytes.Repeat([]byte{'a'}, 25*1024))
	if _, err := saver.Save(t.TempDir(), "p.log", source, flag); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := []int64{10, 20, 25}
	if len(reports) != len(want) {
		t.Fatalf("progress reports = %v, want %v", reports, want)
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Fatalf("progress reports = %v, want %v", reports, want)
		}
	}
}

func TestSaveEmptySource(t *testing.T) {
	saver := newTestSaver(t)
	directory := t.TempDir()

	result, err := saver.Save(directory, "empty.log", strings.NewReader(""), nil)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if result.Bytes != 0 {
		t.Errorf("Bytes = %d, want 0", result.Bytes)
	}
	info, err := os.Stat(result.Path)
	if err != nil {
		t.Fatalf("stat saved file: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("file size = %d, want 0", info.Size())
	}
}

func TestSaveWithCodecRoundtrips(t *testing.T) {
	content := bytes.Repeat([]byte("compressed capture line\n"), 2000)

	for _, codec := range []compress.Codec{compress.Gzip, compress.Zstd, compress.LZ4} {
		t.Run(codec.String(), func(t *testing.T) {
			saver := newTestSaver(t)
			saver.Codec = codec

			result, err := saver.Save(t.TempDir(), "c.log"+codec.Extension(),
				bytes.NewReader(content), nil)
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			// Byte accounting is on the uncompressed stream.
			if result.Bytes != int64(len(content)) {
				t.Errorf("Bytes = %d, want %d", result.Bytes, len(content))
			}
			if want := blake3.Sum256(content); result.Checksum != want {
				t.Error("Checksum is not over the uncompressed bytes")
			}

			info, err := os.Stat(result.Path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() >= int64(len(content)) {
				t.Errorf("on-disk size %d not smaller than input %d", info.Size(), len(content))
			}

			file, err := os.Open(result.Path)
			if err != nil {
				t.Fatal(err)
			}
			defer file.Close()
			reader, err := compress.NewReader(file, codec)
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			defer reader.Close()
			decompressed, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("decompressing saved file: %v", err)
			}
			if !bytes.Equal(decompressed, content) {
				t.Error("decompressed content does not match source")
			}
		})
	}
}

func TestSaveMarkerFile(t *testing.T) {
	saver := newTestSaver(t)
	saver.ExcludeFromIndexing = true
	directory := filepath.Join(t.TempDir(), "private")

	if _, err := saver.Save(directory, "a.log", strings.NewReader("x"), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(directory, MarkerFileName))
	if err != nil {
		t.Fatalf("marker file missing: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("marker file size = %d, want 0", info.Size())
	}

	// A second save must tolerate the existing marker.
	if _, err := saver.Save(directory, "b.log", strings.NewReader("y"), nil); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
}

func TestSaveRejectsEmptyArguments(t *testing.T) {
	saver := newTestSaver(t)
	if _, err := saver.Save("", "a.log", strings.NewReader("x"), nil); err == nil {
		t.Error("Save with empty directory succeeded")
	}
	if _, err := saver.Save(t.TempDir(), "", strings.NewReader("x"), nil); err == nil {
		t.Error("Save with empty name succeeded")
	}
}

func TestSaveDirectoryUnavailable(t *testing.T) {
	saver := newTestSaver(t)

	// Use a regular file where a directory is required.
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := saver.Save(filepath.Join(blocker, "sub"), "a.log", strings.NewReader("x"), nil); err == nil {
		t.Error("Save into unusable directory succeeded")
	}
}
