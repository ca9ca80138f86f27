// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a streaming compression algorithm. Codecs are
// applied to whole artifacts; the choice is recorded in the artifact's
// file extension, not in the stream itself.
type Codec uint8

const (
	// None leaves the stream uncompressed.
	None Codec = 0

	// Gzip is the widely interoperable default. Any consumer can
	// decompress it without extra tooling.
	Gzip Codec = 1

	// Zstd gives the best ratio for text-like content (logs, JSON)
	// at low CPU cost. Encoded at zstd's default level.
	Zstd Codec = 2

	// LZ4 trades ratio for speed. Useful when capture throughput
	// matters more than artifact size.
	LZ4 Codec = 3
)

// String returns the human-readable name of a codec.
func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Extension returns the file extension appended to artifacts
// compressed with this codec, including the leading dot. None returns
// the empty string.
func (c Codec) Extension() string {
	switch c {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseCodec parses a codec from its string representation. The empty
// string parses as None so unset configuration fields need no special
// casing.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "none":
		return None, nil
	case "gzip":
		return Gzip, nil
	case "zstd":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression codec: %q", name)
	}
}

// NewWriter wraps w in a compressing writer for the given codec. The
// returned writer must be closed to flush trailing compressed frames;
// closing it does not close w. For None, the returned writer is a
// pass-through whose Close is a no-op.
func NewWriter(w io.Writer, codec Codec) (io.WriteCloser, error) {
	switch codec {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("initializing zstd encoder: %w", err)
		}
		return encoder, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression codec: %d", codec)
	}
}

// NewReader wraps r in a decompressing reader for the given codec.
// Closing the returned reader releases codec resources; it does not
// close r.
func NewReader(r io.Reader, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		reader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("initializing gzip reader: %w", err)
		}
		return reader, nil
	case Zstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("initializing zstd decoder: %w", err)
		}
		return decoder.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression codec: %d", codec)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
