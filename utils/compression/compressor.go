// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package compression compresses stored account records.
package compression

// Compressor compresses and decompresses byte slices. Implementations are safe
// for concurrent use.
type Compressor interface {
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}

// New returns a zstd compressor bounded by [maxSize] when [enabled], and a
// pass-through compressor otherwise.
func New(enabled bool, maxSize int64) (Compressor, error) {
	if !enabled {
		return NewNoCompressor(maxSize), nil
	}
	return NewZstdCompressor(maxSize)
}
