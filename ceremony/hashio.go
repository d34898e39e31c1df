// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// hashio.go
package ceremony

import (
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
)

// HashReader wraps an io.Reader and maintains a rolling BLAKE2b-512 digest
// of every byte read through it.
type HashReader struct {
	r      io.Reader
	hasher hash.Hash
}

// NewHashReader constructs a HashReader over an existing reader.
func NewHashReader(r io.Reader) *HashReader {
	h, err := blake2b.New512(nil)
	if err != nil {
		// blake2b.New512(nil) only fails for an oversized key, and we pass none.
		panic(err)
	}
	return &HashReader{r: r, hasher: h}
}

// Read implements io.Reader, folding every byte read into the digest.
func (h *HashReader) Read(buf []byte) (int, error) {
	n, err := h.r.Read(buf)
	if n > 0 {
		h.hasher.Write(buf[:n])
	}
	return n, err
}

// Finalize consumes the reader and returns the BLAKE2b-512 digest of
// everything read through it. The reader must not be used afterward.
func (h *HashReader) Finalize() [64]byte {
	var out [64]byte
	copy(out[:], h.hasher.Sum(nil))
	return out
}

// HashWriter wraps an io.Writer and maintains a rolling BLAKE2b-512 digest
// of every byte written through it.
type HashWriter struct {
	w      io.Writer
	hasher hash.Hash
}

// NewHashWriter constructs a HashWriter over an existing writer.
func NewHashWriter(w io.Writer) *HashWriter {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	return &HashWriter{w: w, hasher: h}
}

// Write implements io.Writer, folding every byte written into the digest.
func (h *HashWriter) Write(buf []byte) (int, error) {
	n, err := h.w.Write(buf)
	if n > 0 {
		h.hasher.Write(buf[:n])
	}
	return n, err
}

// Finalize consumes the writer and returns the BLAKE2b-512 digest of
// everything written through it. The writer must not be used afterward.
func (h *HashWriter) Finalize() [64]byte {
	var out [64]byte
	copy(out[:], h.hasher.Sum(nil))
	return out
}

// BlankHash returns BLAKE2b-512 of the empty string, used as the
// previous-contribution hash prefix of a genesis challenge.
func BlankHash() [64]byte {
	var out [64]byte
	sum := blake2b.Sum512(nil)
	copy(out[:], sum[:])
	return out
}
