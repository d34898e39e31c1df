// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package ceremony

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/blake2b"
)

func TestHashReaderMatchesDirectHash(t *testing.T) {
	data := []byte("some bytes flowing through a hash-chained reader")

	hr := NewHashReader(bytes.NewReader(data))
	var out bytes.Buffer
	buf := make([]byte, 7) // deliberately not a multiple of len(data)
	for {
		n, err := hr.Read(buf)
		out.Write(buf[:n])
		if err != nil {
			break
		}
	}

	if !bytes.Equal(out.Bytes(), data) {
		t.Fatal("HashReader must pass through every byte unchanged")
	}

	want := blake2b.Sum512(data)
	got := hr.Finalize()
	if got != want {
		t.Fatal("HashReader digest does not match a direct BLAKE2b-512 hash")
	}
}

func TestHashWriterMatchesDirectHash(t *testing.T) {
	data := []byte("some bytes flowing through a hash-chained writer")

	var sink bytes.Buffer
	hw := NewHashWriter(&sink)
	if _, err := hw.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if !bytes.Equal(sink.Bytes(), data) {
		t.Fatal("HashWriter must pass through every byte unchanged")
	}

	want := blake2b.Sum512(data)
	got := hw.Finalize()
	if got != want {
		t.Fatal("HashWriter digest does not match a direct BLAKE2b-512 hash")
	}
}

func TestBlankHash(t *testing.T) {
	want := blake2b.Sum512(nil)
	got := BlankHash()
	if got != want {
		t.Fatal("BlankHash must equal BLAKE2b-512 of the empty string")
	}
}
