// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package ceremony

import "testing"

func TestHashToG2Deterministic(t *testing.T) {
	digest := BlankHash()

	p1, err := HashToG2(digest[:])
	if err != nil {
		t.Fatalf("HashToG2: %v", err)
	}
	p2, err := HashToG2(digest[:])
	if err != nil {
		t.Fatalf("HashToG2: %v", err)
	}
	if !p1.Equal(&p2) {
		t.Fatal("HashToG2 must be a deterministic function of its input")
	}
	if p1.IsInfinity() {
		t.Fatal("HashToG2 should not land on the identity for this digest")
	}
}

func TestHashToG2DifferentInputsDiffer(t *testing.T) {
	d1 := BlankHash()
	d2 := d1
	d2[0] ^= 1

	p1, err := HashToG2(d1[:])
	if err != nil {
		t.Fatalf("HashToG2: %v", err)
	}
	p2, err := HashToG2(d2[:])
	if err != nil {
		t.Fatalf("HashToG2: %v", err)
	}
	if p1.Equal(&p2) {
		t.Fatal("expected different digests to map to different G2 elements")
	}
}

func TestHashToG2RejectsShortDigest(t *testing.T) {
	if _, err := HashToG2(make([]byte, 16)); err == nil {
		t.Fatal("expected an error for a digest shorter than 32 bytes")
	}
}
