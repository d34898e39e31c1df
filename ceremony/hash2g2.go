// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// hash2g2.go
package ceremony

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// HashToG2 derives a G2 element deterministically from digest. The first
// 32 bytes of digest seed a ChaCha20 stream; one uniform scalar is drawn
// from that stream and multiplied by the G2 generator. Because G2 is a
// prime-order cyclic group, a uniform scalar multiple of the generator is
// distributed identically to a uniform group element, so this is a faithful
// replacement for the original's `ChaChaRng::from_seed(seed).gen()` over
// G2Projective.
//
// Domain separation between callers is their responsibility: a
// personalization byte is expected to already be folded into digest.
func HashToG2(digest []byte) (bls12381.G2Affine, error) {
	if len(digest) < 32 {
		return bls12381.G2Affine{}, fmt.Errorf("ceremony: hash-to-G2 digest must be at least 32 bytes, got %d", len(digest))
	}

	var seed [32]byte
	copy(seed[:], digest[:32])

	stream, err := newChaChaStream(seed)
	if err != nil {
		return bls12381.G2Affine{}, err
	}

	s, err := sampleFrElement(stream)
	if err != nil {
		return bls12381.G2Affine{}, err
	}

	var p bls12381.G2Affine
	p.ScalarMultiplicationBase(s.BigInt(new(big.Int)))
	return p, nil
}
