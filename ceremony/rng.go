// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// rng.go
package ceremony

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// chachaStream is an io.Reader producing the ChaCha20 keystream for a given
// 32-byte seed, standing in for rand_chacha::ChaChaRng from the original
// implementation this ceremony is modeled on.
type chachaStream struct {
	cipher *chacha20.Cipher
}

func newChaChaStream(seed [32]byte) (*chachaStream, error) {
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, fmt.Errorf("ceremony: construct chacha20 stream: %w", err)
	}
	return &chachaStream{cipher: c}, nil
}

func (s *chachaStream) Read(buf []byte) (int, error) {
	zero := make([]byte, len(buf))
	s.cipher.XORKeyStream(buf, zero)
	return len(buf), nil
}

// sampleFrElement reads 32 bytes from r and reduces them into the scalar
// field. The bias from reducing a 256-bit value into a ~255-bit field is
// negligible and is the same tradeoff the rest of the example pack makes
// (see other_examples' MPC ceremony helper, which reduces BLAKE2b output
// into fr.Element the same way).
func sampleFrElement(r io.Reader) (fr.Element, error) {
	var buf [32]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fr.Element{}, fmt.Errorf("ceremony: read scalar bytes: %w", err)
	}
	var e fr.Element
	e.SetBytes(buf[:])
	return e, nil
}

// sampleG1 draws a uniform element of G1 from r. Since G1 is a prime-order
// cyclic group, a uniform group element is distributed identically to a
// uniform scalar times the generator, so sampling reduces to one scalar
// draw plus one scalar multiplication.
func sampleG1(r io.Reader) (bls12381.G1Affine, error) {
	s, err := sampleFrElement(r)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var p bls12381.G1Affine
	p.ScalarMultiplicationBase(s.BigInt(new(big.Int)))
	return p, nil
}

// EntropyRNG is the per-participant randomness source used during
// `contribute`. It is seeded once from OS entropy mixed with
// operator-supplied entropy (spec.md §5: "PRNG seeded from OS entropy mixed
// with user-keyboard entropy"), then used to sample every secret scalar
// and blinding point for that single contribution.
type EntropyRNG struct {
	stream *chachaStream
}

// NewEntropyRNG gathers 1024 bytes from the OS entropy source, hashes them
// together with the caller-supplied userEntropy (e.g. a line of
// operator-typed text) using BLAKE2b-512, and seeds a ChaCha20 stream from
// the first 32 bytes of the digest. This mirrors original_source/src/main.rs's
// entropy-gathering step exactly.
func NewEntropyRNG(userEntropy []byte) (*EntropyRNG, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, fmt.Errorf("ceremony: construct entropy hasher: %w", err)
	}

	var osEntropy [1024]byte
	if _, err := io.ReadFull(rand.Reader, osEntropy[:]); err != nil {
		return nil, fmt.Errorf("ceremony: read OS entropy: %w", err)
	}
	h.Write(osEntropy[:])
	h.Write(userEntropy)

	digest := h.Sum(nil)
	var seed [32]byte
	copy(seed[:], digest[:32])

	stream, err := newChaChaStream(seed)
	if err != nil {
		return nil, err
	}
	return &EntropyRNG{stream: stream}, nil
}

// SampleScalar draws a uniform scalar field element.
func (rng *EntropyRNG) SampleScalar() (fr.Element, error) {
	return sampleFrElement(rng.stream)
}

// SampleG1 draws a uniform element of G1.
func (rng *EntropyRNG) SampleG1() (bls12381.G1Affine, error) {
	return sampleG1(rng.stream)
}
