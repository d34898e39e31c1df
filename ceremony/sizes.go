// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// sizes.go gives closed-form on-disk byte sizes for a ceremony's files,
// without needing to construct or serialize an actual Accumulator. See
// original_source/src/main.rs's CurveParameters/accumulator_byte_size_with_hash.
package ceremony

import bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

const (
	g1CompressedSize   = bls12381.SizeOfG1AffineCompressed
	g1UncompressedSize = bls12381.SizeOfG1AffineUncompressed
	g2CompressedSize   = bls12381.SizeOfG2AffineCompressed
	g2UncompressedSize = bls12381.SizeOfG2AffineUncompressed

	// hashPrefixSize is the BLAKE2b-512 digest prepended to every
	// challenge/response file.
	hashPrefixSize = 64

	// lengthPrefixesSize accounts for the four 8-byte vector-length
	// prefixes (tau_g1, tau_g2, alpha_tau_g1, beta_tau_g1) emitted ahead
	// of each vector by the serializer.
	lengthPrefixesSize = 4 * 8
)

// Sizes computes closed-form byte sizes for files produced under params.
type Sizes struct {
	params Parameters
}

// NewSizes constructs a Sizes calculator for params.
func NewSizes(params Parameters) Sizes {
	return Sizes{params: params}
}

// AccumulatorOnDiskBytes is the size of an uncompressed accumulator plus its
// 64-byte previous-contribution hash prefix and length prefixes, i.e. the
// size of a challenge file.
func (s Sizes) AccumulatorOnDiskBytes() int {
	p := s.params
	return p.TauG1Len()*g1UncompressedSize +
		p.TauLen()*(g2UncompressedSize+2*g1UncompressedSize) +
		g2UncompressedSize +
		lengthPrefixesSize +
		hashPrefixSize
}

// PublicKeySize is the fixed uncompressed size of a PublicKey: six G1
// points (tau_g1 pair, alpha_g1 pair, beta_g1 pair) and three G2 points
// (tau_g2, alpha_g2, beta_g2).
func (s Sizes) PublicKeySize() int {
	return 6*g1UncompressedSize + 3*g2UncompressedSize
}

// ContributionOnDiskBytes is the size of a response file: a compressed
// accumulator, its 64-byte input-hash prefix, and an uncompressed public
// key.
func (s Sizes) ContributionOnDiskBytes() int {
	p := s.params
	accumulatorCompressed := p.TauG1Len()*g1CompressedSize +
		p.TauLen()*(g2CompressedSize+2*g1CompressedSize) +
		g2CompressedSize +
		lengthPrefixesSize
	return accumulatorCompressed + hashPrefixSize + s.PublicKeySize()
}
