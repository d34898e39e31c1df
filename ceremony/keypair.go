// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// keypair.go implements key derivation: a PrivateKey is the three secret
// scalars (tau, alpha, beta) a participant contributes, and a PublicKey is
// the proof-of-knowledge data published alongside a response so that anyone
// can later verify the contribution without learning the scalars (see
// original_source/src/main.rs's keypair/PublicKey/compute_g2_s).
package ceremony

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/crypto/blake2b"
)

// PrivateKey holds the three secret scalars a single contribution applies
// to an accumulator. It must never be serialized or logged, and its scalars
// must be scrubbed with Zeroize as soon as the contribution's Transform and
// key derivation are complete.
type PrivateKey struct {
	Tau   fr.Element
	Alpha fr.Element
	Beta  fr.Element
}

// Zeroize overwrites all three scalars with zero. Go offers no hard
// guarantee against compiler reordering or a GC-relocated backing array the
// way a language with an explicit zeroize intrinsic would, but clearing the
// fields here at least removes the only live reference to the secret as
// soon as the caller is done with it.
func (sk *PrivateKey) Zeroize() {
	sk.Tau.SetZero()
	sk.Alpha.SetZero()
	sk.Beta.SetZero()
}

// PublicKey is the proof-of-knowledge a participant publishes for each of
// tau, alpha and beta: a random G1 blinding point s, the same point raised
// to the secret (s_x = s*x), and the secret's image in G2 of a point that is
// itself derived from (s, s_x) and the challenge digest rather than from a
// fixed generator (g2_s_x = hash_to_g2(personalization||digest||s||s_x)*x).
// Binding g2_s to the transcript this way is what makes the proof specific
// to one contribution: it cannot be recycled against a different challenge.
type PublicKey struct {
	TauG1   [2]bls12381.G1Affine // (s, s*tau)
	AlphaG1 [2]bls12381.G1Affine // (s, s*alpha)
	BetaG1  [2]bls12381.G1Affine // (s, s*beta)
	TauG2   bls12381.G2Affine    // g2_s * tau
	AlphaG2 bls12381.G2Affine    // g2_s * alpha
	BetaG2  bls12381.G2Affine    // g2_s * beta
}

// personalization bytes distinguishing the tau/alpha/beta proofs of
// knowledge within a single transcript, per original_source/src/main.rs.
const (
	personalizationTau   byte = 0
	personalizationAlpha byte = 1
	personalizationBeta  byte = 2
)

// computeG2S derives the transcript-bound G2 blinding point for one
// proof-of-knowledge component: BLAKE2b-512(personalization || digest ||
// uncompressed(g1S) || uncompressed(g1SX)), hashed to G2. Both GenerateKeyPair
// and VerifyTransform call this so a verifier recomputes the same point the
// prover used without ever seeing the secret scalar.
func computeG2S(digest [64]byte, g1S, g1SX bls12381.G1Affine, personalization byte) (bls12381.G2Affine, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return bls12381.G2Affine{}, fmt.Errorf("ceremony: construct transcript hasher: %w", err)
	}
	h.Write([]byte{personalization})
	h.Write(digest[:])
	g1SBytes := g1S.RawBytes()
	g1SXBytes := g1SX.RawBytes()
	h.Write(g1SBytes[:])
	h.Write(g1SXBytes[:])

	return HashToG2(h.Sum(nil))
}

// GenerateKeyPair derives a fresh (PublicKey, PrivateKey) pair from rng,
// binding every proof of knowledge to digest (the BLAKE2b-512 hash of the
// challenge file this contribution is responding to) so a response can
// never be replayed against a different challenge.
func GenerateKeyPair(rng *EntropyRNG, digest [64]byte) (*PublicKey, *PrivateKey, error) {
	sk := &PrivateKey{}
	pk := &PublicKey{}

	tau, tauG2, err := deriveComponent(rng, digest, personalizationTau)
	if err != nil {
		return nil, nil, fmt.Errorf("ceremony: derive tau component: %w", err)
	}
	alpha, alphaG2, err := deriveComponent(rng, digest, personalizationAlpha)
	if err != nil {
		return nil, nil, fmt.Errorf("ceremony: derive alpha component: %w", err)
	}
	beta, betaG2, err := deriveComponent(rng, digest, personalizationBeta)
	if err != nil {
		return nil, nil, fmt.Errorf("ceremony: derive beta component: %w", err)
	}

	sk.Tau, pk.TauG1, pk.TauG2 = tau.x, tau.pair, tauG2
	sk.Alpha, pk.AlphaG1, pk.AlphaG2 = alpha.x, alpha.pair, alphaG2
	sk.Beta, pk.BetaG1, pk.BetaG2 = beta.x, beta.pair, betaG2

	return pk, sk, nil
}

// componentResult is deriveComponent's return bundle: the sampled secret
// scalar and the G1 half of its proof of knowledge.
type componentResult struct {
	x    fr.Element
	pair [2]bls12381.G1Affine
}

// deriveComponent samples one secret scalar x and a G1 blinding point s,
// resampling s whenever it lands on the identity (an identity blinding
// point would make the proof of knowledge trivially true regardless of x),
// computes s_x = s*x, and returns the transcript-bound G2 image g2_s*x.
func deriveComponent(rng *EntropyRNG, digest [64]byte, personalization byte) (componentResult, bls12381.G2Affine, error) {
	x, err := rng.SampleScalar()
	if err != nil {
		return componentResult{}, bls12381.G2Affine{}, err
	}

	var s bls12381.G1Affine
	for {
		s, err = rng.SampleG1()
		if err != nil {
			return componentResult{}, bls12381.G2Affine{}, err
		}
		if !s.IsInfinity() {
			break
		}
	}

	var sxJac bls12381.G1Jac
	sxJac.FromAffine(&s)
	sxJac.ScalarMultiplication(&sxJac, x.BigInt(new(big.Int)))
	var sx bls12381.G1Affine
	sx.FromJacobian(&sxJac)

	g2S, err := computeG2S(digest, s, sx, personalization)
	if err != nil {
		return componentResult{}, bls12381.G2Affine{}, fmt.Errorf("ceremony: transcript-bind G2 component: %w", err)
	}

	var g2SXJac bls12381.G2Jac
	g2SXJac.FromAffine(&g2S)
	g2SXJac.ScalarMultiplication(&g2SXJac, x.BigInt(new(big.Int)))
	var g2SX bls12381.G2Affine
	g2SX.FromJacobian(&g2SXJac)

	return componentResult{x: x, pair: [2]bls12381.G1Affine{s, sx}}, g2SX, nil
}
