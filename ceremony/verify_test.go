// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package ceremony

import (
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

func contributeOnce(t *testing.T, before *Accumulator, digest [64]byte, entropy string) (*Accumulator, *PublicKey) {
	t.Helper()
	rng, err := NewEntropyRNG([]byte(entropy))
	if err != nil {
		t.Fatalf("NewEntropyRNG: %v", err)
	}
	pk, sk, err := GenerateKeyPair(rng, digest)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	defer sk.Zeroize()

	after := &Accumulator{
		TauG1:      append([]bls12381.G1Affine(nil), before.TauG1...),
		TauG2:      append([]bls12381.G2Affine(nil), before.TauG2...),
		AlphaTauG1: append([]bls12381.G1Affine(nil), before.AlphaTauG1...),
		BetaTauG1:  append([]bls12381.G1Affine(nil), before.BetaTauG1...),
		BetaG2:     before.BetaG2,
	}
	if err := after.Transform(sk); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return after, pk
}

func TestVerifyTransformRoundTrip(t *testing.T) {
	params, err := NewParameters(3)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	before := NewIdentityAccumulator(params)
	digest := BlankHash()

	after, pk := contributeOnce(t, before, digest, "round trip entropy")

	ok, err := VerifyTransform(before, after, pk, digest)
	if err != nil {
		t.Fatalf("VerifyTransform: %v", err)
	}
	if !ok {
		t.Fatal("expected a genuine contribution to verify")
	}
}

func TestVerifyTransformRejectsWrongDigest(t *testing.T) {
	params, err := NewParameters(3)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	before := NewIdentityAccumulator(params)
	digest := BlankHash()

	after, pk := contributeOnce(t, before, digest, "wrong digest entropy")

	wrongDigest := digest
	wrongDigest[0] ^= 0xff

	ok, err := VerifyTransform(before, after, pk, wrongDigest)
	if err != nil {
		t.Fatalf("VerifyTransform: %v", err)
	}
	if ok {
		t.Fatal("expected verification to fail when bound to the wrong digest")
	}
}

func TestVerifyTransformRejectsTamperedAccumulator(t *testing.T) {
	params, err := NewParameters(3)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	before := NewIdentityAccumulator(params)
	digest := BlankHash()

	after, pk := contributeOnce(t, before, digest, "tamper entropy")

	var junk fr.Element
	if _, err := junk.SetRandom(); err != nil {
		t.Fatalf("sample junk: %v", err)
	}
	var jac bls12381.G1Jac
	jac.FromAffine(&after.TauG1[2])
	jac.ScalarMultiplication(&jac, junk.BigInt(new(big.Int)))
	after.TauG1[2].FromJacobian(&jac)

	ok, err := VerifyTransform(before, after, pk, digest)
	if err != nil {
		t.Fatalf("VerifyTransform: %v", err)
	}
	if ok {
		t.Fatal("expected verification to fail against a tampered accumulator")
	}
}

func TestVerifyTransformMinimalCeremony(t *testing.T) {
	// N = 0 (M = 1): every accumulator vector has exactly one element, so
	// VerifyTransform's adjacent-pair structural checks have nothing to
	// compare and must be skipped rather than erroring out.
	params, err := NewParameters(0)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	if params.TauLen() != 1 || params.TauG1Len() != 1 {
		t.Fatalf("expected length-1 vectors, got TauLen=%d TauG1Len=%d", params.TauLen(), params.TauG1Len())
	}

	before := NewIdentityAccumulator(params)
	digest := BlankHash()
	after, pk := contributeOnce(t, before, digest, "minimal ceremony entropy")

	ok, err := VerifyTransform(before, after, pk, digest)
	if err != nil {
		t.Fatalf("VerifyTransform: %v", err)
	}
	if !ok {
		t.Fatal("expected the minimal N=0 ceremony to verify")
	}
}

func TestVerifyTransformChain(t *testing.T) {
	params, err := NewParameters(2)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	round0 := NewIdentityAccumulator(params)

	round1, pk1 := contributeOnce(t, round0, BlankHash(), "first participant")
	ok, err := VerifyTransform(round0, round1, pk1, BlankHash())
	if err != nil {
		t.Fatalf("VerifyTransform round 1: %v", err)
	}
	if !ok {
		t.Fatal("expected round 1 to verify against the genesis accumulator")
	}

	digest1 := [64]byte{1, 2, 3}
	round2, pk2 := contributeOnce(t, round1, digest1, "second participant")
	ok, err = VerifyTransform(round1, round2, pk2, digest1)
	if err != nil {
		t.Fatalf("VerifyTransform round 2: %v", err)
	}
	if !ok {
		t.Fatal("expected round 2 to verify against round 1's accumulator")
	}

	// A second participant's public key must not validate against the
	// first participant's transformation.
	ok, err = VerifyTransform(round0, round1, pk2, BlankHash())
	if err != nil {
		t.Fatalf("VerifyTransform cross-check: %v", err)
	}
	if ok {
		t.Fatal("expected the second participant's key to not validate the first transformation")
	}
}
