// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// verify.go implements VerifyTransform, the check tying a response's
// accumulator and public key back to the challenge it responds to (see
// original_source/src/main.rs's verify_transform).
package ceremony

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// VerifyTransform reports whether after was correctly derived from before by
// applying the contribution proven by key, given digest, the BLAKE2b-512
// hash of the challenge file before was read from. It never returns an
// error for a failed proof; a non-nil error only signals a structural
// problem (e.g. mismatched accumulator lengths) that made verification
// impossible to perform at all.
func VerifyTransform(before, after *Accumulator, key *PublicKey, digest [64]byte) (bool, error) {
	if len(before.TauG1) != len(after.TauG1) || len(before.TauG2) != len(after.TauG2) ||
		len(before.AlphaTauG1) != len(after.AlphaTauG1) || len(before.BetaTauG1) != len(after.BetaTauG1) {
		return false, fmt.Errorf("ceremony: before/after accumulator shapes differ")
	}
	if len(after.TauG1) == 0 || len(after.TauG2) == 0 {
		return false, fmt.Errorf("ceremony: accumulator vectors must be non-empty")
	}

	// PublicKey components must never be the identity: an identity blinding
	// point or proof component would let any secret satisfy the pairing
	// checks below, silently defeating the proof of knowledge.
	if key.TauG1[0].IsInfinity() || key.AlphaG1[0].IsInfinity() || key.BetaG1[0].IsInfinity() ||
		key.TauG1[1].IsInfinity() || key.AlphaG1[1].IsInfinity() || key.BetaG1[1].IsInfinity() ||
		key.TauG2.IsInfinity() || key.AlphaG2.IsInfinity() || key.BetaG2.IsInfinity() {
		return false, nil
	}

	tauG2S, err := computeG2S(digest, key.TauG1[0], key.TauG1[1], personalizationTau)
	if err != nil {
		return false, fmt.Errorf("ceremony: recompute tau transcript point: %w", err)
	}
	alphaG2S, err := computeG2S(digest, key.AlphaG1[0], key.AlphaG1[1], personalizationAlpha)
	if err != nil {
		return false, fmt.Errorf("ceremony: recompute alpha transcript point: %w", err)
	}
	betaG2S, err := computeG2S(digest, key.BetaG1[0], key.BetaG1[1], personalizationBeta)
	if err != nil {
		return false, fmt.Errorf("ceremony: recompute beta transcript point: %w", err)
	}

	// Proofs of knowledge for tau, alpha, beta.
	if !SameRatio(key.TauG1[0], key.TauG1[1], tauG2S, key.TauG2) {
		return false, nil
	}
	if !SameRatio(key.AlphaG1[0], key.AlphaG1[1], alphaG2S, key.AlphaG2) {
		return false, nil
	}
	if !SameRatio(key.BetaG1[0], key.BetaG1[1], betaG2S, key.BetaG2) {
		return false, nil
	}

	// The generator slots must never drift.
	_, _, g1gen, g2gen := bls12381.Generators()
	if !after.TauG1[0].Equal(&g1gen) {
		return false, nil
	}
	if !after.TauG2[0].Equal(&g2gen) {
		return false, nil
	}

	// Did the participant apply tau/alpha/beta consistently between the
	// before and after accumulators? tau_g1[1] only exists when TauG1Len
	// >= 2, i.e. M >= 2; at M = 1 (TauG1Len = 1) there is no second slot to
	// compare, and this check is left to the tau proof of knowledge above.
	if len(after.TauG1) >= 2 {
		if !SameRatio(before.TauG1[1], after.TauG1[1], tauG2S, key.TauG2) {
			return false, nil
		}
	}
	if !SameRatio(before.AlphaTauG1[0], after.AlphaTauG1[0], alphaG2S, key.AlphaG2) {
		return false, nil
	}
	if !SameRatio(before.BetaTauG1[0], after.BetaTauG1[0], betaG2S, key.BetaG2) {
		return false, nil
	}
	if !SameRatio(before.BetaTauG1[0], after.BetaTauG1[0], before.BetaG2, after.BetaG2) {
		return false, nil
	}

	// Are the powers of tau/alpha/beta in after internally consistent,
	// i.e. do they actually form geometric progressions in tau? When
	// TauLen is 1 there is only a single power to check (tau^0), so the
	// adjacent-pair structural checks have nothing to compare and are
	// skipped; the single-power case is covered entirely by the checks
	// above.
	if len(after.TauG1) >= 2 {
		s1, sx1, err := PowerPairsG1(after.TauG1)
		if err != nil {
			return false, fmt.Errorf("ceremony: power_pairs(tau_g1): %w", err)
		}
		if len(after.TauG2) < 2 {
			return false, fmt.Errorf("ceremony: tau_g2 too short to check tau_g1 structure")
		}
		if !SameRatio(s1, sx1, after.TauG2[0], after.TauG2[1]) {
			return false, nil
		}
	}
	if len(after.TauG2) >= 2 {
		s2, sx2, err := PowerPairsG2(after.TauG2)
		if err != nil {
			return false, fmt.Errorf("ceremony: power_pairs(tau_g2): %w", err)
		}
		if !SameRatio(after.TauG1[0], after.TauG1[1], s2, sx2) {
			return false, nil
		}
	}
	if len(after.AlphaTauG1) >= 2 && len(after.TauG2) >= 2 {
		s3, sx3, err := PowerPairsG1(after.AlphaTauG1)
		if err != nil {
			return false, fmt.Errorf("ceremony: power_pairs(alpha_tau_g1): %w", err)
		}
		if !SameRatio(s3, sx3, after.TauG2[0], after.TauG2[1]) {
			return false, nil
		}
	}
	if len(after.BetaTauG1) >= 2 && len(after.TauG2) >= 2 {
		s4, sx4, err := PowerPairsG1(after.BetaTauG1)
		if err != nil {
			return false, fmt.Errorf("ceremony: power_pairs(beta_tau_g1): %w", err)
		}
		if !SameRatio(s4, sx4, after.TauG2[0], after.TauG2[1]) {
			return false, nil
		}
	}

	return true, nil
}
