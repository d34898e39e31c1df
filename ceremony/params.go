// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// params.go
package ceremony

// Parameters fixes the size of a single ceremony. N is the log2 of the
// number of supported multiplication gates; every accumulator and public
// key produced under a given Parameters value is only compatible with
// accumulators produced under the same value.
//
// The original implementation this ceremony is modeled on hardcodes
// TAU_POWERS_LENGTH = 1 << 5 as a package constant while its own docstring
// promises 2^21; here N is a constructor argument instead, so a production
// ceremony and its test suite can each pick the N they need without
// touching the implementation.
//
// N = 0 (M = 1) is the smallest legal ceremony: every accumulator vector
// has exactly one element, so the adjacent-pair structural checks in
// VerifyTransform have nothing to compare and are skipped.
type Parameters struct {
	n uint
}

// NewParameters constructs Parameters for a ceremony supporting 2^n
// multiplication gates.
func NewParameters(n uint) (Parameters, error) {
	return Parameters{n: n}, nil
}

// N returns the configured log2 circuit size.
func (p Parameters) N() uint {
	return p.n
}

// M returns 2^N, the number of supported multiplication gates.
func (p Parameters) M() int {
	return 1 << p.n
}

// TauLen returns the length of the tau_g2, alpha_tau_g1 and beta_tau_g1
// vectors.
func (p Parameters) TauLen() int {
	return p.M()
}

// TauG1Len returns the length of the tau_g1 vector: 2*M - 1, enough to
// support the Groth16 H-polynomial query terms tau^i*(tau^M - 1).
func (p Parameters) TauG1Len() int {
	return 2*p.M() - 1
}
