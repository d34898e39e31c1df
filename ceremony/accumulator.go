// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// accumulator.go implements the Accumulator data model and its Transform
// operation: the core powers-of-tau construction (see
// original_source/src/main.rs's Accumulator::new/transform/batch_exp).
package ceremony

import (
	"fmt"
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Accumulator holds the five vectors/elements that make up a single round's
// powers-of-tau state: tau_g1 (length 2M-1), tau_g2/alpha_tau_g1/beta_tau_g1
// (length M), and beta_g2 (a single element).
type Accumulator struct {
	TauG1      []bls12381.G1Affine
	TauG2      []bls12381.G2Affine
	AlphaTauG1 []bls12381.G1Affine
	BetaTauG1  []bls12381.G1Affine
	BetaG2     bls12381.G2Affine
}

// NewIdentityAccumulator builds the starting accumulator for params: every
// slot in every vector is the group generator, as if tau = alpha = beta = 1.
func NewIdentityAccumulator(params Parameters) *Accumulator {
	_, _, g1gen, g2gen := bls12381.Generators()

	acc := &Accumulator{
		TauG1:      make([]bls12381.G1Affine, params.TauG1Len()),
		TauG2:      make([]bls12381.G2Affine, params.TauLen()),
		AlphaTauG1: make([]bls12381.G1Affine, params.TauLen()),
		BetaTauG1:  make([]bls12381.G1Affine, params.TauLen()),
		BetaG2:     g2gen,
	}
	for i := range acc.TauG1 {
		acc.TauG1[i] = g1gen
	}
	for i := range acc.TauG2 {
		acc.TauG2[i] = g2gen
		acc.AlphaTauG1[i] = g1gen
		acc.BetaTauG1[i] = g1gen
	}
	return acc
}

// powersOf returns [1, x, x^2, ..., x^(n-1)] as field elements, computed by
// a worker pool: each worker derives its chunk's starting power by a single
// exponentiation, then fills the rest of its chunk by repeated
// multiplication, avoiding n-1 serial multiplications on one goroutine.
func powersOf(x fr.Element, n int) []fr.Element {
	out := make([]fr.Element, n)
	if n == 0 {
		return out
	}
	out[0].SetOne()
	if n == 1 {
		return out
	}

	workers := workerCount()
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			var cur fr.Element
			if start == 0 {
				cur.SetOne()
			} else {
				cur.Exp(x, big.NewInt(int64(start)))
			}
			out[start] = cur
			for i := start + 1; i < end; i++ {
				cur.Mul(&cur, &x)
				out[i] = cur
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// batchExpG1 computes base[i]^exponents[i] (additively, scalar[i]*base[i])
// for every i, split across a worker pool. len(exponents) must equal
// len(base); the result overwrites base in place, matching the original's
// in-place batch_exp.
func batchExpG1(base []bls12381.G1Affine, exponents []fr.Element) error {
	if len(base) != len(exponents) {
		return fmt.Errorf("ceremony: batch_exp length mismatch: %d bases vs %d exponents", len(base), len(exponents))
	}
	n := len(base)
	if n == 0 {
		return nil
	}

	workers := workerCount()
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				var jac bls12381.G1Jac
				jac.FromAffine(&base[i])
				jac.ScalarMultiplication(&jac, exponents[i].BigInt(new(big.Int)))
				base[i].FromJacobian(&jac)
			}
		}(start, end)
	}
	wg.Wait()
	return nil
}

// batchExpG2 is batchExpG1's twin over G2.
func batchExpG2(base []bls12381.G2Affine, exponents []fr.Element) error {
	if len(base) != len(exponents) {
		return fmt.Errorf("ceremony: batch_exp length mismatch: %d bases vs %d exponents", len(base), len(exponents))
	}
	n := len(base)
	if n == 0 {
		return nil
	}

	workers := workerCount()
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				var jac bls12381.G2Jac
				jac.FromAffine(&base[i])
				jac.ScalarMultiplication(&jac, exponents[i].BigInt(new(big.Int)))
				base[i].FromJacobian(&jac)
			}
		}(start, end)
	}
	wg.Wait()
	return nil
}

// Transform folds sk's tau/alpha/beta scalars into every slot of acc,
// in place. It is the single operation a participant applies to move the
// ceremony from one round to the next:
//
//	tau_g1[i]       *= tau^i
//	tau_g2[i]       *= tau^i
//	alpha_tau_g1[i] *= alpha * tau^i
//	beta_tau_g1[i]  *= beta * tau^i
//	beta_g2         *= beta
func (acc *Accumulator) Transform(sk *PrivateKey) error {
	g1Len := len(acc.TauG1)
	taupowG1 := powersOf(sk.Tau, g1Len)

	taupow := taupowG1
	if g1Len != len(acc.TauG2) {
		taupow = powersOf(sk.Tau, len(acc.TauG2))
	}

	alphaTaupow := make([]fr.Element, len(taupow))
	betaTaupow := make([]fr.Element, len(taupow))
	for i := range taupow {
		alphaTaupow[i].Mul(&taupow[i], &sk.Alpha)
		betaTaupow[i].Mul(&taupow[i], &sk.Beta)
	}

	if err := batchExpG1(acc.TauG1, taupowG1); err != nil {
		return fmt.Errorf("ceremony: transform tau_g1: %w", err)
	}
	if err := batchExpG2(acc.TauG2, taupow); err != nil {
		return fmt.Errorf("ceremony: transform tau_g2: %w", err)
	}
	if err := batchExpG1(acc.AlphaTauG1, alphaTaupow); err != nil {
		return fmt.Errorf("ceremony: transform alpha_tau_g1: %w", err)
	}
	if err := batchExpG1(acc.BetaTauG1, betaTaupow); err != nil {
		return fmt.Errorf("ceremony: transform beta_tau_g1: %w", err)
	}

	var betaG2Jac bls12381.G2Jac
	betaG2Jac.FromAffine(&acc.BetaG2)
	betaG2Jac.ScalarMultiplication(&betaG2Jac, sk.Beta.BigInt(new(big.Int)))
	acc.BetaG2.FromJacobian(&betaG2Jac)

	return nil
}
