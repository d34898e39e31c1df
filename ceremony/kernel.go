// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// kernel.go implements the pairing-ratio kernel: same_ratio, merge_pairs and
// power_pairs from the powers-of-tau ceremony this implementation is modeled
// on (see original_source/src/main.rs). Unlike that Rust implementation,
// which is generic over a single SWCurveConfig, this kernel is monomorphic
// per group (G1Affine vs G2Affine) since merge_pairs/power_pairs are only
// ever called within one group at a time; the teacher repo this is built on
// is itself monomorphic to BLS12-381 throughout, never reaching for generics.
package ceremony

import (
	"fmt"
	"math/big"
	"runtime"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// SameRatio returns true iff e(a1, b2) == e(b1, a2), i.e. iff there exists
// a scalar x with b1 = x*a1 and b2 = x*a2. It fails softly: a malformed
// pairing input returns false rather than propagating an error, per
// spec.md §4.1 and §7 (cryptographic checks never raise).
func SameRatio(a1, b1 bls12381.G1Affine, a2, b2 bls12381.G2Affine) bool {
	lhs, err := bls12381.Pair([]bls12381.G1Affine{a1}, []bls12381.G2Affine{b2})
	if err != nil {
		return false
	}
	rhs, err := bls12381.Pair([]bls12381.G1Affine{b1}, []bls12381.G2Affine{a2})
	if err != nil {
		return false
	}
	return lhs.Equal(&rhs)
}

// workerCount returns the fixed-size worker pool used by every compute-heavy
// routine in this package, sized to the machine's CPU count per spec.md §5.
func workerCount() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

// MergePairsG1 computes a random linear combination (sum r_i*v1_i, sum
// r_i*v2_i) over two equal-length G1 vectors, collapsing n same-ratio
// checks into one at the cost of a 1/|F| false-accept probability per bad
// index. Work is partitioned into worker-sized chunks; each worker
// accumulates its own Jacobian running sum, and only the final fold into
// the shared sum is taken under a lock (spec.md §5: the critical section
// must never span a scalar multiplication).
func MergePairsG1(v1, v2 []bls12381.G1Affine) (bls12381.G1Affine, bls12381.G1Affine, error) {
	if len(v1) != len(v2) {
		return bls12381.G1Affine{}, bls12381.G1Affine{}, fmt.Errorf("ceremony: merge_pairs length mismatch: %d vs %d", len(v1), len(v2))
	}
	if len(v1) == 0 {
		return bls12381.G1Affine{}, bls12381.G1Affine{}, fmt.Errorf("ceremony: merge_pairs requires at least one element")
	}

	n := len(v1)
	workers := workerCount()
	chunkSize := (n + workers - 1) / workers

	var mu sync.Mutex
	var sumS, sumSX bls12381.G1Jac
	var wg sync.WaitGroup
	var firstErr error

	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(v1c, v2c []bls12381.G1Affine) {
			defer wg.Done()
			var localS, localSX bls12381.G1Jac
			for i := range v1c {
				var rho fr.Element
				if _, err := rho.SetRandom(); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("ceremony: sample merge_pairs randomizer: %w", err)
					}
					mu.Unlock()
					return
				}
				rhoBig := rho.BigInt(new(big.Int))

				var p1, p2 bls12381.G1Jac
				p1.FromAffine(&v1c[i])
				p1.ScalarMultiplication(&p1, rhoBig)
				localS.AddAssign(&p1)

				p2.FromAffine(&v2c[i])
				p2.ScalarMultiplication(&p2, rhoBig)
				localSX.AddAssign(&p2)
			}

			mu.Lock()
			sumS.AddAssign(&localS)
			sumSX.AddAssign(&localSX)
			mu.Unlock()
		}(v1[start:end], v2[start:end])
	}
	wg.Wait()

	if firstErr != nil {
		return bls12381.G1Affine{}, bls12381.G1Affine{}, firstErr
	}

	var s, sx bls12381.G1Affine
	s.FromJacobian(&sumS)
	sx.FromJacobian(&sumSX)
	return s, sx, nil
}

// PowerPairsG1 asserts that v is a geometric progression (v[i+1] = x*v[i]
// for a fixed x) by collapsing adjacent-element same-ratio checks via
// MergePairsG1 on v[0:n-1] and v[1:n].
func PowerPairsG1(v []bls12381.G1Affine) (bls12381.G1Affine, bls12381.G1Affine, error) {
	if len(v) < 2 {
		return bls12381.G1Affine{}, bls12381.G1Affine{}, fmt.Errorf("ceremony: power_pairs requires at least 2 elements, got %d", len(v))
	}
	return MergePairsG1(v[:len(v)-1], v[1:])
}

// MergePairsG2 is MergePairsG1's twin over G2.
func MergePairsG2(v1, v2 []bls12381.G2Affine) (bls12381.G2Affine, bls12381.G2Affine, error) {
	if len(v1) != len(v2) {
		return bls12381.G2Affine{}, bls12381.G2Affine{}, fmt.Errorf("ceremony: merge_pairs length mismatch: %d vs %d", len(v1), len(v2))
	}
	if len(v1) == 0 {
		return bls12381.G2Affine{}, bls12381.G2Affine{}, fmt.Errorf("ceremony: merge_pairs requires at least one element")
	}

	n := len(v1)
	workers := workerCount()
	chunkSize := (n + workers - 1) / workers

	var mu sync.Mutex
	var sumS, sumSX bls12381.G2Jac
	var wg sync.WaitGroup
	var firstErr error

	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(v1c, v2c []bls12381.G2Affine) {
			defer wg.Done()
			var localS, localSX bls12381.G2Jac
			for i := range v1c {
				var rho fr.Element
				if _, err := rho.SetRandom(); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("ceremony: sample merge_pairs randomizer: %w", err)
					}
					mu.Unlock()
					return
				}
				rhoBig := rho.BigInt(new(big.Int))

				var p1, p2 bls12381.G2Jac
				p1.FromAffine(&v1c[i])
				p1.ScalarMultiplication(&p1, rhoBig)
				localS.AddAssign(&p1)

				p2.FromAffine(&v2c[i])
				p2.ScalarMultiplication(&p2, rhoBig)
				localSX.AddAssign(&p2)
			}

			mu.Lock()
			sumS.AddAssign(&localS)
			sumSX.AddAssign(&localSX)
			mu.Unlock()
		}(v1[start:end], v2[start:end])
	}
	wg.Wait()

	if firstErr != nil {
		return bls12381.G2Affine{}, bls12381.G2Affine{}, firstErr
	}

	var s, sx bls12381.G2Affine
	s.FromJacobian(&sumS)
	sx.FromJacobian(&sumSX)
	return s, sx, nil
}

// PowerPairsG2 is PowerPairsG1's twin over G2.
func PowerPairsG2(v []bls12381.G2Affine) (bls12381.G2Affine, bls12381.G2Affine, error) {
	if len(v) < 2 {
		return bls12381.G2Affine{}, bls12381.G2Affine{}, fmt.Errorf("ceremony: power_pairs requires at least 2 elements, got %d", len(v))
	}
	return MergePairsG2(v[:len(v)-1], v[1:])
}
