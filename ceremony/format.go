// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// format.go implements the challenge/response file formats (spec.md §6.1,
// §6.2): a 64-byte hash-chain prefix followed by a length-prefixed
// accumulator, and, for responses, an uncompressed public key.
//
// Unlike the implementation this ceremony is modeled on, which disables
// subgroup validation on read for performance, every point read here is
// validated on deserialization (gnark-crypto's SetBytes/Unmarshal reject
// points off-curve or outside the prime-order subgroup). A malformed
// challenge or response is rejected before it ever reaches a pairing check,
// rather than relying on VerifyTransform to catch it indirectly.
package ceremony

import (
	"encoding/binary"
	"fmt"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

func writeVectorLength(w io.Writer, n int) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	_, err := w.Write(buf[:])
	return err
}

func readVectorLength(r io.Reader) (int, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint64(buf[:])), nil
}

func writeG1Vector(w io.Writer, v []bls12381.G1Affine, compressed bool) error {
	if err := writeVectorLength(w, len(v)); err != nil {
		return err
	}
	for i := range v {
		var b []byte
		if compressed {
			raw := v[i].Bytes()
			b = raw[:]
		} else {
			raw := v[i].RawBytes()
			b = raw[:]
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func writeG2Vector(w io.Writer, v []bls12381.G2Affine, compressed bool) error {
	if err := writeVectorLength(w, len(v)); err != nil {
		return err
	}
	for i := range v {
		var b []byte
		if compressed {
			raw := v[i].Bytes()
			b = raw[:]
		} else {
			raw := v[i].RawBytes()
			b = raw[:]
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func readG1Vector(r io.Reader, compressed bool, expected int) ([]bls12381.G1Affine, error) {
	n, err := readVectorLength(r)
	if err != nil {
		return nil, fmt.Errorf("read G1 vector length: %w", err)
	}
	if n != expected {
		return nil, fmt.Errorf("G1 vector length %d does not match expected %d", n, expected)
	}
	out := make([]bls12381.G1Affine, n)
	for i := 0; i < n; i++ {
		if compressed {
			var buf bls12381.G1Affine
			var raw [bls12381.SizeOfG1AffineCompressed]byte
			if _, err := io.ReadFull(r, raw[:]); err != nil {
				return nil, fmt.Errorf("read G1 point %d: %w", i, err)
			}
			if _, err := buf.SetBytes(raw[:]); err != nil {
				return nil, fmt.Errorf("decode G1 point %d: %w", i, err)
			}
			out[i] = buf
		} else {
			var buf bls12381.G1Affine
			var raw [bls12381.SizeOfG1AffineUncompressed]byte
			if _, err := io.ReadFull(r, raw[:]); err != nil {
				return nil, fmt.Errorf("read G1 point %d: %w", i, err)
			}
			if _, err := buf.SetBytes(raw[:]); err != nil {
				return nil, fmt.Errorf("decode G1 point %d: %w", i, err)
			}
			out[i] = buf
		}
	}
	return out, nil
}

func readG2Vector(r io.Reader, compressed bool, expected int) ([]bls12381.G2Affine, error) {
	n, err := readVectorLength(r)
	if err != nil {
		return nil, fmt.Errorf("read G2 vector length: %w", err)
	}
	if n != expected {
		return nil, fmt.Errorf("G2 vector length %d does not match expected %d", n, expected)
	}
	out := make([]bls12381.G2Affine, n)
	for i := 0; i < n; i++ {
		if compressed {
			var buf bls12381.G2Affine
			var raw [bls12381.SizeOfG2AffineCompressed]byte
			if _, err := io.ReadFull(r, raw[:]); err != nil {
				return nil, fmt.Errorf("read G2 point %d: %w", i, err)
			}
			if _, err := buf.SetBytes(raw[:]); err != nil {
				return nil, fmt.Errorf("decode G2 point %d: %w", i, err)
			}
			out[i] = buf
		} else {
			var buf bls12381.G2Affine
			var raw [bls12381.SizeOfG2AffineUncompressed]byte
			if _, err := io.ReadFull(r, raw[:]); err != nil {
				return nil, fmt.Errorf("read G2 point %d: %w", i, err)
			}
			if _, err := buf.SetBytes(raw[:]); err != nil {
				return nil, fmt.Errorf("decode G2 point %d: %w", i, err)
			}
			out[i] = buf
		}
	}
	return out, nil
}

func writeAccumulator(w io.Writer, acc *Accumulator, compressed bool) error {
	if err := writeG1Vector(w, acc.TauG1, compressed); err != nil {
		return fmt.Errorf("write tau_g1: %w", err)
	}
	if err := writeG2Vector(w, acc.TauG2, compressed); err != nil {
		return fmt.Errorf("write tau_g2: %w", err)
	}
	if err := writeG1Vector(w, acc.AlphaTauG1, compressed); err != nil {
		return fmt.Errorf("write alpha_tau_g1: %w", err)
	}
	if err := writeG1Vector(w, acc.BetaTauG1, compressed); err != nil {
		return fmt.Errorf("write beta_tau_g1: %w", err)
	}
	var b []byte
	if compressed {
		raw := acc.BetaG2.Bytes()
		b = raw[:]
	} else {
		raw := acc.BetaG2.RawBytes()
		b = raw[:]
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write beta_g2: %w", err)
	}
	return nil
}

func readAccumulator(r io.Reader, params Parameters, compressed bool) (*Accumulator, error) {
	tauG1, err := readG1Vector(r, compressed, params.TauG1Len())
	if err != nil {
		return nil, fmt.Errorf("read tau_g1: %w", err)
	}
	tauG2, err := readG2Vector(r, compressed, params.TauLen())
	if err != nil {
		return nil, fmt.Errorf("read tau_g2: %w", err)
	}
	alphaTauG1, err := readG1Vector(r, compressed, params.TauLen())
	if err != nil {
		return nil, fmt.Errorf("read alpha_tau_g1: %w", err)
	}
	betaTauG1, err := readG1Vector(r, compressed, params.TauLen())
	if err != nil {
		return nil, fmt.Errorf("read beta_tau_g1: %w", err)
	}

	var betaG2 bls12381.G2Affine
	if compressed {
		var raw [bls12381.SizeOfG2AffineCompressed]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, fmt.Errorf("read beta_g2: %w", err)
		}
		if _, err := betaG2.SetBytes(raw[:]); err != nil {
			return nil, fmt.Errorf("decode beta_g2: %w", err)
		}
	} else {
		var raw [bls12381.SizeOfG2AffineUncompressed]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, fmt.Errorf("read beta_g2: %w", err)
		}
		if _, err := betaG2.SetBytes(raw[:]); err != nil {
			return nil, fmt.Errorf("decode beta_g2: %w", err)
		}
	}

	return &Accumulator{
		TauG1:      tauG1,
		TauG2:      tauG2,
		AlphaTauG1: alphaTauG1,
		BetaTauG1:  betaTauG1,
		BetaG2:     betaG2,
	}, nil
}

// WriteChallenge writes a challenge file: previousHash followed by the
// uncompressed accumulator.
func WriteChallenge(w io.Writer, previousHash [64]byte, acc *Accumulator) error {
	if _, err := w.Write(previousHash[:]); err != nil {
		return fmt.Errorf("ceremony: write previous hash: %w", err)
	}
	if err := writeAccumulator(w, acc, false); err != nil {
		return fmt.Errorf("ceremony: write challenge accumulator: %w", err)
	}
	return nil
}

// ReadChallenge reads a challenge file produced by WriteChallenge,
// returning the previous-contribution hash and the deserialized
// accumulator. params must match the Parameters the challenge was written with.
func ReadChallenge(r io.Reader, params Parameters) ([64]byte, *Accumulator, error) {
	var previousHash [64]byte
	if _, err := io.ReadFull(r, previousHash[:]); err != nil {
		return previousHash, nil, fmt.Errorf("ceremony: read previous hash: %w", err)
	}
	acc, err := readAccumulator(r, params, false)
	if err != nil {
		return previousHash, nil, fmt.Errorf("ceremony: read challenge accumulator: %w", err)
	}
	return previousHash, acc, nil
}

// WriteResponse writes a response file: inputHash, the compressed
// accumulator, and the uncompressed public key.
func WriteResponse(w io.Writer, inputHash [64]byte, acc *Accumulator, pk *PublicKey) error {
	if _, err := w.Write(inputHash[:]); err != nil {
		return fmt.Errorf("ceremony: write input hash: %w", err)
	}
	if err := writeAccumulator(w, acc, true); err != nil {
		return fmt.Errorf("ceremony: write response accumulator: %w", err)
	}
	if err := writePublicKey(w, pk); err != nil {
		return fmt.Errorf("ceremony: write public key: %w", err)
	}
	return nil
}

// ReadResponse reads a response file produced by WriteResponse.
func ReadResponse(r io.Reader, params Parameters) ([64]byte, *Accumulator, *PublicKey, error) {
	var inputHash [64]byte
	if _, err := io.ReadFull(r, inputHash[:]); err != nil {
		return inputHash, nil, nil, fmt.Errorf("ceremony: read input hash: %w", err)
	}
	acc, err := readAccumulator(r, params, true)
	if err != nil {
		return inputHash, nil, nil, fmt.Errorf("ceremony: read response accumulator: %w", err)
	}
	pk, err := readPublicKey(r)
	if err != nil {
		return inputHash, nil, nil, fmt.Errorf("ceremony: read public key: %w", err)
	}
	return inputHash, acc, pk, nil
}

func writePublicKey(w io.Writer, pk *PublicKey) error {
	points := []bls12381.G1Affine{pk.TauG1[0], pk.TauG1[1], pk.AlphaG1[0], pk.AlphaG1[1], pk.BetaG1[0], pk.BetaG1[1]}
	for i := range points {
		raw := points[i].RawBytes()
		if _, err := w.Write(raw[:]); err != nil {
			return err
		}
	}
	g2points := []bls12381.G2Affine{pk.TauG2, pk.AlphaG2, pk.BetaG2}
	for i := range g2points {
		raw := g2points[i].RawBytes()
		if _, err := w.Write(raw[:]); err != nil {
			return err
		}
	}
	return nil
}

func readPublicKey(r io.Reader) (*PublicKey, error) {
	readG1 := func() (bls12381.G1Affine, error) {
		var p bls12381.G1Affine
		var raw [bls12381.SizeOfG1AffineUncompressed]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return p, err
		}
		_, err := p.SetBytes(raw[:])
		return p, err
	}
	readG2 := func() (bls12381.G2Affine, error) {
		var p bls12381.G2Affine
		var raw [bls12381.SizeOfG2AffineUncompressed]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return p, err
		}
		_, err := p.SetBytes(raw[:])
		return p, err
	}

	pk := &PublicKey{}
	var err error
	if pk.TauG1[0], err = readG1(); err != nil {
		return nil, fmt.Errorf("tau_g1[0]: %w", err)
	}
	if pk.TauG1[1], err = readG1(); err != nil {
		return nil, fmt.Errorf("tau_g1[1]: %w", err)
	}
	if pk.AlphaG1[0], err = readG1(); err != nil {
		return nil, fmt.Errorf("alpha_g1[0]: %w", err)
	}
	if pk.AlphaG1[1], err = readG1(); err != nil {
		return nil, fmt.Errorf("alpha_g1[1]: %w", err)
	}
	if pk.BetaG1[0], err = readG1(); err != nil {
		return nil, fmt.Errorf("beta_g1[0]: %w", err)
	}
	if pk.BetaG1[1], err = readG1(); err != nil {
		return nil, fmt.Errorf("beta_g1[1]: %w", err)
	}
	if pk.TauG2, err = readG2(); err != nil {
		return nil, fmt.Errorf("tau_g2: %w", err)
	}
	if pk.AlphaG2, err = readG2(); err != nil {
		return nil, fmt.Errorf("alpha_g2: %w", err)
	}
	if pk.BetaG2, err = readG2(); err != nil {
		return nil, fmt.Errorf("beta_g2: %w", err)
	}
	return pk, nil
}
