// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package ceremony

import "testing"

func TestSizesMatchClosedForm(t *testing.T) {
	params, err := NewParameters(4)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	s := NewSizes(params)

	wantAccumulator := params.TauG1Len()*g1UncompressedSize +
		params.TauLen()*(g2UncompressedSize+2*g1UncompressedSize) +
		g2UncompressedSize + lengthPrefixesSize + hashPrefixSize
	if got := s.AccumulatorOnDiskBytes(); got != wantAccumulator {
		t.Errorf("AccumulatorOnDiskBytes() = %d, want %d", got, wantAccumulator)
	}

	wantPublicKey := 6*g1UncompressedSize + 3*g2UncompressedSize
	if got := s.PublicKeySize(); got != wantPublicKey {
		t.Errorf("PublicKeySize() = %d, want %d", got, wantPublicKey)
	}

	wantContribution := params.TauG1Len()*g1CompressedSize +
		params.TauLen()*(g2CompressedSize+2*g1CompressedSize) +
		g2CompressedSize + lengthPrefixesSize + hashPrefixSize + wantPublicKey
	if got := s.ContributionOnDiskBytes(); got != wantContribution {
		t.Errorf("ContributionOnDiskBytes() = %d, want %d", got, wantContribution)
	}
}
