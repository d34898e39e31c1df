// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package ceremony

import "testing"

func TestParametersLengths(t *testing.T) {
	cases := []struct {
		n            uint
		wantM        int
		wantTauLen   int
		wantTauG1Len int
	}{
		{n: 0, wantM: 1, wantTauLen: 1, wantTauG1Len: 1},
		{n: 1, wantM: 2, wantTauLen: 2, wantTauG1Len: 3},
		{n: 3, wantM: 8, wantTauLen: 8, wantTauG1Len: 15},
	}

	for _, c := range cases {
		p, err := NewParameters(c.n)
		if err != nil {
			t.Fatalf("NewParameters(%d): %v", c.n, err)
		}
		if got := p.M(); got != c.wantM {
			t.Errorf("N=%d: M() = %d, want %d", c.n, got, c.wantM)
		}
		if got := p.TauLen(); got != c.wantTauLen {
			t.Errorf("N=%d: TauLen() = %d, want %d", c.n, got, c.wantTauLen)
		}
		if got := p.TauG1Len(); got != c.wantTauG1Len {
			t.Errorf("N=%d: TauG1Len() = %d, want %d", c.n, got, c.wantTauG1Len)
		}
	}
}
