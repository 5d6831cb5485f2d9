// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package hashmask

import (
	"bytes"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	seeds := Seeds{1, 2, 3, 4}
	lo1, hi1 := Hash(42, seeds)
	lo2, hi2 := Hash(42, seeds)
	if lo1 != lo2 || hi1 != hi2 {
		t.Fatal("Hash is not deterministic for the same (key, seeds)")
	}
}

func TestHashVariesWithSeeds(t *testing.T) {
	lo1, hi1 := Hash(42, Seeds{1, 2, 3, 4})
	lo2, hi2 := Hash(42, Seeds{5, 6, 7, 8})
	if lo1 == lo2 && hi1 == hi2 {
		t.Fatal("expected different seeds to (almost certainly) change the hash")
	}
}

func TestNewSeedsFillsAllWords(t *testing.T) {
	s, err := NewSeeds(bytes.NewReader([]byte{
		1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if s != (Seeds{1, 2, 3, 4}) {
		t.Fatalf("NewSeeds = %v, want {1,2,3,4}", s)
	}
}

func TestDeriveSeedsDiffersByAttempt(t *testing.T) {
	a := DeriveSeeds(0xabc, 0)
	b := DeriveSeeds(0xabc, 1)
	if a == b {
		t.Fatal("expected distinct attempts to derive distinct seed quartets")
	}
}

func TestDeriveSeedsDeterministic(t *testing.T) {
	a := DeriveSeeds(7, 3)
	b := DeriveSeeds(7, 3)
	if a != b {
		t.Fatal("expected DeriveSeeds to be a pure function of (salt, attempt)")
	}
}

func TestMaskHashInRange(t *testing.T) {
	for _, fn := range []Function{Modulus, And, FoldOnce, FoldTwice, FoldThrice, Auto} {
		size := uint32(1024)
		if fn == Modulus {
			size = 1000 // exercise a non-power-of-two size for Modulus
		}
		m := NewMasker(fn, size)
		for _, h := range []uint64{0, 1, ^uint64(0), 0x0123456789abcdef} {
			got := m.MaskHash(h)
			if got >= m.Size() {
				t.Fatalf("fn=%v MaskHash(%#x) = %d, out of [0,%d)", fn, h, got, m.Size())
			}
		}
	}
}

func TestAutoResolvesToConcreteFunction(t *testing.T) {
	m := NewMasker(Auto, 256)
	if m.Function() == Auto {
		t.Fatal("expected Auto to resolve to a concrete masking function")
	}
}

func TestAutoFallsBackForNonPowerOfTwo(t *testing.T) {
	m := NewMasker(Auto, 1000)
	if m.Function() != Modulus {
		t.Fatalf("expected non-power-of-two size to resolve to Modulus, got %v", m.Function())
	}
}
