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

package bitmap

import "testing"

func TestMarkClearTest(t *testing.T) {
	s := New(8)
	if s.Test(0) {
		t.Fatal("expected index 0 clear on fresh set")
	}
	s.Mark(0)
	s.Mark(7)
	if !s.Test(0) || !s.Test(7) {
		t.Fatal("expected marked indices to test true")
	}
	if s.Test(1) {
		t.Fatal("expected untouched index to test false")
	}
	if got := s.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
	s.Clear(0)
	if s.Test(0) {
		t.Fatal("expected cleared index to test false")
	}
}

func TestClearAll(t *testing.T) {
	s := New(16)
	for i := uint32(0); i < 16; i++ {
		s.Mark(i)
	}
	if got := s.Count(); got != 16 {
		t.Fatalf("Count() = %d, want 16", got)
	}
	s.ClearAll()
	if got := s.Count(); got != 0 {
		t.Fatalf("Count() after ClearAll() = %d, want 0", got)
	}
}

func TestZeroMeansAbsent(t *testing.T) {
	// Index 0 must not collide with the "no neighbor" sentinel used
	// elsewhere as a raw zero word; exercising index 0 explicitly
	// catches an off-by-one in the internal translation.
	s := New(4)
	for i := uint32(0); i < 4; i++ {
		if s.Test(i) {
			t.Fatalf("index %d unexpectedly set on fresh set", i)
		}
	}
}
