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

// Package bitmap wraps a resizable bit vector for the one-based index
// convention the graph solver uses throughout: bit i+1 tracks vertex or
// edge i, so a zero word can mean "nothing here" without a separate
// sentinel.
package bitmap

import "github.com/bits-and-blooms/bitset"

// Set is a one-based bit vector: Mark/Clear/Test take a zero-based index
// and translate it internally, so callers never have to remember the
// offset-by-one convention.
type Set struct {
	bits *bitset.BitSet
}

// New allocates a Set able to address indices [0, n).
func New(n uint) *Set {
	return &Set{bits: bitset.New(n + 1)}
}

// Mark sets the bit for index i.
func (s *Set) Mark(i uint32) {
	s.bits.Set(uint(i) + 1)
}

// Clear clears the bit for index i.
func (s *Set) Clear(i uint32) {
	s.bits.Clear(uint(i) + 1)
}

// Test reports whether the bit for index i is set.
func (s *Set) Test(i uint32) bool {
	return s.bits.Test(uint(i) + 1)
}

// Count returns the number of set bits.
func (s *Set) Count() uint {
	return s.bits.Count()
}

// ClearAll resets every bit without reallocating the backing storage.
func (s *Set) ClearAll() {
	s.bits.ClearAll()
}

// Len returns the number of indices this Set can address.
func (s *Set) Len() uint {
	if s.bits.Len() == 0 {
		return 0
	}
	return s.bits.Len() - 1
}
