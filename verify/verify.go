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

// Package verify re-hashes every input key through a solved table and
// confirms no two keys land on the same index, the authoritative gate a
// build must pass before its table is trusted.
package verify

import (
	"errors"
	"fmt"

	"github.com/perfecthash/chm/bitmap"
	"github.com/perfecthash/chm/hashmask"
)

// ErrCollision is returned (wrapped, naming both keys and the index)
// when two distinct keys map to the same index; this is a fatal bug in the hash/mask composition, not a
// recoverable build failure.
var ErrCollision = errors.New("verify: two keys collided on the same index")

// Report is the outcome of a successful Verify: for diagnostics, the
// keys are available in index order.
type Report struct {
	// Values holds the key that claimed each index in [0, indexSize).
	Values []uint32
}

// Verify hashes every key in keys through assigned (indexed by maskHash
// into vertex space) and confirms the resulting indices are pairwise
// distinct. assigned has one entry per vertex (length = hashMasker's
// size); the returned Report's Values has indexMasker's size entries.
func Verify(keys []uint32, assigned []uint32, hashMasker, indexMasker *hashmask.Masker, seeds hashmask.Seeds) (*Report, error) {
	indexSize := indexMasker.Size()
	seen := bitmap.New(uint(indexSize))
	values := make([]uint32, indexSize)

	for _, key := range keys {
		lo, hi := hashmask.Hash(key, seeds)
		v1 := hashMasker.MaskHash(lo)
		v2 := hashMasker.MaskHash(hi)
		idx := indexMasker.MaskHash(uint64(assigned[v1]) + uint64(assigned[v2]))

		if seen.Test(idx) {
			return nil, fmt.Errorf("%w: key %#x and earlier key %#x both map to index %d", ErrCollision, key, values[idx], idx)
		}
		seen.Mark(idx)
		values[idx] = key
	}

	if seen.Count() != uint(len(keys)) {
		return nil, ErrCollision
	}

	return &Report{Values: values}, nil
}
