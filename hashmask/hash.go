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
	"encoding/binary"

	"github.com/dchest/siphash"
)

// Hash computes the two correlated 64-bit outputs a fixed-width u32 key
// hashes to under seeds. The two outputs become the two endpoints of the
// key's hyperedge once masked down to vertex indices.
func Hash(key uint32, seeds Seeds) (lo, hi uint64) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], key)
	return siphash.Hash128(seeds.K0(), seeds.K1(), buf[:])
}
