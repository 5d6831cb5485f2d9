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

package solver

import (
	"math/bits"

	"github.com/perfecthash/chm/graph"
	"github.com/perfecthash/chm/hashmask"
)

// nextPowerOfTwo returns the smallest power of two >= n (n > 0).
func nextPowerOfTwo(n uint32) uint32 {
	if n&(n-1) == 0 {
		return n
	}
	return uint32(1) << bits.Len32(n)
}

// initialDims derives a starting graph size from the key count n and the
// chosen mask function: And/fold strategies need a power-of-two edge
// count, and modulus masking uses a looser 2.25x vertex/edge ratio that
// needs no such rounding.
func initialDims(n uint32, fn hashmask.Function, requestedV uint32) graph.Dims {
	e := n
	if fn == hashmask.And || fn == hashmask.FoldOnce || fn == hashmask.FoldTwice || fn == hashmask.FoldThrice || fn == hashmask.Auto {
		e = nextPowerOfTwo(n)
	}

	v := requestedV
	if v == 0 {
		if fn == hashmask.Modulus {
			v = uint32((float64(e) * 2.25) + 1)
		} else {
			v = nextPowerOfTwo(e + 1)
		}
	}
	if v < e+1 {
		v = e + 1
	}
	return graph.Dims{V: v, E: e}
}

// doubled returns dims with V doubled, or dims unchanged and false when
// the doubled V would not fit in a uint32, so the caller can treat the
// overflow as fatal.
func doubled(dims graph.Dims) (graph.Dims, bool) {
	if dims.V > (1<<32-1)/2 {
		return dims, false
	}
	return graph.Dims{V: dims.V * 2, E: dims.E}, true
}
