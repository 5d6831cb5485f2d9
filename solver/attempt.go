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
	"github.com/perfecthash/chm/graph"
	"github.com/perfecthash/chm/hashmask"
)

// pollInterval is how many keys an attempt hashes before checking
// whether some other attempt has already won.
const pollInterval = 1024

// attemptResult names how one attempt ended.
type attemptResult int

const (
	attemptFailed attemptResult = iota
	attemptWon
	attemptAlreadyWon
)

// Maskers bundles the two Masker instances one attempt needs: Hash
// reduces a key's raw hash down into vertex space (size V) to pick the
// two endpoints of its hyperedge; Index reduces edge ids and partial
// sums down into index space (size E) for the assignment traversal and
// the final lookup.
type Maskers struct {
	Hash  *hashmask.Masker
	Index *hashmask.Masker
}

// runAttempt hashes every key into g, peels for acyclicity, and — if it
// wins the race to be the first acyclic attempt — runs assignment and
// pushes g onto ctx's finished stack.
func runAttempt(ctx *Context, g *graph.Graph, keys []uint32, m Maskers) attemptResult {
	for i, key := range keys {
		if i > 0 && i%pollInterval == 0 && ctx.FinishedCount() != 0 {
			return attemptFailed
		}
		lo, hi := hashmask.Hash(key, g.Seeds)
		v1 := m.Hash.MaskHash(lo)
		v2 := m.Hash.MaskHash(hi)
		if v1 == v2 {
			return attemptFailed
		}
		g.AddEdge(uint32(i), v1, v2)
	}

	if !g.IsAcyclic() {
		ctx.RecordDeleted(g.DeletedCount)
		return attemptFailed
	}

	if !ctx.ClaimWin() {
		return attemptAlreadyWon
	}

	g.Assign(m.Index)
	ctx.pushFinished(g)
	return attemptWon
}
