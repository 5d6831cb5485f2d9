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

package graph

import "github.com/perfecthash/chm/hashmask"

// Assign runs the assignment traversal over every vertex of an acyclic
// graph, producing the final lookup table in g.Assigned. Masker reduces
// edge ids down to index space for the delta computation.
func (g *Graph) Assign(masker *hashmask.Masker) {
	if !g.isAcyclic {
		panic("graph: Assign called on a graph that did not pass IsAcyclic")
	}
	for v := uint32(0); v < g.Dims.V; v++ {
		if g.VisitedVertices.Test(v) {
			continue
		}
		g.Assigned[v] = 0
		g.traverse(v, masker)
	}
}

// stackFrame is one pending neighbor-walk in the explicit work stack
// traverse uses in place of call-stack recursion: worst-case traversal
// depth is O(V), which would otherwise risk blowing the goroutine stack
// on a pathological graph.
type stackFrame struct {
	vertex uint32
	depth  uint64
}

// traverse assigns every vertex reachable from root, breadth of the walk
// bounded only by the graph's own connectivity.
func (g *Graph) traverse(root uint32, masker *hashmask.Masker) {
	stack := []stackFrame{{vertex: root, depth: 0}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		v := frame.vertex
		if g.VisitedVertices.Test(v) {
			continue
		}
		g.VisitedVertices.Mark(v)
		if frame.depth > g.MaxDepth {
			g.MaxDepth = frame.depth
		}

		it := g.Neighbors(v)
		for {
			u, ok := it.Next()
			if !ok {
				break
			}
			if g.VisitedVertices.Test(u) {
				continue
			}
			eid := g.EdgeID(v, u)
			// (eid mod size) + size - assigned[v] lies in [1, 2*size), so
			// the difference never wraps below zero before masking.
			size := uint64(masker.Size())
			delta := masker.MaskHash(uint64(eid)%size + size - uint64(g.Assigned[v]))
			g.Assigned[u] = delta

			collisionIdx := masker.MaskHash(uint64(eid) + uint64(g.Assigned[v]))
			if g.IndexBitmap.Test(collisionIdx) {
				g.Collisions++
			} else {
				g.IndexBitmap.Mark(collisionIdx)
			}

			stack = append(stack, stackFrame{vertex: u, depth: frame.depth + 1})
		}
	}
}
