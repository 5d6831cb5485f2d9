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

// AddEdge inserts edge e between v1 and v2, storing it at slot e for the
// v1->v2 direction and at slot e+E for the v2->v1 direction. Each slot is
// pushed onto the head of its owning vertex's incidence list.
func (g *Graph) AddEdge(e, v1, v2 uint32) {
	if g.shrinking {
		panic("graph: AddEdge called after peeling has started")
	}
	e2 := e + g.Dims.E

	g.insertSlot(e, v1, v2)
	g.insertSlot(e2, v2, v1)
}

// insertSlot links slot into owner's incidence list, recording other as
// the edge's far endpoint.
func (g *Graph) insertSlot(slot, owner, other uint32) {
	head := g.first[owner]
	if head != Empty {
		g.prev[head] = slot
	}
	g.next[slot] = head
	g.prev[slot] = Empty
	g.edges[slot] = other
	g.first[owner] = slot
}

// unlinkSlot removes slot from its incidence list. DeleteEdge is the only
// caller; CyclicDeleteEdge marks edges deleted in a bitmap instead of
// unlinking them so FindDegree1Edge's walk cost stays proportional to the
// original degree.
func (g *Graph) unlinkSlot(slot uint32) {
	p, n := g.prev[slot], g.next[slot]
	if p != Empty {
		g.next[p] = n
	} else if owner := g.edges[g.mirror(slot)]; g.first[owner] == slot {
		// slot heads its owner's list; the mirror slot stores the owner.
		g.first[owner] = n
	}
	if n != Empty {
		g.prev[n] = p
	}
}

// DeleteEdge removes edge e (both its slots, e and e+E) from their
// incidence lists.
func (g *Graph) DeleteEdge(e uint32) {
	g.unlinkSlot(e)
	g.unlinkSlot(e + g.Dims.E)
}

// canon maps a slot index back to its canonical edge id in [0, E).
func (g *Graph) canon(slot uint32) uint32 {
	if slot >= g.Dims.E {
		return slot - g.Dims.E
	}
	return slot
}

// FindDegree1Edge walks v's incidence list and reports whether exactly
// one live (not yet deleted) edge remains. Deleted edges are skipped
// without being unlinked, so the walk cost is proportional to the
// original degree, not the live degree. The raw slot (not the
// canonicalized edge id) is returned: CyclicDeleteEdge needs the slot
// as seen from v's own incidence list to find the correct far
// endpoint, and canonicalizing here would discard that direction.
func (g *Graph) FindDegree1Edge(v uint32) (slot uint32, found bool) {
	count := 0
	var live uint32
	for s := g.first[v]; s != Empty; s = g.next[s] {
		if g.DeletedEdges.Test(g.canon(s)) {
			continue
		}
		count++
		if count > 1 {
			return 0, false
		}
		live = s
	}
	if count != 1 {
		return 0, false
	}
	return live, true
}

// CyclicDeleteEdge runs the iterative peel step starting at vertex v:
// while the current vertex has exactly one live edge, that edge is
// marked deleted and the walk follows it to the far endpoint.
func (g *Graph) CyclicDeleteEdge(v uint32) {
	current := v
	for {
		slot, found := g.FindDegree1Edge(current)
		if !found {
			return
		}
		edge := g.canon(slot)
		if !g.DeletedEdges.Test(edge) {
			g.DeletedEdges.Mark(edge)
			g.DeletedCount++
		}
		// slot was reached through current's own incidence list, so
		// g.edges[slot] is ordinarily the far endpoint; guard against
		// the degenerate case where it resolves back to current by
		// taking the mirror slot's endpoint instead.
		far := g.edges[slot]
		if far == current {
			far = g.edges[g.mirror(slot)]
		}
		if far == Empty {
			return
		}
		current = far
	}
}

// IsAcyclic runs one full peeling pass over every vertex and reports
// whether every edge was eventually deleted. Once called, the graph is
// marked as shrinking and AddEdge must not be called again.
func (g *Graph) IsAcyclic() bool {
	if g.shrinking {
		panic("graph: IsAcyclic called twice on the same attempt")
	}
	g.shrinking = true

	for v := uint32(0); v < g.Dims.V; v++ {
		g.CyclicDeleteEdge(v)
	}

	g.isAcyclic = g.DeletedCount == uint64(g.Dims.E)
	return g.isAcyclic
}

// Iterator walks the neighbors of one vertex as linked at construction
// time (it does not reflect later peeling, since
// neighbor iteration is only ever used for an already-acyclic graph
// during assignment).
type Iterator struct {
	g      *Graph
	vertex uint32
	edge   uint32
}

// Neighbors returns an Iterator positioned at the head of v's incidence
// list.
func (g *Graph) Neighbors(v uint32) Iterator {
	return Iterator{g: g, vertex: v, edge: g.first[v]}
}

// Next returns the next neighbor of the iterator's vertex, visited or
// not, or ok=false once the list is exhausted.
func (it *Iterator) Next() (neighbor uint32, ok bool) {
	if it.edge == Empty {
		return 0, false
	}
	slot := it.edge
	u := it.g.edges[slot]
	if u == it.vertex {
		// self-loop bookkeeping: the far endpoint stored at the
		// mirror slot is the real neighbor.
		u = it.g.edges[it.g.mirror(slot)]
	}
	it.edge = it.g.next[slot]
	return u, true
}

// mirror returns the slot that stores the opposite direction of slot
// (e <-> e+E).
func (g *Graph) mirror(slot uint32) uint32 {
	if slot >= g.Dims.E {
		return slot - g.Dims.E
	}
	return slot + g.Dims.E
}

// EdgeID returns the slot identifying the edge between v1 and v2: it
// scans v1's incidence list for the slot whose far endpoint is v2. The
// raw slot is returned uncanonicalized — earlier attempts at folding
// e and e+E down to a single canonical id reintroduced verification
// collisions, so the distinct slot identity is kept.
func (g *Graph) EdgeID(v1, v2 uint32) uint32 {
	for slot := g.first[v1]; slot != Empty; slot = g.next[slot] {
		if g.edges[slot] == v2 {
			return slot
		}
	}
	panic("graph: EdgeID called for non-adjacent vertices")
}
