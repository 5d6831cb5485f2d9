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

// Package graph implements the attempt-local 2-uniform hypergraph a CHM
// solve attempt builds and peels: the edge/vertex incidence arrays, the
// degree-1 peeling test for acyclicity, and the assignment traversal that
// turns an acyclic graph into a lookup table.
package graph

import (
	"unsafe"

	"github.com/perfecthash/chm/bitmap"
	"github.com/perfecthash/chm/guard"
	"github.com/perfecthash/chm/hashmask"
)

// Empty is the sentinel "no neighbor / no edge" value. It is all-ones so
// it can never collide with a real, in-range slot index.
const Empty uint32 = ^uint32(0)

// Dims is the pair of counts that size one attempt's graph: V vertices
// and E edges (E is always the key count, possibly rounded up to a
// power of two under And/Fold masking).
type Dims struct {
	V uint32
	E uint32
}

// TotalEdges is the number of edge slots the graph carves: each
// undirected edge occupies two slots, one per endpoint.
func (d Dims) TotalEdges() uint32 {
	return 2 * d.E
}

// ByteSize returns the number of bytes a single graph's arrays occupy,
// used to size the guard-paged buffer it is carved from.
func (d Dims) ByteSize() int {
	totalEdges := int(d.TotalEdges())
	v := int(d.V)
	// first[V] + next[2E] + prev[2E] + edges[2E] + assigned[V] + values[V],
	// each a uint32.
	words := v + totalEdges + totalEdges + totalEdges + v + v
	return words * 4
}

// Graph is one solver attempt's hypergraph: the incidence arrays plus the
// bitmaps the peeling and assignment steps need. It is carved out of a
// single guard-paged buffer so any out-of-bounds write during an attempt
// faults instead of corrupting another attempt's state.
type Graph struct {
	Dims  Dims
	Seeds hashmask.Seeds

	first    []uint32 // len V
	next     []uint32 // len 2E
	prev     []uint32 // len 2E
	edges    []uint32 // len 2E
	Assigned []uint32 // len V
	Values   []uint32 // len V, verifier-only

	DeletedEdges    *bitmap.Set // len 2E
	VisitedVertices *bitmap.Set // len V
	AssignedBitmap  *bitmap.Set // len V, verifier-only
	IndexBitmap     *bitmap.Set // len V, collision tracking

	DeletedCount uint64
	Collisions   uint64
	MaxDepth     uint64

	shrinking  bool
	isAcyclic  bool
	attemptBuf *guard.Buffer
}

// New carves a fresh Graph of the given dimensions out of a guard-paged
// buffer. The buffer belongs to the Graph; call Free when the attempt is
// fully discarded (not merely reset for another attempt).
func New(dims Dims) (*Graph, error) {
	buf, err := guard.Alloc(dims.ByteSize())
	if err != nil {
		return nil, err
	}
	g := &Graph{attemptBuf: buf}
	g.carve(dims)
	return g, nil
}

// carve slices g's arrays out of g.attemptBuf.Data in the fixed layout
// ByteSize assumes, and allocates fresh bitmaps for the new dimensions.
func (g *Graph) carve(dims Dims) {
	g.Dims = dims
	totalEdges := int(dims.TotalEdges())
	v := int(dims.V)

	data := g.attemptBuf.Data
	off := 0
	u32s := func(n int) []uint32 {
		s := unsafe.Slice((*uint32)(unsafe.Pointer(&data[off])), n)
		off += n * 4
		return s
	}

	g.first = u32s(v)
	g.next = u32s(totalEdges)
	g.prev = u32s(totalEdges)
	g.edges = u32s(totalEdges)
	g.Assigned = u32s(v)
	g.Values = u32s(v)

	g.DeletedEdges = bitmap.New(uint(totalEdges))
	g.VisitedVertices = bitmap.New(uint(v))
	g.AssignedBitmap = bitmap.New(uint(v))
	g.IndexBitmap = bitmap.New(uint(v))
}

// Reset scrubs every byte of the graph's pages to zero and re-carves the
// arrays for the next attempt at the same dimensions (a resize always
// allocates a fresh Graph instead; Reset is for same-size reuse between
// failed attempts).
func (g *Graph) Reset(seeds hashmask.Seeds) {
	for i := range g.attemptBuf.Data {
		g.attemptBuf.Data[i] = 0
	}
	g.carve(g.Dims)
	g.Seeds = seeds
	g.DeletedCount = 0
	g.Collisions = 0
	g.MaxDepth = 0
	g.shrinking = false
	g.isAcyclic = false
	for i := range g.first {
		g.first[i] = Empty
	}
	for i := range g.edges {
		g.edges[i] = Empty
		g.next[i] = Empty
		g.prev[i] = Empty
	}
}

// Free releases the guard-paged buffer backing g. g must not be used
// again afterward.
func (g *Graph) Free() error {
	return g.attemptBuf.Free()
}

// IsAcyclicResult reports the outcome of the last IsAcyclic call.
func (g *Graph) IsAcyclicResult() bool {
	return g.isAcyclic
}
