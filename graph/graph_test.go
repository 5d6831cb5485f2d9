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

import (
	"testing"

	"github.com/perfecthash/chm/hashmask"
)

func newTestGraph(t *testing.T, v, e uint32) *Graph {
	t.Helper()
	g, err := New(Dims{V: v, E: e})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := range g.first {
		g.first[i] = Empty
	}
	for i := range g.edges {
		g.edges[i] = Empty
		g.next[i] = Empty
		g.prev[i] = Empty
	}
	t.Cleanup(func() { g.Free() })
	return g
}

func TestAddEdgeBothDirections(t *testing.T) {
	g := newTestGraph(t, 4, 2)
	g.AddEdge(0, 1, 2)

	if g.first[1] != 0 {
		t.Fatalf("first[1] = %d, want 0", g.first[1])
	}
	if g.first[2] != 0+g.Dims.E {
		t.Fatalf("first[2] = %d, want %d", g.first[2], g.Dims.E)
	}
	if g.edges[0] != 2 {
		t.Fatalf("edges[0] = %d, want 2 (far endpoint)", g.edges[0])
	}
	if g.edges[g.Dims.E] != 1 {
		t.Fatalf("edges[E] = %d, want 1 (far endpoint)", g.edges[g.Dims.E])
	}
}

// buildTree constructs a graph over a simple tree (acyclic by
// construction) to exercise peeling and assignment without depending on
// a real hash function.
func buildTree(t *testing.T) (*Graph, *hashmask.Masker) {
	t.Helper()
	// A path 0-1-2-3-4 as edges e=0..3: acyclic, every vertex degree<=2.
	g := newTestGraph(t, 8, 4)
	g.AddEdge(0, 0, 1)
	g.AddEdge(1, 1, 2)
	g.AddEdge(2, 2, 3)
	g.AddEdge(3, 3, 4)
	masker := hashmask.NewMasker(hashmask.Modulus, g.Dims.E)
	return g, masker
}

func TestIsAcyclicOnTree(t *testing.T) {
	g, _ := buildTree(t)
	if !g.IsAcyclic() {
		t.Fatal("expected a tree to be acyclic")
	}
	if g.DeletedCount != uint64(g.Dims.E) {
		t.Fatalf("DeletedCount = %d, want %d", g.DeletedCount, g.Dims.E)
	}
}

// buildTreeEndpoint2Tip constructs a tree of the same shape as buildTree
// (a path with degree-1 tips) but with edges oriented so that a tip is
// reached through an edge's endpoint-2 slot (AddEdge's v2) rather than
// always being the lower-numbered endpoint. buildTree's uniform
// (lower, higher) orientation never exercises that direction.
func buildTreeEndpoint2Tip(t *testing.T) *Graph {
	t.Helper()
	// Path 1-0-2-3 as edges e=0..2.
	g := newTestGraph(t, 4, 3)
	g.AddEdge(0, 1, 0)
	g.AddEdge(1, 2, 0)
	g.AddEdge(2, 3, 2)
	return g
}

func TestIsAcyclicOnTreeWithEndpoint2Tip(t *testing.T) {
	g := buildTreeEndpoint2Tip(t)
	if !g.IsAcyclic() {
		t.Fatal("expected a tree to be acyclic regardless of edge orientation")
	}
	if g.DeletedCount != uint64(g.Dims.E) {
		t.Fatalf("DeletedCount = %d, want %d", g.DeletedCount, g.Dims.E)
	}
}

func TestIsAcyclicOnCycle(t *testing.T) {
	g := newTestGraph(t, 8, 3)
	// A 3-cycle: 0-1, 1-2, 2-0.
	g.AddEdge(0, 0, 1)
	g.AddEdge(1, 1, 2)
	g.AddEdge(2, 2, 0)

	if g.IsAcyclic() {
		t.Fatal("expected a pure cycle to be reported cyclic")
	}
	if g.DeletedCount == uint64(g.Dims.E) {
		t.Fatal("cyclic graph should not delete every edge")
	}
}

func TestIsAcyclicPanicsOnSecondCall(t *testing.T) {
	g, _ := buildTree(t)
	g.IsAcyclic()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second IsAcyclic call")
		}
	}()
	g.IsAcyclic()
}

func TestAssignVisitsEveryVertex(t *testing.T) {
	g, masker := buildTree(t)
	if !g.IsAcyclic() {
		t.Fatal("expected tree to be acyclic")
	}
	g.Assign(masker)
	if got := g.VisitedVertices.Count(); got != uint(g.Dims.V) {
		t.Fatalf("visited %d vertices, want %d", got, g.Dims.V)
	}
}

func TestNeighborIteratorCoversIncidence(t *testing.T) {
	g := newTestGraph(t, 4, 2)
	g.AddEdge(0, 0, 1)
	g.AddEdge(1, 1, 2)

	it := g.Neighbors(1)
	seen := map[uint32]bool{}
	for {
		u, ok := it.Next()
		if !ok {
			break
		}
		seen[u] = true
	}
	if !seen[0] || !seen[2] {
		t.Fatalf("expected neighbors {0,2} of vertex 1, got %v", seen)
	}
}

func TestEdgeIDFindsAdjacentSlot(t *testing.T) {
	g := newTestGraph(t, 4, 2)
	g.AddEdge(0, 0, 1)
	if got := g.EdgeID(0, 1); got != 0 {
		t.Fatalf("EdgeID(0,1) = %d, want 0", got)
	}
	if got := g.EdgeID(1, 0); got != g.Dims.E {
		t.Fatalf("EdgeID(1,0) = %d, want %d", got, g.Dims.E)
	}
}

func TestResetScrubsState(t *testing.T) {
	g, _ := buildTree(t)
	g.IsAcyclic()
	g.Reset(g.Seeds)
	if g.DeletedCount != 0 || g.isAcyclic {
		t.Fatal("expected Reset to clear peeling state")
	}
	for _, v := range g.first {
		if v != Empty {
			t.Fatal("expected Reset to clear first[] to Empty")
		}
	}
}
