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

package verify

import (
	"context"
	"testing"

	"github.com/perfecthash/chm/hashmask"
	"github.com/perfecthash/chm/solver"
)

func TestVerifyOnASolvedBuild(t *testing.T) {
	keys := make([]uint32, 0, 32)
	for i := uint32(1); i <= 32; i++ {
		keys = append(keys, i*2654435761)
	}

	res, err := solver.Build(context.Background(), keys, solver.Config{MaxConcurrency: 4})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer res.Close()

	report, err := Verify(keys, res.Graph.Assigned, res.Maskers.Hash, res.Maskers.Index, res.Graph.Seeds)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(report.Values) != int(res.Maskers.Index.Size()) {
		t.Fatalf("Values length = %d, want %d", len(report.Values), res.Maskers.Index.Size())
	}

	seen := map[uint32]bool{}
	for _, k := range keys {
		lo, hi := hashmask.Hash(k, res.Graph.Seeds)
		v1 := res.Maskers.Hash.MaskHash(lo)
		v2 := res.Maskers.Hash.MaskHash(hi)
		idx := res.Maskers.Index.MaskHash(uint64(res.Graph.Assigned[v1]) + uint64(res.Graph.Assigned[v2]))
		if seen[idx] {
			t.Fatalf("key %#x collided at index %d", k, idx)
		}
		seen[idx] = true
	}
}

func TestVerifyDetectsCollision(t *testing.T) {
	// A pathological assignment where every key maps to index 0.
	assigned := []uint32{0, 0, 0, 0}
	hashMasker := hashmask.NewMasker(hashmask.Modulus, 4)
	indexMasker := hashmask.NewMasker(hashmask.Modulus, 2)
	seeds := hashmask.Seeds{1, 2, 3, 4}

	_, err := Verify([]uint32{1, 2, 3}, assigned, hashMasker, indexMasker, seeds)
	if err == nil {
		t.Fatal("expected a collision to be detected on a degenerate assignment")
	}
}
