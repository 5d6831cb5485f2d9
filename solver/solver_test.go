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
	"context"
	"testing"

	"github.com/perfecthash/chm/hashmask"
)

func TestBuildRejectsEmptyKeys(t *testing.T) {
	_, err := Build(context.Background(), nil, Config{})
	if err != ErrNoKeys {
		t.Fatalf("Build(nil) error = %v, want ErrNoKeys", err)
	}
}

func TestBuildSmallKeySet(t *testing.T) {
	keys := []uint32{0x00000001}
	res, err := Build(context.Background(), keys, Config{MaxConcurrency: 2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer res.Close()

	if res.Graph == nil {
		t.Fatal("expected a winning graph")
	}
	if res.Attempts < 1 {
		t.Fatalf("Attempts = %d, want >= 1", res.Attempts)
	}
	if res.Dims.V < res.Dims.E+1 {
		t.Fatalf("V=%d must be > E=%d", res.Dims.V, res.Dims.E)
	}
}

func TestBuildModerateKeySet(t *testing.T) {
	keys := make([]uint32, 0, 64)
	for i := uint32(1); i <= 64; i++ {
		keys = append(keys, i*2654435761)
	}
	res, err := Build(context.Background(), keys, Config{
		MaskFunction:   hashmask.Modulus,
		MaxConcurrency: 4,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer res.Close()

	if res.FailedAttempts+1 != res.Attempts && res.FailedAttempts >= res.Attempts {
		t.Fatalf("FailedAttempts=%d should be < Attempts=%d", res.FailedAttempts, res.Attempts)
	}
}

func TestBuildCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	keys := []uint32{1, 2, 3}
	_, err := Build(ctx, keys, Config{MaxConcurrency: 2})
	if err != ErrCancelled {
		t.Fatalf("Build with cancelled context error = %v, want ErrCancelled", err)
	}
}
