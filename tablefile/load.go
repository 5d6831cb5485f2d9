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

package tablefile

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/perfecthash/chm/hashmask"
)

// Loaded is a table file mapped read-only for lookups, paired with the
// metadata record that describes how to hash and mask into it.
type Loaded struct {
	Header *Header
	masker struct {
		hash, index *hashmask.Masker
	}
	seeds hashmask.Seeds
	mem   []byte
}

// Load maps path read-only and reads path+".meta" for the header
// describing how to compute indices into it.
func Load(path string) (*Loaded, error) {
	meta, err := os.Open(path + ".meta")
	if err != nil {
		return nil, err
	}
	defer meta.Close()

	header, err := ReadHeader(meta)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	wantSize := int64(header.NumberOfTableElements) * 4
	if info.Size() != wantSize {
		return nil, fmt.Errorf("tablefile: file size %d does not match header's %d vertices", info.Size(), header.NumberOfTableElements)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	l := &Loaded{
		Header: header,
		seeds: hashmask.Seeds{
			header.Seed1, header.Seed2, header.Seed3, header.Seed4,
		},
		mem: mem,
	}
	l.masker.hash = hashmask.NewMasker(hashmask.Function(header.MaskFuncID), header.HashSize)
	l.masker.index = hashmask.NewMasker(hashmask.Function(header.MaskFuncID), header.IndexSize)
	return l, nil
}

// Index computes the index a key maps to under this table, the same
// composition the verifier checked at build time:
// maskIndex(assigned[maskHash(h_low)] + assigned[maskHash(h_high)]).
func (l *Loaded) Index(key uint32) uint32 {
	lo, hi := hashmask.Hash(key, l.seeds)
	v1 := l.masker.hash.MaskHash(lo)
	v2 := l.masker.hash.MaskHash(hi)
	a1 := binary.LittleEndian.Uint32(l.mem[v1*4:])
	a2 := binary.LittleEndian.Uint32(l.mem[v2*4:])
	return l.masker.index.MaskHash(uint64(a1) + uint64(a2))
}

// Assigned decodes the full table into a []uint32, one entry per
// vertex, for callers (such as an independent verify pass) that want
// the raw assignment vector rather than per-key lookups.
func (l *Loaded) Assigned() []uint32 {
	out := make([]uint32, l.Header.NumberOfTableElements)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(l.mem[i*4:])
	}
	return out
}

// Close unmaps the table file.
func (l *Loaded) Close() error {
	return unix.Munmap(l.mem)
}
