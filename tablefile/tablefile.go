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
	"os"

	"golang.org/x/sys/unix"
)

// Table is a table file prepared for writing: extended to its final
// size and mapped read-write. Save performs the one write this type
// exists for; Close unmaps and truncates to the exact byte count the
// vertex count implies.
type Table struct {
	path string
	f    *os.File
	mem  []byte
	v    uint64
}

// Prepare extends path to vertices*4 bytes (rounded up to the OS
// allocation granularity while mapped, truncated back down on Close)
// and maps it writable.
func Prepare(path string, vertices uint64) (*Table, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	pageSize := int64(os.Getpagesize())
	size := (int64(vertices)*4 + pageSize - 1) / pageSize * pageSize
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, err
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Table{path: path, f: f, mem: mem, v: vertices}, nil
}

// Save writes assigned (one little-endian uint32 per vertex) into the
// mapped file, flushes it, and writes header as the sidecar metadata
// record at path+".meta". assigned must have exactly vertices entries.
func (t *Table) Save(assigned []uint32, header Header) error {
	if uint64(len(assigned)) != t.v {
		panic("tablefile: assigned length does not match prepared vertex count")
	}
	for i, v := range assigned {
		binary.LittleEndian.PutUint32(t.mem[i*4:], v)
	}
	if err := unix.Msync(t.mem, unix.MS_SYNC); err != nil {
		return err
	}

	meta, err := os.OpenFile(t.path+".meta", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer meta.Close()
	return header.Write(meta)
}

// Close unmaps the table file and truncates it to its exact declared
// size (undoing the page-size rounding Prepare applied).
func (t *Table) Close() error {
	if err := unix.Munmap(t.mem); err != nil {
		t.f.Close()
		return err
	}
	if err := t.f.Truncate(int64(t.v) * 4); err != nil {
		t.f.Close()
		return err
	}
	return t.f.Close()
}
