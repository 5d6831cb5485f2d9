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

//go:build linux

package guard

import (
	"golang.org/x/sys/unix"

	"github.com/perfecthash/chm/ints"
)

const cpuPageSize = 4 << 10

// Alloc maps n+1 pages of anonymous memory and revokes all access to the
// last page, returning a Buffer whose Data is exactly size bytes long and
// butts up against the protected page.
func Alloc(size int) (*Buffer, error) {
	rounded := ints.AlignUp64(uint64(size), cpuPageSize)

	mapped, err := unix.Mmap(-1, 0, int(rounded)+cpuPageSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	if err := unix.Mprotect(mapped[rounded:], unix.PROT_NONE); err != nil {
		unix.Munmap(mapped)
		return nil, err
	}

	data := mapped[uint64(rounded)-uint64(size):]
	data = data[:size:size]

	return &Buffer{Data: data, mapped: mapped, backing: true}, nil
}

// Free unmaps the pages backing b. b must not be used again afterward.
func (b *Buffer) Free() error {
	if !b.backing || b.mapped == nil {
		return nil
	}
	err := unix.Munmap(b.mapped)
	b.mapped = nil
	b.Data = nil
	return err
}
