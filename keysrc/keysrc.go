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

// Package keysrc loads the flat little-endian uint32 key file a build
// runs against: a memory-mapped buffer plus the key count, so large key
// sets never need to be copied into the process's heap.
package keysrc

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Keys is a memory-mapped, read-only view of a key file.
type Keys struct {
	mem  []byte
	vals []uint32
}

// Load maps path and validates that its size is a multiple of 4 bytes.
func Load(path string) (*Keys, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size%4 != 0 {
		return nil, fmt.Errorf("keysrc: file size %d is not a multiple of 4", size)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	k := &Keys{mem: mem}
	if size > 0 {
		k.vals = unsafe.Slice((*uint32)(unsafe.Pointer(&mem[0])), size/4)
		if !isLittleEndianHost() {
			k.vals = decodeLittleEndian(mem)
		}
	}
	return k, nil
}

// Values returns the mapped keys. The slice is only valid while k
// remains open.
func (k *Keys) Values() []uint32 {
	return k.vals
}

// Len returns the number of keys.
func (k *Keys) Len() int {
	return len(k.vals)
}

// Close unmaps the key file.
func (k *Keys) Close() error {
	if k.mem == nil {
		return nil
	}
	err := unix.Munmap(k.mem)
	k.mem = nil
	k.vals = nil
	return err
}

// isLittleEndianHost reports whether the runtime's native byte order
// matches the file format, letting Load reinterpret the mapping
// directly instead of copying on every little-endian host (which is
// effectively every host Go still targets with an unsafe.Slice cast,
// but the explicit check keeps the fallback path honest).
func isLittleEndianHost() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}

// decodeLittleEndian copies a big-endian host's view of the mapping
// into a freshly decoded slice.
func decodeLittleEndian(mem []byte) []uint32 {
	out := make([]uint32, len(mem)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(mem[i*4:])
	}
	return out
}
