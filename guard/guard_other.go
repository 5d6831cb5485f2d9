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

//go:build !linux

package guard

// Alloc falls back to a plain heap allocation on platforms where we cannot
// rely on POSIX mmap/mprotect; overruns are not caught here the way they
// are on Linux, but the buffer shape callers see is identical.
func Alloc(size int) (*Buffer, error) {
	return &Buffer{Data: make([]byte, size), backing: false}, nil
}

// Free is a no-op: the heap allocator owns and collects this memory.
func (b *Buffer) Free() error {
	b.Data = nil
	return nil
}
