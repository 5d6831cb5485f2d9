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

// Package guard allocates the byte buffers a graph is carved out of with a
// trailing inaccessible page, so that a write past the declared size of a
// graph's arrays faults immediately instead of corrupting a neighboring
// attempt's state.
package guard

// Buffer is a guard-paged allocation: Data is exactly the requested size,
// positioned so the next byte after it falls on a page with no permissions.
type Buffer struct {
	Data    []byte
	mapped  []byte
	backing bool
}

// Len reports the requested (unrounded) size of the buffer.
func (b *Buffer) Len() int {
	return len(b.Data)
}
