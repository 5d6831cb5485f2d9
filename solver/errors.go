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

import "errors"

var (
	// ErrNoKeys is returned when Build is called with an empty key set.
	ErrNoKeys = errors.New("solver: no keys given")

	// ErrExhausted is returned when the resize limit is reached without
	// finding an acyclic graph.
	ErrExhausted = errors.New("solver: resize limit reached with no solution")

	// ErrTableSizeOverflow is returned when doubling V would overflow
	// uint32.
	ErrTableSizeOverflow = errors.New("solver: table size overflowed uint32 on resize")

	// ErrCancelled is returned when the caller's context is cancelled
	// before a solution is found.
	ErrCancelled = errors.New("solver: build cancelled")
)
