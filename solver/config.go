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

import "github.com/perfecthash/chm/hashmask"

// Config carries every build-time option the solver's controller reads.
// Zero values pick the documented defaults.
type Config struct {
	// MaskFunction selects the masking strategy. The zero value is
	// Modulus; chmbuild's -mask-function flag defaults to Auto.
	MaskFunction hashmask.Function

	// RequestedTableElements, if nonzero, pins the initial vertex count
	// instead of deriving it heuristically from the key count.
	RequestedTableElements uint32

	// MaxConcurrency caps the number of attempt workers. Zero means
	// runtime.GOMAXPROCS(0).
	MaxConcurrency int

	// ResizeThreshold is the number of attempts (summed across all
	// workers) before the controller signals TryLargerTableSize.
	ResizeThreshold int64

	// ResizeLimit bounds how many times the controller will double V
	// before giving up and returning ErrExhausted.
	ResizeLimit int

	// Logf receives progress lines; nil disables logging.
	Logf func(format string, args ...interface{})
}

// withDefaults fills in zero-valued fields with the documented defaults.
func (c Config) withDefaults(concurrency int) Config {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = concurrency
	}
	if c.ResizeThreshold <= 0 {
		c.ResizeThreshold = 2048
	}
	if c.ResizeLimit <= 0 {
		c.ResizeLimit = 8
	}
	return c
}
