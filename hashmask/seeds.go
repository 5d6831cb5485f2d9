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

// Package hashmask implements the keyed two-output hash and the family of
// mask functions a CHM perfect-hash build drives its graph construction
// with.
package hashmask

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Seeds is the four 32-bit words that determine a hash attempt's two
// siphash keys. Two seeds combine (little-endian) into each 64-bit siphash
// key, the same quartet shape the original C implementation stores per
// attempt.
type Seeds [4]uint32

// K0 returns the first siphash key, Seeds[0] and Seeds[1] combined.
func (s Seeds) K0() uint64 {
	return uint64(s[0]) | uint64(s[1])<<32
}

// K1 returns the second siphash key, Seeds[2] and Seeds[3] combined.
func (s Seeds) K1() uint64 {
	return uint64(s[2]) | uint64(s[3])<<32
}

// NewSeeds draws a fresh quartet of seeds from rnd, decoding each word
// little-endian. The solver does not call it: Build draws its uint64
// master salt separately and stretches that via DeriveSeeds.
func NewSeeds(rnd io.Reader) (Seeds, error) {
	var buf [16]byte
	if _, err := io.ReadFull(rnd, buf[:]); err != nil {
		return Seeds{}, err
	}
	var s Seeds
	for i := range s {
		s[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return s, nil
}

// DeriveSeeds stretches a single master salt into a distinct seed quartet
// per (salt, attempt) pair, so concurrent solver workers never need to
// coordinate over a shared RNG to avoid reusing an attempt's seeds.
func DeriveSeeds(salt uint64, attempt uint64) Seeds {
	var saltBuf, infoBuf [8]byte
	binary.LittleEndian.PutUint64(saltBuf[:], salt)
	binary.LittleEndian.PutUint64(infoBuf[:], attempt)

	kdf := hkdf.New(sha256.New, saltBuf[:], nil, infoBuf[:])

	var buf [16]byte
	// hkdf.New never fails to produce output for a fixed-size Read once
	// constructed; an I/O error here would mean the hash primitive
	// itself broke.
	if _, err := io.ReadFull(kdf, buf[:]); err != nil {
		panic(err)
	}

	var s Seeds
	for i := range s {
		s[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return s
}
