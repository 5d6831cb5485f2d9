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

// Package tablefile persists a solved perfect-hash table: a flat file of
// little-endian uint32 assignment values, plus a fixed-layout sidecar
// metadata record that a later process can use to reload and query the
// table.
package tablefile

import (
	"encoding/binary"
	"errors"
	"io"
)

// magic identifies a metadata record; chosen so a misread or truncated
// file is overwhelmingly unlikely to pass the check by accident.
const magic uint64 = 0x30314d4843484c50 // "PLHCHM10" in little-endian bytes

// ErrBadMagic is returned when a metadata record's magic does not match.
var ErrBadMagic = errors.New("tablefile: bad magic in metadata record")

// ErrSizeMismatch is returned when a metadata record declares a
// SizeOfStruct this build does not know how to read.
var ErrSizeMismatch = errors.New("tablefile: metadata record size mismatch")

// headerSize is the on-disk byte size of Header, fixed across builds.
const headerSize = 192

// Header is the fixed little-endian metadata record written alongside
// every table file.
type Header struct {
	SizeOfStruct uint32
	Flags        uint32
	AlgorithmID  uint32
	HashFuncID   uint32
	MaskFuncID   uint32
	KeySizeBytes uint32

	NumberOfKeys          uint64
	NumberOfTableElements uint64

	HashSize  uint32
	IndexSize uint32

	HashShift, IndexShift uint32
	HashMask, IndexMask   uint32
	HashFold, IndexFold   uint32

	HashModulus, IndexModulus uint32

	Seed1, Seed2, Seed3, Seed4 uint32
	NumberOfSeeds              uint32

	NumberOfTableResizeEvents uint32

	TotalAttempts  uint64
	FailedAttempts uint64
	SolutionsFound uint64

	AttemptsUnderSmallerSizes          uint64
	ClosestApproachUnderSmallerSizes   uint64
	InitialTableSize                   uint64

	SolveMicros, VerifyMicros, PrepareMicros, SaveMicros uint64
}

// Write serializes h to w in the fixed little-endian layout.
func (h *Header) Write(w io.Writer) error {
	h.SizeOfStruct = headerSize
	buf := make([]byte, headerSize)
	off := 0
	put32 := func(v uint32) { binary.LittleEndian.PutUint32(buf[off:], v); off += 4 }
	put64 := func(v uint64) { binary.LittleEndian.PutUint64(buf[off:], v); off += 8 }

	put64(magic)
	put32(h.SizeOfStruct)
	put32(h.Flags)
	put32(h.AlgorithmID)
	put32(h.HashFuncID)
	put32(h.MaskFuncID)
	put32(h.KeySizeBytes)
	put64(h.NumberOfKeys)
	put64(h.NumberOfTableElements)
	put32(h.HashSize)
	put32(h.IndexSize)
	put32(h.HashShift)
	put32(h.IndexShift)
	put32(h.HashMask)
	put32(h.IndexMask)
	put32(h.HashFold)
	put32(h.IndexFold)
	put32(h.HashModulus)
	put32(h.IndexModulus)
	put32(h.Seed1)
	put32(h.Seed2)
	put32(h.Seed3)
	put32(h.Seed4)
	put32(h.NumberOfSeeds)
	put32(h.NumberOfTableResizeEvents)
	put64(h.TotalAttempts)
	put64(h.FailedAttempts)
	put64(h.SolutionsFound)
	put64(h.AttemptsUnderSmallerSizes)
	put64(h.ClosestApproachUnderSmallerSizes)
	put64(h.InitialTableSize)
	put64(h.SolveMicros)
	put64(h.VerifyMicros)
	put64(h.PrepareMicros)
	put64(h.SaveMicros)

	_, err := w.Write(buf[:off])
	return err
}

// ReadHeader parses a Header from r, validating the magic value.
func ReadHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	off := 0
	get32 := func() uint32 { v := binary.LittleEndian.Uint32(buf[off:]); off += 4; return v }
	get64 := func() uint64 { v := binary.LittleEndian.Uint64(buf[off:]); off += 8; return v }

	if got := get64(); got != magic {
		return nil, ErrBadMagic
	}

	h := &Header{}
	h.SizeOfStruct = get32()
	if h.SizeOfStruct != headerSize {
		return nil, ErrSizeMismatch
	}
	h.Flags = get32()
	h.AlgorithmID = get32()
	h.HashFuncID = get32()
	h.MaskFuncID = get32()
	h.KeySizeBytes = get32()
	h.NumberOfKeys = get64()
	h.NumberOfTableElements = get64()
	h.HashSize = get32()
	h.IndexSize = get32()
	h.HashShift = get32()
	h.IndexShift = get32()
	h.HashMask = get32()
	h.IndexMask = get32()
	h.HashFold = get32()
	h.IndexFold = get32()
	h.HashModulus = get32()
	h.IndexModulus = get32()
	h.Seed1 = get32()
	h.Seed2 = get32()
	h.Seed3 = get32()
	h.Seed4 = get32()
	h.NumberOfSeeds = get32()
	h.NumberOfTableResizeEvents = get32()
	h.TotalAttempts = get64()
	h.FailedAttempts = get64()
	h.SolutionsFound = get64()
	h.AttemptsUnderSmallerSizes = get64()
	h.ClosestApproachUnderSmallerSizes = get64()
	h.InitialTableSize = get64()
	h.SolveMicros = get64()
	h.VerifyMicros = get64()
	h.PrepareMicros = get64()
	h.SaveMicros = get64()

	return h, nil
}
