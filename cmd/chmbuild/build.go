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

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/perfecthash/chm/config"
	"github.com/perfecthash/chm/diagnostics"
	"github.com/perfecthash/chm/hashmask"
	"github.com/perfecthash/chm/keysrc"
	"github.com/perfecthash/chm/solver"
	"github.com/perfecthash/chm/tablefile"
	"github.com/perfecthash/chm/verify"
)

// algorithmID identifies the CHM 2-uniform hypergraph peeling algorithm
// in a metadata record; reserved for a future alternative algorithm ID.
const algorithmID = 1

// hashFuncID identifies siphash-2-4/128 as the keyed hash in use.
const hashFuncID = 1

func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	out := fs.String("o", "", "output table path")
	defpath := fs.String("definition", "", "optional definition.json/definition.yaml config file")
	logpath := fs.String("log", "", "optional zstd-compressed attempt log path")
	opts := config.Bind(fs)
	fs.Parse(args)

	rest := fs.Args()
	if *out == "" || len(rest) != 1 {
		exitf("usage: build [flags] -o <table> <keys-file>")
	}

	var file *config.File
	if *defpath != "" {
		f, err := config.LoadFile(*defpath)
		if err != nil {
			exitf("loading %s: %s", *defpath, err)
		}
		file = f
	}

	resolved, err := opts.Resolve(file)
	if err != nil {
		exitf("%s", err)
	}
	maskFn, err := config.ParseMaskFunction(resolved.MaskFunction)
	if err != nil {
		exitf("%s", err)
	}

	keys, err := keysrc.Load(rest[0])
	if err != nil {
		exitf("loading keys: %s", err)
	}
	defer keys.Close()

	var log *diagnostics.Log
	buildID := uuid.New().String()
	if *logpath != "" {
		f, err := os.Create(*logpath)
		if err != nil {
			exitf("opening %s: %s", *logpath, err)
		}
		defer f.Close()
		log, err = diagnostics.NewLog(f, buildID)
		if err != nil {
			exitf("opening diagnostics log: %s", err)
		}
		defer log.Close()
	}

	cfg := solver.Config{
		MaskFunction:           maskFn,
		RequestedTableElements: resolved.RequestedTableElements,
		MaxConcurrency:         resolved.MaxConcurrency,
		ResizeThreshold:        resolved.ResizeThreshold,
		ResizeLimit:            resolved.ResizeLimit,
		Logf:                   logf,
	}

	logf("chmbuild: build %s starting, %d keys", buildID, keys.Len())
	solveStart := time.Now()
	result, err := solver.Build(context.Background(), keys.Values(), cfg)
	if err != nil {
		exitf("build: %s", err)
	}
	defer result.Close()
	solveMicros := uint64(time.Since(solveStart).Microseconds())

	if log != nil {
		log.Attempt(uint64(result.Dims.V), uint64(result.Attempts), result.GraphDeletedHighWater(), result.Graph.Collisions, true)
		if result.ResizeEvents > 0 {
			log.Resize(result.InitialTableSize, result.Dims.V, result.ClosestApproach)
		}
	}

	verifyStart := time.Now()
	if _, err := verify.Verify(keys.Values(), result.Graph.Assigned, result.Maskers.Hash, result.Maskers.Index, result.Graph.Seeds); err != nil {
		exitf("verify: %s", err)
	}
	verifyMicros := uint64(time.Since(verifyStart).Microseconds())

	prepareStart := time.Now()
	table, err := tablefile.Prepare(*out, uint64(result.Dims.V))
	if err != nil {
		exitf("preparing %s: %s", *out, err)
	}
	prepareMicros := uint64(time.Since(prepareStart).Microseconds())

	header := tablefile.Header{
		AlgorithmID:                      algorithmID,
		HashFuncID:                       hashFuncID,
		MaskFuncID:                       uint32(result.Maskers.Hash.Function()),
		KeySizeBytes:                     4,
		NumberOfKeys:                     uint64(keys.Len()),
		NumberOfTableElements:            uint64(result.Dims.V),
		HashSize:                         result.Dims.V,
		IndexSize:                        result.Dims.E,
		HashMask:                         maskBits(result.Maskers.Hash.Function(), result.Dims.V),
		IndexMask:                        maskBits(result.Maskers.Index.Function(), result.Dims.E),
		HashFold:                         uint32(foldDepth(result.Maskers.Hash.Function())),
		IndexFold:                        uint32(foldDepth(result.Maskers.Index.Function())),
		HashModulus:                      moduloOf(result.Maskers.Hash.Function(), result.Dims.V),
		IndexModulus:                     moduloOf(result.Maskers.Index.Function(), result.Dims.E),
		Seed1:                            result.Graph.Seeds[0],
		Seed2:                            result.Graph.Seeds[1],
		Seed3:                            result.Graph.Seeds[2],
		Seed4:                            result.Graph.Seeds[3],
		NumberOfSeeds:                    4,
		NumberOfTableResizeEvents:        uint32(result.ResizeEvents),
		TotalAttempts:                    uint64(result.Attempts),
		FailedAttempts:                   uint64(result.FailedAttempts),
		SolutionsFound:                   1,
		AttemptsUnderSmallerSizes:        uint64(result.AttemptsUnderSmallerSizes),
		ClosestApproachUnderSmallerSizes: result.ClosestApproach,
		InitialTableSize:                 uint64(result.InitialTableSize),
		SolveMicros:                      solveMicros,
		VerifyMicros:                     verifyMicros,
		PrepareMicros:                    prepareMicros,
	}

	saveStart := time.Now()
	if err := table.Save(result.Graph.Assigned, header); err != nil {
		exitf("saving %s: %s", *out, err)
	}
	if err := table.Close(); err != nil {
		exitf("closing %s: %s", *out, err)
	}
	logf("chmbuild: build %s wrote %s in %s", buildID, *out, time.Since(saveStart))
}

// maskBits returns the AND-mask a power-of-two-sized And/Fold* masker
// applies, or 0 for Modulus (which has no fixed mask).
func maskBits(fn hashmask.Function, size uint32) uint32 {
	if fn == hashmask.Modulus || size == 0 {
		return 0
	}
	return size - 1
}

// foldDepth reports how many XOR-fold rounds a masking strategy applies
// before the final AND mask.
func foldDepth(fn hashmask.Function) int {
	switch fn {
	case hashmask.FoldOnce:
		return 1
	case hashmask.FoldTwice:
		return 2
	case hashmask.FoldThrice:
		return 3
	default:
		return 0
	}
}

// moduloOf returns the modulus a Modulus masker divides by, or 0 for
// any other strategy.
func moduloOf(fn hashmask.Function, size uint32) uint32 {
	if fn != hashmask.Modulus {
		return 0
	}
	return size
}

