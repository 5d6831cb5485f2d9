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

import (
	"context"
	"runtime"
	"time"

	"github.com/perfecthash/chm/graph"
	"github.com/perfecthash/chm/hashmask"
	"github.com/perfecthash/chm/ints"
)

// Result is everything a successful Build produces: the winning graph
// (already assigned), the maskers used to build it, its seeds, and the
// bookkeeping a metadata record needs.
type Result struct {
	Graph   *graph.Graph
	Maskers Maskers
	Salt    uint64

	Dims graph.Dims

	Attempts                  int64
	FailedAttempts            int64
	ResizeEvents              int
	AttemptsUnderSmallerSizes int64
	ClosestApproach           uint64 // E - highestDeletedEdgesCount, best ever seen
	InitialTableSize          uint32

	deletedHighWater uint64
}

// GraphDeletedHighWater returns the highest deletedCount any single
// attempt in this round reached before failing (or, for the winning
// round, before winning).
func (r *Result) GraphDeletedHighWater() uint64 {
	return r.deletedHighWater
}

// Close releases the winning graph's guard-paged buffer. Callers must
// call this once they have copied out everything they need from
// r.Graph (the assignment vector, typically via tablefile.Save).
func (r *Result) Close() error {
	if r.Graph == nil {
		return nil
	}
	return r.Graph.Free()
}

// Build runs the full controller/resize loop: allocate attempt buffers
// at the current dimensions, run a pool of workers until one wins or
// the resize threshold is crossed, and on threshold double V and retry
// until either a solution is found or ResizeLimit is exhausted.
func Build(ctx context.Context, keys []uint32, cfg Config) (*Result, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}

	cfg = cfg.withDefaults(runtime.GOMAXPROCS(0))
	logf := cfg.Logf

	var salt [8]byte
	if err := ints.RandomFillSlice(salt[:]); err != nil {
		return nil, err
	}
	masterSalt := uint64(0)
	for i, b := range salt {
		masterSalt |= uint64(b) << (8 * i)
	}

	dims := initialDims(uint32(len(keys)), cfg.MaskFunction, cfg.RequestedTableElements)
	initialTableSize := dims.V

	var (
		resizeEvents              int
		attemptsUnderSmallerSizes int64
		closestApproach           = uint64(dims.E) // worst case: nothing ever peeled
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, ErrCancelled
		}

		if logf != nil {
			logf("solver: starting round V=%d E=%d workers=%d", dims.V, dims.E, cfg.MaxConcurrency)
		}

		result, resized, err := runRound(ctx, keys, cfg, dims, masterSalt)
		if err != nil {
			return nil, err
		}
		if !resized && result.Graph == nil {
			// Neither a win nor a resize signal: the round ended
			// because the caller's context was cancelled.
			return nil, ErrCancelled
		}
		if !resized {
			result.ResizeEvents = resizeEvents
			result.AttemptsUnderSmallerSizes = attemptsUnderSmallerSizes
			if result.Attempts > 0 {
				approach := uint64(dims.E) - result.GraphDeletedHighWater()
				if approach < closestApproach {
					closestApproach = approach
				}
			}
			result.ClosestApproach = closestApproach
			result.InitialTableSize = initialTableSize
			return result, nil
		}

		attemptsUnderSmallerSizes += result.Attempts
		if approach := uint64(dims.E) - result.GraphDeletedHighWater(); approach < closestApproach {
			closestApproach = approach
		}

		resizeEvents++
		if resizeEvents > cfg.ResizeLimit {
			return nil, ErrExhausted
		}

		next, ok := doubled(dims)
		if !ok {
			return nil, ErrTableSizeOverflow
		}
		dims = next
	}
}

// runRound allocates graph buffers for one round at dims, runs the
// worker pool, and waits for either a win or a resize signal. The
// returned bool reports whether the round ended in TryLargerTableSize
// (in which case the caller should double dims and call runRound
// again).
func runRound(ctx context.Context, keys []uint32, cfg Config, dims graph.Dims, masterSalt uint64) (*Result, bool, error) {
	sc := NewContext()

	maskers := Maskers{
		Hash:  hashmask.NewMasker(cfg.MaskFunction, dims.V),
		Index: hashmask.NewMasker(cfg.MaskFunction, dims.E),
	}

	graphs := make([]*graph.Graph, 0, cfg.MaxConcurrency)
	for i := 0; i < cfg.MaxConcurrency; i++ {
		g, err := graph.New(dims)
		if err != nil {
			for _, existing := range graphs {
				existing.Free()
			}
			return nil, false, err
		}
		graphs = append(graphs, g)
	}

	p := runPool(sc, graphs, keys, maskers, masterSalt, cfg.Logf)

	resizeThreshold := cfg.ResizeThreshold
	done := make(chan struct{})
	go func() {
		pollForResize(sc, resizeThreshold, done)
	}()

	waitForOutcome(ctx, sc)

	p.wait()
	close(done)

	resized := sc.Outcome() == outcomeTryLargerTableSize

	var won *graph.Graph
	if !resized {
		won, _ = sc.popFinished()
	}

	for _, g := range graphs {
		if g != won {
			g.Free()
		}
	}

	return &Result{
		Graph:            won,
		Maskers:          maskers,
		Salt:             masterSalt,
		Dims:             dims,
		Attempts:         sc.Attempts(),
		FailedAttempts:   sc.FailedAttempts(),
		deletedHighWater: sc.HighestDeletedEdgesCount(),
	}, resized, nil
}

// pollForResize watches the attempts counter and signals
// TryLargerTableSize once it crosses threshold, unless done is closed
// first (a win arrived, or the round is otherwise over).
func pollForResize(sc *Context, threshold int64, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}
		if sc.FinishedCount() != 0 {
			return
		}
		if sc.Attempts() >= threshold {
			sc.signal(outcomeTryLargerTableSize)
			return
		}
		// A hardware PAUSE hint would be the lower-latency spin here,
		// but without one a short sleep keeps this poller from
		// pegging a core while attempts run.
		time.Sleep(100 * time.Microsecond)
	}
}

// waitForOutcome blocks until sc has an outcome, cancelling the round
// (by signalling Shutdown) if the caller's context is cancelled first.
func waitForOutcome(ctx context.Context, sc *Context) {
	outcomeCh := make(chan struct{})
	go func() {
		sc.Wait()
		close(outcomeCh)
	}()

	select {
	case <-outcomeCh:
	case <-ctx.Done():
		sc.signal(outcomeShutdown)
		<-outcomeCh
	}
}
