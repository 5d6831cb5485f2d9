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
	"sync"

	"github.com/perfecthash/chm/graph"
	"github.com/perfecthash/chm/hashmask"
)

// pool runs one worker goroutine per pre-allocated graph buffer. Each
// worker owns exactly one buffer for the lifetime of the round: it
// reseeds and reattempts on that same buffer until the round ends,
// rather than pulling work items from a shared queue, since graph
// buffers (unlike sort requests) are expensive enough to want affinity.
type pool struct {
	wg *sync.WaitGroup
}

// runPool starts one worker per graph in graphs, each looping
// reseed/reinit/attempt until ctx.ShouldContinue() goes false. salt is
// the build-wide master salt DeriveSeeds stretches per attempt; logf
// receives progress lines in the teacher's callback-logging style.
func runPool(ctx *Context, graphs []*graph.Graph, keys []uint32, m Maskers, salt uint64, logf func(string, ...interface{})) *pool {
	var wg sync.WaitGroup
	wg.Add(len(graphs))

	for idx, g := range graphs {
		go func(workerID int, g *graph.Graph) {
			defer wg.Done()
			worker(ctx, g, keys, m, salt, workerID, logf)
		}(idx, g)
	}

	return &pool{wg: &wg}
}

// worker is the per-graph attempt loop.
func worker(ctx *Context, g *graph.Graph, keys []uint32, m Maskers, salt uint64, workerID int, logf func(string, ...interface{})) {
	for ctx.ShouldContinue() {
		attempt := ctx.IncrAttempts()
		g.Reset(hashmask.DeriveSeeds(salt, uint64(attempt)))

		switch runAttempt(ctx, g, keys, m) {
		case attemptWon:
			if logf != nil {
				logf("solver: worker %d won on attempt %d", workerID, attempt)
			}
			ctx.signal(outcomeSucceeded)
			return
		case attemptAlreadyWon:
			return
		case attemptFailed:
			ctx.IncrFailed()
		}
	}
}

// wait blocks until every worker in p has returned.
func (p *pool) wait() {
	p.wg.Wait()
}
