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

// Package solver runs the parallel CHM attempt loop: a pool of workers
// each repeatedly reseed, build, and peel their own graph, coordinated
// through atomics and a condition variable, until one attempt wins or
// the controller decides to try a larger table.
package solver

import (
	"sync"
	"sync/atomic"

	"github.com/perfecthash/chm/graph"
)

// outcome names which event, if any, has been signalled for the current
// round of attempts. Only one of these is ever active at a time; each
// round (each resize iteration) starts from a fresh Context.
type outcome int32

const (
	outcomeNone outcome = iota
	outcomeSucceeded
	outcomeFailed
	outcomeShutdown
	outcomeTryLargerTableSize
)

// Context is the control context shared by every worker in one round of
// attempts: the only mutable state that crosses worker boundaries, and
// every field on it is either atomic or guarded by cond's mutex.
type Context struct {
	attempts                 int64
	failedAttempts           int64
	finishedCount            int64
	highestDeletedEdgesCount int64

	outcome int32 // atomic outcome

	mu    sync.Mutex
	cond  *sync.Cond
	stack []*finishedGraph // lock-free LIFO would need a CAS-linked list;
	// a mutex-guarded slice gives the same externally-observable
	// semantics (push/pop, winner-takes-one) with far less code, and
	// contention is a non-issue since at most one push ever happens.
}

// finishedGraph is one winning attempt pushed onto Context's finished
// stack: its graph (already assigned) and the seeds that produced it.
type finishedGraph struct {
	g *graph.Graph
}

// NewContext returns a fresh Context for one round of attempts at a
// fixed dimension.
func NewContext() *Context {
	c := &Context{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// IncrAttempts records the start of a new attempt and returns the new
// total.
func (c *Context) IncrAttempts() int64 {
	return atomic.AddInt64(&c.attempts, 1)
}

// Attempts returns the number of attempts started so far this round.
func (c *Context) Attempts() int64 {
	return atomic.LoadInt64(&c.attempts)
}

// IncrFailed records one locally-recovered attempt failure (v1==v2 or
// not acyclic).
func (c *Context) IncrFailed() int64 {
	return atomic.AddInt64(&c.failedAttempts, 1)
}

// FailedAttempts returns the number of locally-recovered failures this
// round.
func (c *Context) FailedAttempts() int64 {
	return atomic.LoadInt64(&c.failedAttempts)
}

// ClaimWin performs the single atomic 0->1 transition of finishedCount.
// Exactly one caller across every worker ever sees claimed==true.
func (c *Context) ClaimWin() (claimed bool) {
	return atomic.AddInt64(&c.finishedCount, 1) == 1
}

// FinishedCount reports the current finishedCount; workers poll this to
// decide whether to keep attempting.
func (c *Context) FinishedCount() int64 {
	return atomic.LoadInt64(&c.finishedCount)
}

// RecordDeleted updates the closest-approach high-water mark for a
// failed attempt's deleted-edge count.
func (c *Context) RecordDeleted(deleted uint64) {
	for {
		cur := atomic.LoadInt64(&c.highestDeletedEdgesCount)
		next := int64(deleted)
		if next <= cur {
			return
		}
		if atomic.CompareAndSwapInt64(&c.highestDeletedEdgesCount, cur, next) {
			return
		}
	}
}

// HighestDeletedEdgesCount returns the closest-approach high-water mark.
func (c *Context) HighestDeletedEdgesCount() uint64 {
	return uint64(atomic.LoadInt64(&c.highestDeletedEdgesCount))
}

// signal sets the round's outcome event and wakes every waiter. Setting
// an event twice in the same round is a no-op: the first signal wins.
func (c *Context) signal(o outcome) {
	atomic.CompareAndSwapInt32(&c.outcome, int32(outcomeNone), int32(o))
	c.cond.L.Lock()
	c.cond.Broadcast()
	c.cond.L.Unlock()
}

// Outcome returns the currently-signalled event, or outcomeNone if none
// has fired yet.
func (c *Context) Outcome() outcome {
	return outcome(atomic.LoadInt32(&c.outcome))
}

// ShouldContinue reports whether a worker should keep attempting: no
// outcome has been signalled and no attempt has won yet.
func (c *Context) ShouldContinue() bool {
	return c.Outcome() == outcomeNone && c.FinishedCount() == 0
}

// Wait blocks until an outcome is signalled and returns it.
func (c *Context) Wait() outcome {
	c.cond.L.Lock()
	for c.Outcome() == outcomeNone {
		c.cond.Wait()
	}
	c.cond.L.Unlock()
	return c.Outcome()
}

// pushFinished records the winning graph. Only the attempt that claimed
// the win ever calls this.
func (c *Context) pushFinished(g *graph.Graph) {
	c.mu.Lock()
	c.stack = append(c.stack, &finishedGraph{g: g})
	c.mu.Unlock()
}

// popFinished pops the winning graph, if any.
func (c *Context) popFinished() (*graph.Graph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.stack)
	if n == 0 {
		return nil, false
	}
	top := c.stack[n-1]
	c.stack = c.stack[:n-1]
	return top.g, true
}
