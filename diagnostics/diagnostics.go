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

// Package diagnostics writes an optional, compressed, line-oriented log
// of per-attempt solver progress: useful for post-mortem analysis of a
// build that took many resize rounds or never converged.
package diagnostics

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Log appends progress lines to an underlying zstd stream. The zero
// value is not usable; construct one with NewLog.
type Log struct {
	w   *zstd.Encoder
	buildID string
}

// NewLog wraps w in a zstd encoder and tags every line with buildID, a
// per-Build correlation id so multiple builds' logs can be concatenated
// without ambiguity.
func NewLog(w io.Writer, buildID string) (*Log, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &Log{w: enc, buildID: buildID}, nil
}

// Attempt records one attempt's outcome.
func (l *Log) Attempt(dims, attempt uint64, deleted, collisions uint64, won bool) {
	fmt.Fprintf(l.w, "%s build=%s attempt=%d dims=%d deleted=%d collisions=%d won=%t\n",
		time.Now().UTC().Format(time.RFC3339Nano), l.buildID, attempt, dims, deleted, collisions, won)
}

// Resize records a resize event.
func (l *Log) Resize(fromV, toV uint32, closestApproach uint64) {
	fmt.Fprintf(l.w, "%s build=%s resize from=%d to=%d closest_approach=%d\n",
		time.Now().UTC().Format(time.RFC3339Nano), l.buildID, fromV, toV, closestApproach)
}

// Close flushes and closes the underlying zstd stream.
func (l *Log) Close() error {
	return l.w.Close()
}
