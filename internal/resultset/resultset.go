// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package resultset implements the asynchronous result-set handle (C7):
// a query is spawned on its own goroutine at construction time, and the
// first call to Wait transitions the handle from pending to
// materialized, recording elapsed wall time. The handle is single-shot;
// a second Wait fails with ResultAlreadyConsumedError.
package resultset

import (
	"context"
	"sync"
	"time"

	"github.com/nmandery/cellwalk/internal/colvec"
	"github.com/nmandery/cellwalk/internal/cwerr"
)

// QueryFunc produces the column block for a spawned query. Implementations
// should respect ctx cancellation so Cancel can abandon a pending result
// best-effort.
type QueryFunc func(ctx context.Context) (*colvec.ColumnSet, error)

// AwaitableResultSet is the Either<Materialized, Pending> handle of spec
// §4.7/§9: a tagged variant that transitions left-to-right exactly once,
// never inheritance.
type AwaitableResultSet struct {
	submittedAt time.Time
	cancel      context.CancelFunc
	done        chan struct{}

	mu       sync.Mutex
	consumed bool

	result  *colvec.ColumnSet
	err     error
	elapsed time.Duration
}

// Spawn submits fn on a new goroutine and returns immediately with a
// pending handle, recording the submission timestamp.
func Spawn(ctx context.Context, fn QueryFunc) *AwaitableResultSet {
	runCtx, cancel := context.WithCancel(ctx)
	rs := &AwaitableResultSet{
		submittedAt: time.Now(),
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	go func() {
		defer close(rs.done)
		cs, err := fn(runCtx)
		rs.result = cs
		rs.err = err
		rs.elapsed = time.Since(rs.submittedAt)
	}()
	return rs
}

// Wait blocks until the spawned query completes (or ctx is cancelled),
// returning the materialized ColumnSet, the elapsed wall time, and any
// query error. A second call -- on this handle or after the handle has
// already been consumed -- fails with ResultAlreadyConsumedError; the
// accessor's data has left the system (spec §4.7).
func (rs *AwaitableResultSet) Wait(ctx context.Context) (*colvec.ColumnSet, time.Duration, error) {
	rs.mu.Lock()
	if rs.consumed {
		rs.mu.Unlock()
		return nil, 0, cwerr.NewResultAlreadyConsumedError()
	}
	rs.consumed = true
	rs.mu.Unlock()

	select {
	case <-rs.done:
		return rs.result, rs.elapsed, rs.err
	case <-ctx.Done():
		return nil, 0, cwerr.NewIoError(ctx.Err())
	}
}

// Cancel abandons a pending result best-effort; the spawned query's
// context is cancelled, but the underlying database driver may still
// finish streaming, which callers must tolerate (spec §5). Cancel is
// safe to call whether or not Wait has already run.
func (rs *AwaitableResultSet) Cancel() {
	rs.cancel()
}

// SubmittedAt returns the submission timestamp recorded at Spawn.
func (rs *AwaitableResultSet) SubmittedAt() time.Time {
	return rs.submittedAt
}

// QueryDurationSeconds reports elapsed wall time as a float, the
// `query_duration_seconds` value offered to clients (spec §6). Only
// meaningful after Wait has returned.
func QueryDurationSeconds(elapsed time.Duration) float64 {
	return elapsed.Seconds()
}
