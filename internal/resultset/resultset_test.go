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

package resultset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nmandery/cellwalk/internal/colvec"
	"github.com/nmandery/cellwalk/internal/cwerr"
)

func TestWaitReturnsMaterializedResult(t *testing.T) {
	want, err := colvec.NewColumnSet(map[string]colvec.ColVec{
		"count": colvec.NewUInt32Vec([]uint32{1, 2, 3}),
	})
	if err != nil {
		t.Fatal(err)
	}

	rs := Spawn(context.Background(), func(ctx context.Context) (*colvec.ColumnSet, error) {
		return want, nil
	})

	got, elapsed, err := rs.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Error("Wait did not return the spawned ColumnSet")
	}
	if elapsed < 0 {
		t.Errorf("elapsed = %v, want non-negative", elapsed)
	}
}

func TestSecondWaitFailsAlreadyConsumed(t *testing.T) {
	rs := Spawn(context.Background(), func(ctx context.Context) (*colvec.ColumnSet, error) {
		return &colvec.ColumnSet{Columns: map[string]colvec.ColVec{}}, nil
	})

	if _, _, err := rs.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, _, err := rs.Wait(context.Background())
	if err == nil {
		t.Fatal("expected ResultAlreadyConsumedError on the second Wait")
	}
	var alreadyConsumed *cwerr.ResultAlreadyConsumedError
	if !errors.As(err, &alreadyConsumed) {
		t.Errorf("error = %v, want ResultAlreadyConsumedError", err)
	}
}

func TestWaitPropagatesQueryError(t *testing.T) {
	queryErr := cwerr.NewDatabaseError(errors.New("connection reset"))
	rs := Spawn(context.Background(), func(ctx context.Context) (*colvec.ColumnSet, error) {
		return nil, queryErr
	})
	_, _, err := rs.Wait(context.Background())
	if !errors.Is(err, queryErr) {
		t.Errorf("err = %v, want %v", err, queryErr)
	}
}

func TestCancelAbandonsPendingQuery(t *testing.T) {
	started := make(chan struct{})
	rs := Spawn(context.Background(), func(ctx context.Context) (*colvec.ColumnSet, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	<-started
	rs.Cancel()

	_, _, err := rs.Wait(context.Background())
	if err == nil {
		t.Fatal("expected the cancelled query's context error to propagate")
	}
}

func TestQueryDurationSeconds(t *testing.T) {
	if got := QueryDurationSeconds(1500 * time.Millisecond); got != 1.5 {
		t.Errorf("QueryDurationSeconds(1.5s) = %v, want 1.5", got)
	}
}
