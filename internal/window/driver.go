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

package window

import (
	"context"

	"github.com/nmandery/cellwalk/internal/colvec"
	"github.com/nmandery/cellwalk/internal/h3cell"
	"github.com/nmandery/cellwalk/internal/planner"
	"github.com/nmandery/cellwalk/internal/tableset"
	"github.com/nmandery/cellwalk/internal/uncompact"
)

// Prober runs a read-only probe query and reports only whether it
// returned any rows -- the prefetch check of spec §4.6.
type Prober interface {
	ProbeNonEmpty(ctx context.Context, sql string) (bool, error)
}

// QueryRunner executes a SELECT and materializes it into a ColumnSet.
// C8's connection pool (internal/chpool) and C7's awaitable result set
// are the production implementation; tests supply a fake.
type QueryRunner interface {
	RunQuery(ctx context.Context, sql string) (*colvec.ColumnSet, error)
}

// WindowResult is one per-window query outcome: the window cell that
// produced it, plus the uncompacted column block.
type WindowResult struct {
	WindowCell h3cell.Cell
	Columns    *colvec.ColumnSet
}

// probeNonEmpty builds the prefetch probe for window cell w: a
// LIMIT-1-wrapped union across every resolution r <= w.Resolution()
// that could hold w's ancestor, sharing C4's own planning code path
// rather than a bespoke query string (spec §9).
func probeNonEmpty(ctx context.Context, prober Prober, w h3cell.Cell, ts *tableset.TableSet) (bool, error) {
	sql, err := planner.Plan([]h3cell.Cell{w}, planner.AutoGenerated(), ts)
	if err != nil {
		return false, err
	}
	wrapped := "select 1 from (" + sql + ") limit 1"
	return prober.ProbeNonEmpty(ctx, wrapped)
}

// ProcessWindow implements the per-window consumer of spec §4.6/§4.7 for
// a single window cell w: probe, then (if non-empty) enumerate w's
// children at targetResolution, keep only those whose own polygon
// intersects polygon, plan+run a query over them, and uncompact the
// result back to targetResolution. ok is false when the window produced
// no result (empty probe, or no child intersects the polygon).
func ProcessWindow(
	ctx context.Context,
	w h3cell.Cell,
	ts *tableset.TableSet,
	query planner.TableSetQuery,
	polygon h3cell.Polygon,
	targetResolution int,
	h3col string,
	prober Prober,
	runner QueryRunner,
) (*WindowResult, bool, error) {
	nonEmpty, err := probeNonEmpty(ctx, prober, w, ts)
	if err != nil {
		return nil, false, err
	}
	if !nonEmpty {
		return nil, false, nil
	}

	children, err := w.Children(targetResolution)
	if err != nil {
		return nil, false, err
	}
	var candidates []h3cell.Cell
	for _, c := range children {
		if h3cell.Intersects(c, polygon) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, false, nil
	}

	sql, err := planner.Plan(candidates, query, ts)
	if err != nil {
		return nil, false, err
	}
	block, err := runner.RunQuery(ctx, sql)
	if err != nil {
		return nil, false, err
	}
	expanded, err := uncompact.Expand(candidates, h3col, block)
	if err != nil {
		return nil, false, err
	}
	return &WindowResult{WindowCell: w, Columns: expanded}, true, nil
}

// RunAll drains w, invoking ProcessWindow for every window cell in
// polyfill order and collecting the non-skipped results (spec S7).
func RunAll(
	ctx context.Context,
	w *SlidingH3Window,
	ts *tableset.TableSet,
	query planner.TableSetQuery,
	h3col string,
	prober Prober,
	runner QueryRunner,
) ([]*WindowResult, error) {
	var results []*WindowResult
	for {
		cell, ok := w.NextWindow()
		if !ok {
			break
		}
		result, ok, err := ProcessWindow(ctx, cell, ts, query, w.Polygon, w.TargetResolution, h3col, prober, runner)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, result)
		}
	}
	return results, nil
}
