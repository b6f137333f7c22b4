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
	"testing"

	"github.com/nmandery/cellwalk/internal/h3cell"
	"github.com/nmandery/cellwalk/internal/tableset"
)

const sanFrancisco = h3cell.Cell(0x85283473fffffff) // resolution 5

func waterTableset() *tableset.TableSet {
	ts := tableset.NewTableSet("water")
	for _, r := range []uint8{3, 4, 5} {
		ts.BaseTables[r] = tableset.NewBaseTableSpec(r, true)
	}
	return ts
}

func TestChooseWindowResolutionPicksCoarsest(t *testing.T) {
	ts := waterTableset()
	r, err := chooseWindowResolution(ts, 5, 50)
	if err != nil {
		t.Fatal(err)
	}
	if r != 3 {
		t.Errorf("chooseWindowResolution = %d, want 3 (7^(5-3)=49 <= 50)", r)
	}
}

func TestChooseWindowResolutionFallsBackToFinerWhenBoundTight(t *testing.T) {
	ts := waterTableset()
	r, err := chooseWindowResolution(ts, 5, 6)
	if err != nil {
		t.Fatal(err)
	}
	if r != 5 {
		t.Errorf("chooseWindowResolution = %d, want 5 (only res matching the tight bound)", r)
	}
}

func TestChooseWindowResolutionFailsWhenNoneQualify(t *testing.T) {
	ts := tableset.NewTableSet("water")
	ts.BaseTables[5] = tableset.NewBaseTableSpec(5, true)
	if _, err := chooseWindowResolution(ts, 5, 0); err == nil {
		t.Fatal("expected NoQueryableTablesError when the bound admits nothing")
	}
}

func TestNewSlidingWindowRejectsEmptyPolygon(t *testing.T) {
	ts := waterTableset()
	if _, err := NewSlidingWindow(h3cell.Polygon{}, ts, 5, 50); err == nil {
		t.Fatal("expected EmptyPolygonError")
	}
}

func TestNewSlidingWindowProducesIntersectingCells(t *testing.T) {
	ts := waterTableset()
	ancestor, err := sanFrancisco.Parent(2)
	if err != nil {
		t.Fatal(err)
	}
	poly := h3cell.Polygon{Outer: ancestor.Polygon()}

	w, err := NewSlidingWindow(poly, ts, 5, 50)
	if err != nil {
		t.Fatal(err)
	}
	if w.Len() == 0 {
		t.Fatal("expected at least one window cell")
	}
	if w.Remaining() != w.Len() {
		t.Fatalf("Remaining() = %d before any NextWindow call, want %d", w.Remaining(), w.Len())
	}

	count := 0
	for {
		cell, ok := w.NextWindow()
		if !ok {
			break
		}
		count++
		if !h3cell.Intersects(cell, poly) {
			t.Errorf("window cell %d does not intersect the source polygon", cell)
		}
	}
	if count != w.Len() {
		t.Errorf("drained %d cells, want %d", count, w.Len())
	}
	if _, ok := w.NextWindow(); ok {
		t.Error("NextWindow should report exhausted after draining every cell")
	}
}
