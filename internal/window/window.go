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

// Package window implements the sliding-window driver (C6): it chunks a
// polygon query into a sequence of coarse "window" cells, each later
// expanded by driver.go into the target-resolution children actually
// worth querying.
package window

import (
	"github.com/nmandery/cellwalk/internal/cwerr"
	"github.com/nmandery/cellwalk/internal/h3cell"
	"github.com/nmandery/cellwalk/internal/tableset"
)

// SlidingH3Window is the single-owner cursor state from spec §3: a
// polygon, the window cells it was polyfilled into at WindowResolution,
// and a cursor advanced by NextWindow. Not safe for concurrent use.
type SlidingH3Window struct {
	Polygon          h3cell.Polygon
	Rect             h3cell.BoundingRect
	TargetResolution int
	WindowResolution int

	cells  []h3cell.Cell
	cursor int
}

// NewSlidingWindow builds a window driver over polygon (spec §4.6).
// windowMaxSize bounds the worst-case child count 7^(target-window); the
// coarsest tableset resolution satisfying that bound, at or below
// targetResolution, is chosen as the window resolution.
func NewSlidingWindow(polygon h3cell.Polygon, ts *tableset.TableSet, targetResolution, windowMaxSize int) (*SlidingH3Window, error) {
	rect := h3cell.BoundingRectOf(polygon)
	if rect.Empty() {
		return nil, cwerr.NewEmptyPolygonError()
	}

	windowResolution, err := chooseWindowResolution(ts, targetResolution, windowMaxSize)
	if err != nil {
		return nil, err
	}

	base, err := h3cell.Polyfill(polygon, windowResolution)
	if err != nil {
		return nil, err
	}

	seen := map[h3cell.Cell]bool{}
	var cells []h3cell.Cell
	for _, c := range base {
		ring, err := c.KRing(1)
		if err != nil {
			return nil, err
		}
		for _, r := range ring {
			if seen[r] {
				continue
			}
			seen[r] = true
			if h3cell.Intersects(r, polygon) {
				cells = append(cells, r)
			}
		}
	}

	return &SlidingH3Window{
		Polygon:          polygon,
		Rect:             rect,
		TargetResolution: targetResolution,
		WindowResolution: windowResolution,
		cells:            cells,
	}, nil
}

// chooseWindowResolution picks the smallest (coarsest) resolution the
// tableset has a table for, no finer than target, whose worst-case
// child count 7^(target-r) stays within windowMaxSize. Cost shrinks
// monotonically as r grows, so the first qualifying resolution scanned
// ascending is the coarsest one.
func chooseWindowResolution(ts *tableset.TableSet, target, windowMaxSize int) (int, error) {
	present := map[int]bool{}
	for _, t := range ts.Tables() {
		present[int(t.Spec.H3Resolution)] = true
	}
	for r := 0; r <= target; r++ {
		if !present[r] {
			continue
		}
		if childCountBound(target-r) <= windowMaxSize {
			return r, nil
		}
	}
	return 0, cwerr.NewNoQueryableTablesError()
}

func childCountBound(levels int) int {
	n := 1
	for i := 0; i < levels; i++ {
		n *= 7
	}
	return n
}

// NextWindow returns the next window cell and advances the cursor, or
// (0, false) once every window has been consumed.
func (w *SlidingH3Window) NextWindow() (h3cell.Cell, bool) {
	if w.cursor >= len(w.cells) {
		return 0, false
	}
	c := w.cells[w.cursor]
	w.cursor++
	return c, true
}

// Remaining reports how many windows are left to consume.
func (w *SlidingH3Window) Remaining() int {
	return len(w.cells) - w.cursor
}

// Len returns the total number of window cells this driver produced.
func (w *SlidingH3Window) Len() int {
	return len(w.cells)
}
