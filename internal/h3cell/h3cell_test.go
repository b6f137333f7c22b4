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

package h3cell

import "testing"

// sanFrancisco is a real resolution-5 H3 cell, reused across cellwalk's
// test suites as a stable fixture.
const sanFrancisco = Cell(0x85283473fffffff)

func TestResolutionAndValidity(t *testing.T) {
	if !sanFrancisco.IsValid() {
		t.Fatal("expected a well-formed cell")
	}
	if got := sanFrancisco.Resolution(); got != 5 {
		t.Errorf("Resolution() = %d, want 5", got)
	}
}

func TestParentChildRoundTrip(t *testing.T) {
	parent, err := sanFrancisco.Parent(3)
	if err != nil {
		t.Fatal(err)
	}
	if parent.Resolution() != 3 {
		t.Fatalf("parent resolution = %d, want 3", parent.Resolution())
	}

	children, err := parent.Children(5)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range children {
		if c == sanFrancisco {
			found = true
		}
	}
	if !found {
		t.Error("sanFrancisco not found among its resolution-3 ancestor's resolution-5 children")
	}
}

func TestKRingIncludesSelf(t *testing.T) {
	ring, err := sanFrancisco.KRing(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(ring) < 7 {
		t.Errorf("KRing(1) returned %d cells, want at least 7 (self + 6 neighbors)", len(ring))
	}
	found := false
	for _, c := range ring {
		if c == sanFrancisco {
			found = true
		}
	}
	if !found {
		t.Error("KRing(1) did not include the cell itself")
	}
}

func TestPolyfillFindsOriginCell(t *testing.T) {
	poly := Polygon{Outer: sanFrancisco.Polygon()}
	cells, err := Polyfill(poly, 5)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range cells {
		if c == sanFrancisco {
			found = true
		}
	}
	if !found {
		t.Errorf("Polyfill(own polygon, 5) = %v, want to include %d", cells, sanFrancisco)
	}
}

func TestIntersectsSelf(t *testing.T) {
	poly := Polygon{Outer: sanFrancisco.Polygon()}
	if !Intersects(sanFrancisco, poly) {
		t.Error("a cell must intersect its own polygon")
	}
}

func TestIntersectsEmptyPolygon(t *testing.T) {
	if Intersects(sanFrancisco, Polygon{}) {
		t.Error("an empty polygon should never intersect")
	}
}

func TestBoundingRectOfEmptyPolygon(t *testing.T) {
	rect := BoundingRectOf(Polygon{})
	if !rect.Empty() {
		t.Error("expected an empty bounding rect for a polygon with no vertices")
	}
}

func TestBoundingRectOfContainsVertices(t *testing.T) {
	poly := Polygon{Outer: sanFrancisco.Polygon()}
	rect := BoundingRectOf(poly)
	for _, v := range poly.Outer {
		if v.Lat < rect.MinLat || v.Lat > rect.MaxLat || v.Lng < rect.MinLng || v.Lng > rect.MaxLng {
			t.Errorf("vertex %+v outside computed bounding rect %+v", v, rect)
		}
	}
}

func TestSortCellsIsAscending(t *testing.T) {
	children, err := sanFrancisco.Children(6)
	if err != nil {
		t.Fatal(err)
	}
	// Children() has its own deterministic order, which need not be
	// numeric; scramble it before sorting to exercise SortCells.
	scrambled := append([]Cell(nil), children...)
	scrambled[0], scrambled[len(scrambled)-1] = scrambled[len(scrambled)-1], scrambled[0]

	SortCells(scrambled)
	for i := 1; i < len(scrambled); i++ {
		if scrambled[i-1] > scrambled[i] {
			t.Fatalf("SortCells did not produce ascending order at index %d: %v", i, scrambled)
		}
	}
}

func TestInvalidParentResolutionErrors(t *testing.T) {
	if _, err := sanFrancisco.Parent(10); err == nil {
		t.Error("expected an error requesting a parent finer than the cell's own resolution")
	}
}
