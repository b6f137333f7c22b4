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

// Package h3cell adapts github.com/uber/h3-go/v4 to the small surface
// cellwalk needs: resolution, parent/children, k-ring, base cell,
// validity and polygon containment. The hexagonal indexing library
// itself is an external collaborator (spec §1); this package is the one
// seam cellwalk's domain packages use instead of importing h3-go
// directly everywhere.
package h3cell

import (
	"fmt"
	"sort"

	"github.com/uber/h3-go/v4"
)

// Cell is a 64-bit H3 cell index.
type Cell uint64

// MinResolution and MaxResolution bound the valid H3 resolution range.
const (
	MinResolution = 0
	MaxResolution = 15
)

func (c Cell) h3() h3.Cell { return h3.Cell(c) }

// IsValid reports whether c is a well-formed H3 index.
func (c Cell) IsValid() bool {
	return c.h3().IsValid()
}

// Resolution returns c's resolution, 0..15.
func (c Cell) Resolution() int {
	return c.h3().Resolution()
}

// BaseCell returns the index of c's icosahedron base cell.
func (c Cell) BaseCell() int {
	return c.h3().BaseCell()
}

// Parent returns c's ancestor at resolution r. r must be <= c.Resolution().
func (c Cell) Parent(r int) (Cell, error) {
	p, err := c.h3().Parent(r)
	if err != nil {
		return 0, fmt.Errorf("h3 parent(%d): %w", r, err)
	}
	return Cell(p), nil
}

// Children returns every descendant of c at resolution r, in the
// library's deterministic iteration order. r must be >= c.Resolution().
func (c Cell) Children(r int) ([]Cell, error) {
	kids, err := c.h3().Children(r)
	if err != nil {
		return nil, fmt.Errorf("h3 children(%d): %w", r, err)
	}
	out := make([]Cell, len(kids))
	for i, k := range kids {
		out[i] = Cell(k)
	}
	return out, nil
}

// KRing returns c and every cell within grid distance k of it ("k-ring").
func (c Cell) KRing(k int) ([]Cell, error) {
	disk, err := c.h3().GridDisk(k)
	if err != nil {
		return nil, fmt.Errorf("h3 gridDisk(%d): %w", k, err)
	}
	out := make([]Cell, len(disk))
	for i, d := range disk {
		out[i] = Cell(d)
	}
	return out, nil
}

// Polygon returns the geographic boundary of c as a closed ring of
// (lat, lng) pairs.
func (c Cell) Polygon() []LatLng {
	boundary := c.h3().Boundary()
	out := make([]LatLng, len(boundary))
	for i, p := range boundary {
		out[i] = LatLng{Lat: p.Lat, Lng: p.Lng}
	}
	return out
}

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat, Lng float64
}

// Polygon is a simple polygon: an outer loop plus optional holes, both
// as closed-implicit vertex lists (no repeated first/last point).
type Polygon struct {
	Outer []LatLng
	Holes [][]LatLng
}

// BoundingRect is the smallest lat/lng-aligned rectangle containing a
// polygon's outer loop.
type BoundingRect struct {
	MinLat, MaxLat, MinLng, MaxLng float64
}

// Empty reports whether the rectangle was never extended by a point,
// i.e. the source polygon had no vertices.
func (r BoundingRect) Empty() bool {
	return r == BoundingRect{}
}

// BoundingRectOf computes the bounding rectangle of poly's outer loop.
// Returns a zero-value, Empty() rect if the polygon has no vertices.
func BoundingRectOf(poly Polygon) BoundingRect {
	if len(poly.Outer) == 0 {
		return BoundingRect{}
	}
	rect := BoundingRect{
		MinLat: poly.Outer[0].Lat, MaxLat: poly.Outer[0].Lat,
		MinLng: poly.Outer[0].Lng, MaxLng: poly.Outer[0].Lng,
	}
	for _, p := range poly.Outer[1:] {
		rect.MinLat = min(rect.MinLat, p.Lat)
		rect.MaxLat = max(rect.MaxLat, p.Lat)
		rect.MinLng = min(rect.MinLng, p.Lng)
		rect.MaxLng = max(rect.MaxLng, p.Lng)
	}
	return rect
}

func toGeoLoop(pts []LatLng) h3.GeoLoop {
	loop := make(h3.GeoLoop, len(pts))
	for i, p := range pts {
		loop[i] = h3.LatLng{Lat: p.Lat, Lng: p.Lng}
	}
	return loop
}

// Polyfill returns every cell at resolution r whose centroid falls
// inside poly.
func Polyfill(poly Polygon, r int) ([]Cell, error) {
	geoPoly := h3.GeoPolygon{GeoLoop: toGeoLoop(poly.Outer)}
	for _, hole := range poly.Holes {
		geoPoly.Holes = append(geoPoly.Holes, toGeoLoop(hole))
	}
	cells, err := h3.PolygonToCells(geoPoly, r)
	if err != nil {
		return nil, fmt.Errorf("h3 polyfill(%d): %w", r, err)
	}
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = Cell(c)
	}
	return out, nil
}

// Intersects reports whether c's own polygon overlaps poly, approximated
// by testing c's boundary vertices and its centroid (the mean of those
// vertices): a point inside poly's bounding rect that also passes a
// point-in-polygon check counts as an overlap. A cell that overlaps poly
// without any of these points lying inside it (for example when only an
// edge of poly crosses the cell) is reported as not intersecting.
func Intersects(c Cell, poly Polygon) bool {
	rect := BoundingRectOf(poly)
	if rect.Empty() {
		return false
	}
	points := c.Polygon()
	if len(points) > 0 {
		var centroid LatLng
		for _, v := range points {
			centroid.Lat += v.Lat / float64(len(points))
			centroid.Lng += v.Lng / float64(len(points))
		}
		points = append(points, centroid)
	}
	for _, v := range points {
		if v.Lat >= rect.MinLat && v.Lat <= rect.MaxLat && v.Lng >= rect.MinLng && v.Lng <= rect.MaxLng {
			if pointInPolygon(v, poly) {
				return true
			}
		}
	}
	return false
}

// pointInPolygon is a standard ray-casting test against the outer loop,
// treating holes as exclusions.
func pointInPolygon(p LatLng, poly Polygon) bool {
	if !rayCast(p, poly.Outer) {
		return false
	}
	for _, hole := range poly.Holes {
		if rayCast(p, hole) {
			return false
		}
	}
	return true
}

func rayCast(p LatLng, loop []LatLng) bool {
	inside := false
	n := len(loop)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := loop[i], loop[j]
		if (a.Lng > p.Lng) != (b.Lng > p.Lng) {
			x := (b.Lat-a.Lat)*(p.Lng-a.Lng)/(b.Lng-a.Lng) + a.Lat
			if p.Lat < x {
				inside = !inside
			}
		}
	}
	return inside
}

// SortCells sorts cells into the stable ascending order cellwalk relies
// on for deterministic output (planner ancestor lists, uncompaction
// output order is NOT this order -- see uncompact, which preserves H3
// child iteration order instead).
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
}
