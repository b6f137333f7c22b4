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

package colvec

import (
	"sort"

	"github.com/nmandery/cellwalk/internal/cwerr"
	"github.com/nmandery/cellwalk/internal/h3cell"
)

// ColumnSet is a named bundle of equal-length ColVecs -- the shape the
// client receives: {column-name -> typed vector} (spec §6).
type ColumnSet struct {
	Columns map[string]ColVec
}

// NewColumnSet validates that every column shares one length before
// returning the set, per the invariant in spec §3.
func NewColumnSet(columns map[string]ColVec) (*ColumnSet, error) {
	n := -1
	for _, col := range columns {
		if n == -1 {
			n = col.Len()
			continue
		}
		if col.Len() != n {
			return nil, cwerr.NewDifferentColumnLengthError(col.Len(), n, n)
		}
	}
	return &ColumnSet{Columns: columns}, nil
}

// Len returns the shared row count, or 0 for an empty set.
func (cs *ColumnSet) Len() int {
	for _, col := range cs.Columns {
		return col.Len()
	}
	return 0
}

// Column fetches a named column, or ColumnNotFoundError.
func (cs *ColumnSet) Column(name string) (ColVec, error) {
	col, ok := cs.Columns[name]
	if !ok {
		return nil, cwerr.NewColumnNotFoundError(name)
	}
	return col, nil
}

// H3Column fetches the H3 index column as a plain []uint64. The column
// must be stored as a *Vector[uint64] (the common case after a planner
// query); any other type yields IncompatibleDatatypeError. Used by
// uncompaction and SplitByResolution/ToCompacted.
func (cs *ColumnSet) H3Column(name string) ([]uint64, error) {
	col, err := cs.Column(name)
	if err != nil {
		return nil, err
	}
	v, ok := col.(*Vector[uint64])
	if !ok {
		return nil, cwerr.NewIncompatibleDatatypeError("column " + name + " is not a UInt64 H3 index vector")
	}
	return v.Data, nil
}

// SplitByResolution partitions cs by the H3 resolution of each row's
// h3col cell, per spec §3. If dropH3Col is true the H3 column itself is
// omitted from each resulting set (callers that already know the
// resolution per bucket don't need it repeated).
func SplitByResolution(cs *ColumnSet, h3col string, dropH3Col bool) (map[int]*ColumnSet, error) {
	ids, err := cs.H3Column(h3col)
	if err != nil {
		return nil, err
	}

	bucketOf := make([]int, len(ids))
	counts := map[int]int{}
	for i, id := range ids {
		r := h3cell.Cell(id).Resolution()
		bucketOf[i] = r
		counts[r]++
	}

	out := map[int]*ColumnSet{}
	for r := range counts {
		columns := map[string]ColVec{}
		for name, col := range cs.Columns {
			if dropH3Col && name == h3col {
				continue
			}
			reps := make([]int, col.Len())
			for i, b := range bucketOf {
				if b == r {
					reps[i] = 1
				}
			}
			columns[name] = col.Repeat(reps)
		}
		out[r], err = NewColumnSet(columns)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// sortedResolutions is a small helper used by callers that want a
// deterministic walk over SplitByResolution's output.
func sortedResolutions(m map[int]*ColumnSet) []int {
	out := make([]int, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

// SortedResolutions exposes sortedResolutions for callers outside the package.
func SortedResolutions(m map[int]*ColumnSet) []int { return sortedResolutions(m) }
