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

	"github.com/nmandery/cellwalk/internal/h3cell"
	"github.com/nmandery/cellwalk/internal/tableset"
)

// ToCompacted groups rows of cs whose h3col cells are full sibling sets
// (every child of a common parent present exactly once) and replaces
// each such group with a single row at the parent cell, per spec §3.
// Rows whose sibling set is incomplete pass through unchanged, still at
// their original resolution.
//
// aggregations controls, by column name, how a companion column's
// values are combined when a group collapses. A column absent from
// aggregations keeps its first child's value: the real roll-up for
// Sum/Average-declared columns happens again during the table's
// background merges once SummingMergeTree/AggregatingMergeTree observe
// repeated keys, so this layer only needs to avoid losing rows outright
// before the insert.
func (cs *ColumnSet) ToCompacted(h3col string, aggregations map[string]tableset.AggregationKind) (*ColumnSet, error) {
	ids, err := cs.H3Column(h3col)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return cs, nil
	}

	resolution := h3cell.Cell(ids[0]).Resolution()
	indexOf := make(map[uint64]int, len(ids))
	for i, id := range ids {
		indexOf[id] = i
	}

	// outSources[j] lists the input row indices collapsed into output
	// row j (length 1 for a pass-through row, len(children) for a group).
	var outSources [][]int
	var h3Out []uint64
	claimed := make([]bool, len(ids))

	for i, id := range ids {
		if claimed[i] {
			continue
		}
		parent, err := h3cell.Cell(id).Parent(resolution - 1)
		group := []int{i}
		complete := err == nil
		if complete {
			children, cerr := parent.Children(resolution)
			if cerr != nil || len(children) == 0 {
				complete = false
			} else {
				group = group[:0]
				for _, child := range children {
					idx, ok := indexOf[uint64(child)]
					if !ok || claimed[idx] {
						complete = false
						break
					}
					group = append(group, idx)
				}
			}
		}
		if complete {
			for _, idx := range group {
				claimed[idx] = true
			}
			outSources = append(outSources, group)
			h3Out = append(h3Out, uint64(parent))
		} else {
			claimed[i] = true
			outSources = append(outSources, []int{i})
			h3Out = append(h3Out, id)
		}
	}

	// Order output rows by each group's first source index so the
	// one-hot Repeat in compactColumn lines up with h3Out.
	order := make([]int, len(outSources))
	for j := range order {
		order[j] = j
	}
	sort.Slice(order, func(a, b int) bool { return outSources[order[a]][0] < outSources[order[b]][0] })
	sortedSources := make([][]int, len(order))
	sortedH3 := make([]uint64, len(order))
	for k, j := range order {
		sortedSources[k], sortedH3[k] = outSources[j], h3Out[j]
	}
	outSources, h3Out = sortedSources, sortedH3

	outColumns := map[string]ColVec{h3col: NewH3IndexVec(h3Out)}
	for name, col := range cs.Columns {
		if name == h3col {
			continue
		}
		outColumns[name] = compactColumn(col, outSources, aggregations[name])
	}
	return NewColumnSet(outColumns)
}

// compactColumn reduces each group of source indices in outSources to
// one output value, applying agg for numeric vectors when requested and
// otherwise keeping the first source row's value.
func compactColumn(col ColVec, outSources [][]int, agg tableset.AggregationKind) ColVec {
	if agg == tableset.AggregationSum || agg == tableset.AggregationAverage {
		if aggregated, ok := aggregateNumeric(col, outSources, agg); ok {
			return aggregated
		}
	}
	// "First child's value" is expressed as a one-hot Repeat mask: each
	// group's first source index gets rep=1, everything else rep=0.
	// Repeat walks indices in ascending order, which is the order
	// ToCompacted sorts outSources into (by each group's first index),
	// so the result lines up with h3Out.
	one := make([]int, col.Len())
	for _, group := range outSources {
		one[group[0]] = 1
	}
	return col.Repeat(one)
}
