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
	"testing"

	"github.com/nmandery/cellwalk/internal/h3cell"
	"github.com/nmandery/cellwalk/internal/tableset"
)

// sanFrancisco is the same resolution-5 fixture h3cell's own tests use.
const sanFrancisco = h3cell.Cell(0x85283473fffffff)

// fullSiblingGroup returns every resolution-5 child of sanFrancisco's
// resolution-4 parent -- a complete sibling set ToCompacted must collapse.
func fullSiblingGroup(t *testing.T) []uint64 {
	t.Helper()
	parent, err := sanFrancisco.Parent(4)
	if err != nil {
		t.Fatal(err)
	}
	children, err := parent.Children(5)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]uint64, len(children))
	for i, c := range children {
		out[i] = uint64(c)
	}
	return out
}

func TestToCompactedCollapsesCompleteSiblingGroup(t *testing.T) {
	children := fullSiblingGroup(t)
	counts := make([]uint64, len(children))
	for i := range counts {
		counts[i] = uint64(i + 1)
	}

	cs, err := NewColumnSet(map[string]ColVec{
		"h3index": NewH3IndexVec(children),
		"count":   NewUInt64Vec(counts),
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := cs.ToCompacted("h3index", map[string]tableset.AggregationKind{
		"count": tableset.AggregationSum,
	})
	if err != nil {
		t.Fatal(err)
	}

	if out.Len() != 1 {
		t.Fatalf("ToCompacted() produced %d rows, want 1 (complete sibling group)", out.Len())
	}

	gotID, err := out.H3Column("h3index")
	if err != nil {
		t.Fatal(err)
	}
	parent, err := sanFrancisco.Parent(4)
	if err != nil {
		t.Fatal(err)
	}
	if gotID[0] != uint64(parent) {
		t.Errorf("compacted h3index = %d, want parent %d", gotID[0], uint64(parent))
	}

	var wantSum uint64
	for _, c := range counts {
		wantSum += c
	}
	gotCount := out.Columns["count"].(*Vector[uint64]).Data
	if gotCount[0] != wantSum {
		t.Errorf("compacted count = %d, want sum %d", gotCount[0], wantSum)
	}
}

func TestToCompactedPassesThroughIncompleteSiblingGroup(t *testing.T) {
	children := fullSiblingGroup(t)[:len(fullSiblingGroup(t))-1] // drop one sibling

	counts := make([]uint64, len(children))
	for i := range counts {
		counts[i] = uint64(i + 1)
	}

	cs, err := NewColumnSet(map[string]ColVec{
		"h3index": NewH3IndexVec(children),
		"count":   NewUInt64Vec(counts),
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := cs.ToCompacted("h3index", map[string]tableset.AggregationKind{
		"count": tableset.AggregationSum,
	})
	if err != nil {
		t.Fatal(err)
	}

	if out.Len() != len(children) {
		t.Fatalf("ToCompacted() produced %d rows, want %d (pass-through, no complete group)", out.Len(), len(children))
	}
	gotIDs, err := out.H3Column("h3index")
	if err != nil {
		t.Fatal(err)
	}
	for i, id := range gotIDs {
		if id != children[i] {
			t.Errorf("pass-through row %d = %d, want original child %d", i, id, children[i])
		}
		if h3cell.Cell(id).Resolution() != 5 {
			t.Errorf("pass-through row %d resolution = %d, want unchanged resolution 5", i, h3cell.Cell(id).Resolution())
		}
	}
}

func TestToCompactedNonAggregatedColumnKeepsFirstChildValue(t *testing.T) {
	children := fullSiblingGroup(t)
	labels := make([]uint32, len(children))
	for i := range labels {
		labels[i] = uint32(100 + i)
	}

	cs, err := NewColumnSet(map[string]ColVec{
		"h3index": NewH3IndexVec(children),
		"label":   NewUInt32Vec(labels),
	})
	if err != nil {
		t.Fatal(err)
	}

	// label has no entry in aggregations, so it must fall back to
	// first-child-value semantics rather than being summed.
	out, err := cs.ToCompacted("h3index", map[string]tableset.AggregationKind{})
	if err != nil {
		t.Fatal(err)
	}

	if out.Len() != 1 {
		t.Fatalf("ToCompacted() produced %d rows, want 1", out.Len())
	}
	gotLabel := out.Columns["label"].(*Vector[uint32]).Data
	if gotLabel[0] != labels[0] {
		t.Errorf("non-aggregated compacted label = %d, want first child's value %d", gotLabel[0], labels[0])
	}
}
