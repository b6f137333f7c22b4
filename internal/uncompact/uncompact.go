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

// Package uncompact implements the uncompaction engine (C5): it expands
// ancestor-resolution rows returned by a multi-resolution query back
// into target-resolution rows, repeating companion columns faithfully.
package uncompact

import (
	"github.com/nmandery/cellwalk/internal/colvec"
	"github.com/nmandery/cellwalk/internal/cwerr"
	"github.com/nmandery/cellwalk/internal/h3cell"
)

// Expand rewrites block so every row's H3 cell is at the resolution of
// cells[0] (spec §4.5). cells is the query's requested cell set, used
// both to determine the target resolution and to filter which children
// of a coarser ancestor row are actually emitted -- an emitted cell
// always lies in the query set, never merely among all of an ancestor's
// children.
func Expand(cells []h3cell.Cell, h3col string, block *colvec.ColumnSet) (*colvec.ColumnSet, error) {
	if len(cells) == 0 {
		return nil, cwerr.NewEmptyCellsError()
	}
	target := cells[0].Resolution()
	querySet := make(map[h3cell.Cell]bool, len(cells))
	for _, c := range cells {
		querySet[c] = true
	}

	ids, err := block.H3Column(h3col)
	if err != nil {
		return nil, err
	}

	var expandedH3 []uint64
	reps := make([]int, len(ids))

	for i, id := range ids {
		cell := h3cell.Cell(id)
		res := cell.Resolution()
		switch {
		case res == target:
			expandedH3 = append(expandedH3, id)
			reps[i] = 1
		case res < target:
			children, err := cell.Children(target)
			if err != nil {
				return nil, cwerr.NewInvalidCellError(id)
			}
			count := 0
			for _, child := range children {
				if querySet[child] {
					expandedH3 = append(expandedH3, uint64(child))
					count++
				}
			}
			reps[i] = count
		default:
			return nil, cwerr.NewInvalidResolutionError(res)
		}
	}

	outColumns := map[string]colvec.ColVec{}
	for name, col := range block.Columns {
		if name == h3col {
			continue
		}
		outColumns[name] = col.Repeat(reps)
	}
	outColumns[h3col] = colvec.NewH3IndexVec(expandedH3)

	return colvec.NewColumnSet(outColumns)
}
