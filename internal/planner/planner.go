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

package planner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nmandery/cellwalk/internal/cwerr"
	"github.com/nmandery/cellwalk/internal/h3cell"
	"github.com/nmandery/cellwalk/internal/tableset"
)

// Plan builds the union-all multi-resolution SELECT for cells against
// ts, per spec §4.4. Preconditions: cells share one resolution and are
// non-empty; a TemplatedSelect query carries both placeholders.
func Plan(cells []h3cell.Cell, query TableSetQuery, ts *tableset.TableSet) (string, error) {
	if len(cells) == 0 {
		return "", cwerr.NewEmptyCellsError()
	}
	if err := query.Validate(); err != nil {
		return "", err
	}

	target := cells[0].Resolution()
	var resolutions []int
	seen := map[int]bool{}
	for _, c := range cells {
		r := c.Resolution()
		if !seen[r] {
			seen[r] = true
			resolutions = append(resolutions, r)
		}
	}
	if len(resolutions) > 1 {
		sort.Ints(resolutions)
		return "", cwerr.NewMixedResolutionsError(resolutions)
	}

	otherCols := ts.ColumnNames()

	var subqueries []string
	for r := 0; r <= target; r++ {
		table, ok := chooseTable(ts, r, target)
		if !ok {
			continue
		}
		ancestors, err := ancestorsAt(cells, r)
		if err != nil {
			return "", err
		}
		sub, err := buildSubquery(query, table.Name(), otherCols, ancestors)
		if err != nil {
			return "", err
		}
		subqueries = append(subqueries, sub)
	}

	if len(subqueries) == 0 {
		return "", cwerr.NewNoQueryableTablesError()
	}
	return strings.Join(subqueries, " union all "), nil
}

// chooseTable implements spec §4.4 step 3: prefer the base table at the
// target resolution, otherwise require a compacted table.
func chooseTable(ts *tableset.TableSet, r, target int) (tableset.Table, bool) {
	if r == target {
		if spec, ok := ts.BaseTable(uint8(r)); ok {
			return tableset.Table{Basename: ts.Basename, Spec: spec}, true
		}
		return tableset.Table{}, false
	}
	if spec, ok := ts.CompactedTable(uint8(r)); ok {
		return tableset.Table{Basename: ts.Basename, Spec: spec}, true
	}
	return tableset.Table{}, false
}

// ancestorsAt computes the deduplicated, sorted set of parent(c, r) for
// every cell, or c itself when r equals c's own resolution.
func ancestorsAt(cells []h3cell.Cell, r int) ([]h3cell.Cell, error) {
	seen := map[h3cell.Cell]bool{}
	var out []h3cell.Cell
	for _, c := range cells {
		anc := c
		if c.Resolution() != r {
			p, err := c.Parent(r)
			if err != nil {
				return nil, cwerr.NewInvalidCellError(uint64(c))
			}
			anc = p
		}
		if !seen[anc] {
			seen[anc] = true
			out = append(out, anc)
		}
	}
	h3cell.SortCells(out)
	return out, nil
}

func cellList(cells []h3cell.Cell) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = strconv.FormatUint(uint64(c), 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func buildSubquery(query TableSetQuery, table string, otherCols []string, ancestors []h3cell.Cell) (string, error) {
	list := cellList(ancestors)
	if query.IsTemplated() {
		return query.render(table, list), nil
	}
	cols := append([]string{tableset.H3IndexColumn}, otherCols...)
	return fmt.Sprintf("select %s from %s where %s in %s",
		strings.Join(cols, ", "), table, tableset.H3IndexColumn, list), nil
}
