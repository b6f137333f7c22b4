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

package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nmandery/cellwalk/internal/cwerr"
	"github.com/nmandery/cellwalk/internal/tableset"
)

// OrderByColumnNames lists every column whose definition declares an
// order_key_position, plus the H3 column unconditionally, sorted by
// (position, name) with the H3 column always first (spec §4.3).
func (s *CompactedTableSchema) OrderByColumnNames() []string {
	type keyed struct {
		name string
		pos  int
	}
	var keys []keyed
	for name, col := range s.Columns {
		if col.HasOrderKey() {
			keys = append(keys, keyed{name: name, pos: col.SortPosition()})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].pos != keys[j].pos {
			return keys[i].pos < keys[j].pos
		}
		return keys[i].name < keys[j].name
	})
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.name
	}
	return out
}

// PartitionByExpressions derives the PARTITION BY expression list (spec
// §4.3): always h3GetBaseCell(<h3col>), then either the explicit
// PartitionByColumns in order, or (if unset) the single temporal column
// wrapped per TemporalPartitioning.
func (s *CompactedTableSchema) PartitionByExpressions() ([]string, error) {
	exprs := []string{fmt.Sprintf("h3GetBaseCell(%s)", tableset.H3IndexColumn)}

	if len(s.PartitionByColumns) > 0 {
		for _, name := range s.PartitionByColumns {
			col, ok := s.Columns[name]
			if !ok {
				return nil, cwerr.NewSchemaValidationError(s.Name, fmt.Sprintf("partition_by_columns references unknown column %q", name))
			}
			exprs = appendDedup(exprs, s.partitionExpr(col))
		}
		return exprs, nil
	}

	var temporalCols []string
	for name, col := range s.Columns {
		if col.Datatype.IsTemporal() {
			temporalCols = append(temporalCols, name)
		}
	}
	sort.Strings(temporalCols)
	if len(temporalCols) > 1 {
		return nil, cwerr.NewSchemaValidationError(s.Name, "multiple temporal columns present; set partition_by_columns explicitly")
	}
	if len(temporalCols) == 1 {
		exprs = appendDedup(exprs, s.partitionExpr(s.Columns[temporalCols[0]]))
	}
	return exprs, nil
}

func (s *CompactedTableSchema) partitionExpr(col tableset.ColumnDefinition) string {
	if !col.Datatype.IsTemporal() {
		return col.Name
	}
	switch s.TemporalPartitioning {
	case PartitionByYear:
		return fmt.Sprintf("toString(toYear(%s))", col.Name)
	default:
		return fmt.Sprintf("toString(toMonth(%s))", col.Name)
	}
}

func appendDedup(exprs []string, e string) []string {
	for _, existing := range exprs {
		if existing == e {
			return exprs
		}
	}
	return append(exprs, e)
}

// CreateStatements emits one CREATE TABLE IF NOT EXISTS per (resolution,
// is_compacted) pair: every declared base resolution, plus (when
// UseCompaction) every resolution 0..=max(base) flagged compacted (spec
// §4.3). Output is deterministic: columns sorted by name, statements
// ordered by resolution then base-before-compacted.
func (s *CompactedTableSchema) CreateStatements() ([]string, error) {
	orderBy := s.OrderByColumnNames()
	partitionBy, err := s.PartitionByExpressions()
	if err != nil {
		return nil, err
	}

	type tablePlan struct {
		resolution  uint8
		isCompacted bool
	}
	var plans []tablePlan
	for _, r := range s.H3BaseResolutions {
		plans = append(plans, tablePlan{resolution: r, isCompacted: false})
	}
	if s.UseCompaction {
		max := s.MaxBaseResolution()
		for r := uint8(0); r <= max; r++ {
			plans = append(plans, tablePlan{resolution: r, isCompacted: true})
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].resolution != plans[j].resolution {
			return plans[i].resolution < plans[j].resolution
		}
		return !plans[i].isCompacted && plans[j].isCompacted
	})

	colNames := make([]string, 0, len(s.Columns))
	for name := range s.Columns {
		colNames = append(colNames, name)
	}
	sort.Strings(colNames)

	var out []string
	for _, plan := range plans {
		var spec tableset.TableSpec
		if plan.isCompacted {
			spec = tableset.NewCompactedTableSpec(plan.resolution)
		} else {
			spec = tableset.NewBaseTableSpec(plan.resolution, s.HasBaseSuffix)
		}
		table := tableset.Table{Basename: s.Name, Spec: spec}
		out = append(out, s.renderCreateStatement(table.Name(), colNames, orderBy, partitionBy))
	}
	return out, nil
}

func (s *CompactedTableSchema) renderCreateStatement(tableName string, colNames, orderBy, partitionBy []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", tableName)
	for i, name := range colNames {
		col := s.Columns[name]
		comma := ","
		if i == len(colNames)-1 {
			comma = ""
		}
		fmt.Fprintf(&b, " %s %s CODEC(%s)%s\n", col.Name, col.Datatype, s.Compression, comma)
	}
	fmt.Fprintf(&b, ")\nENGINE %s\n", s.TableEngine)
	fmt.Fprintf(&b, "PARTITION BY (%s)\n", strings.Join(partitionBy, ", "))
	fmt.Fprintf(&b, "ORDER BY (%s);", strings.Join(orderBy, ", "))
	return b.String()
}
