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

package tableset

import "sort"

// TableSet groups the physical tables sharing one basename into the
// family described by spec §3: some base tables (native resolution),
// some compacted tables (ancestor cells), plus the column catalog they
// have in common.
type TableSet struct {
	Basename        string
	Columns         map[string]SQLDataType
	BaseTables      map[uint8]TableSpec
	CompactedTables map[uint8]TableSpec
}

// NewTableSet builds an empty tableset for basename.
func NewTableSet(basename string) *TableSet {
	return &TableSet{
		Basename:        basename,
		Columns:         map[string]SQLDataType{},
		BaseTables:      map[uint8]TableSpec{},
		CompactedTables: map[uint8]TableSpec{},
	}
}

// Tables returns every table in the set (base and compacted), sorted by
// resolution then kind, for deterministic iteration.
func (ts *TableSet) Tables() []Table {
	out := make([]Table, 0, len(ts.BaseTables)+len(ts.CompactedTables))
	for r, spec := range ts.BaseTables {
		_ = r
		out = append(out, Table{Basename: ts.Basename, Spec: spec})
	}
	for r, spec := range ts.CompactedTables {
		_ = r
		out = append(out, Table{Basename: ts.Basename, Spec: spec})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spec.H3Resolution != out[j].Spec.H3Resolution {
			return out[i].Spec.H3Resolution < out[j].Spec.H3Resolution
		}
		return !out[i].Spec.IsCompacted && out[j].Spec.IsCompacted
	})
	return out
}

// NumTables returns the total table count, the denominator
// EnrichColumns uses to decide which columns are uniform.
func (ts *TableSet) NumTables() int {
	return len(ts.BaseTables) + len(ts.CompactedTables)
}

// BaseTable looks up the base table at r, if any.
func (ts *TableSet) BaseTable(r uint8) (TableSpec, bool) {
	spec, ok := ts.BaseTables[r]
	return spec, ok
}

// CompactedTable looks up the compacted table at r, if any.
func (ts *TableSet) CompactedTable(r uint8) (TableSpec, bool) {
	spec, ok := ts.CompactedTables[r]
	return spec, ok
}

// ColumnNames returns the catalog's column names, excluding the reserved
// H3 index column, in stable sorted order -- the "catalog iteration
// order" the planner's AutoGenerated query uses (spec §4.4 step 4).
func (ts *TableSet) ColumnNames() []string {
	names := make([]string, 0, len(ts.Columns))
	for name := range ts.Columns {
		if name == H3IndexColumn {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Discover partitions a set of physical table names into tablesets,
// keyed by basename (spec §4.2). Unparseable names and temporary
// tables are silently excluded.
func Discover(tableNames []string) map[string]*TableSet {
	sets := map[string]*TableSet{}
	for _, name := range tableNames {
		table, ok := ParseTableName(name)
		if !ok || table.Spec.IsTemporary() {
			continue
		}
		ts, ok := sets[table.Basename]
		if !ok {
			ts = NewTableSet(table.Basename)
			sets[table.Basename] = ts
		}
		if table.Spec.IsCompacted {
			ts.CompactedTables[table.Spec.H3Resolution] = table.Spec
		} else {
			ts.BaseTables[table.Spec.H3Resolution] = table.Spec
		}
	}
	return sets
}
