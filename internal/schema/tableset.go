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

import "github.com/nmandery/cellwalk/internal/tableset"

// TableSet derives the tableset (C2) a compiled schema describes,
// without consulting the database: every declared base resolution, plus
// (when UseCompaction) every compacted resolution 0..=max(base), mirroring
// the table plan CreateStatements renders.
func (s *CompactedTableSchema) TableSet() *tableset.TableSet {
	ts := tableset.NewTableSet(s.Name)
	for name, col := range s.Columns {
		ts.Columns[name] = col.Datatype
	}
	for _, r := range s.H3BaseResolutions {
		ts.BaseTables[r] = tableset.NewBaseTableSpec(r, s.HasBaseSuffix)
	}
	if s.UseCompaction {
		max := s.MaxBaseResolution()
		for r := uint8(0); r <= max; r++ {
			ts.CompactedTables[r] = tableset.NewCompactedTableSpec(r)
		}
	}
	return ts
}
