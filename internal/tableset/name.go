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

// Package tableset implements the physical-table-name codec (C1), the
// tableset discovery/model (C2) and its DB-catalog column enrichment.
package tableset

import (
	"fmt"
	"regexp"
	"strconv"
)

// nameRe is the grammar from spec §4.1:
// ^([A-Za-z][A-Za-z0-9_]+)_([0-9]{2})(_(base|compacted))?(_tmp([A-Za-z0-9_]+))?$
var nameRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]+)_([0-9]{2})(_(base|compacted))?(_tmp([A-Za-z0-9_]+))?$`)

// TableSpec describes one physical table's position in a tableset.
type TableSpec struct {
	H3Resolution  uint8
	IsCompacted   bool
	TemporaryKey  string // empty if not temporary
	HasBaseSuffix bool
}

// IsTemporary reports whether this spec carries a _tmp<key> suffix.
func (s TableSpec) IsTemporary() bool {
	return s.TemporaryKey != ""
}

// NewBaseTableSpec builds the spec for a base (native-resolution) table.
// hasBaseSuffix selects between the "<base>_RR" and "<base>_RR_base"
// name shapes (spec §6); each parses back to the spec it was built from.
func NewBaseTableSpec(resolution uint8, hasBaseSuffix bool) TableSpec {
	return TableSpec{H3Resolution: resolution, HasBaseSuffix: hasBaseSuffix}
}

// NewCompactedTableSpec builds the spec for a compacted (ancestor-cell)
// table at resolution.
func NewCompactedTableSpec(resolution uint8) TableSpec {
	return TableSpec{H3Resolution: resolution, IsCompacted: true}
}

// WithTemporaryKey returns a copy of s marked temporary with key, which
// excludes it from tableset discovery (spec §3).
func (s TableSpec) WithTemporaryKey(key string) TableSpec {
	s.TemporaryKey = key
	return s
}

// Table pairs a basename with its spec; Name() is its canonical physical
// table name.
type Table struct {
	Basename string
	Spec     TableSpec
}

// Name emits the canonical physical table name per spec §4.1/§6:
// "{basename}_{RR:02}{suffix}{tmp}".
func (t Table) Name() string {
	suffix := ""
	switch {
	case t.Spec.IsCompacted:
		suffix = "_compacted"
	case t.Spec.HasBaseSuffix:
		suffix = "_base"
	}
	tmp := ""
	if t.Spec.IsTemporary() {
		tmp = "_tmp" + t.Spec.TemporaryKey
	}
	return fmt.Sprintf("%s_%02d%s%s", t.Basename, t.Spec.H3Resolution, suffix, tmp)
}

// ParseTableName parses a physical table name into a Table. It never
// returns an error: an unrecognized name simply yields (Table{}, false),
// since the input may be an unrelated table the caller happened to list.
func ParseTableName(name string) (Table, bool) {
	m := nameRe.FindStringSubmatch(name)
	if m == nil {
		return Table{}, false
	}
	resolution, err := strconv.Atoi(m[2])
	if err != nil || resolution < 0 || resolution > 99 {
		return Table{}, false
	}
	return Table{
		Basename: m[1],
		Spec: TableSpec{
			H3Resolution:  uint8(resolution),
			IsCompacted:   m[4] == "compacted",
			HasBaseSuffix: m[4] == "base",
			TemporaryKey:  m[6],
		},
	}, true
}
