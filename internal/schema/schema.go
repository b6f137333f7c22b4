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

// Package schema is the declarative schema/DDL compiler (C3): it turns
// a CompactedTableSchema into the CREATE TABLE statements for every
// (resolution, is_compacted) pair a tableset needs.
package schema

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/nmandery/cellwalk/internal/cwerr"
	"github.com/nmandery/cellwalk/internal/tableset"
)

// TemporalPartitioning selects the granularity automatic partition-
// expression derivation uses for a temporal column.
type TemporalPartitioning string

const (
	PartitionByYear  TemporalPartitioning = "Year"
	PartitionByMonth TemporalPartitioning = "Month"
)

// Engine is the closed set of MergeTree variants this compiler emits.
type Engine struct {
	kind     string
	sumCols  []string // only meaningful for SummingMergeTree
}

func ReplacingMergeTree() Engine { return Engine{kind: "ReplacingMergeTree"} }
func AggregatingMergeTree() Engine { return Engine{kind: "AggregatingMergeTree"} }
func SummingMergeTree(cols ...string) Engine {
	return Engine{kind: "SummingMergeTree", sumCols: cols}
}

// String renders the ENGINE clause, e.g. "SummingMergeTree(a, b)".
func (e Engine) String() string {
	if e.kind != "SummingMergeTree" {
		return e.kind
	}
	if len(e.sumCols) == 0 {
		return "SummingMergeTree"
	}
	out := "SummingMergeTree("
	for i, c := range e.sumCols {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out + ")"
}

// Compression is the closed set of column codecs this compiler emits.
type Compression struct {
	kind  string
	level int
}

func LZ4HC(level int) Compression { return Compression{kind: "LZ4HC", level: level} }
func ZSTD(level int) Compression  { return Compression{kind: "ZSTD", level: level} }

func (c Compression) String() string {
	return fmt.Sprintf("%s(%d)", c.kind, c.level)
}

func (c Compression) validate() error {
	switch c.kind {
	case "ZSTD":
		if c.level < 1 || c.level > 22 {
			return fmt.Errorf("ZSTD level must be in [1,22], got %d", c.level)
		}
	case "LZ4HC":
		if c.level < 0 || c.level > 12 {
			return fmt.Errorf("LZ4HC level must be in [0,12], got %d", c.level)
		}
	default:
		return fmt.Errorf("unknown compression codec %q", c.kind)
	}
	return nil
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// CompactedTableSchema declares a tableset's family of CREATE TABLE
// statements (spec §3).
type CompactedTableSchema struct {
	Name                 string
	TableEngine          Engine
	Compression          Compression
	H3BaseResolutions    []uint8
	UseCompaction        bool
	TemporalPartitioning TemporalPartitioning
	Columns              map[string]tableset.ColumnDefinition
	PartitionByColumns   []string // explicit override; empty = auto-derive
	HasBaseSuffix        bool
}

// Build validates the schema and returns it, the single entry point
// callers should use before calling CreateStatements.
func (s *CompactedTableSchema) Build() (*CompactedTableSchema, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every structural invariant spec §4.3 lists.
func (s *CompactedTableSchema) Validate() error {
	if !tableNameRe.MatchString(s.Name) {
		return cwerr.NewSchemaValidationError(s.Name, "table name must match ^[A-Za-z][A-Za-z0-9_]*$")
	}
	if err := s.Compression.validate(); err != nil {
		return cwerr.NewSchemaValidationError(s.Name, err.Error())
	}

	h3col, ok := s.Columns[tableset.H3IndexColumn]
	if !ok || !h3col.IsH3Index || h3col.Datatype != tableset.TypeUInt64 {
		return cwerr.NewSchemaValidationError(s.Name, "h3index column must be present with type UInt64")
	}

	if len(s.H3BaseResolutions) == 0 {
		return cwerr.NewSchemaValidationError(s.Name, "h3_base_resolutions must be non-empty")
	}
	sorted := append([]uint8(nil), s.H3BaseResolutions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, r := range sorted {
		if r > 15 {
			return cwerr.NewSchemaValidationError(s.Name, fmt.Sprintf("resolution %d out of range [0,15]", r))
		}
		if i > 0 && sorted[i] == sorted[i-1] {
			return cwerr.NewSchemaValidationError(s.Name, fmt.Sprintf("duplicate resolution %d in h3_base_resolutions", r))
		}
	}
	if !equalUint8(sorted, s.H3BaseResolutions) {
		return cwerr.NewSchemaValidationError(s.Name, "h3_base_resolutions must be sorted and deduplicated")
	}

	if s.TableEngine.kind == "SummingMergeTree" {
		for _, col := range s.TableEngine.sumCols {
			if _, ok := s.Columns[col]; !ok {
				return cwerr.NewSchemaValidationError(s.Name, fmt.Sprintf("SummingMergeTree references unknown column %q", col))
			}
		}
	}

	if _, err := s.PartitionByExpressions(); err != nil {
		return err
	}
	return nil
}

func equalUint8(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MaxBaseResolution returns the coarsest->finest max of H3BaseResolutions.
func (s *CompactedTableSchema) MaxBaseResolution() uint8 {
	max := s.H3BaseResolutions[0]
	for _, r := range s.H3BaseResolutions[1:] {
		if r > max {
			max = r
		}
	}
	return max
}
