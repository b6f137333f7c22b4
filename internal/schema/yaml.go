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

	"github.com/goccy/go-yaml"

	"github.com/nmandery/cellwalk/internal/cwerr"
	"github.com/nmandery/cellwalk/internal/tableset"
)

// yamlColumn is the on-disk shape of one ColumnDefinition, matching the
// teacher's Config-with-yaml-tags idiom (internal/sources/clickhouse.Config).
type yamlColumn struct {
	Name             string `yaml:"name"`
	Datatype         string `yaml:"datatype"`
	IsH3Index        bool   `yaml:"is_h3index"`
	OrderKeyPosition *int   `yaml:"order_key_position"`
	Aggregation      string `yaml:"aggregation"`
}

// yamlSchema is the on-disk shape of a CompactedTableSchema.
type yamlSchema struct {
	Name                 string       `yaml:"name"`
	TableEngine          string       `yaml:"table_engine"`
	SummingColumns       []string     `yaml:"summing_columns"`
	Compression          string       `yaml:"compression"`
	CompressionLevel     int          `yaml:"compression_level"`
	H3BaseResolutions    []uint8      `yaml:"h3_base_resolutions"`
	UseCompaction        bool         `yaml:"use_compaction"`
	TemporalPartitioning string       `yaml:"temporal_partitioning"`
	Columns              []yamlColumn `yaml:"columns"`
	PartitionByColumns   []string     `yaml:"partition_by_columns"`
	HasBaseSuffix        bool         `yaml:"has_base_suffix"`
}

// FromYAML decodes a CompactedTableSchema declaration and builds it,
// returning a validated schema ready for CreateStatements/TableSet.
func FromYAML(data []byte) (*CompactedTableSchema, error) {
	var doc yamlSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, cwerr.NewSchemaValidationError(doc.Name, fmt.Sprintf("invalid yaml: %s", err))
	}

	engine, err := parseEngine(doc.TableEngine, doc.SummingColumns)
	if err != nil {
		return nil, cwerr.NewSchemaValidationError(doc.Name, err.Error())
	}
	compression, err := parseCompression(doc.Compression, doc.CompressionLevel)
	if err != nil {
		return nil, cwerr.NewSchemaValidationError(doc.Name, err.Error())
	}

	columns := make(map[string]tableset.ColumnDefinition, len(doc.Columns))
	for _, c := range doc.Columns {
		datatype, err := tableset.ParseSQLDataType(c.Datatype)
		if err != nil {
			return nil, err
		}
		switch {
		case c.IsH3Index:
			columns[c.Name] = tableset.NewH3IndexColumn()
		case c.Aggregation != "":
			columns[c.Name] = tableset.NewAggregatedColumn(c.Name, datatype, tableset.AggregationKind(c.Aggregation), c.OrderKeyPosition)
		default:
			columns[c.Name] = tableset.NewSimpleColumn(c.Name, datatype, c.OrderKeyPosition)
		}
	}

	partitioning := PartitionByMonth
	if doc.TemporalPartitioning == string(PartitionByYear) {
		partitioning = PartitionByYear
	}

	s := &CompactedTableSchema{
		Name:                 doc.Name,
		TableEngine:          engine,
		Compression:          compression,
		H3BaseResolutions:    doc.H3BaseResolutions,
		UseCompaction:        doc.UseCompaction,
		TemporalPartitioning: partitioning,
		Columns:              columns,
		PartitionByColumns:   doc.PartitionByColumns,
		HasBaseSuffix:        doc.HasBaseSuffix,
	}
	return s.Build()
}

func parseEngine(kind string, summingCols []string) (Engine, error) {
	switch kind {
	case "ReplacingMergeTree":
		return ReplacingMergeTree(), nil
	case "AggregatingMergeTree":
		return AggregatingMergeTree(), nil
	case "SummingMergeTree":
		return SummingMergeTree(summingCols...), nil
	default:
		return Engine{}, fmt.Errorf("unknown table_engine %q", kind)
	}
}

func parseCompression(kind string, level int) (Compression, error) {
	switch kind {
	case "ZSTD":
		return ZSTD(level), nil
	case "LZ4HC":
		return LZ4HC(level), nil
	default:
		return Compression{}, fmt.Errorf("unknown compression %q", kind)
	}
}
