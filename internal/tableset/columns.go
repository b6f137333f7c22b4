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

import "github.com/nmandery/cellwalk/internal/cwerr"

// H3IndexColumn is the reserved column holding the cell id. The name is
// a literal throughout the system, not configurable per schema.
const H3IndexColumn = "h3index"

// SQLDataType is the closed set of scalar column types cellwalk knows
// how to declare, validate and carry as a ColVec.
type SQLDataType string

const (
	TypeUInt8    SQLDataType = "UInt8"
	TypeUInt16   SQLDataType = "UInt16"
	TypeUInt32   SQLDataType = "UInt32"
	TypeUInt64   SQLDataType = "UInt64"
	TypeInt8     SQLDataType = "Int8"
	TypeInt16    SQLDataType = "Int16"
	TypeInt32    SQLDataType = "Int32"
	TypeInt64    SQLDataType = "Int64"
	TypeFloat32  SQLDataType = "Float32"
	TypeFloat64  SQLDataType = "Float64"
	TypeDate     SQLDataType = "Date"
	TypeDateTime SQLDataType = "DateTime"
)

var scalarTypes = map[SQLDataType]bool{
	TypeUInt8: true, TypeUInt16: true, TypeUInt32: true, TypeUInt64: true,
	TypeInt8: true, TypeInt16: true, TypeInt32: true, TypeInt64: true,
	TypeFloat32: true, TypeFloat64: true, TypeDate: true, TypeDateTime: true,
}

// IsTemporal reports whether t is a date/time type, relevant to
// automatic partition-expression derivation (§4.3).
func (t SQLDataType) IsTemporal() bool {
	return t == TypeDate || t == TypeDateTime
}

// Nullable renders the ClickHouse Nullable(...) wrapper for t.
func (t SQLDataType) Nullable() SQLDataType {
	return SQLDataType("Nullable(" + string(t) + ")")
}

// ParseSQLDataType validates a bare (non-Nullable-wrapped) scalar type
// name, returning UnknownDatatypeError otherwise.
func ParseSQLDataType(s string) (SQLDataType, error) {
	t := SQLDataType(s)
	if !scalarTypes[t] {
		return "", cwerr.NewUnknownDatatypeError(s)
	}
	return t, nil
}

// AggregationKind names the supported WithAggregation variants.
type AggregationKind string

const (
	AggregationSum     AggregationKind = "Sum"
	AggregationAverage AggregationKind = "Average"
	AggregationMin     AggregationKind = "Min"
	AggregationMax     AggregationKind = "Max"
)

// ColumnDefinition is one of the three variants spec §3 declares:
// H3Index, Simple, or WithAggregation. Exactly one constructor should be
// used to build an instance; IsH3Index distinguishes the mandatory
// reserved column.
type ColumnDefinition struct {
	Name             string
	Datatype         SQLDataType
	IsH3Index        bool
	OrderKeyPosition *int
	Aggregation      AggregationKind // empty if not a WithAggregation column
}

// NewH3IndexColumn builds the mandatory reserved column definition.
func NewH3IndexColumn() ColumnDefinition {
	return ColumnDefinition{Name: H3IndexColumn, Datatype: TypeUInt64, IsH3Index: true}
}

// NewSimpleColumn builds a plain column, optionally part of the order key.
func NewSimpleColumn(name string, datatype SQLDataType, orderKeyPosition *int) ColumnDefinition {
	return ColumnDefinition{Name: name, Datatype: datatype, OrderKeyPosition: orderKeyPosition}
}

// NewAggregatedColumn builds a column declared with an aggregation,
// used by SummingMergeTree/AggregatingMergeTree schemas.
func NewAggregatedColumn(name string, datatype SQLDataType, agg AggregationKind, orderKeyPosition *int) ColumnDefinition {
	return ColumnDefinition{Name: name, Datatype: datatype, Aggregation: agg, OrderKeyPosition: orderKeyPosition}
}

// defaultOrderKeyPosition is used for columns with no explicit position.
const defaultOrderKeyPosition = 10

// h3IndexSortPosition forces the H3 column first in ORDER BY regardless
// of other columns' declared positions (§4.3, invariant 5 in spec §8).
const h3IndexSortPosition = defaultOrderKeyPosition - 100

// SortPosition returns the effective ORDER BY position used for sorting.
func (c ColumnDefinition) SortPosition() int {
	if c.IsH3Index {
		return h3IndexSortPosition
	}
	if c.OrderKeyPosition != nil {
		return *c.OrderKeyPosition
	}
	return defaultOrderKeyPosition
}

// HasOrderKey reports whether c should appear in ORDER BY.
func (c ColumnDefinition) HasOrderKey() bool {
	return c.IsH3Index || c.OrderKeyPosition != nil
}
