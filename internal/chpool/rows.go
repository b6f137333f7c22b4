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

package chpool

import (
	"database/sql"
	"strings"
	"time"

	"github.com/nmandery/cellwalk/internal/colvec"
	"github.com/nmandery/cellwalk/internal/cwerr"
)

// rowsToColumnSet drains rows into a ColumnSet, dispatching each column
// to a typed ColVec by its driver-reported DatabaseTypeName, the same
// sql.Rows + ColumnTypes idiom clickhousesql.Tool.Invoke uses for its
// generic any-map scan, specialized here into cellwalk's typed vectors.
func rowsToColumnSet(rows *sql.Rows) (*colvec.ColumnSet, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, cwerr.NewDatabaseError(err)
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, cwerr.NewDatabaseError(err)
	}

	builders := make([]columnBuilder, len(names))
	for i, ct := range colTypes {
		b, err := newColumnBuilder(ct.DatabaseTypeName())
		if err != nil {
			return nil, err
		}
		builders[i] = b
	}

	scanTargets := make([]any, len(names))
	for i, b := range builders {
		scanTargets[i] = b.scanTarget()
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, cwerr.NewDatabaseError(err)
		}
		for _, b := range builders {
			b.append()
		}
	}

	out := make(map[string]colvec.ColVec, len(names))
	for i, name := range names {
		out[name] = builders[i].build()
	}
	return colvec.NewColumnSet(out)
}

// columnBuilder accumulates one column's scanned values across a Rows
// traversal, then hands back the finished typed ColVec.
type columnBuilder interface {
	scanTarget() any
	append()
	build() colvec.ColVec
}

func newColumnBuilder(databaseTypeName string) (columnBuilder, error) {
	if inner, ok := strings.CutPrefix(databaseTypeName, "Nullable("); ok {
		inner = strings.TrimSuffix(inner, ")")
		return newNullableColumnBuilder(inner)
	}

	switch databaseTypeName {
	case "UInt8":
		return &numericColumnBuilder[uint8]{new_: colvec.NewUInt8Vec}, nil
	case "UInt16":
		return &numericColumnBuilder[uint16]{new_: colvec.NewUInt16Vec}, nil
	case "UInt32":
		return &numericColumnBuilder[uint32]{new_: colvec.NewUInt32Vec}, nil
	case "UInt64":
		return &numericColumnBuilder[uint64]{new_: colvec.NewUInt64Vec}, nil
	case "Int8":
		return &numericColumnBuilder[int8]{new_: colvec.NewInt8Vec}, nil
	case "Int16":
		return &numericColumnBuilder[int16]{new_: colvec.NewInt16Vec}, nil
	case "Int32":
		return &numericColumnBuilder[int32]{new_: colvec.NewInt32Vec}, nil
	case "Int64":
		return &numericColumnBuilder[int64]{new_: colvec.NewInt64Vec}, nil
	case "Float32":
		return &numericColumnBuilder[float32]{new_: colvec.NewFloat32Vec}, nil
	case "Float64":
		return &numericColumnBuilder[float64]{new_: colvec.NewFloat64Vec}, nil
	case "Date":
		return &temporalColumnBuilder{new_: colvec.NewDateVec}, nil
	case "DateTime":
		return &temporalColumnBuilder{new_: colvec.NewDateTimeVec}, nil
	default:
		return nil, cwerr.NewUnknownDatatypeError(databaseTypeName)
	}
}

// newNullableColumnBuilder dispatches the wrapped type name of a
// Nullable(X) column to one of the four Nullable ColVec variants
// colvec declares (Float32, Float64, Int64, UInt64), matching the
// option<T> half of spec.md §3's data model that the plain numeric
// builders above don't cover.
func newNullableColumnBuilder(inner string) (columnBuilder, error) {
	switch inner {
	case "Float32":
		return &nullableColumnBuilder[float32]{new_: colvec.NewNullableFloat32Vec}, nil
	case "Float64":
		return &nullableColumnBuilder[float64]{new_: colvec.NewNullableFloat64Vec}, nil
	case "Int64":
		return &nullableColumnBuilder[int64]{new_: colvec.NewNullableInt64Vec}, nil
	case "UInt64":
		return &nullableColumnBuilder[uint64]{new_: colvec.NewNullableUInt64Vec}, nil
	default:
		return nil, cwerr.NewUnknownDatatypeError("Nullable(" + inner + ")")
	}
}

// numericColumnBuilder scans every numeric column via a nullable
// pointer target and stores the dereferenced value, matching the scalar
// (non-Nullable) ColVec variants this package's planner queries return.
type numericColumnBuilder[T any] struct {
	new_ func([]T) *colvec.Vector[T]
	cur  *T
	data []T
}

func (b *numericColumnBuilder[T]) scanTarget() any {
	b.cur = new(T)
	return b.cur
}

func (b *numericColumnBuilder[T]) append() {
	b.data = append(b.data, *b.cur)
}

func (b *numericColumnBuilder[T]) build() colvec.ColVec {
	return b.new_(b.data)
}

// nullableColumnBuilder scans a Nullable(X) column via the generic
// sql.Null[T] scanner, storing a nil *T for SQL NULL and a pointer to
// the scanned value otherwise -- the option<T> ColVec representation.
type nullableColumnBuilder[T any] struct {
	new_ func([]*T) *colvec.Vector[*T]
	cur  sql.Null[T]
	data []*T
}

func (b *nullableColumnBuilder[T]) scanTarget() any {
	b.cur = sql.Null[T]{}
	return &b.cur
}

func (b *nullableColumnBuilder[T]) append() {
	if !b.cur.Valid {
		b.data = append(b.data, nil)
		return
	}
	v := b.cur.V
	b.data = append(b.data, &v)
}

func (b *nullableColumnBuilder[T]) build() colvec.ColVec {
	return b.new_(b.data)
}

type temporalColumnBuilder struct {
	new_ func([]time.Time) *colvec.Vector[time.Time]
	cur  *time.Time
	data []time.Time
}

func (b *temporalColumnBuilder) scanTarget() any {
	b.cur = new(time.Time)
	return b.cur
}

func (b *temporalColumnBuilder) append() {
	b.data = append(b.data, *b.cur)
}

func (b *temporalColumnBuilder) build() colvec.ColVec {
	return b.new_(b.data)
}
