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

// Package colvec is cellwalk's typed column-block data model: ColVec (a
// tagged homogeneous vector) and ColumnSet (a named bundle of equal-
// length ColVecs), plus the uncompaction-adjacent operations spec §3
// assigns to them (SplitByResolution, ToCompacted).
package colvec

import (
	"time"

	"github.com/nmandery/cellwalk/internal/tableset"
)

// ColVec is a tagged homogeneous vector: one concrete instantiation of
// Vector[T] per supported scalar SQL type, including Nullable(*T)
// variants. It carries its own datatype so a ColumnSet never needs a
// side table of types.
type ColVec interface {
	Datatype() tableset.SQLDataType
	Len() int
	// Repeat builds a new ColVec of length sum(reps) by repeating the
	// value at index i exactly reps[i] times, preserving order. This is
	// the companion-column expansion pass of uncompaction (spec §4.5).
	Repeat(reps []int) ColVec
}

// Vector is the single generic implementation backing every ColVec
// variant; NewXxxVec constructors below pin T and the declared SQL type.
type Vector[T any] struct {
	dtype tableset.SQLDataType
	Data  []T
}

func (v *Vector[T]) Datatype() tableset.SQLDataType { return v.dtype }
func (v *Vector[T]) Len() int                       { return len(v.Data) }

func (v *Vector[T]) Repeat(reps []int) ColVec {
	total := 0
	for _, r := range reps {
		total += r
	}
	out := make([]T, 0, total)
	for i, r := range reps {
		for k := 0; k < r; k++ {
			out = append(out, v.Data[i])
		}
	}
	return &Vector[T]{dtype: v.dtype, Data: out}
}

func newVec[T any](dtype tableset.SQLDataType, data []T) *Vector[T] {
	return &Vector[T]{dtype: dtype, Data: data}
}

// Concrete non-nullable constructors, one per scalar type in spec §3.
func NewUInt8Vec(data []uint8) *Vector[uint8]       { return newVec(tableset.TypeUInt8, data) }
func NewUInt16Vec(data []uint16) *Vector[uint16]    { return newVec(tableset.TypeUInt16, data) }
func NewUInt32Vec(data []uint32) *Vector[uint32]    { return newVec(tableset.TypeUInt32, data) }
func NewUInt64Vec(data []uint64) *Vector[uint64]    { return newVec(tableset.TypeUInt64, data) }
func NewInt8Vec(data []int8) *Vector[int8]          { return newVec(tableset.TypeInt8, data) }
func NewInt16Vec(data []int16) *Vector[int16]       { return newVec(tableset.TypeInt16, data) }
func NewInt32Vec(data []int32) *Vector[int32]       { return newVec(tableset.TypeInt32, data) }
func NewInt64Vec(data []int64) *Vector[int64]       { return newVec(tableset.TypeInt64, data) }
func NewFloat32Vec(data []float32) *Vector[float32] { return newVec(tableset.TypeFloat32, data) }
func NewFloat64Vec(data []float64) *Vector[float64] { return newVec(tableset.TypeFloat64, data) }

// NewH3IndexVec constructs the mandatory reserved H3 index column.
func NewH3IndexVec(data []uint64) *Vector[uint64] { return newVec(tableset.TypeUInt64, data) }

// NewDateVec and NewDateTimeVec carry the two temporal scalar types
// spec §3 lists alongside the numeric ones.
func NewDateVec(data []time.Time) *Vector[time.Time]     { return newVec(tableset.TypeDate, data) }
func NewDateTimeVec(data []time.Time) *Vector[time.Time] { return newVec(tableset.TypeDateTime, data) }

// Nullable constructors carry option<T> as *T; a nil element is SQL NULL.
func NewNullableFloat32Vec(data []*float32) *Vector[*float32] {
	return newVec(tableset.TypeFloat32.Nullable(), data)
}
func NewNullableFloat64Vec(data []*float64) *Vector[*float64] {
	return newVec(tableset.TypeFloat64.Nullable(), data)
}
func NewNullableInt64Vec(data []*int64) *Vector[*int64] {
	return newVec(tableset.TypeInt64.Nullable(), data)
}
func NewNullableUInt64Vec(data []*uint64) *Vector[*uint64] {
	return newVec(tableset.TypeUInt64.Nullable(), data)
}
