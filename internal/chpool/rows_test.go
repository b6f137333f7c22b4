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
	"testing"

	"github.com/nmandery/cellwalk/internal/colvec"
)

// TestNullableColumnBuilderRoundTrip exercises the option<T> half of the
// data model end to end: newColumnBuilder dispatches ClickHouse's wrapped
// "Nullable(Float64)" type name the same way rowsToColumnSet would for a
// live query, the resulting builder accumulates a NULL and a non-NULL
// value the way rows.Scan would drive it, and the built ColVec is then
// handed to rowValue -- the Insert path's value extractor -- to confirm
// a materialized Nullable column can be written back out.
func TestNullableColumnBuilderRoundTrip(t *testing.T) {
	b, err := newColumnBuilder("Nullable(Float64)")
	if err != nil {
		t.Fatal(err)
	}

	scan := func(valid bool, value float64) {
		target, ok := b.scanTarget().(*sql.Null[float64])
		if !ok {
			t.Fatalf("scanTarget() = %T, want *sql.Null[float64]", b.scanTarget())
		}
		target.Valid = valid
		target.V = value
		b.append()
	}
	scan(true, 3.5)
	scan(false, 0)

	col := b.build()
	vec, ok := col.(*colvec.Vector[*float64])
	if !ok {
		t.Fatalf("build() = %T, want *colvec.Vector[*float64]", col)
	}
	if vec.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", vec.Len())
	}
	if vec.Data[0] == nil || *vec.Data[0] != 3.5 {
		t.Errorf("row 0 = %v, want pointer to 3.5", vec.Data[0])
	}
	if vec.Data[1] != nil {
		t.Errorf("row 1 = %v, want nil (SQL NULL)", vec.Data[1])
	}

	got0, err := rowValue(vec, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got0 != vec.Data[0] {
		t.Errorf("rowValue(vec, 0) = %v, want %v", got0, vec.Data[0])
	}
	got1, err := rowValue(vec, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got1 != (*float64)(nil) {
		t.Errorf("rowValue(vec, 1) = %v, want a nil *float64 driver value", got1)
	}
}

func TestNewColumnBuilderRejectsUnknownNullableInner(t *testing.T) {
	if _, err := newColumnBuilder("Nullable(String)"); err == nil {
		t.Fatal("expected UnknownDatatypeError for an unsupported nullable inner type")
	}
}

func TestNewColumnBuilderRejectsUnknownType(t *testing.T) {
	if _, err := newColumnBuilder("FixedString(16)"); err == nil {
		t.Fatal("expected UnknownDatatypeError for an unmapped type name")
	}
}
