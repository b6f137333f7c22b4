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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTableNameRoundTrip(t *testing.T) {
	// S1: water_05_compacted round-trips.
	table := Table{Basename: "water", Spec: NewCompactedTableSpec(5)}
	if got, want := table.Name(), "water_05_compacted"; got != want {
		t.Fatalf("Name() = %q, want %q", got, want)
	}

	parsed, ok := ParseTableName(table.Name())
	if !ok {
		t.Fatalf("ParseTableName(%q) failed to parse", table.Name())
	}
	if diff := cmp.Diff(table, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTableNameBaseNoSuffix(t *testing.T) {
	parsed, ok := ParseTableName("water_05")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if parsed.Spec.HasBaseSuffix {
		t.Error("expected HasBaseSuffix = false for bare resolution suffix")
	}
	if parsed.Spec.IsCompacted {
		t.Error("expected IsCompacted = false")
	}
}

func TestTableNameRoundTripProperty(t *testing.T) {
	specs := []TableSpec{
		NewBaseTableSpec(0, true),
		NewBaseTableSpec(0, false),
		NewBaseTableSpec(15, true).WithTemporaryKey("abc123"),
		NewCompactedTableSpec(7),
		NewCompactedTableSpec(7).WithTemporaryKey("xyz_1"),
	}
	for _, spec := range specs {
		table := Table{Basename: "okavango_delta", Spec: spec}
		name := table.Name()
		parsed, ok := ParseTableName(name)
		if !ok {
			t.Fatalf("ParseTableName(%q) failed to parse", name)
		}
		if diff := cmp.Diff(table, parsed); diff != "" {
			t.Errorf("round trip for %q mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestParseTableNameRejectsGarbage(t *testing.T) {
	for _, name := range []string{
		"one", "events", "water", "_05_base", "water_5_base", "water_05_bogus",
	} {
		if _, ok := ParseTableName(name); ok {
			t.Errorf("ParseTableName(%q) unexpectedly succeeded", name)
		}
	}
}
