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
	"fmt"
	"testing"
)

// TestDiscover is S2 from spec §8: three basenames recovered, "one" and
// "events" excluded as unparseable.
func TestDiscover(t *testing.T) {
	var names []string
	for r := 0; r <= 13; r++ {
		names = append(names, fmt.Sprintf("water_%02d_base", r), fmt.Sprintf("water_%02d_compacted", r))
	}
	names = append(names,
		"something_else_06_base", "something_else_07_base",
		"elephants_02", "elephants_03", "elephants_01_compacted",
		"one", "events",
	)

	sets := Discover(names)

	if len(sets) != 3 {
		t.Fatalf("got %d tablesets, want 3: %v", len(sets), keys(sets))
	}

	water, ok := sets["water"]
	if !ok {
		t.Fatal("missing water tableset")
	}
	if len(water.BaseTables) != 14 || len(water.CompactedTables) != 14 {
		t.Errorf("water: got %d base / %d compacted, want 14/14", len(water.BaseTables), len(water.CompactedTables))
	}

	se, ok := sets["something_else"]
	if !ok {
		t.Fatal("missing something_else tableset")
	}
	if len(se.BaseTables) != 2 || len(se.CompactedTables) != 0 {
		t.Errorf("something_else: got %d base / %d compacted, want 2/0", len(se.BaseTables), len(se.CompactedTables))
	}

	el, ok := sets["elephants"]
	if !ok {
		t.Fatal("missing elephants tableset")
	}
	if len(el.BaseTables) != 2 || len(el.CompactedTables) != 1 {
		t.Errorf("elephants: got %d base / %d compacted, want 2/1", len(el.BaseTables), len(el.CompactedTables))
	}

	if _, ok := sets["one"]; ok {
		t.Error("unexpected tableset for bare \"one\"")
	}
}

func keys(m map[string]*TableSet) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestDiscoverExcludesTemporary(t *testing.T) {
	sets := Discover([]string{"water_05_base_tmp123"})
	if len(sets) != 0 {
		t.Errorf("expected temporary table to be excluded, got %v", keys(sets))
	}
}
