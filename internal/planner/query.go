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

// Package planner implements the multi-resolution query planner (C4):
// given cells at one resolution, it expands the query into a union-all
// SELECT across every resolution whose table could cover the cells,
// either directly or through a compacted ancestor.
package planner

import (
	"strings"

	"github.com/nmandery/cellwalk/internal/cwerr"
)

// TablePlaceholder and CellsPlaceholder are the literal tokens a
// TemplatedSelect must contain (spec §6).
const (
	TablePlaceholder = "<[table]>"
	CellsPlaceholder = "<[h3indexes]>"
)

// TableSetQuery is the sum type from spec §3: either AutoGenerated (the
// planner writes the SQL itself) or a caller-supplied TemplatedSelect.
type TableSetQuery struct {
	template string // empty means AutoGenerated
	isTemplated bool
}

// AutoGenerated returns the query variant whose SQL is fully derived by
// the planner from the tableset's column catalog.
func AutoGenerated() TableSetQuery {
	return TableSetQuery{}
}

// TemplatedSelect returns the query variant that substitutes <[table]>
// and <[h3indexes]> into a caller-supplied SQL template.
func TemplatedSelect(template string) TableSetQuery {
	return TableSetQuery{template: template, isTemplated: true}
}

// IsTemplated reports whether q is a TemplatedSelect.
func (q TableSetQuery) IsTemplated() bool { return q.isTemplated }

// Validate fails with MissingQueryPlaceholderError if q is a
// TemplatedSelect missing either literal placeholder (spec §4.4, §9:
// the SQL itself is never parsed, only checked for the two tokens).
func (q TableSetQuery) Validate() error {
	if !q.isTemplated {
		return nil
	}
	if !strings.Contains(q.template, TablePlaceholder) {
		return cwerr.NewMissingQueryPlaceholderError(TablePlaceholder)
	}
	if !strings.Contains(q.template, CellsPlaceholder) {
		return cwerr.NewMissingQueryPlaceholderError(CellsPlaceholder)
	}
	return nil
}

// render substitutes the placeholders for a TemplatedSelect.
func (q TableSetQuery) render(table, cellList string) string {
	out := strings.ReplaceAll(q.template, TablePlaceholder, table)
	out = strings.ReplaceAll(out, CellsPlaceholder, cellList)
	return out
}
