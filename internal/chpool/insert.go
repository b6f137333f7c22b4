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
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nmandery/cellwalk/internal/colvec"
	"github.com/nmandery/cellwalk/internal/cwerr"
)

// Insert writes every row of cs into table (spec §5's supplemented
// write path: CompactedTableSchema exists to be written into, not only
// queried). Columns are inserted in sorted-name order, mirroring the
// DDL compiler's deterministic column ordering (internal/schema), and
// the statement is driven through clickhouse-go/v2's batch-friendly
// ExecContext the way the teacher's pool issues any other statement.
func (p *Pool) Insert(ctx context.Context, table string, cs *colvec.ColumnSet) error {
	names := make([]string, 0, len(cs.Columns))
	for name := range cs.Columns {
		names = append(names, name)
	}
	sort.Strings(names)

	n := cs.Len()
	if n == 0 {
		return nil
	}

	placeholders := make([]string, len(names))
	for i := range names {
		placeholders[i] = "?"
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))

	p.logger.DebugContext(ctx, fmt.Sprintf("inserting %d rows into %s", n, table))

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return cwerr.NewDatabaseError(err)
	}
	batch, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		_ = tx.Rollback()
		return cwerr.NewDatabaseError(err)
	}
	defer batch.Close()

	for row := 0; row < n; row++ {
		args := make([]any, len(names))
		for i, name := range names {
			v, err := rowValue(cs.Columns[name], row)
			if err != nil {
				_ = tx.Rollback()
				return err
			}
			args[i] = v
		}
		if _, err := batch.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return cwerr.NewDatabaseError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return cwerr.NewDatabaseError(err)
	}
	return nil
}

// rowValue extracts row i from col as a driver-ready scalar. ColVec
// hides its element type behind Repeat/Len/Datatype, so insert walks
// the concrete Vector[T] instantiations directly rather than adding a
// generic accessor only this one caller would need.
func rowValue(col colvec.ColVec, row int) (any, error) {
	switch v := col.(type) {
	case *colvec.Vector[uint8]:
		return v.Data[row], nil
	case *colvec.Vector[uint16]:
		return v.Data[row], nil
	case *colvec.Vector[uint32]:
		return v.Data[row], nil
	case *colvec.Vector[uint64]:
		return v.Data[row], nil
	case *colvec.Vector[int8]:
		return v.Data[row], nil
	case *colvec.Vector[int16]:
		return v.Data[row], nil
	case *colvec.Vector[int32]:
		return v.Data[row], nil
	case *colvec.Vector[int64]:
		return v.Data[row], nil
	case *colvec.Vector[float32]:
		return v.Data[row], nil
	case *colvec.Vector[float64]:
		return v.Data[row], nil
	case *colvec.Vector[time.Time]:
		return v.Data[row], nil
	case *colvec.Vector[*float32]:
		return v.Data[row], nil
	case *colvec.Vector[*float64]:
		return v.Data[row], nil
	case *colvec.Vector[*int64]:
		return v.Data[row], nil
	case *colvec.Vector[*uint64]:
		return v.Data[row], nil
	default:
		return nil, cwerr.NewIncompatibleDatatypeError(fmt.Sprintf("column of type %s has no insert binding", col.Datatype()))
	}
}
