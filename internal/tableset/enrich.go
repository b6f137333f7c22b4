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
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nmandery/cellwalk/internal/cwerr"
	"github.com/nmandery/cellwalk/internal/log"
)

// querier is the sliver of *sql.DB this package needs, so enrichment
// can be exercised against a fake in tests without standing up a real
// ClickHouse connection.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type columnOccurrence struct {
	sqltype string
	count   int
}

// EnrichColumns queries db's catalog for the union of columns across
// every table in ts, keeping only those present with an identical SQL
// type in every table (spec §4.2). Non-uniform columns are logged at
// Warn and dropped, never surfaced as an error.
func EnrichColumns(ctx context.Context, db querier, logger log.Logger, ts *TableSet) error {
	tables := ts.Tables()
	occurrences := map[string]map[string]int{} // column name -> sqltype -> count

	for _, table := range tables {
		logger.DebugContext(ctx, "enriching columns", "table", table.Name())
		rows, err := db.QueryContext(ctx, "SELECT name, type FROM system.columns WHERE table = ?", table.Name())
		if err != nil {
			return cwerr.NewDatabaseError(fmt.Errorf("listing columns of %q: %w", table.Name(), err))
		}
		err = func() error {
			defer rows.Close()
			for rows.Next() {
				var name, sqltype string
				if err := rows.Scan(&name, &sqltype); err != nil {
					return cwerr.NewDatabaseError(fmt.Errorf("scanning column row: %w", err))
				}
				if occurrences[name] == nil {
					occurrences[name] = map[string]int{}
				}
				occurrences[name][sqltype]++
			}
			return rows.Err()
		}()
		if err != nil {
			return err
		}
	}

	ts.Columns = reduceOccurrencesLogged(ctx, logger, occurrences, ts.NumTables())
	return nil
}

// reduceOccurrences keeps only columns present with one consistent SQL
// type across every table (spec §4.2), silently. reduceOccurrencesLogged
// wraps it with the Warn-on-drop logging the component needs in
// production; tests exercise the pure reducer directly.
func reduceOccurrences(occurrences map[string]map[string]int, numTables int) map[string]SQLDataType {
	columns := map[string]SQLDataType{}
	for name, byType := range occurrences {
		if strings.HasPrefix(name, H3IndexColumn) {
			continue
		}
		if len(byType) != 1 {
			continue
		}
		for sqltype, count := range byType {
			if count == numTables {
				columns[name] = SQLDataType(sqltype)
			}
		}
	}
	return columns
}

func reduceOccurrencesLogged(ctx context.Context, logger log.Logger, occurrences map[string]map[string]int, numTables int) map[string]SQLDataType {
	for name, byType := range occurrences {
		if strings.HasPrefix(name, H3IndexColumn) {
			continue
		}
		if len(byType) != 1 {
			logger.WarnContext(ctx, "dropping non-uniform column: type disagrees across tables", "column", name)
			continue
		}
		for sqltype, count := range byType {
			if count != numTables {
				logger.WarnContext(ctx, "dropping column not present in every table", "column", name, "present_in", count, "of", numTables)
			}
		}
	}
	return reduceOccurrences(occurrences, numTables)
}
