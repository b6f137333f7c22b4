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

	"github.com/nmandery/cellwalk/internal/cwerr"
	"github.com/nmandery/cellwalk/internal/tableset"
)

// ListDatabases runs SHOW DATABASES, the query the teacher's
// clickhouse-list-databases tool issues through its own raw *sql.DB pool.
func (p *Pool) ListDatabases(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, "SHOW DATABASES")
	if err != nil {
		return nil, cwerr.NewDatabaseError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, cwerr.NewDatabaseError(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, cwerr.NewDatabaseError(err)
	}
	return names, nil
}

// Discover lists every table in database via SHOW TABLES FROM, the same
// query the teacher's clickhouse-list-tables tool issues, then partitions
// the names into tablesets (C2's Discover) keyed by basename -- turning
// the generic "list tables" tool into the tableset-discovery entry point
// spec §4.2 describes.
func (p *Pool) Discover(ctx context.Context, database string) (map[string]*tableset.TableSet, error) {
	rows, err := p.db.QueryContext(ctx, fmt.Sprintf("SHOW TABLES FROM %s", database))
	if err != nil {
		return nil, cwerr.NewDatabaseError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, cwerr.NewDatabaseError(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, cwerr.NewDatabaseError(err)
	}

	p.logger.DebugContext(ctx, fmt.Sprintf("discovered %d tables in %s", len(names), database))
	return tableset.Discover(names), nil
}
