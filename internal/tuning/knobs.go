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

// Package tuning implements the two environment-derived knobs (C9): the
// ClickHouse-side thread hint and the sliding-window driver's preload
// concurrency. Both are read lazily, once per use, and fall back to a
// floored default on any malformed value.
package tuning

import (
	"context"
	"os"
	"strconv"

	"github.com/nmandery/cellwalk/internal/log"
)

const (
	// envNumClickhouseThreads names the knob controlling the DB-side
	// thread hint (spec §6).
	envNumClickhouseThreads = "BAMBOO_CELLWALK_NUM_CLICKHOUSE_THREADS"
	// envNumConcurrentPreloadQueries names the sliding-window driver's
	// preload concurrency knob (spec §6).
	envNumConcurrentPreloadQueries = "BAMBOO_CELLWALK_NUM_CONCURRENT_PRELOAD_QUERIES"

	defaultNumClickhouseThreads        = 2
	floorNumClickhouseThreads          = 1
	defaultNumConcurrentPreloadQueries = 3
	floorNumConcurrentPreloadQueries   = 1
)

// Knobs bundles both tuning values read once at pool-open time.
type Knobs struct {
	NumClickhouseThreads        int
	NumConcurrentPreloadQueries int
}

// FromEnvironment reads both knobs from the process environment,
// logging a debug line whenever a value is malformed and the default is
// substituted; an unset variable yields the default without a log line.
func FromEnvironment(ctx context.Context, logger log.Logger) Knobs {
	return Knobs{
		NumClickhouseThreads:        readKnob(ctx, logger, envNumClickhouseThreads, defaultNumClickhouseThreads, floorNumClickhouseThreads),
		NumConcurrentPreloadQueries: readKnob(ctx, logger, envNumConcurrentPreloadQueries, defaultNumConcurrentPreloadQueries, floorNumConcurrentPreloadQueries),
	}
}

// readKnob reads name from the environment, falling back to def on any
// parse failure, then floors the result at floor. The source carried a
// cmp::min here where max was plausibly intended (spec §9 Open
// Questions); this implementation applies max, not min, per the spec's
// explicit correction.
func readKnob(ctx context.Context, logger log.Logger, name string, def, floor int) int {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.DebugContext(ctx, "malformed tuning knob, using default", "name", name, "value", raw, "default", def)
		value = def
	}
	return max(value, floor)
}
