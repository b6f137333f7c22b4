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

package tuning

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/nmandery/cellwalk/internal/log"
)

func testLogger(t *testing.T) log.Logger {
	t.Helper()
	logger, err := log.NewLogger("standard", log.Debug, &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	return logger
}

// clearEnv unsets name for the duration of the test, restoring whatever
// value (or absence) it had beforehand once the test completes.
func clearEnv(t *testing.T, name string) {
	t.Helper()
	if prev, ok := os.LookupEnv(name); ok {
		t.Cleanup(func() { os.Setenv(name, prev) })
	} else {
		t.Cleanup(func() { os.Unsetenv(name) })
	}
	os.Unsetenv(name)
}

func TestFromEnvironmentDefaults(t *testing.T) {
	clearEnv(t, envNumClickhouseThreads)
	clearEnv(t, envNumConcurrentPreloadQueries)

	knobs := FromEnvironment(context.Background(), testLogger(t))
	if knobs.NumClickhouseThreads != defaultNumClickhouseThreads {
		t.Errorf("NumClickhouseThreads = %d, want default %d", knobs.NumClickhouseThreads, defaultNumClickhouseThreads)
	}
	if knobs.NumConcurrentPreloadQueries != defaultNumConcurrentPreloadQueries {
		t.Errorf("NumConcurrentPreloadQueries = %d, want default %d", knobs.NumConcurrentPreloadQueries, defaultNumConcurrentPreloadQueries)
	}
}

func TestReadKnobFloorsLowValues(t *testing.T) {
	t.Setenv(envNumClickhouseThreads, "0")
	knobs := FromEnvironment(context.Background(), testLogger(t))
	if knobs.NumClickhouseThreads != floorNumClickhouseThreads {
		t.Errorf("NumClickhouseThreads = %d, want floor %d", knobs.NumClickhouseThreads, floorNumClickhouseThreads)
	}
}

func TestReadKnobHonorsValuesAboveFloor(t *testing.T) {
	t.Setenv(envNumConcurrentPreloadQueries, "9")
	knobs := FromEnvironment(context.Background(), testLogger(t))
	if knobs.NumConcurrentPreloadQueries != 9 {
		t.Errorf("NumConcurrentPreloadQueries = %d, want 9", knobs.NumConcurrentPreloadQueries)
	}
}

func TestReadKnobFallsBackOnMalformedValue(t *testing.T) {
	t.Setenv(envNumClickhouseThreads, "not-a-number")
	knobs := FromEnvironment(context.Background(), testLogger(t))
	if knobs.NumClickhouseThreads != defaultNumClickhouseThreads {
		t.Errorf("NumClickhouseThreads = %d, want default %d on malformed input", knobs.NumClickhouseThreads, defaultNumClickhouseThreads)
	}
}
