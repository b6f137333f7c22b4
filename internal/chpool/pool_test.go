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
	"bytes"
	"context"
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

// Open never dials the network -- database/sql's Open is lazy -- so
// these cases exercise protocol validation and DSN assembly without a
// live ClickHouse server.

func TestOpenRejectsInvalidProtocol(t *testing.T) {
	_, err := Open(context.Background(), Config{Host: "localhost", Port: "8443", Protocol: "native"}, testLogger(t))
	if err == nil {
		t.Fatal("expected an error for an unsupported protocol")
	}
}

func TestOpenDefaultsToHTTPS(t *testing.T) {
	p, err := Open(context.Background(), Config{Host: "localhost", Port: "8443", Database: "default", User: "default"}, testLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if p.Knobs().NumClickhouseThreads < 1 {
		t.Errorf("NumClickhouseThreads = %d, want >= 1", p.Knobs().NumClickhouseThreads)
	}
}

func TestOpenUpgradesHTTPToHTTPSWhenSecure(t *testing.T) {
	p, err := Open(context.Background(), Config{
		Host: "localhost", Port: "8443", Database: "default", User: "default",
		Protocol: "http", Secure: true,
	}, testLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	p.Close()
}
