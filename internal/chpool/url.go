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
	"net/url"
	"strings"

	"github.com/nmandery/cellwalk/internal/cwerr"
)

// ValidateURL parses raw as a connection URL and returns non-fatal
// performance warnings (spec §4.8): it never fails except on a
// genuinely unparseable URL, in which case it returns InvalidUrlError.
func ValidateURL(raw string) (warnings []string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, cwerr.NewInvalidUrlError(err)
	}

	query := u.Query()
	lowered := make(map[string][]string, len(query))
	for key, values := range query {
		lowered[strings.ToLower(key)] = values
	}

	if compression, ok := lowered["compression"]; !ok || len(compression) == 0 || strings.EqualFold(compression[0], "none") {
		warnings = append(warnings, "connection url has no compression configured; queries will be slower")
	}
	if _, ok := lowered["connection_timeout"]; !ok {
		warnings = append(warnings, "connection url has no connection_timeout; the driver default will apply")
	}

	return warnings, nil
}
