// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package videoid resolves user-supplied video references (watch URLs,
// short links, bare ids) to the canonical video id the Data API expects.
package videoid

import (
	"fmt"
	"net/url"
	"strings"

	relayerrors "github.com/sirseerhq/sirseer-threads/internal/errors"
)

// Parse extracts the video id from a YouTube URL or a bare id string.
// Rules are checked in order, first match wins:
//
//   - youtu.be short links: the last path segment, truncated at the first "?"
//   - youtube.com links: the "v" query parameter
//   - anything else is treated as a bare id, truncated at the first "&"
//     (defends against pasted query fragments)
//
// Resolution is purely lexical and happens before any network activity.
// Failures wrap ErrInvalidVideoInput and are fatal to the run.
func Parse(input string) (string, error) {
	var id string

	switch {
	case strings.Contains(input, "youtu.be"):
		id = input[strings.LastIndex(input, "/")+1:]
		if i := strings.Index(id, "?"); i >= 0 {
			id = id[:i]
		}

	case strings.Contains(input, "youtube.com"):
		u, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("unparseable url %q: %w", input, relayerrors.ErrInvalidVideoInput)
		}
		id = u.Query().Get("v")
		if id == "" {
			return "", fmt.Errorf("url %q has no v parameter: %w", input, relayerrors.ErrInvalidVideoInput)
		}

	default:
		id, _, _ = strings.Cut(input, "&")
	}

	if id == "" {
		return "", fmt.Errorf("empty video id in %q: %w", input, relayerrors.ErrInvalidVideoInput)
	}
	return id, nil
}
