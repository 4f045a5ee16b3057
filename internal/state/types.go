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

package state

import (
	"time"
)

// CurrentVersion is the current state schema version.
// Increment this when making breaking changes to the CrawlState structure.
const CurrentVersion = 1

// CrawlState is the persistent checkpoint of a comment crawl. It records
// where pagination stopped so an interrupted run can resume appending to
// the same output file instead of starting over. The state is
// forward-compatible through versioning and integrity-checked through a
// checksum.
type CrawlState struct {
	// Version indicates the schema version of this state file.
	// Used to handle migrations and compatibility checks.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the state content (excluding this field).
	// Used to detect corruption or tampering.
	Checksum string `json:"checksum"`

	// VideoID is the canonical id of the video being crawled.
	VideoID string `json:"video_id"`

	// CrawlID is a unique identifier for the crawl operation.
	// Can be used for debugging and correlation.
	CrawlID string `json:"crawl_id"`

	// NextPageToken is the continuation token for the next page of
	// top-level threads. Empty means the crawl finished its listing.
	NextPageToken string `json:"next_page_token"`

	// RootsFetched is how many top-level comments have been fully
	// resolved and exported. A resumed run subtracts this from the budget.
	RootsFetched int `json:"roots_fetched"`

	// TotalNodes counts every exported comment including replies, so a
	// resumed run can report accurate totals.
	TotalNodes int `json:"total_nodes"`

	// OutputPath is the file the exported records were written to. Resume
	// refuses to append to a different path than the checkpoint's.
	OutputPath string `json:"output_path"`

	// SavedAt records when this checkpoint was written.
	SavedAt time.Time `json:"saved_at"`
}
