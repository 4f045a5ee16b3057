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

package metadata

import (
	"time"
)

// CrawlMetadata is the complete audit record for a single crawl. It
// captures what was crawled, the parameters used, and the results,
// so a crawl can be reproduced or investigated without re-running it.
type CrawlMetadata struct {
	ToolVersion   string       `json:"tool_version"`
	MethodVersion string       `json:"method_version"`
	VideoID       string       `json:"video_id"`
	CrawlID       string       `json:"crawl_id"`
	Parameters    CrawlParams  `json:"parameters"`
	Results       CrawlResults `json:"results"`
	Resumed       bool         `json:"resumed"`
}

// CrawlParams captures the input parameters used for a crawl. MaxComments
// is the top-level comment budget; zero means the whole video (--all).
type CrawlParams struct {
	MaxComments int    `json:"max_comments"`
	FetchAll    bool   `json:"fetch_all"`
	PageSize    int    `json:"page_size"`
	Order       string `json:"order,omitempty"`
	SearchTerms string `json:"search_terms,omitempty"`
	Concurrency int    `json:"concurrency"`
}

// CrawlResults contains the statistics of a completed crawl: comment
// counts, API usage by request kind, timing, and whether any subtree was
// left incomplete. TotalComments counts every node in the exported
// forest, replies at all levels included.
type CrawlResults struct {
	Roots          int       `json:"roots"`
	TotalComments  int       `json:"total_comments"`
	MaxDepth       int       `json:"max_depth"`
	ThreadAPICalls int       `json:"thread_api_calls"`
	ReplyAPICalls  int       `json:"reply_api_calls"`
	Duration       string    `json:"crawl_duration"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	Partial        bool      `json:"partial"`
	Warnings       []string  `json:"warnings,omitempty"`
}
