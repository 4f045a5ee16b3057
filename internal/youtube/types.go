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

package youtube

// Comment is one raw comment record as returned by the Data API, before any
// text normalization. Text is the HTML fragment from textDisplay; the crawl
// package sanitizes it. Published is the RFC 3339 timestamp string passed
// through untouched.
type Comment struct {
	ID         string
	Author     string
	Text       string
	Likes      int64
	Published  string
	ReplyCount int64 // thread listings only; zero for reply records
}

// ThreadPage is one page of top-level comment threads. NextPageToken is
// empty on the last page.
type ThreadPage struct {
	Threads       []Comment
	NextPageToken string
}

// ReplyPage is one page of replies under a single parent comment.
// NextPageToken is empty on the last page.
type ReplyPage struct {
	Comments      []Comment
	NextPageToken string
}

// FetchOptions configures a single page fetch.
type FetchOptions struct {
	// PageSize controls how many records to request per page.
	// Zero means MaxPageSize. Values are capped at MaxPageSize, the Data
	// API limit for both thread and reply listings.
	PageSize int

	// PageToken is the continuation token for pagination.
	// Empty fetches from the beginning.
	PageToken string

	// Order sorts thread listings: "time" (default) or "relevance".
	// Ignored for reply pages.
	Order string

	// SearchTerms filters thread listings server-side.
	// Ignored for reply pages.
	SearchTerms string
}

// MaxPageSize is the Data API ceiling on maxResults for comment listings.
const MaxPageSize = 100

// effectivePageSize normalizes a requested page size to the API's bounds.
func effectivePageSize(n int) int64 {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return int64(n)
}
