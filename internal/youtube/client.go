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

import "context"

// Client defines the interface for fetching comment pages from YouTube.
// This interface allows for easy mocking in tests and for stacking
// decorators (retry, caching) around the real Data API client.
type Client interface {
	// FetchThreadPage retrieves one page of top-level comment threads for a
	// video. Pagination is token-based: pass ThreadPage.NextPageToken from
	// the previous response in opts.PageToken to fetch the next page.
	// Order and SearchTerms in opts apply to thread listings only.
	FetchThreadPage(ctx context.Context, videoID string, opts FetchOptions) (*ThreadPage, error)

	// FetchReplyPage retrieves one page of replies under a comment. The
	// Data API lists all transitive replies as direct children of the
	// top-level comment, but replies fetched for a reply's own id let the
	// caller rebuild deeper nesting where threading data exists.
	FetchReplyPage(ctx context.Context, commentID string, opts FetchOptions) (*ReplyPage, error)
}
