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

// Package crawl turns flat comment pages into a forest of comment trees.
//
// The package has two moving parts. The Collector pages through a video's
// top-level comment threads, keeping API page order and honoring an
// optional budget on the number of roots. The Builder resolves the reply
// subtree under a single comment by paging its replies and recursing into
// each reply's own id, to any depth the data supports.
//
// Both parts share a partial-result policy: a page fetch that fails after
// data has been collected is logged, recorded on the crawl's metadata
// tracker, and cuts off only the level it happened on. Everything already
// collected stays in the forest, sibling subtrees are untouched, and the
// caller gets a usable (if incomplete) result instead of an error. The one
// exception is a failure on the very first thread page, when there is
// nothing to salvage; that surfaces as an error.
//
// A typical crawl:
//
//	tracker := metadata.New()
//	collector := crawl.NewCollector(crawl.Config{
//	    Client:      client,
//	    MaxComments: 500,
//	    Concurrency: 4,
//	    Tracker:     tracker,
//	})
//	result, err := collector.Collect(ctx, videoID)
//
// The resulting forest is ready for any of the output encoders; nodes
// carry sanitized text and are ordered exactly as the API returned them.
package crawl
