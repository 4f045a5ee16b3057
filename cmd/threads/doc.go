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

// Package main implements the sirseer-threads command-line interface.
// This tool crawls the comment section of a YouTube video through the
// Data API v3, resolving every reply subtree, and exports the result
// as a pretty-printed tree, nested JSON, flat CSV, or NDJSON.
//
// The CLI supports:
//   - Fetching a bounded number of comment threads (default 100)
//   - Fetching the whole comment section with the --all flag
//   - Pretty tree output on stdout or file output in three formats
//   - API key authentication via flag or environment variable
//   - Resuming interrupted NDJSON crawls from a checkpoint
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	threads fetch <video-url-or-id> [flags]
//
// Example:
//
//	export YOUTUBE_API_KEY=your_key
//	threads fetch dQw4w9WgXcQ --all --output comments.ndjson
//
// Exit codes:
//   - 0: Success (including partial results, which are reported on stderr)
//   - 1: General error
//   - 2: Input/authorization error (bad video, bad key, comments disabled)
//   - 3: Network or quota error
package main
