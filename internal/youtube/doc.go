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

// Package youtube provides a client for fetching comment threads from the
// YouTube Data API v3. It abstracts token-based pagination and translates
// API failures into the project's error types so callers can branch on
// sentinels instead of HTTP details.
//
// The package includes:
//   - A Client interface for fetching thread and reply pages
//   - A Data API implementation built on google.golang.org/api/youtube/v3
//   - A RetryClient decorator with exponential backoff
//   - A mock client for testing
//
// Basic usage:
//
//	client, err := youtube.NewDataAPIClient(ctx, youtube.ServiceConfig{
//	    APIKey: "your-api-key",
//	    QPS:    youtube.DefaultQPS,
//	})
//	if err != nil {
//	    // Handle error
//	}
//	page, err := client.FetchThreadPage(ctx, "dQw4w9WgXcQ", youtube.FetchOptions{
//	    PageSize: 50,
//	})
//	if err != nil {
//	    // Handle error
//	}
//	for _, thread := range page.Threads {
//	    // Process top-level comment
//	}
package youtube
