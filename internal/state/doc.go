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

// Package state provides atomic checkpoint persistence for resumable crawls.
//
// A checkpoint records the continuation token and progress counters of an
// interrupted crawl so a rerun with --resume picks up where the previous
// run stopped. It uses atomic file operations, SHA256 checksums for
// integrity validation, and clear schema versioning for forward
// compatibility.
//
// Checkpoint files live under the configured state directory
// (~/.sirseer-threads by default) and use a JSON format for human
// readability and debugging. Every write is atomic, using a
// write-to-temp-and-rename pattern to prevent corruption during crashes or
// power loss.
//
// Example usage:
//
//	st := &state.CrawlState{
//	    VideoID:       "dQw4w9WgXcQ",
//	    NextPageToken: "CAUQAA",
//	    RootsFetched:  200,
//	}
//	err := state.SaveState(st, state.StateFilePath("", "dQw4w9WgXcQ"))
package state
