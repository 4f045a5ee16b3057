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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
//
// Only failures detected before any network activity (bad video input, missing
// API key) abort a run. Failures mid-crawl are downgraded to partial results
// by the crawl package and never surface through these sentinels.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidVideoInput indicates the video argument is neither a
	// recognizable YouTube URL nor a plausible video ID.
	// Maps to exit code 2.
	ErrInvalidVideoInput = errors.New("invalid video url or id")

	// ErrInvalidAPIKey indicates the YouTube Data API rejected the key.
	// Maps to exit code 2.
	ErrInvalidAPIKey = errors.New("invalid youtube api key")

	// ErrVideoNotFound indicates the video does not exist or is private.
	// Maps to exit code 2.
	ErrVideoNotFound = errors.New("video not found")

	// ErrCommentsDisabled indicates the video exists but has comments
	// turned off. Maps to exit code 2.
	ErrCommentsDisabled = errors.New("comments are disabled for this video")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrQuotaExceeded indicates the Data API daily quota or request rate
	// has been exhausted. Maps to exit code 3.
	ErrQuotaExceeded = errors.New("youtube api quota exceeded")

	// ErrMissingField indicates an API record lacked a required field
	// (comment id or author). Handled per the partial-result policy at the
	// pagination level where it occurs; never fatal on its own.
	ErrMissingField = errors.New("record missing required field")

	// ErrStateNotFound indicates --resume was requested but no checkpoint
	// exists for the video. Maps to exit code 1.
	ErrStateNotFound = errors.New("no resume state found")

	// ErrStateCorrupted indicates a checkpoint file failed integrity
	// validation. Maps to exit code 1.
	ErrStateCorrupted = errors.New("resume state corrupted")
)
