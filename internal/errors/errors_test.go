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

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{
			name:     "direct invalid api key error",
			err:      ErrInvalidAPIKey,
			sentinel: ErrInvalidAPIKey,
			want:     true,
		},
		{
			name:     "wrapped invalid api key error",
			err:      fmt.Errorf("failed to authenticate: %w", ErrInvalidAPIKey),
			sentinel: ErrInvalidAPIKey,
			want:     true,
		},
		{
			name:     "different error type",
			err:      ErrVideoNotFound,
			sentinel: ErrInvalidAPIKey,
			want:     false,
		},
		{
			name:     "wrapped network error",
			err:      fmt.Errorf("connection failed: %w", ErrNetworkFailure),
			sentinel: ErrNetworkFailure,
			want:     true,
		},
		{
			name:     "double wrapped quota error",
			err:      fmt.Errorf("fetching thread page: %w", fmt.Errorf("api call failed: %w", ErrQuotaExceeded)),
			sentinel: ErrQuotaExceeded,
			want:     true,
		},
		{
			name:     "nil error",
			err:      nil,
			sentinel: ErrInvalidAPIKey,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.sentinel)
			if got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.sentinel, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidVideoInput, "invalid video url or id"},
		{ErrInvalidAPIKey, "invalid youtube api key"},
		{ErrVideoNotFound, "video not found"},
		{ErrCommentsDisabled, "comments are disabled for this video"},
		{ErrNetworkFailure, "network connection failed"},
		{ErrQuotaExceeded, "youtube api quota exceeded"},
		{ErrMissingField, "record missing required field"},
		{ErrStateNotFound, "no resume state found"},
		{ErrStateCorrupted, "resume state corrupted"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
