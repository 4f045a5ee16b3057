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

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	relayerrors "github.com/sirseerhq/sirseer-threads/internal/errors"
)

// MockClient is an in-memory implementation of the Client interface for
// testing. Threads and replies are served from configured slices with the
// same pagination contract as the real API. Reply fetches may run
// concurrently, so all state is guarded by a mutex.
type MockClient struct {
	mu sync.Mutex

	// Threads returned by FetchThreadPage, in order.
	Threads []Comment

	// Replies maps a comment id to its direct replies.
	Replies map[string][]Comment

	// Error, when set, is returned by every call.
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailQuota    bool
	ShouldFailNotFound bool
	ShouldFailDisabled bool

	// FailThreadsAfter fails thread page requests once that many pages
	// have been served. Zero means never fail.
	FailThreadsAfter int

	// FailRepliesFor maps comment ids to the error their reply fetches
	// return.
	FailRepliesFor map[string]error

	// Call tracking for verification
	ThreadCalls    int
	ReplyCalls     int
	LastVideoID    string
	LastCommentID  string
	LastOpts       FetchOptions
	LastThreadOpts FetchOptions
	LastReplyOpts  FetchOptions
}

// NewMockClient creates a new mock client with default test data.
func NewMockClient() *MockClient {
	return &MockClient{
		Threads: generateTestThreads(),
		Replies: generateTestReplies(),
	}
}

// FetchThreadPage implements the Client interface.
func (m *MockClient) FetchThreadPage(ctx context.Context, videoID string, opts FetchOptions) (*ThreadPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ThreadCalls++
	m.LastVideoID = videoID
	m.LastOpts = opts
	m.LastThreadOpts = opts

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.injectedError(); err != nil {
		return nil, err
	}
	if m.FailThreadsAfter > 0 && m.ThreadCalls > m.FailThreadsAfter {
		return nil, fmt.Errorf("network error fetching thread page: %w", relayerrors.ErrNetworkFailure)
	}

	start, end, next, err := paginate(len(m.Threads), opts)
	if err != nil {
		return nil, err
	}
	return &ThreadPage{
		Threads:       append([]Comment(nil), m.Threads[start:end]...),
		NextPageToken: next,
	}, nil
}

// FetchReplyPage implements the Client interface.
func (m *MockClient) FetchReplyPage(ctx context.Context, commentID string, opts FetchOptions) (*ReplyPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReplyCalls++
	m.LastCommentID = commentID
	m.LastOpts = opts
	m.LastReplyOpts = opts

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.injectedError(); err != nil {
		return nil, err
	}
	if err, ok := m.FailRepliesFor[commentID]; ok {
		return nil, err
	}

	replies := m.Replies[commentID]
	start, end, next, err := paginate(len(replies), opts)
	if err != nil {
		return nil, err
	}
	return &ReplyPage{
		Comments:      append([]Comment(nil), replies[start:end]...),
		NextPageToken: next,
	}, nil
}

// injectedError returns the configured failure, if any. Callers must hold
// the mutex.
func (m *MockClient) injectedError() error {
	switch {
	case m.ShouldFailAuth:
		return fmt.Errorf("authentication failed: %w", relayerrors.ErrInvalidAPIKey)
	case m.ShouldFailQuota:
		return fmt.Errorf("quota exhausted: %w", relayerrors.ErrQuotaExceeded)
	case m.ShouldFailNotFound:
		return fmt.Errorf("video not found: %w", relayerrors.ErrVideoNotFound)
	case m.ShouldFailDisabled:
		return fmt.Errorf("comments disabled: %w", relayerrors.ErrCommentsDisabled)
	case m.Error != nil:
		return m.Error
	}
	return nil
}

// paginate computes the slice window for a page request. Page tokens have
// the form "page-<offset>", mirroring how the real API hands out opaque
// continuation tokens.
func paginate(total int, opts FetchOptions) (start, end int, next string, err error) {
	if opts.PageToken != "" {
		offset, perr := strconv.Atoi(strings.TrimPrefix(opts.PageToken, "page-"))
		if perr != nil || offset < 0 || offset > total {
			return 0, 0, "", fmt.Errorf("invalid page token %q", opts.PageToken)
		}
		start = offset
	}
	end = start + int(effectivePageSize(opts.PageSize))
	if end > total {
		end = total
	}
	if end < total {
		next = fmt.Sprintf("page-%d", end)
	}
	return start, end, next, nil
}

// generateTestThreads creates sample top-level comments for testing.
func generateTestThreads() []Comment {
	return []Comment{
		{
			ID:         "UgxThread1",
			Author:     "@alice",
			Text:       "Great walkthrough, the pagination section finally made sense!",
			Likes:      42,
			Published:  "2024-01-15T10:30:00Z",
			ReplyCount: 2,
		},
		{
			ID:        "UgxThread2",
			Author:    "@bob",
			Text:      "Audio is a bit quiet around the 12 minute mark",
			Likes:     7,
			Published: "2024-01-16T08:12:00Z",
		},
		{
			ID:         "UgxThread3",
			Author:     "@charlie",
			Text:       "Subscribed. More of these please.",
			Likes:      3,
			Published:  "2024-01-17T22:45:00Z",
			ReplyCount: 1,
		},
	}
}

// generateTestReplies creates reply threads matching generateTestThreads.
func generateTestReplies() map[string][]Comment {
	return map[string][]Comment{
		"UgxThread1": {
			{
				ID:        "UgxReply1a",
				Author:    "@dana",
				Text:      "Same here, the token diagram helped a lot",
				Likes:     5,
				Published: "2024-01-15T11:00:00Z",
			},
			{
				ID:        "UgxReply1b",
				Author:    "@alice",
				Text:      "Glad it helped!",
				Likes:     1,
				Published: "2024-01-15T11:30:00Z",
			},
		},
		"UgxThread3": {
			{
				ID:        "UgxReply3a",
				Author:    "@erin",
				Text:      "Seconded",
				Likes:     0,
				Published: "2024-01-18T09:05:00Z",
			},
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithThreads sets the top-level comments to return.
func WithThreads(threads []Comment) MockClientOption {
	return func(m *MockClient) {
		m.Threads = threads
	}
}

// WithReplies sets the reply map keyed by parent comment id.
func WithReplies(replies map[string][]Comment) MockClientOption {
	return func(m *MockClient) {
		m.Replies = replies
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithQuotaFailure makes the client simulate an exhausted quota.
func WithQuotaFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailQuota = true
	}
}

// WithNotFound makes the client simulate a missing video.
func WithNotFound() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailNotFound = true
	}
}

// WithCommentsDisabled makes the client simulate a video with comments off.
func WithCommentsDisabled() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailDisabled = true
	}
}

// WithThreadFailureAfter makes thread page requests fail once n pages have
// been served.
func WithThreadFailureAfter(n int) MockClientOption {
	return func(m *MockClient) {
		m.FailThreadsAfter = n
	}
}

// WithReplyFailure makes reply fetches for the given comment id fail.
func WithReplyFailure(commentID string, err error) MockClientOption {
	return func(m *MockClient) {
		if m.FailRepliesFor == nil {
			m.FailRepliesFor = make(map[string]error)
		}
		m.FailRepliesFor[commentID] = err
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
