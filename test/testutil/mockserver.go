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

// Package testutil provides common test helpers for sirseer-threads
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// MockAPIServer serves the two YouTube Data API endpoints the crawler
// talks to: commentThreads for paginated top-level threads and comments
// for paginated replies. Pagination uses "page-<offset>" tokens so tests
// can reason about which page a request asked for.
type MockAPIServer struct {
	*httptest.Server

	threads []CommentFixture
	replies map[string][]CommentFixture

	attempts       int32
	threadRequests int32
	replyRequests  int32

	// Fail the first N requests with a transient 500 before serving
	// fixtures. Used to exercise the retry path.
	failFirst int32

	// Fail every thread request after the first N pages have been
	// served. Used to exercise partial-result behavior.
	failAfterThreadPages int32

	mu              sync.Mutex
	lastThreadQuery url.Values
	lastReplyQuery  url.Values
}

// NewMockAPIServer creates a mock Data API server backed by the given
// thread fixtures
func NewMockAPIServer(t *testing.T, threads []CommentFixture) *MockAPIServer {
	t.Helper()

	s := &MockAPIServer{
		threads: threads,
		replies: make(map[string][]CommentFixture),
	}
	for _, th := range threads {
		if len(th.Replies) > 0 {
			s.replies[th.ID] = th.Replies
		}
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// NewTransientErrorServer creates a mock server whose first failCount
// requests return a 500 before fixtures are served normally
func NewTransientErrorServer(t *testing.T, failCount int, threads []CommentFixture) *MockAPIServer {
	t.Helper()
	s := NewMockAPIServer(t, threads)
	s.failFirst = int32(failCount)
	return s
}

// NewFailAfterServer creates a mock server that serves the first pages
// thread pages and fails every thread request after that
func NewFailAfterServer(t *testing.T, threads []CommentFixture, pages int) *MockAPIServer {
	t.Helper()
	s := NewMockAPIServer(t, threads)
	s.failAfterThreadPages = int32(pages)
	return s
}

// NewAPIErrorServer creates a mock server that answers every request
// with the given Data API error
func NewAPIErrorServer(t *testing.T, status int, reason, message string) *MockAPIServer {
	t.Helper()
	s := &MockAPIServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.attempts, 1)
		atomic.AddInt32(&s.threadRequests, 1)
		writeAPIError(w, status, reason, message)
	}))
	t.Cleanup(s.Close)
	return s
}

// NewQuotaExceededServer simulates an exhausted daily quota
func NewQuotaExceededServer(t *testing.T) *MockAPIServer {
	return NewAPIErrorServer(t, 403, "quotaExceeded",
		"The request cannot be completed because you have exceeded your quota.")
}

// NewInvalidKeyServer simulates a rejected API key
func NewInvalidKeyServer(t *testing.T) *MockAPIServer {
	return NewAPIErrorServer(t, 400, "keyInvalid", "Bad Request")
}

// NewVideoNotFoundServer simulates a missing or private video
func NewVideoNotFoundServer(t *testing.T) *MockAPIServer {
	return NewAPIErrorServer(t, 404, "videoNotFound",
		"The video identified by the videoId parameter could not be found.")
}

// NewCommentsDisabledServer simulates a video with comments turned off
func NewCommentsDisabledServer(t *testing.T) *MockAPIServer {
	return NewAPIErrorServer(t, 403, "commentsDisabled",
		"The video identified by the videoId parameter has disabled comments.")
}

// UnreachableEndpoint returns a URL that refuses connections, for
// simulating network failures
func UnreachableEndpoint(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()
	return addr
}

// AttemptCount returns how many requests reached the server, including
// ones answered with an injected failure
func (s *MockAPIServer) AttemptCount() int {
	return int(atomic.LoadInt32(&s.attempts))
}

// ThreadRequestCount returns how many commentThreads requests were served
func (s *MockAPIServer) ThreadRequestCount() int {
	return int(atomic.LoadInt32(&s.threadRequests))
}

// ReplyRequestCount returns how many comments requests were served
func (s *MockAPIServer) ReplyRequestCount() int {
	return int(atomic.LoadInt32(&s.replyRequests))
}

// LastThreadQuery returns the query parameters of the most recent
// commentThreads request
func (s *MockAPIServer) LastThreadQuery() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastThreadQuery
}

// LastReplyQuery returns the query parameters of the most recent
// comments request
func (s *MockAPIServer) LastReplyQuery() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReplyQuery
}

func (s *MockAPIServer) handle(w http.ResponseWriter, r *http.Request) {
	attempt := atomic.AddInt32(&s.attempts, 1)
	if s.failFirst > 0 && attempt <= s.failFirst {
		writeAPIError(w, 500, "backendError", "Backend Error")
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/commentThreads"):
		s.handleThreads(w, r)
	case strings.HasSuffix(r.URL.Path, "/comments"):
		s.handleReplies(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *MockAPIServer) handleThreads(w http.ResponseWriter, r *http.Request) {
	count := atomic.AddInt32(&s.threadRequests, 1)

	s.mu.Lock()
	s.lastThreadQuery = r.URL.Query()
	s.mu.Unlock()

	if s.failAfterThreadPages > 0 && count > s.failAfterThreadPages {
		writeAPIError(w, 500, "backendError", "Backend Error")
		return
	}

	offset := parsePageToken(r.URL.Query().Get("pageToken"))
	pageSize := parseMaxResults(r.URL.Query().Get("maxResults"))

	end := offset + pageSize
	if end > len(s.threads) {
		end = len(s.threads)
	}

	items := make([]map[string]interface{}, 0, end-offset)
	for _, th := range s.threads[offset:end] {
		items = append(items, threadItem(th))
	}

	response := map[string]interface{}{
		"kind":  "youtube#commentThreadListResponse",
		"items": items,
	}
	if end < len(s.threads) {
		response["nextPageToken"] = fmt.Sprintf("page-%d", end)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func (s *MockAPIServer) handleReplies(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.replyRequests, 1)

	s.mu.Lock()
	s.lastReplyQuery = r.URL.Query()
	s.mu.Unlock()

	parentID := r.URL.Query().Get("parentId")
	replies := s.replies[parentID]

	offset := parsePageToken(r.URL.Query().Get("pageToken"))
	pageSize := parseMaxResults(r.URL.Query().Get("maxResults"))

	end := offset + pageSize
	if end > len(replies) {
		end = len(replies)
	}

	items := make([]map[string]interface{}, 0, end-offset)
	for _, reply := range replies[offset:end] {
		items = append(items, replyItem(parentID, reply))
	}

	response := map[string]interface{}{
		"kind":  "youtube#commentListResponse",
		"items": items,
	}
	if end < len(replies) {
		response["nextPageToken"] = fmt.Sprintf("page-%d", end)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// threadItem renders a fixture as a commentThreads list item
func threadItem(th CommentFixture) map[string]interface{} {
	return map[string]interface{}{
		"id": th.ID,
		"snippet": map[string]interface{}{
			"totalReplyCount": len(th.Replies),
			"topLevelComment": map[string]interface{}{
				"id": th.ID,
				"snippet": map[string]interface{}{
					"authorDisplayName": th.Author,
					"textDisplay":       th.Text,
					"likeCount":         th.Likes,
					"publishedAt":       th.Published,
				},
			},
		},
	}
}

// replyItem renders a fixture as a comments list item
func replyItem(parentID string, reply CommentFixture) map[string]interface{} {
	return map[string]interface{}{
		"id": reply.ID,
		"snippet": map[string]interface{}{
			"authorDisplayName": reply.Author,
			"textDisplay":       reply.Text,
			"likeCount":         reply.Likes,
			"publishedAt":       reply.Published,
			"parentId":          parentID,
		},
	}
}

// writeAPIError renders a Data API error response the way googleapis does
func writeAPIError(w http.ResponseWriter, status int, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": {"code": %d, "message": %q, "errors": [{"reason": %q, "message": %q}]}}`,
		status, message, reason, message)
}

func parsePageToken(token string) int {
	if token == "" {
		return 0
	}
	offset, err := strconv.Atoi(strings.TrimPrefix(token, "page-"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func parseMaxResults(raw string) int {
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 {
		return 100
	}
	return size
}
