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

package cache

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-threads/internal/youtube"
)

// countingClient records how often the wrapped client is actually hit.
type countingClient struct {
	threadCalls int
	replyCalls  int
	threadPage  *youtube.ThreadPage
	replyPage   *youtube.ReplyPage
}

func (c *countingClient) FetchThreadPage(ctx context.Context, videoID string, opts youtube.FetchOptions) (*youtube.ThreadPage, error) {
	c.threadCalls++
	return c.threadPage, nil
}

func (c *countingClient) FetchReplyPage(ctx context.Context, commentID string, opts youtube.FetchOptions) (*youtube.ReplyPage, error) {
	c.replyCalls++
	return c.replyPage, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachingClient_FreshHitSkipsNetwork(t *testing.T) {
	db := openTestDB(t)
	inner := &countingClient{threadPage: samplePage()}
	client := NewClient(inner, db, time.Hour, quietLogger())
	opts := youtube.FetchOptions{PageSize: 50}

	first, err := client.FetchThreadPage(context.Background(), "vid123", opts)
	if err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	if inner.threadCalls != 1 {
		t.Fatalf("First fetch made %d network calls, want 1", inner.threadCalls)
	}

	second, err := client.FetchThreadPage(context.Background(), "vid123", opts)
	if err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if inner.threadCalls != 1 {
		t.Errorf("Fresh entry still hit the network: %d calls", inner.threadCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Cached page differs from the fetched one\ngot:  %+v\nwant: %+v", second, first)
	}
}

func TestCachingClient_StaleEntryRefetches(t *testing.T) {
	db := openTestDB(t)
	inner := &countingClient{threadPage: samplePage()}
	client := NewClient(inner, db, time.Hour, quietLogger())
	opts := youtube.FetchOptions{PageSize: 50}

	if _, err := client.FetchThreadPage(context.Background(), "vid123", opts); err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	backdate(t, db, 2*time.Hour)

	if _, err := client.FetchThreadPage(context.Background(), "vid123", opts); err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if inner.threadCalls != 2 {
		t.Errorf("Stale entry served from cache: %d network calls, want 2", inner.threadCalls)
	}

	// The refetch replaced the entry, so it counts as fresh again.
	if _, err := client.FetchThreadPage(context.Background(), "vid123", opts); err != nil {
		t.Fatalf("Third fetch failed: %v", err)
	}
	if inner.threadCalls != 2 {
		t.Errorf("Refetched entry not re-stored: %d network calls, want 2", inner.threadCalls)
	}
}

func TestCachingClient_ReplyPageHit(t *testing.T) {
	db := openTestDB(t)
	inner := &countingClient{
		replyPage: &youtube.ReplyPage{Comments: []youtube.Comment{{ID: "UgxR", Author: "@dana", Text: "Agreed"}}},
	}
	client := NewClient(inner, db, time.Hour, quietLogger())
	opts := youtube.FetchOptions{PageSize: 50}

	if _, err := client.FetchReplyPage(context.Background(), "UgxParent", opts); err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	got, err := client.FetchReplyPage(context.Background(), "UgxParent", opts)
	if err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if inner.replyCalls != 1 {
		t.Errorf("Fresh reply page still hit the network: %d calls", inner.replyCalls)
	}
	if !reflect.DeepEqual(got, inner.replyPage) {
		t.Errorf("Cached reply page mismatch: %+v", got)
	}
}

// A broken cache must never break the crawl: reads and writes that fail
// log a warning and the fetch falls through to the network.
func TestCachingClient_DegradesOnCacheErrors(t *testing.T) {
	db := openTestDB(t)
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	inner := &countingClient{threadPage: samplePage()}
	client := NewClient(inner, db, time.Hour, quietLogger())
	opts := youtube.FetchOptions{PageSize: 50}

	for i := 0; i < 2; i++ {
		page, err := client.FetchThreadPage(context.Background(), "vid123", opts)
		if err != nil {
			t.Fatalf("Fetch %d failed despite a healthy network path: %v", i+1, err)
		}
		if !reflect.DeepEqual(page, inner.threadPage) {
			t.Errorf("Fetch %d returned the wrong page: %+v", i+1, page)
		}
	}
	if inner.threadCalls != 2 {
		t.Errorf("Every fetch must reach the network when the cache is broken: %d calls, want 2", inner.threadCalls)
	}
}
