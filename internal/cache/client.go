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
	"log/slog"
	"time"

	"github.com/sirseerhq/sirseer-threads/internal/youtube"
)

// DefaultTTL is how long a cached page counts as fresh. Comment threads
// accrete rather than churn, so a day-old page is still a faithful crawl
// starting point.
const DefaultTTL = 24 * time.Hour

// CachingClient wraps a YouTube client with a read-through SQLite page
// cache. Fresh entries are returned without a network call; misses and
// stale entries go to the wrapped client and the response is stored.
// Cache errors degrade to the network path with a warning, they never
// fail the fetch.
type CachingClient struct {
	client youtube.Client
	db     *DB
	ttl    time.Duration
	log    *slog.Logger
}

// NewClient creates a caching decorator around client. A ttl of zero
// means DefaultTTL; a nil logger means slog.Default().
func NewClient(client youtube.Client, db *DB, ttl time.Duration, log *slog.Logger) youtube.Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachingClient{
		client: client,
		db:     db,
		ttl:    ttl,
		log:    log,
	}
}

// FetchThreadPage implements the Client interface with read-through caching.
func (c *CachingClient) FetchThreadPage(ctx context.Context, videoID string, opts youtube.FetchOptions) (*youtube.ThreadPage, error) {
	cached, fresh, err := c.db.GetThreadPage(videoID, opts, c.ttl)
	if err != nil {
		c.log.Warn("page cache read failed, falling back to the API",
			"video_id", videoID, "error", err)
	} else if cached != nil && fresh {
		return cached, nil
	}

	page, err := c.client.FetchThreadPage(ctx, videoID, opts)
	if err != nil {
		return nil, err
	}
	if err := c.db.PutThreadPage(videoID, opts, page); err != nil {
		c.log.Warn("page cache write failed", "video_id", videoID, "error", err)
	}
	return page, nil
}

// FetchReplyPage implements the Client interface with read-through caching.
func (c *CachingClient) FetchReplyPage(ctx context.Context, commentID string, opts youtube.FetchOptions) (*youtube.ReplyPage, error) {
	cached, fresh, err := c.db.GetReplyPage(commentID, opts, c.ttl)
	if err != nil {
		c.log.Warn("page cache read failed, falling back to the API",
			"comment_id", commentID, "error", err)
	} else if cached != nil && fresh {
		return cached, nil
	}

	page, err := c.client.FetchReplyPage(ctx, commentID, opts)
	if err != nil {
		return nil, err
	}
	if err := c.db.PutReplyPage(commentID, opts, page); err != nil {
		c.log.Warn("page cache write failed", "comment_id", commentID, "error", err)
	}
	return page, nil
}
