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
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirseerhq/sirseer-threads/internal/youtube"
)

const (
	kindThreads = "threads"
	kindReplies = "replies"
)

// pageKey identifies one cached page. Two requests that would hit the
// same API URL share a key; anything that changes the response (page
// size, token, ordering, search filter) is part of it.
type pageKey struct {
	kind        string
	parentID    string
	pageSize    int
	pageToken   string
	order       string
	searchTerms string
}

// threadKey normalizes thread-listing options into a cache key. Page
// size zero means the API maximum, so both spellings map to one entry.
func threadKey(videoID string, opts youtube.FetchOptions) pageKey {
	return pageKey{
		kind:        kindThreads,
		parentID:    videoID,
		pageSize:    normalizeSize(opts.PageSize),
		pageToken:   opts.PageToken,
		order:       opts.Order,
		searchTerms: opts.SearchTerms,
	}
}

// replyKey normalizes reply-listing options. Order and search terms are
// dropped; comments.list ignores both, and keeping them in the key would
// split identical responses across entries.
func replyKey(commentID string, opts youtube.FetchOptions) pageKey {
	return pageKey{
		kind:      kindReplies,
		parentID:  commentID,
		pageSize:  normalizeSize(opts.PageSize),
		pageToken: opts.PageToken,
	}
}

func normalizeSize(n int) int {
	if n <= 0 || n > youtube.MaxPageSize {
		return youtube.MaxPageSize
	}
	return n
}

// GetThreadPage retrieves a cached thread page. Returns (page, isFresh,
// error). isFresh indicates whether the entry is within its TTL.
// Returns a nil page on cache miss.
func (d *DB) GetThreadPage(videoID string, opts youtube.FetchOptions, ttl time.Duration) (*youtube.ThreadPage, bool, error) {
	var page youtube.ThreadPage
	found, fresh, err := d.lookup(threadKey(videoID, opts), ttl, &page)
	if err != nil || !found {
		return nil, false, err
	}
	return &page, fresh, nil
}

// PutThreadPage stores a thread page in the cache, replacing any
// previous entry for the same request.
func (d *DB) PutThreadPage(videoID string, opts youtube.FetchOptions, page *youtube.ThreadPage) error {
	return d.store(threadKey(videoID, opts), page)
}

// GetReplyPage retrieves a cached reply page. Same contract as
// GetThreadPage.
func (d *DB) GetReplyPage(commentID string, opts youtube.FetchOptions, ttl time.Duration) (*youtube.ReplyPage, bool, error) {
	var page youtube.ReplyPage
	found, fresh, err := d.lookup(replyKey(commentID, opts), ttl, &page)
	if err != nil || !found {
		return nil, false, err
	}
	return &page, fresh, nil
}

// PutReplyPage stores a reply page in the cache.
func (d *DB) PutReplyPage(commentID string, opts youtube.FetchOptions, page *youtube.ReplyPage) error {
	return d.store(replyKey(commentID, opts), page)
}

func (d *DB) lookup(key pageKey, ttl time.Duration, out interface{}) (found, fresh bool, err error) {
	row := d.db.QueryRow(`SELECT payload, fetched_at FROM pages
		WHERE kind = ? AND parent_id = ? AND page_size = ? AND page_token = ? AND sort_order = ? AND search_terms = ?`,
		key.kind, key.parentID, key.pageSize, key.pageToken, key.order, key.searchTerms)

	var payload string
	var fetchedAt int64
	err = row.Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, false, err
	}

	fresh = time.Since(time.Unix(fetchedAt, 0)) < ttl
	return true, fresh, nil
}

func (d *DB) store(key pageKey, page interface{}) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR REPLACE INTO pages
		(kind, parent_id, page_size, page_token, sort_order, search_terms, payload, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key.kind, key.parentID, key.pageSize, key.pageToken, key.order, key.searchTerms,
		string(payload), time.Now().Unix())
	return err
}
