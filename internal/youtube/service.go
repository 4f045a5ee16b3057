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
	"net/http"
	"time"

	gtransport "google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/sirseerhq/sirseer-threads/internal/apierror"
	relayerrors "github.com/sirseerhq/sirseer-threads/internal/errors"
)

// ServiceConfig carries everything needed to talk to the YouTube Data API.
type ServiceConfig struct {
	// APIKey authenticates every request. Required.
	APIKey string

	// Endpoint overrides the API base URL. Empty means the public
	// googleapis.com endpoint; tests point it at a local server.
	Endpoint string

	// QPS is the proactive request throttle. Zero or negative disables
	// throttling; callers normally pass DefaultQPS.
	QPS float64
}

// DataAPIClient implements the Client interface against the YouTube Data
// API v3. Comment threads come from commentThreads.list and nested replies
// from comments.list, both authenticated with an API key only.
type DataAPIClient struct {
	svc       *ytapi.Service
	inspector apierror.Inspector
}

// NewDataAPIClient creates a Data API client with connection pooling, an
// outbound request throttle, and API-key authentication.
func NewDataAPIClient(ctx context.Context, cfg ServiceConfig) (*DataAPIClient, error) {
	base := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	// The key rides as a query parameter on every request. Installing our
	// own http.Client means option.WithAPIKey would be ignored, so the
	// gtransport.APIKey wrapper does the job instead.
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &gtransport.APIKey{
			Key:       cfg.APIKey,
			Transport: newThrottledTransport(base, cfg.QPS),
		},
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}

	return &DataAPIClient{
		svc:       svc,
		inspector: apierror.NewInspector(),
	}, nil
}

// FetchThreadPage fetches a single page of top-level comment threads for
// the given video.
func (c *DataAPIClient) FetchThreadPage(ctx context.Context, videoID string, opts FetchOptions) (*ThreadPage, error) {
	call := c.svc.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		TextFormat("html").
		MaxResults(effectivePageSize(opts.PageSize)).
		Context(ctx)
	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}
	if opts.Order != "" {
		call = call.Order(opts.Order)
	}
	if opts.SearchTerms != "" {
		call = call.SearchTerms(opts.SearchTerms)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, c.mapError(err, fmt.Sprintf("video %q", videoID))
	}

	page := &ThreadPage{
		Threads:       make([]Comment, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		rec, err := threadRecord(item)
		if err != nil {
			return nil, fmt.Errorf("thread page for video %q: %w", videoID, err)
		}
		page.Threads = append(page.Threads, rec)
	}
	return page, nil
}

// FetchReplyPage fetches a single page of direct replies to the given
// comment. Order and SearchTerms are ignored; comments.list supports
// neither.
func (c *DataAPIClient) FetchReplyPage(ctx context.Context, commentID string, opts FetchOptions) (*ReplyPage, error) {
	call := c.svc.Comments.List([]string{"snippet"}).
		ParentId(commentID).
		TextFormat("html").
		MaxResults(effectivePageSize(opts.PageSize)).
		Context(ctx)
	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, c.mapError(err, fmt.Sprintf("comment %q", commentID))
	}

	page := &ReplyPage{
		Comments:      make([]Comment, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		rec, err := replyRecord(item)
		if err != nil {
			return nil, fmt.Errorf("reply page for comment %q: %w", commentID, err)
		}
		page.Comments = append(page.Comments, rec)
	}
	return page, nil
}

// threadRecord converts a commentThreads item into a Comment. The reply
// count comes from the thread snippet and gates whether the crawler asks
// for replies at all.
func threadRecord(item *ytapi.CommentThread) (Comment, error) {
	if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
		return Comment{}, fmt.Errorf("thread %q missing top-level comment snippet: %w",
			item.Id, relayerrors.ErrMissingField)
	}
	top := item.Snippet.TopLevelComment
	rec := Comment{
		ID:         top.Id,
		Author:     top.Snippet.AuthorDisplayName,
		Text:       top.Snippet.TextDisplay,
		Likes:      top.Snippet.LikeCount,
		Published:  top.Snippet.PublishedAt,
		ReplyCount: item.Snippet.TotalReplyCount,
	}
	return rec, validateRecord(rec)
}

// replyRecord converts a comments.list item into a Comment. Replies carry
// no reply count of their own; the API only nests one level, so deeper
// threads are discovered by asking for replies to every reply.
func replyRecord(item *ytapi.Comment) (Comment, error) {
	if item.Snippet == nil {
		return Comment{}, fmt.Errorf("comment %q missing snippet: %w",
			item.Id, relayerrors.ErrMissingField)
	}
	rec := Comment{
		ID:        item.Id,
		Author:    item.Snippet.AuthorDisplayName,
		Text:      item.Snippet.TextDisplay,
		Likes:     item.Snippet.LikeCount,
		Published: item.Snippet.PublishedAt,
	}
	return rec, validateRecord(rec)
}

// validateRecord rejects records that cannot participate in the crawl.
// An id-less record cannot be queried for replies and an author-less one
// cannot be rendered, so both fail the page rather than corrupt output.
func validateRecord(rec Comment) error {
	if rec.ID == "" {
		return fmt.Errorf("comment record has no id: %w", relayerrors.ErrMissingField)
	}
	if rec.Author == "" {
		return fmt.Errorf("comment %q has no author: %w", rec.ID, relayerrors.ErrMissingField)
	}
	return nil
}

// mapError translates Data API failures into our error types with
// actionable messages. The subject names what was being fetched, e.g.
// `video "dQw4w9WgXcQ"` or `comment "UgxKREWxIgDrw8w"`.
func (c *DataAPIClient) mapError(err error, subject string) error {
	if err == nil {
		return nil
	}

	// commentsDisabled arrives as a 403 like the quota errors; check the
	// specific reason first.
	if c.inspector.IsCommentsDisabledError(err) {
		return fmt.Errorf("%s has comments disabled: %w", subject, relayerrors.ErrCommentsDisabled)
	}

	if c.inspector.IsQuotaError(err) {
		if c.inspector.IsRetryable(err) {
			return fmt.Errorf("YouTube API rate limit hit, requests are being throttled: %w",
				relayerrors.ErrQuotaExceeded)
		}
		return fmt.Errorf("YouTube API daily quota exceeded. The quota resets at midnight Pacific Time; request an increase in the Google Cloud console: %w",
			relayerrors.ErrQuotaExceeded)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("YouTube API rejected the key. Verify the key and that the YouTube Data API v3 is enabled for it in the Google Cloud console: %w",
			relayerrors.ErrInvalidAPIKey)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("%s could not be found. Check the id and whether the video is public: %w",
			subject, relayerrors.ErrVideoNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error reaching the YouTube API (%v): %w",
			err, relayerrors.ErrNetworkFailure)
	}

	return fmt.Errorf("youtube api request failed for %s: %w", subject, err)
}
