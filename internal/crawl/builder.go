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

package crawl

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sirseerhq/sirseer-threads/internal/metadata"
	"github.com/sirseerhq/sirseer-threads/internal/youtube"
)

// Builder resolves the reply subtree under a single comment. It is
// stateless between calls apart from the shared metadata tracker, so one
// builder serves a whole crawl.
type Builder struct {
	client      youtube.Client
	pageSize    int
	concurrency int
	tracker     *metadata.Tracker
	log         *slog.Logger
}

// NewBuilder creates a reply tree builder from the crawl configuration.
// Only Client, PageSize, Concurrency, Tracker, and Logger are used; the
// budget and thread-listing options belong to the Collector.
func NewBuilder(cfg Config) *Builder {
	cfg = cfg.withDefaults()
	return &Builder{
		client:      cfg.Client,
		pageSize:    cfg.PageSize,
		concurrency: cfg.Concurrency,
		tracker:     cfg.Tracker,
		log:         cfg.Logger,
	}
}

// BuildReplyTree resolves the full reply subtree under the given comment:
// it pages through the comment's direct replies and recursively resolves
// each reply's own subtree, preserving API return order at every level.
// Depth is bounded only by the data.
//
// Fetching is best-effort. A page failure at any level logs one warning,
// marks the crawl partial on the shared tracker, and cuts off that level's
// pagination; replies already collected are kept and sibling subtrees are
// unaffected. The returned slice is therefore always safe to export, just
// possibly incomplete. Errors never propagate to the caller.
func (b *Builder) BuildReplyTree(ctx context.Context, commentID string) []*CommentNode {
	return b.buildLevel(ctx, commentID, 1)
}

// buildLevel collects the direct replies of parentID, each with its own
// subtree resolved. level is the structural depth of the records being
// collected, with 1 meaning a direct reply to a top-level comment.
func (b *Builder) buildLevel(ctx context.Context, parentID string, level int) []*CommentNode {
	var nodes []*CommentNode
	pageToken := ""

	for {
		opts := youtube.FetchOptions{
			PageSize:  b.pageSize,
			PageToken: pageToken,
		}

		b.tracker.IncrementReplyCall()
		page, err := b.client.FetchReplyPage(ctx, parentID, opts)
		if err != nil {
			b.log.Warn("reply page fetch failed, keeping replies collected so far",
				"parent_id", parentID,
				"page_token", pageToken,
				"error", err)
			b.tracker.MarkPartial(fmt.Sprintf("failed to fetch replies for %s: %v", parentID, err))
			return nodes
		}

		nodes = append(nodes, b.resolvePage(ctx, page.Comments, level)...)

		if page.NextPageToken == "" {
			return nodes
		}
		pageToken = page.NextPageToken
	}
}

// resolvePage turns one page of reply records into nodes with fully
// resolved subtrees. Each goroutine on the concurrent path writes only its
// own index, so the returned order is exactly the API order either way.
func (b *Builder) resolvePage(ctx context.Context, records []youtube.Comment, level int) []*CommentNode {
	nodes := make([]*CommentNode, len(records))

	if b.concurrency > 1 {
		var g errgroup.Group
		g.SetLimit(b.concurrency)
		for i, record := range records {
			i, record := i, record
			g.Go(func() error {
				nodes[i] = b.resolveRecord(ctx, record, level)
				return nil
			})
		}
		// Workers report failures through the tracker, never as errors.
		_ = g.Wait()
	} else {
		for i, record := range records {
			nodes[i] = b.resolveRecord(ctx, record, level)
		}
	}

	return nodes
}

// resolveRecord builds the node for one reply record and recurses into the
// record's own replies.
func (b *Builder) resolveRecord(ctx context.Context, record youtube.Comment, level int) *CommentNode {
	b.tracker.RecordDepth(level)
	node := newNode(record)
	node.Replies = b.buildLevel(ctx, record.ID, level+1)
	return node
}
