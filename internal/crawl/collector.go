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
	"errors"
	"fmt"
	"log/slog"

	relayerrors "github.com/sirseerhq/sirseer-threads/internal/errors"
	"github.com/sirseerhq/sirseer-threads/internal/metadata"
	"github.com/sirseerhq/sirseer-threads/internal/state"
	"github.com/sirseerhq/sirseer-threads/internal/youtube"
)

// Config configures a crawl. Client is required; everything else has a
// usable zero value.
type Config struct {
	// Client fetches comment pages. Wrap it in the retry or cache
	// decorators before passing it in; the crawl issues plain calls.
	Client youtube.Client

	// PageSize is how many records to request per page, 1 to 100.
	// Zero means the API maximum.
	PageSize int

	// MaxComments caps how many top-level comments are collected.
	// Replies never count against it. Zero or negative means the whole
	// comment section.
	MaxComments int

	// Order sorts the thread listing: "time" (default) or "relevance".
	Order string

	// SearchTerms filters the thread listing server-side.
	SearchTerms string

	// Concurrency is the number of reply subtrees resolved in parallel
	// within a page. Values below 2 mean strictly sequential resolution.
	// Output is identical in both modes.
	Concurrency int

	// Tracker accumulates crawl statistics. Nil gets a fresh tracker;
	// pass one in to share it with the metadata writer.
	Tracker *metadata.Tracker

	// Logger receives crawl events: warnings for failures and debug
	// lines for page progress. Nil means slog.Default().
	Logger *slog.Logger

	// Resume seeds the crawl from a loaded checkpoint: pagination starts
	// at the saved token and the saved totals count against the budget,
	// appear in later checkpoints, and are folded into the tracker.
	Resume *state.CrawlState

	// Export, if set, receives each root node right after its subtree is
	// fully resolved, in API order and before the page is checkpointed.
	// An export error aborts the crawl.
	Export func(node *CommentNode) error

	// OnPage, if set, is called after each fully resolved page with that
	// page's count of roots and of nodes including nested replies. The
	// CLI uses it for progress reporting.
	OnPage func(roots, nodes int)

	// Checkpoint, if set, is called after each fully resolved and
	// exported page with the cursor to persist: the next page token and
	// cumulative totals. A checkpoint error aborts the crawl.
	Checkpoint func(st *state.CrawlState) error
}

// withDefaults fills in the zero values shared by Builder and Collector.
func (cfg Config) withDefaults() Config {
	if cfg.PageSize <= 0 {
		cfg.PageSize = youtube.MaxPageSize
	}
	if cfg.Tracker == nil {
		cfg.Tracker = metadata.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// Collector pages through a video's top-level comment threads and hands
// each thread to the reply tree builder, producing the final forest.
type Collector struct {
	client      youtube.Client
	builder     *Builder
	pageSize    int
	maxComments int
	order       string
	search      string
	tracker     *metadata.Tracker
	log         *slog.Logger
	resume      *state.CrawlState
	export      func(node *CommentNode) error
	onPage      func(roots, nodes int)
	checkpoint  func(st *state.CrawlState) error
}

// NewCollector creates a collector and its reply tree builder from one
// configuration. They share the tracker, so reply failures deep in a
// subtree surface in the collector's result.
func NewCollector(cfg Config) *Collector {
	cfg = cfg.withDefaults()
	c := &Collector{
		client:      cfg.Client,
		builder:     NewBuilder(cfg),
		pageSize:    cfg.PageSize,
		maxComments: cfg.MaxComments,
		order:       cfg.Order,
		search:      cfg.SearchTerms,
		tracker:     cfg.Tracker,
		log:         cfg.Logger,
		resume:      cfg.Resume,
		export:      cfg.Export,
		onPage:      cfg.OnPage,
		checkpoint:  cfg.Checkpoint,
	}
	if cfg.Resume != nil {
		c.tracker.RecordPage(cfg.Resume.RootsFetched, cfg.Resume.TotalNodes)
	}
	return c
}

// Result is the outcome of a crawl: the forest collected by this run plus
// whether any part of it was cut short. Warnings holds one line per
// recoverable failure, in the order they happened.
type Result struct {
	Forest   Forest
	Partial  bool
	Warnings []string
}

// Roots returns the number of top-level comments in the result.
func (r *Result) Roots() int {
	return r.Forest.Roots()
}

// TotalNodes returns the number of comments in the result, replies at
// every depth included.
func (r *Result) TotalNodes() int {
	return r.Forest.TotalNodes()
}

// Collect crawls the comment section of a video: top-level threads in API
// page order, each with its reply subtree fully resolved before the next
// thread is started. The reply builder is only invoked for threads that
// report replies, so leaf threads cost no extra API calls.
//
// Page failures follow the partial-result policy: log one warning, mark
// the result partial, stop paginating, and return everything collected
// with a nil error — even a network failure on the very first page yields
// an empty partial result rather than an error. The exception is a
// quota, key, or video-state failure before anything was collected: those
// describe the request, not the run, so an empty result would be
// misleading and the error is returned instead. Export and checkpoint
// failures are local I/O problems and abort the crawl as errors.
func (c *Collector) Collect(ctx context.Context, videoID string) (*Result, error) {
	var (
		forest     Forest
		pageToken  string
		collected  int
		totalNodes int
	)

	if c.resume != nil {
		pageToken = c.resume.NextPageToken
		collected = c.resume.RootsFetched
		totalNodes = c.resume.TotalNodes

		// An empty resumed token with prior progress means the previous
		// run finished the thread listing; it went partial inside reply
		// subtrees, which the cursor cannot re-address. Listing again
		// from page one would duplicate every root already exported.
		if pageToken == "" && collected > 0 {
			return &Result{}, nil
		}
	}

	for {
		pageSize := c.nextPageSize(collected)
		if pageSize == 0 {
			break
		}

		opts := youtube.FetchOptions{
			PageSize:    pageSize,
			PageToken:   pageToken,
			Order:       c.order,
			SearchTerms: c.search,
		}

		c.tracker.IncrementThreadCall()
		page, err := c.client.FetchThreadPage(ctx, videoID, opts)
		if err != nil {
			if collected == 0 && isFatalFirstPage(err) {
				return nil, err
			}
			c.log.Warn("thread page fetch failed, stopping with comments collected so far",
				"video_id", videoID,
				"page_token", pageToken,
				"error", err)
			c.tracker.MarkPartial(fmt.Sprintf("failed to fetch comment threads for %s: %v", videoID, err))
			break
		}

		c.log.Debug("fetched thread page",
			"video_id", videoID,
			"threads", len(page.Threads),
			"next_page_token", page.NextPageToken)

		pageRoots := 0
		pageNodes := 0
		for _, thread := range page.Threads {
			// A page never exceeds the requested size, but the budget is
			// an invariant, not a request.
			if c.maxComments > 0 && collected >= c.maxComments {
				break
			}

			node := newNode(thread)
			if thread.ReplyCount > 0 {
				node.Replies = c.builder.BuildReplyTree(ctx, thread.ID)
			}
			forest = append(forest, node)
			collected++
			pageRoots++
			pageNodes += node.subtreeSize()

			if c.export != nil {
				if err := c.export(node); err != nil {
					return nil, fmt.Errorf("failed to write comment thread: %w", err)
				}
			}
		}
		totalNodes += pageNodes

		c.tracker.RecordPage(pageRoots, pageNodes)
		if c.onPage != nil {
			c.onPage(pageRoots, pageNodes)
		}

		pageToken = page.NextPageToken

		if c.checkpoint != nil {
			st := &state.CrawlState{
				VideoID:       videoID,
				NextPageToken: pageToken,
				RootsFetched:  collected,
				TotalNodes:    totalNodes,
			}
			if err := c.checkpoint(st); err != nil {
				return nil, fmt.Errorf("failed to save checkpoint: %w", err)
			}
		}

		if pageToken == "" {
			break
		}
	}

	return &Result{
		Forest:   forest,
		Partial:  c.tracker.Partial(),
		Warnings: c.tracker.Warnings(),
	}, nil
}

// isFatalFirstPage reports whether a first-page error describes the
// request itself (quota, bad key, missing video, comments off) rather
// than a transient fetch problem. Only these abort an empty crawl.
func isFatalFirstPage(err error) bool {
	return errors.Is(err, relayerrors.ErrQuotaExceeded) ||
		errors.Is(err, relayerrors.ErrInvalidAPIKey) ||
		errors.Is(err, relayerrors.ErrVideoNotFound) ||
		errors.Is(err, relayerrors.ErrCommentsDisabled)
}

// nextPageSize returns how many threads to request next, shrinking the
// final page so the budget is never exceeded. Zero means the budget is
// spent.
func (c *Collector) nextPageSize(collected int) int {
	if c.maxComments <= 0 {
		return c.pageSize
	}
	remaining := c.maxComments - collected
	if remaining <= 0 {
		return 0
	}
	if remaining < c.pageSize {
		return remaining
	}
	return c.pageSize
}
