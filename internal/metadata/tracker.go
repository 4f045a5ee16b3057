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

// Package metadata provides functionality for tracking and persisting
// metadata about crawl operations. It records statistics about each crawl
// including the number of comments retrieved, API calls made by request
// kind, the deepest reply level reached, and whether any part of the
// thread forest was left incomplete.
//
// The metadata system serves several purposes:
//   - Provides an audit trail for downstream analysis pipelines
//   - Enables troubleshooting by recording the exact crawl parameters
//   - Records API usage for quota planning
//
// Metadata is saved as a JSON file next to the exported output, allowing
// external tools to inspect crawl history without parsing the export
// itself.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// MethodVersion identifies the crawl strategy that produced a
	// metadata record: commentThreads.list for top-level pages plus
	// recursive comments.list pagination for replies.
	MethodVersion = "commentthreads-recursive-v1"
)

// Tracker collects statistics during a crawl and generates the metadata
// record written next to the output file. Create one tracker at the start
// of a crawl and share it between the collector and the tree builder.
// All methods are safe for concurrent use, so reply workers can report
// into the tracker directly.
type Tracker struct {
	mu          sync.Mutex
	startTime   time.Time
	threadCalls int
	replyCalls  int
	maxDepth    int
	roots       int
	totalNodes  int
	partial     bool
	warnings    []string
}

// New creates a new metadata tracker and initializes it with the current
// time. Call this at the beginning of a crawl to start tracking.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementThreadCall records one commentThreads.list page request.
// Call it for every request issued, including ones that ultimately fail.
func (t *Tracker) IncrementThreadCall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.threadCalls++
}

// IncrementReplyCall records one comments.list page request.
func (t *Tracker) IncrementReplyCall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replyCalls++
}

// RecordDepth notes that a reply was materialized at the given level,
// where level 1 is a direct reply to a top-level comment. The deepest
// level seen across the whole crawl becomes max_depth in the metadata.
func (t *Tracker) RecordDepth(level int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if level > t.maxDepth {
		t.maxDepth = level
	}
}

// RecordPage adds one fully resolved page of top-level threads to the
// running totals. roots is the number of top-level comments on the page
// and nodes the number of comments on it including every nested reply.
func (t *Tracker) RecordPage(roots, nodes int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.roots += roots
	t.totalNodes += nodes
}

// MarkPartial flags the crawl as incomplete and records the reason.
// A partial crawl still produces output; the warning list tells the
// operator which subtrees were cut short and why.
func (t *Tracker) MarkPartial(warning string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.partial = true
	if warning != "" {
		t.warnings = append(t.warnings, warning)
	}
}

// Partial reports whether any part of the crawl was cut short.
func (t *Tracker) Partial() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.partial
}

// Warnings returns a copy of the recorded warnings in the order they
// were added. It returns nil when the crawl completed cleanly.
func (t *Tracker) Warnings() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.warnings) == 0 {
		return nil
	}
	out := make([]string, len(t.warnings))
	copy(out, t.warnings)
	return out
}

// Roots returns the number of top-level comments recorded so far.
func (t *Tracker) Roots() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roots
}

// TotalNodes returns the number of comments recorded so far, replies at
// every level included.
func (t *Tracker) TotalNodes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalNodes
}

// StartedAt returns when the tracker was created.
func (t *Tracker) StartedAt() time.Time {
	return t.startTime
}

// GenerateMetadata creates a CrawlMetadata record capturing the complete
// crawl statistics. Call this after the crawl finishes, whether it
// completed cleanly or was cut short.
//
// Parameters:
//   - toolVersion: the build version of sirseer-threads (from version.Version)
//   - videoID: the canonical id of the crawled video
//   - crawlID: the identifier shared with the resume checkpoint
//   - params: the crawl parameters used for this operation
//   - resumed: whether this run continued from a checkpoint
//
// Returns a complete metadata record ready for persistence.
func (t *Tracker) GenerateMetadata(toolVersion, videoID, crawlID string, params CrawlParams, resumed bool) *CrawlMetadata {
	completedAt := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	return &CrawlMetadata{
		ToolVersion:   toolVersion,
		MethodVersion: MethodVersion,
		VideoID:       videoID,
		CrawlID:       crawlID,
		Parameters:    params,
		Results: CrawlResults{
			Roots:          t.roots,
			TotalComments:  t.totalNodes,
			MaxDepth:       t.maxDepth,
			ThreadAPICalls: t.threadCalls,
			ReplyAPICalls:  t.replyCalls,
			Duration:       completedAt.Sub(t.startTime).String(),
			StartedAt:      t.startTime,
			CompletedAt:    completedAt,
			Partial:        t.partial,
			Warnings:       append([]string(nil), t.warnings...),
		},
		Resumed: resumed,
	}
}

// FilePath returns the metadata file path for a video: the video id with
// a ".metadata.json" suffix inside dir. Path separators in the id are
// replaced so the file always lands directly in dir.
func FilePath(dir, videoID string) string {
	safe := strings.ReplaceAll(videoID, string(os.PathSeparator), "-")
	return filepath.Join(dir, safe+".metadata.json")
}

// SaveMetadata persists a CrawlMetadata record to the given path. The
// file is written atomically using a temporary file and rename so a crash
// mid-write cannot corrupt an earlier record.
func SaveMetadata(metadata *CrawlMetadata, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	// Write to temporary file first for atomicity
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	// Write JSON with proper formatting
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(metadata); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	// Atomically rename to final location
	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}
