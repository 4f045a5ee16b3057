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

package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirseerhq/sirseer-threads/internal/crawl"
	relayerrors "github.com/sirseerhq/sirseer-threads/internal/errors"
	"github.com/sirseerhq/sirseer-threads/internal/youtube"
)

// runFetchCommand executes the fetch command against a mock client,
// injected through the client factory seam.
func runFetchCommand(t *testing.T, mock youtube.Client, args ...string) error {
	t.Helper()

	// Keep config discovery and the state dir away from the real home.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("YOUTUBE_API_KEY", "")

	orig := newClientFunc
	newClientFunc = func(ctx context.Context, cfg youtube.ServiceConfig) (youtube.Client, error) {
		return mock, nil
	}
	t.Cleanup(func() { newClientFunc = orig })

	cmd := newFetchCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)
	return cmd.Execute()
}

func readNDJSON(t *testing.T, path string) []crawl.CommentNode {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	var nodes []crawl.CommentNode
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var node crawl.CommentNode
		if err := json.Unmarshal([]byte(line), &node); err != nil {
			t.Fatalf("invalid NDJSON line %q: %v", line, err)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func TestFetchCommand_NDJSON(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "comments.ndjson")

	err := runFetchCommand(t, youtube.NewMockClient(),
		"dQw4w9WgXcQ", "--api-key", "test-key", "--output", outputFile, "--quiet")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	nodes := readNDJSON(t, outputFile)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 threads, got %d", len(nodes))
	}
	if nodes[0].Author != "@alice" {
		t.Errorf("first author = %q, want @alice", nodes[0].Author)
	}
	if len(nodes[0].Replies) != 2 {
		t.Errorf("first thread replies = %d, want 2", len(nodes[0].Replies))
	}
	if len(nodes[1].Replies) != 0 {
		t.Errorf("second thread should have no replies, got %d", len(nodes[1].Replies))
	}

	// A clean run leaves no checkpoint behind.
	stateFile := filepath.Join(os.Getenv("HOME"), ".sirseer-threads", "dQw4w9WgXcQ.state.json")
	if _, err := os.Stat(stateFile); !os.IsNotExist(err) {
		t.Errorf("expected checkpoint to be removed after a complete crawl")
	}
}

func TestFetchCommand_VideoURL(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "comments.ndjson")
	mock := youtube.NewMockClient()

	err := runFetchCommand(t, mock,
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "-k", "test-key", "-o", outputFile, "-q")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if mock.LastVideoID != "dQw4w9WgXcQ" {
		t.Errorf("crawled video %q, want the id resolved from the URL", mock.LastVideoID)
	}
}

func TestFetchCommand_CSV(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "comments.csv")

	err := runFetchCommand(t, youtube.NewMockClient(),
		"dQw4w9WgXcQ", "-k", "test-key", "-o", outputFile, "-q")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	f, err := os.Open(outputFile)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}

	// Header plus one row per comment: 3 roots and 3 replies.
	if len(rows) != 7 {
		t.Fatalf("expected 7 CSV rows, got %d", len(rows))
	}
	wantHeader := []string{"comment_type", "author", "text", "likes", "published", "parent_author", "parent_text"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][0] != "main" {
		t.Errorf("first data row type = %q, want main", rows[1][0])
	}
	if rows[2][0] != "reply_level_1" || rows[2][5] != "@alice" {
		t.Errorf("reply row = %v, want reply_level_1 under @alice", rows[2])
	}
}

func TestFetchCommand_JSONTree(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "comments.json")

	err := runFetchCommand(t, youtube.NewMockClient(),
		"dQw4w9WgXcQ", "-k", "test-key", "-o", outputFile, "-q")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var forest []crawl.CommentNode
	if err := json.Unmarshal(data, &forest); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(forest) != 3 {
		t.Fatalf("expected 3 trees, got %d", len(forest))
	}
	if len(forest[0].Replies) != 2 {
		t.Errorf("first tree replies = %d, want 2", len(forest[0].Replies))
	}
}

func TestFetchCommand_Budget(t *testing.T) {
	threads := make([]youtube.Comment, 8)
	for i := range threads {
		threads[i] = youtube.Comment{
			ID:        "UgxThread" + string(rune('A'+i)),
			Author:    "@user",
			Text:      "comment",
			Published: "2024-01-15T10:30:00Z",
		}
	}
	mock := youtube.NewMockClientWithOptions(youtube.WithThreads(threads))

	outputFile := filepath.Join(t.TempDir(), "comments.ndjson")
	err := runFetchCommand(t, mock,
		"dQw4w9WgXcQ", "-k", "test-key", "-o", outputFile, "--max", "5", "-q")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if nodes := readNDJSON(t, outputFile); len(nodes) != 5 {
		t.Errorf("expected exactly 5 roots with --max 5, got %d", len(nodes))
	}
	// A budget of 5 needs a single page of exactly 5.
	if mock.LastOpts.PageSize != 5 {
		t.Errorf("page size = %d, want the remaining budget 5", mock.LastOpts.PageSize)
	}
}

func TestFetchCommand_PartialOnMidCrawlFailure(t *testing.T) {
	threads := make([]youtube.Comment, 4)
	for i := range threads {
		threads[i] = youtube.Comment{
			ID:        "UgxThread" + string(rune('A'+i)),
			Author:    "@user",
			Text:      "comment",
			Published: "2024-01-15T10:30:00Z",
		}
	}
	mock := youtube.NewMockClientWithOptions(
		youtube.WithThreads(threads),
		youtube.WithThreadFailureAfter(1),
	)

	outputFile := filepath.Join(t.TempDir(), "comments.ndjson")
	err := runFetchCommand(t, mock,
		"dQw4w9WgXcQ", "-k", "test-key", "-o", outputFile, "--page-size", "2", "--max", "4", "-q")
	if err != nil {
		t.Fatalf("partial results must not fail the run, got: %v", err)
	}

	// Page one was exported before page two failed.
	if nodes := readNDJSON(t, outputFile); len(nodes) != 2 {
		t.Errorf("expected the 2 roots from page one, got %d", len(nodes))
	}

	// The interrupted crawl keeps its checkpoint for --resume.
	stateFile := filepath.Join(os.Getenv("HOME"), ".sirseer-threads", "dQw4w9WgXcQ.state.json")
	if _, err := os.Stat(stateFile); err != nil {
		t.Errorf("expected a checkpoint after a partial crawl: %v", err)
	}
}

func TestFetchCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		mock     *youtube.MockClient
		sentinel error
		wantMsg  string
		wantExit int
	}{
		{
			name:     "missing api key",
			args:     []string{"dQw4w9WgXcQ"},
			mock:     youtube.NewMockClient(),
			sentinel: relayerrors.ErrInvalidAPIKey,
			wantMsg:  "API key",
			wantExit: 2,
		},
		{
			name:     "watch url without v parameter",
			args:     []string{"https://www.youtube.com/watch?x=1", "-k", "test-key"},
			mock:     youtube.NewMockClient(),
			sentinel: relayerrors.ErrInvalidVideoInput,
			wantExit: 2,
		},
		{
			name:     "auth failure",
			args:     []string{"dQw4w9WgXcQ", "-k", "bad-key"},
			mock:     youtube.NewMockClientWithOptions(youtube.WithAuthFailure()),
			sentinel: relayerrors.ErrInvalidAPIKey,
			wantMsg:  "authentication failed",
			wantExit: 2,
		},
		{
			name:     "video not found",
			args:     []string{"dQw4w9WgXcQ", "-k", "test-key"},
			mock:     youtube.NewMockClientWithOptions(youtube.WithNotFound()),
			sentinel: relayerrors.ErrVideoNotFound,
			wantExit: 2,
		},
		{
			name:     "comments disabled",
			args:     []string{"dQw4w9WgXcQ", "-k", "test-key"},
			mock:     youtube.NewMockClientWithOptions(youtube.WithCommentsDisabled()),
			sentinel: relayerrors.ErrCommentsDisabled,
			wantExit: 2,
		},
		{
			name:     "quota exhausted on first page",
			args:     []string{"dQw4w9WgXcQ", "-k", "test-key"},
			mock:     youtube.NewMockClientWithOptions(youtube.WithQuotaFailure()),
			sentinel: relayerrors.ErrQuotaExceeded,
			wantExit: 3,
		},
		{
			name:     "zero max",
			args:     []string{"dQw4w9WgXcQ", "-k", "test-key", "--max", "0"},
			mock:     youtube.NewMockClient(),
			wantMsg:  "--max",
			wantExit: 1,
		},
		{
			name:     "unknown format",
			args:     []string{"dQw4w9WgXcQ", "-k", "test-key", "--format", "xml"},
			mock:     youtube.NewMockClient(),
			wantMsg:  "unknown format",
			wantExit: 1,
		},
		{
			name:     "resume without output",
			args:     []string{"dQw4w9WgXcQ", "-k", "test-key", "--resume"},
			mock:     youtube.NewMockClient(),
			wantMsg:  "--resume requires",
			wantExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runFetchCommand(t, tt.mock, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v does not wrap %v", err, tt.sentinel)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
			if got := mapErrorToExitCode(err); got != tt.wantExit {
				t.Errorf("exit code = %d, want %d", got, tt.wantExit)
			}
		})
	}
}
