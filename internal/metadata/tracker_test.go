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

package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTracker_RecordDepth(t *testing.T) {
	tests := []struct {
		name   string
		levels []int
		want   int
	}{
		{"no replies", nil, 0},
		{"single level", []int{1}, 1},
		{"increasing levels", []int{1, 2, 3}, 3},
		{"out of order levels", []int{3, 1, 2}, 3},
		{"repeated levels", []int{2, 2, 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := New()
			for _, level := range tt.levels {
				tracker.RecordDepth(level)
			}
			if tracker.maxDepth != tt.want {
				t.Errorf("maxDepth = %d, want %d", tracker.maxDepth, tt.want)
			}
		})
	}
}

func TestTracker_APICallCounts(t *testing.T) {
	tracker := New()

	for i := 0; i < 3; i++ {
		tracker.IncrementThreadCall()
	}
	for i := 0; i < 7; i++ {
		tracker.IncrementReplyCall()
	}

	metadata := tracker.GenerateMetadata("dev", "dQw4w9WgXcQ", "crawl-1", CrawlParams{}, false)
	if metadata.Results.ThreadAPICalls != 3 {
		t.Errorf("ThreadAPICalls = %d, want 3", metadata.Results.ThreadAPICalls)
	}
	if metadata.Results.ReplyAPICalls != 7 {
		t.Errorf("ReplyAPICalls = %d, want 7", metadata.Results.ReplyAPICalls)
	}
}

func TestTracker_RecordPage(t *testing.T) {
	tracker := New()

	tracker.RecordPage(20, 55)
	tracker.RecordPage(20, 31)
	tracker.RecordPage(5, 5)

	if got := tracker.Roots(); got != 45 {
		t.Errorf("Roots() = %d, want 45", got)
	}
	if got := tracker.TotalNodes(); got != 91 {
		t.Errorf("TotalNodes() = %d, want 91", got)
	}
}

func TestTracker_MarkPartial(t *testing.T) {
	tracker := New()

	if tracker.Partial() {
		t.Error("new tracker should not be partial")
	}
	if tracker.Warnings() != nil {
		t.Error("new tracker should have no warnings")
	}

	tracker.MarkPartial("failed to fetch replies for UgxParent1: network error")
	tracker.MarkPartial("failed to fetch replies for UgxParent2: network error")

	if !tracker.Partial() {
		t.Error("tracker should be partial after MarkPartial")
	}

	warnings := tracker.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("Warnings() returned %d entries, want 2", len(warnings))
	}
	if !strings.Contains(warnings[0], "UgxParent1") {
		t.Errorf("first warning = %q, want it to mention UgxParent1", warnings[0])
	}
}

func TestTracker_ConcurrentUpdates(t *testing.T) {
	tracker := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.IncrementReplyCall()
				tracker.RecordDepth(worker + 1)
			}
		}(i)
	}
	wg.Wait()

	metadata := tracker.GenerateMetadata("dev", "dQw4w9WgXcQ", "crawl-1", CrawlParams{}, false)
	if metadata.Results.ReplyAPICalls != 1000 {
		t.Errorf("ReplyAPICalls = %d, want 1000", metadata.Results.ReplyAPICalls)
	}
	if metadata.Results.MaxDepth != 10 {
		t.Errorf("MaxDepth = %d, want 10", metadata.Results.MaxDepth)
	}
}

func TestTracker_GenerateMetadata(t *testing.T) {
	tracker := New()
	tracker.IncrementThreadCall()
	tracker.RecordPage(2, 5)
	tracker.RecordDepth(2)

	params := CrawlParams{
		MaxComments: 100,
		PageSize:    100,
		Order:       "time",
		Concurrency: 4,
	}

	metadata := tracker.GenerateMetadata("v1.2.3", "dQw4w9WgXcQ", "crawl-1700000000", params, false)

	if metadata.ToolVersion != "v1.2.3" {
		t.Errorf("ToolVersion = %s, want v1.2.3", metadata.ToolVersion)
	}
	if metadata.MethodVersion != MethodVersion {
		t.Errorf("MethodVersion = %s, want %s", metadata.MethodVersion, MethodVersion)
	}
	if metadata.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %s, want dQw4w9WgXcQ", metadata.VideoID)
	}
	if metadata.CrawlID != "crawl-1700000000" {
		t.Errorf("CrawlID = %s, want crawl-1700000000", metadata.CrawlID)
	}
	if metadata.Resumed {
		t.Error("Resumed = true, want false")
	}
	if metadata.Parameters.MaxComments != 100 {
		t.Errorf("MaxComments = %d, want 100", metadata.Parameters.MaxComments)
	}

	// Verify results
	if metadata.Results.Roots != 2 {
		t.Errorf("Roots = %d, want 2", metadata.Results.Roots)
	}
	if metadata.Results.TotalComments != 5 {
		t.Errorf("TotalComments = %d, want 5", metadata.Results.TotalComments)
	}
	if metadata.Results.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", metadata.Results.MaxDepth)
	}
	if metadata.Results.Partial {
		t.Error("Partial = true, want false")
	}
	if metadata.Results.Duration == "" {
		t.Error("Duration should not be empty")
	}
	if metadata.Results.CompletedAt.Before(metadata.Results.StartedAt) {
		t.Error("CompletedAt should not precede StartedAt")
	}
}

func TestTracker_GenerateMetadata_Resumed(t *testing.T) {
	tracker := New()
	tracker.MarkPartial("failed to fetch replies for UgxParent9: network error")

	metadata := tracker.GenerateMetadata("v1.0.0", "dQw4w9WgXcQ", "crawl-1700000000", CrawlParams{FetchAll: true}, true)

	if !metadata.Resumed {
		t.Error("Resumed = false, want true")
	}
	if !metadata.Results.Partial {
		t.Error("Partial = false, want true")
	}
	if len(metadata.Results.Warnings) != 1 {
		t.Fatalf("Warnings has %d entries, want 1", len(metadata.Results.Warnings))
	}
	if !metadata.Parameters.FetchAll {
		t.Error("FetchAll = false, want true")
	}
}

func TestSaveMetadata(t *testing.T) {
	tmpDir := t.TempDir()

	metadata := &CrawlMetadata{
		ToolVersion:   "v1.2.3",
		MethodVersion: MethodVersion,
		VideoID:       "dQw4w9WgXcQ",
		CrawlID:       "crawl-1700000000",
		Parameters: CrawlParams{
			MaxComments: 500,
			PageSize:    100,
			Order:       "time",
			Concurrency: 4,
		},
		Results: CrawlResults{
			Roots:          500,
			TotalComments:  1234,
			MaxDepth:       3,
			ThreadAPICalls: 5,
			ReplyAPICalls:  40,
			Duration:       "1m10s",
			StartedAt:      time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
			CompletedAt:    time.Date(2023, 1, 1, 12, 1, 10, 0, time.UTC),
			Partial:        true,
			Warnings:       []string{"failed to fetch replies for UgxParent1: network error"},
		},
	}

	path := FilePath(tmpDir, "dQw4w9WgXcQ")
	if err := SaveMetadata(metadata, path); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	// Verify file was created at the expected location
	expectedFile := filepath.Join(tmpDir, "dQw4w9WgXcQ.metadata.json")
	if path != expectedFile {
		t.Fatalf("FilePath = %s, want %s", path, expectedFile)
	}
	data, err := os.ReadFile(expectedFile)
	if err != nil {
		t.Fatalf("failed to read metadata file: %v", err)
	}

	// Read and verify contents
	var loaded CrawlMetadata
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("failed to parse metadata: %v", err)
	}
	if loaded.ToolVersion != metadata.ToolVersion {
		t.Errorf("ToolVersion = %s, want %s", loaded.ToolVersion, metadata.ToolVersion)
	}
	if loaded.Results.TotalComments != metadata.Results.TotalComments {
		t.Errorf("TotalComments = %d, want %d", loaded.Results.TotalComments, metadata.Results.TotalComments)
	}
	if !loaded.Results.Partial {
		t.Error("Partial flag lost in roundtrip")
	}
	if len(loaded.Results.Warnings) != 1 {
		t.Errorf("Warnings has %d entries, want 1", len(loaded.Results.Warnings))
	}

	// Verify indentation
	if !strings.Contains(string(data), "\n  \"tool_version\"") {
		t.Error("output should be indented")
	}

	// No temporary file should remain
	if _, err := os.Stat(expectedFile + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}
}

func TestSaveMetadata_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "out", "run1")

	path := FilePath(nested, "abc123DEF45")
	if err := SaveMetadata(&CrawlMetadata{ToolVersion: "dev"}, path); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("metadata file not created: %v", err)
	}
}

func TestFilePath(t *testing.T) {
	got := FilePath(filepath.Join("data", "out"), "dQw4w9WgXcQ")
	want := filepath.Join("data", "out", "dQw4w9WgXcQ.metadata.json")
	if got != want {
		t.Errorf("FilePath = %s, want %s", got, want)
	}
}
