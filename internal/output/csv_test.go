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

package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirseerhq/sirseer-threads/internal/crawl"
)

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	writer := NewCSVWriter(&buf)

	threads := []*crawl.CommentNode{
		{
			Author: "@alice", Text: "Great video", Likes: 42, Published: "2024-01-15T10:30:00Z",
			Replies: []*crawl.CommentNode{
				{
					Author: "@dana", Text: "Agreed", Likes: 5, Published: "2024-01-15T11:00:00Z",
					Replies: []*crawl.CommentNode{
						{Author: "@alice", Text: "Thanks", Likes: 1, Published: "2024-01-15T11:30:00Z"},
					},
				},
			},
		},
		{Author: "@erin", Text: "First", Likes: 7, Published: "2024-01-17T09:00:00Z"},
	}

	for _, node := range threads {
		if err := writer.Write(node); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if writer.Count() != 2 {
		t.Errorf("Count = %d, want 2", writer.Count())
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV output: %v", err)
	}

	want := [][]string{
		{"comment_type", "author", "text", "likes", "published", "parent_author", "parent_text"},
		{"main", "@alice", "Great video", "42", "2024-01-15T10:30:00Z", "", ""},
		{"reply_level_1", "@dana", "Agreed", "5", "2024-01-15T11:00:00Z", "@alice", "Great video"},
		{"reply_level_2", "@alice", "Thanks", "1", "2024-01-15T11:30:00Z", "@dana", "Agreed"},
		{"main", "@erin", "First", "7", "2024-01-17T09:00:00Z", "", ""},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("CSV records mismatch\ngot:  %v\nwant: %v", records, want)
	}
}

func TestCSVWriter_EscapesFields(t *testing.T) {
	var buf bytes.Buffer
	writer := NewCSVWriter(&buf)

	node := &crawl.CommentNode{
		Author: "@quoter",
		Text:   `He said "first, then second"`,
		Likes:  1,
	}
	if err := writer.Write(node); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Record count = %d, want 2", len(records))
	}
	if records[1][2] != node.Text {
		t.Errorf("Text round-trip = %q, want %q", records[1][2], node.Text)
	}
}

func TestCSVWriter_EmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	writer := NewCSVWriter(&buf)

	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	want := "comment_type,author,text,likes,published,parent_author,parent_text\n"
	if buf.String() != want {
		t.Errorf("Empty output = %q, want header %q", buf.String(), want)
	}
}

func TestCSVWriter_RejectsNonThread(t *testing.T) {
	writer := NewCSVWriter(&bytes.Buffer{})

	if err := writer.Write(map[string]string{"not": "a thread"}); err == nil {
		t.Error("Expected error when writing a non-thread record")
	}
}

func TestNewCSVFileWriter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "comments.csv")

	writer, err := NewCSVFileWriter(filename)
	if err != nil {
		t.Fatalf("NewCSVFileWriter failed: %v", err)
	}
	if err := writer.Write(&crawl.CommentNode{Author: "@alice", Text: "hi"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV output: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Record count = %d, want header plus one row", len(records))
	}
}

func TestNewCSVFileWriter_Error(t *testing.T) {
	_, err := NewCSVFileWriter("/non/existent/path/test.csv")
	if err == nil {
		t.Error("Expected error for non-existent directory, got nil")
	}
}
