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

// Package flatten converts comment forests into flat, tabular views: CSV
// rows that preserve tree structure through depth labels and parent
// references, and an indented console rendering of the tree itself.
package flatten

import (
	"fmt"
	"strconv"

	"github.com/sirseerhq/sirseer-threads/internal/crawl"
)

// FlatRow is one comment as a table row. CommentType is "main" for
// top-level comments and "reply_level_N" for a reply at depth N, counted
// from 1. ParentAuthor and ParentText reference the immediate parent only
// and are empty for top-level comments.
type FlatRow struct {
	CommentType  string
	Author       string
	Text         string
	Likes        int64
	Published    string
	ParentAuthor string
	ParentText   string
}

// Header returns the CSV column names in their fixed order.
func Header() []string {
	return []string{
		"comment_type",
		"author",
		"text",
		"likes",
		"published",
		"parent_author",
		"parent_text",
	}
}

// Record renders the row as strings for encoding/csv, in Header order.
func (r FlatRow) Record() []string {
	return []string{
		r.CommentType,
		r.Author,
		r.Text,
		strconv.FormatInt(r.Likes, 10),
		r.Published,
		r.ParentAuthor,
		r.ParentText,
	}
}

// Flatten converts a forest to rows in pre-order: each comment's row is
// immediately followed by its entire subtree, children in stored order.
// The row count always equals the forest's total node count.
func Flatten(forest crawl.Forest) []FlatRow {
	var rows []FlatRow
	for _, root := range forest {
		rows = append(rows, FlatRow{
			CommentType: "main",
			Author:      root.Author,
			Text:        root.Text,
			Likes:       root.Likes,
			Published:   root.Published,
		})
		rows = appendReplies(rows, root.Replies, root.Author, root.Text, 1)
	}
	return rows
}

// appendReplies walks one reply level, labeling rows with their structural
// depth and pointing them at their immediate parent.
func appendReplies(rows []FlatRow, replies []*crawl.CommentNode, parentAuthor, parentText string, depth int) []FlatRow {
	for _, reply := range replies {
		rows = append(rows, FlatRow{
			CommentType:  fmt.Sprintf("reply_level_%d", depth),
			Author:       reply.Author,
			Text:         reply.Text,
			Likes:        reply.Likes,
			Published:    reply.Published,
			ParentAuthor: parentAuthor,
			ParentText:   parentText,
		})
		rows = appendReplies(rows, reply.Replies, reply.Author, reply.Text, depth+1)
	}
	return rows
}
