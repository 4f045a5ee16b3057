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
	"github.com/sirseerhq/sirseer-threads/internal/sanitize"
	"github.com/sirseerhq/sirseer-threads/internal/youtube"
)

// CommentNode is one comment with its resolved reply subtree. Text is
// sanitized; Author and Published pass through exactly as the API returned
// them. Replies holds direct children only, in API return order, each with
// its own subtree underneath.
type CommentNode struct {
	Author    string         `json:"author"`
	Text      string         `json:"text"`
	Likes     int64          `json:"likes"`
	Published string         `json:"published"`
	Replies   []*CommentNode `json:"replies,omitempty"`
}

// Forest is the top-level comments of a video in API page order,
// concatenated across pages.
type Forest []*CommentNode

// Roots returns the number of top-level comments.
func (f Forest) Roots() int {
	return len(f)
}

// TotalNodes returns the number of comments in the forest, counting every
// reply at every depth.
func (f Forest) TotalNodes() int {
	total := 0
	for _, node := range f {
		total += node.subtreeSize()
	}
	return total
}

// subtreeSize counts this node plus all of its transitive replies.
func (n *CommentNode) subtreeSize() int {
	size := 1
	for _, reply := range n.Replies {
		size += reply.subtreeSize()
	}
	return size
}

// newNode converts a raw API record into an export node with no replies
// attached yet.
func newNode(record youtube.Comment) *CommentNode {
	return &CommentNode{
		Author:    record.Author,
		Text:      sanitize.Clean(record.Text),
		Likes:     record.Likes,
		Published: record.Published,
	}
}
