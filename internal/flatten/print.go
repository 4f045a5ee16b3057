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

package flatten

import (
	"fmt"
	"io"

	"github.com/sirseerhq/sirseer-threads/internal/crawl"
)

// WriteTree renders one comment tree for the console. The root prints as
// two lines, the comment itself and its stats; every reply hangs under a
// "└─ " marker, indented three spaces per level:
//
//	@alice: Great video
//	Likes: 42 | Published: 2024-01-15T10:30:00Z
//	   └─ @dana: Agreed
//	      Likes: 5 | Published: 2024-01-15T11:00:00Z
func WriteTree(w io.Writer, node *crawl.CommentNode) {
	fmt.Fprintf(w, "%s: %s\n", node.Author, node.Text)
	fmt.Fprintf(w, "Likes: %d | Published: %s\n", node.Likes, node.Published)
	writeReplies(w, node.Replies, "   ")
}

func writeReplies(w io.Writer, replies []*crawl.CommentNode, prefix string) {
	for _, reply := range replies {
		fmt.Fprintf(w, "%s└─ %s: %s\n", prefix, reply.Author, reply.Text)
		fmt.Fprintf(w, "%s   Likes: %d | Published: %s\n", prefix, reply.Likes, reply.Published)
		writeReplies(w, reply.Replies, prefix+"   ")
	}
}
