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
	"strings"
	"testing"

	"github.com/sirseerhq/sirseer-threads/internal/crawl"
)

func TestWriteTree(t *testing.T) {
	root := testForest()[0]

	var buf strings.Builder
	WriteTree(&buf, root)

	want := strings.Join([]string{
		"@alice: Great video",
		"Likes: 42 | Published: 2024-01-15T10:30:00Z",
		"   └─ @dana: Agreed",
		"      Likes: 5 | Published: 2024-01-15T11:00:00Z",
		"      └─ @alice: Thanks",
		"         Likes: 1 | Published: 2024-01-15T11:30:00Z",
		"   └─ @bob: Same",
		"      Likes: 0 | Published: 2024-01-16T08:00:00Z",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("tree rendering mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteTree_Leaf(t *testing.T) {
	node := &crawl.CommentNode{
		Author:    "@erin",
		Text:      "First",
		Likes:     7,
		Published: "2024-01-17T09:00:00Z",
	}

	var buf strings.Builder
	WriteTree(&buf, node)

	want := "@erin: First\nLikes: 7 | Published: 2024-01-17T09:00:00Z\n"
	if buf.String() != want {
		t.Errorf("leaf rendering = %q, want %q", buf.String(), want)
	}
}
