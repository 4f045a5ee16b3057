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

package testutil

import (
	"fmt"
	"time"
)

// CommentFixture describes one comment served by the mock Data API. A
// fixture with Replies becomes a comment thread; the replies are served
// from the /comments endpoint keyed by the thread id.
type CommentFixture struct {
	ID        string
	Author    string
	Text      string
	Likes     int64
	Published string
	Replies   []CommentFixture
}

// ThreadBuilder provides a fluent API for creating test comment threads
type ThreadBuilder struct {
	fixture CommentFixture
}

// NewThreadBuilder creates a thread builder with defaults derived from n
func NewThreadBuilder(n int) *ThreadBuilder {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return &ThreadBuilder{
		fixture: CommentFixture{
			ID:        fmt.Sprintf("UgxThread%03d", n),
			Author:    fmt.Sprintf("@user%d", n),
			Text:      fmt.Sprintf("Comment number %d", n),
			Likes:     int64(n),
			Published: base.Add(time.Duration(n) * time.Minute).Format(time.RFC3339),
		},
	}
}

// WithID sets the thread id
func (b *ThreadBuilder) WithID(id string) *ThreadBuilder {
	b.fixture.ID = id
	return b
}

// WithAuthor sets the author display name
func (b *ThreadBuilder) WithAuthor(author string) *ThreadBuilder {
	b.fixture.Author = author
	return b
}

// WithText sets the raw comment text as the Data API would return it
func (b *ThreadBuilder) WithText(text string) *ThreadBuilder {
	b.fixture.Text = text
	return b
}

// WithLikes sets the like count
func (b *ThreadBuilder) WithLikes(likes int64) *ThreadBuilder {
	b.fixture.Likes = likes
	return b
}

// WithPublished sets the publication timestamp
func (b *ThreadBuilder) WithPublished(published string) *ThreadBuilder {
	b.fixture.Published = published
	return b
}

// WithReplies attaches replies to the thread
func (b *ThreadBuilder) WithReplies(replies ...CommentFixture) *ThreadBuilder {
	b.fixture.Replies = append(b.fixture.Replies, replies...)
	return b
}

// Build returns the assembled fixture
func (b *ThreadBuilder) Build() CommentFixture {
	return b.fixture
}

// NewReply creates a reply fixture for thread n with reply index m
func NewReply(n, m int) CommentFixture {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	return CommentFixture{
		ID:        fmt.Sprintf("UgxReply%03d-%02d", n, m),
		Author:    fmt.Sprintf("@replier%d", m),
		Text:      fmt.Sprintf("Reply %d to comment %d", m, n),
		Likes:     int64(m),
		Published: base.Add(time.Duration(n*10+m) * time.Minute).Format(time.RFC3339),
	}
}

// GenerateThreads creates count threads with repliesEach replies under each
func GenerateThreads(count, repliesEach int) []CommentFixture {
	threads := make([]CommentFixture, 0, count)
	for i := 1; i <= count; i++ {
		b := NewThreadBuilder(i)
		for j := 1; j <= repliesEach; j++ {
			b.WithReplies(NewReply(i, j))
		}
		threads = append(threads, b.Build())
	}
	return threads
}

// CountComments returns the total number of comments in the fixture set,
// threads and replies included
func CountComments(threads []CommentFixture) int {
	total := 0
	for _, th := range threads {
		total += 1 + len(th.Replies)
	}
	return total
}
