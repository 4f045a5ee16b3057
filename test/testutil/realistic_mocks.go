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

// RealisticThreads returns comment fixtures shaped like real Data API
// output: HTML formatting tags, encoded entities, @mention prefixes on
// replies, invisible Unicode characters, and non-Latin text. Each entry
// in RealisticCleanTexts gives the text a correct pipeline produces for
// the fixture with the same id.
func RealisticThreads() []CommentFixture {
	return []CommentFixture{
		{
			ID:        "UgxRealHTML",
			Author:    "@techreviewer42",
			Text:      "This is <b>exactly</b> what I needed.<br><br>Subscribed!",
			Likes:     1523,
			Published: "2024-03-02T18:45:12Z",
			Replies: []CommentFixture{
				{
					ID:        "UgxRealHTMLReply1",
					Author:    "@randomviewer",
					Text:      "@techreviewer42 Same here, the <i>pacing</i> is great",
					Likes:     48,
					Published: "2024-03-02T19:02:33Z",
				},
			},
		},
		{
			ID:        "UgxRealEntities",
			Author:    "@codemonkey",
			Text:      "Tip: use &quot;x &lt; y &amp;&amp; y &gt; 0&quot; instead",
			Likes:     207,
			Published: "2024-03-03T07:12:00Z",
		},
		{
			ID:        "UgxRealZeroWidth",
			Author:    "@quietone",
			Text:      "Watch\u200B \u200Cto the\u200D end\uFEFF",
			Likes:     3,
			Published: "2024-03-03T09:30:45Z",
		},
		{
			ID:        "UgxRealUnicode",
			Author:    "@世界の旅人",
			Text:      "この動画は素晴らしい！ 🎉 Vielen Dank für die Mühe",
			Likes:     891,
			Published: "2024-03-04T14:20:10Z",
		},
		{
			ID:        "UgxRealWhitespace",
			Author:    "@spacebar",
			Text:      "so    many\n\nblank\t\tlines   here",
			Likes:     12,
			Published: "2024-03-05T11:11:11Z",
		},
		{
			ID:        "UgxRealMentionOnly",
			Author:    "@tagger",
			Text:      "@someoneelse",
			Likes:     0,
			Published: "2024-03-05T12:00:00Z",
		},
	}
}

// RealisticCleanTexts maps fixture ids to the sanitized text the crawler
// is expected to export for them.
var RealisticCleanTexts = map[string]string{
	"UgxRealHTML":        "This is exactly what I needed.Subscribed!",
	"UgxRealHTMLReply1":  "Same here, the pacing is great",
	"UgxRealEntities":    `Tip: use "x < y && y > 0" instead`,
	"UgxRealZeroWidth":   "Watch to the end",
	"UgxRealUnicode":     "この動画は素晴らしい！ 🎉 Vielen Dank für die Mühe",
	"UgxRealWhitespace":  "so many blank lines here",
	"UgxRealMentionOnly": "",
}
