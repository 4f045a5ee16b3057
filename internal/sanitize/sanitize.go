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

// Package sanitize normalizes user-generated comment text into plain,
// single-line strings suitable for tabular export.
//
// The YouTube Data API returns comment text as HTML fragments: formatting
// tags, a small set of character entities, @mention prefixes inserted by the
// reply UI, and occasionally invisible Unicode formatting characters pasted
// in by commenters. Clean strips all of that down to readable text. The
// steps are order-sensitive; see Clean.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	tagRe = regexp.MustCompile(`<[^>]+>`)

	// mentionRe matches the handle shapes the reply UI produces. The loose
	// pattern is the safety net for handles outside that alphabet (non-Latin
	// usernames, emoji). It can also eat legitimate @-prefixed words; that
	// loss is accepted for parity with how mentions actually render.
	mentionRe      = regexp.MustCompile(`@[\p{L}\p{N}_.+-]+\s*`)
	looseMentionRe = regexp.MustCompile(`@\S+\s*`)

	// Zero-width space, non-joiner, joiner, and BOM-as-text.
	zeroWidthRe  = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// entityReplacer decodes the four entities the Data API emits in HTML
// comment text. Replacer walks the input once, so already-escaped sequences
// like "&amp;lt;" decode to the literal "&lt;" and are not decoded again.
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// Clean returns text normalized for export. It is pure and deterministic.
//
// Steps, in order:
//  1. Strip HTML-like tags (shortest match between < and >).
//  2. Decode &quot; &amp; &lt; &gt; in a single pass.
//  3. Remove @mention tokens, then any remaining @-prefixed run.
//  4. Strip zero-width and invisible formatting characters.
//  5. Collapse whitespace runs to a single space.
//  6. Trim.
//
// Tag stripping runs before entity decoding so "<b>A &amp; B</b>" comes out
// as "A & B". Input consisting only of a mention cleans to the empty string.
// Nested angle brackets that do not form real tags may be partially
// stripped; that mirrors how the source renders them and is not corrected.
func Clean(text string) string {
	text = tagRe.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = mentionRe.ReplaceAllString(text, "")
	text = looseMentionRe.ReplaceAllString(text, "")
	text = zeroWidthRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
