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

package integration

import (
	"path/filepath"
	"testing"

	"github.com/sirseerhq/sirseer-threads/test/testutil"
)

// TestFirstPageFailureYieldsEmptyPartialResult covers a crawl that cannot
// start at all: the endpoint refuses connections, the retries run dry, and
// the run degrades to an empty partial result with a warning instead of
// failing. Transient failures are never fatal, not even on page one.
func TestFirstPageFailureYieldsEmptyPartialResult(t *testing.T) {
	requireIntegration(t)

	testDir := testutil.CreateTempDir(t, "network-partial")
	outputFile := filepath.Join(testDir, "comments.ndjson")

	result := testutil.RunCLI(t, []string{"fetch", testVideoID, "--output", outputFile}, map[string]string{
		"YOUTUBE_API_KEY":        "test-key",
		"YOUTUBE_API_ENDPOINT":   testutil.UnreachableEndpoint(t),
		"SIRSEER_RATE_LIMIT_QPS": "0",
	})

	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stderr, "Warning: partial result")
	testutil.AssertContainsString(t, result.Stderr,
		"Total comments retrieved: 0 main comments and 0 replies")
	testutil.AssertNDJSONOutput(t, outputFile, 0)
}

// TestMidCrawlFailureYieldsPartialResult covers the partial-tolerance
// contract: once the first page landed, a later failure stops the crawl
// but the collected comments are kept and the run still exits zero.
func TestMidCrawlFailureYieldsPartialResult(t *testing.T) {
	requireIntegration(t)

	home := testutil.CreateTempDir(t, "partial-home")
	server := testutil.NewFailAfterServer(t, testutil.GenerateThreads(9, 0), 1)
	testDir := testutil.CreateTempDir(t, "partial-fetch")
	outputFile := filepath.Join(testDir, "comments.ndjson")

	env := testutil.MockServerEnv(server)
	env["HOME"] = home
	result := testutil.RunCLI(t,
		[]string{"fetch", testVideoID, "--output", outputFile, "--page-size", "3"}, env)

	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stderr, "Warning: partial result")
	testutil.AssertNDJSONOutput(t, outputFile, 3)
	testutil.AssertContainsString(t, result.Stderr,
		"Total comments retrieved: 3 main comments and 0 replies")

	// The interrupted crawl leaves its checkpoint for --resume.
	testutil.AssertFileExists(t, testutil.StateFilePath(home, testVideoID))
}
