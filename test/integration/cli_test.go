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
	"os"
	"testing"

	"github.com/sirseerhq/sirseer-threads/test/testutil"
)

// testVideoID is the video id used across the suite. The mock servers do
// not validate it; the CLI parses it before any request goes out.
const testVideoID = "dQw4w9WgXcQ"

// requireIntegration skips the test unless the suite is enabled.
func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func TestVersionFlag(t *testing.T) {
	requireIntegration(t)

	result := testutil.RunCLI(t, []string{"--version"}, nil)
	testutil.AssertCLISuccess(t, result)
	testutil.AssertContainsString(t, result.Stdout, "version")
}

func TestFetchHelp(t *testing.T) {
	requireIntegration(t)

	result := testutil.RunCLI(t, []string{"fetch", "--help"}, nil)
	testutil.AssertCLISuccess(t, result)

	// The help text documents the key flags and the auth requirement.
	for _, want := range []string{"--max", "--output", "--format", "--resume", "YOUTUBE_API_KEY"} {
		testutil.AssertContainsString(t, result.Stdout, want)
	}
}

func TestFetchWithoutVideoArgument(t *testing.T) {
	requireIntegration(t)

	result := testutil.RunCLI(t, []string{"fetch"}, map[string]string{
		"YOUTUBE_API_KEY": "test-key",
	})
	testutil.AssertExitCode(t, result, 1)
}

func TestFetchWithoutAPIKey(t *testing.T) {
	requireIntegration(t)

	result := testutil.RunCLI(t, []string{"fetch", testVideoID}, nil)
	testutil.AssertExitCode(t, result, 2)
	testutil.AssertCLIError(t, result, "API key")
}

func TestFetchInvalidVideoInput(t *testing.T) {
	requireIntegration(t)

	tests := []struct {
		name  string
		input string
	}{
		{"watch url without v parameter", "https://www.youtube.com/watch?list=PLx"},
		{"embed url without v parameter", "https://youtube.com/embed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testutil.RunCLI(t, []string{"fetch", tt.input, "--api-key", "test-key"}, nil)
			testutil.AssertExitCode(t, result, 2)
		})
	}
}

func TestFetchUnknownFlag(t *testing.T) {
	requireIntegration(t)

	result := testutil.RunCLI(t, []string{"fetch", testVideoID, "--frobnicate"}, map[string]string{
		"YOUTUBE_API_KEY": "test-key",
	})
	testutil.AssertExitCode(t, result, 1)
}
