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

package youtube

import (
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/sirseerhq/sirseer-threads/pkg/version"
)

const (
	// maxResponseSize caps how much of a response body we will read. A
	// comment page holds at most 100 records, so a body past 10MB means
	// the endpoint is misbehaving.
	maxResponseSize = 10 * 1024 * 1024 // 10MB

	// DefaultQPS is the proactive request rate applied when the config
	// does not set one. It stays well under the Data API burst allowance
	// so crawls over videos with many reply threads do not trip
	// rateLimitExceeded in the first place.
	DefaultQPS = 10
)

// throttledTransport spaces out requests with a token-bucket limiter and
// stamps each one with a stable User-Agent. It sits below the API-key
// transport so retried requests count against the limiter too.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// newThrottledTransport wraps base with a limiter allowing qps requests per
// second. A qps of zero or less disables throttling entirely.
func newThrottledTransport(base http.RoundTripper, qps float64) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	var limiter *rate.Limiter
	if qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
	return &throttledTransport{base: base, limiter: limiter}
}

// RoundTrip implements http.RoundTripper.
func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	// Clone before touching headers; the RoundTripper contract forbids
	// mutating the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", fmt.Sprintf("sirseer-threads/%s", version.Version))

	resp, err := t.base.RoundTrip(clone)
	if err != nil {
		return nil, err
	}

	resp.Body = newLimitedReader(resp.Body, maxResponseSize)
	return resp, nil
}

// limitedReader wraps an io.ReadCloser and fails once more than limit bytes
// have been read. Unlike io.LimitReader it surfaces an error instead of
// silently truncating, so a runaway body is reported rather than parsed.
type limitedReader struct {
	rc     io.ReadCloser
	remain int64
}

func newLimitedReader(rc io.ReadCloser, limit int64) io.ReadCloser {
	return &limitedReader{rc: rc, remain: limit}
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remain <= 0 {
		return 0, fmt.Errorf("response body exceeds %d byte limit", int64(maxResponseSize))
	}
	if int64(len(p)) > l.remain {
		p = p[:l.remain]
	}
	n, err := l.rc.Read(p)
	l.remain -= int64(n)
	return n, err
}

func (l *limitedReader) Close() error { return l.rc.Close() }

