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
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirseerhq/sirseer-threads/internal/apierror"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a YouTube client with automatic retry logic for burst
// rate limits and transient network errors using exponential backoff.
// Daily quota exhaustion is not retried; it will not clear before the
// quota reset.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector apierror.Inspector
}

// NewRetryClient creates a new RetryClient with the given configuration
func NewRetryClient(client Client, config *RetryConfig) Client {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: apierror.NewInspector(),
	}
}

// FetchThreadPage implements the Client interface with retry logic
func (r *RetryClient) FetchThreadPage(ctx context.Context, videoID string, opts FetchOptions) (*ThreadPage, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		page, err := r.client.FetchThreadPage(ctx, videoID, opts)
		if err == nil {
			return page, nil
		}

		lastErr = apierror.WithRetryInfo(err, attempt+1, r.config.MaxRetries+1)

		// Don't retry on non-retryable errors
		if !r.shouldRetry(err) {
			return nil, err
		}

		// Don't retry if context is cancelled
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		backoff := r.calculateBackoff(attempt)
		r.reportRetry(err, backoff, attempt)

		// Wait with context cancellation support
		select {
		case <-time.After(backoff):
			// Continue to next retry
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, apierror.WithUserAction(
		fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr),
		"check your network connection and try again")
}

// FetchReplyPage implements the Client interface with retry logic
func (r *RetryClient) FetchReplyPage(ctx context.Context, commentID string, opts FetchOptions) (*ReplyPage, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		page, err := r.client.FetchReplyPage(ctx, commentID, opts)
		if err == nil {
			return page, nil
		}

		lastErr = apierror.WithRetryInfo(err, attempt+1, r.config.MaxRetries+1)

		// Don't retry on non-retryable errors
		if !r.shouldRetry(err) {
			return nil, err
		}

		// Don't retry if context is cancelled
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		backoff := r.calculateBackoff(attempt)
		r.reportRetry(err, backoff, attempt)

		// Wait with context cancellation support
		select {
		case <-time.After(backoff):
			// Continue to next retry
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, apierror.WithUserAction(
		fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr),
		"check your network connection and try again")
}

// shouldRetry determines if an error is retryable
func (r *RetryClient) shouldRetry(err error) bool {
	return r.inspector.IsRetryable(err)
}

// reportRetry tells the user what is being waited on and for how long.
func (r *RetryClient) reportRetry(err error, backoff time.Duration, attempt int) {
	if r.inspector.IsQuotaError(err) {
		fmt.Fprintf(os.Stderr, "\n⚠️  Rate limit hit. Waiting %v before retry (attempt %d/%d)...\n",
			backoff, attempt+1, r.config.MaxRetries)
	} else {
		fmt.Fprintf(os.Stderr, "\n⚠️  Network error. Retrying in %v (attempt %d/%d)...\n",
			backoff, attempt+1, r.config.MaxRetries)
	}
}

// calculateBackoff calculates the backoff duration for the given attempt
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	// Calculate exponential backoff
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	// Apply max backoff limit
	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// Add jitter (±10%) to prevent thundering herd
	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}
