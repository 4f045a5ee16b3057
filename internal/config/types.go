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

// Package config types define the configuration structures used throughout
// sirseer-threads. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for sirseer-threads.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	YouTube   YouTubeConfig   `yaml:"youtube"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
}

// YouTubeConfig contains Data API settings. APIKey may be left empty in
// the file and supplied through YOUTUBE_API_KEY or --api-key instead;
// Endpoint overrides the API base URL, which tests use to point the
// client at a local server.
type YouTubeConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

// DefaultsConfig contains default settings that apply to every crawl
// unless overridden by command-line flags. These settings control the
// core behavior of the fetch process.
type DefaultsConfig struct {
	PageSize    int    `yaml:"page_size"`
	MaxComments int    `yaml:"max_comments"`
	Order       string `yaml:"order"`
	Concurrency int    `yaml:"concurrency"`
	StateDir    string `yaml:"state_dir"`
}

// RateLimitConfig controls the proactive request throttle applied to
// outgoing Data API calls. A QPS of zero disables throttling entirely and
// leaves rate handling to the retry layer.
type RateLimitConfig struct {
	QPS float64 `yaml:"qps"`
}

// CacheConfig controls the local SQLite page cache. TTL is a Go duration
// string; pages older than it are refetched from the API.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	TTL     string `yaml:"ttl"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// use cases. The page size matches the Data API maximum so unbounded
// crawls spend as little quota as possible.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			PageSize:    100,
			MaxComments: 100,
			Order:       "time",
			Concurrency: 4,
			StateDir:    "~/.sirseer-threads",
		},
		RateLimit: RateLimitConfig{
			QPS: 10,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     "24h",
		},
	}
}
