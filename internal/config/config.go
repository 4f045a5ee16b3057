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

// Package config provides configuration management for sirseer-threads with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .sirseer-threads.yaml (current directory)
//   - .sirseer-threads.yml (current directory)
//   - ~/.sirseer/threads.yaml
//   - ~/.sirseer/threads.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is
// performed on the state directory.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Try to load config file if path is provided
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".sirseer-threads.yaml",
			".sirseer-threads.yml",
			filepath.Join(os.Getenv("HOME"), ".sirseer", "threads.yaml"),
			filepath.Join(os.Getenv("HOME"), ".sirseer", "threads.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Defaults.StateDir = expandPath(cfg.Defaults.StateDir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	// YouTube Data API settings
	if key := os.Getenv("YOUTUBE_API_KEY"); key != "" {
		cfg.YouTube.APIKey = key
	}
	if endpoint := os.Getenv("YOUTUBE_API_ENDPOINT"); endpoint != "" {
		cfg.YouTube.Endpoint = endpoint
	}

	// Defaults
	if pageSize := os.Getenv("SIRSEER_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if concurrency := os.Getenv("SIRSEER_CONCURRENCY"); concurrency != "" {
		if workers, err := parsePositiveInt(concurrency); err == nil {
			cfg.Defaults.Concurrency = workers
		}
	}
	if stateDir := os.Getenv("SIRSEER_STATE_DIR"); stateDir != "" {
		cfg.Defaults.StateDir = stateDir
	}

	// Rate limit settings
	if qps := os.Getenv("SIRSEER_RATE_LIMIT_QPS"); qps != "" {
		if limit, err := parseNonNegativeFloat(qps); err == nil {
			cfg.RateLimit.QPS = limit
		}
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseNonNegativeFloat parses a string to a float that is zero or more.
// Zero is meaningful for the QPS setting: it disables throttling.
func parseNonNegativeFloat(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	if err != nil {
		return 0, fmt.Errorf("failed to parse number from '%s': %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("value must not be negative, got: %g", f)
	}
	return f, nil
}

// CacheTTL returns the configured cache TTL as a duration. Validate
// guarantees the string parses, so callers after validation can ignore
// the error.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 24 * time.Hour, nil
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.Cache.TTL, err)
	}
	return ttl, nil
}

// Validate checks if the configuration contains valid values. It ensures
// the page size is within the Data API's limits, the thread ordering is
// one the API accepts, and other constraints are met. This should be
// called after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("default page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > 100 {
		return fmt.Errorf("default page size %d exceeds YouTube Data API limit of 100", c.Defaults.PageSize)
	}
	if c.Defaults.Order != "time" && c.Defaults.Order != "relevance" {
		return fmt.Errorf("order must be \"time\" or \"relevance\", got: %q", c.Defaults.Order)
	}
	if c.Defaults.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got: %d", c.Defaults.Concurrency)
	}
	if c.RateLimit.QPS < 0 {
		return fmt.Errorf("rate limit qps must not be negative, got: %g", c.RateLimit.QPS)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}
