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

// Package cache provides a SQLite-backed page cache for YouTube API
// responses. NewClient wraps a youtube.Client so repeated crawls of the
// same video within the TTL window replay pages from disk instead of
// spending quota. Cache failures are never fatal: reads and writes that
// go wrong are logged and the crawl falls through to the network.
package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding cached comment pages.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite cache database and runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating cache database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			kind TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			page_size INTEGER NOT NULL,
			page_token TEXT NOT NULL,
			sort_order TEXT NOT NULL,
			search_terms TEXT NOT NULL,
			payload TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (kind, parent_id, page_size, page_token, sort_order, search_terms)
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
