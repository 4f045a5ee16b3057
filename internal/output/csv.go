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

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirseerhq/sirseer-threads/internal/crawl"
	"github.com/sirseerhq/sirseer-threads/internal/flatten"
)

// CSVWriter flattens each comment thread into tabular rows and streams
// them as CSV. The header row is written before the first record, or on
// Close when no records arrive, so the file always carries the header.
type CSVWriter struct {
	mu          sync.Mutex
	csv         *csv.Writer
	count       int
	wroteHeader bool
	closeFunc   func() error
}

// NewCSVWriter creates a CSV writer that writes to the specified output.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{
		csv: csv.NewWriter(w),
	}
}

// NewCSVFileWriter creates a CSV writer that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewCSVFileWriter(filename string) (*CSVWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &CSVWriter{
		csv:       csv.NewWriter(file),
		closeFunc: file.Close,
	}, nil
}

// Write flattens a single comment thread and appends one row per
// comment, pre-order, so replies follow the thread they belong to.
// The record must be a *crawl.CommentNode.
func (w *CSVWriter) Write(record interface{}) error {
	node, ok := record.(*crawl.CommentNode)
	if !ok {
		return fmt.Errorf("csv output requires comment threads, got %T", record)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writeHeaderLocked(); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range flatten.Flatten(crawl.Forest{node}) {
		if err := w.csv.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	// Flush per thread so output survives an interrupted crawl.
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of comment threads written.
// Each thread usually expands to several CSV rows.
func (w *CSVWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes pending rows and closes the underlying writer if it's a file.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.writeHeaderLocked()
	w.csv.Flush()
	if err == nil {
		err = w.csv.Error()
	}
	if w.closeFunc != nil {
		if cerr := w.closeFunc(); err == nil {
			err = cerr
		}
	}
	return err
}

func (w *CSVWriter) writeHeaderLocked() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	return w.csv.Write(flatten.Header())
}
