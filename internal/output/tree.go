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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirseerhq/sirseer-threads/internal/crawl"
)

// TreeWriter collects comment threads and writes them as a single
// indented JSON array on Close. Unlike the NDJSON Writer it buffers the
// whole forest in memory, so it suits bounded crawls, not --all runs on
// large videos.
type TreeWriter struct {
	mu        sync.Mutex
	output    io.Writer
	forest    crawl.Forest
	closed    bool
	closeFunc func() error
}

// NewTreeWriter creates a JSON array writer that writes to the specified output.
func NewTreeWriter(w io.Writer) *TreeWriter {
	return &TreeWriter{
		output: w,
		forest: crawl.Forest{},
	}
}

// NewTreeFileWriter creates a JSON array writer that writes to a file.
// The caller must call Close() when done; nothing reaches the file before then.
func NewTreeFileWriter(filename string) (*TreeWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &TreeWriter{
		output:    file,
		forest:    crawl.Forest{},
		closeFunc: file.Close,
	}, nil
}

// Write buffers a single comment thread until Close.
// The record must be a *crawl.CommentNode.
func (w *TreeWriter) Write(record interface{}) error {
	node, ok := record.(*crawl.CommentNode)
	if !ok {
		return fmt.Errorf("json output requires comment threads, got %T", record)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.forest = append(w.forest, node)
	return nil
}

// Count returns the number of comment threads buffered so far.
func (w *TreeWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.forest)
}

// Close writes the buffered forest as an indented JSON array and closes
// the underlying writer if it's a file. Closing twice is safe; the
// second call does nothing.
func (w *TreeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	err := w.flushLocked()
	if w.closeFunc != nil {
		if cerr := w.closeFunc(); err == nil {
			err = cerr
		}
	}
	return err
}

func (w *TreeWriter) flushLocked() error {
	data, err := json.MarshalIndent(w.forest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode comment threads: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.output.Write(data); err != nil {
		return fmt.Errorf("failed to write comment threads: %w", err)
	}
	return nil
}
