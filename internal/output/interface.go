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

// OutputWriter defines the interface for writing comment thread data.
// This abstraction allows the different output formats (NDJSON, JSON,
// CSV) to share one writing path in the fetch command.
type OutputWriter interface {
	// Write writes a single comment thread to the output.
	// Streaming formats flush the record immediately; buffered formats
	// may hold it until Close.
	Write(record interface{}) error

	// Close flushes any buffered data, closes the underlying writer,
	// and releases any resources. This should be called when all
	// writing is complete.
	Close() error
}
