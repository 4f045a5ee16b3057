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

// Package output provides writers for the supported comment thread
// formats. All writers implement OutputWriter, so the fetch command can
// pick a format and stream threads through one code path.
//
// Three formats are supported:
//
//   - Writer emits NDJSON (Newline Delimited JSON): one thread per
//     line, flushed immediately. This is the only format that supports
//     resumable crawls, because partial output is valid line by line.
//   - TreeWriter emits a single indented JSON array on Close,
//     preserving the nested reply structure.
//   - CSVWriter flattens every thread into rows with depth labels and
//     parent references.
//
// Example usage:
//
//	// Write to a file
//	w, err := output.NewFileWriter("comments.ndjson")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	// Write threads
//	for _, node := range forest {
//	    if err := w.Write(node); err != nil {
//	        log.Printf("Failed to write thread: %v", err)
//	    }
//	}
//
//	fmt.Printf("Wrote %d threads\n", w.Count())
package output
