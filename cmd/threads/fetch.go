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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-threads/internal/cache"
	"github.com/sirseerhq/sirseer-threads/internal/config"
	"github.com/sirseerhq/sirseer-threads/internal/crawl"
	relayerrors "github.com/sirseerhq/sirseer-threads/internal/errors"
	"github.com/sirseerhq/sirseer-threads/internal/flatten"
	"github.com/sirseerhq/sirseer-threads/internal/metadata"
	"github.com/sirseerhq/sirseer-threads/internal/output"
	"github.com/sirseerhq/sirseer-threads/internal/state"
	"github.com/sirseerhq/sirseer-threads/internal/videoid"
	"github.com/sirseerhq/sirseer-threads/internal/youtube"
	"github.com/sirseerhq/sirseer-threads/pkg/version"
)

// Output formats accepted by --format and inferred from the --output
// extension.
const (
	formatNDJSON = "ndjson"
	formatJSON   = "json"
	formatCSV    = "csv"
)

// newClientFunc builds the Data API client the fetch command crawls with.
// It is a variable so tests can swap in a mock client.
var newClientFunc = func(ctx context.Context, cfg youtube.ServiceConfig) (youtube.Client, error) {
	return youtube.NewDataAPIClient(ctx, cfg)
}

// fetchOptions holds the flag values of the fetch command. Values not set
// on the command line are filled from the config file in runFetch.
type fetchOptions struct {
	apiKey      string
	maxComments int
	fetchAll    bool
	outputPath  string
	format      string
	pageSize    int
	order       string
	search      string
	concurrency int
	useCache    bool
	resume      bool
	writeMeta   bool
	configPath  string
	quiet       bool
}

// fetchCmd represents the fetch command
func newFetchCommand() *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch <video-url-or-id>",
		Short: "Fetch the comment threads of a YouTube video",
		Long: `Fetch the comment threads of a YouTube video, including every nested
reply, and export them.

The video can be given as a watch URL, a youtu.be short link, or a bare
video id:
  threads fetch https://www.youtube.com/watch?v=dQw4w9WgXcQ
  threads fetch https://youtu.be/dQw4w9WgXcQ
  threads fetch dQw4w9WgXcQ

Authentication is required via a YouTube Data API key:
  - Use the --api-key flag to provide the key directly
  - Or set the YOUTUBE_API_KEY environment variable

Without --output the comment trees are pretty-printed to stdout. With
--output the format follows the file extension (.json, .csv, anything
else is NDJSON) unless --format says otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.apiKey, "api-key", "k", "", "YouTube Data API key (overrides YOUTUBE_API_KEY env var)")
	flags.IntVarP(&opts.maxComments, "max", "m", 100, "Maximum number of top-level comments to retrieve")
	flags.BoolVar(&opts.fetchAll, "all", false, "Fetch the whole comment section (overrides --max)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "Output file path (default: pretty tree on stdout)")
	flags.StringVar(&opts.format, "format", "", "Output format: ndjson, json, or csv (default: by file extension)")
	flags.IntVar(&opts.pageSize, "page-size", 100, "Comments requested per API page (1-100)")
	flags.StringVar(&opts.order, "order", "time", "Thread listing order: time or relevance")
	flags.StringVar(&opts.search, "search", "", "Only fetch threads matching these search terms")
	flags.IntVar(&opts.concurrency, "concurrency", 4, "Reply subtrees resolved in parallel per page")
	flags.BoolVar(&opts.useCache, "cache", false, "Serve unexpired pages from the local page cache")
	flags.BoolVar(&opts.resume, "resume", false, "Resume an interrupted crawl from its checkpoint")
	flags.BoolVar(&opts.writeMeta, "metadata", false, "Write a crawl metadata file next to the output")
	flags.StringVar(&opts.configPath, "config", "", "Path to config file")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress progress output (warnings still print)")

	return cmd
}

// runFetch executes the fetch command
func runFetch(cmd *cobra.Command, videoArg string, opts *fetchOptions) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyConfigDefaults(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Resolve the video id before touching the network; bad input is
	// fatal with exit code 2.
	videoID, err := videoid.Parse(videoArg)
	if err != nil {
		return err
	}

	apiKey := opts.apiKey
	if apiKey == "" {
		apiKey = cfg.YouTube.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("YouTube API key not found. Set YOUTUBE_API_KEY or use --api-key: %w",
			relayerrors.ErrInvalidAPIKey)
	}

	if opts.fetchAll {
		opts.maxComments = 0
	} else if opts.maxComments < 1 {
		return fmt.Errorf("--max must be at least 1, got %d", opts.maxComments)
	}

	format, err := resolveFormat(opts.format, opts.outputPath)
	if err != nil {
		return err
	}
	if opts.resume && (opts.outputPath == "" || format != formatNDJSON) {
		return fmt.Errorf("--resume requires --output with NDJSON format")
	}

	client, closeCache, err := buildClientChain(ctx, apiKey, cfg, opts)
	if err != nil {
		return err
	}
	defer closeCache()

	stateFile := state.StateFilePath(cfg.Defaults.StateDir, videoID)
	resumeState, crawlID, err := loadResumeState(opts, stateFile, videoID)
	if err != nil {
		return err
	}

	writer, err := openWriter(format, opts.outputPath, resumeState != nil)
	if err != nil {
		return err
	}

	tracker := metadata.New()
	result, err := runCrawl(ctx, client, tracker, videoID, crawlID, stateFile, writer, format, resumeState, opts)
	if err != nil {
		if writer != nil {
			_ = writer.Close()
		}
		return err
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			return fmt.Errorf("failed to close output: %w", err)
		}
	}

	// A clean crawl has nothing left to resume.
	if checkpointing(format, opts) && !result.Partial {
		if err := state.DeleteState(stateFile); err != nil {
			slog.Warn("failed to remove completed checkpoint", "state_file", stateFile, "error", err)
		}
	}

	if opts.outputPath == "" {
		printForest(os.Stdout, result.Forest)
	}

	if opts.writeMeta {
		if err := writeMetadata(tracker, videoID, crawlID, opts, resumeState != nil); err != nil {
			return err
		}
	}

	printSummary(os.Stderr, tracker, result, opts)
	return nil
}

// applyConfigDefaults fills flag values the user did not set from the
// loaded configuration, and folds the effective values back into cfg so
// Validate checks what will actually be used.
func applyConfigDefaults(cmd *cobra.Command, opts *fetchOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("page-size") {
		opts.pageSize = cfg.Defaults.PageSize
	}
	if !flags.Changed("max") {
		opts.maxComments = cfg.Defaults.MaxComments
	}
	if !flags.Changed("order") {
		opts.order = cfg.Defaults.Order
	}
	if !flags.Changed("concurrency") {
		opts.concurrency = cfg.Defaults.Concurrency
	}
	if !flags.Changed("cache") {
		opts.useCache = cfg.Cache.Enabled
	}

	cfg.Defaults.PageSize = opts.pageSize
	cfg.Defaults.Order = opts.order
	cfg.Defaults.Concurrency = opts.concurrency
}

// resolveFormat picks the output format: an explicit --format wins, then
// the output file extension, then NDJSON.
func resolveFormat(flagFormat, outputPath string) (string, error) {
	if flagFormat != "" {
		switch flagFormat {
		case formatNDJSON, formatJSON, formatCSV:
			return flagFormat, nil
		default:
			return "", fmt.Errorf("unknown format %q (want ndjson, json, or csv)", flagFormat)
		}
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".csv":
		return formatCSV, nil
	case ".json":
		return formatJSON, nil
	default:
		return formatNDJSON, nil
	}
}

// buildClientChain assembles the fetch client: the Data API client, an
// optional caching decorator, and the retry decorator outermost so cache
// hits never wait on backoff.
func buildClientChain(ctx context.Context, apiKey string, cfg *config.Config, opts *fetchOptions) (youtube.Client, func(), error) {
	client, err := newClientFunc(ctx, youtube.ServiceConfig{
		APIKey:   apiKey,
		Endpoint: cfg.YouTube.Endpoint,
		QPS:      cfg.RateLimit.QPS,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	closeCache := func() {}
	if opts.useCache {
		if err := os.MkdirAll(cfg.Defaults.StateDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		db, err := cache.Open(filepath.Join(cfg.Defaults.StateDir, "pages.db"))
		if err != nil {
			return nil, nil, err
		}
		ttl, _ := cfg.CacheTTL()
		client = cache.NewClient(client, db, ttl, slog.Default())
		closeCache = func() { _ = db.Close() }
	}

	return youtube.NewRetryClient(client, nil), closeCache, nil
}

// loadResumeState loads and validates the checkpoint when --resume is
// set. Every crawl gets a crawl id; a resumed crawl keeps the one its
// checkpoint was written under so state and metadata stay correlated.
func loadResumeState(opts *fetchOptions, stateFile, videoID string) (*state.CrawlState, string, error) {
	if !opts.resume {
		return nil, fmt.Sprintf("%s-%d", videoID, time.Now().Unix()), nil
	}

	st, err := state.LoadState(stateFile)
	if err != nil {
		return nil, "", err
	}
	if st.VideoID != videoID {
		return nil, "", fmt.Errorf("checkpoint belongs to video %s, not %s: %w",
			st.VideoID, videoID, relayerrors.ErrStateCorrupted)
	}
	if st.OutputPath != opts.outputPath {
		return nil, "", fmt.Errorf("checkpoint was writing to %s; pass the same --output to resume",
			st.OutputPath)
	}
	return st, st.CrawlID, nil
}

// openWriter creates the output writer for the chosen format. A nil
// writer means tree mode: the forest is buffered and pretty-printed to
// stdout after the crawl.
func openWriter(format, outputPath string, resumed bool) (output.OutputWriter, error) {
	if outputPath == "" {
		return nil, nil
	}
	switch format {
	case formatCSV:
		return output.NewCSVFileWriter(outputPath)
	case formatJSON:
		return output.NewTreeFileWriter(outputPath)
	default:
		if resumed {
			return output.NewAppendFileWriter(outputPath)
		}
		return output.NewFileWriter(outputPath)
	}
}

// checkpointing reports whether this run saves resume checkpoints.
// Only streaming NDJSON output can be safely appended to, so only it is
// resumable.
func checkpointing(format string, opts *fetchOptions) bool {
	return opts.outputPath != "" && format == formatNDJSON
}

// runCrawl wires the collector's hooks to the writer, the progress line,
// and the checkpoint file, then runs the crawl.
func runCrawl(ctx context.Context, client youtube.Client, tracker *metadata.Tracker,
	videoID, crawlID, stateFile string, writer output.OutputWriter, format string,
	resumeState *state.CrawlState, opts *fetchOptions) (*crawl.Result, error) {

	if !opts.quiet {
		if opts.maxComments > 0 {
			fmt.Fprintf(os.Stderr, "Fetching up to %d comments for video %s...\n", opts.maxComments, videoID)
		} else {
			fmt.Fprintf(os.Stderr, "Fetching all comments for video %s...\n", videoID)
		}
	}

	crawlCfg := crawl.Config{
		Client:      client,
		PageSize:    opts.pageSize,
		MaxComments: opts.maxComments,
		Order:       opts.order,
		SearchTerms: opts.search,
		Concurrency: opts.concurrency,
		Tracker:     tracker,
		Logger:      slog.Default(),
	}

	if writer != nil {
		crawlCfg.Export = func(node *crawl.CommentNode) error {
			return writer.Write(node)
		}
	}
	if !opts.quiet {
		crawlCfg.OnPage = func(roots, nodes int) {
			fmt.Fprintf(os.Stderr, "\rFetched %d threads (%d comments total)...",
				tracker.Roots(), tracker.TotalNodes())
		}
	}
	if checkpointing(format, opts) {
		crawlCfg.Checkpoint = func(st *state.CrawlState) error {
			st.CrawlID = crawlID
			st.OutputPath = opts.outputPath
			st.SavedAt = time.Now()
			return state.SaveState(st, stateFile)
		}
	}
	crawlCfg.Resume = resumeState

	collector := crawl.NewCollector(crawlCfg)
	result, err := collector.Collect(ctx, videoID)
	if !opts.quiet {
		fmt.Fprintf(os.Stderr, "\r\033[K") // Clear progress line
	}
	return result, err
}

// printForest renders the crawled comment trees for the console,
// numbered and separated the way the saved formats are not.
func printForest(w io.Writer, forest crawl.Forest) {
	separator := strings.Repeat("-", 80)
	for i, node := range forest {
		fmt.Fprintf(w, "\n%d.\n", i+1)
		flatten.WriteTree(w, node)
		fmt.Fprintln(w, separator)
	}
}

// writeMetadata saves the crawl's audit record next to the output file,
// or in the working directory when printing to stdout.
func writeMetadata(tracker *metadata.Tracker, videoID, crawlID string, opts *fetchOptions, resumed bool) error {
	dir := "."
	if opts.outputPath != "" {
		dir = filepath.Dir(opts.outputPath)
	}

	meta := tracker.GenerateMetadata(version.Version, videoID, crawlID, metadata.CrawlParams{
		MaxComments: opts.maxComments,
		FetchAll:    opts.fetchAll,
		PageSize:    opts.pageSize,
		Order:       opts.order,
		SearchTerms: opts.search,
		Concurrency: opts.concurrency,
	}, resumed)

	return metadata.SaveMetadata(meta, metadata.FilePath(dir, videoID))
}

// printSummary reports warnings, where the output went, and the final
// counts. Warnings print even with --quiet; a partial run must never
// look complete.
func printSummary(w io.Writer, tracker *metadata.Tracker, result *crawl.Result, opts *fetchOptions) {
	if result.Partial {
		fmt.Fprintln(w, "Warning: partial result, the crawl stopped early:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}

	roots := tracker.Roots()
	totalNodes := tracker.TotalNodes()
	if opts.outputPath != "" && !opts.quiet {
		fmt.Fprintf(w, "Saved %d comments (including replies) to %s\n", totalNodes, opts.outputPath)
	}
	fmt.Fprintf(w, "Total comments retrieved: %d main comments and %d replies\n", roots, totalNodes-roots)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Input and authorization errors
	if errors.Is(err, relayerrors.ErrInvalidVideoInput) ||
		errors.Is(err, relayerrors.ErrInvalidAPIKey) ||
		errors.Is(err, relayerrors.ErrVideoNotFound) ||
		errors.Is(err, relayerrors.ErrCommentsDisabled) {
		return 2
	}

	// Network and quota errors
	if errors.Is(err, relayerrors.ErrQuotaExceeded) ||
		errors.Is(err, relayerrors.ErrNetworkFailure) {
		return 3
	}

	return 1 // General error
}
