// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/lectio/ai"
	"github.com/poiesic/lectio/core"
	"github.com/poiesic/lectio/storage"
)

// Config holds configuration for the enrichment operation.
type Config struct {
	// MaxRetries is the maximum number of generation attempts per chunk
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		ReportInterval: 10,
	}
}

// RunOptions selects which chunks a run covers.
type RunOptions struct {
	// Start is the first chunk index to consider.
	Start int

	// End bounds the run exclusively; zero or negative means all chunks.
	End int

	// Regenerate lists chunk indices whose existing enrichment should be
	// discarded and regenerated.
	Regenerate map[int]bool
}

// Enricher walks the chunk sequence and fills in missing enrichments.
// Each chunk's result is persisted before the next chunk is attempted, so
// an interrupted run loses at most the chunk in flight. Re-running after
// completion makes no generation calls at all.
type Enricher struct {
	repo      storage.ChunkRepository
	generator ai.Generator
	config    *Config
	progress  io.Writer
	logger    *slog.Logger
}

// NewEnricher creates a new enricher.
// progress: where to write progress output (typically os.Stderr)
func NewEnricher(repo storage.ChunkRepository, generator ai.Generator, config *Config, progress io.Writer) *Enricher {
	if config == nil {
		config = DefaultConfig()
	}

	return &Enricher{
		repo:      repo,
		generator: generator,
		config:    config,
		progress:  progress,
		logger:    slog.Default().With("component", "enricher"),
	}
}

// Run executes the enrichment operation over the selected range.
// Chunks that already carry an enrichment are skipped unless flagged for
// regeneration. A chunk that exhausts its retries is recorded in the
// report and the run continues; only context cancellation aborts the run.
func (e *Enricher) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	report := newReport()
	started := time.Now()

	total, err := e.repo.ChunkCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}
	if total == 0 {
		return nil, ErrNotSegmented
	}

	start := opts.Start
	if start < 0 {
		start = 0
	}
	end := opts.End
	if end <= 0 || end > total {
		end = total
	}
	if start >= end {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}

	chunks, err := e.repo.GetChunkRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	e.logger.Info("starting enrichment run",
		"run_id", report.RunID,
		"start", start,
		"end", end,
		"chunks", len(chunks))

	tracker := NewProgressTracker(e.progress, len(chunks), e.config.ReportInterval)
	tracker.Start()

	for _, chunk := range chunks {
		select {
		case <-ctx.Done():
			report.Elapsed = time.Since(started)
			return report, ctx.Err()
		default:
		}

		if chunk.Enriched() && !opts.Regenerate[chunk.Index] {
			report.Skipped++
			tracker.Increment(1)
			continue
		}

		report.Attempted++
		var enrichment *core.Enrichment
		attempts, err := RetryWithBackoff(ctx, func() error {
			var genErr error
			enrichment, genErr = e.generator.GenerateEnrichment(ctx, &ai.GenerationRequest{
				ChunkIndex: chunk.Index,
				Location:   chunk.Location,
				Text:       chunk.Text,
				WordCount:  chunk.WordCount,
			})
			return genErr
		}, e.config.MaxRetries, e.config.RetryDelay)

		if err == nil {
			// Persistence retries on its own budget so a storage fault
			// does not throw away a finished generation.
			_, err = RetryWithBackoff(ctx, func() error {
				return e.repo.SetEnrichment(ctx, chunk.Index, enrichment)
			}, e.config.MaxRetries, e.config.RetryDelay)
		}

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				report.Elapsed = time.Since(started)
				return report, err
			}

			report.Failed++
			report.Failures = append(report.Failures, Failure{
				Index:    chunk.Index,
				Attempts: attempts,
				Reason:   err.Error(),
			})
			e.logger.Warn("chunk failed after retries",
				"run_id", report.RunID,
				"chunk", chunk.Index,
				"attempts", attempts,
				"err", err)
		} else {
			report.Enriched++
		}
		tracker.Increment(1)
	}

	tracker.Finish()
	report.Elapsed = time.Since(started)

	e.logger.Info("enrichment run finished",
		"run_id", report.RunID,
		"attempted", report.Attempted,
		"enriched", report.Enriched,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"elapsed", report.Elapsed.Round(time.Millisecond))

	return report, nil
}
