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


package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/lectio/core"
	"github.com/poiesic/lectio/storage"
)

// Scheduler decides which chunk publishes next and records the outcome.
//
// The publication log is the source of truth: a chunk is published exactly
// when the log holds an entry for it. The scheduler appends an entry only
// after the destination confirms delivery, so a failed delivery leaves the
// log untouched and the same chunk is retried by the next trigger. A
// duplicate trigger for an already published chunk returns the stored entry
// without contacting the destination, which is what makes an at-most-daily
// cadence safe under cron retries and manual re-runs.
type Scheduler struct {
	chunks    storage.ChunkRepository
	log       storage.PublicationRepository
	publisher Publisher
	formatter *Formatter
	schedule  Schedule
	now       func() time.Time
	logger    *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock overrides the scheduler's time source. Tests use it to step
// through calendar days.
func WithClock(clock func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = clock
	}
}

// NewScheduler creates a scheduler over the given repositories and
// destination.
func NewScheduler(chunks storage.ChunkRepository, log storage.PublicationRepository, publisher Publisher, formatter *Formatter, schedule Schedule, opts ...SchedulerOption) *Scheduler {
	if formatter == nil {
		formatter = &Formatter{}
	}
	s := &Scheduler{
		chunks:    chunks,
		log:       log,
		publisher: publisher,
		formatter: formatter,
		schedule:  schedule,
		now:       time.Now,
		logger:    slog.Default().With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextToPublish returns the lowest chunk index without a log entry.
// Returns ErrExhausted when every chunk is published and ErrNoChunks when
// the database holds no chunks. Gaps left by out-of-order manual publishes
// are filled first.
func (s *Scheduler) NextToPublish(ctx context.Context) (int, error) {
	total, err := s.chunks.ChunkCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	if total == 0 {
		return 0, ErrNoChunks
	}

	entries, err := s.log.GetEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read publication log: %w", err)
	}

	published := make(map[int]bool, len(entries))
	for _, e := range entries {
		published[e.ChunkIndex] = true
	}

	for i := 0; i < total; i++ {
		if !published[i] {
			return i, nil
		}
	}
	return 0, ErrExhausted
}

// Publish publishes the chunk at index. If the chunk is already in the log
// the stored entry is returned and the destination is not contacted.
func (s *Scheduler) Publish(ctx context.Context, index int) (*core.PublicationEntry, error) {
	existing, err := s.log.GetEntry(ctx, index)
	if err == nil {
		s.logger.Info("chunk already published, skipping",
			"chunk", index,
			"destination_id", existing.DestinationID)
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read publication log: %w", err)
	}

	post, err := s.Preview(ctx, index)
	if err != nil {
		return nil, err
	}

	receipt, err := s.publisher.Publish(ctx, post)
	if err != nil {
		s.logger.Error("publish failed, log untouched", "chunk", index, "err", err)
		return nil, err
	}

	entry := &core.PublicationEntry{
		ChunkIndex:    index,
		DestinationID: receipt.DestinationID,
		URL:           receipt.URL,
		PublishedAt:   s.now().UTC(),
	}

	stored, err := s.log.AppendEntry(ctx, entry)
	if err != nil {
		// Delivered but not recorded. Surface loudly: the next trigger
		// would publish this chunk again.
		s.logger.Error("failed to record publication",
			"chunk", index,
			"destination_id", receipt.DestinationID,
			"err", err)
		return nil, fmt.Errorf("published but failed to record entry: %w", err)
	}

	s.logger.Info("published chunk",
		"chunk", index,
		"title", post.Title,
		"destination_id", stored.DestinationID,
		"url", stored.URL)
	return stored, nil
}

// PublishNext publishes the next unpublished chunk, at most once per
// calendar day. When the log already holds an entry published today the
// stored entry is returned and the destination is not contacted, so a daily
// trigger that fires twice cannot post two chunks on the same day. Publish
// remains available for deliberate out-of-band publishes.
func (s *Scheduler) PublishNext(ctx context.Context) (*core.PublicationEntry, error) {
	today := s.now().UTC()
	entries, err := s.log.GetEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read publication log: %w", err)
	}
	for _, entry := range entries {
		if sameDay(entry.PublishedAt.UTC(), today) {
			s.logger.Info("already published today, skipping",
				"chunk", entry.ChunkIndex,
				"published_at", entry.PublishedAt)
			return entry, nil
		}
	}

	index, err := s.NextToPublish(ctx)
	if err != nil {
		return nil, err
	}
	return s.Publish(ctx, index)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Preview formats the chunk at index without publishing it.
// Returns ErrNotReady if the chunk has no enrichment.
func (s *Scheduler) Preview(ctx context.Context, index int) (*Post, error) {
	chunk, err := s.chunks.GetChunk(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunk %d: %w", index, err)
	}
	if !chunk.Enriched() {
		return nil, fmt.Errorf("%w: chunk %d", ErrNotReady, index)
	}

	total, err := s.chunks.ChunkCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}

	date := s.schedule.DateFor(index)
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return s.formatter.FormatPost(chunk, total, date)
}
