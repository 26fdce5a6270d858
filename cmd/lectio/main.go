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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/lectio"
	"github.com/poiesic/lectio/ai"
	"github.com/poiesic/lectio/ai/openai"
	"github.com/poiesic/lectio/config"
	"github.com/poiesic/lectio/core"
	"github.com/poiesic/lectio/enrich"
	"github.com/poiesic/lectio/publish"
	"github.com/poiesic/lectio/publish/wordpress"
	"github.com/poiesic/lectio/segment"
)

func main() {
	app := &cli.App{
		Name:  "lectio",
		Usage: "Serialize a classical text into daily enriched readings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "lectio.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "segment",
				Usage:  "Split the source text into daily chunks",
				Action: segmentCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Replace an existing segmentation of a different source text",
					},
				},
			},
			{
				Name:   "enrich",
				Usage:  "Generate companion content for chunks that lack it",
				Action: enrichCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "start",
						Usage: "First chunk index to consider",
					},
					&cli.IntFlag{
						Name:  "end",
						Usage: "Stop before this chunk index (0 means all)",
					},
					&cli.IntSliceFlag{
						Name:  "regenerate",
						Usage: "Chunk indices whose enrichment should be regenerated",
					},
				},
			},
			{
				Name:   "publish",
				Usage:  "Publish the next unpublished chunk to WordPress",
				Action: publishCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "chunk",
						Usage: "Publish this specific chunk index instead of the next one",
						Value: -1,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Render the post without contacting the destination",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Report segmentation, enrichment, and publication progress",
				Action: statusCommand,
			},
			{
				Name:   "verify",
				Usage:  "Check every chunk for missing or incomplete enrichment",
				Action: verifyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent verification workers",
						Value: 4,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func segmentCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if cfg.Source.Path == "" {
		return fmt.Errorf("source.path is required in the config")
	}

	raw, err := os.ReadFile(cfg.Source.Path)
	if err != nil {
		return fmt.Errorf("failed to read source text: %w", err)
	}

	startMarker := cfg.Source.StartMarker
	if startMarker == "" {
		startMarker = segment.DefaultStartMarker
	}
	endMarker := cfg.Source.EndMarker
	if endMarker == "" {
		endMarker = segment.DefaultEndMarker
	}

	text, err := segment.ExtractMainText(string(raw), startMarker, endMarker)
	if err != nil {
		return fmt.Errorf("failed to extract main text: %w", err)
	}

	segCfg := segment.Config{
		TargetSize: cfg.Segment.TargetSize,
		MinSize:    cfg.Segment.MinSize,
		MaxSize:    cfg.Segment.MaxSize,
	}
	chunks, err := segment.Segment(text, segCfg)
	if err != nil {
		return fmt.Errorf("segmentation failed: %w", err)
	}

	lib, err := lectio.OpenLibrary(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer lib.Close()
	repo := lib.ChunkRepository()

	fingerprint := core.FingerprintText(text)
	manifest, err := repo.LoadManifest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	if manifest != nil && manifestConflicts(manifest, fingerprint, segCfg) {
		if !c.Bool("force") {
			return fmt.Errorf("existing segmentation was built from a different source or size bounds; re-run with --force to replace it")
		}
		fmt.Fprintln(os.Stderr, "Replacing existing chunks; prior enrichments are discarded")
		if err := repo.DeleteChunks(ctx); err != nil {
			return fmt.Errorf("failed to clear existing chunks: %w", err)
		}
	}

	if err := repo.PutChunks(ctx, chunks...); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}
	if err := repo.SaveManifest(ctx, &core.Manifest{
		Source:      fingerprint,
		SourceLen:   len(text),
		ChunkCount:  len(chunks),
		TargetSize:  segCfg.TargetSize,
		MinSize:     segCfg.MinSize,
		MaxSize:     segCfg.MaxSize,
		SegmentedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Segmented %d bytes into %d chunks\n", len(text), len(chunks))
	return nil
}

// manifestConflicts reports whether a stored manifest describes a different
// chunk collection than the one a new run would produce. A matching manifest
// makes re-segmentation a no-op that preserves existing enrichments.
func manifestConflicts(m *core.Manifest, fingerprint core.Fingerprint, cfg segment.Config) bool {
	return m.Source != fingerprint ||
		m.TargetSize != cfg.TargetSize ||
		m.MinSize != cfg.MinSize ||
		m.MaxSize != cfg.MaxSize
}

func enrichCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	aiCfg := ai.NewConfig(
		ai.WithHost(cfg.AI.Host),
		ai.WithModel(cfg.AI.Model),
		ai.WithToken(cfg.AI.Token),
		ai.WithMaxTokens(cfg.AI.MaxTokens),
		ai.WithTemperature(cfg.AI.Temperature),
	)
	if err := aiCfg.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiCfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	delay, err := cfg.Enrichment.Delay()
	if err != nil {
		return err
	}
	enrichCfg := &enrich.Config{
		MaxRetries:     cfg.Enrichment.MaxRetries,
		RetryDelay:     delay,
		ReportInterval: cfg.Enrichment.ReportInterval,
	}

	lib, err := lectio.OpenLibrary(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer lib.Close()

	regenerate := make(map[int]bool)
	for _, i := range c.IntSlice("regenerate") {
		regenerate[i] = true
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Database.Path)
	fmt.Fprintf(os.Stderr, "Generation host: %s\n", aiCfg.Host)
	fmt.Fprintf(os.Stderr, "Generation model: %s\n", aiCfg.Model)
	fmt.Fprintln(os.Stderr)

	enricher := lib.NewEnricher(provider.Generator(), enrichCfg, os.Stderr)
	report, err := enricher.Run(ctx, enrich.RunOptions{
		Start:      c.Int("start"),
		End:        c.Int("end"),
		Regenerate: regenerate,
	})
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Enriched %d, skipped %d, failed %d in %s\n",
		report.Enriched, report.Skipped, report.Failed, report.Elapsed.Round(time.Second))
	for _, f := range report.Failures {
		fmt.Fprintf(os.Stderr, "  chunk %d failed after %d attempts: %s\n", f.Index, f.Attempts, f.Reason)
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d chunks failed; re-run to retry them", report.Failed)
	}
	return nil
}

func publishCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	lib, err := lectio.OpenLibrary(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer lib.Close()

	start, err := cfg.Schedule.Start()
	if err != nil {
		return err
	}
	formatter := &publish.Formatter{
		SiteURL:  cfg.WordPress.SiteURL,
		Category: cfg.WordPress.Category,
	}
	schedule := publish.Schedule{StartDate: start}

	if c.Bool("dry-run") {
		// Preview never contacts the destination, so no client is needed.
		sched := lib.NewScheduler(nil, formatter, schedule)

		index := c.Int("chunk")
		if index < 0 {
			index, err = sched.NextToPublish(ctx)
			if err != nil {
				return err
			}
		}

		post, err := sched.Preview(ctx, index)
		if err != nil {
			return err
		}
		fmt.Printf("Title: %s\n", post.Title)
		if !post.Date.IsZero() {
			fmt.Printf("Date:  %s\n", post.Date.Format("2006-01-02"))
		}
		fmt.Printf("\n%s\n", post.Body)
		return nil
	}

	client, err := wordpress.NewClient(&wordpress.Config{
		SiteURL:     cfg.WordPress.SiteURL,
		AccessToken: cfg.WordPress.AccessToken,
	})
	if err != nil {
		return fmt.Errorf("invalid WordPress configuration: %w", err)
	}
	sched := lib.NewScheduler(client, formatter, schedule)

	var entry *core.PublicationEntry
	if index := c.Int("chunk"); index >= 0 {
		entry, err = sched.Publish(ctx, index)
	} else {
		entry, err = sched.PublishNext(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Published chunk %d: %s\n", entry.ChunkIndex, entry.URL)
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	lib, err := lectio.OpenLibrary(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer lib.Close()

	chunks := lib.ChunkRepository()
	all, err := chunks.GetAllChunks(ctx)
	if err != nil {
		return err
	}
	total := len(all)
	if total == 0 {
		fmt.Println("No chunks stored; run segment first")
		return nil
	}
	enriched := 0
	byIndex := make(map[int]*core.Chunk, len(all))
	for _, chunk := range all {
		byIndex[chunk.Index] = chunk
		if chunk.Enriched() {
			enriched++
		}
	}

	entries, err := lib.PublicationRepository().GetEntries(ctx)
	if err != nil {
		return err
	}

	// A chunk regenerated after it posted carries content its published
	// form no longer shows.
	var stale []int
	for _, entry := range entries {
		chunk := byIndex[entry.ChunkIndex]
		if chunk != nil && chunk.Enriched() && chunk.Enrichment.GeneratedAt.After(entry.PublishedAt) {
			stale = append(stale, entry.ChunkIndex)
		}
	}

	if manifest, err := chunks.LoadManifest(ctx); err == nil && manifest != nil {
		fmt.Printf("Source:    %d bytes, segmented %s\n",
			manifest.SourceLen, manifest.SegmentedAt.Format("2006-01-02"))
	}
	fmt.Printf("Chunks:    %d\n", total)
	fmt.Printf("Enriched:  %d\n", enriched)
	fmt.Printf("Published: %d\n", len(entries))

	if len(entries) < total {
		sched := lib.NewScheduler(nil, &publish.Formatter{}, publish.Schedule{})
		if next, err := sched.NextToPublish(ctx); err == nil {
			fmt.Printf("Next:      chunk %d\n", next)
		}
	}
	if len(stale) > 0 {
		fmt.Printf("Stale:     %v (re-enriched after publishing)\n", stale)
	}
	return nil
}

func verifyCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	lib, err := lectio.OpenLibrary(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer lib.Close()

	verifier := lib.NewVerifier(c.Int("workers"))
	result, err := verifier.Verify(ctx)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	fmt.Printf("Checked:  %d\n", result.Checked)
	fmt.Printf("Enriched: %d\n", result.Enriched)
	if result.Complete() {
		fmt.Println("All chunks carry complete enrichment")
		return nil
	}
	if len(result.Missing) > 0 {
		fmt.Printf("Missing:    %v\n", result.Missing)
	}
	if len(result.Incomplete) > 0 {
		fmt.Printf("Incomplete: %v\n", result.Incomplete)
	}
	if len(result.SpanBreaks) > 0 {
		fmt.Printf("Broken sequence at: %v\n", result.SpanBreaks)
	}
	return fmt.Errorf("verification found %d problems",
		len(result.Missing)+len(result.Incomplete)+len(result.SpanBreaks))
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
