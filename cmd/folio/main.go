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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	folio "github.com/poiesic/folio"
	"github.com/poiesic/folio/ai"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/document"
	"github.com/poiesic/folio/reembed"
	"github.com/poiesic/folio/search"
	"github.com/poiesic/folio/storage"
	"github.com/poiesic/folio/validation"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "folio",
		Usage: "Catalog ingestion and multi-vector search",
		Flags: []cli.Flag{
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
				Name:      "ingest",
				Usage:     "Submit catalog documents and run their ingestion jobs",
				ArgsUsage: "REF [REF...]",
				Action:    ingestCommand,
				Flags: append(storeFlags(), aiFlags()...),
			},
			{
				Name:      "resume",
				Usage:     "Resume an interrupted or failed ingestion job from its checkpoint",
				ArgsUsage: "JOB_ID",
				Action:    resumeCommand,
				Flags: append(storeFlags(), aiFlags()...),
			},
			{
				Name:      "status",
				Usage:     "Show job status, or all jobs when no ID is given",
				ArgsUsage: "[JOB_ID]",
				Action:    statusCommand,
				Flags:     storeFlags(),
			},
			{
				Name:   "search",
				Usage:  "Search stored vectors with a text query",
				Action: searchCommand,
				Flags: append(append(storeFlags(), aiFlags()...),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "image",
						Usage: "Path to a query image, blended with the text query",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "text-weight",
						Usage: "Weight of the text vector",
						Value: 1.0,
					},
					&cli.Float64Flag{
						Name:  "visual-weight",
						Usage: "Weight of the visual vector",
						Value: 1.0,
					},
					&cli.StringFlag{
						Name:  "entity",
						Usage: "Restrict to one entity type (chunk, image, product)",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict to one product category",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate text vectors for all chunks and products",
				Action: reembedCommand,
				Flags: append(append(storeFlags(), aiFlags()...),
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entities",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embeddings",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: time.Second,
					},
				),
			},
			{
				Name:   "validate",
				Usage:  "Drain the deferred validation queue",
				Action: validateCommand,
				Flags: append(append(storeFlags(), aiFlags()...),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent validation workers",
						Value: 2,
					},
					&cli.IntFlag{
						Name:  "retry-limit",
						Usage: "Attempts before a failing item is marked failed",
						Value: 3,
					},
					&cli.BoolFlag{
						Name:  "follow",
						Usage: "Keep polling for new items instead of exiting when drained",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "Root directory of the extracted document source",
			Value: ".",
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Text embedding model name",
		},
		&cli.StringFlag{
			Name:  "vision-model",
			Usage: "Vision analysis model name",
		},
		&cli.StringFlag{
			Name:  "extractor-model",
			Usage: "Product and metadata extraction model name",
		},
	}
}

func openCatalog(c *cli.Context) (*folio.Catalog, error) {
	opts := []ai.ConfigOption{ai.WithHost(c.String("ai-host"))}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("vision-model"); model != "" {
		opts = append(opts, ai.WithVisionModel(model))
	}
	if model := c.String("extractor-model"); model != "" {
		opts = append(opts, ai.WithExtractorModel(model))
	}

	return folio.OpenCatalog(c.String("db"),
		folio.WithAIConfig(ai.NewConfig(opts...)),
		folio.WithSource(document.NewDirSource(c.String("source"))),
	)
}

// signalContext returns a context canceled on SIGINT/SIGTERM, so jobs park
// at a stage boundary instead of dying mid-stage.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one document reference is required")
	}

	ctx, stop := signalContext()
	defer stop()

	catalog, err := openCatalog(c)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	orchestrator, err := catalog.NewOrchestrator(nil)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer orchestrator.Release()

	for _, ref := range c.Args().Slice() {
		job, err := orchestrator.Submit(ctx, ref)
		if err != nil {
			return fmt.Errorf("submitting %s: %w", ref, err)
		}
		fmt.Printf("submitted job %s for %s\n", job.Id, ref)

		if err := orchestrator.Run(ctx, job.Id); err != nil {
			return fmt.Errorf("job %s: %w", job.Id, err)
		}
		fmt.Printf("job %s completed\n", job.Id)
	}
	return nil
}

func resumeCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one job ID is required")
	}
	jobID := c.Args().First()

	ctx, stop := signalContext()
	defer stop()

	catalog, err := openCatalog(c)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	orchestrator, err := catalog.NewOrchestrator(nil)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer orchestrator.Release()

	if err := orchestrator.Resume(ctx, jobID); err != nil {
		return fmt.Errorf("job %s: %w", jobID, err)
	}
	fmt.Printf("job %s completed\n", jobID)
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	catalog, err := openCatalog(c)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	if c.NArg() == 0 {
		jobs, err := catalog.Jobs().ListJobs(ctx)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("no jobs")
			return nil
		}
		for _, job := range jobs {
			fmt.Printf("%s  %-9s  %5.1f%%  %s\n",
				job.Id, job.Status, job.Progress, job.DocumentRef)
		}
		return nil
	}

	job, err := catalog.Jobs().GetJob(ctx, c.Args().First())
	if err != nil {
		return err
	}
	printJob(job)

	progress, err := catalog.Jobs().ListStageProgress(ctx, job.Id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	for _, p := range progress {
		fmt.Printf("  %-22s %5.1f%%  %d/%d\n", p.Stage, p.Percent, p.ItemsDone, p.ItemsTotal)
	}
	return nil
}

func printJob(job *core.Job) {
	fmt.Printf("Job:      %s\n", job.Id)
	fmt.Printf("Document: %s\n", job.DocumentRef)
	fmt.Printf("Status:   %s (%.1f%%)\n", job.Status, job.Progress)
	if job.Checkpoint != "" {
		fmt.Printf("Checkpoint: %s\n", job.Checkpoint)
	}
	if job.FailedStage != "" {
		fmt.Printf("Failed stage: %s (%s)\n", job.FailedStage, job.Error)
	}
	for key, value := range job.Result {
		fmt.Printf("  %s: %s\n", key, value)
	}
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	catalog, err := openCatalog(c)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	embeddings := catalog.EmbeddingService()

	query := &search.Query{
		Vectors:  make(map[core.EmbeddingKind][]float32),
		Weights:  make(map[core.EmbeddingKind]float32),
		Limit:    c.Int("limit"),
		Category: c.String("category"),
	}

	textVec, err := embeddings.EmbedQueryText(ctx, c.String("query"))
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}
	query.Vectors[core.KindText] = textVec
	query.Weights[core.KindText] = float32(c.Float64("text-weight"))

	if imagePath := c.String("image"); imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("reading query image: %w", err)
		}
		visualVec, err := embeddings.EmbedQueryImage(ctx, data)
		if err != nil {
			return fmt.Errorf("embedding query image: %w", err)
		}
		query.Vectors[core.KindVisual] = visualVec
		query.Weights[core.KindVisual] = float32(c.Float64("visual-weight"))
	}

	if entity := c.String("entity"); entity != "" {
		entityType, err := parseEntityType(entity)
		if err != nil {
			return err
		}
		query.EntityType = entityType
	}

	engine, err := catalog.NewSearchEngine()
	if err != nil {
		return err
	}

	results, err := engine.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%2d. %.4f  %-7s  %s", i+1, result.Score,
			result.Set.EntityType, result.Set.EntityId)
		if name := result.Set.Metadata["name"]; name != "" {
			fmt.Printf("  %s", name)
		}
		fmt.Println()
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	catalog, err := openCatalog(c)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	config := &reembed.Config{
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := reembed.NewReembedder(catalog.Chunks(), catalog.Images(),
		catalog.Vectors(), catalog.EmbeddingService(), config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func validateCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	catalog, err := openCatalog(c)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	worker, err := catalog.NewValidationWorker(
		validation.WithWorkers(c.Int("workers")),
		validation.WithRetryLimit(c.Int("retry-limit")),
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}
	defer worker.Release()

	if c.Bool("follow") {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	processed, err := worker.Drain(ctx)
	if err != nil {
		return fmt.Errorf("drain failed after %d items: %w", processed, err)
	}

	pending, err := catalog.ValidationQueue().CountByStatus(ctx, core.ValidationPending)
	if err != nil {
		return err
	}
	fmt.Printf("processed %d items, %d pending\n", processed, pending)
	return nil
}

func parseEntityType(s string) (core.EntityType, error) {
	switch strings.ToLower(s) {
	case "chunk":
		return core.EntityTypeChunk, nil
	case "image":
		return core.EntityTypeImage, nil
	case "product":
		return core.EntityTypeProduct, nil
	default:
		return 0, fmt.Errorf("unknown entity type %q: must be chunk, image or product", s)
	}
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
