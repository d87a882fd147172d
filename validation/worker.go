/*
 * Copyright 2025 Poiesic Systems
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/folio/ai"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

// Worker drains the deferred validation queue, re-running vision analysis
// on low-confidence images with an authoritative pass and recording the
// outcome. It is decoupled from ingestion jobs: a job completes whether or
// not its queue items have been validated yet.
type Worker struct {
	queue      storage.ValidationRepository
	catalog    storage.CatalogRepository
	analyzer   ai.VisionAnalyzer
	pool       *ants.Pool
	retryLimit int
	poll       time.Duration
	logger     *slog.Logger
}

// Option configures a Worker.
type Option func(*Worker) error

// WithWorkers sets the number of concurrent claim loops.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(n int) Option {
	return func(w *Worker) error {
		if n < 1 {
			n = 1
		}
		if w.pool != nil {
			w.pool.Release()
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		w.pool = pool
		return nil
	}
}

// WithRetryLimit sets how many times a failing item is returned to the
// queue before it is marked failed. Default is 3.
func WithRetryLimit(limit int) Option {
	return func(w *Worker) error {
		if limit < 0 {
			limit = 0
		}
		w.retryLimit = limit
		return nil
	}
}

// WithPollInterval sets how long Run sleeps when the queue is empty.
// Default is 5 seconds.
func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) error {
		if interval <= 0 {
			interval = 5 * time.Second
		}
		w.poll = interval
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWorker creates a validation worker over the queue, the catalog and a
// vision analyzer.
func NewWorker(queue storage.ValidationRepository, catalog storage.CatalogRepository,
	analyzer ai.VisionAnalyzer, opts ...Option) (*Worker, error) {

	if queue == nil {
		return nil, ErrQueueRequired
	}
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	size := runtime.NumCPU() / 2
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	w := &Worker{
		queue:      queue,
		catalog:    catalog,
		analyzer:   analyzer,
		pool:       pool,
		retryLimit: 3,
		poll:       5 * time.Second,
		logger:     slog.Default().With("component", "validation-worker"),
	}

	for _, opt := range opts {
		if optErr := opt(w); optErr != nil {
			w.Release()
			return nil, optErr
		}
	}

	return w, nil
}

// Release frees the worker pool.
func (w *Worker) Release() {
	if w.pool != nil {
		w.pool.Release()
	}
}

// ProcessOne claims and processes the highest-priority pending item.
// Returns false with a nil error when the queue is empty. A processing
// failure releases the item back to the queue and is reported to the
// caller; the item itself retries on a later claim.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	item, err := w.queue.ClaimNext(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := w.process(ctx, item); err != nil {
		status, relErr := w.queue.Release(ctx, item.Id, err.Error(), w.retryLimit)
		if relErr != nil {
			w.logger.Error("error releasing validation item", "item", item.Id, "err", relErr)
			return true, fmt.Errorf("releasing item %s: %w", item.Id, relErr)
		}
		w.logger.Warn("validation attempt failed", "item", item.Id,
			"entity", item.EntityId, "status", status, "err", err)
		return true, err
	}
	return true, nil
}

// Drain processes items concurrently until the queue is empty. Returns the
// number of items processed successfully. Item-level failures are logged
// and counted, not returned; only claim or storage errors stop the drain.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		processed int
		failed    int
		firstErr  error
	)

	loops := w.pool.Cap()
	for i := 0; i < loops; i++ {
		wg.Add(1)
		submitErr := w.pool.Submit(func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				claimed, err := w.ProcessOne(ctx)
				if !claimed {
					if err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
					}
					return
				}
				mu.Lock()
				if err != nil {
					failed++
				} else {
					processed++
				}
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if failed > 0 {
		w.logger.Warn("drain finished with failures", "processed", processed, "failed", failed)
	}
	return processed, firstErr
}

// Run drains the queue, then polls for new items until the context is
// canceled. Intended for service mode.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		if _, err := w.Drain(ctx); err != nil {
			w.logger.Error("error draining validation queue", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// process re-validates a single claimed item and completes it.
func (w *Worker) process(ctx context.Context, item *core.ValidationItem) error {
	switch item.EntityType {
	case core.EntityTypeImage:
		return w.revalidateImage(ctx, item)
	default:
		// Nothing re-checks other entity types yet. Completing keeps the
		// queue from wedging on an item no handler exists for.
		return w.queue.Complete(ctx, item.Id, map[string]string{
			"skipped": "no handler for entity type " + item.EntityType.String(),
		})
	}
}

// revalidateImage reruns vision analysis on the image and adopts the new
// result when it is more confident than the stored one. The item completes
// either way; a confirmation that the original analysis was shaky is still
// a resolution.
func (w *Worker) revalidateImage(ctx context.Context, item *core.ValidationItem) error {
	image, err := w.catalog.GetImage(ctx, item.EntityId)
	if errors.Is(err, storage.ErrNotFound) {
		// Image was deleted after enqueueing. Nothing left to validate.
		return w.queue.Complete(ctx, item.Id, map[string]string{
			"skipped": "image no longer exists",
		})
	}
	if err != nil {
		return err
	}

	vision, err := w.analyzer.AnalyzeImage(ctx, image.Data, image.Caption)
	if err != nil {
		return err
	}

	result := map[string]string{
		"confidence": fmt.Sprintf("%.2f", vision.Confidence),
		"model":      vision.Model,
	}

	previous := float32(0)
	if image.Analysis != nil {
		previous = image.Analysis.Confidence
	}
	if vision.Confidence > previous {
		image.Analysis = &core.ImageAnalysis{
			Materials:    vision.Materials,
			Colors:       vision.Colors,
			Textures:     vision.Textures,
			OCRText:      vision.OCRText,
			QualityScore: vision.QualityScore,
			Confidence:   vision.Confidence,
			Model:        vision.Model,
			AnalyzedAt:   time.Now().UTC(),
		}
		if _, err := w.catalog.UpdateImages(ctx, image); err != nil {
			return err
		}
		result["adopted"] = "true"
	} else {
		result["adopted"] = "false"
	}

	if err := w.queue.Complete(ctx, item.Id, result); err != nil {
		return err
	}

	w.logger.Info("image revalidated", "item", item.Id, "image", image.Id,
		"confidence", vision.Confidence, "adopted", result["adopted"])
	return nil
}
