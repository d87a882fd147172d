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

package reembed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/folio/ai"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/embedding"
	"github.com/poiesic/folio/pipeline"
	"github.com/poiesic/folio/storage"
)

var (
	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrCatalogRepositoryRequired is returned when a catalog repository is not provided.
	ErrCatalogRepositoryRequired = errors.New("catalog repository required")

	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrEmbeddingServiceRequired is returned when an embedding service is not provided.
	ErrEmbeddingServiceRequired = errors.New("embedding service required")
)

// Config holds configuration for a reembedding run.
type Config struct {
	// ReportInterval is how often to report progress (number of entities)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for failed embeddings
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the text vectors of every chunk and product that
// owns one.
type Reembedder struct {
	chunks   storage.ChunkRepository
	catalog  storage.CatalogRepository
	vectors  storage.EmbeddingRepository
	service  *embedding.Service
	config   *Config
	progress io.Writer
	retry    pipeline.RetryPolicy
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(chunks storage.ChunkRepository, catalog storage.CatalogRepository,
	vectors storage.EmbeddingRepository, service *embedding.Service,
	config *Config, progress io.Writer) (*Reembedder, error) {

	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if catalog == nil {
		return nil, ErrCatalogRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if service == nil {
		return nil, ErrEmbeddingServiceRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		chunks:   chunks,
		catalog:  catalog,
		vectors:  vectors,
		service:  service,
		config:   config,
		progress: progress,
		retry: pipeline.RetryPolicy{
			MaxAttempts: config.MaxRetries,
			BaseDelay:   config.RetryDelay,
			Retryable:   ai.IsTransient,
		},
	}, nil
}

// target identifies one entity whose text vector needs regenerating.
type target struct {
	entityType core.EntityType
	id         core.ID
}

// Run regenerates the text vector of every chunk and product that owns
// one. Fused vectors refresh as a side effect of re-storing the text
// vector. Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	targets, err := r.collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan vector sets: %w", err)
	}

	if len(targets) == 0 {
		fmt.Fprintf(r.progress, "No text vectors found (0 entities)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d entities\n", len(targets))

	tracker := NewTracker(r.progress, len(targets), r.config.ReportInterval)

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.reembed(ctx, t); err != nil {
			return err
		}
		tracker.Add(1)
	}

	tracker.Done()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d entities in %v (%.1f entities/sec)\n",
		len(targets), elapsed.Round(time.Second), float64(len(targets))/elapsed.Seconds())

	return nil
}

// collect scans the vector store for chunks and products owning a text
// vector. The scan completes before any embedding starts, so provider
// calls never run inside a storage iteration.
func (r *Reembedder) collect(ctx context.Context) ([]target, error) {
	var targets []target
	err := r.vectors.IterateVectorSets(ctx, func(set *core.VectorSet) error {
		if !set.Has(core.KindText) {
			return nil
		}
		switch set.EntityType {
		case core.EntityTypeChunk, core.EntityTypeProduct:
			targets = append(targets, target{entityType: set.EntityType, id: set.EntityId})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *Reembedder) reembed(ctx context.Context, t target) error {
	switch t.entityType {
	case core.EntityTypeChunk:
		chunk, err := r.chunks.GetChunk(ctx, t.id)
		if errors.Is(err, storage.ErrNotFound) {
			// Vector outlived its chunk. Skip rather than fail the run.
			return nil
		}
		if err != nil {
			return err
		}
		return r.retry.Do(ctx, func() error {
			return r.service.EmbedChunk(ctx, chunk)
		})

	case core.EntityTypeProduct:
		product, err := r.catalog.GetProduct(ctx, t.id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return r.retry.Do(ctx, func() error {
			return r.service.EmbedProductText(ctx, product)
		})
	}
	return nil
}
