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

// Package folio ties storage, AI providers and the ingestion pipeline
// together behind a single handle. Open a Catalog, submit documents, run
// jobs, search vectors, drain the validation queue, close it.
package folio

import (
	"log/slog"

	"github.com/poiesic/folio/ai"
	"github.com/poiesic/folio/ai/openai"
	"github.com/poiesic/folio/document"
	"github.com/poiesic/folio/embedding"
	"github.com/poiesic/folio/pipeline"
	"github.com/poiesic/folio/quality"
	"github.com/poiesic/folio/search"
	"github.com/poiesic/folio/storage"
	"github.com/poiesic/folio/storage/badger"
	"github.com/poiesic/folio/validation"
)

// Catalog is the top-level handle over a folio database.
type Catalog struct {
	store    *badger.Store
	provider ai.Provider
	source   document.Source
	logger   *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
	source   document.Source
	provider ai.Provider
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithSource sets the document source. Default is a directory source
// rooted at the working directory.
func WithSource(source document.Source) CatalogOption {
	return func(o *catalogOptions) {
		if source != nil {
			o.source = source
		}
	}
}

// WithProvider sets a pre-built AI provider, bypassing the OpenAI
// provider construction. Intended for tests.
func WithProvider(provider ai.Provider) CatalogOption {
	return func(o *catalogOptions) {
		if provider != nil {
			o.provider = provider
		}
	}
}

// OpenCatalog opens a catalog database at the given path.
func OpenCatalog(filePath string, opts ...CatalogOption) (*Catalog, error) {
	store, err := badger.OpenStore(filePath)
	if err != nil {
		return nil, err
	}
	return newCatalog(store, opts...)
}

// NewMemoryCatalog opens an in-memory catalog. Data is lost on Close.
// Intended for tests.
func NewMemoryCatalog(opts ...CatalogOption) (*Catalog, error) {
	store, err := badger.NewMemoryStore()
	if err != nil {
		return nil, err
	}
	return newCatalog(store, opts...)
}

func newCatalog(store *badger.Store, opts ...CatalogOption) (*Catalog, error) {
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(),
		source:   document.NewDirSource("."),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	return &Catalog{
		store:    store,
		provider: provider,
		source:   options.source,
		logger:   slog.Default(),
	}, nil
}

// Close releases the provider and the underlying store.
func (c *Catalog) Close() error {
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}
	if err := c.store.Close(); err != nil {
		c.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}

// Jobs exposes the job repository.
func (c *Catalog) Jobs() storage.JobRepository {
	return c.store.Jobs
}

// Chunks exposes the chunk repository.
func (c *Catalog) Chunks() storage.ChunkRepository {
	return c.store.Chunks
}

// Images exposes the catalog repository for images, products and page texts.
func (c *Catalog) Images() storage.CatalogRepository {
	return c.store.Catalog
}

// Vectors exposes the embedding repository.
func (c *Catalog) Vectors() storage.EmbeddingRepository {
	return c.store.Embeddings
}

// ValidationQueue exposes the validation repository.
func (c *Catalog) ValidationQueue() storage.ValidationRepository {
	return c.store.Validation
}

// EmbeddingService builds the embedding service over this catalog's
// provider and vector store.
func (c *Catalog) EmbeddingService() *embedding.Service {
	return embedding.NewService(c.provider, c.store.Embeddings)
}

// NewOrchestrator builds an ingestion orchestrator wired to this catalog.
// Quality gate options configure the chunk quality gate; orchestrator
// options everything else.
func (c *Catalog) NewOrchestrator(gateOpts []quality.Option, opts ...pipeline.Option) (*pipeline.Orchestrator, error) {
	gate, err := quality.NewGate(gateOpts...)
	if err != nil {
		return nil, err
	}
	return pipeline.NewOrchestrator(pipeline.Deps{
		Jobs:       c.store.Jobs,
		Chunks:     c.store.Chunks,
		Catalog:    c.store.Catalog,
		Vectors:    c.store.Embeddings,
		Validation: c.store.Validation,
		Source:     c.source,
		Provider:   c.provider,
		Embeddings: c.EmbeddingService(),
		Quality:    quality.NewPersister(gate, c.store.Chunks),
	}, opts...)
}

// NewSearchEngine builds a weighted vector search engine over this
// catalog's vector store.
func (c *Catalog) NewSearchEngine(opts ...search.Option) (*search.Engine, error) {
	return search.NewEngine(c.store.Embeddings, opts...)
}

// NewValidationWorker builds a worker that drains this catalog's
// validation queue.
func (c *Catalog) NewValidationWorker(opts ...validation.Option) (*validation.Worker, error) {
	return validation.NewWorker(c.store.Validation, c.store.Catalog,
		c.provider.VisionAnalyzer(), opts...)
}
