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


// Package embedding turns catalog entities into stored vector sets.
//
// The Service generates vectors through ai providers and persists them via
// the embedding repository, enforcing the platform-wide dimensionality
// registry. Vector sets grow incrementally: kinds are added as pipeline
// stages produce them, and the fused vector is recomputed whenever its text
// or visual input changes.
package embedding

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/folio/ai"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

// focusForKind maps visual embedding kinds onto provider focuses.
var focusForKind = map[core.EmbeddingKind]ai.VisualFocus{
	core.KindVisual:      ai.FocusGeneral,
	core.KindColor:       ai.FocusColor,
	core.KindTexture:     ai.FocusTexture,
	core.KindApplication: ai.FocusApplication,
}

// visualKinds is the generation order for image vector sets.
var visualKinds = []core.EmbeddingKind{
	core.KindVisual,
	core.KindColor,
	core.KindTexture,
	core.KindApplication,
}

// Service generates and stores embeddings for catalog entities.
type Service struct {
	provider ai.Provider
	store    storage.EmbeddingRepository
	logger   *slog.Logger
}

// NewService creates an embedding service over a provider and a vector store.
func NewService(provider ai.Provider, store storage.EmbeddingRepository) *Service {
	return &Service{
		provider: provider,
		store:    store,
		logger:   slog.Default().With("component", "embedding-service"),
	}
}

// EmbedChunk generates and stores the text vector of a chunk, then refreshes
// the chunk's fused vector if a visual vector is already present.
func (s *Service) EmbedChunk(ctx context.Context, chunk *core.Chunk) error {
	return s.embedText(ctx, core.EntityTypeChunk, chunk.Id, chunk.DocumentId, chunk.Metadata, chunk.Contents)
}

// EmbedProductText generates and stores the text vector of a product from its
// name and description.
func (s *Service) EmbedProductText(ctx context.Context, product *core.Product) error {
	text := product.Name
	if product.Description != "" {
		text += ". " + product.Description
	}
	return s.embedText(ctx, core.EntityTypeProduct, product.Id, product.DocumentId, product.Metadata, text)
}

// EmbedImage generates and stores the four visual vectors of a catalog image,
// then refreshes the fused vector if a text vector is already present.
// Generation is incremental: kinds already stored with the current analysis
// are regenerated, which is safe because StoreVector replaces atomically.
func (s *Service) EmbedImage(ctx context.Context, image *core.CatalogImage) error {
	confidence := float32(1.0)
	if image.Analysis != nil {
		confidence = image.Analysis.Confidence
	}

	for _, kind := range visualKinds {
		embedder := s.provider.VisualEmbedder(focusForKind[kind])

		started := time.Now()
		vector, err := embedder.EmbedImage(ctx, image.Data)
		if err != nil {
			return err
		}

		meta := core.VectorMeta{
			Model:       string(focusForKind[kind]),
			Confidence:  confidence,
			Duration:    time.Since(started),
			GeneratedAt: time.Now().UTC(),
		}
		if err := s.store.StoreVector(ctx, core.EntityTypeImage, image.Id, image.DocumentId,
			image.Metadata, kind, vector, meta); err != nil {
			return err
		}
	}

	return s.refreshFusion(ctx, core.EntityTypeImage, image.Id, image.DocumentId, image.Metadata)
}

// EmbedQueryText embeds free text without storing anything. Used by search.
func (s *Service) EmbedQueryText(ctx context.Context, text string) ([]float32, error) {
	return s.provider.TextEmbedder().EmbedText(ctx, text)
}

// EmbedQueryImage embeds an image without storing anything. Used by search.
func (s *Service) EmbedQueryImage(ctx context.Context, image []byte) ([]float32, error) {
	return s.provider.VisualEmbedder(ai.FocusGeneral).EmbedImage(ctx, image)
}

func (s *Service) embedText(ctx context.Context, entityType core.EntityType, id, documentID core.ID, attrs map[string]string, text string) error {
	started := time.Now()
	vector, err := s.provider.TextEmbedder().EmbedText(ctx, text)
	if err != nil {
		return err
	}

	meta := core.VectorMeta{
		Model:       "text",
		Confidence:  1.0,
		Duration:    time.Since(started),
		GeneratedAt: time.Now().UTC(),
	}
	if err := s.store.StoreVector(ctx, entityType, id, documentID, attrs, core.KindText, vector, meta); err != nil {
		return err
	}

	return s.refreshFusion(ctx, entityType, id, documentID, attrs)
}

// refreshFusion recomputes the fused vector when both inputs exist.
// Regeneration of either input routes back through here, so the fused vector
// never outlives the vectors it was built from.
func (s *Service) refreshFusion(ctx context.Context, entityType core.EntityType, id, documentID core.ID, attrs map[string]string) error {
	set, err := s.store.GetVectorSet(ctx, entityType, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	text, hasText := set.Vector(core.KindText)
	visual, hasVisual := set.Vector(core.KindVisual)
	if !hasText || !hasVisual {
		return nil
	}

	textMeta := set.Meta[core.KindText]
	visualMeta := set.Meta[core.KindVisual]
	confidence := textMeta.Confidence
	if visualMeta.Confidence < confidence {
		confidence = visualMeta.Confidence
	}

	meta := core.VectorMeta{
		Model:       "fusion",
		Confidence:  confidence,
		GeneratedAt: time.Now().UTC(),
	}
	s.logger.Debug("refreshing fused vector", "entity", id, "type", entityType)
	return s.store.StoreVector(ctx, entityType, id, documentID, attrs, core.KindFusion, Fuse(text, visual), meta)
}
