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


package openai

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/poiesic/folio/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// VisualEmbedder implements ai.VisualEmbedder against an OpenAI-compatible
// CLIP-style embedding endpoint that accepts base64 image payloads in the
// input field. One instance serves one focus, so each focus can point at a
// differently conditioned model.
type VisualEmbedder struct {
	embedder embeddings.Embedder
	focus    ai.VisualFocus
	logger   *slog.Logger
}

// newVisualEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage one instance per focus.
func newVisualEmbedder(config *ai.Config, focus ai.VisualFocus) (*VisualEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.VisualHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.VisualModel(focus)),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, err
	}

	return &VisualEmbedder{
		embedder: embedder,
		focus:    focus,
		logger:   slog.Default().With("component", "openai-visual-embedder", "focus", string(focus)),
	}, nil
}

// NewVisualEmbedder creates a visual embedder for one focus.
//
// Returns ai.VisualEmbedder interface to enforce abstraction.
func NewVisualEmbedder(config *ai.Config, focus ai.VisualFocus) (ai.VisualEmbedder, error) {
	return newVisualEmbedder(config, focus)
}

// EmbedImage generates a vector embedding for an image.
func (e *VisualEmbedder) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	if len(image) == 0 {
		return nil, ai.ErrInvalidPayload
	}
	e.logger.Debug("generating visual embedding", "bytes", len(image))

	payload := base64.StdEncoding.EncodeToString(image)
	vectors, err := e.embedder.EmbedDocuments(ctx, []string{payload})
	if err != nil {
		e.logger.Error("failed to generate visual embedding", "err", err)
		return nil, classifyErr(err)
	}
	if len(vectors) == 0 {
		e.logger.Warn("visual embedder returned empty result")
		return nil, ai.ErrInvalidResponse
	}
	return vectors[0], nil
}
