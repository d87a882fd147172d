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
	"log/slog"

	"github.com/poiesic/folio/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages the embedding, vision and extraction instances.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	visual    map[ai.VisualFocus]*VisualEmbedder
	vision    *VisionAnalyzer
	extractor *CatalogExtractor
	logger    *slog.Logger
}

// visualFocuses lists every focus the provider pre-builds an embedder for.
var visualFocuses = []ai.VisualFocus{
	ai.FocusGeneral,
	ai.FocusColor,
	ai.FocusTexture,
	ai.FocusApplication,
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	// One visual embedder per focus, built up front so calls don't race
	// lazy initialization.
	visual := make(map[ai.VisualFocus]*VisualEmbedder, len(visualFocuses))
	for _, focus := range visualFocuses {
		ve, err := newVisualEmbedder(config, focus)
		if err != nil {
			return nil, err
		}
		visual[focus] = ve
	}

	vision, err := newVisionAnalyzer(config)
	if err != nil {
		return nil, err
	}

	extractor, err := newCatalogExtractor(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		visual:    visual,
		vision:    vision,
		extractor: extractor,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// TextEmbedder returns the text embedding service.
func (p *Provider) TextEmbedder() ai.TextEmbedder {
	return p.embedder
}

// VisualEmbedder returns the visual embedding service for a focus.
// Unknown focuses are served by the general embedder.
func (p *Provider) VisualEmbedder(focus ai.VisualFocus) ai.VisualEmbedder {
	if ve, ok := p.visual[focus]; ok {
		return ve
	}
	return p.visual[ai.FocusGeneral]
}

// VisionAnalyzer returns the image analysis service.
func (p *Provider) VisionAnalyzer() ai.VisionAnalyzer {
	return p.vision
}

// CatalogExtractor returns the structured extraction service.
func (p *Provider) CatalogExtractor() ai.CatalogExtractor {
	return p.extractor
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
