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


package mock

import "github.com/poiesic/folio/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock embedder, analyzer and extractor instances.
type MockProvider struct {
	embedder  *MockTextEmbedder
	visual    map[ai.VisualFocus]*MockVisualEmbedder
	analyzer  *MockVisionAnalyzer
	extractor *MockCatalogExtractor
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use the GetMock* accessors to reach concrete types for test assertions.
func NewMockProvider() ai.Provider {
	visual := map[ai.VisualFocus]*MockVisualEmbedder{}
	for focus := range focusDims {
		visual[focus] = NewMockVisualEmbedder(focus)
	}
	return &MockProvider{
		embedder:  NewMockTextEmbedder(),
		visual:    visual,
		analyzer:  NewMockVisionAnalyzer(),
		extractor: NewMockCatalogExtractor(),
	}
}

// TextEmbedder returns the mock text embedder.
func (p *MockProvider) TextEmbedder() ai.TextEmbedder {
	return p.embedder
}

// VisualEmbedder returns the mock visual embedder for a focus.
func (p *MockProvider) VisualEmbedder(focus ai.VisualFocus) ai.VisualEmbedder {
	if ve, ok := p.visual[focus]; ok {
		return ve
	}
	return p.visual[ai.FocusGeneral]
}

// VisionAnalyzer returns the mock vision analyzer.
func (p *MockProvider) VisionAnalyzer() ai.VisionAnalyzer {
	return p.analyzer
}

// CatalogExtractor returns the mock catalog extractor.
func (p *MockProvider) CatalogExtractor() ai.CatalogExtractor {
	return p.extractor
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockTextEmbedder returns the underlying mock text embedder for test
// assertions. This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockTextEmbedder() *MockTextEmbedder {
	return p.embedder
}

// GetMockVisualEmbedder returns the underlying mock visual embedder for a
// focus for test assertions.
func (p *MockProvider) GetMockVisualEmbedder(focus ai.VisualFocus) *MockVisualEmbedder {
	return p.visual[focus]
}

// GetMockVisionAnalyzer returns the underlying mock vision analyzer for test
// assertions.
func (p *MockProvider) GetMockVisionAnalyzer() *MockVisionAnalyzer {
	return p.analyzer
}

// GetMockExtractor returns the underlying mock extractor for test assertions.
func (p *MockProvider) GetMockExtractor() *MockCatalogExtractor {
	return p.extractor
}
