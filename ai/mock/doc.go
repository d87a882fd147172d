// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.TextEmbedder,
// ai.VisualEmbedder, ai.VisionAnalyzer, ai.CatalogExtractor and ai.Provider
// for use in unit tests. The mocks allow tests to run without external AI
// service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.TextEmbedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockEmbedder := mock.NewMockTextEmbedder()
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockTextEmbedder: Returns deterministic 1536-dim vectors from text hash
//   - MockVisualEmbedder: Returns deterministic vectors sized per focus
//   - MockVisionAnalyzer: Returns a fixed analysis whose confidence flips low
//     when the first image byte is odd
//   - MockCatalogExtractor: Treats ALL-CAPS lines as product names
//   - MockProvider: Aggregates the above
package mock
