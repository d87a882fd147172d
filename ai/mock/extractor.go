package mock

import (
	"context"
	"strings"

	"github.com/poiesic/folio/ai"
)

// MockCatalogExtractor is a test double for ai.CatalogExtractor.
// It allows custom behavior injection via function fields.
type MockCatalogExtractor struct {
	// ExtractProductsFunc is called by ExtractProducts if set.
	// If nil, uses default line-based extraction.
	ExtractProductsFunc func(ctx context.Context, text string) ([]ai.ExtractedProduct, error)

	// ExtractMetadataFunc is called by ExtractMetadata if set.
	// If nil, uses default heuristic extraction.
	ExtractMetadataFunc func(ctx context.Context, texts []string) (*ai.CatalogMetadata, error)

	callCount int
}

// NewMockCatalogExtractor creates a mock catalog extractor with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCatalogExtractor() *MockCatalogExtractor {
	return &MockCatalogExtractor{}
}

// ExtractProducts extracts simple mock products from text.
// Default behavior: every line written in ALL CAPS becomes a product named by
// that line, described by the following line.
func (m *MockCatalogExtractor) ExtractProducts(ctx context.Context, text string) ([]ai.ExtractedProduct, error) {
	m.callCount++

	if m.ExtractProductsFunc != nil {
		return m.ExtractProductsFunc(ctx, text)
	}

	return defaultProducts(text), nil
}

// ExtractMetadata derives simple mock metadata from the sampled texts.
// Default behavior: the first line of the first text is the collection name,
// product names are gathered with the default product extraction.
func (m *MockCatalogExtractor) ExtractMetadata(ctx context.Context, texts []string) (*ai.CatalogMetadata, error) {
	m.callCount++

	if m.ExtractMetadataFunc != nil {
		return m.ExtractMetadataFunc(ctx, texts)
	}

	meta := &ai.CatalogMetadata{}
	if len(texts) > 0 {
		lines := strings.SplitN(texts[0], "\n", 2)
		meta.Collection = strings.TrimSpace(lines[0])
	}
	for _, text := range texts {
		for _, p := range defaultProducts(text) {
			meta.ProductNames = append(meta.ProductNames, p.Name)
		}
	}
	return meta, nil
}

// CallCount returns the number of times any method was called.
func (m *MockCatalogExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockCatalogExtractor) Reset() {
	m.callCount = 0
	m.ExtractProductsFunc = nil
	m.ExtractMetadataFunc = nil
}

func defaultProducts(text string) []ai.ExtractedProduct {
	lines := strings.Split(text, "\n")
	products := []ai.ExtractedProduct{}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || line != strings.ToUpper(line) || !strings.ContainsAny(line, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			continue
		}

		description := ""
		if i+1 < len(lines) {
			description = strings.TrimSpace(lines[i+1])
		}
		products = append(products, ai.ExtractedProduct{
			Name:        titleCase(line),
			Description: description,
			Category:    "seating",
		})
	}
	return products
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
