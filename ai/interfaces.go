package ai

import "context"

// TextEmbedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type TextEmbedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VisualFocus selects which aspect of an image a visual embedding captures.
type VisualFocus string

const (
	// FocusGeneral embeds the whole image.
	FocusGeneral VisualFocus = "general"
	// FocusColor embeds the image's color palette.
	FocusColor VisualFocus = "color"
	// FocusTexture embeds the image's surface texture.
	FocusTexture VisualFocus = "texture"
	// FocusApplication embeds the usage context shown in the image.
	FocusApplication VisualFocus = "application"
)

// VisualEmbedder generates vector embeddings from image bytes.
// Implementations must be thread-safe for concurrent use.
type VisualEmbedder interface {
	// EmbedImage generates a vector embedding for an image.
	// Returns an error if the embedding generation fails.
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)
}

// VisionAnalyzer inspects catalog imagery and reports what it shows.
// Implementations must be thread-safe for concurrent use.
type VisionAnalyzer interface {
	// AnalyzeImage analyzes an image, optionally guided by its caption,
	// and reports materials, colors, textures, embedded text and a
	// confidence for the analysis as a whole.
	AnalyzeImage(ctx context.Context, image []byte, caption string) (*VisionResult, error)
}

// CatalogExtractor pulls structured catalog entities out of extracted text.
// Implementations must be thread-safe for concurrent use.
type CatalogExtractor interface {
	// ExtractProducts analyzes chunk text and extracts the products it
	// describes. Returns an empty slice if no products are found.
	ExtractProducts(ctx context.Context, text string) ([]ExtractedProduct, error)

	// ExtractMetadata derives document-level metadata (collection name,
	// designers, product names) from a sample of page texts.
	ExtractMetadata(ctx context.Context, texts []string) (*CatalogMetadata, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages the embedding, vision and
// extraction services, ensuring they share configuration and resources.
type Provider interface {
	// TextEmbedder returns the text embedding service.
	// The returned TextEmbedder is safe for concurrent use.
	TextEmbedder() TextEmbedder

	// VisualEmbedder returns the visual embedding service for a focus.
	// Each focus may be served by a differently conditioned model with its
	// own output dimensionality. The returned VisualEmbedder is safe for
	// concurrent use.
	VisualEmbedder(focus VisualFocus) VisualEmbedder

	// VisionAnalyzer returns the image analysis service.
	// The returned VisionAnalyzer is safe for concurrent use.
	VisionAnalyzer() VisionAnalyzer

	// CatalogExtractor returns the structured extraction service.
	// The returned CatalogExtractor is safe for concurrent use.
	CatalogExtractor() CatalogExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
