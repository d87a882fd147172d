package mock

import (
	"context"

	"github.com/poiesic/folio/ai"
)

// focusDims maps each visual focus to the default mock dimensionality,
// mirroring the platform-wide registry.
var focusDims = map[ai.VisualFocus]int{
	ai.FocusGeneral:     512,
	ai.FocusColor:       256,
	ai.FocusTexture:     256,
	ai.FocusApplication: 512,
}

// MockVisualEmbedder is a test double for ai.VisualEmbedder.
// It allows custom behavior injection via function fields.
type MockVisualEmbedder struct {
	// EmbedImageFunc is called by EmbedImage if set.
	// If nil, uses default deterministic behavior.
	EmbedImageFunc func(ctx context.Context, image []byte) ([]float32, error)

	// Focus selects the default dimensionality. Defaults to FocusGeneral.
	Focus ai.VisualFocus

	callCount int
}

// NewMockVisualEmbedder creates a mock visual embedder for a focus with
// default deterministic behavior. Note: Returns concrete type to allow
// test assertions.
func NewMockVisualEmbedder(focus ai.VisualFocus) *MockVisualEmbedder {
	return &MockVisualEmbedder{Focus: focus}
}

// EmbedImage generates a deterministic embedding based on the image bytes.
func (m *MockVisualEmbedder) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	m.callCount++

	if m.EmbedImageFunc != nil {
		return m.EmbedImageFunc(ctx, image)
	}
	if len(image) == 0 {
		return nil, ai.ErrInvalidPayload
	}

	dim, ok := focusDims[m.Focus]
	if !ok {
		dim = focusDims[ai.FocusGeneral]
	}
	return generateDeterministicVector(image, dim), nil
}

// CallCount returns the number of times EmbedImage was called.
func (m *MockVisualEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockVisualEmbedder) Reset() {
	m.callCount = 0
	m.EmbedImageFunc = nil
}
