package mock

import (
	"context"
	"sync"

	"github.com/poiesic/folio/ai"
)

// MockVisionAnalyzer is a test double for ai.VisionAnalyzer.
// It allows custom behavior injection via function fields.
// Safe for concurrent use; image analysis fans out across a worker pool.
type MockVisionAnalyzer struct {
	// AnalyzeImageFunc is called by AnalyzeImage if set.
	// If nil, uses default deterministic behavior.
	AnalyzeImageFunc func(ctx context.Context, image []byte, caption string) (*ai.VisionResult, error)

	mu        sync.Mutex
	callCount int
}

// NewMockVisionAnalyzer creates a mock vision analyzer with default
// deterministic behavior. Note: Returns concrete type to allow test assertions.
func NewMockVisionAnalyzer() *MockVisionAnalyzer {
	return &MockVisionAnalyzer{}
}

// AnalyzeImage returns a deterministic analysis derived from the image bytes.
// The first image byte steers materials and confidence so tests can force
// low-confidence results with crafted payloads.
func (m *MockVisionAnalyzer) AnalyzeImage(ctx context.Context, image []byte, caption string) (*ai.VisionResult, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.AnalyzeImageFunc != nil {
		return m.AnalyzeImageFunc(ctx, image, caption)
	}
	if len(image) == 0 {
		return nil, ai.ErrInvalidPayload
	}

	materials := []string{"oak", "steel"}
	confidence := float32(0.9)
	if image[0]%2 == 1 {
		materials = []string{"walnut"}
		confidence = 0.5
	}

	return &ai.VisionResult{
		Materials:    materials,
		Colors:       []string{"brown"},
		Textures:     []string{"matte"},
		OCRText:      "",
		QualityScore: 0.8,
		Confidence:   confidence,
		Model:        "mock-vision",
	}, nil
}

// CallCount returns the number of times AnalyzeImage was called.
func (m *MockVisionAnalyzer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockVisionAnalyzer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.AnalyzeImageFunc = nil
}
