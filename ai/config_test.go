package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.VisualHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.VisionHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "llava:13b", cfg.VisionModel)
	assert.Equal(t, "qwen2.5:3b", cfg.ExtractorModel)
	assert.NotEmpty(t, cfg.VisualModels[FocusGeneral])
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.VisionHost)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.VisualHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.VisionHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithVisualHost("http://clip:9090/v1"),
			WithVisionHost("http://vision:9100/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://clip:9090/v1", cfg.VisualHost)
		assert.Equal(t, "http://vision:9100/v1", cfg.VisionHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingModel("text-embedding-3-small"),
			WithVisionModel("gpt-4o-mini"),
			WithExtractorModel("gpt-4o-mini"),
		)

		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.VisionModel)
		assert.Equal(t, "gpt-4o-mini", cfg.ExtractorModel)
	})

	t.Run("with per-focus visual model", func(t *testing.T) {
		cfg := NewConfig(WithVisualModel(FocusColor, "clip-color-custom"))

		assert.Equal(t, "clip-color-custom", cfg.VisualModel(FocusColor))
	})
}

func TestConfigVisualModelFallback(t *testing.T) {
	cfg := &Config{
		VisualModels: map[VisualFocus]string{
			FocusGeneral: "clip-base",
			FocusColor:   "clip-color",
		},
	}

	assert.Equal(t, "clip-color", cfg.VisualModel(FocusColor))
	// Unmapped focuses fall back to the general model.
	assert.Equal(t, "clip-base", cfg.VisualModel(FocusTexture))
	assert.Equal(t, "clip-base", cfg.VisualModel(FocusApplication))
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{
			name:     "already has /v1",
			host:     "http://localhost:11434/v1",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "missing /v1",
			host:     "http://localhost:11434",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "has trailing slash",
			host:     "http://localhost:11434/",
			expected: "http://localhost:11434/v1",
		},
		{
			name:     "empty host",
			host:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				EmbeddingHost: tt.host,
				VisualHost:    tt.host,
				VisionHost:    tt.host,
			}

			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
			assert.Equal(t, tt.expected, cfg.VisualHost)
			assert.Equal(t, tt.expected, cfg.VisionHost)
		})
	}

	t.Run("unset hosts inherit embedding host", func(t *testing.T) {
		cfg := &Config{EmbeddingHost: "http://shared:8080"}

		cfg.Normalize()

		assert.Equal(t, "http://shared:8080/v1", cfg.VisualHost)
		assert.Equal(t, "http://shared:8080/v1", cfg.VisionHost)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			EmbeddingHost:  "http://localhost:11434",
			EmbeddingModel: "embeddinggemma",
			VisualModels:   map[VisualFocus]string{FocusGeneral: "clip-base"},
			VisionModel:    "llava:13b",
			ExtractorModel: "qwen2.5:3b",
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()

		err := cfg.Validate()
		assert.NoError(t, err)

		// Should also normalize
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.VisionHost)
	})

	t.Run("missing embedding host", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingHost = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingHost")
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("missing vision model", func(t *testing.T) {
		cfg := valid()
		cfg.VisionModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "VisionModel")
	})

	t.Run("missing extractor model", func(t *testing.T) {
		cfg := valid()
		cfg.ExtractorModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ExtractorModel")
	})

	t.Run("missing general visual model", func(t *testing.T) {
		cfg := valid()
		cfg.VisualModels = nil

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "FocusGeneral")
	})
}

func TestConfigValidate_Integration(t *testing.T) {
	// Test that NewConfig produces a valid configuration
	cfg := NewConfig()
	err := cfg.Validate()
	require.NoError(t, err)

	// Test that DefaultConfig produces a valid configuration
	cfg = DefaultConfig()
	err = cfg.Validate()
	require.NoError(t, err)
}
