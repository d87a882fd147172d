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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the text embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// VisualHost is the base URL for the visual embedding (CLIP-style)
	// service API. Defaults to EmbeddingHost when unset.
	VisualHost string

	// VisionHost is the base URL for the multimodal vision/extraction
	// service API. Defaults to EmbeddingHost when unset.
	VisionHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// VisualModels maps each visual focus to the embedding model serving it.
	// Unmapped focuses fall back to the FocusGeneral model.
	VisualModels map[VisualFocus]string

	// VisionModel is the multimodal model identifier to use for image analysis.
	// Example: "llava:13b", "gpt-4o-mini"
	VisionModel string

	// ExtractorModel is the model identifier to use for structured extraction
	// of products and catalog metadata. Example: "qwen2.5:3b"
	ExtractorModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the text embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithVisualHost sets the visual embedding service host URL.
func WithVisualHost(host string) ConfigOption {
	return func(c *Config) {
		c.VisualHost = host
	}
}

// WithVisionHost sets the vision/extraction service host URL.
func WithVisionHost(host string) ConfigOption {
	return func(c *Config) {
		c.VisionHost = host
	}
}

// WithHost sets all three service hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.VisualHost = host
		c.VisionHost = host
	}
}

// WithEmbeddingModel sets the text embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithVisualModel sets the embedding model for one visual focus.
func WithVisualModel(focus VisualFocus, model string) ConfigOption {
	return func(c *Config) {
		if c.VisualModels == nil {
			c.VisualModels = map[VisualFocus]string{}
		}
		c.VisualModels[focus] = model
	}
}

// WithVisionModel sets the multimodal vision model identifier.
func WithVisionModel(model string) ConfigOption {
	return func(c *Config) {
		c.VisionModel = model
	}
}

// WithExtractorModel sets the structured extraction model identifier.
func WithExtractorModel(model string) ConfigOption {
	return func(c *Config) {
		c.ExtractorModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. All three services share one host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		VisualHost:     defaultHost,
		VisionHost:     defaultHost,
		EmbeddingModel: "embeddinggemma",
		VisualModels: map[VisualFocus]string{
			FocusGeneral:     "clip-vit-base-patch32",
			FocusColor:       "clip-color-256",
			FocusTexture:     "clip-texture-256",
			FocusApplication: "clip-vit-base-patch32",
		},
		VisionModel:    "llava:13b",
		ExtractorModel: "qwen2.5:3b",
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// VisualModel returns the model serving a focus, falling back to the
// FocusGeneral model when the focus has no dedicated entry.
func (c *Config) VisualModel(focus VisualFocus) string {
	if model, ok := c.VisualModels[focus]; ok {
		return model
	}
	return c.VisualModels[FocusGeneral]
}

// Normalize ensures the configuration is in a canonical form.
// Unset hosts inherit EmbeddingHost, and every host gets the /v1 suffix
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.VisualHost == "" {
		c.VisualHost = c.EmbeddingHost
	}
	if c.VisionHost == "" {
		c.VisionHost = c.EmbeddingHost
	}
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.VisualHost = normalizeHost(c.VisualHost)
	c.VisionHost = normalizeHost(c.VisionHost)
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.VisionModel == "" {
		return errors.New("ai config: VisionModel is required")
	}
	if c.ExtractorModel == "" {
		return errors.New("ai config: ExtractorModel is required")
	}
	if c.VisualModel(FocusGeneral) == "" {
		return errors.New("ai config: a FocusGeneral visual model is required")
	}
	return nil
}
