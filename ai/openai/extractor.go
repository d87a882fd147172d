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
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/folio/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// CatalogExtractor implements ai.CatalogExtractor using OpenAI-compatible chat APIs.
type CatalogExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// product is an internal type used for JSON unmarshaling.
// It matches the structure expected by the LLM.
type product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// productList is the wrapper structure for the product response.
type productList struct {
	Products []product `json:"products"`
}

// metadata is the wrapper structure for the metadata response.
type metadata struct {
	Collection   string   `json:"collection"`
	Designers    []string `json:"designers"`
	ProductNames []string `json:"product_names"`
}

// newCatalogExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCatalogExtractor(config *ai.Config) (*CatalogExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/extraction
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.VisionHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &CatalogExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewCatalogExtractor creates a new catalog extractor using the provided configuration.
//
// Returns ai.CatalogExtractor interface to enforce abstraction.
func NewCatalogExtractor(config *ai.Config) (ai.CatalogExtractor, error) {
	return newCatalogExtractor(config)
}

// ExtractProducts extracts the products described in catalog text using an LLM.
func (e *CatalogExtractor) ExtractProducts(ctx context.Context, text string) ([]ai.ExtractedProduct, error) {
	var result productList
	if err := e.generateJSON(ctx, buildProductPrompt(), text, &result); err != nil {
		return nil, err
	}

	extracted := make([]ai.ExtractedProduct, 0, len(result.Products))
	for _, p := range result.Products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		extracted = append(extracted, ai.ExtractedProduct{
			Name:        name,
			Description: strings.TrimSpace(p.Description),
			Category:    normalizeCategory(p.Category),
		})
	}

	e.logger.Debug("extracted products", "total", len(result.Products), "kept", len(extracted))
	return extracted, nil
}

// ExtractMetadata derives document-level metadata from sampled page texts.
func (e *CatalogExtractor) ExtractMetadata(ctx context.Context, texts []string) (*ai.CatalogMetadata, error) {
	var result metadata
	input := strings.Join(texts, "\n\n---\n\n")
	if err := e.generateJSON(ctx, buildMetadataPrompt(), input, &result); err != nil {
		return nil, err
	}

	e.logger.Debug("extracted metadata",
		"collection", result.Collection,
		"designers", len(result.Designers),
		"products", len(result.ProductNames))

	return &ai.CatalogMetadata{
		Collection:   strings.TrimSpace(result.Collection),
		Designers:    result.Designers,
		ProductNames: result.ProductNames,
	}, nil
}

// generateJSON runs one chat completion in JSON mode and unmarshals the
// response into out, retrying up to 3 times on malformed JSON.
func (e *CatalogExtractor) generateJSON(ctx context.Context, systemPrompt, userText string, out any) error {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userText),
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return classifyErr(err)
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return ai.ErrInvalidResponse
		}

		responseText := cleanJSONResponse(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
	return errors.Join(ai.ErrInvalidResponse, lastErr)
}

// cleanJSONResponse strips markdown code fences and repairs common JSON
// issues in LLM output.
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	return repairJSON(s)
}

// normalizeCategory lowercases a category and keeps it only if it is in the
// taxonomy.
func normalizeCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	for _, known := range ai.ProductCategories {
		if category == known {
			return category
		}
	}
	return ""
}
