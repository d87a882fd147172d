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
	"net/http"
	"strings"

	"github.com/poiesic/folio/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// VisionAnalyzer implements ai.VisionAnalyzer using OpenAI-compatible
// multimodal chat APIs.
type VisionAnalyzer struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

// visionResponse is an internal type used for JSON unmarshaling.
// It matches the structure expected from the vision model.
type visionResponse struct {
	Materials    []string `json:"materials"`
	Colors       []string `json:"colors"`
	Textures     []string `json:"textures"`
	OCRText      string   `json:"ocr_text"`
	QualityScore float32  `json:"quality_score"`
	Confidence   float32  `json:"confidence"`
}

// newVisionAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newVisionAnalyzer(config *ai.Config) (*VisionAnalyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.VisionHost),
		openai.WithToken("none"),
		openai.WithModel(config.VisionModel),
	)
	if err != nil {
		return nil, err
	}

	return &VisionAnalyzer{
		client: client,
		model:  config.VisionModel,
		logger: slog.Default().With("component", "openai-vision"),
	}, nil
}

// NewVisionAnalyzer creates a new vision analyzer using the provided configuration.
//
// Returns ai.VisionAnalyzer interface to enforce abstraction.
func NewVisionAnalyzer(config *ai.Config) (ai.VisionAnalyzer, error) {
	return newVisionAnalyzer(config)
}

// AnalyzeImage analyzes a catalog image, optionally guided by its caption.
func (a *VisionAnalyzer) AnalyzeImage(ctx context.Context, image []byte, caption string) (*ai.VisionResult, error) {
	if len(image) == 0 {
		return nil, ai.ErrInvalidPayload
	}
	mimeType := http.DetectContentType(image)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, ai.ErrInvalidPayload
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildVisionPrompt(caption)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mimeType, image),
				llms.TextPart("Analyze this image."),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result visionResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to analyze image", "attempt", attempt+1, "err", err)
			return nil, classifyErr(err)
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from vision model")
			return nil, ai.ErrInvalidResponse
		}

		responseText := cleanJSONResponse(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			a.logger.Warn("error parsing vision response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		a.logger.Error("failed to parse vision response after retries", "err", lastErr)
		return nil, errors.Join(ai.ErrInvalidResponse, lastErr)
	}

	a.logger.Debug("analyzed image",
		"materials", len(result.Materials),
		"colors", len(result.Colors),
		"confidence", result.Confidence)

	return &ai.VisionResult{
		Materials:    lowerAll(result.Materials),
		Colors:       lowerAll(result.Colors),
		Textures:     lowerAll(result.Textures),
		OCRText:      strings.TrimSpace(result.OCRText),
		QualityScore: clampUnit(result.QualityScore),
		Confidence:   clampUnit(result.Confidence),
		Model:        a.model,
	}, nil
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
