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


package quality

import (
	"errors"
	"math"
	"unicode/utf8"
)

// Config holds the tuning parameters of the quality gate.
// The gate logic, not these constants, is the contract: every value is
// adjustable per deployment.
type Config struct {
	// MinScore is the minimum combined quality score for acceptance.
	MinScore float32

	// MinLength and MaxLength bound accepted content length in characters.
	MinLength int
	MaxLength int

	// MinSentences is the minimum number of complete sentences.
	MinSentences int

	// TargetLow and TargetHigh delimit the length range that scores 1.0
	// on the length signal. Outside the range the signal decays linearly.
	TargetLow  int
	TargetHigh int

	// LengthWeight, BoundaryWeight and DensityWeight combine the three
	// signals into the final score. They must sum to 1.0.
	LengthWeight   float32
	BoundaryWeight float32
	DensityWeight  float32
}

// Option configures a Config.
type Option func(*Config)

// WithMinScore sets the minimum combined score for acceptance.
func WithMinScore(score float32) Option {
	return func(c *Config) { c.MinScore = score }
}

// WithLengthBounds sets the hard minimum and maximum content length.
func WithLengthBounds(min, max int) Option {
	return func(c *Config) {
		c.MinLength = min
		c.MaxLength = max
	}
}

// WithTargetRange sets the length range that scores 1.0 on the length signal.
func WithTargetRange(low, high int) Option {
	return func(c *Config) {
		c.TargetLow = low
		c.TargetHigh = high
	}
}

// WithWeights sets the signal weights. They must sum to 1.0.
func WithWeights(length, boundary, density float32) Option {
	return func(c *Config) {
		c.LengthWeight = length
		c.BoundaryWeight = boundary
		c.DensityWeight = density
	}
}

// WithMinSentences sets the minimum complete-sentence count.
func WithMinSentences(min int) Option {
	return func(c *Config) { c.MinSentences = min }
}

// DefaultConfig returns the gate defaults: minimum score 0.6, length bounds
// 50..5000, at least one sentence, weights 30/40/30.
func DefaultConfig() *Config {
	return &Config{
		MinScore:       0.6,
		MinLength:      50,
		MaxLength:      5000,
		MinSentences:   1,
		TargetLow:      200,
		TargetHigh:     1500,
		LengthWeight:   0.3,
		BoundaryWeight: 0.4,
		DensityWeight:  0.3,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.MinLength < 0 || c.MaxLength <= c.MinLength {
		return errors.New("quality config: length bounds must satisfy 0 <= min < max")
	}
	if c.TargetLow <= 0 || c.TargetHigh <= c.TargetLow {
		return errors.New("quality config: target range must satisfy 0 < low < high")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return errors.New("quality config: MinScore must be in [0,1]")
	}
	sum := c.LengthWeight + c.BoundaryWeight + c.DensityWeight
	if math.Abs(float64(sum)-1.0) > 1e-6 {
		return errors.New("quality config: signal weights must sum to 1.0")
	}
	return nil
}

// Gate scores chunk content and decides whether it may be persisted.
// Gate is stateless and safe for concurrent use.
type Gate struct {
	cfg *Config
}

// NewGate creates a Gate with the default configuration and applies options.
func NewGate(opts ...Option) (*Gate, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gate{cfg: cfg}, nil
}

// Config returns a copy of the gate's configuration.
func (g *Gate) Config() Config {
	return *g.cfg
}

// Score computes the combined quality score for the content.
// It is a weighted sum of three signals: length-appropriateness, boundary
// quality (terminal punctuation), and semantic density (complete sentences).
// The result is always in [0,1].
func (g *Gate) Score(content string) float32 {
	score := g.cfg.LengthWeight*g.lengthScore(content) +
		g.cfg.BoundaryWeight*boundaryScore(content) +
		g.cfg.DensityWeight*g.densityScore(content)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Accept applies all four gates to the content and a precomputed score.
// Any single failing gate rejects: score below minimum, content shorter than
// the minimum or longer than the maximum, or fewer sentences than required.
func (g *Gate) Accept(content string, score float32) bool {
	if score < g.cfg.MinScore {
		return false
	}
	length := utf8.RuneCountInString(content)
	if length < g.cfg.MinLength || length > g.cfg.MaxLength {
		return false
	}
	if CountSentences(content) < g.cfg.MinSentences {
		return false
	}
	return true
}

// Evaluate scores the content and applies the gate in one call.
func (g *Gate) Evaluate(content string) (score float32, accepted bool) {
	score = g.Score(content)
	return score, g.Accept(content, score)
}

// lengthScore rewards content inside the target range and decays linearly
// toward the hard bounds outside it.
func (g *Gate) lengthScore(content string) float32 {
	length := utf8.RuneCountInString(content)
	switch {
	case length >= g.cfg.TargetLow && length <= g.cfg.TargetHigh:
		return 1.0
	case length < g.cfg.TargetLow:
		if length <= g.cfg.MinLength {
			return 0
		}
		return float32(length-g.cfg.MinLength) / float32(g.cfg.TargetLow-g.cfg.MinLength)
	default:
		if length >= g.cfg.MaxLength {
			return 0
		}
		return float32(g.cfg.MaxLength-length) / float32(g.cfg.MaxLength-g.cfg.TargetHigh)
	}
}

// boundaryScore rewards content that ends on sentence-terminating punctuation.
func boundaryScore(content string) float32 {
	trimmed := trimTrailingSpace(content)
	if trimmed == "" {
		return 0
	}
	last := trimmed[len(trimmed)-1]
	switch last {
	case '.', '!', '?':
		return 1.0
	case ':', ';':
		return 0.5
	default:
		return 0
	}
}

// densityScore rewards a minimum count of complete sentences. One sentence
// scores 0.4, each additional sentence adds 0.2 up to 1.0.
func (g *Gate) densityScore(content string) float32 {
	sentences := CountSentences(content)
	if sentences == 0 {
		return 0
	}
	score := 0.4 + 0.2*float32(sentences-1)
	if score > 1 {
		return 1
	}
	return score
}
