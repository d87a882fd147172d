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


// Package ai provides abstractions for AI services used in Folio.
//
// This package defines interfaces for AI operations including text and
// visual embeddings, image analysis and structured catalog extraction.
// It follows the dependency inversion principle, allowing the core domain
// and business logic to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around five key interfaces:
//
//   - TextEmbedder: Generates vector embeddings from text
//   - VisualEmbedder: Generates vector embeddings from image bytes,
//     one instance per visual focus (general, color, texture, application)
//   - VisionAnalyzer: Reports materials, colors, textures and embedded
//     text found in catalog imagery
//   - CatalogExtractor: Pulls structured products and document metadata
//     out of extracted text
//   - Provider: Aggregates the services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider and friends) return INTERFACE
// types to enforce abstraction and prevent accidental coupling to concrete
// implementations. Test utility constructors in ai/mock return CONCRETE
// types to enable test assertions and behavior injection via the mock's
// public fields (CallCount, custom Func fields, Reset).
//
// # Failure Taxonomy
//
// Provider failures are classified by the sentinel errors in errors.go.
// IsTransient separates transport-level failures a caller should retry
// (rate limits, timeouts, unreachable hosts) from content-level failures
// it should not (unparseable responses, rejected payloads). Pipeline retry
// policies are built on this predicate.
package ai
