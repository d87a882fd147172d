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


// Package storage provides the storage abstraction layer for folio.
//
// This package defines repository interfaces that decouple storage
// implementation from pipeline and search logic. It allows different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	store, err := badger.NewStore(path)  // repositories satisfy storage interfaces
//
// Internal package constructors may return concrete types since they are only
// used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - JobRepository: jobs and per-stage progress rows
//   - ChunkRepository: deduplicated text chunks
//   - CatalogRepository: page texts, images and products
//   - EmbeddingRepository: per-entity multi-kind vector sets
//   - ValidationRepository: the deferred validation queue
//
// # Atomicity Guarantees
//
// Two operations carry cross-worker atomicity requirements and are implemented
// as single transactions in every backend:
//
//   - ChunkRepository.AddChunkIfNew: uniqueness check over
//     (document, content hash) and insert race safely; at most one insert wins.
//   - ValidationRepository.ClaimNext: a pending item transitions to processing
//     exactly once even with concurrent workers.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
