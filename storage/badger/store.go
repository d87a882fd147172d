/*
   Copyright 2025 Poiesic Systems

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package badger

import (
	"github.com/poiesic/folio/storage"
)

// Store bundles every repository over one shared Badger backend.
type Store struct {
	backend *Backend

	Jobs       storage.JobRepository
	Chunks     storage.ChunkRepository
	Catalog    storage.CatalogRepository
	Embeddings storage.EmbeddingRepository
	Validation storage.ValidationRepository
}

// OpenStore opens a persistent store at the given path.
func OpenStore(filePath string) (*Store, error) {
	return newStore(filePath, false)
}

// NewMemoryStore opens an in-memory store. Data is lost on Close.
// Intended for tests.
func NewMemoryStore() (*Store, error) {
	return newStore("", true)
}

func newStore(filePath string, inMemory bool) (*Store, error) {
	backend, err := OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}
	validation, err := NewValidationRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return &Store{
		backend:    backend,
		Jobs:       NewJobRepository(backend),
		Chunks:     NewChunkRepository(backend),
		Catalog:    NewCatalogRepository(backend),
		Embeddings: NewEmbeddingRepository(backend),
		Validation: validation,
	}, nil
}

// Close releases repository resources and closes the backend.
func (s *Store) Close() error {
	if err := s.Validation.Close(); err != nil {
		s.backend.Close()
		return err
	}
	return s.backend.Close()
}
