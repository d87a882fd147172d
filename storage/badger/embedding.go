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
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
// One record per entity holds its full vector set, so storing a new kind
// and reading existing kinds are serialized under Badger's SSI.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) *EmbeddingRepository {
	return &EmbeddingRepository{backend: backend}
}

// Close releases resources. EmbeddingRepository has no resources to release.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EmbeddingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// StoreVector upserts one vector of the entity's set. The vector's length
// must match the kind's registered dimension. Regenerating an existing kind
// replaces the previous vector and its generation metadata.
func (r *EmbeddingRepository) StoreVector(ctx context.Context, entityType core.EntityType, entityID, documentID core.ID, attrs map[string]string, kind core.EmbeddingKind, vector []float32, meta core.VectorMeta) error {
	if !kind.Valid() {
		return core.ErrInvalidEmbeddingKind
	}
	if len(vector) != kind.Dimension() {
		return fmt.Errorf("%w: kind %s wants %d dimensions, got %d",
			storage.ErrDimensionMismatch, kind, kind.Dimension(), len(vector))
	}

	return r.backend.WithWriteTx(func(tx *badger.Txn) error {
		key := makeVectorSetKey(entityType, entityID)

		set := &core.VectorSet{
			EntityId:   entityID,
			EntityType: entityType,
			DocumentId: documentID,
			Metadata:   attrs,
			Vectors:    map[core.EmbeddingKind][]float32{},
			Meta:       map[core.EmbeddingKind]core.VectorMeta{},
			InsertedAt: time.Now().UTC(),
		}
		item, err := tx.Get(key)
		if err == nil {
			verr := item.Value(func(val []byte) error {
				existing, uerr := storage.UnmarshalVectorSet(val)
				if uerr != nil {
					return uerr
				}
				set = existing
				return nil
			})
			if verr != nil {
				return verr
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		set.DocumentId = documentID
		if attrs != nil {
			set.Metadata = attrs
		}
		set.Vectors[kind] = vector
		set.Meta[kind] = meta
		set.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalVectorSet(set)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// DeleteVector removes one vector kind from an entity's set. Removing the
// last kind deletes the whole record. Missing kinds are not an error.
func (r *EmbeddingRepository) DeleteVector(ctx context.Context, entityType core.EntityType, entityID core.ID, kind core.EmbeddingKind) error {
	return r.backend.WithWriteTx(func(tx *badger.Txn) error {
		key := makeVectorSetKey(entityType, entityID)
		item, err := tx.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}

		var set *core.VectorSet
		verr := item.Value(func(val []byte) error {
			set, err = storage.UnmarshalVectorSet(val)
			return err
		})
		if verr != nil {
			return verr
		}

		if _, ok := set.Vectors[kind]; !ok {
			return nil
		}
		delete(set.Vectors, kind)
		delete(set.Meta, kind)

		if len(set.Vectors) == 0 {
			if err := tx.Delete(key); err != nil {
				return err
			}
			return tx.Commit()
		}

		set.UpdatedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalVectorSet(set)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// GetVectorSet retrieves the full vector set of an entity.
func (r *EmbeddingRepository) GetVectorSet(ctx context.Context, entityType core.EntityType, entityID core.ID) (*core.VectorSet, error) {
	var set *core.VectorSet
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorSetKey(entityType, entityID))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		} else if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			set, err = storage.UnmarshalVectorSet(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// IterateVectorSets streams every stored vector set to fn within one read
// snapshot. Iteration stops at the first error fn returns, or when the
// context is cancelled.
func (r *EmbeddingRepository) IterateVectorSets(ctx context.Context, fn func(*core.VectorSet) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorSetPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				set, uerr := storage.UnmarshalVectorSet(val)
				if uerr != nil {
					return uerr
				}
				return fn(set)
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
}
