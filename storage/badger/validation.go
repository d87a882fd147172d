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
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

// ValidationRepository implements storage.ValidationRepository for BadgerDB.
//
// Three key families keep the queue consistent: the record itself, a
// per-entity uniqueness key that exists while an item is outstanding, and a
// priority-ordered pending index that ClaimNext walks. All three are written
// in one transaction, so a claim that loses an SSI conflict retries and sees
// the winner's state.
type ValidationRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.ValidationRepository = (*ValidationRepository)(nil)

// NewValidationRepository creates a new ValidationRepository.
func NewValidationRepository(backend *Backend) (*ValidationRepository, error) {
	seq, err := backend.GetSequence(validationIDSeq)
	if err != nil {
		return nil, err
	}
	return &ValidationRepository{backend: backend, seq: seq}, nil
}

// Close releases the item ID sequence.
func (r *ValidationRepository) Close() error {
	return r.seq.Release()
}

// WithTransaction delegates to the backend.
func (r *ValidationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Enqueue inserts a pending item unless the entity already has an
// outstanding one. Returns true if the item was inserted.
func (r *ValidationRepository) Enqueue(ctx context.Context, item *core.ValidationItem) (bool, error) {
	if err := core.ValidateValidationItem(item); err != nil {
		return false, err
	}

	inserted := false
	err := r.backend.WithWriteTx(func(tx *badger.Txn) error {
		inserted = false
		entityKey := makeValidationEntityKey(item.EntityType, item.EntityId)
		if _, err := tx.Get(entityKey); err == nil {
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if item.Id == 0 {
			next, err := r.seq.Next()
			if err != nil {
				return err
			}
			// Sequences start at zero; ID zero means unassigned.
			item.Id = core.ID(next + 1)
		}
		now := time.Now().UTC()
		if item.InsertedAt.IsZero() {
			item.InsertedAt = now
		}
		item.UpdatedAt = item.InsertedAt
		item.Status = core.ValidationPending

		if err := tx.Set(makeValidationKey(item.Id), storage.MarshalValidationItem(item)); err != nil {
			return err
		}
		if err := tx.Set(entityKey, appendID(nil, item.Id)); err != nil {
			return err
		}
		pendingKey := makeValidationPendingKey(item.Priority, item.InsertedAt.UnixMicro(), item.Id)
		if err := tx.Set(pendingKey, appendID(nil, item.Id)); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}

// ClaimNext claims the highest-priority pending item and marks it processing.
// Returns ErrNotFound when the queue is empty.
func (r *ValidationRepository) ClaimNext(ctx context.Context) (*core.ValidationItem, error) {
	var claimed *core.ValidationItem
	err := r.backend.WithWriteTx(func(tx *badger.Txn) error {
		claimed = nil
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(validationPendingIdx + ":")
		iter := tx.NewIterator(opts)

		var pendingKey []byte
		var id core.ID
		iter.Rewind()
		if iter.Valid() {
			pendingKey = iter.Item().KeyCopy(nil)
			err := iter.Item().Value(func(val []byte) error {
				var uerr error
				id, uerr = idFromKeySuffix(val)
				return uerr
			})
			if err != nil {
				iter.Close()
				return err
			}
		}
		iter.Close()

		if pendingKey == nil {
			return storage.ErrNotFound
		}

		item, err := r.getInTx(tx, id)
		if err != nil {
			return err
		}
		item.Status = core.ValidationProcessing
		item.UpdatedAt = time.Now().UTC()

		if err := tx.Delete(pendingKey); err != nil {
			return err
		}
		if err := tx.Set(makeValidationKey(item.Id), storage.MarshalValidationItem(item)); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		claimed = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Complete marks a processing item completed and merges result metadata.
func (r *ValidationRepository) Complete(ctx context.Context, id core.ID, result map[string]string) error {
	return r.backend.WithWriteTx(func(tx *badger.Txn) error {
		item, err := r.getInTx(tx, id)
		if err != nil {
			return err
		}
		if item.Status != core.ValidationProcessing {
			return storage.ErrInvalidState
		}

		item.Status = core.ValidationCompleted
		item.UpdatedAt = time.Now().UTC()
		if len(result) > 0 {
			if item.Metadata == nil {
				item.Metadata = map[string]string{}
			}
			for k, v := range result {
				item.Metadata[k] = v
			}
		}

		if err := tx.Set(makeValidationKey(item.Id), storage.MarshalValidationItem(item)); err != nil {
			return err
		}
		if err := tx.Delete(makeValidationEntityKey(item.EntityType, item.EntityId)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// Release returns a failed processing item to the queue with an incremented
// retry count, or marks it permanently failed once the count reaches
// retryLimit. Returns the resulting status.
func (r *ValidationRepository) Release(ctx context.Context, id core.ID, reason string, retryLimit int) (core.ValidationStatus, error) {
	var status core.ValidationStatus
	err := r.backend.WithWriteTx(func(tx *badger.Txn) error {
		item, err := r.getInTx(tx, id)
		if err != nil {
			return err
		}
		if item.Status != core.ValidationProcessing {
			return storage.ErrInvalidState
		}

		item.RetryCount++
		item.UpdatedAt = time.Now().UTC()
		if item.Metadata == nil {
			item.Metadata = map[string]string{}
		}
		item.Metadata["last_error"] = reason

		if item.RetryCount >= retryLimit {
			item.Status = core.ValidationFailed
			if err := tx.Delete(makeValidationEntityKey(item.EntityType, item.EntityId)); err != nil {
				return err
			}
		} else {
			item.Status = core.ValidationPending
			pendingKey := makeValidationPendingKey(item.Priority, item.InsertedAt.UnixMicro(), item.Id)
			if err := tx.Set(pendingKey, appendID(nil, item.Id)); err != nil {
				return err
			}
		}

		if err := tx.Set(makeValidationKey(item.Id), storage.MarshalValidationItem(item)); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		status = item.Status
		return nil
	})
	return status, err
}

// GetItem retrieves an item by ID.
func (r *ValidationRepository) GetItem(ctx context.Context, id core.ID) (*core.ValidationItem, error) {
	var item *core.ValidationItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var gerr error
		item, gerr = r.getInTx(tx, id)
		return gerr
	}, false)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListByDocument retrieves all items for a document, oldest first.
func (r *ValidationRepository) ListByDocument(ctx context.Context, documentID core.ID) ([]*core.ValidationItem, error) {
	var items []*core.ValidationItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(validationPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				item, uerr := storage.UnmarshalValidationItem(val)
				if uerr != nil {
					return uerr
				}
				if item.DocumentId == documentID {
					items = append(items, item)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return items, err
}

// CountByStatus counts queue items in the given status.
func (r *ValidationRepository) CountByStatus(ctx context.Context, status core.ValidationStatus) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(validationPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				item, uerr := storage.UnmarshalValidationItem(val)
				if uerr != nil {
					return uerr
				}
				if item.Status == status {
					count++
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return count, err
}

func (r *ValidationRepository) getInTx(tx *badger.Txn, id core.ID) (*core.ValidationItem, error) {
	item, err := tx.Get(makeValidationKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, storage.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	var out *core.ValidationItem
	verr := item.Value(func(val []byte) error {
		out, err = storage.UnmarshalValidationItem(val)
		return err
	})
	if verr != nil {
		return nil, verr
	}
	return out, nil
}
