package badger

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
//
// Dedup uniqueness rides BadgerDB's SSI conflict detection: AddChunkIfNew
// reads the hash index key and inserts in the same transaction, so two
// concurrent inserts of the same (document, hash) conflict at commit and
// exactly one wins. The loser re-runs against a fresh snapshot, observes the
// index entry, and reports a duplicate.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// Close releases resources. ChunkRepository has no resources to release.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunkIfNew inserts the chunk unless its (document, hash) pair exists.
func (r *ChunkRepository) AddChunkIfNew(ctx context.Context, chunk *core.Chunk) (bool, error) {
	if err := core.ValidateChunk(chunk); err != nil {
		return false, err
	}

	inserted := false
	err := r.backend.WithWriteTx(func(tx *badger.Txn) error {
		inserted = false
		hashKey := makeChunkHashKey(chunk.DocumentId, chunk.ContentHash)
		if _, err := tx.Get(hashKey); err == nil {
			return nil // duplicate
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if chunk.InsertedAt.IsZero() {
			chunk.InsertedAt = time.Now().UTC()
		}
		chunk.UpdatedAt = chunk.InsertedAt

		key := makeChunkKey(chunk.DocumentId, chunk.Id)
		if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
			return err
		}
		if err := tx.Set(hashKey, storage.MarshalID(chunk.Id)); err != nil {
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

// GetChunk retrieves a chunk by ID. The key is document-scoped, so this scans
// the chunk prefix; callers on hot paths should prefer GetChunksByDocument.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	var found *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				chunk, uerr := storage.UnmarshalChunk(val)
				if uerr != nil {
					return uerr
				}
				if chunk.Id == id {
					found = chunk
				}
				return nil
			})
			if err != nil {
				return err
			}
			if found != nil {
				return nil
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, storage.ErrNotFound
	}
	return found, nil
}

// GetChunksByDocument retrieves all chunks of a document in ordinal order.
func (r *ChunkRepository) GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error) {
	var chunks []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkPrefix(documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				chunk, uerr := storage.UnmarshalChunk(val)
				if uerr != nil {
					return uerr
				}
				chunks = append(chunks, chunk)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Ordinal < chunks[j].Ordinal
	})
	return chunks, nil
}

// UpdateChunks updates existing chunks.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithWriteTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(chunk.DocumentId, chunk.Id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			chunk.UpdatedAt = time.Now().UTC()
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	return chunks, err
}

// DeleteChunksByDocument removes all chunks of a document and their hash keys.
func (r *ChunkRepository) DeleteChunksByDocument(ctx context.Context, documentID core.ID) error {
	return r.backend.WithWriteTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkPrefix(documentID)
		iter := tx.NewIterator(opts)

		var recordKeys [][]byte
		var hashes []string
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			recordKeys = append(recordKeys, item.KeyCopy(nil))
			err := item.Value(func(val []byte) error {
				chunk, uerr := storage.UnmarshalChunk(val)
				if uerr != nil {
					return uerr
				}
				hashes = append(hashes, chunk.ContentHash)
				return nil
			})
			if err != nil {
				iter.Close()
				return err
			}
		}
		iter.Close()

		for _, key := range recordKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		for _, hash := range hashes {
			if err := tx.Delete(makeChunkHashKey(documentID, hash)); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}
