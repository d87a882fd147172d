package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

// JobRepository implements storage.JobRepository for BadgerDB.
type JobRepository struct {
	backend *Backend
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) *JobRepository {
	return &JobRepository{backend: backend}
}

// Close releases resources. JobRepository has no resources to release.
func (r *JobRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *JobRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// CreateJob persists a new job.
func (r *JobRepository) CreateJob(ctx context.Context, job *core.Job) error {
	if err := core.ValidateJob(job); err != nil {
		return err
	}
	return r.backend.WithWriteTx(func(tx *badger.Txn) error {
		key := makeJobKey(job.Id)
		if _, err := tx.Get(key); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		job.CreatedAt = time.Now().UTC()
		job.UpdatedAt = job.CreatedAt
		if err := tx.Set(key, storage.MarshalJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// GetJob retrieves a job by ID.
func (r *JobRepository) GetJob(ctx context.Context, id string) (*core.Job, error) {
	var job *core.Job
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeJobKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var uerr error
			job, uerr = storage.UnmarshalJob(val)
			return uerr
		})
	}, false)
	return job, err
}

// UpdateJob overwrites an existing job.
func (r *JobRepository) UpdateJob(ctx context.Context, job *core.Job) error {
	return r.backend.WithWriteTx(func(tx *badger.Txn) error {
		key := makeJobKey(job.Id)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		job.UpdatedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// ListJobs retrieves all jobs, most recently created first.
func (r *JobRepository) ListJobs(ctx context.Context) ([]*core.Job, error) {
	var jobs []*core.Job
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				job, uerr := storage.UnmarshalJob(val)
				if uerr != nil {
					return uerr
				}
				jobs = append(jobs, job)
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

	// Key order is UUID order; sort by creation time instead.
	for i := 1; i < len(jobs); i++ {
		for j := i; j > 0 && jobs[j].CreatedAt.After(jobs[j-1].CreatedAt); j-- {
			jobs[j], jobs[j-1] = jobs[j-1], jobs[j]
		}
	}
	return jobs, nil
}

// SaveStageProgress upserts the progress row for (job, stage).
func (r *JobRepository) SaveStageProgress(ctx context.Context, progress *core.StageProgress) error {
	return r.backend.WithWriteTx(func(tx *badger.Txn) error {
		progress.UpdatedAt = time.Now().UTC()
		key := makeJobStageKey(progress.JobId, progress.Stage)
		if err := tx.Set(key, storage.MarshalStageProgress(progress)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// GetStageProgress retrieves the progress row for (job, stage).
func (r *JobRepository) GetStageProgress(ctx context.Context, jobID, stage string) (*core.StageProgress, error) {
	var progress *core.StageProgress
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeJobStageKey(jobID, stage))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var uerr error
			progress, uerr = storage.UnmarshalStageProgress(val)
			return uerr
		})
	}, false)
	return progress, err
}

// ListStageProgress retrieves all progress rows for a job.
func (r *JobRepository) ListStageProgress(ctx context.Context, jobID string) ([]*core.StageProgress, error) {
	var rows []*core.StageProgress
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeJobStagePrefix(jobID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				row, uerr := storage.UnmarshalStageProgress(val)
				if uerr != nil {
					return uerr
				}
				rows = append(rows, row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return rows, err
}
