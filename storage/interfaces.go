package storage

import (
	"context"

	"github.com/poiesic/folio/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// JobRepository provides operations for managing jobs and their stage progress.
type JobRepository interface {
	Repository

	// CreateJob persists a new job. Returns ErrDuplicateKey if the job ID exists.
	CreateJob(ctx context.Context, job *core.Job) error

	// GetJob retrieves a job by ID. Returns ErrNotFound if it doesn't exist.
	GetJob(ctx context.Context, id string) (*core.Job, error)

	// UpdateJob overwrites an existing job, updating UpdatedAt automatically.
	// Returns ErrNotFound if the job doesn't exist.
	UpdateJob(ctx context.Context, job *core.Job) error

	// ListJobs retrieves all jobs, most recently created first.
	ListJobs(ctx context.Context) ([]*core.Job, error)

	// SaveStageProgress upserts the progress row for (job, stage).
	// The row is unique per pair; percent is expected to be monotonically
	// non-decreasing within a run, which callers enforce.
	SaveStageProgress(ctx context.Context, progress *core.StageProgress) error

	// GetStageProgress retrieves the progress row for (job, stage).
	// Returns ErrNotFound if the stage has not started.
	GetStageProgress(ctx context.Context, jobID, stage string) (*core.StageProgress, error)

	// ListStageProgress retrieves all progress rows for a job in stage order
	// of insertion.
	ListStageProgress(ctx context.Context, jobID string) ([]*core.StageProgress, error)
}

// ChunkRepository provides operations for managing text chunks.
type ChunkRepository interface {
	Repository

	// AddChunkIfNew inserts the chunk unless a chunk with the same
	// (DocumentId, ContentHash) already exists for the document.
	// The uniqueness check and the insert are a single atomic operation;
	// concurrent attempts race safely and exactly one wins.
	// Returns true if the chunk was inserted, false if it was a duplicate.
	AddChunkIfNew(ctx context.Context, chunk *core.Chunk) (bool, error)

	// GetChunk retrieves a chunk by ID. Returns ErrNotFound if missing.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunksByDocument retrieves all chunks of a document in ordinal order.
	GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error)

	// UpdateChunks updates existing chunks. Only metadata enrichment is
	// expected after insert; contents and hash never change.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// DeleteChunksByDocument removes all chunks of a document and their
	// hash index entries.
	DeleteChunksByDocument(ctx context.Context, documentID core.ID) error
}

// CatalogRepository provides operations for page texts, images and products.
type CatalogRepository interface {
	Repository

	// SavePageText upserts the extracted text of one page. Idempotent.
	SavePageText(ctx context.Context, page *core.PageText) error

	// GetPageTexts retrieves all page texts of a document in page order.
	GetPageTexts(ctx context.Context, documentID core.ID) ([]*core.PageText, error)

	// DeletePageTexts removes all page texts of a document.
	// Called by the cleanup stage once chunking is durable.
	DeletePageTexts(ctx context.Context, documentID core.ID) error

	// AddImageIfNew inserts the image unless one with the same content-based
	// ID already exists. Returns true if inserted.
	AddImageIfNew(ctx context.Context, image *core.CatalogImage) (bool, error)

	// GetImage retrieves an image by ID. Returns ErrNotFound if missing.
	GetImage(ctx context.Context, id core.ID) (*core.CatalogImage, error)

	// GetImagesByDocument retrieves all images of a document in page order.
	GetImagesByDocument(ctx context.Context, documentID core.ID) ([]*core.CatalogImage, error)

	// UpdateImages updates existing images (analysis results, metadata).
	// Returns ErrNotFound if any image doesn't exist.
	UpdateImages(ctx context.Context, images ...*core.CatalogImage) ([]*core.CatalogImage, error)

	// AddProductIfNew inserts the product unless one with the same
	// (DocumentId, Name) already exists. Returns true if inserted.
	AddProductIfNew(ctx context.Context, product *core.Product) (bool, error)

	// GetProduct retrieves a product by ID. Returns ErrNotFound if missing.
	GetProduct(ctx context.Context, id core.ID) (*core.Product, error)

	// GetProductsByDocument retrieves all products of a document.
	GetProductsByDocument(ctx context.Context, documentID core.ID) ([]*core.Product, error)

	// UpdateProducts updates existing products (links, metadata).
	// Returns ErrNotFound if any product doesn't exist.
	UpdateProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error)
}

// EmbeddingRepository persists per-entity vector sets.
type EmbeddingRepository interface {
	Repository

	// StoreVector upserts one named vector of an entity's set, replacing any
	// existing vector of the same kind together with its metadata in a single
	// transaction: readers never observe a half-written vector.
	// Returns ErrDimensionMismatch if len(vector) differs from the kind's
	// declared dimensionality; nothing is written in that case.
	// Attributes (documentID, entity metadata) are recorded on first store
	// and refreshed on subsequent stores.
	StoreVector(ctx context.Context, entityType core.EntityType, entityID core.ID,
		documentID core.ID, attrs map[string]string,
		kind core.EmbeddingKind, vector []float32, meta core.VectorMeta) error

	// DeleteVector removes one named vector from an entity's set.
	// Removing a vector an entity doesn't own is a no-op.
	DeleteVector(ctx context.Context, entityType core.EntityType, entityID core.ID,
		kind core.EmbeddingKind) error

	// GetVectorSet retrieves the full vector set of an entity.
	// Returns ErrNotFound if the entity owns no vectors at all.
	GetVectorSet(ctx context.Context, entityType core.EntityType, entityID core.ID) (*core.VectorSet, error)

	// IterateVectorSets calls fn for every stored vector set. Iteration stops
	// if fn returns an error, which is propagated to the caller.
	IterateVectorSets(ctx context.Context, fn func(*core.VectorSet) error) error
}

// ValidationRepository persists the deferred validation queue.
type ValidationRepository interface {
	Repository

	// Enqueue inserts a pending item for the entity. If the entity already
	// has an outstanding (pending or processing) item, the call is a no-op
	// and returns false. The existence check and insert are atomic.
	Enqueue(ctx context.Context, item *core.ValidationItem) (bool, error)

	// ClaimNext atomically claims the highest-priority pending item,
	// transitioning it to processing so no two workers claim the same item.
	// Returns ErrNotFound when the queue has no pending items.
	ClaimNext(ctx context.Context) (*core.ValidationItem, error)

	// Complete marks a processing item completed and merges result metadata.
	Complete(ctx context.Context, id core.ID, result map[string]string) error

	// Release returns a failed processing item to the queue, incrementing its
	// retry count. Once the count reaches retryLimit the item is marked
	// permanently failed instead. Returns the resulting status.
	Release(ctx context.Context, id core.ID, reason string, retryLimit int) (core.ValidationStatus, error)

	// GetItem retrieves an item by ID. Returns ErrNotFound if missing.
	GetItem(ctx context.Context, id core.ID) (*core.ValidationItem, error)

	// ListByDocument retrieves all items for a document.
	ListByDocument(ctx context.Context, documentID core.ID) ([]*core.ValidationItem, error)

	// CountByStatus counts queue items in the given status.
	CountByStatus(ctx context.Context, status core.ValidationStatus) (int, error)
}
