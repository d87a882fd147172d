package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs, which is what makes
// re-running an ingestion stage safe: the same input always maps to the same entity.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// JobStatus describes the lifecycle state of an ingestion job.
type JobStatus int

const (
	// JobStatusPending means the job has been submitted but not started.
	JobStatusPending JobStatus = iota + 1
	// JobStatusRunning means the job is executing its stage sequence.
	JobStatusRunning
	// JobStatusCompleted means every stage finished successfully.
	JobStatusCompleted
	// JobStatusFailed means a stage exhausted its retries. The job is resumable.
	JobStatusFailed
)

// String returns the lowercase name of the status.
func (s JobStatus) String() string {
	switch s {
	case JobStatusPending:
		return "pending"
	case JobStatusRunning:
		return "running"
	case JobStatusCompleted:
		return "completed"
	case JobStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job represents one document's pipeline run.
//
// Checkpoint holds the name of the last stage whose output is durably persisted.
// It only ever advances forward through the fixed stage list; on failure it is
// left untouched so a resume re-attempts exactly the failed stage.
type Job struct {
	Id           string // UUID assigned at submission
	DocumentRef  string // Caller-supplied document reference (path, URL)
	DocumentId   ID     // Content-based ID derived from DocumentRef
	Status       JobStatus
	Progress     float64 // Overall progress percent [0,100]
	CurrentStage string  // Stage currently executing, empty when idle
	Checkpoint   string  // Last completed stage name, empty if none
	TotalStages  int
	FailedStage  string            // Stage that caused the last failure, empty otherwise
	Error        string            // Human-readable error summary, empty otherwise
	Result       map[string]string // Opaque result payload built up by stages
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  time.Time // Zero until the job reaches a terminal state
}

// Terminal reports whether the job is in a terminal state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// StageProgress tracks per-stage completion for a job.
// There is exactly one row per (job, stage) pair; percent never decreases
// within a single run.
type StageProgress struct {
	JobId      string
	Stage      string
	Percent    float64
	ItemsTotal int
	ItemsDone  int
	Metadata   map[string]string // Free-form counters (chunks persisted, rejected, ...)
	UpdatedAt  time.Time
}

// Chunk is a unit of extracted catalog text.
//
// (DocumentId, ContentHash) is unique: the storage layer refuses to persist a
// second chunk with the same normalized-content hash for the same document.
// Quality is gated before insertion, never after.
type Chunk struct {
	Id          ID
	DocumentId  ID
	Contents    string
	ContentHash string  // Hex digest of the normalized contents
	Quality     float32 // Quality gate score in [0,1]
	Ordinal     int     // Position within the document's chunk sequence
	Page        int     // Source page, 1-based
	Metadata    map[string]string
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// ImageAnalysis holds the result of vision analysis for a catalog image.
type ImageAnalysis struct {
	Materials    []string
	Colors       []string
	Textures     []string
	OCRText      string
	QualityScore float32
	Confidence   float32 // Provider confidence in the analysis as a whole
	Model        string
	AnalyzedAt   time.Time
}

// CatalogImage is an image extracted from a catalog page.
// Analysis is nil until the image-analysis stage has run.
type CatalogImage struct {
	Id         ID
	DocumentId ID
	Page       int
	Caption    string
	Data       []byte
	Analysis   *ImageAnalysis
	Metadata   map[string]string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Product is a catalog product detected from chunk content.
type Product struct {
	Id          ID
	DocumentId  ID
	Name        string
	Description string
	Category    string
	Page        int
	ImageIds    []ID // Images linked by the entity-linking stage
	Metadata    map[string]string
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Key returns the string used for generating the product's deterministic ID.
func (p *Product) Key() string {
	return "(" + p.DocumentId.String() + "," + p.Name + ")"
}

// String formats the ID as a decimal string.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// PageText is the intermediate extracted text of one catalog page.
// Page texts exist between the focused-extraction and cleanup stages only.
type PageText struct {
	DocumentId ID
	Page       int
	Contents   string
	InsertedAt time.Time
}

// EntityType identifies which kind of entity owns a vector set or queue item.
type EntityType int

const (
	// EntityTypeChunk is a text chunk.
	EntityTypeChunk EntityType = iota + 1
	// EntityTypeImage is a catalog image.
	EntityTypeImage
	// EntityTypeProduct is a detected product.
	EntityTypeProduct
)

// String returns the lowercase name of the entity type.
func (t EntityType) String() string {
	switch t {
	case EntityTypeChunk:
		return "chunk"
	case EntityTypeImage:
		return "image"
	case EntityTypeProduct:
		return "product"
	default:
		return "unknown"
	}
}

// ValidationStatus describes the lifecycle state of a deferred validation item.
type ValidationStatus int

const (
	// ValidationPending means the item is waiting to be claimed by a worker.
	ValidationPending ValidationStatus = iota + 1
	// ValidationProcessing means a worker has claimed the item.
	ValidationProcessing
	// ValidationCompleted means the authoritative re-analysis succeeded.
	ValidationCompleted
	// ValidationFailed means the retry limit was exhausted. Terminal.
	ValidationFailed
)

// String returns the lowercase name of the status.
func (s ValidationStatus) String() string {
	switch s {
	case ValidationPending:
		return "pending"
	case ValidationProcessing:
		return "processing"
	case ValidationCompleted:
		return "completed"
	case ValidationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outstanding reports whether the item still occupies its entity's queue slot.
// An entity can have at most one outstanding item at a time.
func (s ValidationStatus) Outstanding() bool {
	return s == ValidationPending || s == ValidationProcessing
}

// ValidationItem is a deferred re-analysis request for a low-confidence artifact.
type ValidationItem struct {
	Id          ID
	DocumentId  ID
	EntityId    ID
	EntityType  EntityType
	Reason      string
	Priority    int // Higher values are claimed first
	Status      ValidationStatus
	RetryCount  int
	Metadata    map[string]string
	InsertedAt  time.Time
	UpdatedAt   time.Time
	CompletedAt time.Time // Zero until the item reaches a terminal state
}
