package quality

import (
	"context"
	"time"

	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

// Outcome is the discriminated result of a persist attempt. Rejections and
// duplicates are normal outcomes, not errors: callers count them without
// failing the surrounding stage.
type Outcome int

const (
	// OutcomePersisted means a new chunk row was inserted.
	OutcomePersisted Outcome = iota + 1
	// OutcomeDuplicate means a chunk with the same normalized-content hash
	// already exists for the document.
	OutcomeDuplicate
	// OutcomeRejected means the chunk failed the quality gate.
	OutcomeRejected
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePersisted:
		return "persisted"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Persister combines the quality gate with deduplicated chunk storage.
// PersistIfNew is safe to call repeatedly with the same input and produces at
// most one persisted row, which is what makes chunking-stage retries
// idempotent.
type Persister struct {
	gate   *Gate
	chunks storage.ChunkRepository
}

// NewPersister creates a Persister over the given gate and chunk repository.
func NewPersister(gate *Gate, chunks storage.ChunkRepository) *Persister {
	return &Persister{gate: gate, chunks: chunks}
}

// PersistIfNew hashes the normalized content, evaluates the quality gate, and
// inserts the chunk only when both checks pass. The chunk ID is derived from
// (document, content hash) so repeated calls map to the same row.
// The returned chunk is non-nil only for OutcomePersisted.
func (p *Persister) PersistIfNew(ctx context.Context, documentID core.ID, content string,
	ordinal, page int, metadata map[string]string) (Outcome, *core.Chunk, error) {

	score, accepted := p.gate.Evaluate(content)
	if !accepted {
		return OutcomeRejected, nil, nil
	}

	hash := Hash(content)
	chunk := &core.Chunk{
		Id:          core.IDFromContent(documentID.String() + ":" + hash),
		DocumentId:  documentID,
		Contents:    content,
		ContentHash: hash,
		Quality:     score,
		Ordinal:     ordinal,
		Page:        page,
		Metadata:    metadata,
		InsertedAt:  time.Now().UTC(),
	}
	chunk.UpdatedAt = chunk.InsertedAt

	if err := core.ValidateChunk(chunk); err != nil {
		return 0, nil, err
	}

	inserted, err := p.chunks.AddChunkIfNew(ctx, chunk)
	if err != nil {
		return 0, nil, err
	}
	if !inserted {
		return OutcomeDuplicate, nil, nil
	}
	return OutcomePersisted, chunk, nil
}
