package badger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/quality"
	"github.com/poiesic/folio/storage"
)

func testChunk(docID core.ID, contents string, ordinal int) *core.Chunk {
	hash := quality.Hash(contents)
	return &core.Chunk{
		Id:          core.IDFromContent(docID.String() + ":" + hash),
		DocumentId:  docID,
		Contents:    contents,
		ContentHash: hash,
		Quality:     0.8,
		Ordinal:     ordinal,
		Page:        1,
	}
}

func TestAddChunkIfNewDedup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-a")

	chunk := testChunk(docID, "The Aalto lounge chair is made of steam-bent oak.", 0)
	inserted, err := store.Chunks.AddChunkIfNew(ctx, chunk)
	if err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}
	if !inserted {
		t.Fatal("Expected first insert to report true")
	}

	dup := testChunk(docID, "The Aalto lounge chair is made of steam-bent oak.", 5)
	inserted, err = store.Chunks.AddChunkIfNew(ctx, dup)
	if err != nil {
		t.Fatalf("Failed on duplicate add: %v", err)
	}
	if inserted {
		t.Fatal("Expected duplicate insert to report false")
	}

	// Same content in a different document is not a duplicate.
	otherDoc := testChunk(core.IDFromContent("doc-b"), "The Aalto lounge chair is made of steam-bent oak.", 0)
	inserted, err = store.Chunks.AddChunkIfNew(ctx, otherDoc)
	if err != nil {
		t.Fatalf("Failed to add chunk to second document: %v", err)
	}
	if !inserted {
		t.Fatal("Expected insert into second document to report true")
	}

	got, err := store.Chunks.GetChunk(ctx, chunk.Id)
	if err != nil {
		t.Fatalf("Failed to get chunk: %v", err)
	}
	if got.Contents != chunk.Contents {
		t.Fatalf("Expected contents to round-trip, got %q", got.Contents)
	}

	if _, err := store.Chunks.GetChunk(ctx, core.ID(42)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown chunk, got %v", err)
	}
}

func TestAddChunkIfNewValidates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Chunks.AddChunkIfNew(ctx, &core.Chunk{DocumentId: 1, ContentHash: "abc"})
	if !errors.Is(err, core.ErrInvalidChunk) {
		t.Fatalf("Expected ErrInvalidChunk for empty contents, got %v", err)
	}
}

func TestGetChunksByDocumentOrdinalOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-ordinals")

	for i, contents := range []string{"third chunk body", "first chunk body", "second chunk body"} {
		ordinal := []int{2, 0, 1}[i]
		if _, err := store.Chunks.AddChunkIfNew(ctx, testChunk(docID, contents, ordinal)); err != nil {
			t.Fatalf("Failed to add chunk %d: %v", i, err)
		}
	}

	chunks, err := store.Chunks.GetChunksByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Ordinal != i {
			t.Fatalf("Expected ordinal %d at position %d, got %d", i, i, chunk.Ordinal)
		}
	}
}

func TestUpdateChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-update")

	chunk := testChunk(docID, "Upholstered in natural wool with walnut legs.", 0)
	if _, err := store.Chunks.AddChunkIfNew(ctx, chunk); err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}

	chunk.Metadata = map[string]string{"chunk_type": "product_description"}
	if _, err := store.Chunks.UpdateChunks(ctx, chunk); err != nil {
		t.Fatalf("Failed to update chunk: %v", err)
	}

	got, err := store.Chunks.GetChunk(ctx, chunk.Id)
	if err != nil {
		t.Fatalf("Failed to get chunk: %v", err)
	}
	if got.Metadata["chunk_type"] != "product_description" {
		t.Fatalf("Expected metadata to persist, got %v", got.Metadata)
	}

	phantom := testChunk(docID, "never inserted content", 9)
	if _, err := store.Chunks.UpdateChunks(ctx, phantom); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown chunk, got %v", err)
	}
}

func TestDeleteChunksByDocumentFreesHashes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-delete")

	chunk := testChunk(docID, "A chunk that will be deleted and re-added.", 0)
	if _, err := store.Chunks.AddChunkIfNew(ctx, chunk); err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}

	if err := store.Chunks.DeleteChunksByDocument(ctx, docID); err != nil {
		t.Fatalf("Failed to delete chunks: %v", err)
	}

	chunks, err := store.Chunks.GetChunksByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to get chunks after delete: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("Expected no chunks after delete, got %d", len(chunks))
	}

	// Deleting must free the hash index too, otherwise re-ingestion stalls.
	inserted, err := store.Chunks.AddChunkIfNew(ctx, testChunk(docID, "A chunk that will be deleted and re-added.", 0))
	if err != nil {
		t.Fatalf("Failed to re-add chunk: %v", err)
	}
	if !inserted {
		t.Fatal("Expected re-add after delete to report true")
	}
}

func TestConcurrentChunkInsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-race")

	const writers = 8
	results := make([]bool, writers)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			chunk := testChunk(docID, "Contested chunk content for concurrent insertion.", 0)
			results[i], errs[i] = store.Chunks.AddChunkIfNew(ctx, chunk)
		}(i)
	}
	wg.Wait()

	inserted := 0
	for i := 0; i < writers; i++ {
		if errs[i] != nil {
			t.Fatalf("Writer %d failed: %v", i, errs[i])
		}
		if results[i] {
			inserted++
		}
	}
	if inserted != 1 {
		t.Fatalf("Expected exactly 1 winning insert, got %d", inserted)
	}

	chunks, err := store.Chunks.GetChunksByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 stored chunk, got %d", len(chunks))
	}
}
