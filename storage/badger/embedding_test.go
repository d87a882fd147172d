package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

func testVector(kind core.EmbeddingKind, fill float32) []float32 {
	v := make([]float32, kind.Dimension())
	for i := range v {
		v[i] = fill
	}
	return v
}

func TestStoreVectorRejectsBadInput(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Embeddings.StoreVector(ctx, core.EntityTypeChunk, 1, 1, nil,
		core.KindText, []float32{0.1, 0.2}, core.VectorMeta{})
	if !errors.Is(err, storage.ErrDimensionMismatch) {
		t.Fatalf("Expected ErrDimensionMismatch, got %v", err)
	}

	err = store.Embeddings.StoreVector(ctx, core.EntityTypeChunk, 1, 1, nil,
		core.EmbeddingKind(99), testVector(core.KindText, 0.1), core.VectorMeta{})
	if !errors.Is(err, core.ErrInvalidEmbeddingKind) {
		t.Fatalf("Expected ErrInvalidEmbeddingKind, got %v", err)
	}
}

func TestVectorSetAccumulatesKinds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := core.IDFromContent("doc-vectors")
	entityID := core.ID(100)

	err := store.Embeddings.StoreVector(ctx, core.EntityTypeImage, entityID, docID,
		map[string]string{"name": "aalto lounge chair"},
		core.KindColor, testVector(core.KindColor, 0.5),
		core.VectorMeta{Model: "clip-color", Confidence: 0.9})
	if err != nil {
		t.Fatalf("Failed to store color vector: %v", err)
	}

	err = store.Embeddings.StoreVector(ctx, core.EntityTypeImage, entityID, docID, nil,
		core.KindTexture, testVector(core.KindTexture, 0.25),
		core.VectorMeta{Model: "clip-texture", Confidence: 0.8})
	if err != nil {
		t.Fatalf("Failed to store texture vector: %v", err)
	}

	set, err := store.Embeddings.GetVectorSet(ctx, core.EntityTypeImage, entityID)
	if err != nil {
		t.Fatalf("Failed to get vector set: %v", err)
	}
	if !set.Has(core.KindColor) || !set.Has(core.KindTexture) {
		t.Fatalf("Expected both kinds present, got %v", set.Vectors)
	}
	if set.Has(core.KindVisual) {
		t.Fatal("Did not expect a visual vector")
	}
	// A nil attrs argument must not wipe metadata written earlier.
	if set.Metadata["name"] != "aalto lounge chair" {
		t.Fatalf("Expected attributes to survive later stores, got %v", set.Metadata)
	}
	if set.Meta[core.KindColor].Model != "clip-color" {
		t.Fatalf("Expected per-kind meta, got %+v", set.Meta[core.KindColor])
	}
	if set.DocumentId != docID {
		t.Fatalf("Expected document id %d, got %d", docID, set.DocumentId)
	}

	// Regenerating a kind replaces the previous vector and its meta.
	err = store.Embeddings.StoreVector(ctx, core.EntityTypeImage, entityID, docID, nil,
		core.KindColor, testVector(core.KindColor, 0.75),
		core.VectorMeta{Model: "clip-color-v2", Confidence: 0.95})
	if err != nil {
		t.Fatalf("Failed to regenerate color vector: %v", err)
	}
	set, err = store.Embeddings.GetVectorSet(ctx, core.EntityTypeImage, entityID)
	if err != nil {
		t.Fatalf("Failed to get vector set: %v", err)
	}
	v, _ := set.Vector(core.KindColor)
	if v[0] != 0.75 {
		t.Fatalf("Expected regenerated vector, got %f", v[0])
	}
	if set.Meta[core.KindColor].Model != "clip-color-v2" {
		t.Fatalf("Expected regenerated meta, got %+v", set.Meta[core.KindColor])
	}
}

func TestEntityTypeScopesVectorSets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// The same numeric ID under different entity types is two records.
	err := store.Embeddings.StoreVector(ctx, core.EntityTypeChunk, 7, 1, nil,
		core.KindText, testVector(core.KindText, 0.1), core.VectorMeta{})
	if err != nil {
		t.Fatalf("Failed to store chunk vector: %v", err)
	}

	if _, err := store.Embeddings.GetVectorSet(ctx, core.EntityTypeProduct, 7); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for other entity type, got %v", err)
	}
}

func TestDeleteVector(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entityID := core.ID(200)

	for _, kind := range []core.EmbeddingKind{core.KindText, core.KindFusion} {
		err := store.Embeddings.StoreVector(ctx, core.EntityTypeProduct, entityID, 1, nil,
			kind, testVector(kind, 0.3), core.VectorMeta{})
		if err != nil {
			t.Fatalf("Failed to store %s vector: %v", kind, err)
		}
	}

	if err := store.Embeddings.DeleteVector(ctx, core.EntityTypeProduct, entityID, core.KindFusion); err != nil {
		t.Fatalf("Failed to delete fusion vector: %v", err)
	}

	set, err := store.Embeddings.GetVectorSet(ctx, core.EntityTypeProduct, entityID)
	if err != nil {
		t.Fatalf("Failed to get vector set: %v", err)
	}
	if set.Has(core.KindFusion) {
		t.Fatal("Expected fusion vector to be gone")
	}
	if !set.Has(core.KindText) {
		t.Fatal("Expected text vector to survive")
	}

	// Deleting a kind that was never stored is not an error.
	if err := store.Embeddings.DeleteVector(ctx, core.EntityTypeProduct, entityID, core.KindColor); err != nil {
		t.Fatalf("Unexpected error deleting absent kind: %v", err)
	}

	// Removing the last kind drops the record.
	if err := store.Embeddings.DeleteVector(ctx, core.EntityTypeProduct, entityID, core.KindText); err != nil {
		t.Fatalf("Failed to delete last vector: %v", err)
	}
	if _, err := store.Embeddings.GetVectorSet(ctx, core.EntityTypeProduct, entityID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after last delete, got %v", err)
	}

	// Deleting from an entity with no record is not an error either.
	if err := store.Embeddings.DeleteVector(ctx, core.EntityTypeProduct, core.ID(999), core.KindText); err != nil {
		t.Fatalf("Unexpected error deleting from absent entity: %v", err)
	}
}

func TestIterateVectorSets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := core.ID(1); i <= 3; i++ {
		err := store.Embeddings.StoreVector(ctx, core.EntityTypeChunk, i, 1, nil,
			core.KindText, testVector(core.KindText, float32(i)), core.VectorMeta{})
		if err != nil {
			t.Fatalf("Failed to store vector %d: %v", i, err)
		}
	}

	seen := map[core.ID]bool{}
	err := store.Embeddings.IterateVectorSets(ctx, func(set *core.VectorSet) error {
		seen[set.EntityId] = true
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to iterate: %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("Expected 3 sets, got %d", len(seen))
	}

	sentinel := errors.New("stop here")
	count := 0
	err = store.Embeddings.IterateVectorSets(ctx, func(set *core.VectorSet) error {
		count++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Expected callback error to propagate, got %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected iteration to stop at first error, got %d calls", count)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = store.Embeddings.IterateVectorSets(cancelled, func(set *core.VectorSet) error {
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}
