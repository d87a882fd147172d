package validation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/folio/ai"
	"github.com/poiesic/folio/ai/mock"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage/badger"
)

type workerFixture struct {
	store    *badger.Store
	analyzer *mock.MockVisionAnalyzer
	worker   *Worker
	docID    core.ID
}

func newWorkerFixture(t *testing.T, opts ...Option) *workerFixture {
	t.Helper()

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	analyzer := mock.NewMockVisionAnalyzer()
	worker, err := NewWorker(store.Validation, store.Catalog, analyzer, opts...)
	require.NoError(t, err)
	t.Cleanup(worker.Release)

	return &workerFixture{
		store:    store,
		analyzer: analyzer,
		worker:   worker,
		docID:    core.IDFromContent("test-catalog"),
	}
}

// addShakyImage stores an image whose analysis was low-confidence and
// enqueues the matching validation item, mirroring what the ingestion
// pipeline's validation-submission stage produces.
func (f *workerFixture) addShakyImage(t *testing.T, data []byte, confidence float32) *core.CatalogImage {
	t.Helper()
	ctx := context.Background()

	image := &core.CatalogImage{
		Id:         core.IDFromContent(string(data)),
		DocumentId: f.docID,
		Page:       1,
		Data:       data,
		Analysis: &core.ImageAnalysis{
			Materials:  []string{"walnut"},
			Confidence: confidence,
			Model:      "mock-vision",
		},
	}
	inserted, err := f.store.Catalog.AddImageIfNew(ctx, image)
	require.NoError(t, err)
	require.True(t, inserted)

	_, err = f.store.Validation.Enqueue(ctx, &core.ValidationItem{
		DocumentId: f.docID,
		EntityId:   image.Id,
		EntityType: core.EntityTypeImage,
		Reason:     "low-confidence image analysis",
		Priority:   int((0.7 - confidence) * 100),
		Status:     core.ValidationPending,
	})
	require.NoError(t, err)
	return image
}

func TestNewWorkerRequiresCollaborators(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	analyzer := mock.NewMockVisionAnalyzer()

	_, err = NewWorker(nil, store.Catalog, analyzer)
	assert.ErrorIs(t, err, ErrQueueRequired)

	_, err = NewWorker(store.Validation, nil, analyzer)
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewWorker(store.Validation, store.Catalog, nil)
	assert.ErrorIs(t, err, ErrAnalyzerRequired)
}

func TestProcessOneEmptyQueue(t *testing.T) {
	f := newWorkerFixture(t)

	claimed, err := f.worker.ProcessOne(context.Background())
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestProcessOneAdoptsBetterAnalysis(t *testing.T) {
	f := newWorkerFixture(t)
	ctx := context.Background()

	// Even first byte makes the mock answer with 0.9 confidence, above the
	// stored 0.5, so the re-analysis should replace the original.
	image := f.addShakyImage(t, []byte{2, 10, 20}, 0.5)

	claimed, err := f.worker.ProcessOne(ctx)
	require.NoError(t, err)
	require.True(t, claimed)
	assert.Equal(t, 1, f.analyzer.CallCount())

	updated, err := f.store.Catalog.GetImage(ctx, image.Id)
	require.NoError(t, err)
	require.NotNil(t, updated.Analysis)
	assert.InDelta(t, 0.9, updated.Analysis.Confidence, 1e-6)
	assert.Equal(t, []string{"oak", "steel"}, updated.Analysis.Materials)
	assert.False(t, updated.Analysis.AnalyzedAt.IsZero())

	items, err := f.store.Validation.ListByDocument(ctx, f.docID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, core.ValidationCompleted, items[0].Status)
	assert.Equal(t, "true", items[0].Metadata["adopted"])
	assert.Equal(t, "0.90", items[0].Metadata["confidence"])
}

func TestProcessOneKeepsBetterOriginal(t *testing.T) {
	f := newWorkerFixture(t)
	ctx := context.Background()

	// Odd first byte makes the mock answer with 0.5 confidence. The stored
	// analysis is stronger, so it must be kept; the item still completes.
	image := f.addShakyImage(t, []byte{1, 10, 20}, 0.65)

	claimed, err := f.worker.ProcessOne(ctx)
	require.NoError(t, err)
	require.True(t, claimed)

	kept, err := f.store.Catalog.GetImage(ctx, image.Id)
	require.NoError(t, err)
	assert.InDelta(t, 0.65, kept.Analysis.Confidence, 1e-6)

	items, err := f.store.Validation.ListByDocument(ctx, f.docID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, core.ValidationCompleted, items[0].Status)
	assert.Equal(t, "false", items[0].Metadata["adopted"])
}

func TestProcessOneReleasesOnFailure(t *testing.T) {
	f := newWorkerFixture(t, WithRetryLimit(2))
	ctx := context.Background()

	f.addShakyImage(t, []byte{2, 30}, 0.4)
	f.analyzer.AnalyzeImageFunc = func(ctx context.Context, image []byte, caption string) (*ai.VisionResult, error) {
		return nil, ai.ErrProviderUnavailable
	}

	claimed, err := f.worker.ProcessOne(ctx)
	assert.True(t, claimed)
	require.ErrorIs(t, err, ai.ErrProviderUnavailable)

	items, err := f.store.Validation.ListByDocument(ctx, f.docID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, core.ValidationPending, items[0].Status)
	assert.Equal(t, 1, items[0].RetryCount)

	// The second failure reaches the retry limit and the item goes terminal.
	claimed, err = f.worker.ProcessOne(ctx)
	assert.True(t, claimed)
	require.ErrorIs(t, err, ai.ErrProviderUnavailable)

	items, err = f.store.Validation.ListByDocument(ctx, f.docID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, core.ValidationFailed, items[0].Status)

	claimed, err = f.worker.ProcessOne(ctx)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestProcessOneSkipsDeletedImage(t *testing.T) {
	f := newWorkerFixture(t)
	ctx := context.Background()

	// Enqueue an item whose image was never stored.
	_, err := f.store.Validation.Enqueue(ctx, &core.ValidationItem{
		DocumentId: f.docID,
		EntityId:   core.ID(777),
		EntityType: core.EntityTypeImage,
		Reason:     "low-confidence image analysis",
		Status:     core.ValidationPending,
	})
	require.NoError(t, err)

	claimed, err := f.worker.ProcessOne(ctx)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 0, f.analyzer.CallCount())

	items, err := f.store.Validation.ListByDocument(ctx, f.docID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, core.ValidationCompleted, items[0].Status)
	assert.Contains(t, items[0].Metadata["skipped"], "no longer exists")
}

func TestProcessOneCompletesUnhandledEntityType(t *testing.T) {
	f := newWorkerFixture(t)
	ctx := context.Background()

	_, err := f.store.Validation.Enqueue(ctx, &core.ValidationItem{
		DocumentId: f.docID,
		EntityId:   core.ID(5),
		EntityType: core.EntityTypeChunk,
		Reason:     "manual review",
		Status:     core.ValidationPending,
	})
	require.NoError(t, err)

	claimed, err := f.worker.ProcessOne(ctx)
	require.NoError(t, err)
	assert.True(t, claimed)

	items, err := f.store.Validation.ListByDocument(ctx, f.docID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, core.ValidationCompleted, items[0].Status)
	assert.Contains(t, items[0].Metadata["skipped"], "chunk")
}

func TestDrainProcessesWholeQueue(t *testing.T) {
	f := newWorkerFixture(t, WithWorkers(4))
	ctx := context.Background()

	for i := byte(0); i < 6; i++ {
		f.addShakyImage(t, []byte{2, i, 100}, 0.4)
	}

	processed, err := f.worker.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, processed)

	pending, err := f.store.Validation.CountByStatus(ctx, core.ValidationPending)
	require.NoError(t, err)
	assert.Zero(t, pending)

	completed, err := f.store.Validation.CountByStatus(ctx, core.ValidationCompleted)
	require.NoError(t, err)
	assert.Equal(t, 6, completed)

	// A second drain finds nothing to do.
	processed, err = f.worker.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, processed)
}

func TestDrainCountsFailuresSeparately(t *testing.T) {
	f := newWorkerFixture(t, WithWorkers(2), WithRetryLimit(1))
	ctx := context.Background()

	f.addShakyImage(t, []byte{2, 1, 100}, 0.4)
	f.addShakyImage(t, []byte{2, 2, 100}, 0.4)
	f.addShakyImage(t, []byte{2, 3, 200}, 0.4)

	// The marked image trips the provider every time; the rest analyze fine.
	f.analyzer.AnalyzeImageFunc = func(ctx context.Context, image []byte, caption string) (*ai.VisionResult, error) {
		if image[2] == 200 {
			return nil, ai.ErrProviderUnavailable
		}
		return &ai.VisionResult{
			Materials:  []string{"oak"},
			Confidence: 0.9,
			Model:      "mock-vision",
		}, nil
	}

	processed, err := f.worker.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, processed, "failed items must not count as processed")

	completed, err := f.store.Validation.CountByStatus(ctx, core.ValidationCompleted)
	require.NoError(t, err)
	assert.Equal(t, 2, completed)

	failed, err := f.store.Validation.CountByStatus(ctx, core.ValidationFailed)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	pending, err := f.store.Validation.CountByStatus(ctx, core.ValidationPending)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	f := newWorkerFixture(t, WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.worker.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
