package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/folio/ai"
	"github.com/poiesic/folio/ai/mock"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage/badger"
)

func newServiceFixture(t *testing.T) (*Service, *mock.MockProvider, *badger.Store) {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	provider := mock.NewMockProvider().(*mock.MockProvider)
	return NewService(provider, store.Embeddings), provider, store
}

func TestEmbedChunkStoresTextVector(t *testing.T) {
	svc, _, store := newServiceFixture(t)
	ctx := context.Background()

	chunk := &core.Chunk{
		Id:         core.ID(1),
		DocumentId: core.ID(10),
		Contents:   "Steam-bent oak frame with wool upholstery.",
		Metadata:   map[string]string{"chunk_type": "product_description"},
	}
	require.NoError(t, svc.EmbedChunk(ctx, chunk))

	set, err := store.Embeddings.GetVectorSet(ctx, core.EntityTypeChunk, chunk.Id)
	require.NoError(t, err)
	assert.True(t, set.Has(core.KindText))
	assert.False(t, set.Has(core.KindVisual))
	assert.False(t, set.Has(core.KindFusion), "no fusion without a visual vector")

	v, _ := set.Vector(core.KindText)
	assert.Len(t, v, core.KindText.Dimension())
	assert.Equal(t, chunk.DocumentId, set.DocumentId)
	assert.Equal(t, "product_description", set.Metadata["chunk_type"])
	assert.InDelta(t, 1.0, set.Meta[core.KindText].Confidence, 1e-6)
	assert.False(t, set.Meta[core.KindText].GeneratedAt.IsZero())
}

func TestEmbedProductTextJoinsNameAndDescription(t *testing.T) {
	svc, provider, store := newServiceFixture(t)
	ctx := context.Background()

	var embedded string
	provider.GetMockTextEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		embedded = text
		return make([]float32, core.KindText.Dimension()), nil
	}

	product := &core.Product{
		Id:          core.ID(2),
		DocumentId:  core.ID(10),
		Name:        "Aalto Lounge Chair",
		Description: "Steam-bent oak frame.",
	}
	require.NoError(t, svc.EmbedProductText(ctx, product))
	assert.Equal(t, "Aalto Lounge Chair. Steam-bent oak frame.", embedded)

	set, err := store.Embeddings.GetVectorSet(ctx, core.EntityTypeProduct, product.Id)
	require.NoError(t, err)
	assert.True(t, set.Has(core.KindText))

	// Without a description, only the name is embedded.
	bare := &core.Product{Id: core.ID(3), DocumentId: core.ID(10), Name: "Fjord Table"}
	require.NoError(t, svc.EmbedProductText(ctx, bare))
	assert.Equal(t, "Fjord Table", embedded)
}

func TestEmbedImageStoresVisualKinds(t *testing.T) {
	svc, _, store := newServiceFixture(t)
	ctx := context.Background()

	image := &core.CatalogImage{
		Id:         core.ID(4),
		DocumentId: core.ID(10),
		Data:       []byte{2, 20, 30},
		Analysis:   &core.ImageAnalysis{Confidence: 0.85},
	}
	require.NoError(t, svc.EmbedImage(ctx, image))

	set, err := store.Embeddings.GetVectorSet(ctx, core.EntityTypeImage, image.Id)
	require.NoError(t, err)
	for _, kind := range []core.EmbeddingKind{core.KindVisual, core.KindColor, core.KindTexture, core.KindApplication} {
		assert.True(t, set.Has(kind), "expected %s vector", kind)
		v, _ := set.Vector(kind)
		assert.Len(t, v, kind.Dimension())
		assert.InDelta(t, 0.85, set.Meta[kind].Confidence, 1e-6)
	}
	assert.False(t, set.Has(core.KindText))
	assert.False(t, set.Has(core.KindFusion))
}

func TestFusionRefreshesWhenBothInputsExist(t *testing.T) {
	svc, _, store := newServiceFixture(t)
	ctx := context.Background()
	entityID := core.ID(5)

	// Store a text vector under the image entity, as a product that shares
	// chunk copy would. Then embedding the image should produce fusion.
	require.NoError(t, store.Embeddings.StoreVector(ctx, core.EntityTypeImage, entityID, core.ID(10), nil,
		core.KindText, make([]float32, core.KindText.Dimension()),
		core.VectorMeta{Confidence: 1.0}))

	image := &core.CatalogImage{
		Id:         entityID,
		DocumentId: core.ID(10),
		Data:       []byte{2, 1, 2},
		Analysis:   &core.ImageAnalysis{Confidence: 0.7},
	}
	require.NoError(t, svc.EmbedImage(ctx, image))

	set, err := store.Embeddings.GetVectorSet(ctx, core.EntityTypeImage, entityID)
	require.NoError(t, err)
	require.True(t, set.Has(core.KindFusion))

	fused, _ := set.Vector(core.KindFusion)
	assert.Len(t, fused, core.KindFusion.Dimension())
	// Fusion inherits the weaker input's confidence.
	assert.InDelta(t, 0.7, set.Meta[core.KindFusion].Confidence, 1e-6)
}

func TestFuseConcatenatesTextThenVisual(t *testing.T) {
	fused := Fuse([]float32{1, 2}, []float32{3})
	assert.Equal(t, []float32{1, 2, 3}, fused)
}

func TestQueryEmbeddingsDoNotStore(t *testing.T) {
	svc, _, store := newServiceFixture(t)
	ctx := context.Background()

	text, err := svc.EmbedQueryText(ctx, "oak lounge chair")
	require.NoError(t, err)
	assert.Len(t, text, core.KindText.Dimension())

	visual, err := svc.EmbedQueryImage(ctx, []byte{9, 9})
	require.NoError(t, err)
	assert.Len(t, visual, core.KindVisual.Dimension())

	count := 0
	require.NoError(t, store.Embeddings.IterateVectorSets(ctx, func(set *core.VectorSet) error {
		count++
		return nil
	}))
	assert.Zero(t, count)
}

func TestEmbedChunkPropagatesProviderError(t *testing.T) {
	svc, provider, _ := newServiceFixture(t)
	ctx := context.Background()

	provider.GetMockTextEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, ai.ErrRateLimited
	}

	err := svc.EmbedChunk(ctx, &core.Chunk{Id: 1, DocumentId: 1, Contents: "x"})
	assert.ErrorIs(t, err, ai.ErrRateLimited)
}
