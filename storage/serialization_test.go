package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/folio/core"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("catalogs/varberg.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalJob(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	job := &core.Job{
		Id:           "d3b2c1a0-1111-2222-3333-444455556666",
		DocumentRef:  "catalogs/varberg.pdf",
		DocumentId:   core.IDFromContent("catalogs/varberg.pdf"),
		Status:       core.JobStatusFailed,
		Progress:     63.63,
		CurrentStage: "image-analysis",
		Checkpoint:   "image-extraction",
		TotalStages:  11,
		FailedStage:  "image-analysis",
		Error:        "stage image-analysis: provider unavailable",
		Result:       map[string]string{"pages": "48", "collection": "Varberg"},
		CreatedAt:    now.Add(-time.Hour),
		UpdatedAt:    now,
		// CompletedAt stays zero while the job is resumable.
	}

	decoded, err := UnmarshalJob(MarshalJob(job))
	require.NoError(t, err)
	assert.Equal(t, job, decoded)
	assert.True(t, decoded.CompletedAt.IsZero())
}

func TestMarshalUnmarshalStageProgress(t *testing.T) {
	progress := &core.StageProgress{
		JobId:      "job-1",
		Stage:      "chunking",
		Percent:    100,
		ItemsTotal: 48,
		ItemsDone:  48,
		Metadata:   map[string]string{"persisted": "40", "duplicates": "6", "rejected": "2"},
		UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalStageProgress(MarshalStageProgress(progress))
	require.NoError(t, err)
	assert.Equal(t, progress, decoded)
}

func TestMarshalUnmarshalCatalogImage(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("with analysis", func(t *testing.T) {
		image := &core.CatalogImage{
			Id:         core.ID(77),
			DocumentId: core.ID(10),
			Page:       4,
			Caption:    "Aalto lounge chair in walnut",
			Data:       []byte{0x89, 0x50, 0x4e, 0x47},
			Analysis: &core.ImageAnalysis{
				Materials:    []string{"walnut", "wool"},
				Colors:       []string{"brown"},
				Textures:     []string{"matte"},
				OCRText:      "AALTO",
				QualityScore: 0.8,
				Confidence:   0.55,
				Model:        "mock-vision",
				AnalyzedAt:   now,
			},
			InsertedAt: now.Add(-time.Minute),
			UpdatedAt:  now,
		}

		decoded, err := UnmarshalCatalogImage(MarshalCatalogImage(image))
		require.NoError(t, err)
		assert.Equal(t, image, decoded)
	})

	t.Run("without analysis", func(t *testing.T) {
		image := &core.CatalogImage{
			Id:         core.ID(78),
			DocumentId: core.ID(10),
			Page:       5,
			Data:       []byte{1},
		}

		decoded, err := UnmarshalCatalogImage(MarshalCatalogImage(image))
		require.NoError(t, err)
		assert.Nil(t, decoded.Analysis)
		assert.Equal(t, image, decoded)
	})
}

func TestMarshalUnmarshalProduct(t *testing.T) {
	product := &core.Product{
		Id:          core.ID(5),
		DocumentId:  core.ID(10),
		Name:        "Aalto Lounge Chair",
		Description: "Steam-bent oak frame with wool upholstery.",
		Category:    "seating",
		Page:        2,
		ImageIds:    []core.ID{77, 78},
		InsertedAt:  time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalProduct(MarshalProduct(product))
	require.NoError(t, err)
	assert.Equal(t, product, decoded)
}

func TestMarshalUnmarshalVectorSet(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	set := &core.VectorSet{
		EntityId:   core.ID(77),
		EntityType: core.EntityTypeImage,
		DocumentId: core.ID(10),
		Metadata:   map[string]string{"category": "seating", "price": "1299"},
		Vectors: map[core.EmbeddingKind][]float32{
			core.KindVisual: {0.5, -0.25, 0.125},
			core.KindColor:  {1, 0},
		},
		Meta: map[core.EmbeddingKind]core.VectorMeta{
			core.KindVisual: {Model: "clip", Confidence: 0.9, Duration: 120 * time.Millisecond, GeneratedAt: now},
			core.KindColor:  {Model: "clip-color", Confidence: 0.8, GeneratedAt: now},
		},
		InsertedAt: now.Add(-time.Minute),
		UpdatedAt:  now,
	}

	decoded, err := UnmarshalVectorSet(MarshalVectorSet(set))
	require.NoError(t, err)
	assert.Equal(t, set, decoded)
}

func TestMarshalUnmarshalValidationItem(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	item := &core.ValidationItem{
		Id:         core.ID(3),
		DocumentId: core.ID(10),
		EntityId:   core.ID(77),
		EntityType: core.EntityTypeImage,
		Reason:     "low-confidence image analysis",
		Priority:   15,
		Status:     core.ValidationProcessing,
		RetryCount: 1,
		Metadata:   map[string]string{"last_error": "provider timeout"},
		InsertedAt: now.Add(-time.Minute),
		UpdatedAt:  now,
	}

	decoded, err := UnmarshalValidationItem(MarshalValidationItem(item))
	require.NoError(t, err)
	assert.Equal(t, item, decoded)
}

func TestUnmarshalTruncatedData(t *testing.T) {
	job := &core.Job{
		Id:          "job-1",
		DocumentRef: "x.pdf",
		Status:      core.JobStatusPending,
		Result:      map[string]string{"pages": "3"},
	}
	data := MarshalJob(job)

	_, err := UnmarshalJob(data[:len(data)/2])
	assert.Error(t, err)
}
