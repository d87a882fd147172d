package pipeline

import (
	"testing"

	"github.com/poiesic/folio/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpatialScore(t *testing.T) {
	assert.Equal(t, float32(1.0), spatialScore(3, 3))
	assert.Equal(t, float32(0.5), spatialScore(3, 4))
	assert.Equal(t, float32(0.5), spatialScore(4, 3))
	assert.Equal(t, float32(0), spatialScore(1, 5))
}

func TestCaptionScoreExactNameHit(t *testing.T) {
	product := &core.Product{Name: "Aalto Lounge Chair", Description: "A bent oak chair."}

	assert.Equal(t, float32(1.0), captionScore("The AALTO LOUNGE CHAIR in oak", product))
	assert.Equal(t, float32(0), captionScore("", product))
}

func TestCaptionScoreTokenOverlap(t *testing.T) {
	product := &core.Product{
		Name:        "Nordhav",
		Description: "An extendable dining table in solid ash.",
	}

	score := captionScore("extendable table detail", product)
	assert.Greater(t, score, float32(0))
	assert.Less(t, score, float32(1.0))
}

func TestVisualScoreMatchesAnalysisLabels(t *testing.T) {
	product := &core.Product{
		Name:        "Brummel",
		Description: "A sofa with an oak frame and grey wool upholstery.",
	}

	full := &core.ImageAnalysis{Materials: []string{"oak", "wool"}}
	assert.Equal(t, float32(1.0), visualScore(full, product))

	half := &core.ImageAnalysis{Materials: []string{"oak", "chrome"}}
	assert.Equal(t, float32(0.5), visualScore(half, product))

	assert.Equal(t, float32(0), visualScore(nil, product))
	assert.Equal(t, float32(0), visualScore(&core.ImageAnalysis{}, product))
}

func TestAssociateImagesPicksBestProduct(t *testing.T) {
	images := []*core.CatalogImage{
		{Id: 1, Page: 2, Caption: "AALTO CHAIR"},
	}
	products := []*core.Product{
		{Id: 10, Name: "Aalto Chair", Description: "Oak lounge chair.", Page: 2},
		{Id: 11, Name: "Nordhav Table", Description: "Ash dining table.", Page: 7},
	}

	assocs := AssociateImages(images, products, DefaultAssociationWeights(), 0.5)
	require.Len(t, assocs, 1)
	assert.Equal(t, core.ID(1), assocs[0].ImageId)
	assert.Equal(t, core.ID(10), assocs[0].ProductId)
	// Same page and exact caption hit: 0.4*1.0 + 0.3*1.0 = 0.7
	assert.InDelta(t, 0.7, assocs[0].Score, 0.001)
}

func TestAssociateImagesThresholdFiltersWeakLinks(t *testing.T) {
	images := []*core.CatalogImage{
		{Id: 1, Page: 9, Caption: "warehouse interior"},
	}
	products := []*core.Product{
		{Id: 10, Name: "Aalto Chair", Description: "Oak lounge chair.", Page: 2},
	}

	assocs := AssociateImages(images, products, DefaultAssociationWeights(), 0.5)
	assert.Empty(t, assocs)
}

func TestAssociateImagesOneLinkPerImage(t *testing.T) {
	images := []*core.CatalogImage{
		{Id: 1, Page: 2, Caption: "AALTO CHAIR"},
		{Id: 2, Page: 7, Caption: "NORDHAV TABLE"},
	}
	products := []*core.Product{
		{Id: 10, Name: "Aalto Chair", Description: "Oak lounge chair.", Page: 2},
		{Id: 11, Name: "Nordhav Table", Description: "Ash dining table.", Page: 7},
	}

	assocs := AssociateImages(images, products, DefaultAssociationWeights(), 0.5)
	require.Len(t, assocs, 2)
	assert.Equal(t, core.ID(10), assocs[0].ProductId)
	assert.Equal(t, core.ID(11), assocs[1].ProductId)
}
