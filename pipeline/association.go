package pipeline

import (
	"strings"

	"github.com/poiesic/folio/core"
)

// AssociationWeights blends the three image-product association signals.
type AssociationWeights struct {
	Spatial float32
	Caption float32
	Visual  float32
}

// DefaultAssociationWeights returns the standard blend: spatial proximity
// dominates, caption and visual evidence split the rest.
func DefaultAssociationWeights() AssociationWeights {
	return AssociationWeights{Spatial: 0.4, Caption: 0.3, Visual: 0.3}
}

// Association is one scored image-product link candidate.
type Association struct {
	ImageId   core.ID
	ProductId core.ID
	Score     float32
	Spatial   float32
	Caption   float32
	Visual    float32
}

// AssociateImages scores every image against every product and returns the
// candidates at or above threshold, strongest first per image. Spatial
// proximity compares pages, caption evidence matches the product name and
// description against the printed caption, and visual evidence matches the
// image analysis labels against the product description.
func AssociateImages(images []*core.CatalogImage, products []*core.Product, weights AssociationWeights, threshold float32) []Association {
	var out []Association
	for _, image := range images {
		var best *Association
		for _, product := range products {
			a := Association{
				ImageId:   image.Id,
				ProductId: product.Id,
				Spatial:   spatialScore(image.Page, product.Page),
				Caption:   captionScore(image.Caption, product),
				Visual:    visualScore(image.Analysis, product),
			}
			a.Score = weights.Spatial*a.Spatial + weights.Caption*a.Caption + weights.Visual*a.Visual
			if a.Score < threshold {
				continue
			}
			if best == nil || a.Score > best.Score {
				copied := a
				best = &copied
			}
		}
		if best != nil {
			out = append(out, *best)
		}
	}
	return out
}

// spatialScore rates page proximity: same page full credit, adjacent half.
func spatialScore(imagePage, productPage int) float32 {
	switch diff := imagePage - productPage; {
	case diff == 0:
		return 1.0
	case diff == 1 || diff == -1:
		return 0.5
	default:
		return 0
	}
}

// captionScore rates how well the printed caption names the product.
// An exact name hit scores full credit; otherwise the token overlap with the
// product description counts.
func captionScore(caption string, product *core.Product) float32 {
	if caption == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(caption), strings.ToLower(product.Name)) {
		return 1.0
	}
	return tokenOverlap(caption, product.Description)
}

// visualScore rates agreement between what the analyzer saw in the image and
// what the product description claims.
func visualScore(analysis *core.ImageAnalysis, product *core.Product) float32 {
	if analysis == nil {
		return 0
	}

	labels := make([]string, 0, len(analysis.Materials)+len(analysis.Colors)+len(analysis.Textures))
	labels = append(labels, analysis.Materials...)
	labels = append(labels, analysis.Colors...)
	labels = append(labels, analysis.Textures...)
	if len(labels) == 0 {
		return 0
	}

	description := tokenSet(product.Name + " " + product.Description)
	hits := 0
	for _, label := range labels {
		matched := false
		for _, word := range strings.Fields(strings.ToLower(label)) {
			if description[word] {
				matched = true
				break
			}
		}
		if matched {
			hits++
		}
	}
	return float32(hits) / float32(len(labels))
}

// Stop words to skip when matching captions against descriptions
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// tokenSet lowercases text, trims punctuation and drops stop words.
func tokenSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, word := range strings.Fields(text) {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			set[cleaned] = true
		}
	}
	return set
}

// tokenOverlap reports the fraction of a's tokens present in b.
func tokenOverlap(a, b string) float32 {
	aSet := tokenSet(a)
	if len(aSet) == 0 {
		return 0
	}
	bSet := tokenSet(b)
	hits := 0
	for word := range aSet {
		if bSet[word] {
			hits++
		}
	}
	return float32(hits) / float32(len(aSet))
}
