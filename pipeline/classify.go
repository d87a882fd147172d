package pipeline

import (
	"regexp"
	"strings"
)

// Chunk types recorded in chunk metadata under "chunk_type". Entity linking
// mines products only from description and spec chunks; index, certification
// and sustainability content is filtered out of product detection.
const (
	ChunkProductDescription = "product_description"
	ChunkTechnicalSpecs     = "technical_specs"
	ChunkVisualShowcase     = "visual_showcase"
	ChunkDesignerStory      = "designer_story"
	ChunkCollectionOverview = "collection_overview"
	ChunkSupportingContent  = "supporting_content"
	ChunkIndexContent       = "index_content"
	ChunkSustainabilityInfo = "sustainability_info"
	ChunkCertificationInfo  = "certification_info"
	ChunkUnclassified       = "unclassified"
)

var (
	// Dotted leader lines ("Introduction ....... 3") mark tables of contents.
	leaderLine = regexp.MustCompile(`\.{3,}\s*\d+`)

	// Dimension notations like "180×90×75 cm" or "200x100 mm".
	dimensions = regexp.MustCompile(`\d+\s*[×x]\s*\d+`)
)

// ClassifyChunk assigns a chunk type from content heuristics. Checks run
// from most to least specific; text too short to judge stays unclassified.
func ClassifyChunk(content string) string {
	if len(content) < 50 {
		return ChunkUnclassified
	}
	lower := strings.ToLower(content)

	switch {
	case leaderLine.MatchString(content),
		strings.Contains(lower, "table of contents"),
		strings.Contains(lower, "index of products"):
		return ChunkIndexContent

	case countAny(lower, "sustainab", "recycled", "carbon-neutral", "carbon neutral",
		"biodegradable", "eco-friendly", "responsible sourcing") >= 2:
		return ChunkSustainabilityInfo

	case countAny(lower, "certified", "certification", "compliance", "compliant",
		"iso ", "ce marked", "bifma", "quality assurance", "rated", "standards") >= 2:
		return ChunkCertificationInfo

	case strings.Contains(lower, "technical specification") ||
		(dimensions.MatchString(content) && countAny(lower, "material:", "weight", "capacity", "resistance", "•") >= 2):
		return ChunkTechnicalSpecs

	case countAny(lower, "designer", "studio", "inspired by", "philosophy", "creative process") >= 2:
		return ChunkDesignerStory

	case strings.Contains(lower, "collection") &&
		countAny(lower, "presents", "includes", "comprehensive", "line", "series") >= 2:
		return ChunkCollectionOverview

	case countAny(lower, "moodboard", "image gallery", "photography", "showcase", "see image") >= 2:
		return ChunkVisualShowcase

	case looksLikeProduct(content, lower):
		return ChunkProductDescription
	}

	return ChunkSupportingContent
}

// looksLikeProduct matches chunks that name a product and describe its
// materials, finishes or dimensions.
func looksLikeProduct(content, lower string) bool {
	signals := countAny(lower, "available in", "upholster", "finish", "dimensions",
		"designed for", "crafted", "made of", "made from", "veneer", "solid ")
	if dimensions.MatchString(content) {
		signals++
	}
	if hasCapsWord(content) {
		signals++
	}
	return signals >= 2
}

// hasCapsWord reports whether the text contains an all-caps word of 3+
// letters, the way catalogs print product names.
func hasCapsWord(content string) bool {
	for _, word := range strings.Fields(content) {
		word = strings.Trim(word, ".,:;!?()")
		if len(word) < 3 {
			continue
		}
		caps := true
		for _, r := range word {
			if r < 'A' || r > 'Z' {
				caps = false
				break
			}
		}
		if caps {
			return true
		}
	}
	return false
}

func countAny(lower string, needles ...string) int {
	count := 0
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			count++
		}
	}
	return count
}
