package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyChunk(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "too short stays unclassified",
			content:  "OAK CHAIR",
			expected: ChunkUnclassified,
		},
		{
			name:     "table of contents by leader lines",
			content:  "AALTO LOUNGE CHAIR ........ 12\nNORDHAV DINING TABLE ........ 18\nBRUMMEL SOFA ........ 24",
			expected: ChunkIndexContent,
		},
		{
			name:     "table of contents by heading",
			content:  "Table of contents for the spring catalog, listing every product family with page references.",
			expected: ChunkIndexContent,
		},
		{
			name:     "sustainability content",
			content:  "Our commitment to sustainability runs through the whole line: recycled aluminum frames, biodegradable packaging, and responsible sourcing of every board foot of timber.",
			expected: ChunkSustainabilityInfo,
		},
		{
			name:     "certification content",
			content:  "Every chair in this range is BIFMA certified and CE marked. Compliance documentation is available on request, and our quality assurance process audits each production batch.",
			expected: ChunkCertificationInfo,
		},
		{
			name:     "technical specs by heading",
			content:  "Technical specification sheet covering the full dining range, including load ratings and care instructions for each finish option.",
			expected: ChunkTechnicalSpecs,
		},
		{
			name: "technical specs by dimensions and fields",
			content: "Dimensions: 180 x 90 x 75 cm\nMaterial: solid oak with steel base\n" +
				"Weight capacity: 120 kg\nScratch resistance tested to class 4.",
			expected: ChunkTechnicalSpecs,
		},
		{
			name:     "designer story",
			content:  "The designer founded her studio in Copenhagen in 2011. Her creative process starts with full-scale paper models, a philosophy inherited from her cabinetmaker father.",
			expected: ChunkDesignerStory,
		},
		{
			name:     "collection overview",
			content:  "The Varberg collection presents a comprehensive line of seating and tables, and includes four new finishes introduced this season across the whole series.",
			expected: ChunkCollectionOverview,
		},
		{
			name:     "product description",
			content:  "The AALTO lounge chair is crafted from steam-bent oak and upholstered in wool bouclé. Available in six colorways with a matte or oiled finish.",
			expected: ChunkProductDescription,
		},
		{
			name:     "plain prose falls through to supporting content",
			content:  "Visit our showroom in the old harbor district, open every weekday from nine until six, where the full range can be seen and tried.",
			expected: ChunkSupportingContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyChunk(tt.content))
		})
	}
}

func TestHasCapsWord(t *testing.T) {
	assert.True(t, hasCapsWord("The NORDHAV table seats ten."))
	assert.False(t, hasCapsWord("An ordinary sentence with no shouting."))
	// Short tokens like "DK" and bare punctuation don't count.
	assert.False(t, hasCapsWord("Made in DK, EU."))
}
