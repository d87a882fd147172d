package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerEmptyInput(t *testing.T) {
	c := NewChunker(0, 0)

	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("   \n\n  \t "))
}

func TestChunkerShortTextSingleChunk(t *testing.T) {
	c := NewChunker(0, 0)

	chunks := c.Split("A single short paragraph about a chair.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "A single short paragraph about a chair.", chunks[0])
}

func TestChunkerParagraphBoundaries(t *testing.T) {
	c := NewChunker(20, 100)

	text := "First paragraph about oak tables and their finish qualities.\n\n" +
		"Second paragraph about walnut chairs and their joinery details."
	chunks := c.Split(text)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "oak tables")
	assert.Contains(t, chunks[1], "walnut chairs")
}

func TestChunkerSplitsLongParagraph(t *testing.T) {
	c := NewChunker(50, 120)

	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("This sentence describes one property of the product in some detail. ")
	}
	chunks := c.Split(b.String())

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 140, "chunk should stay near the target ceiling")
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunkerPreservesAllContent(t *testing.T) {
	c := NewChunker(30, 80)

	text := "Alpha sentence one. Beta sentence two. Gamma sentence three. " +
		"Delta sentence four. Epsilon sentence five. Zeta sentence six."
	chunks := c.Split(text)

	joined := strings.Join(chunks, " ")
	for _, word := range []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta"} {
		assert.Contains(t, joined, word)
	}
}
