package pipeline

import "strings"

// Chunker splits page text into chunk-sized pieces along sentence
// boundaries. Paragraph breaks always end a chunk; inside a paragraph,
// sentences accumulate until the chunk reaches the target range.
type Chunker struct {
	targetLow  int
	targetHigh int
}

// NewChunker creates a chunker aiming for chunks between low and high
// characters. Non-positive bounds fall back to 200 and 1500.
func NewChunker(low, high int) *Chunker {
	if low <= 0 {
		low = 200
	}
	if high <= low {
		high = 1500
	}
	return &Chunker{targetLow: low, targetHigh: high}
}

// Split breaks text into chunks. Whitespace-only input yields nothing.
func (c *Chunker) Split(text string) []string {
	var chunks []string
	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		chunks = append(chunks, c.splitParagraph(paragraph)...)
	}
	return chunks
}

func (c *Chunker) splitParagraph(paragraph string) []string {
	sentences := splitSentences(paragraph)

	var chunks []string
	var current strings.Builder
	for _, sentence := range sentences {
		// A full chunk rolls over before an overlong one can form.
		if current.Len() >= c.targetLow && current.Len()+1+len(sentence) > c.targetHigh {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// splitSentences cuts text after sentence terminators followed by space.
// Terminator runs ("?!", "...") stay attached to their sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		// Swallow the rest of the terminator run.
		for i+1 < len(runes) && isTerminator(runes[i+1]) {
			i++
		}
		if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\n' {
			continue
		}

		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	tail := strings.TrimSpace(string(runes[start:]))
	if tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
