package quality

import (
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/go-crypt/x/blake2b"
)

// Normalize puts content into its canonical form for hashing: case-folded,
// whitespace-collapsed, trimmed. Two chunks that differ only in casing or
// whitespace normalize to the same string.
func Normalize(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	inSpace := false
	for _, r := range content {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Hash returns the hex-encoded BLAKE2b-256 digest of the normalized content.
// Deterministic: identical semantic text always hashes identically.
func Hash(content string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(Normalize(content)))
	return hex.EncodeToString(h.Sum(nil))
}

// CountSentences counts complete sentences: runs of text terminated by
// '.', '!' or '?' that contain at least two words.
func CountSentences(content string) int {
	count := 0
	words := 0
	inWord := false
	for _, r := range content {
		switch {
		case r == '.' || r == '!' || r == '?':
			if inWord {
				words++
				inWord = false
			}
			if words >= 2 {
				count++
			}
			words = 0
		case unicode.IsSpace(r):
			if inWord {
				words++
				inWord = false
			}
		default:
			inWord = true
		}
	}
	return count
}

// trimTrailingSpace strips trailing whitespace without allocating.
func trimTrailingSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
