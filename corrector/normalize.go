package corrector

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText performs Unicode NFKC normalization and strips control
// characters so every corrector sees a single canonical form of the OCR
// output. Newlines and tabs survive because list-marker detection is
// line-anchored.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.TrimSpace(normed)
}

// normalizeKey lowercases a word for lexicon lookups.
func normalizeKey(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
