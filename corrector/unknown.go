package corrector

import "regexp"

var wordTokenRe = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)

// MisspellingDetector scans text for surface words the lexicon does not know.
type MisspellingDetector struct {
	lex      *Lexicon
	detector *SpanDetector
}

// NewMisspellingDetector creates a detector over the given lexicon and spans.
func NewMisspellingDetector(lex *Lexicon, detector *SpanDetector) *MisspellingDetector {
	return &MisspellingDetector{lex: lex, detector: detector}
}

// FindUnknown returns unknown word tokens in left-to-right order, duplicates
// preserved: each occurrence is classified independently because its context
// may differ. Tokens inside protected spans, contractions, and anything
// containing digits are excluded.
func (d *MisspellingDetector) FindUnknown(text string) []Token {
	spans := spanIndex(d.detector.Spans(text))
	var out []Token
	for _, m := range wordTokenRe.FindAllStringIndex(text, -1) {
		if !isolatedMatch(text, m[0], m[1]) {
			continue
		}
		if spans.overlaps(m[0], m[1]) {
			continue
		}
		tok := text[m[0]:m[1]]
		key := normalizeKey(tok)
		if contractions[key] {
			continue
		}
		if d.lex.IsKnown(key) {
			continue
		}
		out = append(out, Token{Text: tok, Start: m[0], End: m[1]})
	}
	return out
}
