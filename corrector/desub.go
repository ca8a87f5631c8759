package corrector

import (
	"regexp"
	"strings"
	"unicode"
)

// confusables maps characters to the letters they are commonly misread as by
// OCR, in both directions. Keys and values are lowercase.
var confusables = map[rune][]rune{
	'0': {'o'},
	'1': {'l', 'i'},
	'3': {'e'},
	'5': {'s'},
	'6': {'b'},
	'8': {'b'},
	'o': {'0'},
	'l': {'1'},
	'i': {'1'},
	'e': {'3'},
	's': {'5'},
	'b': {'6', '8'},
}

// letterToDigit is the digit-directed view of the confusable map, used by the
// date corrector where only digits are grammatical.
var letterToDigit = map[rune]rune{
	'o': '0', 'O': '0',
	'l': '1', 'i': '1', 'I': '1',
	'e': '3', 'E': '3',
	's': '5', 'S': '5',
	'b': '6',
	'B': '8',
	'z': '2', 'Z': '2',
}

var desubTokenRe = regexp.MustCompile(`[A-Za-z0-9]+`)

// Desubstituter repairs digit/letter OCR confusions one character at a time.
type Desubstituter struct {
	lex      *Lexicon
	detector *SpanDetector
}

// NewDesubstituter creates a corrector over the given lexicon and spans.
func NewDesubstituter(lex *Lexicon, detector *SpanDetector) *Desubstituter {
	return &Desubstituter{lex: lex, detector: detector}
}

// Desubstitute rewrites tokens where replacing exactly one confusable
// character yields a strictly higher-weight lexicon word. Tokens inside
// protected spans are untouched, and at most one substitution is applied per
// token to bound false positives.
func (d *Desubstituter) Desubstitute(text string) string {
	spans := spanIndex(d.detector.Spans(text))
	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, m := range desubTokenRe.FindAllStringIndex(text, -1) {
		if spans.overlaps(m[0], m[1]) {
			continue
		}
		tok := text[m[0]:m[1]]
		fixed, ok := d.fixToken(tok)
		if !ok {
			continue
		}
		out.WriteString(text[last:m[0]])
		out.WriteString(fixed)
		last = m[1]
	}
	out.WriteString(text[last:])
	return out.String()
}

// fixToken tries every single-character confusable substitution and keeps the
// one producing the highest-weight known word, provided it strictly beats the
// token's own weight.
func (d *Desubstituter) fixToken(tok string) (string, bool) {
	lower := []rune(strings.ToLower(tok))
	baseWeight := d.lex.Weight(string(lower))

	bestWeight := baseWeight
	bestPos, bestAlt := -1, rune(0)
	for pos, r := range lower {
		for _, alt := range confusables[r] {
			cand := make([]rune, len(lower))
			copy(cand, lower)
			cand[pos] = alt
			w := d.lex.Weight(string(cand))
			if w > bestWeight && d.lex.IsKnown(string(cand)) {
				bestWeight = w
				bestPos, bestAlt = pos, alt
			}
		}
	}
	if bestPos < 0 {
		return "", false
	}

	orig := []rune(tok)
	orig[bestPos] = matchCase(bestAlt, orig, bestPos)
	return string(orig), true
}

// matchCase uppercases the replacement when the replaced character was upper
// case, or when the surrounding token is fully upper case (digits carry no
// case of their own).
func matchCase(alt rune, token []rune, pos int) rune {
	if unicode.IsUpper(token[pos]) {
		return unicode.ToUpper(alt)
	}
	if unicode.IsDigit(token[pos]) && isUpperToken(token) {
		return unicode.ToUpper(alt)
	}
	return alt
}

// isUpperToken reports whether every cased rune in the token is upper case.
func isUpperToken(token []rune) bool {
	hasLetter := false
	for _, r := range token {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
