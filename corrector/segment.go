package corrector

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// maxGroupRunes bounds the segmentation search per token group.
	maxGroupRunes = 40
	// maxWordRunes bounds a single proposed token inside the search.
	maxWordRunes = 24
	// unknownBaseCost and unknownRuneCost price tokens the lexicon does not
	// know, high enough that any known parse beats an unknown one.
	unknownBaseCost = 25.0
	unknownRuneCost = 3.0
	// fragmentPenalty discourages proposing tokens shorter than 2 runes.
	fragmentPenalty = 6.0
)

var (
	spaceRunRe = regexp.MustCompile(`[ \t]{2,}`)
	segTokenRe = regexp.MustCompile(`[A-Za-z]+|\d+|[ \t]+|\n|[^A-Za-z0-9 \t\n]`)
	alphaOnly  = regexp.MustCompile(`^[A-Za-z]+$`)
)

// Segmenter repairs missing and duplicated whitespace using a minimum-cost
// word segmentation over lexicon weights. It is idempotent: text whose
// spacing is already optimal comes back unchanged.
type Segmenter struct {
	lex      *Lexicon
	detector *SpanDetector
}

// NewSegmenter creates a segmenter over the given lexicon and span detector.
func NewSegmenter(lex *Lexicon, detector *SpanDetector) *Segmenter {
	return &Segmenter{lex: lex, detector: detector}
}

// Segment fixes word-boundary whitespace. Protected spans are opaque: tokens
// inside them are never split, and no merge crosses a span boundary. Short
// 2-rune tokens still participate in merges, so a split surname like
// "Jon es" can be rejoined when the joined word outranks the parts.
func (s *Segmenter) Segment(text string) string {
	collapsed := s.collapseSpaces(text)
	spans := spanIndex(s.detector.Spans(collapsed))

	type tok struct {
		text       string
		start, end int
	}
	var tokens []tok
	for _, m := range segTokenRe.FindAllStringIndex(collapsed, -1) {
		tokens = append(tokens, tok{text: collapsed[m[0]:m[1]], start: m[0], end: m[1]})
	}

	// mergeable reports whether a token may join a segmentation group.
	// Tokens under a protected span stay out, except short-word spans,
	// which only forbid splitting, not rejoining.
	mergeable := func(t tok) bool {
		if !alphaOnly.MatchString(t.text) {
			return false
		}
		for _, sp := range spans {
			if sp.Overlaps(t.start, t.end) && sp.Kind != SpanShortWord {
				return false
			}
		}
		return true
	}

	var out strings.Builder
	out.Grow(len(collapsed))
	i := 0
	for i < len(tokens) {
		if !mergeable(tokens[i]) {
			out.WriteString(tokens[i].text)
			i++
			continue
		}
		// Collect a run of alpha tokens separated by single spaces.
		group := []string{tokens[i].text}
		j := i + 1
		for j+1 < len(tokens) && tokens[j].text == " " && mergeable(tokens[j+1]) {
			group = append(group, tokens[j+1].text)
			j += 2
		}
		out.WriteString(s.resegment(group))
		i = j
	}
	return out.String()
}

// collapseSpaces reduces horizontal whitespace runs to a single space, except
// inside protected spans of the incoming text.
func (s *Segmenter) collapseSpaces(text string) string {
	spans := spanIndex(s.detector.Spans(text))
	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, m := range spaceRunRe.FindAllStringIndex(text, -1) {
		if spans.overlaps(m[0], m[1]) {
			continue
		}
		out.WriteString(text[last:m[0]])
		out.WriteByte(' ')
		last = m[1]
	}
	out.WriteString(text[last:])
	return out.String()
}

// resegment finds the minimum-cost spacing of a run of words and returns the
// original run when no alternative strictly improves on it. A proposed token
// must either be a known lexicon word or coincide exactly with one of the
// original tokens: two unknown words can never collapse into one unknown
// blob, and an unknown token can only be split into fully known words.
func (s *Segmenter) resegment(group []string) string {
	original := strings.Join(group, " ")
	letters := []rune(strings.Join(group, ""))
	if len(letters) > maxGroupRunes {
		return original
	}

	originalBounds := make(map[[2]int]bool, len(group))
	pos := 0
	originalCost := 0.0
	for _, w := range group {
		n := utf8.RuneCountInString(w)
		originalBounds[[2]int{pos, pos + n}] = true
		cost, _ := s.chunkCost(w, true)
		originalCost += cost
		pos += n
	}

	n := len(letters)
	const inf = 1e18
	best := make([]float64, n+1)
	back := make([]int, n+1)
	for i := 1; i <= n; i++ {
		best[i] = inf
	}
	for i := 1; i <= n; i++ {
		lo := i - maxWordRunes
		if lo < 0 {
			lo = 0
		}
		for j := lo; j < i; j++ {
			if best[j] >= inf {
				continue
			}
			cost, ok := s.chunkCost(string(letters[j:i]), originalBounds[[2]int{j, i}])
			if !ok {
				continue
			}
			if c := best[j] + cost; c < best[i] {
				best[i] = c
				back[i] = j
			}
		}
	}
	if best[n] >= originalCost {
		return original
	}

	var cuts []int
	for i := n; i > 0; i = back[i] {
		cuts = append(cuts, i)
	}
	var parts []string
	prev := 0
	for k := len(cuts) - 1; k >= 0; k-- {
		parts = append(parts, string(letters[prev:cuts[k]]))
		prev = cuts[k]
	}
	return strings.Join(parts, " ")
}

// chunkCost prices one proposed token. isOriginal permits an unknown chunk
// when it reproduces an original token verbatim.
func (s *Segmenter) chunkCost(word string, isOriginal bool) (float64, bool) {
	cost, known := s.lex.Cost(word)
	if !known {
		if !isOriginal {
			return 0, false
		}
		cost = unknownBaseCost + unknownRuneCost*float64(utf8.RuneCountInString(word))
	}
	if utf8.RuneCountInString(word) < 2 {
		cost += fragmentPenalty
	}
	return cost, true
}
