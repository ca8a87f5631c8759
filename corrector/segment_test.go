package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	lex := testLexicon(t)
	return NewSegmenter(lex, NewSpanDetector(lex))
}

func TestSegmentCollapsesSpaceRuns(t *testing.T) {
	s := testSegmenter(t)
	assert.Equal(t, "mortgage offer dated", s.Segment("mortgage  offer   dated"))
}

func TestSegmentMergesSplitWord(t *testing.T) {
	s := testSegmenter(t)
	// "Jones" outranks "Jon"+"es" because "es" is unknown to the lexicon.
	assert.Equal(t, "Jones", s.Segment("Jon es"))
}

func TestSegmentSplitsJoinedWords(t *testing.T) {
	s := testSegmenter(t)
	assert.Equal(t, "credit agreement", s.Segment("creditagreement"))
}

func TestSegmentNoOpWhenNoImprovement(t *testing.T) {
	s := testSegmenter(t)
	for _, text := range []string{
		"mortgage offer",
		"the interest rate",
		"",
		"   ",
	} {
		out := s.Segment(text)
		second := s.Segment(out)
		assert.Equal(t, out, second, "no further change expected for %q", text)
	}
	assert.Equal(t, "mortgage offer", s.Segment("mortgage offer"))
}

func TestSegmentIdempotent(t *testing.T) {
	s := testSegmenter(t)
	inputs := []string{
		"Jon es signed the creditagreement",
		"mortgage  offer  dated 04/03/2025",
		"1. the property at SW1A2AA",
		"plain text with nothing wrong",
	}
	for _, text := range inputs {
		once := s.Segment(text)
		assert.Equal(t, once, s.Segment(once), "Segment must be idempotent for %q", text)
	}
}

func TestSegmentPreservesProtectedSpans(t *testing.T) {
	s := testSegmenter(t)
	text := "ref AB12CD dated 04/03/2025 call 07700 900123"
	out := s.Segment(text)
	assert.Contains(t, out, "AB12CD")
	assert.Contains(t, out, "04/03/2025")
	assert.Contains(t, out, "07700 900123", "whitespace inside a protected span is not collapsed")
}

func TestSegmentDoesNotMergeAcrossProtectedSpan(t *testing.T) {
	s := testSegmenter(t)
	// "HSBC" is a protected word; it must never be merged with a neighbor.
	text := "HSBC offer"
	assert.Equal(t, text, s.Segment(text))
}

func TestSegmentUnknownRunLeftAlone(t *testing.T) {
	s := testSegmenter(t)
	require.Equal(t, "xqzt blorp", s.Segment("xqzt blorp"), "no known parse means no change")
}
