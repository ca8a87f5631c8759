package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreIdenticalis1(t *testing.T) {
	assert.Equal(t, 1.0, Score("mortgage offer", "mortgage offer"))
	assert.Equal(t, 1.0, Score("", ""))
}

func TestScoreBounds(t *testing.T) {
	cases := [][2]string{
		{"mortgage offer", "mortgage ofer"},
		{"the credit agreement", ""},
		{"", "something appeared"},
		{"H5BC mortgage  offer", "HSBC mortgage offer"},
	}
	for _, c := range cases {
		s := Score(c[0], c[1])
		assert.GreaterOrEqual(t, s, 0.0, "Score(%q, %q)", c[0], c[1])
		assert.LessOrEqual(t, s, 1.0, "Score(%q, %q)", c[0], c[1])
	}
}

func TestScoreOrdersByDamage(t *testing.T) {
	orig := "the mortgage offer dated 04/03/2025"
	light := Score(orig, "the mortgage offer dated 04/03/2026")
	heavy := Score(orig, "completely unrelated text")
	assert.Greater(t, light, heavy)
	assert.Less(t, light, 1.0)
}

func TestScoreEmptyCleanedIsLow(t *testing.T) {
	s := Score("the mortgage offer", "")
	assert.Less(t, s, 0.5)
}

func TestWordLengthSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, wordLengthSimilarity("aa bb", "cc dd"), "same length profile scores full marks")
	assert.Equal(t, 1.0, wordLengthSimilarity("", ""))
	assert.Equal(t, 0.0, wordLengthSimilarity("word", ""))
	assert.Less(t, wordLengthSimilarity("a a a", "longwords only here"), 1.0)
}

func TestCharCountSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, charCountSimilarity("abcd", "wxyz"))
	assert.Equal(t, 0.5, charCountSimilarity("abcd", "ab"))
	assert.Equal(t, 0.0, charCountSimilarity("ab", "abcdef"), "drift beyond the original length clamps to zero")
}
