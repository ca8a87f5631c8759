package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrequencies() map[string]int64 {
	return map[string]int64{
		"the":       100000,
		"mortgage":  5000,
		"offer":     3000,
		"dated":     1000,
		"credit":    2000,
		"agreement": 2000,
		"jon":       500,
		"jones":     800,
		"smith":     900,
		"property":  1500,
		"interest":  1200,
		"rate":      1100,
		"is":        50000,
		"a":         80000,
		"to":        60000,
	}
}

func testLexicon(t *testing.T) *Lexicon {
	t.Helper()
	lex, err := NewLexiconBuilder(LexiconConfig{BoostThreshold: 2, BoostFactor: 1000}).
		AddFrequencyTable(testFrequencies()).
		AddProtected("hsbc", "apr").
		Build()
	require.NoError(t, err)
	return lex
}

func TestLexiconBuildRequiresSource(t *testing.T) {
	_, err := NewLexiconBuilder(LexiconConfig{}).Build()
	require.Error(t, err)
}

func TestLexiconKnownAndWeights(t *testing.T) {
	lex := testLexicon(t)

	assert.True(t, lex.IsKnown("mortgage"))
	assert.True(t, lex.IsKnown("Mortgage"), "lookups are case-normalized")
	assert.False(t, lex.IsKnown("mortgge"))
	assert.Equal(t, float64(5000), lex.Weight("mortgage"))
	assert.Equal(t, float64(0), lex.Weight("mortgge"))
}

func TestLexiconProtectedOutranksEverything(t *testing.T) {
	lex := testLexicon(t)

	require.True(t, lex.IsProtected("hsbc"))
	require.True(t, lex.IsProtected("HSBC"))
	assert.Greater(t, lex.Weight("hsbc"), lex.Weight("the"))
	assert.False(t, lex.IsProtected("mortgage"))
}

func TestLexiconCorpusBoost(t *testing.T) {
	builder := NewLexiconBuilder(LexiconConfig{BoostThreshold: 3, BoostFactor: 1000}).
		AddFrequencyTable(map[string]int64{"leasehold": 10, "rare": 10})
	builder.ObserveCorpus("leasehold leasehold leasehold flat")
	lex, err := builder.Build()
	require.NoError(t, err)

	assert.Equal(t, float64(10*1000), lex.Weight("leasehold"), "domain-frequent word is boosted")
	assert.Equal(t, float64(10), lex.Weight("rare"), "below-threshold word keeps its static weight")
	assert.False(t, lex.IsKnown("flat"), "a single sighting does not create an entry")
}

func TestLexiconCorpusBoostCreatesEntries(t *testing.T) {
	builder := NewLexiconBuilder(LexiconConfig{BoostThreshold: 2, BoostFactor: 1000}).
		AddFrequencyTable(map[string]int64{"the": 100})
	builder.ObserveCorpus("natwest natwest natwest")
	lex, err := builder.Build()
	require.NoError(t, err)

	assert.True(t, lex.IsKnown("natwest"), "corpus-frequent unknown word becomes an entry")
	assert.Equal(t, float64(3*1000), lex.Weight("natwest"))
}

func TestLexiconCandidatesRanking(t *testing.T) {
	lex := testLexicon(t)

	cands := lex.Candidates("mortgge", 2)
	require.NotEmpty(t, cands)
	assert.Equal(t, "mortgage", cands[0].Term)
	assert.Equal(t, 1, cands[0].Distance)

	for i := 1; i < len(cands); i++ {
		prev, cur := cands[i-1], cands[i]
		if prev.Distance != cur.Distance {
			assert.Less(t, prev.Distance, cur.Distance)
			continue
		}
		assert.GreaterOrEqual(t, prev.Weight, cur.Weight)
	}
}

func TestLexiconCandidatesDeterministic(t *testing.T) {
	lex := testLexicon(t)
	first := lex.Candidates("jom", 2)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, lex.Candidates("jom", 2))
	}
}

func TestLexiconCandidatesRespectDistance(t *testing.T) {
	lex := testLexicon(t)
	for _, c := range lex.Candidates("mortgge", 1) {
		assert.LessOrEqual(t, c.Distance, 1)
	}
	assert.Empty(t, lex.Candidates("zzzzzzzzzz", 2))
}

func TestLexiconCost(t *testing.T) {
	lex := testLexicon(t)

	costThe, ok := lex.Cost("the")
	require.True(t, ok)
	costRare, ok := lex.Cost("jon")
	require.True(t, ok)
	assert.Less(t, costThe, costRare, "frequent words are cheaper")

	_, ok = lex.Cost("mortgge")
	assert.False(t, ok)

	costProtected, ok := lex.Cost("hsbc")
	require.True(t, ok)
	assert.GreaterOrEqual(t, costProtected, 0.0, "protected cost clamps instead of going negative")
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("mortgage", "mortgage"))
	assert.Equal(t, 1, editDistance("mortgge", "mortgage"))
	assert.Equal(t, 1, editDistance("mortggae", "mortgage"), "adjacent transposition counts as one edit")
	assert.Equal(t, 3, editDistance("", "abc"))

	_, ok := editDistanceWithin("short", "muchlongerword", 2)
	assert.False(t, ok)
	d, ok := editDistanceWithin("jon", "jones", 2)
	require.True(t, ok)
	assert.Equal(t, 2, d)
}
