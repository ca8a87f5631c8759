package corrector

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Scoring weights for the three similarity measures. They sum to 1 so the
// combined score stays in [0,1].
const (
	seqWeight     = 0.50
	wordLenWeight = 0.25
	charWeight    = 0.25
)

// lenHistBins caps the word-length histogram; longer words share the last bin.
const lenHistBins = 12

// Score rates how far the cleaned text diverged from the original, in [0,1].
// Identical strings score exactly 1.0. The arguments are not interchangeable:
// the character-count term normalizes against the original.
func Score(original, cleaned string) float64 {
	if original == cleaned {
		return 1.0
	}
	return seqWeight*sequenceSimilarity(original, cleaned) +
		wordLenWeight*wordLengthSimilarity(original, cleaned) +
		charWeight*charCountSimilarity(original, cleaned)
}

func sequenceSimilarity(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

// wordLengthSimilarity compares the word-length distributions of the two
// texts via total variation distance over normalized histograms.
func wordLengthSimilarity(a, b string) float64 {
	ha, na := lengthHistogram(a)
	hb, nb := lengthHistogram(b)
	if na == 0 && nb == 0 {
		return 1
	}
	if na == 0 || nb == 0 {
		return 0
	}
	var dist float64
	for i := 0; i < lenHistBins; i++ {
		d := float64(ha[i])/float64(na) - float64(hb[i])/float64(nb)
		if d < 0 {
			d = -d
		}
		dist += d
	}
	return 1 - dist/2
}

func lengthHistogram(text string) ([lenHistBins]int, int) {
	var hist [lenHistBins]int
	total := 0
	for _, w := range strings.Fields(text) {
		n := len([]rune(w))
		if n > lenHistBins {
			n = lenHistBins
		}
		hist[n-1]++
		total++
	}
	return hist, total
}

// charCountSimilarity penalizes length drift relative to the original text.
func charCountSimilarity(original, cleaned string) float64 {
	lo, lc := len([]rune(original)), len([]rune(cleaned))
	if lo == 0 && lc == 0 {
		return 1
	}
	if lo == 0 {
		return 0
	}
	diff := lo - lc
	if diff < 0 {
		diff = -diff
	}
	sim := 1 - float64(diff)/float64(lo)
	if sim < 0 {
		return 0
	}
	return sim
}
