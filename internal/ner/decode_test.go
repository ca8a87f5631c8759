package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrclean/corrector"
)

func TestSoftmaxRows(t *testing.T) {
	logits := []float32{
		0, 0, 0,
		1, 2, 3,
	}
	rows := softmaxRows(logits, 2, 3)
	require.Len(t, rows, 2)

	for _, row := range rows {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
	assert.InDelta(t, 1.0/3, rows[0][0], 1e-9)
	assert.Greater(t, rows[1][2], rows[1][1])
	assert.Greater(t, rows[1][1], rows[1][0])
}

func TestSoftmaxRowsTruncatedBuffer(t *testing.T) {
	rows := softmaxRows([]float32{0, 0, 0, 1}, 2, 3)
	assert.Len(t, rows, 1, "an incomplete trailing row is dropped")
}

func bioLabels() []string {
	return []string{"O", "B-PER", "I-PER", "B-LOC", "I-LOC"}
}

// oneHot builds a probability row that picks the given label index.
func oneHot(n, idx int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = 0.02
	}
	row[idx] = 0.9
	return row
}

func TestDecodeBIOMergesContiguousTokens(t *testing.T) {
	labels := bioLabels()
	tokens := []wordToken{
		{special: true},
		{start: 0, end: 3},
		{start: 4, end: 9},
		{start: 10, end: 16},
		{special: true},
	}
	probs := [][]float64{
		oneHot(len(labels), 0),
		oneHot(len(labels), 1), // B-PER
		oneHot(len(labels), 2), // I-PER
		oneHot(len(labels), 0), // O
		oneHot(len(labels), 0),
	}

	spans := decodeBIO(tokens, probs, labels)
	require.Len(t, spans, 1)
	assert.Equal(t, corrector.EntitySpan{Start: 0, End: 9, Label: "PER", Confidence: 0.9}, spans[0])
}

func TestDecodeBIONewBTagStartsFreshSpan(t *testing.T) {
	labels := bioLabels()
	tokens := []wordToken{
		{start: 0, end: 4},
		{start: 5, end: 9},
	}
	probs := [][]float64{
		oneHot(len(labels), 1), // B-PER
		oneHot(len(labels), 1), // B-PER again: a second person
	}

	spans := decodeBIO(tokens, probs, labels)
	require.Len(t, spans, 2)
	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, 4, spans[0].End)
	assert.Equal(t, 5, spans[1].Start)
}

func TestDecodeBIOTypeChangeBreaksSpan(t *testing.T) {
	labels := bioLabels()
	tokens := []wordToken{
		{start: 0, end: 4},
		{start: 5, end: 9},
	}
	probs := [][]float64{
		oneHot(len(labels), 1), // B-PER
		oneHot(len(labels), 4), // I-LOC, different type
	}

	spans := decodeBIO(tokens, probs, labels)
	require.Len(t, spans, 2)
	assert.Equal(t, "PER", spans[0].Label)
	assert.Equal(t, "LOC", spans[1].Label)
}

func TestDecodeBIOAllOutside(t *testing.T) {
	labels := bioLabels()
	tokens := []wordToken{{start: 0, end: 4}, {start: 5, end: 9}}
	probs := [][]float64{oneHot(len(labels), 0), oneHot(len(labels), 0)}

	assert.Empty(t, decodeBIO(tokens, probs, labels))
}
