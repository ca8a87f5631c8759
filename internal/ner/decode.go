package ner

import (
	"math"
	"strings"

	"ocrclean/corrector"
)

// softmaxRows turns a flat [seqLen*numLabels] logits buffer into per-token
// probability rows.
func softmaxRows(logits []float32, seqLen, numLabels int) [][]float64 {
	rows := make([][]float64, 0, seqLen)
	for i := 0; i < seqLen; i++ {
		off := i * numLabels
		if off+numLabels > len(logits) {
			break
		}
		row := make([]float64, numLabels)
		maxLogit := float64(logits[off])
		for j := 1; j < numLabels; j++ {
			if v := float64(logits[off+j]); v > maxLogit {
				maxLogit = v
			}
		}
		sum := 0.0
		for j := 0; j < numLabels; j++ {
			row[j] = math.Exp(float64(logits[off+j]) - maxLogit)
			sum += row[j]
		}
		for j := 0; j < numLabels; j++ {
			row[j] /= sum
		}
		rows = append(rows, row)
	}
	return rows
}

// decodeBIO merges per-token BIO predictions into entity spans. Contiguous
// tokens of one entity type collapse into a single span whose confidence is
// the mean of its token probabilities.
func decodeBIO(tokens []wordToken, probs [][]float64, labels []string) []corrector.EntitySpan {
	var spans []corrector.EntitySpan
	var cur *corrector.EntitySpan
	var curProbs []float64

	flush := func() {
		if cur == nil {
			return
		}
		sum := 0.0
		for _, p := range curProbs {
			sum += p
		}
		cur.Confidence = sum / float64(len(curProbs))
		spans = append(spans, *cur)
		cur, curProbs = nil, nil
	}

	for i, tok := range tokens {
		if i >= len(probs) {
			break
		}
		if tok.special || tok.end <= tok.start {
			flush()
			continue
		}
		bestIdx, bestProb := 0, 0.0
		for j, p := range probs[i] {
			if p > bestProb {
				bestIdx, bestProb = j, p
			}
		}
		label := labels[bestIdx]
		if label == "O" {
			flush()
			continue
		}
		entityType := strings.TrimPrefix(strings.TrimPrefix(label, "B-"), "I-")
		continues := cur != nil && cur.Label == entityType &&
			!strings.HasPrefix(label, "B-") && tok.start <= cur.End+1
		if continues {
			cur.End = tok.end
			curProbs = append(curProbs, bestProb)
			continue
		}
		flush()
		cur = &corrector.EntitySpan{Start: tok.start, End: tok.end, Label: entityType}
		curProbs = []float64{bestProb}
	}
	flush()
	return spans
}
