// Package linguist implements the general-purpose linguistic pipeline
// collaborator using the prose NLP library. It is intentionally an
// independent implementation from the ONNX tagger so the classifier can
// OR-fuse two opinions.
package linguist

import (
	"context"
	"fmt"
	"strings"

	prose "github.com/jdkato/prose/v2"

	"ocrclean/corrector"
)

// proseConfidence is assigned to every prose entity: the library exposes no
// per-entity score, so its hits are reported at full confidence and the
// classifier's threshold applies uniformly.
const proseConfidence = 1.0

// Tagger adapts prose's entity extraction to the corrector.Tagger contract.
type Tagger struct{}

// New creates a prose-backed tagger.
func New() *Tagger { return &Tagger{} }

// Name identifies the collaborator in pipeline logs.
func (t *Tagger) Name() string { return "prose" }

// Tag runs prose over text and reports entity spans. Prose returns entity
// surface strings without offsets, so offsets are recovered with a forward
// cursor scan; entities that cannot be located are skipped.
func (t *Tagger) Tag(ctx context.Context, text string) ([]corrector.EntitySpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, corrector.ErrTaggerUnavailable)
	}
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("prose document: %v: %w", err, corrector.ErrTaggerUnavailable)
	}
	var spans []corrector.EntitySpan
	cursor := 0
	for _, ent := range doc.Entities() {
		idx := strings.Index(text[cursor:], ent.Text)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(ent.Text)
		spans = append(spans, corrector.EntitySpan{
			Start:      start,
			End:        end,
			Label:      ent.Label,
			Confidence: proseConfidence,
		})
		cursor = end
	}
	return spans, nil
}
