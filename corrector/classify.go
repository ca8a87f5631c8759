package corrector

import (
	"context"
	"errors"
	"log"
)

// ErrTaggerUnavailable signals that an entity tagging collaborator cannot be
// reached. The classifier treats it as degraded mode, never as a row failure.
var ErrTaggerUnavailable = errors.New("entity tagger unavailable")

// Tagger is the contract with an external entity-recognition collaborator.
// Implementations are stateless per call and may fail transiently.
type Tagger interface {
	// Tag returns entity spans with byte offsets into text.
	Tag(ctx context.Context, text string) ([]EntitySpan, error)
	// Name identifies the collaborator in logs.
	Name() string
}

// Classifier separates true misspellings from genuine named entities by
// fusing the misspelling detector's output with independent taggers.
//
// The fusion is a deliberate asymmetric OR: a token is an entity if any
// tagger covers it with enough confidence, because over-correcting a real
// name or address is worse than leaving one misspelling unflagged. When
// every tagger is unavailable the classifier degrades to dictionary-only
// detection and all unknowns come back as misspellings.
type Classifier struct {
	lex       *Lexicon
	taggers   []Tagger
	threshold float64
	logger    *log.Logger
}

// NewClassifier creates a classifier over the given taggers. threshold is the
// minimum tagger confidence for an entity verdict.
func NewClassifier(lex *Lexicon, taggers []Tagger, threshold float64, logger *log.Logger) *Classifier {
	return &Classifier{lex: lex, taggers: taggers, threshold: threshold, logger: logger}
}

// Classify produces one verdict per unknown token occurrence, in input order.
func (c *Classifier) Classify(ctx context.Context, text string, unknown []Token) []ClassifiedToken {
	if len(unknown) == 0 {
		return nil
	}
	var entitySpans []EntitySpan
	for _, tagger := range c.taggers {
		spans, err := tagger.Tag(ctx, text)
		if err != nil {
			c.logf("tagger %s degraded: %v", tagger.Name(), err)
			continue
		}
		for _, sp := range spans {
			if sp.Confidence >= c.threshold {
				entitySpans = append(entitySpans, sp)
			}
		}
	}

	out := make([]ClassifiedToken, 0, len(unknown))
	for _, tok := range unknown {
		out = append(out, ClassifiedToken{Token: tok, Verdict: c.verdict(tok, entitySpans)})
	}
	return out
}

func (c *Classifier) verdict(tok Token, entities []EntitySpan) Verdict {
	if c.lex != nil && c.lex.IsProtected(tok.Text) {
		return VerdictProtected
	}
	for _, sp := range entities {
		if sp.Start < tok.End && sp.End > tok.Start {
			return VerdictEntity
		}
	}
	return VerdictMisspelling
}

func (c *Classifier) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
