package corrector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
)

// Sentinel errors for the pipeline's error taxonomy.
var (
	// ErrLexiconNotReady means row processing was attempted before the
	// lexicon was built. This is a process-level precondition violation.
	ErrLexiconNotReady = errors.New("lexicon not ready")
	// ErrMalformedRow means a row is missing a required field. The row is
	// rejected; the batch continues.
	ErrMalformedRow = errors.New("malformed row")
)

// RowError reports a single rejected row from a batch run.
type RowError struct {
	RowID string
	Err   error
}

// Service sequences the correction stages for document rows. It holds only
// immutable state after construction, so any number of rows may be processed
// concurrently against one Service.
type Service struct {
	lex        *Lexicon
	cfg        Config
	detector   *SpanDetector
	segmenter  *Segmenter
	desub      *Desubstituter
	dates      *DateCorrector
	unknown    *MisspellingDetector
	classifier *Classifier
	speller    *Speller
	logger     *log.Logger
}

// NewService wires the correction stages over a frozen lexicon. The taggers
// are optional: with none, unknown-word classification runs dictionary-only.
func NewService(lex *Lexicon, cfg Config, taggers []Tagger, logger *log.Logger) (*Service, error) {
	if lex == nil {
		return nil, ErrLexiconNotReady
	}
	cfg.ApplyDefaults()
	detector := NewSpanDetector(lex)
	return &Service{
		lex:        lex,
		cfg:        cfg,
		detector:   detector,
		segmenter:  NewSegmenter(lex, detector),
		desub:      NewDesubstituter(lex, detector),
		dates:      NewDateCorrector(detector),
		unknown:    NewMisspellingDetector(lex, detector),
		classifier: NewClassifier(lex, taggers, cfg.EntityThreshold, logger),
		speller:    NewSpeller(lex, cfg.Lexicon.MaxEditDistance),
		logger:     logger,
	}, nil
}

// Config returns a copy of the service configuration.
func (s *Service) Config() Config {
	return s.cfg.Clone()
}

// ProcessRow runs one row through the full stage sequence
// Raw -> Segmented -> Desubstituted -> DateFixed -> Classified ->
// SpellCorrected -> Scored and returns its correction record. Protected
// spans are recomputed inside every stage that can shift offsets. The only
// error is a malformed row; collaborator trouble degrades inside the
// classifier instead of failing the row.
func (s *Service) ProcessRow(ctx context.Context, row DocumentRow) (CorrectionRecord, error) {
	if row.RowID == "" || row.ParaText == "" {
		return CorrectionRecord{}, fmt.Errorf("row %q: %w", row.RowID, ErrMalformedRow)
	}

	original := row.ParaText
	text := NormalizeText(original)
	var issues []IssueKind

	if next := s.segmenter.Segment(text); next != text {
		issues = append(issues, IssueSpacing)
		text = next
	}
	if next := s.desub.Desubstitute(text); next != text {
		issues = append(issues, IssueCharSubstitution)
		text = next
	}
	if next := s.dates.FixDates(text); next != text {
		issues = append(issues, IssueDate)
		text = next
	}

	unknown := s.unknown.FindUnknown(text)
	verdicts := s.classifier.Classify(ctx, text, unknown)
	if next := s.speller.ApplyCorrections(text, verdicts); next != text {
		issues = append(issues, IssueSpelling)
		text = next
	}

	return CorrectionRecord{
		RowID:          row.RowID,
		OriginalText:   original,
		CleanedText:    text,
		DetectedIssues: issues,
		Confidence:     Score(original, text),
	}, nil
}

// ProcessRows fans rows out over a worker pool. The shared lexicon is
// read-only, so rows are fully independent; results come back in input
// order. Malformed rows are collected as RowErrors and never abort the
// batch.
func (s *Service) ProcessRows(ctx context.Context, rows []DocumentRow) ([]CorrectionRecord, []RowError) {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers < 1 {
		workers = 1
	}

	type result struct {
		idx    int
		record CorrectionRecord
		err    error
	}
	jobs := make(chan int)
	results := make(chan result)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rec, err := s.ProcessRow(ctx, rows[idx])
				results <- result{idx: idx, record: rec, err: err}
			}
		}()
	}
	go func() {
		for idx := range rows {
			jobs <- idx
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	records := make([]CorrectionRecord, len(rows))
	processed := make([]bool, len(rows))
	var rowErrs []RowError
	for res := range results {
		if res.err != nil {
			s.logf("row %s rejected: %v", rows[res.idx].RowID, res.err)
			rowErrs = append(rowErrs, RowError{RowID: rows[res.idx].RowID, Err: res.err})
			continue
		}
		records[res.idx] = res.record
		processed[res.idx] = true
	}

	out := make([]CorrectionRecord, 0, len(rows))
	for i, ok := range processed {
		if ok {
			out = append(out, records[i])
		}
	}
	return out, rowErrs
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
