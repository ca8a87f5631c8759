// Package ner implements the transformer-based entity tagging collaborator
// on top of a local ONNX token-classification model.
package ner

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"ocrclean/corrector"
)

// Config locates the model artifacts.
type Config struct {
	// OrtDLL optionally overrides the onnxruntime shared library path.
	OrtDLL string
	// ModelPath is the ONNX token-classification model.
	ModelPath string
	// TokenizerPath is the tokenizer.json matching the model.
	TokenizerPath string
	// LabelsPath lists the model's BIO labels, one per line.
	LabelsPath string
	// MaxSeqLen truncates long paragraphs before inference.
	MaxSeqLen int
}

var ortInit sync.Once

// Tagger runs a BIO token-classification model and reports entity spans.
// Tag results are cached in memory per input text.
type Tagger struct {
	cfg     Config
	tk      *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
	labels  []string

	mu    sync.RWMutex
	cache map[string][]corrector.EntitySpan
}

// New loads the tokenizer, labels and ONNX session. Any missing artifact
// returns an error wrapping corrector.ErrTaggerUnavailable so callers can
// fall back to degraded mode instead of failing.
func New(cfg Config) (*Tagger, error) {
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 256
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %v: %w", err, corrector.ErrTaggerUnavailable)
	}
	labels, err := loadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, corrector.ErrTaggerUnavailable)
	}

	var initErr error
	ortInit.Do(func() {
		if cfg.OrtDLL != "" {
			ort.SetSharedLibraryPath(cfg.OrtDLL)
		}
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %v: %w", initErr, corrector.ErrTaggerUnavailable)
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("open model session: %v: %w", err, corrector.ErrTaggerUnavailable)
	}

	return &Tagger{
		cfg:     cfg,
		tk:      tk,
		session: session,
		labels:  labels,
		cache:   make(map[string][]corrector.EntitySpan),
	}, nil
}

// Name identifies the collaborator in pipeline logs.
func (t *Tagger) Name() string { return "onnx-ner" }

// Close releases the ONNX session.
func (t *Tagger) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session != nil {
		err := t.session.Destroy()
		t.session = nil
		return err
	}
	return nil
}

// Tag returns entity spans with byte offsets into text.
func (t *Tagger) Tag(ctx context.Context, text string) ([]corrector.EntitySpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, corrector.ErrTaggerUnavailable)
	}
	key := cacheKey(text)
	if spans, ok := t.fromCache(key); ok {
		return spans, nil
	}

	t.mu.RLock()
	session := t.session
	t.mu.RUnlock()
	if session == nil {
		return nil, corrector.ErrTaggerUnavailable
	}

	en, err := t.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("encode text: %v: %w", err, corrector.ErrTaggerUnavailable)
	}
	seqLen := len(en.Ids)
	if seqLen == 0 {
		return nil, nil
	}
	if seqLen > t.cfg.MaxSeqLen {
		seqLen = t.cfg.MaxSeqLen
	}

	ids := make([]int64, seqLen)
	mask := make([]int64, seqLen)
	for i := 0; i < seqLen; i++ {
		ids[i] = int64(en.Ids[i])
		mask[i] = int64(en.AttentionMask[i])
	}

	shape := ort.NewShape(1, int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %v: %w", err, corrector.ErrTaggerUnavailable)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("mask tensor: %v: %w", err, corrector.ErrTaggerUnavailable)
	}
	defer maskTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := session.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return nil, fmt.Errorf("run model: %v: %w", err, corrector.ErrTaggerUnavailable)
	}
	logitsTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected logits type: %w", corrector.ErrTaggerUnavailable)
	}
	defer logitsTensor.Destroy()

	probs := softmaxRows(logitsTensor.GetData(), seqLen, len(t.labels))
	spans := decodeBIO(tokenView(en, seqLen), probs, t.labels)

	t.store(key, spans)
	return spans, nil
}

type wordToken struct {
	start, end int
	special    bool
}

func tokenView(en *tokenizer.Encoding, seqLen int) []wordToken {
	out := make([]wordToken, seqLen)
	for i := 0; i < seqLen; i++ {
		tok := wordToken{}
		if i < len(en.SpecialTokenMask) && en.SpecialTokenMask[i] == 1 {
			tok.special = true
		}
		if i < len(en.Offsets) && len(en.Offsets[i]) == 2 {
			tok.start = en.Offsets[i][0]
			tok.end = en.Offsets[i][1]
		}
		out[i] = tok
	}
	return out
}

func (t *Tagger) fromCache(key string) ([]corrector.EntitySpan, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	spans, ok := t.cache[key]
	return spans, ok
}

func (t *Tagger) store(key string, spans []corrector.EntitySpan) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache[key] = spans
}

func cacheKey(text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

func loadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()
	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			labels = append(labels, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, errors.New("labels file is empty")
	}
	return labels, nil
}
