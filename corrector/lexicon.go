package corrector

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"unicode/utf8"
)

// protectedWeight sits above any weight a boosted frequency can reach, so a
// protected word is always the top-ranked candidate for itself.
const protectedWeight = 1e18

// Candidate is one ranked correction candidate from the lexicon.
type Candidate struct {
	Term     string
	Distance int
	Weight   float64
}

type lexEntry struct {
	baseFreq  int64
	weight    float64
	protected bool
}

// Lexicon is the immutable word-frequency store shared by every corrector.
// It is built once by a LexiconBuilder before row processing starts and is
// safe for concurrent reads afterwards (publish-once, read-many).
type Lexicon struct {
	entries map[string]lexEntry
	byLen   map[int][]string
	total   float64
}

// Weight returns the priority weight for a word, or 0 when unknown.
func (l *Lexicon) Weight(word string) float64 {
	return l.entries[normalizeKey(word)].weight
}

// IsKnown reports whether the word is a lexicon entry.
func (l *Lexicon) IsKnown(word string) bool {
	_, ok := l.entries[normalizeKey(word)]
	return ok
}

// IsProtected reports whether the word belongs to the protected set.
func (l *Lexicon) IsProtected(word string) bool {
	return l.entries[normalizeKey(word)].protected
}

// Size returns the number of lexicon entries.
func (l *Lexicon) Size() int {
	return len(l.entries)
}

// Cost returns the negative log of the word's normalized weight, used by the
// segmentation search. The second return is false for unknown words.
// Protected words clamp to the minimum cost instead of going negative.
func (l *Lexicon) Cost(word string) (float64, bool) {
	e, ok := l.entries[normalizeKey(word)]
	if !ok {
		return 0, false
	}
	const minCost = 0.1
	if l.total <= 0 {
		return minCost, true
	}
	c := -math.Log(e.weight / l.total)
	if c < minCost {
		c = minCost
	}
	return c, true
}

// Candidates returns correction candidates within maxDist edits, ranked by
// ascending edit distance, then descending weight, then shorter candidate,
// then lexicographic order. The ordering is fully deterministic.
func (l *Lexicon) Candidates(word string, maxDist int) []Candidate {
	key := normalizeKey(word)
	if key == "" || maxDist < 0 {
		return nil
	}
	n := utf8.RuneCountInString(key)
	var out []Candidate
	for length := n - maxDist; length <= n+maxDist; length++ {
		for _, term := range l.byLen[length] {
			d, ok := editDistanceWithin(key, term, maxDist)
			if !ok {
				continue
			}
			out = append(out, Candidate{Term: term, Distance: d, Weight: l.entries[term].weight})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if len(a.Term) != len(b.Term) {
			return len(a.Term) < len(b.Term)
		}
		return a.Term < b.Term
	})
	return out
}

// LexiconBuilder accumulates frequency sources and produces a frozen Lexicon.
type LexiconBuilder struct {
	cfg       LexiconConfig
	static    map[string]int64
	observed  map[string]int64
	protected map[string]struct{}
}

// NewLexiconBuilder creates a builder with the given configuration.
func NewLexiconBuilder(cfg LexiconConfig) *LexiconBuilder {
	if cfg.BoostThreshold <= 0 {
		cfg.BoostThreshold = 5
	}
	if cfg.BoostFactor <= 1 {
		cfg.BoostFactor = 1000
	}
	return &LexiconBuilder{
		cfg:       cfg,
		static:    make(map[string]int64),
		observed:  make(map[string]int64),
		protected: make(map[string]struct{}),
	}
}

// AddFrequencyTable merges a static word-frequency mapping.
func (b *LexiconBuilder) AddFrequencyTable(freqs map[string]int64) *LexiconBuilder {
	for word, count := range freqs {
		key := normalizeKey(word)
		if key == "" || count <= 0 {
			continue
		}
		b.static[key] += count
	}
	return b
}

var corpusWordRe = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)

// ObserveCorpus tallies word occurrences from a target-corpus text. Words
// seen at least BoostThreshold times across all observed text receive the
// domain boost at Build time.
func (b *LexiconBuilder) ObserveCorpus(text string) *LexiconBuilder {
	for _, word := range corpusWordRe.FindAllString(text, -1) {
		b.observed[normalizeKey(word)]++
	}
	return b
}

// AddProtected injects manually curated protected terms. Protected words are
// pinned at a weight above anything the boost can produce.
func (b *LexiconBuilder) AddProtected(words ...string) *LexiconBuilder {
	for _, word := range words {
		key := normalizeKey(word)
		if key == "" {
			continue
		}
		b.protected[key] = struct{}{}
	}
	return b
}

// Build freezes the accumulated sources into an immutable Lexicon.
func (b *LexiconBuilder) Build() (*Lexicon, error) {
	if len(b.static) == 0 && len(b.observed) == 0 && len(b.protected) == 0 {
		return nil, errors.New("lexicon has no frequency source")
	}
	lex := &Lexicon{
		entries: make(map[string]lexEntry, len(b.static)+len(b.protected)),
		byLen:   make(map[int][]string),
	}
	for word, count := range b.static {
		lex.entries[word] = lexEntry{baseFreq: count, weight: float64(count)}
	}
	for word, seen := range b.observed {
		if seen < int64(b.cfg.BoostThreshold) {
			continue
		}
		base := b.static[word]
		if base == 0 {
			base = seen
		}
		lex.entries[word] = lexEntry{baseFreq: base, weight: float64(base) * b.cfg.BoostFactor}
	}
	for word := range b.protected {
		e := lex.entries[word]
		e.protected = true
		e.weight = protectedWeight
		if e.baseFreq == 0 {
			e.baseFreq = 1
		}
		lex.entries[word] = e
	}
	for word, e := range lex.entries {
		lex.byLen[utf8.RuneCountInString(word)] = append(lex.byLen[utf8.RuneCountInString(word)], word)
		if !e.protected {
			lex.total += e.weight
		}
	}
	for _, words := range lex.byLen {
		sort.Strings(words)
	}
	if lex.total <= 0 {
		lex.total = 1
	}
	return lex, nil
}
