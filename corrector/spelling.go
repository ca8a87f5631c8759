package corrector

import (
	"sort"
	"strings"
	"unicode"
)

// Speller applies the top-ranked lexicon candidate to confirmed misspellings.
type Speller struct {
	lex     *Lexicon
	maxDist int
}

// NewSpeller creates a speller with the given candidate edit-distance bound.
func NewSpeller(lex *Lexicon, maxDist int) *Speller {
	return &Speller{lex: lex, maxDist: maxDist}
}

// ApplyCorrections replaces every misspelling occurrence with its best
// candidate at the original surface position. Entity and protected verdicts
// are left byte-for-byte untouched, as is any token without a candidate
// inside the edit-distance bound: no candidate is never an error, the token
// simply survives.
func (s *Speller) ApplyCorrections(text string, verdicts []ClassifiedToken) string {
	ordered := make([]ClassifiedToken, len(verdicts))
	copy(ordered, verdicts)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Token.Start < ordered[j].Token.Start })

	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, ct := range ordered {
		if ct.Verdict != VerdictMisspelling {
			continue
		}
		if ct.Token.Start < last || ct.Token.End > len(text) {
			continue
		}
		cands := s.lex.Candidates(ct.Token.Text, s.maxDist)
		if len(cands) == 0 {
			continue
		}
		out.WriteString(text[last:ct.Token.Start])
		out.WriteString(applyCasePattern(cands[0].Term, ct.Token.Text))
		last = ct.Token.End
	}
	out.WriteString(text[last:])
	return out.String()
}

// applyCasePattern transfers the surface casing of the original token onto
// the lowercase candidate.
func applyCasePattern(candidate, original string) string {
	if isUpperWord(original) {
		return strings.ToUpper(candidate)
	}
	if isTitleWord(original) {
		return titleWord(candidate)
	}
	return candidate
}

func isUpperWord(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isTitleWord(s string) bool {
	r := []rune(s)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return false
	}
	for _, c := range r[1:] {
		if unicode.IsLetter(c) && unicode.IsUpper(c) {
			return false
		}
	}
	return true
}

func titleWord(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(unicode.ToUpper(r[0])) + string(r[1:])
}
