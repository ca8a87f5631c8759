package corrector

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// SpanKind labels why a text region is protected from correction.
type SpanKind string

const (
	SpanListMarker    SpanKind = "numbered_list_marker"
	SpanDate          SpanKind = "date"
	SpanPhone         SpanKind = "phone_number"
	SpanPostal        SpanKind = "postal_code"
	SpanShortWord     SpanKind = "short_word"
	SpanProtectedWord SpanKind = "alphanumeric_code"
)

// Span marks a byte range that no corrector may alter, split, or merge with
// neighboring text.
type Span struct {
	Start int
	End   int
	Kind  SpanKind
}

// Covers reports whether the byte range [start,end) lies inside the span.
func (s Span) Covers(start, end int) bool {
	return start >= s.Start && end <= s.End
}

// Overlaps reports whether the byte range [start,end) intersects the span.
func (s Span) Overlaps(start, end int) bool {
	return start < s.End && end > s.Start
}

var (
	listMarkerRe = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]`)
	// tolerantDateRe matches date-shaped tokens whose digit positions may
	// carry a single OCR-confused letter per field (e.g. "04/03/202S").
	tolerantDateRe = regexp.MustCompile(`[0-9OoIlSsBEeZz]{1,2}([/\-.])[0-9OoIlSsBEeZz]{1,2}([/\-.])[0-9OoIlSsBEeZz]{2,4}`)
	phoneRe        = regexp.MustCompile(`\+?\d(?:[ ()./-]?\d){6,10}`)
	alnumTokenRe   = regexp.MustCompile(`[A-Za-z0-9]+(?:'[A-Za-z]+)?`)
)

// SpanDetector finds regions of a text that must never be altered. Rules run
// in priority order; a later rule cannot claim bytes an earlier rule already
// claimed, so the returned spans are non-overlapping.
type SpanDetector struct {
	lex *Lexicon
}

// NewSpanDetector creates a detector backed by the lexicon's protected set.
// A nil lexicon disables the protected-word rule only.
func NewSpanDetector(lex *Lexicon) *SpanDetector {
	return &SpanDetector{lex: lex}
}

// Spans returns the protected spans of text, sorted by start offset.
func (d *SpanDetector) Spans(text string) []Span {
	claimed := make([]bool, len(text))
	var spans []Span

	claim := func(start, end int, kind SpanKind) {
		for i := start; i < end; i++ {
			if claimed[i] {
				return
			}
		}
		for i := start; i < end; i++ {
			claimed[i] = true
		}
		spans = append(spans, Span{Start: start, End: end, Kind: kind})
	}

	for _, m := range listMarkerRe.FindAllStringIndex(text, -1) {
		claim(m[0], m[1], SpanListMarker)
	}
	for _, m := range tolerantDateRe.FindAllStringIndex(text, -1) {
		if !isolatedMatch(text, m[0], m[1]) {
			continue
		}
		if _, _, ok := splitDateFields(text[m[0]:m[1]]); ok {
			claim(m[0], m[1], SpanDate)
		}
	}
	for _, m := range phoneRe.FindAllStringIndex(text, -1) {
		if !isolatedMatch(text, m[0], m[1]) {
			continue
		}
		claim(m[0], m[1], SpanPhone)
	}
	for _, m := range alnumTokenRe.FindAllStringIndex(text, -1) {
		if !isolatedMatch(text, m[0], m[1]) {
			continue
		}
		tok := text[m[0]:m[1]]
		n := utf8.RuneCountInString(tok)
		switch {
		case n >= 5 && n <= 8 && strings.ContainsAny(tok, "0123456789"):
			claim(m[0], m[1], SpanPostal)
		case n <= 2:
			claim(m[0], m[1], SpanShortWord)
		case d.lex != nil && d.lex.IsProtected(tok):
			claim(m[0], m[1], SpanProtectedWord)
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// isolatedMatch rejects matches glued to surrounding alphanumerics, so a
// digit run inside a longer code is not claimed piecemeal.
func isolatedMatch(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isAlnum(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isAlnum(r) {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// splitDateFields breaks a tolerant date match into its three fields and the
// two separators. It rejects candidates where any field needs more than one
// character repaired, which keeps random letter runs out of the date rule.
func splitDateFields(s string) ([3]string, [2]string, bool) {
	var fields [3]string
	var seps [2]string
	idx := 0
	start := 0
	for i, r := range s {
		if r == '/' || r == '-' || r == '.' {
			if idx >= 2 {
				return fields, seps, false
			}
			fields[idx] = s[start:i]
			seps[idx] = string(r)
			idx++
			start = i + utf8.RuneLen(r)
		}
	}
	if idx != 2 {
		return fields, seps, false
	}
	fields[2] = s[start:]
	for _, f := range fields {
		if f == "" {
			return fields, seps, false
		}
		nonDigit := 0
		for _, r := range f {
			if r < '0' || r > '9' {
				nonDigit++
			}
		}
		if nonDigit > 1 {
			return fields, seps, false
		}
	}
	return fields, seps, true
}

// spanIndex supports fast "is this range protected" checks during a stage.
type spanIndex []Span

func (si spanIndex) covered(start, end int) bool {
	for _, s := range si {
		if s.Covers(start, end) {
			return true
		}
	}
	return false
}

func (si spanIndex) overlaps(start, end int) bool {
	for _, s := range si {
		if s.Overlaps(start, end) {
			return true
		}
	}
	return false
}
