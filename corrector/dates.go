package corrector

import "strings"

// DateCorrector repairs OCR-confused characters inside date-shaped tokens.
type DateCorrector struct {
	detector *SpanDetector
}

// NewDateCorrector creates a corrector over the given span detector.
func NewDateCorrector(detector *SpanDetector) *DateCorrector {
	return &DateCorrector{detector: detector}
}

// FixDates rewrites confusable letters into digits inside spans the detector
// flagged as date-like. Only positions the date grammar expects to be digits
// are touched; separators stay as matched, and the day/month/year arrangement
// is never reordered.
func (c *DateCorrector) FixDates(text string) string {
	spans := c.detector.Spans(text)
	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, sp := range spans {
		if sp.Kind != SpanDate {
			continue
		}
		fixed, changed := fixDateToken(text[sp.Start:sp.End])
		if !changed {
			continue
		}
		out.WriteString(text[last:sp.Start])
		out.WriteString(fixed)
		last = sp.End
	}
	out.WriteString(text[last:])
	return out.String()
}

// fixDateToken repairs the digit fields of one date-shaped token. A field is
// rewritten only when every non-digit character in it has a digit reading.
func fixDateToken(tok string) (string, bool) {
	fields, seps, ok := splitDateFields(tok)
	if !ok {
		return tok, false
	}
	changed := false
	for i, f := range fields {
		repaired, ok := repairDigits(f)
		if ok && repaired != f {
			fields[i] = repaired
			changed = true
		}
	}
	if !changed {
		return tok, false
	}
	return fields[0] + seps[0] + fields[1] + seps[1] + fields[2], true
}

func repairDigits(field string) (string, bool) {
	runes := []rune(field)
	for i, r := range runes {
		if r >= '0' && r <= '9' {
			continue
		}
		d, ok := letterToDigit[r]
		if !ok {
			return field, false
		}
		runes[i] = d
	}
	return string(runes), true
}
