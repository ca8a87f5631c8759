package corrector

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RowParseOptions allows callers to choose which CSV columns map to row
// fields, by header name or 1-based "#index".
type RowParseOptions struct {
	RowIDColumn    string
	DocIDColumn    string
	ParaIDColumn   string
	ParaTypeColumn string
	TextColumn     string
}

// ReadRows loads document rows from a CSV or TSV file. Column resolution
// prefers explicit options, then well-known header names; the text column
// falls back to the last column when no header matches.
func ReadRows(path string, opts RowParseOptions) ([]DocumentRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty row file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	resolved, skipHeader, err := resolveRowColumns(header, opts)
	if err != nil {
		return nil, err
	}
	start := 0
	if skipHeader {
		start = 1
	}
	out := make([]DocumentRow, 0, len(rows)-start)
	for i, row := range rows[start:] {
		rec := DocumentRow{
			RowID:    cellAt(row, resolved.rowID),
			DocID:    cellAt(row, resolved.docID),
			ParaID:   cellAt(row, resolved.paraID),
			ParaType: cellAt(row, resolved.paraType),
			ParaText: cellAt(row, resolved.text),
		}
		if rec.RowID == "" {
			rec.RowID = strconv.Itoa(start + i + 1)
		}
		out = append(out, rec)
	}
	return out, nil
}

type rowColumns struct {
	rowID, docID, paraID, paraType, text int
}

func resolveRowColumns(header []string, opts RowParseOptions) (rowColumns, bool, error) {
	res := rowColumns{rowID: -1, docID: -1, paraID: -1, paraType: -1, text: -1}
	fromHeader := false
	pick := func(explicit string, candidates []string) (int, error) {
		if strings.TrimSpace(explicit) != "" {
			idx, fh, err := matchExplicitColumn(header, explicit)
			if fh {
				fromHeader = true
			}
			return idx, err
		}
		idx := findColumn(header, candidates)
		if idx >= 0 {
			fromHeader = true
		}
		return idx, nil
	}
	var err error
	if res.rowID, err = pick(opts.RowIDColumn, []string{"row_id", "rowid", "id"}); err != nil {
		return res, false, err
	}
	if res.docID, err = pick(opts.DocIDColumn, []string{"doc_id", "docid", "document"}); err != nil {
		return res, false, err
	}
	if res.paraID, err = pick(opts.ParaIDColumn, []string{"ocr_para_id", "para_id", "paragraph"}); err != nil {
		return res, false, err
	}
	if res.paraType, err = pick(opts.ParaTypeColumn, []string{"ocr_para_type", "para_type", "type"}); err != nil {
		return res, false, err
	}
	if res.text, err = pick(opts.TextColumn, []string{"ocr_para_text", "para_text", "text"}); err != nil {
		return res, false, err
	}
	if res.text < 0 && len(header) > 0 {
		res.text = len(header) - 1
	}
	return res, fromHeader, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\uFEFF")
	return v
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

func matchExplicitColumn(header []string, explicit string) (int, bool, error) {
	trimmed := strings.TrimSpace(explicit)
	if trimmed == "" {
		return -1, false, nil
	}
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, true, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, false, err
		}
		if idx >= len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	if trimmed == "" {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

// LoadFrequencyTable reads a "word count" per line frequency file, the same
// plain format most public unigram tables ship in.
func LoadFrequencyTable(path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frequency table: %w", err)
	}
	defer f.Close()
	out := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		count, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			if fv, err2 := strconv.ParseFloat(fields[1], 64); err2 == nil {
				count = int64(fv)
			} else {
				continue
			}
		}
		out[normalizeKey(fields[0])] += count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan frequency table: %w", err)
	}
	return out, nil
}

// ParseProtectedTerms splits a protected-term definition (file contents or
// flag value) on newlines, commas and semicolons, dropping duplicates.
func ParseProtectedTerms(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	tokens := strings.FieldsFunc(data, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{})
	for _, token := range tokens {
		key := normalizeKey(token)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// LoadProtectedTermsFile reads protected terms from a file.
func LoadProtectedTermsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read protected terms: %w", err)
	}
	return ParseProtectedTerms(string(data)), nil
}

// WriteRecordsCSV writes correction records to w as CSV with a header row.
func WriteRecordsCSV(w io.Writer, records []CorrectionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"row_id", "original_text", "cleaned_text", "detected_issues", "confidence"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		issues := make([]string, len(rec.DetectedIssues))
		for i, k := range rec.DetectedIssues {
			issues[i] = string(k)
		}
		row := []string{
			rec.RowID,
			rec.OriginalText,
			rec.CleanedText,
			strings.Join(issues, "|"),
			strconv.FormatFloat(rec.Confidence, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", rec.RowID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecordsJSON writes correction records to w as JSON lines, one record
// per line, for downstream tooling.
func WriteRecordsJSON(w io.Writer, records []CorrectionRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %s: %w", rec.RowID, err)
		}
	}
	return nil
}
